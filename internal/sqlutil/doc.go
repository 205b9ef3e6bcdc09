// Package sqlutil holds the text-level SQL helpers used by the CQL compiler:
// literal quoting, identifier validation, CQL masking to LIKE patterns, the
// PostgreSQL number grammar and full-text word normalization.
//
// Quote is the only way a literal enters generated SQL.
package sqlutil
