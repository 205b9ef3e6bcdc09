// Package dbschema describes the JSONB tables a CQL query is compiled
// against.
//
// A Catalog is built once, from Go values with NewCatalog or from a JSON or
// YAML schema file with LoadFile, and is read-only afterwards. It is safe
// for concurrent use by any number of translations.
package dbschema
