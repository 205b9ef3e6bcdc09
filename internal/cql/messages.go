package cql

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message formats. Each one is also the lookup key for translations.
const (
	// Syntax
	MsgEmptyQuery            = "empty query"
	MsgUnexpectedToken       = "unexpected %s at position %d"
	MsgExpectedTerm          = "expected search term at position %d, found %s"
	MsgExpectedRParen        = "expected ')' to close group opened at position %d, found %s"
	MsgUnterminatedString    = "unterminated quoted string starting at position %d"
	MsgUnknownRelation       = "unknown relation %q at position %d"
	MsgQuotedIndex           = "index at position %d must not be quoted"
	MsgExpectedModifier      = "expected modifier name after '/' at position %d"
	MsgExpectedModifierValue = "expected modifier value at position %d"
	MsgMaxDepth              = "query nesting exceeds the maximum depth of %d"
	MsgNestedSortBy          = "sortBy is only allowed at the end of the query"
	MsgAllRecords            = "cql.allRecords at position %d only accepts = 1"

	// Fields and values
	MsgInvalidFieldName = "invalid field name %q"
	MsgObjectField      = "field %q is an object and cannot be compared"
	MsgSortArrayField   = "cannot sort by array field %q"
	MsgNotANumber       = "%q is not a number"
	MsgNotABoolean      = "%q is not a boolean"

	// Operator and modifier table
	MsgUnsupportedModifier        = "unsupported modifier %q"
	MsgUnsupportedRelation        = "relation %q is not supported for %s field %q"
	MsgFullTextIndexRequired      = "relation %q requires a full-text index on field %q"
	MsgRelationNotImplemented     = "relation %q is not implemented"
	MsgBooleanModifierUnsupported = "modifiers are not supported on %s"
	MsgProxUnsupported            = "PROX requires both operands to be terms on the same field with a full-text index"
	MsgProxModifier               = "unsupported PROX modifier %q"
	MsgFullTextSingleMask         = "single character mask (?) is not supported in full-text search"
	MsgFullTextTruncation         = "only right truncation is supported in full-text search"
	MsgFullTextAnchor             = "anchoring (^) is not supported in full-text search"

	// Primary key
	MsgPrimaryKeyModifier   = "modifiers are not supported on primary key field %q"
	MsgPrimaryKeyRelation   = "relation %q is not supported on primary key field %q"
	MsgPrimaryKeyUUID       = "invalid UUID after %s on primary key field %q"
	MsgPrimaryKeyTruncation = "only right truncation is supported on primary key field %q"

	// Configuration
	MsgServerChoiceEmpty   = "cql.serverChoice requested, but no server choice indexes are defined"
	MsgServerChoiceBlank   = "server choice index at position %d is empty"
	MsgServerChoiceInvalid = "server choice index %q is not a valid field name"
	MsgTableEmpty          = "table name must not be empty"
	MsgColumnEmpty         = "column name must not be empty"
	MsgInvalidTable        = "invalid table name %q"
	MsgInvalidColumn       = "invalid column name %q"
	MsgInvalidAlias        = "cannot build a join alias for field %q"
)

// Formatter renders an Error message.
type Formatter interface {
	Format(e *Error) string
}

// EnglishFormatter renders messages with fmt.
type EnglishFormatter struct{}

func (EnglishFormatter) Format(e *Error) string {
	return fmt.Sprintf(e.Format, e.Args...)
}

// LocalizedFormatter renders messages through an x/text message printer.
type LocalizedFormatter struct {
	printer *message.Printer
}

// supported lists translated languages, default first.
var supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(supported)

// NewLocalizedFormatter returns a formatter for tag. Languages without
// translations fall back to English.
func NewLocalizedFormatter(tag language.Tag) *LocalizedFormatter {
	_, i, _ := matcher.Match(tag)
	return &LocalizedFormatter{
		printer: message.NewPrinter(supported[i], message.Catalog(messageCatalog)),
	}
}

func (f *LocalizedFormatter) Format(e *Error) string {
	return f.printer.Sprintf(e.Format, e.Args...)
}

// Languages lists the languages with translated messages.
func Languages() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

var messageCatalog = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range german {
		if err := b.SetString(language.German, key, msg); err != nil {
			panic(fmt.Sprintf("cql: invalid translation for %q: %v", key, err))
		}
	}
	for key := range german {
		if err := b.SetString(language.English, key, key); err != nil {
			panic(fmt.Sprintf("cql: invalid message %q: %v", key, err))
		}
	}
	return b
}

var german = map[string]string{
	MsgEmptyQuery:            "leere Abfrage",
	MsgUnexpectedToken:       "unerwartetes %s an Position %d",
	MsgExpectedTerm:          "Suchbegriff an Position %d erwartet, gefunden: %s",
	MsgExpectedRParen:        "')' zum Schließen der Gruppe ab Position %d erwartet, gefunden: %s",
	MsgUnterminatedString:    "nicht abgeschlossene Zeichenkette ab Position %d",
	MsgUnknownRelation:       "unbekannte Relation %q an Position %d",
	MsgQuotedIndex:           "Index an Position %d darf nicht in Anführungszeichen stehen",
	MsgExpectedModifier:      "Modifikatorname nach '/' an Position %d erwartet",
	MsgExpectedModifierValue: "Modifikatorwert an Position %d erwartet",
	MsgMaxDepth:              "Verschachtelungstiefe der Abfrage überschreitet das Maximum von %d",
	MsgNestedSortBy:          "sortBy ist nur am Ende der Abfrage erlaubt",
	MsgAllRecords:            "cql.allRecords an Position %d erlaubt nur = 1",

	MsgInvalidFieldName: "ungültiger Feldname %q",
	MsgObjectField:      "Feld %q ist ein Objekt und kann nicht verglichen werden",
	MsgSortArrayField:   "nach dem Array-Feld %q kann nicht sortiert werden",
	MsgNotANumber:       "%q ist keine Zahl",
	MsgNotABoolean:      "%q ist kein Wahrheitswert",

	MsgUnsupportedModifier:        "nicht unterstützter Modifikator %q",
	MsgUnsupportedRelation:        "Relation %q wird für das %s-Feld %q nicht unterstützt",
	MsgFullTextIndexRequired:      "Relation %q erfordert einen Volltextindex auf Feld %q",
	MsgRelationNotImplemented:     "Relation %q ist nicht implementiert",
	MsgBooleanModifierUnsupported: "Modifikatoren werden bei %s nicht unterstützt",
	MsgProxUnsupported:            "PROX erfordert zwei Suchbegriffe auf demselben Feld mit Volltextindex",
	MsgProxModifier:               "nicht unterstützter PROX-Modifikator %q",
	MsgFullTextSingleMask:         "Maskierung einzelner Zeichen (?) wird in der Volltextsuche nicht unterstützt",
	MsgFullTextTruncation:         "in der Volltextsuche wird nur Rechtstrunkierung unterstützt",
	MsgFullTextAnchor:             "Verankerung (^) wird in der Volltextsuche nicht unterstützt",

	MsgPrimaryKeyModifier:   "Modifikatoren werden beim Primärschlüsselfeld %q nicht unterstützt",
	MsgPrimaryKeyRelation:   "Relation %q wird beim Primärschlüsselfeld %q nicht unterstützt",
	MsgPrimaryKeyUUID:       "ungültige UUID nach %s beim Primärschlüsselfeld %q",
	MsgPrimaryKeyTruncation: "beim Primärschlüsselfeld %q wird nur Rechtstrunkierung unterstützt",

	MsgServerChoiceEmpty:   "cql.serverChoice angefordert, aber keine Server-Choice-Indizes definiert",
	MsgServerChoiceBlank:   "Server-Choice-Index an Position %d ist leer",
	MsgServerChoiceInvalid: "Server-Choice-Index %q ist kein gültiger Feldname",
	MsgTableEmpty:          "Tabellenname darf nicht leer sein",
	MsgColumnEmpty:         "Spaltenname darf nicht leer sein",
	MsgInvalidTable:        "ungültiger Tabellenname %q",
	MsgInvalidColumn:       "ungültiger Spaltenname %q",
	MsgInvalidAlias:        "für Feld %q kann kein Join-Alias gebildet werden",
}
