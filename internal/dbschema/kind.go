package dbschema

// Kind is the SQL value kind of a JSON field.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindArray, KindObject:
		return true
	}
	return false
}

// Scalar reports whether values of kind k can be compared directly.
func (k Kind) Scalar() bool {
	return k == KindString || k == KindNumber || k == KindBoolean
}

// IndexType is the kind of database index declared on a field.
type IndexType string

const (
	IndexBtree    IndexType = "btree"
	IndexUnique   IndexType = "unique"
	IndexLike     IndexType = "like"
	IndexGin      IndexType = "gin"
	IndexFullText IndexType = "fulltext"
)

// Valid reports whether t is one of the supported index types.
func (t IndexType) Valid() bool {
	switch t {
	case IndexBtree, IndexUnique, IndexLike, IndexGin, IndexFullText:
		return true
	}
	return false
}
