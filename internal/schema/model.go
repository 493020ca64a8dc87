package schema

// Document is the SQL text to deploy. It is read once and never modified.
type Document struct {
	Path string
	SQL  string
}

// Table is a table declared by a Document.
type Table struct {
	Name         string
	Dependencies []string // tables referenced by foreign keys
	Position     int      // statement index in the document
}

// OrderProblem is a foreign key that points at a table the document only
// declares later, which makes the document fail when run top to bottom.
type OrderProblem struct {
	Table      string
	References string
}
