package dialect

// Dialect abstracts the driver-specific SQL the deployer and verifier need.
type Dialect interface {
	// Introspection
	GetTablesQuery() string // binds one parameter: the schema name
	GetSchemaName(input string) string
	CurrentSchemaQuery() string

	// Query generation
	CountQuery(table string) string
	SelectQuery(table string, cols []string) string
	GetLimitRowQuery(query string, limit int) string
	QuoteIdent(name string) string

	// Execution
	PrepareDSN(dsn string) (string, error)
	SplitsBatches() bool // driver cannot run a multi-statement document in one Exec
}
