package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) GetTablesQuery() string {
	// go-mssqldb binds @p1, @p2, ...
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) CurrentSchemaQuery() string {
	return "SELECT SCHEMA_NAME()"
}

func (d *MSSQLDialect) CountQuery(table string) string {
	return DefaultCountQuery(d, table)
}

func (d *MSSQLDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(d, table, cols)
}

func (d *MSSQLDialect) GetLimitRowQuery(query string, limit int) string {
	// T-SQL has no LIMIT; inject TOP after the first SELECT.
	trimmed := strings.TrimSpace(query)
	if len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "SELECT") {
		return fmt.Sprintf("SELECT TOP %d%s", limit, trimmed[6:])
	}
	return query
}

func (d *MSSQLDialect) QuoteIdent(name string) string {
	return quoteParts(name, func(s string) string {
		return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
	})
}

func (d *MSSQLDialect) PrepareDSN(dsn string) (string, error) {
	return dsn, nil
}

// SplitsBatches is false: a document without GO separators runs as one batch.
func (d *MSSQLDialect) SplitsBatches() bool {
	return false
}
