package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) GetTablesQuery() string {
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}

// CurrentSchemaQuery returns the connected user, which owns unqualified tables.
func (d *OracleDialect) CurrentSchemaQuery() string {
	return "SELECT USER FROM DUAL"
}

func (d *OracleDialect) CountQuery(table string) string {
	return DefaultCountQuery(d, table)
}

func (d *OracleDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(d, table, cols)
}

func (d *OracleDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, limit)
}

// QuoteIdent upper-cases before quoting, matching how Oracle stores
// unquoted names.
func (d *OracleDialect) QuoteIdent(name string) string {
	return quoteParts(name, func(s string) string {
		return `"` + strings.ReplaceAll(strings.ToUpper(s), `"`, `""`) + `"`
	})
}

func (d *OracleDialect) PrepareDSN(dsn string) (string, error) {
	return dsn, nil
}

// SplitsBatches is true: go-ora executes exactly one statement per call.
func (d *OracleDialect) SplitsBatches() bool {
	return true
}
