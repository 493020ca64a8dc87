package dialect

import (
	"fmt"

	"github.com/lib/pq"
)

type PostgresDialect struct{}

func (d *PostgresDialect) GetTablesQuery() string {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) CurrentSchemaQuery() string {
	return "SELECT current_schema()"
}

func (d *PostgresDialect) CountQuery(table string) string {
	return DefaultCountQuery(d, table)
}

func (d *PostgresDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(d, table, cols)
}

func (d *PostgresDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return quoteParts(name, pq.QuoteIdentifier)
}

// PrepareDSN leaves the string alone: lib/pq and pgx both take URIs and
// key=value strings, and run parameterless Exec over the simple protocol, which
// accepts a whole multi-statement document.
func (d *PostgresDialect) PrepareDSN(dsn string) (string, error) {
	return dsn, nil
}

func (d *PostgresDialect) SplitsBatches() bool {
	return false
}
