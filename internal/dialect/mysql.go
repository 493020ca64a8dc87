package dialect

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

type MysqlDialect struct{}

func (d *MysqlDialect) GetTablesQuery() string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

// CurrentSchemaQuery resolves the database named in the DSN.
func (d *MysqlDialect) CurrentSchemaQuery() string {
	return "SELECT DATABASE()"
}

func (d *MysqlDialect) CountQuery(table string) string {
	return DefaultCountQuery(d, table)
}

func (d *MysqlDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(d, table, cols)
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return quoteParts(name, func(s string) string {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	})
}

// PrepareDSN turns on multiStatements so the document runs in one Exec.
func (d *MysqlDialect) PrepareDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}

func (d *MysqlDialect) SplitsBatches() bool {
	return false
}
