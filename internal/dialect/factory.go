package dialect

import "fmt"

// GetDialect returns the Dialect for a database/sql driver name.
func GetDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return &PostgresDialect{}, nil
	case "mysql":
		return &MysqlDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "oracle":
		return &OracleDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q (want postgres, pgx, mysql, sqlserver or oracle)", driver)
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
