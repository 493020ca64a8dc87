package conn

import (
	"errors"
	"fmt"
	"strings"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"schema-deploy/internal/fault"
)

// DBError is a driver error annotated with the operation that failed.
type DBError struct {
	Op  string
	Err error
}

func (e *DBError) Error() string {
	return e.Op + ": " + Describe(e.Err)
}

func (e *DBError) Unwrap() error {
	return e.Err
}

func wrapDB(op string, err error) error {
	return fault.New(fault.Database, &DBError{Op: op, Err: err})
}

// Describe renders a driver error on one line, including the SQLSTATE or
// vendor code and any detail the server sent.
func Describe(err error) string {
	var (
		pqErr *pq.Error
		pgErr *pgconn.PgError
		myErr *mysql.MySQLError
		msErr mssql.Error
	)
	switch {
	case errors.As(err, &pqErr):
		return withDetail(fmt.Sprintf("%s (SQLSTATE %s)", pqErr.Message, pqErr.Code), pqErr.Detail, pqErr.Hint, pqErr.Position)
	case errors.As(err, &pgErr):
		pos := ""
		if pgErr.Position > 0 {
			pos = fmt.Sprint(pgErr.Position)
		}
		return withDetail(fmt.Sprintf("%s (SQLSTATE %s)", pgErr.Message, pgErr.Code), pgErr.Detail, pgErr.Hint, pos)
	case errors.As(err, &myErr):
		return fmt.Sprintf("%s (MySQL error %d)", myErr.Message, myErr.Number)
	case errors.As(err, &msErr):
		return fmt.Sprintf("%s (SQL Server error %d, line %d)", msErr.Message, msErr.Number, msErr.LineNo)
	default:
		return err.Error()
	}
}

func withDetail(msg, detail, hint, position string) string {
	var b strings.Builder
	b.WriteString(msg)
	if position != "" {
		b.WriteString(" at position ")
		b.WriteString(position)
	}
	if detail != "" {
		b.WriteString("; detail: ")
		b.WriteString(detail)
	}
	if hint != "" {
		b.WriteString("; hint: ")
		b.WriteString(hint)
	}
	return b.String()
}
