package conn

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"

	"schema-deploy/internal/dialect"
	"schema-deploy/internal/fault"
	"schema-deploy/internal/schema"

	"github.com/gosuri/uiprogress"
)

// SQLTarget is a privileged connection through database/sql.
type SQLTarget struct {
	db     *sql.DB
	d      dialect.Dialect
	schema string

	// ShowProgress draws a bar while a split document executes.
	ShowProgress bool
	ProgressOut  io.Writer
}

var _ Target = (*SQLTarget)(nil)

// OpenSQL opens and pings a connection. Driver and network failures are
// database faults; an unknown driver is a configuration fault.
func OpenSQL(ctx context.Context, driver, dsn, schemaName string) (*SQLTarget, error) {
	d, err := dialect.GetDialect(driver)
	if err != nil {
		return nil, fault.New(fault.Config, err)
	}
	prepared, err := d.PrepareDSN(dsn)
	if err != nil {
		return nil, wrapDB("failed to prepare dsn", err)
	}

	db, err := sql.Open(driver, prepared)
	if err != nil {
		return nil, wrapDB("failed to open db", err)
	}
	// One session for the whole run.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, wrapDB("failed to connect to db", err)
	}
	log.Printf("Using Dialect: %s\n", driver)

	return &SQLTarget{db: db, d: d, schema: d.GetSchemaName(schemaName), ProgressOut: os.Stdout}, nil
}

// NewSQLTarget wraps an already open handle.
func NewSQLTarget(db *sql.DB, d dialect.Dialect, schemaName string) *SQLTarget {
	return &SQLTarget{db: db, d: d, schema: d.GetSchemaName(schemaName), ProgressOut: os.Stdout}
}

func (t *SQLTarget) CanExecRaw() bool {
	return true
}

// ExecRaw runs the document outside any explicit transaction, so each
// statement commits as it completes. A failure part way leaves the earlier
// statements applied.
func (t *SQLTarget) ExecRaw(ctx context.Context, sqlText string) error {
	if !t.d.SplitsBatches() {
		if _, err := t.db.ExecContext(ctx, sqlText); err != nil {
			return wrapDB("failed to execute schema", err)
		}
		return nil
	}

	stmts := schema.Split(sqlText, schema.SplitOptions{Blocks: true})
	log.Printf("Executing %d statements one by one", len(stmts))

	var bar *uiprogress.Bar
	if t.ShowProgress && len(stmts) > 0 {
		progress := uiprogress.New()
		progress.SetOut(t.ProgressOut)
		bar = progress.AddBar(len(stmts)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Executing: "
		})
		progress.Start()
		defer progress.Stop()
	}

	for i, stmt := range stmts {
		if _, err := t.db.ExecContext(ctx, stmt); err != nil {
			return wrapDB(fmt.Sprintf("failed to execute statement %d of %d", i+1, len(stmts)), err)
		}
		if bar != nil {
			bar.Incr()
		}
	}
	return nil
}

func (t *SQLTarget) currentSchema(ctx context.Context) (string, error) {
	if t.schema != "" {
		return t.schema, nil
	}
	var name sql.NullString
	if err := t.db.QueryRowContext(ctx, t.d.CurrentSchemaQuery()).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to get current schema: %s", Describe(err))
	}
	if name.String == "" {
		return "", fmt.Errorf("no schema selected in connection string")
	}
	t.schema = name.String
	return t.schema, nil
}

func (t *SQLTarget) Tables(ctx context.Context) ([]string, error) {
	target, err := t.currentSchema(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := t.db.QueryContext(ctx, t.d.GetTablesQuery(), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %s", Describe(err))
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

func (t *SQLTarget) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := t.db.QueryRowContext(ctx, t.d.CountQuery(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %s", table, Describe(err))
	}
	return n, nil
}

func (t *SQLTarget) FirstRow(ctx context.Context, table string, cols []string) (Row, error) {
	query := t.d.GetLimitRowQuery(t.d.SelectQuery(table, cols), 1)
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %s", table, Describe(err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", table, err)
		}
		return nil, nil
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", table, err)
	}

	row := make(Row, len(cols))
	for i, c := range cols {
		if b, ok := values[i].([]byte); ok {
			row[c] = string(b)
			continue
		}
		row[c] = values[i]
	}
	return row, nil
}

func (t *SQLTarget) Close() error {
	return t.db.Close()
}
