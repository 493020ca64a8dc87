package conn_test

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"schema-deploy/internal/conn"
	"schema-deploy/internal/dialect"
	"schema-deploy/internal/fault"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// statementwise runs PostgreSQL one statement at a time, the way the Oracle
// dialect does.
type statementwise struct {
	*dialect.PostgresDialect
}

func (statementwise) SplitsBatches() bool { return true }

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("postgres"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.PingContext(ctx))
	return db
}

func TestSQLTarget_ExecRawStatementByStatement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := setupDB(t)
	ctx := context.Background()

	target := conn.NewSQLTarget(db, statementwise{&dialect.PostgresDialect{}}, "")
	var bar bytes.Buffer
	target.ShowProgress = true
	target.ProgressOut = &bar

	err := target.ExecRaw(ctx, `CREATE TABLE raffle_configs (id int PRIMARY KEY);
CREATE TABLE users (id int PRIMARY KEY);
CREATE TABLE broken (id int,);
CREATE TABLE quotas (id int);`)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Database))
	assert.Contains(t, err.Error(), "failed to execute statement 3 of 4")
	assert.Contains(t, err.Error(), "SQLSTATE 42601")

	// Each statement commits on its own, so the first two stay applied.
	tables, err := target.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"raffle_configs", "users"}, tables)

	assert.Contains(t, bar.String(), "Executing: ")
}

func TestSQLTarget_ExecRawWholeDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := setupDB(t)
	ctx := context.Background()

	target := conn.NewSQLTarget(db, &dialect.PostgresDialect{}, "")
	require.NoError(t, target.ExecRaw(ctx, `CREATE TABLE raffle_configs (id int PRIMARY KEY, name text);
INSERT INTO raffle_configs VALUES (1, 'Rifa iPhone 17');`))

	n, err := target.CountRows(ctx, "raffle_configs")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	row, err := target.FirstRow(ctx, "raffle_configs", []string{"name"})
	require.NoError(t, err)
	assert.Equal(t, conn.Row{"name": "Rifa iPhone 17"}, row)
}
