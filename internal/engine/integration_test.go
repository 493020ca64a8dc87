package engine_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"schema-deploy/internal/conn"
	"schema-deploy/internal/engine"
	"schema-deploy/internal/resolver"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
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
	return connStr
}

func TestRun_AgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	connStr := startPostgres(t)

	cfg := testConfig(t, "https://proj123.example.co", "", raffleSchema)
	var out bytes.Buffer
	r := &resolver.Resolver{Config: cfg, Input: resolver.Static{Line: connStr}, Out: &out}
	d := &engine.Deployer{
		Config:   cfg,
		Resolve:  r.Privileged,
		Open:     conn.NewOpener(conn.Options{RESTPath: cfg.REST.Path, RESTTimeout: cfg.REST.Timeout}),
		Verifier: engine.NewVerifier(cfg.Verify),
		Out:      &out,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := d.Run(ctx)
	require.NoError(t, err, out.String())
	assert.Equal(t, engine.StageDone, res.Stage)
	assert.True(t, res.Applied)

	report := res.Report
	assert.Equal(t, raffleTables, report.Tables)
	assert.Empty(t, report.Missing)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, int64(100), report.RowCount)
	require.NotNil(t, report.Sample)
	assert.Equal(t, "Rifa iPhone 17", report.Sample["name"])
	assert.Equal(t, int64(100), report.Sample["total_quotas"])

	target, err := conn.OpenSQL(ctx, "postgres", connStr, "")
	require.NoError(t, err)
	defer target.Close()

	tables, err := target.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, raffleTables, tables)
}

func TestOpenSQL_BadStatementIsDescribed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	connStr := startPostgres(t)
	ctx := context.Background()

	target, err := conn.OpenSQL(ctx, "pgx", connStr, "")
	require.NoError(t, err)
	defer target.Close()

	err = target.ExecRaw(ctx, "CREATE TABLE ok_table (id int);\nCREATE TABLE broken (id int,);")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")

	// The server parses the whole batch first, so nothing ran.
	tables, err := target.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}
