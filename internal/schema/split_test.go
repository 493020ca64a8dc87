package schema_test

import (
	"testing"

	"schema-deploy/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Basic(t *testing.T) {
	got := schema.Split("CREATE TABLE a (id INT);\n\nCREATE TABLE b (id INT) ;\n-- trailing comment\n", schema.SplitOptions{})
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"}, got)
}

func TestSplit_IgnoresSemicolonsInLiteralsAndComments(t *testing.T) {
	sql := `INSERT INTO t VALUES ('a;b', 'it''s; fine');
/* block; comment */ SELECT "odd;name" FROM t; -- note; here
SELECT 2`
	got := schema.Split(sql, schema.SplitOptions{})
	require.Len(t, got, 3)
	assert.Equal(t, `INSERT INTO t VALUES ('a;b', 'it''s; fine')`, got[0])
	assert.Equal(t, `/* block; comment */ SELECT "odd;name" FROM t`, got[1])
	assert.Equal(t, "-- note; here\nSELECT 2", got[2])
}

func TestSplit_EscapeStringLiterals(t *testing.T) {
	sql := `INSERT INTO t VALUES (E'it\'s; here', e'\\');
SELECT 'plain\'; SELECT 1;
SELECT name'x'`
	got := schema.Split(sql, schema.SplitOptions{})
	require.Len(t, got, 4)
	assert.Equal(t, `INSERT INTO t VALUES (E'it\'s; here', e'\\')`, got[0])
	assert.Equal(t, `SELECT 'plain\'`, got[1])
	assert.Equal(t, "SELECT 1", got[2])
}

func TestSplit_DollarQuotedBody(t *testing.T) {
	sql := `CREATE FUNCTION f() RETURNS int AS $body$ BEGIN RETURN 1; END; $body$ LANGUAGE plpgsql;
SELECT $$a;b$$;`
	got := schema.Split(sql, schema.SplitOptions{})
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "RETURN 1; END;")
	assert.Equal(t, "SELECT $$a;b$$", got[1])
}

func TestSplit_CommentOnlyDocument(t *testing.T) {
	assert.Empty(t, schema.Split("-- nothing\n/* still nothing */\n;;", schema.SplitOptions{}))
}

func TestSplit_PLSQLBlocks(t *testing.T) {
	sql := `CREATE TABLE quotas (id NUMBER);
CREATE OR REPLACE PROCEDURE seed AS
BEGIN
  INSERT INTO quotas VALUES (1);
  COMMIT;
END;
/
BEGIN
  NULL;
END;
/
INSERT INTO quotas VALUES (2 / 1);`
	got := schema.Split(sql, schema.SplitOptions{Blocks: true})
	require.Len(t, got, 4)
	assert.Equal(t, "CREATE TABLE quotas (id NUMBER)", got[0])
	assert.Contains(t, got[1], "COMMIT;\nEND;")
	assert.Equal(t, "BEGIN\n  NULL;\nEND;", got[2])
	assert.Equal(t, "INSERT INTO quotas VALUES (2 / 1)", got[3])
}

func TestDocument_Statements(t *testing.T) {
	doc, err := schema.Load("testdata/raffle.sql")
	require.NoError(t, err)
	assert.Len(t, doc.Statements(schema.SplitOptions{}), 9)
}
