package cmd

import (
	"bytes"
	"testing"

	"schema-deploy/internal/fault"
	"schema-deploy/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_RaffleSchema(t *testing.T) {
	doc, err := schema.Load("../internal/schema/testdata/raffle.sql")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, inspect(&out, doc, "public"))

	s := out.String()
	assert.Contains(t, s, "9 statements")
	assert.Contains(t, s, "📊 4 tables in creation order:")
	assert.Contains(t, s, "   ✓ raffle_configs\n")
	assert.Contains(t, s, "   ✓ transactions (references raffle_configs, users)")
	assert.Contains(t, s, "Every table is created after the tables it references")
}

func TestInspect_ForwardReference(t *testing.T) {
	doc := &schema.Document{Path: "schema.sql", SQL: `
CREATE TABLE quotas (id int, raffle_id int REFERENCES raffle_configs(id));
CREATE TABLE raffle_configs (id int PRIMARY KEY);
`}
	var out bytes.Buffer
	require.NoError(t, inspect(&out, doc, "public"))

	s := out.String()
	assert.Contains(t, s, "quotas references raffle_configs before it is created")
	assert.NotContains(t, s, "Every table is created")
}

func TestInspect_UnparseableDocument(t *testing.T) {
	doc := &schema.Document{Path: "schema.sql", SQL: "CREATE TABEL nope;"}
	err := inspect(&bytes.Buffer{}, doc, "public")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Input))
}
