package schema_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"schema-deploy/internal/fault"
	"schema-deploy/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc, err := schema.Load("testdata/raffle.sql")
	require.NoError(t, err)
	assert.Equal(t, "testdata/raffle.sql", doc.Path)
	assert.Contains(t, doc.SQL, "CREATE TABLE IF NOT EXISTS quotas")
}

func TestLoad_Missing(t *testing.T) {
	_, err := schema.Load(filepath.Join(t.TempDir(), "schema.sql"))
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.IO))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_Directory(t *testing.T) {
	_, err := schema.Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.IO))
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE t (v TEXT DEFAULT '\xff\xfe');"), 0o600))

	_, err := schema.Load(path)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.IO))
}

func TestLoad_StripsBOMAndRejectsBlank(t *testing.T) {
	dir := t.TempDir()

	withBOM := filepath.Join(dir, "bom.sql")
	require.NoError(t, os.WriteFile(withBOM, append([]byte{0xEF, 0xBB, 0xBF}, "SELECT 1;"...), 0o600))
	doc, err := schema.Load(withBOM)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", doc.SQL)

	blank := filepath.Join(dir, "blank.sql")
	require.NoError(t, os.WriteFile(blank, []byte(" \n\t"), 0o600))
	_, err = schema.Load(blank)
	assert.True(t, fault.Is(err, fault.IO))
}

func TestLocate(t *testing.T) {
	path, err := schema.Locate("custom/schema.sql")
	require.NoError(t, err)
	assert.Equal(t, "custom/schema.sql", path)

	path, err = schema.Locate("")
	require.NoError(t, err)
	ex, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(ex), schema.DefaultFile), path)
}
