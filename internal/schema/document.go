package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"schema-deploy/internal/fault"
)

// DefaultFile is looked up next to the executable when no path is configured.
const DefaultFile = "schema.sql"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Locate returns path, or DefaultFile in the executable's directory when path
// is empty.
func Locate(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	ex, err := os.Executable()
	if err != nil {
		return "", fault.New(fault.IO, fmt.Errorf("failed to locate executable: %w", err))
	}
	return filepath.Join(filepath.Dir(ex), DefaultFile), nil
}

// Load reads the whole document. Missing, unreadable, non-UTF-8 and blank
// files are I/O faults.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fault.New(fault.IO, fmt.Errorf("schema file not found at %s: %w", path, err))
		}
		return nil, fault.New(fault.IO, fmt.Errorf("failed to read schema file: %w", err))
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fault.Newf(fault.IO, "schema file %s is not valid UTF-8", path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fault.Newf(fault.IO, "schema file %s is empty", path)
	}

	return &Document{Path: path, SQL: string(data)}, nil
}

// Statements splits the document into individual statements.
func (d *Document) Statements(opts SplitOptions) []string {
	return Split(d.SQL, opts)
}
