package engine

import (
	"context"
	"fmt"
	"strings"

	"schema-deploy/internal/config"
	"schema-deploy/internal/conn"
	"schema-deploy/internal/fault"
)

// Verifier runs the post-deployment read checks. Every check is independent
// and a failing one only adds a warning.
type Verifier struct {
	CountTable    string
	SampleTable   string
	SampleColumns []string
}

func NewVerifier(c config.VerifyConfig) *Verifier {
	return &Verifier{
		CountTable:    c.CountTable,
		SampleTable:   c.SampleTable,
		SampleColumns: c.SampleColumns,
	}
}

// Warning is a check that could not complete.
type Warning struct {
	Check string
	Err   error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s failed: %v", w.Check, w.Err)
}

// Report is the read-only outcome of verification.
type Report struct {
	Tables        []string
	TablesChecked bool

	CountTable   string
	RowCount     int64
	CountChecked bool

	SampleTable   string
	SampleColumns []string
	Sample        conn.Row // nil when the table is empty or the check failed

	Declared []string // tables the document creates, when known
	Missing  []string // declared but not enumerated

	Warnings []Warning
}

func (r *Report) warn(check string, err error) {
	r.Warnings = append(r.Warnings, Warning{Check: check, Err: fault.New(fault.Verification, err)})
}

// Verify runs table enumeration, the row count and the sample lookup.
// declared may be nil when the document could not be analyzed.
func (v *Verifier) Verify(ctx context.Context, target conn.Target, declared []string) *Report {
	r := &Report{
		CountTable:    v.CountTable,
		SampleTable:   v.SampleTable,
		SampleColumns: v.SampleColumns,
		Declared:      declared,
	}

	if tables, err := target.Tables(ctx); err != nil {
		r.warn("table enumeration", err)
	} else {
		r.Tables = tables
		r.TablesChecked = true
		if declared != nil {
			r.Missing = missingTables(declared, tables)
			if len(r.Missing) > 0 {
				r.warn("declared tables", fmt.Errorf("%d declared table(s) not found: %s",
					len(r.Missing), strings.Join(r.Missing, ", ")))
			}
		}
	}

	if n, err := target.CountRows(ctx, v.CountTable); err != nil {
		r.warn("row count of "+v.CountTable, err)
	} else {
		r.RowCount = n
		r.CountChecked = true
	}

	if row, err := target.FirstRow(ctx, v.SampleTable, v.SampleColumns); err != nil {
		r.warn("sample from "+v.SampleTable, err)
	} else {
		r.Sample = row
	}

	return r
}

// missingTables compares case-insensitively; Oracle reports names upper-cased.
func missingTables(declared, found []string) []string {
	have := make(map[string]bool, len(found))
	for _, f := range found {
		have[strings.ToLower(f)] = true
	}
	var missing []string
	for _, d := range declared {
		if !have[strings.ToLower(d)] {
			missing = append(missing, d)
		}
	}
	return missing
}
