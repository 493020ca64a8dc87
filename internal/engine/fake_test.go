package engine_test

import (
	"context"
	"errors"

	"schema-deploy/internal/conn"
)

// fakeTarget records what the deployer asked of it.
type fakeTarget struct {
	privileged bool

	tables []string
	count  int64
	sample conn.Row

	execErr   error
	tablesErr error
	countErr  error
	sampleErr error

	executed []string
	closed   bool
}

func (f *fakeTarget) CanExecRaw() bool { return f.privileged }

func (f *fakeTarget) ExecRaw(_ context.Context, sql string) error {
	if !f.privileged {
		return errors.New("ExecRaw called on a restricted target")
	}
	f.executed = append(f.executed, sql)
	return f.execErr
}

func (f *fakeTarget) Tables(context.Context) ([]string, error) {
	return f.tables, f.tablesErr
}

func (f *fakeTarget) CountRows(context.Context, string) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeTarget) FirstRow(context.Context, string, []string) (conn.Row, error) {
	return f.sample, f.sampleErr
}

func (f *fakeTarget) Close() error {
	f.closed = true
	return nil
}
