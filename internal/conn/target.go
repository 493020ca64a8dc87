package conn

import (
	"context"
	"errors"
	"time"

	"schema-deploy/internal/fault"
	"schema-deploy/internal/resolver"
)

// ErrRawSQLUnsupported is returned by targets that can only read rows.
var ErrRawSQLUnsupported = errors.New("raw SQL execution is not supported over this connection")

// Row is one record keyed by the requested column names.
type Row map[string]any

// Target is what the deployer and verifier can do with a resolved
// connection. Only privileged targets execute raw SQL; callers check
// CanExecRaw before trying.
type Target interface {
	CanExecRaw() bool
	ExecRaw(ctx context.Context, sql string) error

	Tables(ctx context.Context) ([]string, error)
	CountRows(ctx context.Context, table string) (int64, error)
	// FirstRow returns nil without error when the table is empty.
	FirstRow(ctx context.Context, table string, cols []string) (Row, error)

	Close() error
}

// Opener turns a descriptor into a live Target.
type Opener func(ctx context.Context, desc resolver.Descriptor) (Target, error)

type Options struct {
	Schema      string        // namespace for table enumeration
	RESTPath    string        // path of the row API below the endpoint
	RESTTimeout time.Duration
	Progress    bool // progress bar for statement-by-statement execution
}

// NewOpener returns an Opener for both descriptor variants.
func NewOpener(opts Options) Opener {
	return func(ctx context.Context, desc resolver.Descriptor) (Target, error) {
		switch desc.Variant {
		case resolver.Privileged:
			t, err := OpenSQL(ctx, desc.Driver, desc.DSN, opts.Schema)
			if err != nil {
				return nil, err
			}
			t.ShowProgress = opts.Progress
			return t, nil
		case resolver.Restricted:
			return NewRESTTable(desc.Endpoint, opts.RESTPath, desc.APIKey, opts.RESTTimeout), nil
		default:
			return nil, fault.Newf(fault.Config, "unresolved connection descriptor")
		}
	}
}
