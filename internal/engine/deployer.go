package engine

import (
	"context"
	"fmt"
	"io"
	"log"

	"schema-deploy/internal/config"
	"schema-deploy/internal/conn"
	"schema-deploy/internal/fault"
	"schema-deploy/internal/resolver"
	"schema-deploy/internal/schema"
)

type Stage int

const (
	StageStart Stage = iota
	StageResolveConnection
	StageReadSchema
	StageExecute
	StageVerify
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "START"
	case StageResolveConnection:
		return "RESOLVE_CONNECTION"
	case StageReadSchema:
		return "READ_SCHEMA"
	case StageExecute:
		return "EXECUTE"
	case StageVerify:
		return "VERIFY"
	case StageDone:
		return "DONE"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// StageError is a fatal error together with the stage it ended the run in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result describes a run that reached DONE.
type Result struct {
	Stage      Stage
	Descriptor resolver.Descriptor
	Schema     *schema.Document
	Applied    bool // the document was executed
	Manual     bool // execution was left to the operator
	Report     *Report
}

// Deployer runs START → RESOLVE_CONNECTION → READ_SCHEMA → EXECUTE → VERIFY → DONE.
type Deployer struct {
	Config   *config.Config
	Resolve  func() (resolver.Descriptor, error)
	Open     conn.Opener
	Verifier *Verifier
	Out      io.Writer
}

func (d *Deployer) enter(res *Result, next Stage) {
	log.Printf("[deploy] %s -> %s", res.Stage, next)
	res.Stage = next
}

// fail classifies an unclassified error by the stage it came from.
func (d *Deployer) fail(res *Result, err error) error {
	if fault.ClassOf(err) == fault.Unknown {
		class := fault.Database
		switch res.Stage {
		case StageResolveConnection:
			class = fault.Config
		case StageReadSchema:
			class = fault.IO
		}
		err = fault.New(class, err)
	}
	return &StageError{Stage: res.Stage, Err: err}
}

// Run drives one deployment. A returned error is always a *StageError from
// RESOLVE_CONNECTION, READ_SCHEMA or EXECUTE; verification never fails the run.
func (d *Deployer) Run(ctx context.Context) (*Result, error) {
	res := &Result{Stage: StageStart}

	d.enter(res, StageResolveConnection)
	desc, err := d.Resolve()
	if err != nil {
		return res, d.fail(res, err)
	}
	res.Descriptor = desc
	log.Printf("[deploy] resolved %s connection: %s", desc.Variant, desc)

	d.enter(res, StageReadSchema)
	path, err := schema.Locate(d.Config.SchemaFile)
	if err != nil {
		return res, d.fail(res, err)
	}
	fmt.Fprintf(d.Out, "\n📖 Reading %s...\n", path)
	doc, err := schema.Load(path)
	if err != nil {
		return res, d.fail(res, err)
	}
	res.Schema = doc

	d.enter(res, StageExecute)
	if desc.Variant == resolver.Restricted {
		fmt.Fprintln(d.Out, "🔗 Using the table API (no SQL execution)...")
	} else {
		fmt.Fprintf(d.Out, "🔗 Connecting (%s)...\n", desc.Variant)
	}
	target, err := d.Open(ctx, desc)
	if err != nil {
		return res, d.fail(res, err)
	}
	defer target.Close()

	if target.CanExecRaw() {
		fmt.Fprintln(d.Out, "✅ Connected successfully!")
		fmt.Fprintln(d.Out, "⚙️  Executing schema...")
		err := target.ExecRaw(ctx, doc.SQL)
		switch {
		case err == nil:
			res.Applied = true
			fmt.Fprintln(d.Out, "✅ Schema executed successfully!")
		case !fault.ClassOf(err).Fatal():
			log.Printf("[deploy] falling back to manual execution: %v", err)
			res.Manual = true
			d.printManual(desc, doc)
		default:
			return res, d.fail(res, err)
		}
	} else {
		res.Manual = true
		d.printManual(desc, doc)
	}
	fmt.Fprintln(d.Out)

	d.enter(res, StageVerify)
	fmt.Fprintln(d.Out, "🔍 Verifying tables...")
	res.Report = d.Verifier.Verify(ctx, target, d.declaredTables(doc))
	res.Report.Print(d.Out)

	d.enter(res, StageDone)
	fmt.Fprintln(d.Out)
	fmt.Fprintln(d.Out, banner)
	if res.Applied {
		fmt.Fprintln(d.Out, "✨ Database setup completed successfully!")
	} else {
		fmt.Fprintln(d.Out, "✨ Setup check completed!")
	}
	fmt.Fprintln(d.Out, banner)
	return res, nil
}

// declaredTables returns nil when the document is not PostgreSQL the parser
// understands; verification then skips the comparison.
func (d *Deployer) declaredTables(doc *schema.Document) []string {
	namespace := d.Config.Database.Schema
	if namespace == "" {
		namespace = "public"
	}
	tables, err := doc.DeclaredTables(namespace)
	if err != nil {
		log.Printf("[deploy] skipping declared-table comparison: %v", err)
		return nil
	}
	return schema.Names(tables)
}

func (d *Deployer) printManual(desc resolver.Descriptor, doc *schema.Document) {
	editor := config.Expand(d.Config.Connection.EditorURL, desc.ProjectRef)
	fmt.Fprintln(d.Out, "⚠️  Note: this connection cannot execute raw SQL; the schema was not applied.")
	fmt.Fprintln(d.Out, "📝 To set up the database, please:")
	fmt.Fprintf(d.Out, "   1. Open the SQL editor: %s\n", editor)
	fmt.Fprintf(d.Out, "   2. Copy and paste the contents of %s\n", doc.Path)
	fmt.Fprintln(d.Out, "   3. Run the SQL script")
	fmt.Fprintln(d.Out, "✅ Alternatively, run the deploy command with the database connection string, or use psql.")
}

const banner = "======================================================================"
