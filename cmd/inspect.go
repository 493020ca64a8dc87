package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"schema-deploy/internal/fault"
	"schema-deploy/internal/schema"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show what the schema document declares without connecting",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := schema.Locate(cfg.SchemaFile)
		if err != nil {
			return err
		}
		doc, err := schema.Load(path)
		if err != nil {
			return err
		}

		namespace := cfg.Database.Schema
		if namespace == "" {
			namespace = "public"
		}
		return inspect(os.Stdout, doc, namespace)
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}

func inspect(w io.Writer, doc *schema.Document, namespace string) error {
	fmt.Fprintf(w, "📖 %s\n", doc.Path)
	fmt.Fprintf(w, "   %d statements\n\n", len(doc.Statements(schema.SplitOptions{})))

	tables, err := doc.DeclaredTables(namespace)
	if err != nil {
		return fault.New(fault.Input, err)
	}

	fmt.Fprintf(w, "📊 %d tables in creation order:\n", len(tables))
	for _, t := range schema.CreationOrder(tables) {
		if len(t.Dependencies) == 0 {
			fmt.Fprintf(w, "   ✓ %s\n", t.Name)
			continue
		}
		fmt.Fprintf(w, "   ✓ %s (references %s)\n", t.Name, strings.Join(t.Dependencies, ", "))
	}

	problems := schema.OrderProblems(tables)
	for _, p := range problems {
		fmt.Fprintf(w, "⚠️  %s references %s before it is created\n", p.Table, p.References)
	}
	if len(problems) == 0 {
		fmt.Fprintln(w, "\n✅ Every table is created after the tables it references.")
	}
	return nil
}
