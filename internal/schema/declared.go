package schema

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// DeclaredTables parses the document with the PostgreSQL parser and returns
// the tables it creates in namespace, in document order. Unqualified names
// count as namespace. Foreign keys to tables outside the document are kept as
// dependencies; callers decide whether they matter.
func (d *Document) DeclaredTables(namespace string) ([]*Table, error) {
	tree, err := pg_query.Parse(d.SQL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}

	var tables []*Table
	seen := make(map[string]bool)

	for i, raw := range tree.GetStmts() {
		create := raw.GetStmt().GetCreateStmt()
		if create == nil {
			continue
		}
		rel := create.GetRelation()
		if ns := rel.GetSchemaname(); ns != "" && ns != namespace {
			continue
		}
		name := rel.GetRelname()
		if seen[name] {
			continue // CREATE TABLE IF NOT EXISTS repeated
		}
		seen[name] = true

		t := &Table{Name: name, Dependencies: []string{}, Position: i}
		for _, elt := range create.GetTableElts() {
			if col := elt.GetColumnDef(); col != nil {
				for _, c := range col.GetConstraints() {
					t.addForeignKey(c.GetConstraint())
				}
			}
			t.addForeignKey(elt.GetConstraint())
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (t *Table) addForeignKey(c *pg_query.Constraint) {
	if c == nil || c.GetContype() != pg_query.ConstrType_CONSTR_FOREIGN {
		return
	}
	ref := c.GetPktable().GetRelname()
	if ref == "" || ref == t.Name {
		return
	}
	for _, dep := range t.Dependencies {
		if dep == ref {
			return
		}
	}
	t.Dependencies = append(t.Dependencies, ref)
}

// Names returns the table names in the given order.
func Names(tables []*Table) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
