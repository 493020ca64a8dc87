package dialect

import (
	"fmt"
	"strings"
)

// quoteParts quotes each dot-separated part of a possibly schema-qualified name.
func quoteParts(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

// DefaultCountQuery is the portable COUNT(*) form.
func DefaultCountQuery(d Dialect, table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdent(table))
}

// DefaultSelectQuery selects the given columns from table.
func DefaultSelectQuery(d Dialect, table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdent(strings.TrimSpace(c))
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), d.QuoteIdent(table))
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}
