package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Print writes the report in the console format operators expect.
func (r *Report) Print(w io.Writer) {
	if r.TablesChecked {
		fmt.Fprintf(w, "📊 Found %d tables:\n", len(r.Tables))
		for _, t := range r.Tables {
			fmt.Fprintf(w, "   ✓ %s\n", t)
		}
		fmt.Fprintln(w)
	}

	if r.CountChecked {
		fmt.Fprintf(w, "🎫 Rows in %s: %s\n", r.CountTable, groupThousands(r.RowCount))
	}

	switch {
	case r.Sample != nil:
		fmt.Fprintf(w, "🎁 Sample from %s:\n", r.SampleTable)
		for _, c := range r.SampleColumns {
			fmt.Fprintf(w, "   • %s: %s\n", c, formatValue(r.Sample[c]))
		}
	case !r.hasWarning("sample from " + r.SampleTable):
		fmt.Fprintf(w, "⚠️  No rows in %s yet. Run the schema first if this is unexpected.\n", r.SampleTable)
	}

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "⚠️  Warning: %s\n", warn)
	}
}

func (r *Report) hasWarning(check string) bool {
	for _, w := range r.Warnings {
		if w.Check == check {
			return true
		}
	}
	return false
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return groupThousands(x)
	case int:
		return groupThousands(int64(x))
	case int32:
		return groupThousands(int64(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return groupThousands(n)
		}
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// groupThousands renders 100000 as 100,000.
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
