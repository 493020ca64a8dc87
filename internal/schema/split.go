package schema

import (
	"regexp"
	"strings"
)

type SplitOptions struct {
	// Blocks keeps PL/SQL blocks (BEGIN, DECLARE, CREATE PROCEDURE, ...) whole
	// until a line holding only "/", the SQL*Plus convention.
	Blocks bool
}

var (
	dollarTagRe  = regexp.MustCompile(`^\$([A-Za-z_][A-Za-z_0-9]*)?\$`)
	blockStartRe = regexp.MustCompile(`(?i)^(BEGIN|DECLARE|CREATE\s+(OR\s+REPLACE\s+)?((NON)?EDITIONABLE\s+)?(FUNCTION|PROCEDURE|PACKAGE|TRIGGER|TYPE\s+BODY))\b`)
)

// Split breaks sql into statements on top-level semicolons. Quoted strings,
// quoted identifiers, comments and dollar-quoted bodies are never split.
// Statements holding only comments are dropped; terminators are removed.
func Split(sql string, opts SplitOptions) []string {
	var (
		out  []string
		cur  strings.Builder
		head strings.Builder // statement text minus comments
		sig  bool
	)
	write := func(s string) {
		cur.WriteString(s)
		head.WriteString(s)
		if strings.TrimSpace(s) != "" {
			sig = true
		}
	}
	flush := func() {
		if sig {
			out = append(out, strings.TrimSpace(cur.String()))
		}
		cur.Reset()
		head.Reset()
		sig = false
	}

	n := len(sql)
	for i := 0; i < n; {
		c := sql[i]
		switch {
		case c == '-' && i+1 < n && sql[i+1] == '-':
			end := n
			if j := strings.IndexByte(sql[i:], '\n'); j >= 0 {
				end = i + j
			}
			cur.WriteString(sql[i:end])
			i = end
			continue

		case c == '/' && i+1 < n && sql[i+1] == '*':
			end := n
			if j := strings.Index(sql[i+2:], "*/"); j >= 0 {
				end = i + 2 + j + 2
			}
			cur.WriteString(sql[i:end])
			i = end
			continue

		case c == '\'' || c == '"':
			end := closeQuote(sql, i, c, c == '\'' && escapeString(sql, i))
			write(sql[i:end])
			i = end
			continue

		case c == '$':
			if tag := dollarTagRe.FindString(sql[i:]); tag != "" {
				end := n
				if j := strings.Index(sql[i+len(tag):], tag); j >= 0 {
					end = i + len(tag) + j + len(tag)
				}
				write(sql[i:end])
				i = end
				continue
			}

		case c == ';':
			if !(opts.Blocks && blockStartRe.MatchString(strings.TrimSpace(head.String()))) {
				flush()
				i++
				continue
			}
			write(";")
			i++
			continue

		case c == '/' && opts.Blocks && aloneOnLine(sql, i):
			flush()
			i++
			continue
		}

		write(sql[i : i+1])
		i++
	}
	flush()
	return out
}

// closeQuote returns the index just past the quote opened at i. Doubled
// quote characters are escapes, and so is a backslash when backslash is set.
func closeQuote(s string, i int, q byte, backslash bool) int {
	for j := i + 1; j < len(s); j++ {
		if backslash && s[j] == '\\' {
			j++
			continue
		}
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

// escapeString reports whether the quote at i opens a PostgreSQL E'...'
// literal, where backslash escapes apply.
func escapeString(s string, i int) bool {
	if i == 0 || (s[i-1] != 'E' && s[i-1] != 'e') {
		return false
	}
	return i == 1 || !isIdentByte(s[i-2])
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= 0x80
}

func aloneOnLine(s string, i int) bool {
	start := strings.LastIndexByte(s[:i], '\n') + 1
	end := len(s)
	if j := strings.IndexByte(s[i+1:], '\n'); j >= 0 {
		end = i + 1 + j
	}
	return strings.TrimSpace(s[start:i]) == "" && strings.TrimSpace(s[i+1:end]) == ""
}
