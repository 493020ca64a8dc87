package schema

import "log"

// CreationOrder sorts tables so that every table follows the tables it
// references. Dependencies on tables outside the set are ignored. Ties keep
// document order; a cycle is broken at the remaining table with the fewest
// unresolved dependencies. A repeated name keeps its first table.
func CreationOrder(tables []*Table) []*Table {
	known := make(map[string]bool, len(tables))
	unique := tables[:0:0]
	for _, t := range tables {
		if known[t.Name] {
			continue
		}
		known[t.Name] = true
		unique = append(unique, t)
	}
	tables = unique

	placed := make(map[string]bool, len(tables))
	sorted := make([]*Table, 0, len(tables))

	pending := func(t *Table) int {
		n := 0
		for _, dep := range t.Dependencies {
			if known[dep] && !placed[dep] {
				n++
			}
		}
		return n
	}

	for len(sorted) < len(tables) {
		progress := false
		for _, t := range tables {
			if placed[t.Name] || pending(t) > 0 {
				continue
			}
			sorted = append(sorted, t)
			placed[t.Name] = true
			progress = true
		}
		if progress {
			continue
		}

		var best *Table
		bestPending := 0
		for _, t := range tables {
			if placed[t.Name] {
				continue
			}
			if p := pending(t); best == nil || p < bestPending {
				best, bestPending = t, p
			}
		}
		if best == nil {
			break
		}
		log.Printf("[order] breaking circular dependency at %s (%d unresolved)", best.Name, bestPending)
		sorted = append(sorted, best)
		placed[best.Name] = true
	}
	return sorted
}

// OrderProblems lists foreign keys to tables the document declares later.
func OrderProblems(tables []*Table) []OrderProblem {
	position := make(map[string]int, len(tables))
	for _, t := range tables {
		position[t.Name] = t.Position
	}

	var problems []OrderProblem
	for _, t := range tables {
		for _, dep := range t.Dependencies {
			if pos, ok := position[dep]; ok && pos > t.Position {
				problems = append(problems, OrderProblem{Table: t.Name, References: dep})
			}
		}
	}
	return problems
}
