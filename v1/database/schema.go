package database

import "sort"

// Table describes the schema metadata an operation runs against: the table
// name and its declared columns, supplied by the caller (typically from a
// schema registry or migration definitions). The client treats it as
// read-only and never fetches schema information from the backend.
type Table struct {
	Name    string
	Columns []string
}

// NewTable builds a Table descriptor from a name and its declared columns.
func NewTable(name string, columns ...string) Table {
	return Table{Name: name, Columns: columns}
}

// columnSet returns the declared columns as a set for membership checks.
func (t Table) columnSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		set[c] = struct{}{}
	}
	return set
}

// validateColumns checks that every requested name is a declared column of
// the table. On failure it returns an UnknownColumnError naming the
// lexicographically first unknown column, so the error is deterministic
// regardless of map iteration order.
func validateColumns(table Table, names []string) error {
	declared := table.columnSet()

	var unknown []string
	for _, name := range names {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Strings(unknown)
	return &UnknownColumnError{Column: unknown[0], Table: table.Name}
}

// queryColumns collects every column name referenced by a query: filter
// keys, condition columns and the projection.
func queryColumns(q Query) []string {
	names := make([]string, 0, len(q.Filters)+len(q.Conditions)+len(q.Columns))
	for name := range q.Filters {
		names = append(names, name)
	}
	for _, cond := range q.Conditions {
		if col := cond.column(); col != "" {
			names = append(names, col)
		}
	}
	names = append(names, q.Columns...)
	return names
}

// recordColumns collects the column names of a single record.
func recordColumns(record Record) []string {
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	return names
}

// recordsColumns collects the union of column names across all records.
func recordsColumns(records []Record) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, record := range records {
		for name := range record {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
