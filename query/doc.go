// Package query implements a small predicate language for filtering frame
// tables.
//
// An expression compares columns against literals and combines the
// comparisons with boolean logic:
//
//	age >= 30 and (city = 'Oslo' or city is null)
//	not (status != "active") or `first name` = 'Ann'
//
// Supported operators are =, !=, <>, <, >, <= and >=, plus "is null" and
// "is not null". Keywords are case-insensitive and column names that are
// not plain identifiers go in backquotes. String literals use single or
// double quotes; a quote is escaped by doubling it or with a backslash.
//
// Numbers compare numerically and text compares byte-wise. A number never
// equals text, a null cell never equals a literal, and both fail every
// ordering comparison.
//
// Example usage:
//
//	f, err := query.Compile("age > 30 and active = true")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	adults, err := query.Apply(tbl, f)
package query
