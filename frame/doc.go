// Package frame provides an immutable, in-memory columnar table and a small
// relational algebra over it: selection, filtering, grouping, aggregation,
// sorting and joins.
//
// A Table is an ordered set of named columns of equal length. Cells hold
// int64, float64, string or nil (null). Every operator returns a new Table
// and leaves its inputs untouched.
//
// # Basic Usage
//
// Building a table and querying it:
//
//	a := frame.NewColumn("name", "ann", "bob", "cid")
//	b := frame.NewColumn("age", 31, 45, nil)
//	t, err := frame.NewTable(a, b)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	adults := t.Filter(frame.PredicateFunc(func(r frame.Row) bool {
//	    age, ok := r.Value("age").(int64)
//	    return ok && age >= 40
//	}))
//	fmt.Println(adults)
//
// # Grouping and Aggregation
//
//	groups, err := t.GroupBy("dept")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary, err := groups.Aggregate("salary", "mean", frame.Mean)
//
// # Joins
//
// Join matches rows on key columns. Exact mode hashes key tuples; substring
// mode matches a single left key as a whole word inside the right key:
//
//	joined, err := orders.Join(customers, frame.JoinOptions{
//	    On:  []string{"customer_id"},
//	    How: frame.LeftJoin,
//	})
//
// Invalid join requests fail with one of the sentinel errors in this
// package before any matching is done; test for them with errors.Is.
//
// # Columnar Export
//
// ToArrow copies a table into an Apache Arrow record for consumers that
// prefer columnar memory:
//
//	rec := t.ToArrow(memory.NewGoAllocator())
//	defer rec.Release()
package frame
