/*
Package query provides a fluent builder for the record search request.

Conditions accumulate into groups: within a group they combine with AND, and
Or() opens a new group combined with OR. A builder with a single non-empty
group compiles to a flat AND filter; only with two or more groups does the
wrapping OR layer appear — the distinction is part of the wire protocol, not
an optimization.

	req := query.For[Task]().
		Eq("Owner", "alice").
		Between("Age", 18, 30).
		Or().
		Like("Title", "urgent").
		OrderByDesc("Due").
		PageSize(50).
		Build()

Typed builders translate Go field names to remote field names through the
schema package; builders created with New pass names through unchanged.
*/
package query
