// Package pipeline runs declarative queries over row datasets.
//
// A pipeline is a named list of stages written in YAML or CUE. Each stage
// maps onto one engine operation from package query:
//
//	where      → query.Where        (eq ne lt le gt ge contains)
//	select     → query.Select       (projection with rename)
//	order_by   → query.OrderByFunc  (stable, row.Compare)
//	distinct   → query.DistinctFunc (whole row or listed fields)
//	skip, take → query.Skip, query.Take
//	group_by   → query.GroupBy + aggregates
//	aggregate  → aggregates over the whole input
//	split      → query.SelectMany
//
// LIFECYCLE:
//
//	LoadFile / LoadYAML / LoadCUE → Definition
//	Compile(Definition)           → []Stage   (validated, sealed types)
//	Lint([]Stage)                 → warnings
//	Executor.Execute([]Stage)     → Result
//
// Executor.Run combines the last three steps.
//
// AGGREGATES:
//
// count, sum, avg, min, max, first and last. Nulls are skipped by every
// aggregate except first and last. sum and avg over a non-numeric value
// fail with ErrCodeTypeMismatch; avg over no values is NaN.
//
// Group keys are normalized with row.Normalize, so 3 and 3.0 fall into the
// same group.
package pipeline
