// Package approval verifies query output against approved snapshots.
//
// Two layers:
//
// Snapshots: Verify compares anything Verifiable (a markdown.Table, canonical
// JSON) with testdata/approved/<name>.approved<ext> using goldie. Run the
// tests with -update to accept new output, then review the diff like code.
//
// Scenarios: a scenario file bundles a dataset, a pipeline and the rows the
// pipeline must produce:
//
//	name: paid-by-customer
//	description: Revenue per customer over paid orders
//	data_file: orders.json
//	pipeline:
//	  name: paid-by-customer
//	  stages:
//	    - where: {field: status, op: eq, value: paid}
//	    - group_by: {key: customer, aggregates: [{func: sum, field: total, as: spent}]}
//	expect:
//	  - {customer: ann, spent: 40.5}
//	  - {customer: cid, spent: 99}
//
// Run executes a scenario and compares its rows with expect. RunWithGolden
// additionally snapshots the result table.
package approval
