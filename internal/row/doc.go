// Package row provides the dynamic record model that lq pipelines query.
//
// Datasets loaded from JSON, YAML, CUE or SQLite have no static Go type, so
// they are represented as Row values: flat maps from field name to a small,
// sealed set of scalar Value types.
//
// VALUE TYPES:
//
// Value is a sealed interface implemented only by Null, String, Int, Float
// and Bool. All of them are comparable with ==, which lets a Value serve as
// a grouping key in query.GroupBy.
//
// Nested input is flattened at load time: objects become dotted field names
// ("address.city") and arrays become their canonical JSON text.
//
// ORDERING:
//
// Compare defines a total order across types so that heterogeneous columns
// sort deterministically:
//
//	Null < Bool < number (Int and Float compared numerically) < String
//
// CANONICAL JSON:
//
// MarshalCanonical produces deterministic JSON for snapshots and CLI
// output: object keys sorted by UTF-16 code units (RFC 8785), strings NFC
// normalized, no HTML escaping. Non-finite floats, which JSON cannot carry,
// are written as the strings "NaN", "+Inf" and "-Inf".
package row
