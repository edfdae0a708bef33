// Package source loads datasets into query.Queryable[row.Row].
//
// Files: LoadFile picks a decoder by extension. JSON, YAML and CUE files
// hold a list of objects; a CUE file may instead be a struct with the list
// under "rows". Nested objects flatten into dotted field names.
//
// Databases: OpenSQLite opens a SQLite file read-only and reads whole
// tables or the result of an ad hoc query. Nothing in lq ever writes a
// dataset back.
package source
