// Package database keeps the history of enumdir scans in SQLite.
//
// Every scan is stored as a run together with the findings the sink wrote
// to the output file, so earlier results can be listed and compared without
// keeping the output files around. The database is a single file driven by
// modernc.org/sqlite, which needs no cgo.
package database
