// Package statedb provides read-only access to the editor's per-workspace
// key-value store (state.vscdb, a SQLite database with a single ItemTable).
// The schema belongs to the editor; this package only ever reads it.
package statedb

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// ReadKey performs a single read-only lookup of an exact key in the
// workspace store at dbPath and returns the stored text verbatim.
//
// Every failure mode — missing database, corrupt or locked file, absent
// key — degrades to ("", false). The editor may be mid-write at any time,
// so nothing below the top level is allowed to treat store trouble as an
// error.
func ReadKey(dbPath, key string) (string, bool) {
	// Read-only mode keeps us safe against accidental writes and lets
	// the query run alongside the editor's own connection.
	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return "", false
	}
	defer db.Close()

	var value []byte
	err = sq.Select("value").
		From("ItemTable").
		Where(sq.Eq{"key": key}).
		RunWith(db).
		QueryRow().
		Scan(&value)
	if err != nil {
		return "", false
	}

	return string(value), true
}
