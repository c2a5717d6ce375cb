package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump is the log-only view of an error: its chain plus any driver
// diagnostics. It must never be rendered to clients.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`

	SQLiteCode     int `json:"sqlite_code,omitempty"`
	SQLiteExtended int `json:"sqlite_extended_code,omitempty"`
}

// HasDriverDetails reports whether the dump carries postgres or sqlite diagnostics.
func (d ErrorDump) HasDriverDetails() bool {
	return d.PGCode != "" || d.SQLiteCode != 0
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if !dumpPgx(err, &d) && !dumpPq(err, &d) {
		dumpSQLite(err, &d)
	}
	return d
}

func dumpPgx(err error, d *ErrorDump) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	d.PGCode = pgErr.Code
	d.PGConstraint = pgErr.ConstraintName
	d.PGTable = pgErr.TableName
	d.PGColumn = pgErr.ColumnName
	d.PGDetail = pgErr.Detail
	d.PGMessage = pgErr.Message
	return true
}

func dumpPq(err error, d *ErrorDump) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	d.PGCode = string(pqErr.Code)
	d.PGConstraint = pqErr.Constraint
	d.PGTable = pqErr.Table
	d.PGColumn = pqErr.Column
	d.PGDetail = pqErr.Detail
	d.PGMessage = pqErr.Message
	return true
}

func dumpSQLite(err error, d *ErrorDump) bool {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	d.SQLiteCode = int(liteErr.Code)
	d.SQLiteExtended = int(liteErr.ExtendedCode)
	return true
}
