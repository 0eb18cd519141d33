// Package audit keeps a record of every door actuation in SQLite.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

type Record struct {
	Time   time.Time
	Source string
	Actor  string
	Reason string
}

func (self Record) String() string {
	s := fmt.Sprintf("%s %s", self.Time.Format("2006-01-02 15:04:05"), self.Source)
	if self.Actor != "" {
		s += " (" + self.Actor + ")"
	}
	if self.Reason != "" {
		s += ": " + self.Reason
	}
	return s
}

type Trail struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS door (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	at     INTEGER NOT NULL,
	source TEXT NOT NULL,
	actor  TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS door_at ON door (at);
`

// Open or create the database at path.
func Open(ctx context.Context, path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating audit directory")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening audit database")
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "audit database")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating audit schema")
	}
	return &Trail{db: db}, nil
}

func (self *Trail) Record(ctx context.Context, rec Record) error {
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	_, err := self.db.ExecContext(ctx,
		`INSERT INTO door (at, source, actor, reason) VALUES (?, ?, ?, ?)`,
		rec.Time.UnixNano(), rec.Source, rec.Actor, rec.Reason)
	return errors.Wrap(err, "audit record")
}

// Recent returns the newest n records, newest first.
func (self *Trail) Recent(ctx context.Context, n int) ([]Record, error) {
	rows, err := self.db.QueryContext(ctx,
		`SELECT at, source, actor, reason FROM door ORDER BY at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, errors.Wrap(err, "audit query")
	}
	defer rows.Close()
	var ret []Record
	for rows.Next() {
		var at int64
		var rec Record
		if err := rows.Scan(&at, &rec.Source, &rec.Actor, &rec.Reason); err != nil {
			return nil, errors.Wrap(err, "audit scan")
		}
		rec.Time = time.Unix(0, at)
		ret = append(ret, rec)
	}
	return ret, rows.Err()
}

func (self *Trail) Close() error {
	return self.db.Close()
}
