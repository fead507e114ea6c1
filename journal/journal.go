// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package journal persists every change of the current snapshot of a
// [history.Store] to a SQLite database, so that the latest document of
// each source can be restored after a restart and the edit log of a
// source can be listed.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/history"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by [Journal.Latest] for a source
// with no entries.
var ErrNotFound = errors.New("journal: no entries for source")

var schema = []string{`CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	kind TEXT NOT NULL,
	action TEXT NOT NULL,
	idx INTEGER NOT NULL,
	len INTEGER NOT NULL,
	recorded INTEGER NOT NULL,
	document BLOB NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS entries_source ON entries (source, id)`,
}

// Entry is one recorded change.
type Entry struct {
	ID     int64
	Source string

	// Kind is the [history.ChangeKinds] name of the change.
	Kind string

	// Action is the action of the snapshot that became current.
	Action string

	// Index and Len are the history position after the change.
	Index int
	Len   int

	Time time.Time

	// Size is the size of the encoded document in bytes.
	Size int
}

func (e Entry) String() string {
	return fmt.Sprintf("%d %s %s %q [%d/%d] %s", e.ID, e.Source, e.Kind, e.Action, e.Index+1, e.Len, e.Time.Format(time.DateTime))
}

// Journal is a SQLite journal of snapshot changes.
// It is safe for concurrent use.
type Journal struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the journal database at the given path,
// creating its directory if needed.
func Open(ctx context.Context, path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("journal: create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open sqlite: %w", err)
	}
	// a single connection serializes writes
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			errors.Log(db.Close())
			return nil, fmt.Errorf("journal: create schema: %w", err)
		}
	}
	return &Journal{db: db, path: path, logger: slog.Default().With(slog.String("component", "journal"))}, nil
}

// Path returns the path of the database file.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores the given change with the full document of its snapshot.
func (j *Journal) Record(ctx context.Context, c history.Change) error {
	if c.Snapshot == nil {
		return nil
	}
	b, err := c.Snapshot.Data.Bytes()
	if err != nil {
		return fmt.Errorf("journal: encode %s: %w", c.Snapshot.Source, err)
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO entries (source, kind, action, idx, len, recorded, document) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Snapshot.Source, c.Kind.String(), c.Snapshot.Action, c.Index, c.Len, time.Now().UnixNano(), b)
	if err != nil {
		return fmt.Errorf("journal: insert: %w", err)
	}
	return nil
}

// Attach records every change of the given store. Errors are logged,
// since a failed journal write must not fail the edit.
func (j *Journal) Attach(st *history.Store) {
	st.OnChange(func(c history.Change) {
		if err := j.Record(context.Background(), c); err != nil {
			j.logger.Error("recording change", "source", c.Snapshot.Source, "err", err)
		}
	})
}

// Latest returns the document and entry of the most recent change
// of the given source.
func (j *Journal) Latest(ctx context.Context, source string) (*gltf.Document, Entry, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT id, source, kind, action, idx, len, recorded, document FROM entries WHERE source = ? ORDER BY id DESC LIMIT 1`, source)
	var e Entry
	var ns int64
	var b []byte
	err := row.Scan(&e.ID, &e.Source, &e.Kind, &e.Action, &e.Index, &e.Len, &ns, &b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Entry{}, fmt.Errorf("%w %q", ErrNotFound, source)
	}
	if err != nil {
		return nil, Entry{}, fmt.Errorf("journal: select: %w", err)
	}
	e.Time = time.Unix(0, ns)
	e.Size = len(b)
	doc, err := gltf.ReadBytes(b)
	if err != nil {
		return nil, e, fmt.Errorf("journal: decode entry %d: %w", e.ID, err)
	}
	return doc, e, nil
}

// Restore starts a new history for the given source in st with its
// latest journaled document.
func (j *Journal) Restore(ctx context.Context, st *history.Store, source string) (Entry, error) {
	doc, e, err := j.Latest(ctx, source)
	if err != nil {
		return e, err
	}
	st.Init(source, doc)
	return e, nil
}

// Entries returns the entries of the given source, oldest first,
// or of all sources if source is "".
func (j *Journal) Entries(ctx context.Context, source string) ([]Entry, error) {
	q := `SELECT id, source, kind, action, idx, len, recorded, length(document) FROM entries`
	var args []any
	if source != "" {
		q += ` WHERE source = ?`
		args = append(args, source)
	}
	q += ` ORDER BY id`
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: select: %w", err)
	}
	defer func() { errors.Log(rows.Close()) }()
	var es []Entry
	for rows.Next() {
		var e Entry
		var ns int64
		if err := rows.Scan(&e.ID, &e.Source, &e.Kind, &e.Action, &e.Index, &e.Len, &ns, &e.Size); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Time = time.Unix(0, ns)
		es = append(es, e)
	}
	return es, rows.Err()
}

// Sources returns the journaled sources in the order they were first recorded.
func (j *Journal) Sources(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT source FROM entries GROUP BY source ORDER BY min(id)`)
	if err != nil {
		return nil, fmt.Errorf("journal: select: %w", err)
	}
	defer func() { errors.Log(rows.Close()) }()
	var srcs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		srcs = append(srcs, s)
	}
	return srcs, rows.Err()
}
