// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package watch reloads a document when its file is changed by another
// program, committing the new content as a snapshot so that the
// external change can be undone like any edit.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/history"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default quiet time after the last file event
// before the file is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Options are the options of a [Watcher].
type Options struct {

	// Debounce is the quiet time after the last file event before
	// the file is reloaded; it defaults to [DefaultDebounce].
	Debounce time.Duration

	// Logger defaults to [slog.Default].
	Logger *slog.Logger

	// Commit is called to commit a reloaded document. It defaults to
	// committing directly to the store; set it to route the commit
	// through a session when other goroutines also edit the source.
	Commit func(s *history.Snapshot) error

	// OnReload is called after every committed reload, if non-nil.
	OnReload func(doc *gltf.Document)
}

// Watcher watches the file of one source.
type Watcher struct {
	Path   string
	Source string
	Store  *history.Store

	Options
}

// New returns a new watcher of the file at path, which is the document
// of the given source in st.
func New(path, source string, st *history.Store, opts Options) *Watcher {
	w := &Watcher{Path: path, Source: source, Store: st, Options: opts}
	if w.Debounce <= 0 {
		w.Debounce = DefaultDebounce
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	w.Logger = w.Logger.With(slog.String("component", "watch"), slog.String("source", source))
	if w.Commit == nil {
		w.Commit = st.Commit
	}
	return w
}

// Reload reads the file and commits it as a new snapshot of the source,
// unless its content is the same as the current snapshot. It returns
// whether a snapshot was committed. A file that does not decode or
// validate is an error, and nothing is committed.
func (w *Watcher) Reload() (bool, error) {
	doc, err := gltf.Open(w.Path)
	if err != nil {
		return false, err
	}
	if err := doc.Validate(); err != nil {
		return false, fmt.Errorf("%s: %w", w.Path, err)
	}
	if cur := w.Store.Current(w.Source); cur != nil {
		ob, oerr := cur.Data.Bytes()
		nb, nerr := doc.Bytes()
		if oerr == nil && nerr == nil && bytes.Equal(ob, nb) {
			return false, nil
		}
	}
	if err := w.Commit(&history.Snapshot{Source: w.Source, Action: "reload", Data: doc}); err != nil {
		return false, err
	}
	w.Logger.Info("reloaded", "path", w.Path, "nodes", doc.NumNodes())
	if w.OnReload != nil {
		w.OnReload(doc)
	}
	return true, nil
}

// Run watches the file until ctx is done. It watches the directory of
// the file, so that editors that save by replacing the file are seen.
// Reload errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { errors.Log(fw.Close()) }()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", w.Path, err)
	}
	w.Logger.Debug("watching", "path", abs)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Rename == fsnotify.Rename {
				fire = time.After(w.Debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			if _, err := w.Reload(); err != nil {
				w.Logger.Error("reload failed", "path", w.Path, "err", err)
			}
		}
	}
}
