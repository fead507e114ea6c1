// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package history provides the snapshot history [Store]: for each
// document source, an ordered list of immutable document snapshots
// and the index of the current one. Every edit clones the current
// snapshot, mutates the clone and commits it as a new snapshot,
// so undo and redo are just movements of the index.
package history

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/scenedoc/gltf"
)

// ErrUnknownSource is returned for a source that has no history.
var ErrUnknownSource = errors.New("history: unknown source")

// Snapshot is one immutable version of the document of a source.
type Snapshot struct {

	// Source is the id of the document this is a version of.
	Source string

	// Action is a short description of the edit that made this
	// version, for the user to see.
	Action string

	// Data is the document. It must never be modified once committed.
	Data *gltf.Document
}

// Ref is a reference to a node by its source and UUID.
type Ref struct {
	Source string
	UUID   string
}

func (r Ref) String() string {
	return r.Source + ":" + r.UUID
}

// history is the snapshot list of one source.
type history struct {
	snapshots []*Snapshot
	index     int
}

func (h *history) current() *Snapshot {
	return h.snapshots[h.index]
}

// ChangeKinds are the kinds of [Change].
type ChangeKinds int32

const (
	// Init is a new history for a source.
	Init ChangeKinds = iota

	// Commit is a new snapshot.
	Commit

	// Undo is a backward index movement.
	Undo

	// Redo is a forward index movement.
	Redo
)

func (k ChangeKinds) String() string {
	switch k {
	case Init:
		return "init"
	case Commit:
		return "commit"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	}
	return fmt.Sprintf("ChangeKinds(%d)", int32(k))
}

// Change describes a change of the current snapshot of a source.
type Change struct {
	Kind ChangeKinds

	// Index is the new current index.
	Index int

	// Len is the new history length.
	Len int

	// Snapshot is the new current snapshot.
	Snapshot *Snapshot

	// Truncated is the number of redo snapshots a commit discarded.
	Truncated int
}

// Store holds the snapshot histories of all sources. It is safe
// for concurrent use, but commits built from a clone of a snapshot
// that is no longer current silently replace any edits made in
// between, so mutations of one source must be serialized by the
// caller (see the session package).
type Store struct {

	// Logger is used for debug logging; it defaults to [slog.Default].
	Logger *slog.Logger

	mu        sync.RWMutex
	histories map[string]*history
	order     []string
	listeners []func(Change)
}

// NewStore returns a new empty store.
func NewStore() *Store {
	return &Store{histories: map[string]*history{}}
}

func (st *Store) logger() *slog.Logger {
	if st.Logger != nil {
		return st.Logger
	}
	return slog.Default()
}

// OnChange adds a function that is called after every change of the
// current snapshot of any source. It is called without any lock held,
// in the goroutine that made the change.
func (st *Store) OnChange(fun func(Change)) {
	st.mu.Lock()
	st.listeners = append(st.listeners, fun)
	st.mu.Unlock()
}

func (st *Store) notify(c Change) {
	st.mu.RLock()
	ls := slices.Clone(st.listeners)
	st.mu.RUnlock()
	for _, fun := range ls {
		fun(c)
	}
}

// Init starts a new history for the given source with doc as its only
// snapshot, replacing any existing history of the source. The store
// takes ownership of doc, which must not be modified afterwards.
func (st *Store) Init(source string, doc *gltf.Document) *Snapshot {
	s := &Snapshot{Source: source, Action: "open", Data: doc}
	st.mu.Lock()
	if st.histories == nil {
		st.histories = map[string]*history{}
	}
	if _, has := st.histories[source]; !has {
		st.order = append(st.order, source)
	}
	st.histories[source] = &history{snapshots: []*Snapshot{s}}
	st.mu.Unlock()
	historySize.WithLabelValues(source).Set(1)
	st.notify(Change{Kind: Init, Index: 0, Len: 1, Snapshot: s})
	return s
}

// Current returns the current snapshot of the given source, or nil.
// The document of the snapshot must not be modified.
func (st *Store) Current(source string) *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	h, ok := st.histories[source]
	if !ok {
		return nil
	}
	return h.current()
}

// CloneCurrentSnapshot returns a deep copy of the current document
// of the given source, which is the only document an edit may modify.
func (st *Store) CloneCurrentSnapshot(source string) (*gltf.Document, error) {
	s := st.Current(source)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return s.Data.Clone(), nil
}

// Commit appends the given snapshot to the history of its source,
// discarding any snapshots after the current one (the redo tail),
// and makes it current. The store takes ownership of the snapshot.
func (st *Store) Commit(s *Snapshot) error {
	st.mu.Lock()
	h, ok := st.histories[s.Source]
	if !ok {
		st.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownSource, s.Source)
	}
	truncated := len(h.snapshots) - 1 - h.index
	clear(h.snapshots[h.index+1:])
	h.snapshots = append(h.snapshots[:h.index+1], s)
	h.index = len(h.snapshots) - 1
	c := Change{Kind: Commit, Index: h.index, Len: len(h.snapshots), Snapshot: s, Truncated: truncated}
	st.mu.Unlock()

	commitsTotal.Inc()
	if truncated > 0 {
		truncatedTotal.Add(float64(truncated))
	}
	historySize.WithLabelValues(s.Source).Set(float64(c.Len))
	st.logger().Debug("commit", "source", s.Source, "action", s.Action, "index", c.Index, "truncated", truncated)
	st.notify(c)
	return nil
}

// Undo moves the current index of the given source back by count
// snapshots, clamped to the first one. It returns false, and does
// nothing, if the index would not move.
func (st *Store) Undo(source string, count int) bool {
	return st.move(source, -count, Undo)
}

// Redo moves the current index of the given source forward by count
// snapshots, clamped to the last one. It returns false, and does
// nothing, if the index would not move.
func (st *Store) Redo(source string, count int) bool {
	return st.move(source, count, Redo)
}

func (st *Store) move(source string, delta int, kind ChangeKinds) bool {
	st.mu.Lock()
	h, ok := st.histories[source]
	if !ok || (kind == Undo && delta >= 0) || (kind == Redo && delta <= 0) {
		st.mu.Unlock()
		return false
	}
	to := min(max(h.index+delta, 0), len(h.snapshots)-1)
	if to == h.index {
		st.mu.Unlock()
		return false
	}
	h.index = to
	c := Change{Kind: kind, Index: to, Len: len(h.snapshots), Snapshot: h.current()}
	st.mu.Unlock()

	if kind == Undo {
		undoTotal.Inc()
	} else {
		redoTotal.Inc()
	}
	st.logger().Debug(kind.String(), "source", source, "index", to)
	st.notify(c)
	return true
}

// CanUndo returns whether the given source has a snapshot to undo to.
func (st *Store) CanUndo(source string) bool {
	return st.Index(source) > 0
}

// CanRedo returns whether the given source has a snapshot to redo to.
func (st *Store) CanRedo(source string) bool {
	return st.Index(source) < st.Len(source)-1
}

// Len returns the number of snapshots of the given source.
func (st *Store) Len(source string) int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if h, ok := st.histories[source]; ok {
		return len(h.snapshots)
	}
	return 0
}

// Index returns the current index of the given source, or -1.
func (st *Store) Index(source string) int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if h, ok := st.histories[source]; ok {
		return h.index
	}
	return -1
}

// Snapshots returns the snapshots of the given source, oldest first.
func (st *Store) Snapshots(source string) []*Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if h, ok := st.histories[source]; ok {
		return slices.Clone(h.snapshots)
	}
	return nil
}

// Sources returns the sources in the order they were first initialized.
func (st *Store) Sources() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return slices.Clone(st.order)
}

// FindTopLevelParent returns the index, in the current document of
// the given source, of the outermost ancestor of the node with the
// given UUID: the scene root that contains it. The walk never leaves
// the document of the source, so a node of a nested document resolves
// to a root of its own document. It returns -1 if the node is not found.
func (st *Store) FindTopLevelParent(source, uuid string) int {
	s := st.Current(source)
	if s == nil {
		return -1
	}
	doc := s.Data
	i := doc.IndexOf(uuid)
	if i < 0 {
		return -1
	}
	pm := doc.ParentMap()
	for steps := 0; pm[i] >= 0 && steps < len(pm); steps++ {
		i = pm[i]
	}
	return i
}

// IsInSnapshot returns whether the node with the given UUID is reachable
// from a scene root of the current document of the given source.
// Nodes of nested documents that are only visible through a reference
// from this source are not part of its snapshot.
func (st *Store) IsInSnapshot(source, uuid string) bool {
	s := st.Current(source)
	if s == nil {
		return false
	}
	i := s.Data.IndexOf(uuid)
	return i >= 0 && s.Data.Reachable()[i]
}
