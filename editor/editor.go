// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package editor provides the command surface of the scene document
// editor. Every command takes node references ([history.Ref]), groups
// them by source document, clones the current snapshot of each affected
// source, applies a graph operation to the clone, and commits it once
// per source. Commands that fail with an error commit nothing at all.
package editor

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/scenedoc/binder"
	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/entity"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/graph"
	"cogentcore.org/scenedoc/history"
	"cogentcore.org/scenedoc/selection"
)

var (
	// ErrRootReparent is returned when trying to reparent
	// the root of a document.
	ErrRootReparent = errors.New("editor: can not reparent a document root")

	// ErrCrossSource is returned when trying to move a node
	// into a parent of another source.
	ErrCrossSource = errors.New("editor: can not move a node into another source")

	// ErrUnknownSource is returned for a source that has no history.
	ErrUnknownSource = history.ErrUnknownSource
)

// Editor applies commands to the documents of a [history.Store].
// It is not safe for concurrent use; see the session package.
type Editor struct {

	// Store is the snapshot store that commands commit to.
	Store *history.Store

	// Binder reflects committed snapshots into entities. It may be nil.
	Binder *binder.Binder

	// Components is the component registry used to build new nodes.
	Components *component.Registry

	// Selection is pruned of nodes that commands remove. It may be nil.
	Selection *selection.State

	// NewID mints the UUIDs of new nodes.
	NewID graph.IDFunc

	// Logger is used for warnings about skipped targets; it defaults to
	// [slog.Default].
	Logger *slog.Logger
}

// New returns a new editor for the given store, with the built-in
// components, and with the given binder attached to the store if it is non-nil.
func New(st *history.Store, b *binder.Binder) *Editor {
	ed := &Editor{Store: st, Binder: b, Components: component.NewRegistry(), NewID: graph.NewUUID, Selection: &selection.State{}}
	if b != nil {
		b.Attach(st)
	}
	return ed
}

func (ed *Editor) logger() *slog.Logger {
	if ed.Logger != nil {
		return ed.Logger
	}
	return slog.Default()
}

func (ed *Editor) newID() string {
	if ed.NewID == nil {
		return graph.NewUUID()
	}
	return ed.NewID()
}

// Open starts a new history for the given source with the given
// document, after validating it.
func (ed *Editor) Open(source string, doc *gltf.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	ed.Store.Init(source, doc)
	return nil
}

// Refs returns the references of the nodes bound to the given entities,
// for use as the targets of a command.
func (ed *Editor) Refs(hs ...entity.Handle) []history.Ref {
	if ed.Binder == nil {
		return nil
	}
	return ed.Binder.Refs(hs...)
}

// group is the references of one source.
type group struct {
	source string
	ids    []string
}

// bySource groups the given references by source, in the order each
// source first appears.
func bySource(refs []history.Ref) []*group {
	var gs []*group
	for _, r := range refs {
		i := slices.IndexFunc(gs, func(g *group) bool { return g.source == r.Source })
		if i < 0 {
			gs = append(gs, &group{source: r.Source})
			i = len(gs) - 1
		}
		if !slices.Contains(gs[i].ids, r.UUID) {
			gs[i].ids = append(gs[i].ids, r.UUID)
		}
	}
	return gs
}

// present returns the ids that are in doc, logging the others.
func (ed *Editor) present(source string, doc *gltf.Document, ids []string) []string {
	var out []string
	for _, id := range ids {
		if doc.IndexOf(id) < 0 {
			ed.logger().Warn("skipping node that is not in the document", "source", source, "uuid", id)
			continue
		}
		out = append(out, id)
	}
	return out
}

// editFunc applies an edit to the clone of one source, returning
// whether it changed anything.
type editFunc func(source string, doc *gltf.Document, ids []string) (bool, error)

// edit applies fun to a clone of the current document of every source
// of refs, and commits the changed clones. Nothing is committed if
// fun fails for any source.
func (ed *Editor) edit(action string, refs []history.Ref, fun editFunc) error {
	var snaps []*history.Snapshot
	for _, g := range bySource(refs) {
		doc, err := ed.Store.CloneCurrentSnapshot(g.source)
		if err != nil {
			return err
		}
		ids := ed.present(g.source, doc, g.ids)
		if len(ids) == 0 {
			continue
		}
		changed, err := fun(g.source, doc, ids)
		if err != nil {
			return fmt.Errorf("%s %s: %w", action, g.source, err)
		}
		if changed {
			snaps = append(snaps, &history.Snapshot{Source: g.source, Action: action, Data: doc})
		}
	}
	for _, s := range snaps {
		if err := ed.Store.Commit(s); err != nil {
			return err
		}
	}
	return nil
}

// markDirty marks the entities of the given nodes, and their
// descendants, as needing their world matrices recomputed.
func (ed *Editor) markDirty(ids []string) {
	if ed.Binder == nil {
		return
	}
	for _, id := range ids {
		if h, ok := ed.Binder.Handle(id); ok {
			ed.Binder.Entities.MarkSubtreeDirty(h)
		}
	}
}

// Undo moves the history of the given source back by count snapshots.
// Moving past the start is a no-op. It returns whether anything changed.
func (ed *Editor) Undo(source string, count int) bool {
	if !ed.Store.Undo(source, count) {
		return false
	}
	ed.pruneSelection()
	return true
}

// Redo moves the history of the given source forward by count snapshots.
// Moving past the end is a no-op. It returns whether anything changed.
func (ed *Editor) Redo(source string, count int) bool {
	if !ed.Store.Redo(source, count) {
		return false
	}
	ed.pruneSelection()
	return true
}

// pruneSelection removes any node from the selection
// that is not in the current document of any source.
func (ed *Editor) pruneSelection() {
	if ed.Selection == nil {
		return
	}
	srcs := ed.Store.Sources()
	ed.Selection.Restrict(func(id string) bool {
		for _, src := range srcs {
			if s := ed.Store.Current(src); s != nil && s.Data.IndexOf(id) >= 0 {
				return true
			}
		}
		return false
	})
}

// RestrictSelection limits the selection to nodes that are in the
// snapshot of the given source itself, excluding nodes that are only
// visible through a nested document.
func (ed *Editor) RestrictSelection(source string) bool {
	if ed.Selection == nil {
		return false
	}
	return ed.Selection.Restrict(func(id string) bool { return ed.Store.IsInSnapshot(source, id) })
}

// TopLevel returns the references of the outermost ancestors of the
// given nodes within their own documents, without repeats.
func (ed *Editor) TopLevel(refs []history.Ref) []history.Ref {
	var out []history.Ref
	for _, r := range refs {
		i := ed.Store.FindTopLevelParent(r.Source, r.UUID)
		if i < 0 {
			continue
		}
		tr := history.Ref{Source: r.Source, UUID: ed.Store.Current(r.Source).Data.UUIDOf(i)}
		if !slices.Contains(out, tr) {
			out = append(out, tr)
		}
	}
	return out
}
