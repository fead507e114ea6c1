// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binder keeps the live entities of an [entity.System] in sync
// with the current document snapshots. Each node is bound 1:1 to an
// entity by its UUID. After every snapshot change the [Binder] diffs
// the UUIDs of the new document against the bound ones, creating and
// destroying entities as needed, and then pushes the hierarchy, local
// transforms and components of the document into the entities.
//
// Flow is one-directional: edits never change entities directly;
// the Binder is the only code that does.
package binder

import (
	"log/slog"
	"slices"

	"cogentcore.org/scenedoc/base/plan"
	"cogentcore.org/scenedoc/entity"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/history"
	"cogentcore.org/scenedoc/math64"
)

// binding is one bound node.
type binding struct {
	uuid   string
	handle entity.Handle
}

func (b *binding) PlanName() string { return b.uuid }

// bound is the binding state of one source.
type bound struct {
	bindings []*binding

	// mount is the entity that the roots of the source are attached
	// to, or 0 for the world root.
	mount entity.Handle

	// doc is the last reconciled document.
	doc *gltf.Document
}

// Binder binds document nodes to entities. It assumes that UUIDs
// are unique across all sources.
type Binder struct {

	// Entities is the entity system that is kept in sync.
	Entities entity.System

	// Logger is used for debug logging; it defaults to [slog.Default].
	Logger *slog.Logger

	sources map[string]*bound
	refs    map[entity.Handle]history.Ref
}

// New returns a new binder for the given entity system.
func New(sys entity.System) *Binder {
	return &Binder{Entities: sys, sources: map[string]*bound{}, refs: map[entity.Handle]history.Ref{}}
}

func (b *Binder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Binder) source(source string) *bound {
	if b.sources == nil {
		b.sources = map[string]*bound{}
		b.refs = map[entity.Handle]history.Ref{}
	}
	bs, ok := b.sources[source]
	if !ok {
		bs = &bound{}
		b.sources[source] = bs
	}
	return bs
}

// Attach reconciles every current snapshot of the given store,
// and every snapshot that becomes current afterwards.
func (b *Binder) Attach(st *history.Store) {
	st.OnChange(func(c history.Change) {
		b.Reconcile(c.Snapshot.Source, c.Snapshot.Data)
	})
	for _, src := range st.Sources() {
		if s := st.Current(src); s != nil {
			b.Reconcile(src, s.Data)
		}
	}
}

// Reconcile brings the entities of the given source in line with doc,
// and returns the number of entities created and destroyed.
func (b *Binder) Reconcile(source string, doc *gltf.Document) (created, destroyed int) {
	bs := b.source(source)
	sys := b.Entities
	log := b.logger()
	bs.bindings, _ = plan.Update(bs.bindings, doc.UUIDs(),
		func(uuid string, i int) *binding {
			h := sys.Create(uuid, source)
			b.refs[h] = history.Ref{Source: source, UUID: uuid}
			created++
			log.Debug("create entity", "source", source, "uuid", uuid, "handle", h)
			return &binding{uuid: uuid, handle: h}
		},
		func(e *binding) {
			sys.Destroy(e.handle)
			delete(b.refs, e.handle)
			destroyed++
			log.Debug("destroy entity", "source", source, "uuid", e.uuid, "handle", e.handle)
		})
	bs.doc = doc

	handles := make(map[int]entity.Handle, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n == nil {
			continue
		}
		if h, ok := sys.Resolve(n.UUID()); ok {
			handles[i] = h
		}
	}
	// hierarchy, in document order
	var roots []entity.Handle
	for _, s := range doc.Scenes {
		if s == nil {
			continue
		}
		for _, r := range s.Nodes {
			if h, ok := handles[r]; ok {
				roots = append(roots, h)
			}
		}
	}
	b.order(bs.mount, roots, source)
	for i, n := range doc.Nodes {
		h, ok := handles[i]
		if !ok {
			continue
		}
		var kids []entity.Handle
		for _, c := range n.Children {
			if ch, ok := handles[c]; ok {
				kids = append(kids, ch)
			}
		}
		b.order(h, kids, source)
	}
	// transforms and components
	for i, n := range doc.Nodes {
		h, ok := handles[i]
		if !ok {
			continue
		}
		in, _ := sys.Info(h)
		if lm := n.LocalMatrix(); in.Local != lm {
			sys.SetLocalTransform(h, lm)
			sys.MarkSubtreeDirty(h)
		}
		sys.SetComponents(h, n.Name, n.Extensions)
	}
	return
}

// order makes kids the children of parent (0 for the world root) that
// belong to source, in the given order, leaving any other children alone.
func (b *Binder) order(parent entity.Handle, kids []entity.Handle, source string) {
	sys := b.Entities
	var cur []entity.Handle
	if parent != 0 {
		in, _ := sys.Info(parent)
		for _, c := range in.Children {
			if b.refs[c].Source == source {
				cur = append(cur, c)
			}
		}
	} else {
		for _, r := range sys.Roots() {
			if b.refs[r].Source == source {
				cur = append(cur, r)
			}
		}
	}
	if slices.Equal(cur, kids) {
		return
	}
	for _, k := range kids {
		sys.SetParent(k, parent)
	}
}

// Mount attaches the root entities of the given source to the given
// entity of another source, as for a nested scene, or detaches them
// with parent 0. World-space edits of the source are then relative to
// the world matrix of parent.
func (b *Binder) Mount(source string, parent entity.Handle) {
	bs := b.source(source)
	bs.mount = parent
	if bs.doc != nil {
		b.Reconcile(source, bs.doc)
	}
}

// MountMatrix returns the world matrix of the mount entity of the given
// source, or nil if the source is mounted at the world root.
func (b *Binder) MountMatrix(source string) *math64.Matrix4 {
	bs, ok := b.sources[source]
	if !ok || bs.mount == 0 {
		return nil
	}
	m := b.Entities.WorldTransform(bs.mount)
	return &m
}

// Ref returns the source and UUID of the given entity.
func (b *Binder) Ref(h entity.Handle) (history.Ref, bool) {
	r, ok := b.refs[h]
	return r, ok
}

// Refs returns the references of the given entities, skipping
// entities that are not bound.
func (b *Binder) Refs(hs ...entity.Handle) []history.Ref {
	var rs []history.Ref
	for _, h := range hs {
		if r, ok := b.refs[h]; ok {
			rs = append(rs, r)
		}
	}
	return rs
}

// Handle returns the entity bound to the given UUID.
func (b *Binder) Handle(uuid string) (entity.Handle, bool) {
	h, ok := b.Entities.Resolve(uuid)
	if !ok {
		return 0, false
	}
	_, bound := b.refs[h]
	return h, bound
}

// TopLevel returns the outermost ancestor of the given entity that
// belongs to the same source. The walk stops at the root of the
// source's document, so the entities of a nested document resolve
// to a root of that document rather than of the enclosing one.
func (b *Binder) TopLevel(h entity.Handle) entity.Handle {
	r, ok := b.refs[h]
	if !ok {
		return h
	}
	for {
		in, ok := b.Entities.Info(h)
		if !ok || in.Parent == 0 {
			return h
		}
		if pr, bound := b.refs[in.Parent]; !bound || pr.Source != r.Source {
			return h
		}
		h = in.Parent
	}
}
