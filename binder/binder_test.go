// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binder_test

import (
	"testing"

	"cogentcore.org/scenedoc/binder"
	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/entity"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/graph"
	"cogentcore.org/scenedoc/history"
	"cogentcore.org/scenedoc/math64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(t *testing.T, doc *gltf.Document, name, parent string) {
	t.Helper()
	_, err := graph.Create(doc, graph.NewNode{Name: name, Parent: parent, Extensions: map[string]any{component.UUID: name}}, nil)
	require.NoError(t, err)
}

func edit(t *testing.T, st *history.Store, source string, fun func(doc *gltf.Document)) {
	t.Helper()
	doc, err := st.CloneCurrentSnapshot(source)
	require.NoError(t, err)
	fun(doc)
	require.NoError(t, st.Commit(&history.Snapshot{Source: source, Data: doc}))
}

func handle(t *testing.T, b *binder.Binder, uuid string) entity.Handle {
	t.Helper()
	h, ok := b.Handle(uuid)
	require.True(t, ok, uuid)
	return h
}

func TestReconcile(t *testing.T) {
	w := entity.NewWorld()
	b := binder.New(w)
	doc := gltf.New()
	add(t, doc, "A", "")
	add(t, doc, "B", "")
	add(t, doc, "A1", "A")

	created, destroyed := b.Reconcile("s", doc)
	assert.Equal(t, 3, created)
	assert.Equal(t, 0, destroyed)
	a, a1 := handle(t, b, "A"), handle(t, b, "A1")
	in, _ := w.Info(a1)
	assert.Equal(t, a, in.Parent)
	assert.Equal(t, "A1", in.Name)
	r, ok := b.Ref(a1)
	require.True(t, ok)
	assert.Equal(t, history.Ref{Source: "s", UUID: "A1"}, r)

	// reconciling the same document changes nothing
	w.WorldTransform(a1)
	created, destroyed = b.Reconcile("s", doc)
	assert.Equal(t, 0, created+destroyed)
	assert.Equal(t, a, handle(t, b, "A"))
	assert.False(t, w.IsDirty(a1))

	doc2 := doc.Clone()
	graph.Remove(doc2, []string{"A"})
	created, destroyed = b.Reconcile("s", doc2)
	assert.Equal(t, 0, created)
	assert.Equal(t, 2, destroyed)
	_, ok = b.Handle("A1")
	assert.False(t, ok)
	assert.Equal(t, 1, w.Len())
	_, ok = b.Ref(a1)
	assert.False(t, ok)
}

func TestAttach(t *testing.T) {
	w := entity.NewWorld()
	b := binder.New(w)
	st := history.NewStore()
	doc := gltf.New()
	add(t, doc, "A", "")
	add(t, doc, "B", "")
	st.Init("s", doc)
	b.Attach(st)
	assert.Equal(t, 2, w.Len())

	edit(t, st, "s", func(doc *gltf.Document) {
		doc.Nodes[0].SetMatrix(math64.NewTranslation(2, 0, 0))
		doc.Nodes[1].SetMatrix(math64.NewTranslation(5, 0, 0))
	})
	bh := handle(t, b, "B")
	wm := w.WorldTransform(bh)
	assert.Equal(t, math64.Vec3(5, 0, 0), wm.Translation())

	edit(t, st, "s", func(doc *gltf.Document) {
		_, err := graph.Reparent(doc, []string{"B"}, "A", "", nil)
		require.NoError(t, err)
	})
	in, _ := w.Info(bh)
	assert.Equal(t, handle(t, b, "A"), in.Parent)
	wm = w.WorldTransform(bh)
	assert.InDelta(t, 5.0, wm.Translation().X, 1e-9)

	// undo restores the entity hierarchy from the previous snapshot
	require.True(t, st.Undo("s", 1))
	in, _ = w.Info(bh)
	assert.Equal(t, entity.Handle(0), in.Parent)

	edit(t, st, "s", func(doc *gltf.Document) {
		_, err := graph.Duplicate(doc, []string{"A"}, graph.Sequence("d"))
		require.NoError(t, err)
	})
	assert.Equal(t, 3, w.Len())
	_, ok := b.Handle("d1")
	assert.True(t, ok)
}

func TestMount(t *testing.T) {
	w := entity.NewWorld()
	b := binder.New(w)
	outer := gltf.New()
	add(t, outer, "O", "")
	outer.Nodes[0].SetMatrix(math64.NewTranslation(0, 0, 10))
	inner := gltf.New()
	add(t, inner, "I", "")
	add(t, inner, "I1", "I")

	b.Reconcile("outer", outer)
	b.Reconcile("inner", inner)
	assert.Nil(t, b.MountMatrix("inner"))

	o := handle(t, b, "O")
	b.Mount("inner", o)
	i, i1 := handle(t, b, "I"), handle(t, b, "I1")
	in, _ := w.Info(i)
	assert.Equal(t, o, in.Parent)

	m := b.MountMatrix("inner")
	require.NotNil(t, m)
	assert.Equal(t, math64.Vec3(0, 0, 10), m.Translation())
	wm := w.WorldTransform(i1)
	assert.Equal(t, math64.Vec3(0, 0, 10), wm.Translation())

	// the top level walk stops at the document boundary
	assert.Equal(t, i, b.TopLevel(i1))
	assert.Equal(t, i, b.TopLevel(i))
	assert.Equal(t, o, b.TopLevel(o))

	refs := b.Refs(i1, o, entity.Handle(999))
	assert.Equal(t, []history.Ref{{Source: "inner", UUID: "I1"}, {Source: "outer", UUID: "O"}}, refs)

	// re-reconciling the outer source leaves the mounted roots alone
	b.Reconcile("outer", outer)
	in, _ = w.Info(i)
	assert.Equal(t, o, in.Parent)
}

// rootUUIDs returns the UUIDs of the root entities in order.
func rootUUIDs(w *entity.World) []string {
	var ids []string
	for _, h := range w.Roots() {
		in, _ := w.Info(h)
		ids = append(ids, in.UUID)
	}
	return ids
}

func TestRootOrder(t *testing.T) {
	w := entity.NewWorld()
	b := binder.New(w)
	doc := gltf.New()
	add(t, doc, "A", "")
	add(t, doc, "B", "")
	add(t, doc, "C", "")
	b.Reconcile("s", doc)
	assert.Equal(t, []string{"A", "B", "C"}, rootUUIDs(w))

	_, err := graph.Duplicate(doc, []string{"A"}, graph.Sequence("d"))
	require.NoError(t, err)
	b.Reconcile("s", doc)
	assert.Equal(t, []string{"A", "d1", "B", "C"}, rootUUIDs(w))

	_, err = graph.Reparent(doc, []string{"C"}, "", "A", nil)
	require.NoError(t, err)
	b.Reconcile("s", doc)
	assert.Equal(t, []string{"C", "A", "d1", "B"}, rootUUIDs(w))
}
