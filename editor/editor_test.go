// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package editor_test

import (
	"math"
	"testing"

	"cogentcore.org/scenedoc/binder"
	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/editor"
	"cogentcore.org/scenedoc/entity"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/graph"
	"cogentcore.org/scenedoc/history"
	"cogentcore.org/scenedoc/math64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// node creates a node whose name is also its UUID.
func node(t *testing.T, doc *gltf.Document, name, parent string) {
	t.Helper()
	_, err := graph.Create(doc, graph.NewNode{Name: name, Parent: parent, Extensions: map[string]any{component.UUID: name}}, nil)
	require.NoError(t, err)
}

func setup(t *testing.T) (*editor.Editor, *entity.World) {
	w := entity.NewWorld()
	ed := editor.New(history.NewStore(), binder.New(w))
	ed.NewID = graph.Sequence("n")
	doc := gltf.New()
	node(t, doc, "A", "")
	node(t, doc, "B", "")
	node(t, doc, "A1", "A")
	require.NoError(t, ed.Open("s", doc))
	return ed, w
}

func refs(source string, ids ...string) []history.Ref {
	rs := make([]history.Ref, len(ids))
	for i, id := range ids {
		rs[i] = history.Ref{Source: source, UUID: id}
	}
	return rs
}

func uuids(ed *editor.Editor, source string) []string {
	return ed.Store.Current(source).Data.UUIDs()
}

func TestCreate(t *testing.T) {
	ed, w := setup(t)
	r, err := ed.Create(editor.Create{Source: "s", Name: "lamp", Parent: "A", Before: "A1",
		Components: []component.Spec{{ID: component.Light, Props: map[string]any{"intensity": 2.0}}}})
	require.NoError(t, err)
	assert.Equal(t, history.Ref{Source: "s", UUID: "n1"}, r)
	assert.Equal(t, 2, ed.Store.Len("s"))
	assert.Equal(t, "create", ed.Store.Current("s").Action)

	doc := ed.Store.Current("s").Data
	a := doc.Nodes[doc.IndexOf("A")]
	assert.Equal(t, []string{"n1", "A1"}, []string{doc.UUIDOf(a.Children[0]), doc.UUIDOf(a.Children[1])})
	assert.Equal(t, 2.0, doc.Nodes[doc.IndexOf("n1")].Extensions[component.Light].(map[string]any)["intensity"])

	h, ok := ed.Binder.Handle("n1")
	require.True(t, ok)
	in, _ := w.Info(h)
	assert.Equal(t, "lamp", in.Name)

	// a missing parent is skipped without a commit
	r, err = ed.Create(editor.Create{Source: "s", Name: "x", Parent: "nope"})
	require.NoError(t, err)
	assert.Equal(t, history.Ref{}, r)
	assert.Equal(t, 2, ed.Store.Len("s"))

	_, err = ed.Create(editor.Create{Source: "s", Components: []component.Spec{{ID: "XYZ_bogus"}}})
	assert.ErrorIs(t, err, component.ErrUnknown)
	_, err = ed.Create(editor.Create{Source: "other"})
	assert.ErrorIs(t, err, editor.ErrUnknownSource)
}

func TestRemoveUndoRedo(t *testing.T) {
	ed, w := setup(t)
	ed.Selection.Replace("A1", "B")

	require.NoError(t, ed.Remove(refs("s", "A", "missing")))
	assert.Equal(t, []string{"B"}, uuids(ed, "s"))
	assert.Equal(t, []string{"B"}, ed.Selection.IDs())
	assert.Equal(t, 1, w.Len())

	// nothing left to remove: no new snapshot
	require.NoError(t, ed.Remove(refs("s", "A")))
	assert.Equal(t, 2, ed.Store.Len("s"))

	require.True(t, ed.Undo("s", 1))
	assert.Equal(t, []string{"A", "B", "A1"}, uuids(ed, "s"))
	assert.Equal(t, 3, w.Len())
	assert.False(t, ed.Undo("s", 5), "already at the start")

	ed.Selection.Replace("A1")
	require.True(t, ed.Redo("s", 1))
	assert.Empty(t, ed.Selection.IDs(), "redo removed A1 again")
	assert.False(t, ed.Redo("s", 1))
}

func TestDuplicateAndGroup(t *testing.T) {
	ed, _ := setup(t)
	dup, err := ed.Duplicate(refs("s", "A", "A1"))
	require.NoError(t, err)
	assert.Equal(t, refs("s", "n2"), dup, "A1 is copied as part of A")
	doc := ed.Store.Current("s").Data
	assert.Equal(t, []string{"A", "n2", "B"}, []string{doc.UUIDOf(doc.Scenes[0].Nodes[0]), doc.UUIDOf(doc.Scenes[0].Nodes[1]), doc.UUIDOf(doc.Scenes[0].Nodes[2])})

	g, err := ed.Group(refs("s", "A", "B"), "pair")
	require.NoError(t, err)
	require.Len(t, g, 1)
	doc = ed.Store.Current("s").Data
	gi := doc.IndexOf(g[0].UUID)
	assert.Equal(t, "pair", doc.Nodes[gi].Name)
	assert.Len(t, doc.Nodes[gi].Children, 2)
	assert.Equal(t, 3, ed.Store.Len("s"))
}

func TestReparent(t *testing.T) {
	ed, w := setup(t)
	require.NoError(t, ed.SetPosition(refs("s", "A"), math64.Vec3(2, 0, 0), graph.Local))
	require.NoError(t, ed.SetPosition(refs("s", "B"), math64.Vec3(0, 3, 0), graph.World))

	require.NoError(t, ed.Reparent(refs("s", "B"), history.Ref{Source: "s", UUID: "A"}, ""))
	h, _ := ed.Binder.Handle("B")
	wm := w.WorldTransform(h)
	assert.InDelta(t, 0.0, wm.Translation().X, 1e-9)
	assert.InDelta(t, 3.0, wm.Translation().Y, 1e-9)
	in, _ := w.Info(h)
	ah, _ := ed.Binder.Handle("A")
	assert.Equal(t, ah, in.Parent)

	n := ed.Store.Len("s")
	err := ed.Reparent(refs("s", "A"), history.Ref{Source: "s", UUID: "A1"}, "")
	assert.ErrorIs(t, err, graph.ErrCycle)
	err = ed.Reparent(refs("s", "A"), history.Ref{Source: "t"}, "")
	assert.ErrorIs(t, err, editor.ErrCrossSource)
	err = ed.Reparent([]history.Ref{{Source: "s"}}, history.Ref{Source: "s", UUID: "B"}, "")
	assert.ErrorIs(t, err, editor.ErrRootReparent)
	require.NoError(t, ed.Reparent(refs("s", "A"), history.Ref{Source: "s", UUID: "gone"}, ""))
	assert.Equal(t, n, ed.Store.Len("s"))
}

func TestTransforms(t *testing.T) {
	ed, w := setup(t)
	require.NoError(t, ed.SetPosition(refs("s", "A"), math64.Vec3(1, 0, 0), graph.Local))
	require.NoError(t, ed.SetScale(refs("s", "A"), math64.Vector3Scalar(2), graph.Local))
	require.NoError(t, ed.SetRotation(refs("s", "B"), math64.NewQuatAxisAngle(math64.Vec3(0, 1, 0), math.Pi/2), graph.Local))
	require.NoError(t, ed.RotateAround(refs("s", "A"), math64.Vec3(0, 0, 1), math.Pi/2, math64.Vec3(0, 0, 0)))
	assert.Equal(t, 5, ed.Store.Len("s"))
	assert.Equal(t, "rotate around", ed.Store.Current("s").Action)

	h, _ := ed.Binder.Handle("A1")
	wm := w.WorldTransform(h)
	assert.InDelta(t, 0.0, wm.Translation().X, 1e-9)
	assert.InDelta(t, 1.0, wm.Translation().Y, 1e-9)
}

func TestProperties(t *testing.T) {
	ed, _ := setup(t)
	require.NoError(t, ed.ModifyName(refs("s", "A", "B"), "same"))
	doc := ed.Store.Current("s").Data
	assert.Equal(t, "same", doc.Nodes[doc.IndexOf("B")].Name)

	require.NoError(t, ed.ModifyMaterial(refs("s", "A"), map[string]any{"roughness": 0.5}))
	require.NoError(t, ed.AddOrRemoveComponent(refs("s", "B"), component.Light, true))
	require.NoError(t, ed.ModifyProperty(refs("s", "B"), component.Light, "intensity", 4.0))
	doc = ed.Store.Current("s").Data
	assert.Equal(t, 0.5, doc.Nodes[doc.IndexOf("A")].Extensions[component.Material].(map[string]any)["roughness"])
	assert.Equal(t, 4.0, doc.Nodes[doc.IndexOf("B")].Extensions[component.Light].(map[string]any)["intensity"])
	assert.Equal(t, 5, ed.Store.Len("s"))

	err := ed.AddOrRemoveComponent(refs("s", "A"), component.UUID, false)
	assert.ErrorIs(t, err, graph.ErrReserved)
	err = ed.ModifyProperty(refs("s", "B"), component.Light, "shadow.bias", 1.0)
	assert.ErrorIs(t, err, graph.ErrBadPath)
	assert.Equal(t, 5, ed.Store.Len("s"))
}

func TestFailureCommitsNothing(t *testing.T) {
	ed, _ := setup(t)
	bad := gltf.New()
	node(t, bad, "X", "")
	bad.Nodes[0].Children = []int{9}
	ed.Store.Init("t", bad)

	_, err := ed.Duplicate(append(refs("s", "A"), refs("t", "X")...))
	assert.ErrorIs(t, err, graph.ErrCorrupt)
	assert.Equal(t, 1, ed.Store.Len("s"), "the good source is not committed either")
	assert.Equal(t, 1, ed.Store.Len("t"))
	assert.Error(t, ed.Open("u", bad))
}

func TestMultiSource(t *testing.T) {
	ed, _ := setup(t)
	doc := gltf.New()
	node(t, doc, "I", "")
	node(t, doc, "I1", "I")
	require.NoError(t, ed.Open("inner", doc))

	rs := append(refs("s", "B"), refs("inner", "I1")...)
	require.NoError(t, ed.ModifyName(rs, "renamed"))
	assert.Equal(t, 2, ed.Store.Len("s"))
	assert.Equal(t, 2, ed.Store.Len("inner"))

	assert.Equal(t, []history.Ref{{Source: "s", UUID: "A"}, {Source: "inner", UUID: "I"}},
		ed.TopLevel(append(refs("s", "A1", "A"), refs("inner", "I1")...)))

	ih, _ := ed.Binder.Handle("I1")
	bh, _ := ed.Binder.Handle("B")
	assert.Equal(t, rs, ed.Refs(bh, ih))

	ed.Selection.Replace("A", "I1")
	assert.True(t, ed.RestrictSelection("s"))
	assert.Equal(t, []string{"A"}, ed.Selection.IDs())
}
