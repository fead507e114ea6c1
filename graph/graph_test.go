// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph_test

import (
	"math"
	"testing"

	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/graph"
	"cogentcore.org/scenedoc/math64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

// add creates a node whose name is also its UUID, under parent
// ("" for the scene root), with the given local matrix.
func add(t *testing.T, doc *gltf.Document, name, parent string, m math64.Matrix4) int {
	t.Helper()
	i, err := graph.Create(doc, graph.NewNode{Name: name, Parent: parent, Extensions: map[string]any{component.UUID: name}}, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, i, 0)
	doc.Nodes[i].SetMatrix(m)
	return i
}

func rootDoc(t *testing.T, names ...string) *gltf.Document {
	doc := gltf.New()
	for _, nm := range names {
		add(t, doc, nm, "", math64.Identity4())
	}
	return doc
}

// shape returns the hierarchy of the document in terms of UUIDs,
// with the scene root list under the "" key.
func shape(doc *gltf.Document) map[string][]string {
	s := map[string][]string{}
	var roots []string
	for _, r := range doc.Scenes[0].Nodes {
		roots = append(roots, doc.UUIDOf(r))
	}
	s[""] = roots
	for _, n := range doc.Nodes {
		var kids []string
		for _, c := range n.Children {
			kids = append(kids, doc.UUIDOf(c))
		}
		s[n.UUID()] = kids
	}
	return s
}

// assertForest checks that every index is in range and that
// no index is repeated anywhere in the hierarchy.
func assertForest(t *testing.T, doc *gltf.Document) {
	t.Helper()
	seen := map[int]bool{}
	check := func(i int) {
		assert.Less(t, i, len(doc.Nodes))
		assert.False(t, seen[i], "index %d repeated", i)
		seen[i] = true
	}
	for _, s := range doc.Scenes {
		for _, i := range s.Nodes {
			check(i)
		}
	}
	for _, n := range doc.Nodes {
		require.NotNil(t, n)
		for _, c := range n.Children {
			check(c)
		}
	}
	assert.NoError(t, doc.Validate())
}

func assertTranslation(t *testing.T, want math64.Vector3, m math64.Matrix4) {
	t.Helper()
	tr := m.Translation()
	assert.InDelta(t, want.X, tr.X, tol, "X")
	assert.InDelta(t, want.Y, tr.Y, tol, "Y")
	assert.InDelta(t, want.Z, tr.Z, tol, "Z")
}

func TestCreate(t *testing.T) {
	doc := rootDoc(t, "A", "B")
	reg := component.NewRegistry()

	ext, err := reg.Build(component.Spec{ID: component.Transform})
	require.NoError(t, err)
	i, err := graph.Create(doc, graph.NewNode{Name: "N", Extensions: ext, Before: "B"}, graph.Sequence("n"))
	require.NoError(t, err)
	n := doc.Nodes[i]
	assert.Equal(t, "n1", n.UUID())
	assert.Nil(t, n.Matrix, "identity transform is omitted")
	assert.NotContains(t, n.Extensions, component.Transform)
	assert.Equal(t, map[string]any{"value": true}, n.Extensions[component.Visible])
	assert.Equal(t, []string{"A", "n1", "B"}, shape(doc)[""])

	ext, err = reg.Build(component.Spec{ID: component.Transform, Props: map[string]any{"position": []any{1.0, 2.0, 3.0}}},
		component.Spec{ID: component.Visible, Props: map[string]any{"value": false}})
	require.NoError(t, err)
	i, err = graph.Create(doc, graph.NewNode{Name: "C", Extensions: ext, Parent: "A"}, graph.Sequence("c"))
	require.NoError(t, err)
	n = doc.Nodes[i]
	require.NotNil(t, n.Matrix)
	assertTranslation(t, math64.Vec3(1, 2, 3), *n.Matrix)
	assert.Equal(t, false, n.Extensions[component.Visible].(map[string]any)["value"])
	assert.Equal(t, []string{"c1"}, shape(doc)["A"])

	// before that is not a member of the parent appends
	_, err = graph.Create(doc, graph.NewNode{Name: "D", Parent: "A", Before: "B"}, graph.Sequence("d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "d1"}, shape(doc)["A"])

	// missing parent is skipped
	i, err = graph.Create(doc, graph.NewNode{Name: "E", Parent: "nope"}, graph.Sequence("e"))
	require.NoError(t, err)
	assert.Equal(t, -1, i)
	assert.Equal(t, -1, doc.IndexOf("e1"))
	assertForest(t, doc)
}

func TestRemoveScenarioA(t *testing.T) {
	doc := rootDoc(t, "A", "B", "C")
	gone := graph.Remove(doc, []string{"B"})
	assert.Equal(t, []string{"B"}, gone)
	assert.Equal(t, []string{"A", "C"}, doc.UUIDs())
	assert.Equal(t, []int{0, 1}, doc.Scenes[0].Nodes)

	// removing an absent node is a no-op
	assert.Nil(t, graph.Remove(doc, []string{"B"}))
	assert.Equal(t, []int{0, 1}, doc.Scenes[0].Nodes)
}

func TestRemoveCompaction(t *testing.T) {
	doc := rootDoc(t, "A", "B")
	add(t, doc, "A1", "A", math64.Identity4())
	add(t, doc, "A2", "A", math64.Identity4())
	add(t, doc, "A11", "A1", math64.Identity4())
	add(t, doc, "B1", "B", math64.Identity4())
	add(t, doc, "B2", "B", math64.Identity4())
	add(t, doc, "B21", "B2", math64.Identity4())

	gone := graph.Remove(doc, []string{"A1", "B2", "A11", "missing"})
	assert.Equal(t, []string{"A1", "A11", "B2", "B21"}, gone)
	assertForest(t, doc)
	assert.Equal(t, []string{"A", "B", "A2", "B1"}, doc.UUIDs())
	s := shape(doc)
	assert.Equal(t, []string{"A2"}, s["A"])
	assert.Equal(t, []string{"B1"}, s["B"])

	graph.Remove(doc, []string{"A2"})
	assert.Nil(t, doc.Nodes[doc.IndexOf("A")].Children, "empty children are omitted")
	assertForest(t, doc)
}

func TestCreateRemoveRoundTrip(t *testing.T) {
	doc := rootDoc(t, "A", "B", "C")
	add(t, doc, "B1", "B", math64.NewTranslation(1, 0, 0))
	before := shape(doc)
	pre := doc.Clone()

	i, err := graph.Create(doc, graph.NewNode{Name: "X", Parent: "B", Before: "B1"}, graph.Sequence("x"))
	require.NoError(t, err)
	add(t, doc, "X1", doc.UUIDOf(i), math64.Identity4())
	assert.NotEqual(t, before, shape(doc))

	graph.Remove(doc, []string{"x1"})
	assert.Equal(t, before, shape(doc))
	assert.Equal(t, pre, doc)
}

func TestGroupScenarioB(t *testing.T) {
	doc := rootDoc(t, "A", "B", "C")
	gi, err := graph.Group(doc, []string{"A", "B"}, "G", graph.Sequence("g"))
	require.NoError(t, err)
	assert.Equal(t, 3, gi)
	g := doc.Nodes[gi]
	assert.Equal(t, "g1", g.UUID())
	assert.Equal(t, []int{0, 1}, g.Children)
	assert.Equal(t, []int{2, 3}, doc.Scenes[0].Nodes)
	assert.Nil(t, g.Matrix)
	assertForest(t, doc)
}

func TestGroupPreservesPose(t *testing.T) {
	doc := rootDoc(t, "P")
	doc.Nodes[0].SetMatrix(math64.NewTranslation(0, 10, 0))
	add(t, doc, "A", "P", math64.NewTranslation(1, 0, 0))
	add(t, doc, "A1", "A", math64.NewTranslation(0, 0, 1))
	add(t, doc, "B", "", math64.NewTranslation(-1, 0, 0))

	gi, err := graph.Group(doc, []string{"A1", "A", "B", "zz"}, "G", graph.Sequence("g"))
	require.NoError(t, err)
	g := doc.Nodes[gi]
	// A1 is carried along by A
	assert.Equal(t, []string{"A", "B"}, []string{doc.UUIDOf(g.Children[0]), doc.UUIDOf(g.Children[1])})
	assert.Equal(t, []string{"P", "g1"}, shape(doc)[""])
	assertTranslation(t, math64.Vec3(1, 10, 0), doc.WorldMatrix(doc.IndexOf("A"), nil))
	assertTranslation(t, math64.Vec3(1, 10, 1), doc.WorldMatrix(doc.IndexOf("A1"), nil))
	assertForest(t, doc)

	gi, err = graph.Group(doc, []string{"zz"}, "G", graph.Sequence("h"))
	require.NoError(t, err)
	assert.Equal(t, -1, gi)
}

func TestDuplicateScenarioC(t *testing.T) {
	doc := rootDoc(t, "A", "B")
	add(t, doc, "A1", "A", math64.NewTranslation(0, 1, 0))

	out, err := graph.Duplicate(doc, []string{"A", "A1"}, graph.Sequence("d"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 5, len(doc.Nodes))
	a1c := doc.Nodes[3]
	ac := doc.Nodes[4]
	assert.Equal(t, 4, out[0])
	assert.Equal(t, "A1", a1c.Name)
	assert.Equal(t, "d1", a1c.UUID())
	assert.Equal(t, "A", ac.Name)
	assert.Equal(t, "d2", ac.UUID())
	assert.Equal(t, []int{3}, ac.Children)
	assert.Equal(t, doc.Nodes[2].Matrix, a1c.Matrix)
	// inserted right after the original
	assert.Equal(t, []int{0, 4, 1}, doc.Scenes[0].Nodes)
	// originals are untouched
	assert.Equal(t, []int{2}, doc.Nodes[0].Children)
	assertForest(t, doc)

	out, err = graph.Duplicate(doc, []string{"A1"}, graph.Sequence("e"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, doc.Nodes[0].Children)
	assert.Equal(t, []int{5}, out)
}

func TestDuplicateKeepsReferences(t *testing.T) {
	doc := rootDoc(t, "T", "A")
	reg := component.NewRegistry()
	ok, err := graph.AddComponent(doc, reg, "A", component.LookAt, map[string]any{"target": "T"})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = graph.Duplicate(doc, []string{"T", "A"}, graph.Sequence("d"))
	require.NoError(t, err)
	c := doc.Nodes[doc.IndexOf("d2")]
	assert.Equal(t, "A", c.Name)
	// the copy still looks at the original target, not its copy
	assert.Equal(t, "T", c.Extensions[component.LookAt].(map[string]any)["target"])

	_, err = graph.Group(doc, []string{"T"}, "G", graph.Sequence("g"))
	require.NoError(t, err)
	assert.Equal(t, "T", doc.Nodes[doc.IndexOf("A")].Extensions[component.LookAt].(map[string]any)["target"])
}

func TestDuplicateCorrupt(t *testing.T) {
	doc := rootDoc(t, "A")
	// a node that is in no container
	doc.AddNode(&gltf.Node{Name: "O", Extensions: map[string]any{component.UUID: "O"}})
	_, err := graph.Duplicate(doc, []string{"O"}, graph.Sequence("d"))
	assert.ErrorIs(t, err, graph.ErrCorrupt)

	doc = rootDoc(t, "A")
	doc.Nodes[0].Children = []int{7}
	_, err = graph.Duplicate(doc, []string{"A"}, graph.Sequence("d"))
	assert.ErrorIs(t, err, graph.ErrCorrupt)
}

func TestReparentScenarioD(t *testing.T) {
	doc := rootDoc(t, "A", "B")
	doc.Nodes[0].SetMatrix(math64.NewTranslation(5, 0, 0))
	doc.Nodes[1].SetMatrix(math64.NewTranslation(2, 0, 0))

	dirty, err := graph.Reparent(doc, []string{"A"}, "B", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, dirty)
	a := doc.Nodes[0]
	require.NotNil(t, a.Matrix)
	assertTranslation(t, math64.Vec3(3, 0, 0), *a.Matrix)
	assert.Equal(t, []int{0}, doc.Nodes[1].Children)
	assert.Equal(t, []int{1}, doc.Scenes[0].Nodes)

	// back to the root, in front of B; the children key is dropped
	_, err = graph.Reparent(doc, []string{"A"}, "", "B", nil)
	require.NoError(t, err)
	assert.Nil(t, doc.Nodes[1].Children)
	assert.Equal(t, []int{0, 1}, doc.Scenes[0].Nodes)
	assertTranslation(t, math64.Vec3(5, 0, 0), *doc.Nodes[0].Matrix)
	assertForest(t, doc)
}

func TestReparentPreservesWorldPose(t *testing.T) {
	base := math64.NewTransform(math64.Vec3(0, 0, -4), math64.NewQuatAxisAngle(math64.Vec3(0, 1, 0), 0.3), math64.Vector3Scalar(2))
	tests := []struct {
		name         string
		from, to     math64.Matrix4
		node, nodeP2 math64.Matrix4
	}{
		{"translate", math64.NewTranslation(1, 2, 3), math64.NewTranslation(-4, 0, 1), math64.NewTranslation(5, 0, 0), math64.Identity4()},
		{"rotate", math64.NewRotationAxis(math64.Vec3(0, 0, 1), math.Pi/3), math64.NewRotationAxis(math64.Vec3(1, 0, 0), -0.7),
			math64.NewTransform(math64.Vec3(1, 1, 0), math64.NewQuatAxisAngle(math64.Vec3(0, 1, 1), 1.1), math64.Vector3Scalar(1)), math64.Identity4()},
		{"scale", math64.NewTransform(math64.Vec3(3, 0, 0), math64.QuatIdentity(), math64.Vector3Scalar(0.5)),
			math64.NewTransform(math64.Vec3(0, -2, 0), math64.NewQuatAxisAngle(math64.Vec3(0, 1, 0), 2), math64.Vector3Scalar(3)),
			math64.NewTransform(math64.Vec3(0, 0, 7), math64.NewQuatAxisAngle(math64.Vec3(1, 0, 0), 0.4), math64.Vector3Scalar(1.5)), math64.NewTranslation(0, 1, 0)},
	}
	for _, tt := range tests {
		for _, b := range []*math64.Matrix4{nil, &base} {
			doc := rootDoc(t, "P1", "P2")
			doc.Nodes[0].SetMatrix(tt.from)
			doc.Nodes[1].SetMatrix(tt.to)
			add(t, doc, "Q", "P2", tt.nodeP2)
			add(t, doc, "N", "P1", tt.node)
			add(t, doc, "N1", "N", math64.NewTranslation(0, 0, 1))

			ni := doc.IndexOf("N")
			before := doc.WorldMatrix(ni, b)
			beforeChild := doc.WorldMatrix(doc.IndexOf("N1"), b)

			dirty, err := graph.Reparent(doc, []string{"N"}, "Q", "", b)
			require.NoError(t, err, tt.name)
			assert.Equal(t, []string{"N", "N1"}, dirty)
			after := doc.WorldMatrix(ni, b)
			assert.True(t, after.ApproxEqual(&before, tol), tt.name)
			afterChild := doc.WorldMatrix(doc.IndexOf("N1"), b)
			assert.True(t, afterChild.ApproxEqual(&beforeChild, tol), tt.name)

			bp, bq, bs := before.Decompose()
			ap, aq, as := after.Decompose()
			assert.InDelta(t, bp.X, ap.X, tol)
			assert.InDelta(t, bp.Y, ap.Y, tol)
			assert.InDelta(t, bp.Z, ap.Z, tol)
			assert.InDelta(t, bs.X, as.X, tol)
			assert.InDelta(t, bs.Y, as.Y, tol)
			assert.InDelta(t, bs.Z, as.Z, tol)
			assert.True(t, bq.ApproxEqual(aq, tol), tt.name)
			assertForest(t, doc)
		}
	}
}

func TestReparentErrors(t *testing.T) {
	doc := rootDoc(t, "A")
	add(t, doc, "A1", "A", math64.Identity4())
	add(t, doc, "A11", "A1", math64.Identity4())
	pre := doc.Clone()

	_, err := graph.Reparent(doc, []string{"A"}, "A11", "", nil)
	assert.ErrorIs(t, err, graph.ErrCycle)
	_, err = graph.Reparent(doc, []string{"A"}, "A", "", nil)
	assert.ErrorIs(t, err, graph.ErrCycle)
	assert.Equal(t, pre, doc)

	dirty, err := graph.Reparent(doc, []string{"A1"}, "nope", "", nil)
	assert.NoError(t, err)
	assert.Nil(t, dirty)
	assert.Equal(t, pre, doc)
}

func TestSetTransform(t *testing.T) {
	doc := rootDoc(t, "P")
	doc.Nodes[0].SetMatrix(math64.NewTranslation(2, 0, 0))
	add(t, doc, "N", "P", math64.Identity4())
	add(t, doc, "N1", "N", math64.Identity4())

	dirty, err := graph.SetPosition(doc, []string{"N"}, math64.Vec3(5, 0, 0), graph.World, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"N", "N1"}, dirty)
	assertTranslation(t, math64.Vec3(3, 0, 0), *doc.Nodes[1].Matrix)

	_, err = graph.SetPosition(doc, []string{"N"}, math64.Vec3(0, 1, 0), graph.Local, nil)
	require.NoError(t, err)
	assertTranslation(t, math64.Vec3(2, 1, 0), doc.WorldMatrix(1, nil))

	q := math64.NewQuatAxisAngle(math64.Vec3(0, 0, 1), math.Pi/2)
	_, err = graph.SetRotation(doc, []string{"N"}, q, graph.Local, nil)
	require.NoError(t, err)
	_, dq, _ := doc.Nodes[1].Matrix.Decompose()
	assert.True(t, q.ApproxEqual(dq, tol))
	w := doc.WorldMatrix(2, nil)
	assertTranslation(t, math64.Vec3(2, 1, 1), w.Mul(ptr(math64.NewTranslation(0, 0, 1))))

	_, err = graph.SetScale(doc, []string{"P"}, math64.Vec3(2, 2, 2), graph.World, nil)
	require.NoError(t, err)
	_, _, ds := doc.Nodes[0].Matrix.Decompose()
	assert.InDelta(t, 2.0, ds.X, tol)
	assertTranslation(t, math64.Vec3(2, 0, 0), *doc.Nodes[0].Matrix)

	// setting back to the identity drops the matrix
	_, err = graph.SetScale(doc, []string{"P"}, math64.Vector3Scalar(1), graph.Local, nil)
	require.NoError(t, err)
	_, err = graph.SetPosition(doc, []string{"P"}, math64.Vec3(0, 0, 0), graph.Local, nil)
	require.NoError(t, err)
	assert.Nil(t, doc.Nodes[0].Matrix)

	dirty, err = graph.SetPosition(doc, []string{"missing"}, math64.Vec3(1, 1, 1), graph.World, nil)
	assert.NoError(t, err)
	assert.Empty(t, dirty)
}

func TestSetTransformKeepsShear(t *testing.T) {
	doc := rootDoc(t, "P")
	doc.Nodes[0].SetMatrix(math64.NewTransform(math64.Vec3(0, 0, 0), math64.QuatIdentity(), math64.Vec3(2, 1, 1)))
	q := math64.NewQuatAxisAngle(math64.Vec3(0, 0, 1), math.Pi/4)
	add(t, doc, "C", "P", math64.NewTransform(math64.Vec3(0, 0, 0), q, math64.Vector3Scalar(1)))
	before := *doc.Nodes[1].Matrix

	_, err := graph.SetPosition(doc, []string{"C"}, math64.Vec3(1, 0, 0), graph.World, nil)
	require.NoError(t, err)
	local := *doc.Nodes[1].Matrix
	assertTranslation(t, math64.Vec3(0.5, 0, 0), local)
	assertTranslation(t, math64.Vec3(1, 0, 0), doc.WorldMatrix(1, nil))
	for _, k := range []int{0, 1, 2, 4, 5, 6, 8, 9, 10} {
		assert.InDelta(t, before[k], local[k], tol, "element %d", k)
	}
	_, lq, ls := local.Decompose()
	assert.True(t, q.ApproxEqual(lq, tol))
	assert.InDelta(t, 1.0, ls.X, tol)
	assert.InDelta(t, 1.0, ls.Y, tol)
	assert.InDelta(t, 1.0, ls.Z, tol)

	// the parent has no rotation, so a world rotation is the local one
	r := math64.NewQuatAxisAngle(math64.Vec3(0, 0, 1), math.Pi/2)
	_, err = graph.SetRotation(doc, []string{"C"}, r, graph.World, nil)
	require.NoError(t, err)
	local = *doc.Nodes[1].Matrix
	lp, lq, ls := local.Decompose()
	assert.True(t, r.ApproxEqual(lq, tol))
	assert.True(t, lp.ApproxEqual(math64.Vec3(0.5, 0, 0), tol))
	assert.True(t, ls.ApproxEqual(math64.Vector3Scalar(1), tol))

	_, err = graph.SetScale(doc, []string{"C"}, math64.Vec3(4, 1, 1), graph.World, nil)
	require.NoError(t, err)
	_, _, ls = doc.Nodes[1].Matrix.Decompose()
	assert.True(t, ls.ApproxEqual(math64.Vec3(2, 1, 1), tol))

	// a local position write leaves a sheared matrix alone
	sheared := math64.NewTransform(math64.Vec3(0, 0, 0), math64.QuatIdentity(), math64.Vec3(2, 1, 1))
	sheared.SetMul(ptr(math64.NewTransform(math64.Vec3(0, 0, 0), q, math64.Vector3Scalar(1))))
	si := add(t, doc, "S", "", sheared)
	_, err = graph.SetPosition(doc, []string{"S"}, math64.Vec3(3, 4, 5), graph.Local, nil)
	require.NoError(t, err)
	got := *doc.Nodes[si].Matrix
	assertTranslation(t, math64.Vec3(3, 4, 5), got)
	for k := range 12 {
		assert.Equal(t, sheared[k], got[k], "element %d", k)
	}
}

func ptr(m math64.Matrix4) *math64.Matrix4 { return &m }

func TestRotateAround(t *testing.T) {
	doc := rootDoc(t, "A", "B")
	doc.Nodes[0].SetMatrix(math64.NewTranslation(1, 0, 0))
	doc.Nodes[1].SetMatrix(math64.NewTranslation(1, 0, 0))
	add(t, doc, "B1", "B", math64.NewTranslation(1, 0, 0))

	_, err := graph.RotateAround(doc, []string{"A"}, math64.Vec3(0, 0, 1), math.Pi/2, math64.Vec3(0, 0, 0), nil)
	require.NoError(t, err)
	assertTranslation(t, math64.Vec3(0, 1, 0), *doc.Nodes[0].Matrix)

	// rotating about its own position only changes the orientation;
	// the selected child moves with its parent and is not rotated twice
	dirty, err := graph.RotateAround(doc, []string{"B", "B1"}, math64.Vec3(0, 0, 1), math.Pi/2, math64.Vec3(1, 0, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "B1"}, dirty)
	assertTranslation(t, math64.Vec3(1, 0, 0), *doc.Nodes[1].Matrix)
	assertTranslation(t, math64.Vec3(1, 1, 0), doc.WorldMatrix(2, nil))
	assertTranslation(t, math64.Vec3(1, 0, 0), *doc.Nodes[2].Matrix)
}

func TestProperties(t *testing.T) {
	doc := rootDoc(t, "A")
	reg := component.NewRegistry()

	assert.True(t, graph.Rename(doc, "A", "Alpha"))
	assert.Equal(t, "Alpha", doc.Nodes[0].Name)
	assert.False(t, graph.Rename(doc, "nope", "x"))

	ok, err := graph.AddComponent(doc, reg, "A", component.Light, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = graph.SetProperty(doc, "A", component.Light, "intensity", 3.0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.0, doc.Nodes[0].Extensions[component.Light].(map[string]any)["intensity"])
	ok, err = graph.SetProperty(doc, "A", component.Light, "color.1", 0.5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{1.0, 0.5, 1.0}, doc.Nodes[0].Extensions[component.Light].(map[string]any)["color"])

	_, err = graph.SetProperty(doc, "A", component.Light, "shadow.bias", 0.1)
	assert.ErrorIs(t, err, graph.ErrBadPath)
	_, err = graph.SetProperty(doc, "A", component.Model, "src", "x.glb")
	assert.ErrorIs(t, err, graph.ErrBadPath)
	_, err = graph.SetProperty(doc, "A", component.UUID, "", "other")
	assert.ErrorIs(t, err, graph.ErrReserved)
	ok, err = graph.SetProperty(doc, "missing", component.Light, "intensity", 1.0)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = graph.SetProperty(doc, "A", component.Transform, "position.1", 4.0)
	require.NoError(t, err)
	assert.True(t, ok)
	assertTranslation(t, math64.Vec3(0, 4, 0), *doc.Nodes[0].Matrix)

	ok, err = graph.ModifyMaterial(doc, reg, "A", map[string]any{"roughness": 0.2, "color.0": 0.0})
	require.NoError(t, err)
	assert.True(t, ok)
	mat := doc.Nodes[0].Extensions[component.Material].(map[string]any)
	assert.Equal(t, 0.2, mat["roughness"])
	assert.Equal(t, []any{0.0, 1.0, 1.0, 1.0}, mat["color"])
	assert.Equal(t, 0.0, mat["metalness"])

	changed, err := graph.AddOrRemoveComponent(doc, reg, []string{"A", "missing"}, component.Light, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, changed)
	assert.NotContains(t, doc.Nodes[0].Extensions, component.Light)

	changed, err = graph.AddOrRemoveComponent(doc, reg, []string{"A"}, component.Transform, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, changed)
	assert.Nil(t, doc.Nodes[0].Matrix)

	_, err = graph.AddOrRemoveComponent(doc, reg, []string{"A"}, component.UUID, false)
	assert.ErrorIs(t, err, graph.ErrReserved)
	_, err = graph.AddOrRemoveComponent(doc, reg, []string{"A"}, "XYZ_bogus", true)
	assert.ErrorIs(t, err, graph.ErrUnknownComponent)
}
