// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gltf provides the scene document model: a GLTF-structured,
// index-addressed node graph that is the source of truth for one
// editable scene. Parent/child relationships are integer indices into
// one flat [Document.Nodes] list, exactly as in the GLTF wire format.
//
// A [Document] is treated as an immutable value once it has been
// committed to a history; edits are always made on a [Document.Clone].
package gltf

import (
	"encoding/json"
	"maps"
	"slices"

	"cogentcore.org/scenedoc/math64"
)

// UUIDExtension is the reserved extension key that carries
// the stable identity (UUID string) of a node.
const UUIDExtension = "XYZ_uuid"

// Version is the GLTF asset version written by [New].
const Version = "2.0"

// Asset is the GLTF asset header.
type Asset struct {
	Version    string `json:"version"`
	Generator  string `json:"generator,omitempty"`
	MinVersion string `json:"minVersion,omitempty"`
	Copyright  string `json:"copyright,omitempty"`
}

// Scene is a GLTF scene, which lists the root nodes of the hierarchy.
type Scene struct {

	// Name is the optional user-facing name of the scene.
	Name string `json:"name,omitempty"`

	// Nodes are the indexes of the root nodes, in display order.
	Nodes []int `json:"nodes,omitempty"`
}

// Document is one version of an editable scene source.
type Document struct {

	// Asset is the GLTF asset header.
	Asset Asset

	// Scene is the index of the default scene, if any.
	Scene *int

	// Scenes are the scenes of the document. Editing operations use
	// [Document.DefaultScene] as the document root.
	Scenes []*Scene

	// Nodes is the flat node list. Entries are only nil transiently,
	// during a removal pass before compaction.
	Nodes []*Node

	// Other holds top-level members that are not modeled here
	// (meshes, materials, buffers, ...) verbatim, so that they
	// survive decoding and encoding unchanged.
	Other map[string]json.RawMessage
}

// New returns a new empty document with one empty default scene.
func New() *Document {
	sc := 0
	return &Document{
		Asset:  Asset{Version: Version, Generator: "cogentcore.org/scenedoc"},
		Scene:  &sc,
		Scenes: []*Scene{{}},
	}
}

// DefaultScene returns the index of the scene that acts as the
// document root, creating an empty scene if the document has none.
func (d *Document) DefaultScene() int {
	if len(d.Scenes) == 0 {
		d.Scenes = append(d.Scenes, &Scene{})
	}
	if d.Scene != nil && *d.Scene >= 0 && *d.Scene < len(d.Scenes) {
		return *d.Scene
	}
	return 0
}

// NumNodes returns the number of node slots, including any tombstones.
func (d *Document) NumNodes() int {
	return len(d.Nodes)
}

// Node returns the node at the given index, or nil if the index
// is out of range or the slot has been removed.
func (d *Document) Node(i int) *Node {
	if i < 0 || i >= len(d.Nodes) {
		return nil
	}
	return d.Nodes[i]
}

// AddNode appends the given node and returns its index.
func (d *Document) AddNode(n *Node) int {
	d.Nodes = append(d.Nodes, n)
	return len(d.Nodes) - 1
}

// UUIDOf returns the UUID of the node at the given index,
// or "" if there is no such node or it has no identity.
func (d *Document) UUIDOf(i int) string {
	n := d.Node(i)
	if n == nil {
		return ""
	}
	return n.UUID()
}

// IndexOf returns the index of the node with the given UUID,
// or -1 if it is not found.
func (d *Document) IndexOf(uuid string) int {
	if uuid == "" {
		return -1
	}
	for i, n := range d.Nodes {
		if n != nil && n.UUID() == uuid {
			return i
		}
	}
	return -1
}

// IndexMap returns the index of every node by UUID, for callers
// that look up many nodes at once. As with [Document.IndexOf], the
// first node wins if a UUID is repeated.
func (d *Document) IndexMap() map[string]int {
	m := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		if n == nil {
			continue
		}
		if id := n.UUID(); id != "" {
			if _, has := m[id]; !has {
				m[id] = i
			}
		}
	}
	return m
}

// UUIDs returns the UUIDs of all nodes in index order,
// skipping nodes without an identity.
func (d *Document) UUIDs() []string {
	ids := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if n == nil {
			continue
		}
		if id := n.UUID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Clone returns a deep copy of the document. Nothing in the
// returned document aliases the receiver, so it is safe to mutate.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cd := &Document{Asset: d.Asset}
	if d.Scene != nil {
		sc := *d.Scene
		cd.Scene = &sc
	}
	if d.Scenes != nil {
		cd.Scenes = make([]*Scene, len(d.Scenes))
		for i, s := range d.Scenes {
			if s == nil {
				continue
			}
			cd.Scenes[i] = &Scene{Name: s.Name, Nodes: slices.Clone(s.Nodes)}
		}
	}
	if d.Nodes != nil {
		cd.Nodes = make([]*Node, len(d.Nodes))
		for i, n := range d.Nodes {
			cd.Nodes[i] = n.Clone()
		}
	}
	if d.Other != nil {
		cd.Other = make(map[string]json.RawMessage, len(d.Other))
		for k, v := range d.Other {
			cd.Other[k] = slices.Clone(v)
		}
	}
	return cd
}

// ParentMap returns, for every node index, the index of its parent
// node, or -1 for nodes that are scene roots or not referenced.
func (d *Document) ParentMap() []int {
	pm := make([]int, len(d.Nodes))
	for i := range pm {
		pm[i] = -1
	}
	for i, n := range d.Nodes {
		if n == nil {
			continue
		}
		for _, c := range n.Children {
			if c >= 0 && c < len(pm) {
				pm[c] = i
			}
		}
	}
	return pm
}

// Parent returns the index of the parent node of the given node,
// or -1 if it is a scene root or is not referenced by any node.
func (d *Document) Parent(i int) int {
	for pi, n := range d.Nodes {
		if n != nil && slices.Contains(n.Children, i) {
			return pi
		}
	}
	return -1
}

// Subtree returns the given node index followed by all of its
// descendants, in pre-order (depth-first, parent before children).
func (d *Document) Subtree(i int) []int {
	var out []int
	visited := map[int]bool{}
	var walk func(i int)
	walk = func(i int) {
		n := d.Node(i)
		if n == nil || visited[i] {
			return
		}
		visited[i] = true
		out = append(out, i)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(i)
	return out
}

// IsDescendant returns whether node i is node ancestor itself
// or is contained in the subtree of ancestor.
func (d *Document) IsDescendant(i, ancestor int) bool {
	return slices.Contains(d.Subtree(ancestor), i)
}

// Reachable returns the set of node indexes reachable
// from the root lists of all scenes.
func (d *Document) Reachable() map[int]bool {
	r := map[int]bool{}
	for _, s := range d.Scenes {
		if s == nil {
			continue
		}
		for _, root := range s.Nodes {
			for _, i := range d.Subtree(root) {
				r[i] = true
			}
		}
	}
	return r
}

// LocalMatrix returns the local matrix of the given node,
// which is the identity for a missing node or matrix.
func (d *Document) LocalMatrix(i int) math64.Matrix4 {
	n := d.Node(i)
	if n == nil {
		return math64.Identity4()
	}
	return n.LocalMatrix()
}

// WorldMatrix returns the world matrix of the given node,
// which is base * the local matrices of each ancestor from the
// outermost down to the node itself. A nil base is the identity;
// a non-nil base is the world matrix of the entity that the
// document is mounted under.
func (d *Document) WorldMatrix(i int, base *math64.Matrix4) math64.Matrix4 {
	pm := d.ParentMap()
	return d.worldMatrix(pm, i, base)
}

func (d *Document) worldMatrix(pm []int, i int, base *math64.Matrix4) math64.Matrix4 {
	var chain []int
	seen := map[int]bool{}
	for cur := i; cur >= 0 && cur < len(pm) && !seen[cur]; cur = pm[cur] {
		seen[cur] = true
		chain = append(chain, cur)
	}
	w := math64.Identity4()
	if base != nil {
		w = *base
	}
	for k := len(chain) - 1; k >= 0; k-- {
		lm := d.LocalMatrix(chain[k])
		w.SetMul(&lm)
	}
	return w
}

// ParentWorldMatrix returns the world matrix of the parent of the
// given node, which is base (or the identity) for a scene root.
func (d *Document) ParentWorldMatrix(i int, base *math64.Matrix4) math64.Matrix4 {
	pm := d.ParentMap()
	if i < 0 || i >= len(pm) || pm[i] < 0 {
		if base != nil {
			return *base
		}
		return math64.Identity4()
	}
	return d.worldMatrix(pm, pm[i], base)
}

// Extension returns the extension payload for the given key
// on the node at index i, and whether it exists.
func (d *Document) Extension(i int, key string) (any, bool) {
	n := d.Node(i)
	if n == nil || n.Extensions == nil {
		return nil, false
	}
	v, ok := n.Extensions[key]
	return v, ok
}

// ExtensionKeys returns the sorted extension keys of the node at index i.
func (d *Document) ExtensionKeys(i int) []string {
	n := d.Node(i)
	if n == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(n.Extensions))
}
