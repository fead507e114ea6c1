// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"slices"

	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/math64"
)

// Reparent moves the given nodes into the children of the node with
// UUID parent, or into the scene root list for "", in front of the
// sibling with UUID before (appending if it is not a member). The
// world pose of every moved node is preserved by recomputing its
// local matrix against the new parent. base is the world matrix of
// the document mount, or nil. It returns the UUIDs of every node
// whose world matrix may have changed. Nothing happens if the
// new parent is not found.
func Reparent(doc *gltf.Document, ids []string, parent, before string, base *math64.Matrix4) ([]string, error) {
	np, ok := container(doc, parent)
	if !ok {
		return nil, nil
	}
	idx := indexes(doc, ids)
	if c, isChild := np.(gltf.Child); isChild {
		for _, i := range idx {
			if doc.IsDescendant(c.Parent, i) {
				return nil, fmt.Errorf("%w: %s into %s", ErrCycle, doc.UUIDOf(i), parent)
			}
		}
	}
	for _, i := range idx {
		world := doc.WorldMatrix(i, base)
		if _, _, ok := doc.Detach(i); !ok {
			return nil, fmt.Errorf("%w: can not find the container of node %d (%s)", ErrCorrupt, i, doc.UUIDOf(i))
		}
		insert(doc, i, np, before)
		if err := setWorld(doc, i, world, base); err != nil {
			return nil, err
		}
	}
	return dirty(doc, idx...), nil
}

// Group creates a new node with the given name, moves the given nodes
// (in the given order) into its children, and appends the new node to
// the scene root list. The group always goes to the scene root, even
// when all of the nodes shared another parent. The world poses of the
// grouped nodes are preserved. A node that is a descendant of another
// given node stays where it is. It returns the index of the new node,
// or -1 if none of the nodes were found.
func Group(doc *gltf.Document, ids []string, name string, newID IDFunc) (int, error) {
	idx := minimalRoots(doc, indexes(doc, ids))
	if len(idx) == 0 {
		return -1, nil
	}
	// group members keep their world pose relative to the document root
	worlds := make([]math64.Matrix4, len(idx))
	for k, i := range idx {
		worlds[k] = doc.WorldMatrix(i, nil)
	}
	g := &gltf.Node{Name: name, Extensions: map[string]any{
		component.Visible: map[string]any{"value": true},
	}}
	g.SetUUID(newID())
	gi := doc.AddNode(g)
	for k, i := range idx {
		if _, _, ok := doc.Detach(i); !ok {
			return -1, fmt.Errorf("%w: can not find the container of node %d (%s)", ErrCorrupt, i, doc.UUIDOf(i))
		}
		g.Children = append(g.Children, i)
		doc.Nodes[i].SetMatrix(worlds[k])
	}
	root := gltf.Root{Scene: doc.DefaultScene()}
	doc.SetMembers(root, append(slices.Clone(doc.Members(root)), gi))
	return gi, nil
}

// Remove deletes the given nodes and all of their descendants, and
// returns the UUIDs of every deleted node in pre-order. Missing UUIDs
// are ignored. Remaining nodes are compacted, so node indexes change.
func Remove(doc *gltf.Document, ids []string) []string {
	// collect the descendant closure
	removed := make([]bool, len(doc.Nodes))
	var gone []string
	for _, i := range indexes(doc, ids) {
		for _, d := range doc.Subtree(i) {
			if removed[d] {
				continue
			}
			removed[d] = true
			gone = append(gone, doc.UUIDOf(d))
		}
	}
	if len(gone) == 0 {
		return nil
	}
	isRemoved := func(i int) bool { return i >= 0 && i < len(removed) && removed[i] }

	// strip references from the remaining nodes and the scenes
	for i, n := range doc.Nodes {
		if n == nil || removed[i] {
			continue
		}
		if slices.ContainsFunc(n.Children, isRemoved) {
			n.Children = slices.DeleteFunc(slices.Clone(n.Children), isRemoved)
			if len(n.Children) == 0 {
				n.Children = nil
			}
		}
	}
	for _, s := range doc.Scenes {
		if s != nil && slices.ContainsFunc(s.Nodes, isRemoved) {
			s.Nodes = slices.DeleteFunc(slices.Clone(s.Nodes), isRemoved)
		}
	}

	// tombstone, so that no index shifts during the pass
	for i := range doc.Nodes {
		if removed[i] {
			doc.Nodes[i] = nil
		}
	}
	compact(doc)
	return gone
}

// compact drops all tombstones from the node list and rewrites every
// children and scene root list through the resulting old to new index map.
func compact(doc *gltf.Document) {
	remap := make([]int, len(doc.Nodes))
	nodes := make([]*gltf.Node, 0, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n == nil {
			remap[i] = -1
			continue
		}
		remap[i] = len(nodes)
		nodes = append(nodes, n)
	}
	through := func(list []int) []int {
		var out []int
		for _, i := range list {
			if i >= 0 && i < len(remap) && remap[i] >= 0 {
				out = append(out, remap[i])
			}
		}
		return out
	}
	for _, n := range nodes {
		n.Children = through(n.Children)
	}
	for _, s := range doc.Scenes {
		if s != nil {
			s.Nodes = through(s.Nodes)
		}
	}
	doc.Nodes = nodes
}
