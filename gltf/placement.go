// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"fmt"
	"slices"

	"cogentcore.org/scenedoc/base/slicesx"
)

// Placement records where a node lives in the hierarchy: either
// in the root list of a scene ([Root]) or in the children list
// of a parent node ([Child]).
type Placement interface {
	placement()
	String() string
}

// Root is a [Placement] in the root node list of a scene.
type Root struct {
	Scene int
}

// Child is a [Placement] in the children list of a parent node.
type Child struct {
	Parent int
}

func (Root) placement()  {}
func (Child) placement() {}

func (r Root) String() string  { return fmt.Sprintf("scene[%d]", r.Scene) }
func (c Child) String() string { return fmt.Sprintf("node[%d]", c.Parent) }

// PlacementOf returns the placement of the given node, and false
// if it is neither a child of a node nor a root of any scene.
func (d *Document) PlacementOf(i int) (Placement, bool) {
	if p := d.Parent(i); p >= 0 {
		return Child{Parent: p}, true
	}
	for si, s := range d.Scenes {
		if s != nil && slices.Contains(s.Nodes, i) {
			return Root{Scene: si}, true
		}
	}
	return nil, false
}

// Members returns the index list of the given container.
// The returned slice must not be modified; use [Document.SetMembers].
func (d *Document) Members(p Placement) []int {
	switch p := p.(type) {
	case Root:
		if p.Scene >= 0 && p.Scene < len(d.Scenes) && d.Scenes[p.Scene] != nil {
			return d.Scenes[p.Scene].Nodes
		}
	case Child:
		if n := d.Node(p.Parent); n != nil {
			return n.Children
		}
	}
	return nil
}

// SetMembers replaces the index list of the given container.
// An empty children list is stored as nil so that the key
// is omitted from the encoded node.
func (d *Document) SetMembers(p Placement, list []int) {
	if len(list) == 0 {
		list = nil
	}
	switch p := p.(type) {
	case Root:
		if p.Scene >= 0 && p.Scene < len(d.Scenes) {
			if d.Scenes[p.Scene] == nil {
				d.Scenes[p.Scene] = &Scene{}
			}
			d.Scenes[p.Scene].Nodes = list
		}
	case Child:
		if n := d.Node(p.Parent); n != nil {
			n.Children = list
		}
	}
}

// Detach removes the given node from the container it is in,
// returning its former placement and position within the container.
// It returns false if the node was not placed anywhere.
func (d *Document) Detach(i int) (Placement, int, bool) {
	p, ok := d.PlacementOf(i)
	if !ok {
		return nil, -1, false
	}
	list := d.Members(p)
	pos := slices.Index(list, i)
	d.SetMembers(p, slicesx.RemoveValue(slices.Clone(list), i))
	return p, pos, true
}

// Attach inserts the given node into the container at position pos,
// or appends it if pos is out of range.
func (d *Document) Attach(i int, p Placement, pos int) {
	d.SetMembers(p, slicesx.InsertAt(slices.Clone(d.Members(p)), pos, i))
}
