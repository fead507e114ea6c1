// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"

	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/gltf"
)

// NewNode describes a node to add with [Create].
type NewNode struct {

	// Name is the name of the new node.
	Name string

	// Extensions are the components of the new node, typically
	// made by [component.Registry.Build]. A [component.Transform]
	// entry is folded into the node matrix.
	Extensions map[string]any

	// Mesh is an optional GLTF mesh index.
	Mesh *int

	// Parent is the UUID of the parent node, or "" for the scene root.
	Parent string

	// Before is the UUID of the sibling to insert the node in front of.
	// The node is appended if Before is "" or not a member of the parent.
	Before string
}

// Create adds a new node to the document and returns its index.
// A UUID is minted if the extensions have none, and the node is
// visible unless the extensions say otherwise. It returns -1
// if the parent is not found, in which case nothing is added.
func Create(doc *gltf.Document, nn NewNode, newID IDFunc) (int, error) {
	p, ok := container(doc, nn.Parent)
	if !ok {
		return -1, nil
	}
	n := &gltf.Node{Name: nn.Name, Extensions: gltf.CloneMap(nn.Extensions)}
	if nn.Mesh != nil {
		m := *nn.Mesh
		n.Mesh = &m
	}
	if n.Extensions == nil {
		n.Extensions = map[string]any{}
	}
	if id, _ := n.Extensions[component.UUID].(string); id == "" {
		n.SetUUID(newID())
	}
	if _, has := n.Extensions[component.Visible]; !has {
		n.Extensions[component.Visible] = map[string]any{"value": true}
	}
	if tv, has := n.Extensions[component.Transform]; has {
		trs, ok := component.DecodeTransform(tv)
		if !ok {
			return -1, fmt.Errorf("%w: malformed %s payload", ErrBadPath, component.Transform)
		}
		n.SetMatrix(trs.Matrix())
		delete(n.Extensions, component.Transform)
	}
	i := doc.AddNode(n)
	insert(doc, i, p, nn.Before)
	return i, nil
}

// Duplicate copies the given nodes, with all their descendants, and
// returns the indexes of the new copies of the given nodes. A node
// that is a descendant of another given node is only copied once, as
// part of its ancestor. Every copy gets a fresh UUID and is placed
// right after its original, in the same container.
//
// Component data that refers to other nodes by UUID (such as a
// [component.LookAt] target) is copied verbatim, so it still refers
// to the original nodes.
func Duplicate(doc *gltf.Document, ids []string, newID IDFunc) ([]int, error) {
	roots := minimalRoots(doc, indexes(doc, ids))
	var visiting map[int]bool
	var clone func(i int) (int, error)
	clone = func(i int) (int, error) {
		n := doc.Node(i)
		if n == nil {
			return -1, fmt.Errorf("%w: dangling child index %d", ErrCorrupt, i)
		}
		if visiting[i] {
			return -1, fmt.Errorf("%w: node %d is its own ancestor", ErrCorrupt, i)
		}
		visiting[i] = true
		var kids []int
		for _, c := range n.Children {
			nc, err := clone(c)
			if err != nil {
				return -1, err
			}
			kids = append(kids, nc)
		}
		cn := n.Clone()
		cn.Children = kids
		cn.SetUUID(newID())
		return doc.AddNode(cn), nil
	}

	var out []int
	for _, r := range roots {
		p, ok := doc.PlacementOf(r)
		if !ok {
			return nil, fmt.Errorf("%w: can not find the container of node %d (%s)", ErrCorrupt, r, doc.UUIDOf(r))
		}
		visiting = map[int]bool{}
		ni, err := clone(r)
		if err != nil {
			return nil, err
		}
		list := doc.Members(p)
		pos := -1
		for k, m := range list {
			if m == r {
				pos = k + 1
				break
			}
		}
		doc.Attach(ni, p, pos)
		out = append(out, ni)
	}
	return out, nil
}
