// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph implements the structural and property editing
// operations of a scene document. Every operation mutates the
// [gltf.Document] it is given in place, and callers must only ever
// pass a clone of a committed snapshot (see history.Store.CloneCurrentSnapshot).
//
// Nodes are addressed by UUID. A UUID that is not found in the
// document is skipped, so that a user interface whose state briefly
// lags the document does not fail a command. Errors are only returned
// for structural problems that indicate a corrupted document or a
// programming error; the clone must then be discarded.
package graph

import (
	"fmt"
	"slices"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/scenedoc/base/slicesx"
	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/gltf"
	"github.com/google/uuid"
)

var (
	// ErrCorrupt is returned when the document violates a structural
	// invariant, for example a node that is not in any container.
	ErrCorrupt = errors.New("graph: corrupt document")

	// ErrCycle is returned when reparenting a node into its own subtree.
	ErrCycle = errors.New("graph: node can not be its own ancestor")

	// ErrReserved is returned when removing or overwriting a
	// component that every node must carry.
	ErrReserved = errors.New("graph: reserved component")

	// ErrBadPath is returned for a malformed property path.
	ErrBadPath = component.ErrBadPath

	// ErrUnknownComponent is returned for an unregistered component type.
	ErrUnknownComponent = component.ErrUnknown
)

// IDFunc returns a fresh, globally unique node identity.
type IDFunc func() string

// NewUUID is the default [IDFunc], returning a time-ordered UUID.
func NewUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Sequence returns an [IDFunc] that returns prefix1, prefix2, ...
// It is useful for deterministic identities in tests.
func Sequence(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// Space is the coordinate space of a transform value.
type Space int32

const (
	// Local values are relative to the parent node.
	Local Space = iota

	// World values are in world space, including the mount
	// transform of the document.
	World
)

func (s Space) String() string {
	if s == World {
		return "world"
	}
	return "local"
}

// indexes returns the node indexes of the given UUIDs in order,
// skipping missing and repeated ones.
func indexes(doc *gltf.Document, ids []string) []int {
	if len(ids) == 1 {
		if i := doc.IndexOf(ids[0]); i >= 0 {
			return []int{i}
		}
		return nil
	}
	im := doc.IndexMap()
	seen := make(map[int]bool, len(ids))
	var out []int
	for _, id := range ids {
		i, ok := im[id]
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

// minimalRoots returns the given node indexes without any node that is
// a descendant of another one of them, keeping the original order.
func minimalRoots(doc *gltf.Document, idx []int) []int {
	pm := doc.ParentMap()
	in := make(map[int]bool, len(idx))
	for _, i := range idx {
		in[i] = true
	}
	var roots []int
	for _, i := range idx {
		nested := false
		for p := pm[i]; p >= 0; p = pm[p] {
			if in[p] {
				nested = true
				break
			}
		}
		if !nested {
			roots = append(roots, i)
		}
	}
	return roots
}

// dirty returns the UUIDs of the given nodes and all of their
// descendants, in pre-order. These are the nodes whose world
// matrices are invalidated by a change to the given nodes.
func dirty(doc *gltf.Document, idx ...int) []string {
	var ids []string
	seen := map[string]bool{}
	for _, i := range idx {
		for _, d := range doc.Subtree(i) {
			if id := doc.UUIDOf(d); id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// container returns the placement for a new member of parent, which
// is the default scene for "" or the node with that UUID otherwise.
// It returns false if the parent is not found.
func container(doc *gltf.Document, parent string) (gltf.Placement, bool) {
	if parent == "" {
		return gltf.Root{Scene: doc.DefaultScene()}, true
	}
	pi := doc.IndexOf(parent)
	if pi < 0 {
		return nil, false
	}
	return gltf.Child{Parent: pi}, true
}

// insert places node i into the given container immediately prior to
// the node with UUID before, or at the end if before is not a member.
func insert(doc *gltf.Document, i int, p gltf.Placement, before string) {
	list := slices.Clone(doc.Members(p))
	doc.SetMembers(p, slicesx.InsertBefore(list, i, doc.IndexOf(before)))
}
