// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package editor

import (
	"fmt"

	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/graph"
	"cogentcore.org/scenedoc/history"
	"cogentcore.org/scenedoc/math64"
)

// Create describes a node to add with [Editor.Create].
type Create struct {

	// Source is the document to add the node to.
	Source string

	// Name is the name of the new node.
	Name string

	// Parent is the UUID of the parent node, or "" for the scene root.
	Parent string

	// Before is the UUID of the sibling to insert the node in front of.
	Before string

	// Components are the components of the new node, on top of the
	// required ones.
	Components []component.Spec

	// Mesh is an optional GLTF mesh index.
	Mesh *int
}

// Create adds a new node and returns its reference. The zero [history.Ref]
// is returned, with no error and no commit, if the parent is not found.
func (ed *Editor) Create(c Create) (history.Ref, error) {
	doc, err := ed.Store.CloneCurrentSnapshot(c.Source)
	if err != nil {
		return history.Ref{}, err
	}
	ext, err := ed.Components.Build(c.Components...)
	if err != nil {
		return history.Ref{}, fmt.Errorf("create: %w", err)
	}
	i, err := graph.Create(doc, graph.NewNode{Name: c.Name, Extensions: ext, Mesh: c.Mesh, Parent: c.Parent, Before: c.Before}, ed.newID)
	if err != nil {
		return history.Ref{}, fmt.Errorf("create: %w", err)
	}
	if i < 0 {
		ed.logger().Warn("skipping create: parent is not in the document", "source", c.Source, "parent", c.Parent)
		return history.Ref{}, nil
	}
	if err := ed.Store.Commit(&history.Snapshot{Source: c.Source, Action: "create", Data: doc}); err != nil {
		return history.Ref{}, err
	}
	return history.Ref{Source: c.Source, UUID: doc.UUIDOf(i)}, nil
}

// Duplicate copies the given nodes with all of their descendants,
// and returns the references of the copies of the given nodes.
func (ed *Editor) Duplicate(refs []history.Ref) ([]history.Ref, error) {
	var out []history.Ref
	err := ed.edit("duplicate", refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		idx, err := graph.Duplicate(doc, ids, ed.newID)
		if err != nil {
			return false, err
		}
		for _, i := range idx {
			out = append(out, history.Ref{Source: source, UUID: doc.UUIDOf(i)})
		}
		return len(idx) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes the given nodes and all of their descendants,
// and removes them from the selection.
func (ed *Editor) Remove(refs []history.Ref) error {
	var gone []string
	err := ed.edit("remove", refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		g := graph.Remove(doc, ids)
		gone = append(gone, g...)
		return len(g) > 0, nil
	})
	if err != nil {
		return err
	}
	if ed.Selection != nil && len(gone) > 0 {
		ed.Selection.Remove(gone...)
	}
	return nil
}

// Reparent moves the given nodes into the children of parent, in front
// of the sibling with UUID before, preserving their world poses.
// A parent with an empty UUID means the scene root of parent.Source,
// and a reference with an empty UUID is the document itself, which
// can not be moved. All of the nodes must belong to the source of
// the parent; nested documents are moved by mounting them instead.
func (ed *Editor) Reparent(refs []history.Ref, parent history.Ref, before string) error {
	for _, r := range refs {
		if r.UUID == "" {
			return fmt.Errorf("%w: %s", ErrRootReparent, r.Source)
		}
		if r.Source != parent.Source {
			return fmt.Errorf("%w: %s into %s", ErrCrossSource, r, parent)
		}
	}
	var moved []string
	err := ed.edit("reparent", refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		if parent.UUID != "" && doc.IndexOf(parent.UUID) < 0 {
			ed.logger().Warn("skipping reparent: parent is not in the document", "source", source, "parent", parent.UUID)
			return false, nil
		}
		d, err := graph.Reparent(doc, ids, parent.UUID, before, ed.mount(source))
		moved = d
		return len(d) > 0, err
	})
	if err != nil {
		return err
	}
	ed.markDirty(moved)
	return nil
}

// Group puts the given nodes of each source into a new group node with
// the given name at the scene root, and returns the references of the
// new groups.
func (ed *Editor) Group(refs []history.Ref, name string) ([]history.Ref, error) {
	var out []history.Ref
	err := ed.edit("group", refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		gi, err := graph.Group(doc, ids, name, ed.newID)
		if err != nil || gi < 0 {
			return false, err
		}
		out = append(out, history.Ref{Source: source, UUID: doc.UUIDOf(gi)})
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mount returns the world matrix of the mount of the given source.
func (ed *Editor) mount(source string) *math64.Matrix4 {
	if ed.Binder == nil {
		return nil
	}
	return ed.Binder.MountMatrix(source)
}

// transform runs one of the TRS setters on every source.
func (ed *Editor) transform(action string, refs []history.Ref, set func(doc *gltf.Document, ids []string, base *math64.Matrix4) ([]string, error)) error {
	var moved []string
	err := ed.edit(action, refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		d, err := set(doc, ids, ed.mount(source))
		moved = append(moved, d...)
		return len(d) > 0, err
	})
	if err != nil {
		return err
	}
	ed.markDirty(moved)
	return nil
}

// SetPosition sets the position of the given nodes, in local or world space.
func (ed *Editor) SetPosition(refs []history.Ref, pos math64.Vector3, space graph.Space) error {
	return ed.transform("position", refs, func(doc *gltf.Document, ids []string, base *math64.Matrix4) ([]string, error) {
		return graph.SetPosition(doc, ids, pos, space, base)
	})
}

// SetRotation sets the rotation of the given nodes, in local or world space.
func (ed *Editor) SetRotation(refs []history.Ref, rot math64.Quat, space graph.Space) error {
	return ed.transform("rotate", refs, func(doc *gltf.Document, ids []string, base *math64.Matrix4) ([]string, error) {
		return graph.SetRotation(doc, ids, rot, space, base)
	})
}

// SetScale sets the scale of the given nodes, in local or world space.
func (ed *Editor) SetScale(refs []history.Ref, scale math64.Vector3, space graph.Space) error {
	return ed.transform("scale", refs, func(doc *gltf.Document, ids []string, base *math64.Matrix4) ([]string, error) {
		return graph.SetScale(doc, ids, scale, space, base)
	})
}

// RotateAround rotates the given nodes by angle radians about the world
// space axis through pivot.
func (ed *Editor) RotateAround(refs []history.Ref, axis math64.Vector3, angle float64, pivot math64.Vector3) error {
	return ed.transform("rotate around", refs, func(doc *gltf.Document, ids []string, base *math64.Matrix4) ([]string, error) {
		return graph.RotateAround(doc, ids, axis, angle, pivot, base)
	})
}

// ModifyName renames the given nodes.
func (ed *Editor) ModifyName(refs []history.Ref, name string) error {
	return ed.edit("rename", refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		changed := false
		for _, id := range ids {
			if graph.Rename(doc, id, name) {
				changed = true
			}
		}
		return changed, nil
	})
}

// ModifyProperty sets the property at the dotted path of component comp
// on the given nodes. An empty path replaces the whole component, and a
// nil value deletes the property.
func (ed *Editor) ModifyProperty(refs []history.Ref, comp, path string, value any) error {
	var moved []string
	err := ed.edit("set "+comp, refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		changed := false
		for _, id := range ids {
			ok, err := graph.SetProperty(doc, id, comp, path, value)
			if err != nil {
				return false, err
			}
			if ok {
				changed = true
				moved = append(moved, id)
			}
		}
		return changed, nil
	})
	if err != nil {
		return err
	}
	if comp == component.Transform {
		ed.markDirty(moved)
	}
	return nil
}

// ModifyMaterial merges the given parameters into the material of the
// given nodes, adding the material component where it is missing.
func (ed *Editor) ModifyMaterial(refs []history.Ref, params map[string]any) error {
	return ed.edit("material", refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		changed := false
		for _, id := range ids {
			ok, err := graph.ModifyMaterial(doc, ed.Components, id, params)
			if err != nil {
				return false, err
			}
			if ok {
				changed = true
			}
		}
		return changed, nil
	})
}

// AddOrRemoveComponent adds (add true) or removes component comp
// on the given nodes.
func (ed *Editor) AddOrRemoveComponent(refs []history.Ref, comp string, add bool) error {
	action := "remove " + comp
	if add {
		action = "add " + comp
	}
	var moved []string
	err := ed.edit(action, refs, func(source string, doc *gltf.Document, ids []string) (bool, error) {
		changed, err := graph.AddOrRemoveComponent(doc, ed.Components, ids, comp, add)
		moved = append(moved, changed...)
		return len(changed) > 0, err
	})
	if err != nil {
		return err
	}
	if comp == component.Transform {
		ed.markDirty(moved)
	}
	return nil
}
