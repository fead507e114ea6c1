// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"maps"
	"slices"

	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/gltf"
)

// Rename sets the name of the node with the given UUID.
// It returns false if the node is not found.
func Rename(doc *gltf.Document, id, name string) bool {
	i := doc.IndexOf(id)
	if i < 0 {
		return false
	}
	doc.Nodes[i].Name = name
	return true
}

// SetProperty sets the value at the dotted path within the payload of
// component comp on the node with the given UUID. An empty path
// replaces the whole payload, and a nil value deletes the member at
// path. The [component.Transform] payload is synthesized from the node
// matrix and written back into it. It returns false if the node is not
// found, and [ErrBadPath] if the component is absent or the path does
// not lead through existing objects.
func SetProperty(doc *gltf.Document, id, comp, path string, value any) (bool, error) {
	i := doc.IndexOf(id)
	if i < 0 {
		return false, nil
	}
	n := doc.Nodes[i]
	if comp == component.UUID {
		return false, fmt.Errorf("%w: %s is the node identity", ErrReserved, comp)
	}
	if comp == component.Transform {
		lm := n.LocalMatrix()
		payload := component.EncodeTransform(component.TRSFromMatrix(&lm))
		if err := writePath(payload, path, value); err != nil {
			return false, err
		}
		trs, ok := component.DecodeTransform(payload)
		if !ok {
			return false, fmt.Errorf("%w: %q: malformed %s payload", ErrBadPath, path, comp)
		}
		n.SetMatrix(trs.Matrix())
		return true, nil
	}
	if path == "" {
		if n.Extensions == nil {
			n.Extensions = map[string]any{}
		}
		if value == nil {
			delete(n.Extensions, comp)
		} else {
			n.Extensions[comp] = gltf.CloneValue(value)
		}
		return true, nil
	}
	cur, has := n.Extensions[comp]
	if !has {
		return false, fmt.Errorf("%w: %q: node %s has no %s component", ErrBadPath, path, id, comp)
	}
	obj, ok := cur.(map[string]any)
	if !ok {
		return false, fmt.Errorf("%w: %q: %s payload is not an object", ErrBadPath, path, comp)
	}
	if err := writePath(obj, path, value); err != nil {
		return false, err
	}
	return true, nil
}

func writePath(obj map[string]any, path string, value any) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrBadPath)
	}
	if value == nil {
		return component.DeletePath(obj, path)
	}
	return component.SetPath(obj, path, gltf.CloneValue(value))
}

// ModifyMaterial merges the given parameters into the material
// component of the node with the given UUID, adding the default
// material first if the node has none. Parameter keys may be dotted
// paths. It returns false if the node is not found.
func ModifyMaterial(doc *gltf.Document, reg *component.Registry, id string, params map[string]any) (bool, error) {
	i := doc.IndexOf(id)
	if i < 0 {
		return false, nil
	}
	n := doc.Nodes[i]
	mat, ok := n.Extensions[component.Material].(map[string]any)
	if !ok {
		def, err := reg.Default(component.Material)
		if err != nil {
			return false, err
		}
		mat, _ = def.(map[string]any)
		if mat == nil {
			mat = map[string]any{}
		}
		if n.Extensions == nil {
			n.Extensions = map[string]any{}
		}
		n.Extensions[component.Material] = mat
	}
	for _, k := range slices.Sorted(maps.Keys(params)) {
		if err := writePath(mat, k, params[k]); err != nil {
			return false, err
		}
	}
	return true, nil
}

// AddComponent adds component comp with its default payload, merged
// with the given property overrides, to the node with the given UUID.
// A component the node already has is left unchanged. Adding a
// [component.Transform] is a no-op, since every node has a transform.
// It returns whether the node was changed.
func AddComponent(doc *gltf.Document, reg *component.Registry, id, comp string, props map[string]any) (bool, error) {
	if _, ok := reg.Lookup(comp); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownComponent, comp)
	}
	i := doc.IndexOf(id)
	if i < 0 || comp == component.Transform || comp == component.UUID {
		return false, nil
	}
	n := doc.Nodes[i]
	if _, has := n.Extensions[comp]; has {
		return false, nil
	}
	ext, err := reg.Build(component.Spec{ID: comp, Props: props})
	if err != nil {
		return false, err
	}
	if n.Extensions == nil {
		n.Extensions = map[string]any{}
	}
	n.Extensions[comp] = ext[comp]
	return true, nil
}

// RemoveComponent removes component comp from the node with the given
// UUID. Removing the [component.Transform] resets the node matrix to
// the identity. Required components can not be removed. It returns
// whether the node was changed.
func RemoveComponent(doc *gltf.Document, reg *component.Registry, id, comp string) (bool, error) {
	if d, ok := reg.Lookup(comp); ok && d.Required {
		return false, fmt.Errorf("%w: %s can not be removed", ErrReserved, comp)
	}
	i := doc.IndexOf(id)
	if i < 0 {
		return false, nil
	}
	n := doc.Nodes[i]
	if comp == component.Transform {
		changed := n.Matrix != nil
		n.Matrix = nil
		return changed, nil
	}
	if _, has := n.Extensions[comp]; !has {
		return false, nil
	}
	delete(n.Extensions, comp)
	return true, nil
}

// AddOrRemoveComponent adds (add true) or removes component comp
// on every node with one of the given UUIDs. It returns the UUIDs
// of the nodes that changed.
func AddOrRemoveComponent(doc *gltf.Document, reg *component.Registry, ids []string, comp string, add bool) ([]string, error) {
	var changed []string
	for _, id := range ids {
		var ok bool
		var err error
		if add {
			ok, err = AddComponent(doc, reg, id, comp, nil)
		} else {
			ok, err = RemoveComponent(doc, reg, id, comp)
		}
		if err != nil {
			return nil, err
		}
		if ok {
			changed = append(changed, id)
		}
	}
	return changed, nil
}
