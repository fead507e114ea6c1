// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package component defines the node components of a scene document.
// A component is stored as a GLTF node extension: the extension key
// is the component type id, and the value is its data payload.
// A [Registry] records the known component types and their defaults.
package component

import (
	"fmt"
	"maps"
	"slices"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/ordmap"
	"cogentcore.org/scenedoc/gltf"
)

// Built-in component type ids. These double as the reserved
// extension keys of the document wire format.
const (
	// UUID carries the stable identity of a node as a string payload.
	UUID = gltf.UUIDExtension

	// Visible is {"value": bool}.
	Visible = "XYZ_visible"

	// Transform is an authoring-time TRS payload that is folded into
	// the node matrix on creation and never stored on a node.
	Transform = "XYZ_transform"

	// Material holds the surface parameters of a mesh node.
	Material = "XYZ_material"

	// LookAt orients a node towards another node, identified by UUID.
	LookAt = "XYZ_look_at"

	// Model refers to an external model file by its src path.
	Model = "XYZ_model"

	// Light makes the node a punctual light source.
	Light = "XYZ_light"
)

var (
	// ErrUnknown is returned for a component type id that
	// is not in the registry.
	ErrUnknown = errors.New("component: unknown component type")

	// ErrBadPath is returned for a property path that is malformed or
	// passes through an undefined or non-object value.
	ErrBadPath = errors.New("component: bad property path")
)

// Descriptor describes one component type.
type Descriptor struct {

	// ID is the component type id, which is the extension key.
	ID string

	// Name is the user-facing name of the component.
	Name string

	// Doc is a short description of the component.
	Doc string

	// Defaults returns a fresh default payload. It is nil for
	// components whose payload is supplied by the caller (the UUID).
	Defaults func() any

	// Required components can not be removed from a node.
	Required bool
}

// Spec requests a component for a new node: the component type id,
// plus property overrides merged over the defaults. If Value is
// non-nil it replaces the whole payload instead.
type Spec struct {
	ID    string
	Props map[string]any
	Value any
}

// Registry is an ordered set of component [Descriptor]s, keyed by id.
type Registry struct {
	descs *ordmap.Map[string, *Descriptor]
}

// NewRegistry returns a new registry with all built-in components.
func NewRegistry() *Registry {
	r := &Registry{descs: ordmap.New[string, *Descriptor]()}
	for _, d := range builtins() {
		r.Register(d)
	}
	return r
}

// Register adds the given descriptor, replacing any with the same id.
func (r *Registry) Register(d *Descriptor) {
	r.descs.Add(d.ID, d)
}

// Lookup returns the descriptor for the given id.
func (r *Registry) Lookup(id string) (*Descriptor, bool) {
	return r.descs.ValueByKeyTry(id)
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	return r.descs.Keys()
}

// Default returns a fresh default payload for the given component id.
func (r *Registry) Default(id string) (any, error) {
	d, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, id)
	}
	if d.Defaults == nil {
		return nil, nil
	}
	return d.Defaults(), nil
}

// Build returns the extensions map for a new node, merging the
// defaults of each requested component with its overrides.
// Overrides may use dotted paths into nested objects.
func (r *Registry) Build(specs ...Spec) (map[string]any, error) {
	ext := make(map[string]any, len(specs))
	for _, s := range specs {
		if s.Value != nil {
			if _, ok := r.Lookup(s.ID); !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknown, s.ID)
			}
			ext[s.ID] = gltf.CloneValue(s.Value)
			continue
		}
		def, err := r.Default(s.ID)
		if err != nil {
			return nil, err
		}
		if def == nil {
			continue
		}
		obj, isObj := def.(map[string]any)
		if !isObj && len(s.Props) > 0 {
			return nil, fmt.Errorf("%w: %s has no properties", ErrBadPath, s.ID)
		}
		// sorted, so that a member is set before paths within it
		for _, k := range slices.Sorted(maps.Keys(s.Props)) {
			if err := SetPath(obj, k, gltf.CloneValue(s.Props[k])); err != nil {
				return nil, fmt.Errorf("%s: %w", s.ID, err)
			}
		}
		ext[s.ID] = def
	}
	return ext, nil
}

func builtins() []*Descriptor {
	return []*Descriptor{
		{ID: UUID, Name: "UUID", Doc: "stable node identity", Required: true},
		{ID: Visible, Name: "Visible", Doc: "whether the node is rendered",
			Defaults: func() any { return map[string]any{"value": true} }},
		{ID: Transform, Name: "Transform", Doc: "position, rotation and scale",
			Defaults: func() any { return EncodeTransform(IdentityTRS()) }},
		{ID: Material, Name: "Material", Doc: "physically based surface parameters",
			Defaults: func() any {
				return map[string]any{
					"color":     []any{1.0, 1.0, 1.0, 1.0},
					"emissive":  []any{0.0, 0.0, 0.0},
					"metalness": 0.0,
					"roughness": 1.0,
				}
			}},
		{ID: LookAt, Name: "Look At", Doc: "orients the node towards a target node",
			Defaults: func() any { return map[string]any{"target": "", "up": []any{0.0, 1.0, 0.0}} }},
		{ID: Model, Name: "Model", Doc: "external model reference",
			Defaults: func() any { return map[string]any{"src": ""} }},
		{ID: Light, Name: "Light", Doc: "punctual light source",
			Defaults: func() any {
				return map[string]any{"type": "point", "color": []any{1.0, 1.0, 1.0}, "intensity": 1.0}
			}},
	}
}
