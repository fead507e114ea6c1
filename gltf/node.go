// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"encoding/json"
	"maps"
	"slices"

	"cogentcore.org/scenedoc/math64"
)

// IdentityTol is the tolerance within which a matrix is considered
// to be the identity and is therefore omitted from a node.
const IdentityTol = 1e-12

// Node is one element of the flat node list of a [Document].
type Node struct {

	// Name is the user-facing name of the node.
	Name string `json:"name,omitempty"`

	// Children are the indexes of the child nodes, in display order.
	// The key is omitted entirely when there are no children.
	Children []int `json:"children,omitempty"`

	// Mesh is the optional index of a GLTF mesh, passed through untouched.
	Mesh *int `json:"mesh,omitempty"`

	// Matrix is the local transform relative to the parent, in GLTF
	// column-major order. A nil Matrix is the identity; use
	// [Node.SetMatrix] so that the identity is never stored.
	Matrix *math64.Matrix4 `json:"matrix,omitempty"`

	// Extensions holds the component data of the node, keyed by
	// component type id. [UUIDExtension] carries the node identity.
	Extensions map[string]any `json:"extensions,omitempty"`

	// Extras is the application-specific GLTF extras payload.
	Extras any `json:"extras,omitempty"`
}

// nodeJSON is the wire form of a node, including the separate
// translation / rotation / scale members that GLTF also allows.
type nodeJSON struct {
	Name        string         `json:"name,omitempty"`
	Children    []int          `json:"children,omitempty"`
	Mesh        *int           `json:"mesh,omitempty"`
	Matrix      []float64      `json:"matrix,omitempty"`
	Translation []float64      `json:"translation,omitempty"`
	Rotation    []float64      `json:"rotation,omitempty"`
	Scale       []float64      `json:"scale,omitempty"`
	Extensions  map[string]any `json:"extensions,omitempty"`
	Extras      any            `json:"extras,omitempty"`
}

// UnmarshalJSON decodes a node, folding any translation / rotation /
// scale members into [Node.Matrix] so that documents only ever carry
// a single local transform representation.
func (n *Node) UnmarshalJSON(b []byte) error {
	var nj nodeJSON
	if err := json.Unmarshal(b, &nj); err != nil {
		return err
	}
	*n = Node{Name: nj.Name, Children: nj.Children, Mesh: nj.Mesh, Extensions: nj.Extensions, Extras: nj.Extras}
	switch {
	case len(nj.Matrix) == 16:
		n.SetMatrix(math64.Matrix4FromSlice(nj.Matrix))
	case nj.Translation != nil || nj.Rotation != nil || nj.Scale != nil:
		scale := math64.Vector3Scalar(1)
		if nj.Scale != nil {
			scale = math64.Vector3FromSlice(nj.Scale)
		}
		n.SetMatrix(math64.NewTransform(math64.Vector3FromSlice(nj.Translation), math64.QuatFromSlice(nj.Rotation), scale))
	}
	return nil
}

// UUID returns the identity of the node, or "" if it has none.
func (n *Node) UUID() string {
	if n == nil || n.Extensions == nil {
		return ""
	}
	id, _ := n.Extensions[UUIDExtension].(string)
	return id
}

// SetUUID sets the identity of the node.
func (n *Node) SetUUID(id string) {
	if n.Extensions == nil {
		n.Extensions = map[string]any{}
	}
	n.Extensions[UUIDExtension] = id
}

// LocalMatrix returns the local matrix of the node,
// which is the identity if none is stored.
func (n *Node) LocalMatrix() math64.Matrix4 {
	if n.Matrix == nil {
		return math64.Identity4()
	}
	return *n.Matrix
}

// SetMatrix sets the local matrix of the node. An identity
// matrix is represented by omitting the matrix entirely.
func (n *Node) SetMatrix(m math64.Matrix4) {
	if m.IsIdentity(IdentityTol) {
		n.Matrix = nil
		return
	}
	n.Matrix = &m
}

// Clone returns a deep copy of the node, or nil for a nil node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cn := &Node{Name: n.Name, Children: slices.Clone(n.Children)}
	if n.Mesh != nil {
		m := *n.Mesh
		cn.Mesh = &m
	}
	if n.Matrix != nil {
		m := *n.Matrix
		cn.Matrix = &m
	}
	if n.Extensions != nil {
		cn.Extensions = CloneMap(n.Extensions)
	}
	cn.Extras = CloneValue(n.Extras)
	return cn
}

// CloneMap returns a deep copy of the given JSON-style object.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cm := make(map[string]any, len(m))
	for k, v := range m {
		cm[k] = CloneValue(v)
	}
	return cm
}

// CloneValue returns a deep copy of a JSON-style value: objects,
// arrays and the common typed slices are copied recursively, while
// scalars (which are immutable) are returned as is.
func CloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return CloneMap(x)
	case []any:
		if x == nil {
			return x
		}
		cs := make([]any, len(x))
		for i, e := range x {
			cs[i] = CloneValue(e)
		}
		return cs
	case []float64:
		return slices.Clone(x)
	case []int:
		return slices.Clone(x)
	case []string:
		return slices.Clone(x)
	case map[string]string:
		return maps.Clone(x)
	case json.RawMessage:
		return slices.Clone(x)
	default:
		return v
	}
}
