// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"

	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/math64"
)

// SetPosition sets the position of the given nodes in the given space.
// base is the world matrix of the entity the document is mounted under,
// or nil for the identity; it is only used for [World] values.
// Only the translation of the local matrix is written, so the rest of
// the matrix (including any shear) is kept exactly.
// It returns the UUIDs of every node whose world matrix changed.
func SetPosition(doc *gltf.Document, ids []string, pos math64.Vector3, space Space, base *math64.Matrix4) ([]string, error) {
	return setEach(doc, ids, func(i int, n *gltf.Node) error {
		p := pos
		if space == World {
			inv, err := parentInverse(doc, i, base)
			if err != nil {
				return err
			}
			p = pos.MulMatrix4(&inv)
		}
		m := n.LocalMatrix()
		m[12], m[13], m[14] = p.X, p.Y, p.Z
		n.SetMatrix(m)
		return nil
	})
}

// SetRotation sets the rotation of the given nodes in the given space.
// A world rotation is taken into the frame of the parent by removing
// the rotation of the parent world matrix. The position and scale of
// the local matrix are kept.
// See [SetPosition] for the meaning of base and the result.
func SetRotation(doc *gltf.Document, ids []string, rot math64.Quat, space Space, base *math64.Matrix4) ([]string, error) {
	rot = rot.Normal()
	return setEach(doc, ids, func(i int, n *gltf.Node) error {
		r := rot
		if space == World {
			pw := doc.ParentWorldMatrix(i, base)
			_, pq, _ := pw.Decompose()
			r = pq.Conjugate().Mul(rot).Normal()
		}
		setLocal(n, func(t *component.TRS) { t.Rotation = r })
		return nil
	})
}

// SetScale sets the scale of the given nodes in the given space.
// A world scale is divided by the scale of the parent world matrix,
// axis by axis. The position and rotation of the local matrix are kept.
// See [SetPosition] for the meaning of base and the result.
func SetScale(doc *gltf.Document, ids []string, scale math64.Vector3, space Space, base *math64.Matrix4) ([]string, error) {
	return setEach(doc, ids, func(i int, n *gltf.Node) error {
		s := scale
		if space == World {
			pw := doc.ParentWorldMatrix(i, base)
			_, _, ps := pw.Decompose()
			if ps.X == 0 || ps.Y == 0 || ps.Z == 0 {
				return fmt.Errorf("graph: node %d: parent world matrix: %w", i, math64.ErrSingular)
			}
			s = math64.Vec3(scale.X/ps.X, scale.Y/ps.Y, scale.Z/ps.Z)
		}
		setLocal(n, func(t *component.TRS) { t.Scale = s })
		return nil
	})
}

// setEach calls set for each of the given nodes that exists.
func setEach(doc *gltf.Document, ids []string, set func(i int, n *gltf.Node) error) ([]string, error) {
	idx := indexes(doc, ids)
	for _, i := range idx {
		if err := set(i, doc.Nodes[i]); err != nil {
			return nil, err
		}
	}
	return dirty(doc, idx...), nil
}

// setLocal decomposes the local matrix of n, applies set, and
// recomposes it.
func setLocal(n *gltf.Node, set func(t *component.TRS)) {
	lm := n.LocalMatrix()
	t := component.TRSFromMatrix(&lm)
	set(&t)
	n.SetMatrix(t.Matrix())
}

// parentInverse returns the inverse of the parent world matrix of node i.
func parentInverse(doc *gltf.Document, i int, base *math64.Matrix4) (math64.Matrix4, error) {
	pw := doc.ParentWorldMatrix(i, base)
	inv, err := pw.Inverse()
	if err != nil {
		return inv, fmt.Errorf("graph: node %d: parent world matrix: %w", i, err)
	}
	return inv, nil
}

// setWorld sets the local matrix of node i such that its
// world matrix becomes the given one.
func setWorld(doc *gltf.Document, i int, world math64.Matrix4, base *math64.Matrix4) error {
	inv, err := parentInverse(doc, i, base)
	if err != nil {
		return err
	}
	doc.Nodes[i].SetMatrix(inv.Mul(&world))
	return nil
}

// RotateAround rotates the given nodes by angle (radians) around
// the given world-space axis passing through the world-space pivot.
// The resulting local matrices are decomposed into position, rotation
// and scale and recomposed, which can introduce a small numeric drift
// in the scale of nodes with non-uniformly scaled ancestors.
// See [SetPosition] for the meaning of base and the result.
func RotateAround(doc *gltf.Document, ids []string, axis math64.Vector3, angle float64, pivot math64.Vector3, base *math64.Matrix4) ([]string, error) {
	// move the pivot to the origin, rotate, and move it back
	to := math64.NewTranslation(pivot.X, pivot.Y, pivot.Z)
	rot := math64.NewRotationAxis(axis, angle)
	from := math64.NewTranslation(-pivot.X, -pivot.Y, -pivot.Z)
	m := to.Mul(&rot)
	m.SetMul(&from)

	// descendants of rotated nodes already move with them
	idx := minimalRoots(doc, indexes(doc, ids))
	for _, i := range idx {
		wm := doc.WorldMatrix(i, base)
		wm.SetPremul(&m)
		if err := setWorld(doc, i, wm, base); err != nil {
			return nil, err
		}
		lm := doc.Nodes[i].LocalMatrix()
		doc.Nodes[i].SetMatrix(component.TRSFromMatrix(&lm).Matrix())
	}
	return dirty(doc, idx...), nil
}
