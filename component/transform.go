// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package component

import (
	"encoding/json"

	"cogentcore.org/scenedoc/math64"
)

// TRS is a transform decomposed into position, rotation and scale.
type TRS struct {
	Position math64.Vector3
	Rotation math64.Quat
	Scale    math64.Vector3
}

// IdentityTRS returns the identity transform.
func IdentityTRS() TRS {
	return TRS{Rotation: math64.QuatIdentity(), Scale: math64.Vector3Scalar(1)}
}

// TRSFromMatrix decomposes the given matrix.
func TRSFromMatrix(m *math64.Matrix4) TRS {
	p, r, s := m.Decompose()
	return TRS{Position: p, Rotation: r, Scale: s}
}

// Matrix returns the composed transformation matrix.
func (t TRS) Matrix() math64.Matrix4 {
	return math64.NewTransform(t.Position, t.Rotation, t.Scale)
}

// EncodeTransform returns the [Transform] component payload for t.
func EncodeTransform(t TRS) map[string]any {
	return map[string]any{
		"position": floatsToAny(t.Position.Slice()),
		"rotation": floatsToAny(t.Rotation.Slice()),
		"scale":    floatsToAny(t.Scale.Slice()),
	}
}

// DecodeTransform parses a [Transform] component payload. Missing
// members take their identity values. It returns false if v is not
// an object or a member is not a numeric array of the right length.
func DecodeTransform(v any) (TRS, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return TRS{}, false
	}
	t := IdentityTRS()
	if p, has := obj["position"]; has {
		f, ok := Floats(p)
		if !ok || len(f) != 3 {
			return TRS{}, false
		}
		t.Position = math64.Vector3FromSlice(f)
	}
	if r, has := obj["rotation"]; has {
		f, ok := Floats(r)
		if !ok || len(f) != 4 {
			return TRS{}, false
		}
		t.Rotation = math64.QuatFromSlice(f).Normal()
	}
	if s, has := obj["scale"]; has {
		f, ok := Floats(s)
		if !ok || len(f) != 3 {
			return TRS{}, false
		}
		t.Scale = math64.Vector3FromSlice(f)
	}
	return t, true
}

// Floats converts a JSON-style numeric array to a float64 slice.
func Floats(v any) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return x, true
	case []any:
		f := make([]float64, len(x))
		for i, e := range x {
			n, ok := Float(e)
			if !ok {
				return nil, false
			}
			f[i] = n
		}
		return f, true
	}
	return nil, false
}

// Float converts a JSON-style number to a float64.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func floatsToAny(f []float64) []any {
	a := make([]any, len(f))
	for i, v := range f {
		a[i] = v
	}
	return a
}
