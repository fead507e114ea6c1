// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math64

import (
	"math"

	"cogentcore.org/core/base/errors"
)

// ErrSingular is returned by [Matrix4.Inverse] for a matrix
// with a zero determinant.
var ErrSingular = errors.New("math64: cannot invert singular matrix")

// Matrix4 is 4x4 matrix organized internally as column matrix,
// which is the same element order used by the GLTF node matrix.
type Matrix4 [16]float64

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Matrix4FromSlice returns a matrix from the first 16 elements of
// the given column-major slice. Short slices yield the identity.
func Matrix4FromSlice(s []float64) Matrix4 {
	if len(s) < 16 {
		return Identity4()
	}
	var m Matrix4
	copy(m[:], s)
	return m
}

// NewTranslation returns a translation matrix for the given offsets.
func NewTranslation(x, y, z float64) Matrix4 {
	m := Identity4()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// NewRotationAxis returns a rotation matrix of the given angle
// (radians) around the given axis.
func NewRotationAxis(axis Vector3, angle float64) Matrix4 {
	var m Matrix4
	m.SetTransform(Vector3{}, NewQuatAxisAngle(axis, angle), Vector3Scalar(1))
	return m
}

// NewTransform returns the matrix composed from the given
// position, rotation and scale.
func NewTransform(pos Vector3, quat Quat, scale Vector3) Matrix4 {
	var m Matrix4
	m.SetTransform(pos, quat, scale)
	return m
}

// SetIdentity sets this matrix as the identity matrix.
func (m *Matrix4) SetIdentity() {
	*m = Identity4()
}

// IsIdentity returns whether every element of m is within tol
// of the identity matrix.
func (m *Matrix4) IsIdentity(tol float64) bool {
	id := Identity4()
	return m.ApproxEqual(&id, tol)
}

// ApproxEqual returns whether every element of m is within tol
// of the corresponding element of other.
func (m *Matrix4) ApproxEqual(other *Matrix4, tol float64) bool {
	for i := range m {
		if !NearEqual(m[i], other[i], tol) {
			return false
		}
	}
	return true
}

// Mul returns m * other.
func (m *Matrix4) Mul(other *Matrix4) Matrix4 {
	var r Matrix4
	r.MulMatrices(m, other)
	return r
}

// SetMul sets this matrix to this matrix * other
func (m *Matrix4) SetMul(other *Matrix4) {
	m.MulMatrices(m, other)
}

// SetPremul sets this matrix to other * this matrix.
func (m *Matrix4) SetPremul(other *Matrix4) {
	m.MulMatrices(other, m)
}

// MulMatrices sets this matrix to the product a * b.
// It is safe for a or b to alias m.
func (m *Matrix4) MulMatrices(a, b *Matrix4) {
	var r Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col*4+row] = a[row]*b[col*4] + a[4+row]*b[col*4+1] + a[8+row]*b[col*4+2] + a[12+row]*b[col*4+3]
		}
	}
	*m = r
}

// Determinant calculates and returns the determinant of this matrix.
func (m *Matrix4) Determinant() float64 {
	n11, n12, n13, n14 := m[0], m[4], m[8], m[12]
	n21, n22, n23, n24 := m[1], m[5], m[9], m[13]
	n31, n32, n33, n34 := m[2], m[6], m[10], m[14]
	n41, n42, n43, n44 := m[3], m[7], m[11], m[15]

	return n41*(+n14*n23*n32-n13*n24*n32-n14*n22*n33+n12*n24*n33+n13*n22*n34-n12*n23*n34) +
		n42*(+n11*n23*n34-n11*n24*n33+n14*n21*n33-n13*n21*n34+n13*n24*n31-n14*n23*n31) +
		n43*(+n11*n24*n32-n11*n22*n34-n14*n21*n32+n12*n21*n34+n14*n22*n31-n12*n24*n31) +
		n44*(-n13*n22*n31-n11*n23*n32+n11*n22*n33+n13*n21*n32-n12*n21*n33+n12*n23*n31)
}

// Inverse returns the inverse of this matrix.
// If the matrix cannot be inverted it returns the identity
// together with [ErrSingular].
func (m *Matrix4) Inverse() (Matrix4, error) {
	var inv Matrix4
	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det == 0 {
		return Identity4(), ErrSingular
	}
	det = 1 / det
	for i := range inv {
		inv[i] *= det
	}
	return inv, nil
}

// SetTransform sets this matrix to a transformation matrix for the specified position,
// rotation specified by the quaternion and scale.
func (m *Matrix4) SetTransform(pos Vector3, quat Quat, scale Vector3) {
	x, y, z, w := quat.X, quat.Y, quat.Z, quat.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	m[0] = (1 - (yy + zz)) * scale.X
	m[1] = (xy + wz) * scale.X
	m[2] = (xz - wy) * scale.X
	m[3] = 0

	m[4] = (xy - wz) * scale.Y
	m[5] = (1 - (xx + zz)) * scale.Y
	m[6] = (yz + wx) * scale.Y
	m[7] = 0

	m[8] = (xz + wy) * scale.Z
	m[9] = (yz - wx) * scale.Z
	m[10] = (1 - (xx + yy)) * scale.Z
	m[11] = 0

	m[12] = pos.X
	m[13] = pos.Y
	m[14] = pos.Z
	m[15] = 1
}

// Decompose updates the position vector, quaternion and scale from this transformation matrix.
// A matrix with shear cannot be represented exactly, so the result of
// recomposing may differ slightly from m.
func (m *Matrix4) Decompose() (pos Vector3, quat Quat, scale Vector3) {
	sx := Vec3(m[0], m[1], m[2]).Length()
	sy := Vec3(m[4], m[5], m[6]).Length()
	sz := Vec3(m[8], m[9], m[10]).Length()

	// a negative determinant means one axis is mirrored
	if m.Determinant() < 0 {
		sx = -sx
	}

	pos = Vec3(m[12], m[13], m[14])

	r := *m
	if sx != 0 {
		r[0] /= sx
		r[1] /= sx
		r[2] /= sx
	}
	if sy != 0 {
		r[4] /= sy
		r[5] /= sy
		r[6] /= sy
	}
	if sz != 0 {
		r[8] /= sz
		r[9] /= sz
		r[10] /= sz
	}
	quat.SetFromRotationMatrix(&r)
	quat = quat.Normal()
	scale = Vec3(sx, sy, sz)
	return
}

// Translation returns the position component of this matrix.
func (m *Matrix4) Translation() Vector3 {
	return Vec3(m[12], m[13], m[14])
}

// IsFinite returns whether all elements of m are finite numbers.
func (m *Matrix4) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Slice returns the matrix elements as a new column-major slice.
func (m *Matrix4) Slice() []float64 {
	s := make([]float64, 16)
	copy(s, m[:])
	return s
}
