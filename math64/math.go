// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially derived from the float32 math32 package,
// which was itself copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math64 is a float64 based vector, quaternion, and matrix
// package for 3D scene transforms. It uses float64 throughout so that
// world-space poses survive repeated inversion and decomposition when
// nodes are moved between parents.
package math64

import "math"

const (
	// DegToRadFactor is the number of radians per degree.
	DegToRadFactor = math.Pi / 180

	// RadToDegFactor is the number of degrees per radian.
	RadToDegFactor = 180 / math.Pi
)

// DefaultTol is the default tolerance used by approximate comparisons.
const DefaultTol = 1e-9

// DegToRad converts a number from degrees to radians
func DegToRad(degrees float64) float64 {
	return degrees * DegToRadFactor
}

// RadToDeg converts a number from radians to degrees
func RadToDeg(radians float64) float64 {
	return radians * RadToDegFactor
}

// NearEqual returns whether a and b are within tol of each other.
func NearEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
