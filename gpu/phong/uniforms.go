// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phong

import (
	"encoding/binary"
	"math"

	"cogentcore.org/solid/math32"
)

// UniformsSize is the size in bytes of the uniform block.
const UniformsSize = 3 * 16 * 4

// Uniforms is the per-frame uniform block. The field order and
// column-major layout match the WGSL Uniforms struct exactly.
type Uniforms struct {
	ModelView  math32.Matrix4
	Projection math32.Matrix4

	// Normal is the 3x3 normal matrix, padded into a 4x4 so that
	// each column has the 16 byte stride of the uniform layout.
	Normal math32.Matrix4
}

// Bytes returns the block as little-endian bytes for upload.
func (u *Uniforms) Bytes() []byte {
	b := make([]byte, UniformsSize)
	off := 0
	for _, m := range []*math32.Matrix4{&u.ModelView, &u.Projection, &u.Normal} {
		for _, f := range m {
			binary.LittleEndian.PutUint32(b[off:], math.Float32bits(f))
			off += 4
		}
	}
	return b
}
