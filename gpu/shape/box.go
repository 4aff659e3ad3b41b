// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"fmt"

	"cogentcore.org/solid/math32"
)

// Box is an axis-aligned cube mesh centered at the origin,
// drawn without indices so each face has its own normals.
type Box struct {
	// Size is the edge length.
	Size float32
}

// NewBox returns a new [Box] with the given edge length.
func NewBox(size float32) *Box {
	return &Box{Size: size}
}

func (bx *Box) Format() VertexFormat { return PositionNormal }

// Validate returns an error wrapping [ErrConfiguration]
// if the size is not positive.
func (bx *Box) Validate() error {
	if !(bx.Size > 0) {
		return fmt.Errorf("shape.Box: size %g must be positive: %w", bx.Size, ErrConfiguration)
	}
	return nil
}

// boxFaces are the outward normal of each face and two in-plane
// axes u, v with u x v = normal, so that the corner order used in
// MeshData winds counter-clockwise seen from outside.
var boxFaces = [6][3]math32.Vector3{
	{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}},
	{{X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}},
	{{X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}},
	{{X: 0, Y: -1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}},
	{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
	{{X: 0, Y: 0, Z: -1}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}},
}

// MeshData generates 36 vertices, two triangles per face, with each
// face's six vertices sharing its outward normal.
func (bx *Box) MeshData() (*MeshData, error) {
	if err := bx.Validate(); err != nil {
		return nil, err
	}
	h := bx.Size / 2
	md := &MeshData{Format: PositionNormal, Topology: TriangleList}
	md.Vertices = make([]float32, 0, 36*md.Format.Floats())
	corner := func(n, u, v math32.Vector3, su, sv float32) math32.Vector3 {
		return n.Add(u.MulScalar(su)).Add(v.MulScalar(sv)).MulScalar(h)
	}
	for _, f := range boxFaces {
		n, u, v := f[0], f[1], f[2]
		for _, c := range [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, -1}, {1, 1}, {-1, 1}} {
			vtx := Vertex{Position: corner(n, u, v, c[0], c[1]), Normal: n}
			md.Vertices = vtx.Append(md.Format, md.Vertices)
		}
	}
	return md, nil
}
