// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"fmt"

	"cogentcore.org/solid/math32"
)

// Sphere is a UV sphere mesh, centered at the origin.
type Sphere struct {
	// Radius of the sphere.
	Radius float32

	// Longitude is the number of segments around the equator.
	Longitude int `min:"3"`

	// Latitude is the number of segments from pole to pole.
	Latitude int `min:"3"`
}

// NewSphere returns a new [Sphere] with the given radius
// and longitude and latitude segment counts.
func NewSphere(radius float32, longitude, latitude int) *Sphere {
	return &Sphere{Radius: radius, Longitude: longitude, Latitude: latitude}
}

func (sp *Sphere) Format() VertexFormat { return PositionNormalTexCoord }

// Validate returns an error wrapping [ErrConfiguration] if the
// radius is not positive or a segment count is below 3.
func (sp *Sphere) Validate() error {
	if !(sp.Radius > 0) {
		return fmt.Errorf("shape.Sphere: radius %g must be positive: %w", sp.Radius, ErrConfiguration)
	}
	if sp.Longitude < 3 || sp.Latitude < 3 {
		return fmt.Errorf("shape.Sphere: segments %dx%d must be at least 3: %w", sp.Longitude, sp.Latitude, ErrConfiguration)
	}
	return nil
}

// MeshData generates (Longitude+1)*(Latitude+1) vertices, with a
// duplicated seam column so texture coordinates wrap, and an indexed
// triangle list of 6*Longitude*(Latitude-1) indices, omitting the
// degenerate triangles at the poles. Triangles wind counter-clockwise
// seen from outside.
func (sp *Sphere) MeshData() (*MeshData, error) {
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	ws, hs := sp.Longitude, sp.Latitude
	md := &MeshData{Format: PositionNormalTexCoord, Topology: TriangleList}
	md.Vertices = make([]float32, 0, (ws+1)*(hs+1)*md.Format.Floats())
	md.Indices = make([]uint32, 0, 6*ws*(hs-1))

	grid := make([][]uint32, hs+1)
	idx := uint32(0)
	for y := 0; y <= hs; y++ {
		v := float32(y) / float32(hs)
		st, ct := math32.Sincos(v * math32.Pi)
		row := make([]uint32, ws+1)
		for x := 0; x <= ws; x++ {
			u := float32(x) / float32(ws)
			sinp, cosp := math32.Sincos(u * 2 * math32.Pi)
			pos := math32.Vec3(-sp.Radius*cosp*st, sp.Radius*ct, sp.Radius*sinp*st)
			vtx := Vertex{Position: pos, Normal: pos.Normal(), TexCoord: math32.Vec2(u, v)}
			md.Vertices = vtx.Append(md.Format, md.Vertices)
			row[x] = idx
			idx++
		}
		grid[y] = row
	}

	for y := 0; y < hs; y++ {
		for x := 0; x < ws; x++ {
			v1 := grid[y][x+1]
			v2 := grid[y][x]
			v3 := grid[y+1][x]
			v4 := grid[y+1][x+1]
			if y != 0 {
				md.Indices = append(md.Indices, v1, v2, v4)
			}
			if y != hs-1 {
				md.Indices = append(md.Indices, v2, v3, v4)
			}
		}
	}
	return md, nil
}
