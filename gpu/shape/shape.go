// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape provides procedural mesh geometry (a UV sphere and a box),
// interleaved into one of a small set of fixed vertex formats that
// the render pipeline consumes byte for byte.
package shape

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"cogentcore.org/solid/math32"
)

// ErrConfiguration is returned (wrapped) for invalid geometry parameters.
// The gpu package shares this same value.
var ErrConfiguration = errors.New("configuration error")

// Semantic is the meaning of one vertex attribute.
type Semantic int32

const (
	Position Semantic = iota
	Normal
	TexCoord
)

var semanticNames = [...]string{"Position", "Normal", "TexCoord"}

func (s Semantic) String() string {
	if s < 0 || int(s) >= len(semanticNames) {
		return fmt.Sprintf("Semantic(%d)", int32(s))
	}
	return semanticNames[s]
}

// Components returns the number of float32 components of the semantic.
func (s Semantic) Components() int {
	if s == TexCoord {
		return 2
	}
	return 3
}

// Attribute is one attribute of an interleaved vertex format.
type Attribute struct {
	Semantic Semantic

	// Offset is the byte offset of the attribute within a vertex.
	Offset int

	// Location is the shader input location.
	Location int
}

// Size returns the size of the attribute in bytes.
func (a Attribute) Size() int {
	return 4 * a.Semantic.Components()
}

// VertexFormat is one of the fixed interleaved vertex layouts.
type VertexFormat int32

const (
	// PositionNormal is position 3xf32 at 0 (location 0)
	// and normal 3xf32 at 12 (location 1), stride 24.
	PositionNormal VertexFormat = iota

	// PositionNormalTexCoord adds texCoord 2xf32 at 24
	// (location 2), stride 32.
	PositionNormalTexCoord
)

func (f VertexFormat) String() string {
	switch f {
	case PositionNormal:
		return "PositionNormal"
	case PositionNormalTexCoord:
		return "PositionNormalTexCoord"
	}
	return fmt.Sprintf("VertexFormat(%d)", int32(f))
}

// Attributes returns the attributes of the format in offset order.
func (f VertexFormat) Attributes() []Attribute {
	attrs := []Attribute{
		{Semantic: Position, Offset: 0, Location: 0},
		{Semantic: Normal, Offset: 12, Location: 1},
	}
	if f == PositionNormalTexCoord {
		attrs = append(attrs, Attribute{Semantic: TexCoord, Offset: 24, Location: 2})
	}
	return attrs
}

// Has returns whether the format includes the given semantic.
func (f VertexFormat) Has(s Semantic) bool {
	return s != TexCoord || f == PositionNormalTexCoord
}

// Floats returns the number of float32 values per vertex.
func (f VertexFormat) Floats() int {
	if f == PositionNormalTexCoord {
		return 8
	}
	return 6
}

// Stride returns the number of bytes per vertex.
func (f VertexFormat) Stride() int {
	return 4 * f.Floats()
}

// Vertex is one vertex prior to interleaving.
type Vertex struct {
	Position math32.Vector3
	Normal   math32.Vector3
	TexCoord math32.Vector2
}

// Append appends the vertex to dst in the given format,
// dropping the texture coordinate if the format has none.
func (v Vertex) Append(f VertexFormat, dst []float32) []float32 {
	dst = append(dst, v.Position.X, v.Position.Y, v.Position.Z, v.Normal.X, v.Normal.Y, v.Normal.Z)
	if f.Has(TexCoord) {
		dst = append(dst, v.TexCoord.X, v.TexCoord.Y)
	}
	return dst
}

// Topologies are the primitive topologies a mesh can use.
type Topologies int32

const (
	TriangleList Topologies = iota
	TriangleStrip
	LineList
	PointList
)

// Mesh is a source of mesh geometry.
type Mesh interface {
	// Format returns the vertex format of the generated data.
	Format() VertexFormat

	// MeshData generates the mesh, returning an error wrapping
	// [ErrConfiguration] for invalid parameters.
	MeshData() (*MeshData, error)
}

// MeshData is interleaved host-side mesh data, ready for upload.
type MeshData struct {
	// Vertices are the interleaved vertex values, per Format.
	Vertices []float32

	// Indices are the triangle indices, empty for a non-indexed mesh.
	Indices []uint32

	Format   VertexFormat
	Topology Topologies
}

// VertexCount returns the number of vertices.
func (md *MeshData) VertexCount() int {
	return len(md.Vertices) / md.Format.Floats()
}

// IndexCount returns the number of indices.
func (md *MeshData) IndexCount() int {
	return len(md.Indices)
}

// Indexed returns whether the mesh is drawn with indices.
func (md *MeshData) Indexed() bool {
	return len(md.Indices) > 0
}

// IndexWidth returns the size in bytes of one index element:
// 2 when all vertices are addressable with uint16, otherwise 4.
func (md *MeshData) IndexWidth() int {
	if md.VertexCount() <= math.MaxUint16 {
		return 2
	}
	return 4
}

// Vertex returns the vertex at index i.
func (md *MeshData) Vertex(i int) Vertex {
	n := md.Format.Floats()
	vs := md.Vertices[i*n : (i+1)*n]
	v := Vertex{
		Position: math32.Vec3(vs[0], vs[1], vs[2]),
		Normal:   math32.Vec3(vs[3], vs[4], vs[5]),
	}
	if md.Format.Has(TexCoord) {
		v.TexCoord = math32.Vec2(vs[6], vs[7])
	}
	return v
}

// VertexBytes returns the vertex data as little-endian bytes.
func (md *MeshData) VertexBytes() []byte {
	b := make([]byte, 4*len(md.Vertices))
	for i, f := range md.Vertices {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

// IndexBytes returns the index data as little-endian bytes of
// [MeshData.IndexWidth] each, zero padded to a multiple of 4 bytes
// as required for buffer copies.
func (md *MeshData) IndexBytes() []byte {
	w := md.IndexWidth()
	n := w * len(md.Indices)
	b := make([]byte, (n+3)&^3)
	for i, ix := range md.Indices {
		if w == 2 {
			binary.LittleEndian.PutUint16(b[2*i:], uint16(ix))
		} else {
			binary.LittleEndian.PutUint32(b[4*i:], ix)
		}
	}
	return b
}

// BBox returns the bounding box of the vertex positions.
func (md *MeshData) BBox() math32.Box3 {
	bb := math32.B3Empty()
	for i := range md.VertexCount() {
		bb.ExpandByPoint(md.Vertex(i).Position)
	}
	return bb
}
