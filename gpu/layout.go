// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/solid/gpu/shape"
	"github.com/cogentcore/webgpu/wgpu"
)

// VertexLayout is the layout of one interleaved vertex buffer,
// as seen by a pipeline.
type VertexLayout struct {
	// Stride is the number of bytes between consecutive vertices.
	Stride int

	// Attributes are the attributes within each vertex.
	Attributes []shape.Attribute
}

// NewVertexLayout returns the layout of the given vertex format.
func NewVertexLayout(f shape.VertexFormat) VertexLayout {
	return VertexLayout{Stride: f.Stride(), Attributes: f.Attributes()}
}

// Has returns whether the layout includes the given semantic.
func (vl *VertexLayout) Has(s shape.Semantic) bool {
	for _, a := range vl.Attributes {
		if a.Semantic == s {
			return true
		}
	}
	return false
}

// Validate returns an error wrapping [ErrConfiguration] if an
// attribute extends past the stride or two attributes share
// a shader location.
func (vl *VertexLayout) Validate() error {
	if vl.Stride <= 0 || len(vl.Attributes) == 0 {
		return fmt.Errorf("gpu.VertexLayout: empty layout: %w", ErrConfiguration)
	}
	locs := map[int]shape.Semantic{}
	for _, a := range vl.Attributes {
		if a.Offset < 0 || a.Offset+a.Size() > vl.Stride {
			return fmt.Errorf("gpu.VertexLayout: %s at offset %d size %d exceeds stride %d: %w", a.Semantic, a.Offset, a.Size(), vl.Stride, ErrConfiguration)
		}
		if s, dup := locs[a.Location]; dup {
			return fmt.Errorf("gpu.VertexLayout: %s and %s share location %d: %w", s, a.Semantic, a.Location, ErrConfiguration)
		}
		locs[a.Location] = a.Semantic
	}
	return nil
}

// vertexFormat returns the WebGPU vertex format for the attribute.
func vertexFormat(a shape.Attribute) wgpu.VertexFormat {
	switch a.Semantic.Components() {
	case 2:
		return wgpu.VertexFormatFloat32x2
	case 4:
		return wgpu.VertexFormatFloat32x4
	}
	return wgpu.VertexFormatFloat32x3
}

// BufferLayout returns the WebGPU vertex buffer layout.
func (vl *VertexLayout) BufferLayout() wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, len(vl.Attributes))
	for i, a := range vl.Attributes {
		attrs[i] = wgpu.VertexAttribute{
			Format:         vertexFormat(a),
			Offset:         uint64(a.Offset),
			ShaderLocation: uint32(a.Location),
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(vl.Stride),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}
}
