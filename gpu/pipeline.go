// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/solid/gpu/shape"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineDesc describes a render pipeline.
type PipelineDesc struct {
	// Label is the pipeline name, for debugging.
	Label string

	// Shader holds both entry points.
	Shader *Shader

	// VertexEntry and FragmentEntry are the shader entry point names.
	VertexEntry   string
	FragmentEntry string

	// Layout is the vertex buffer layout at vertex buffer slot 0.
	Layout VertexLayout

	// Inputs are the vertex semantics the shader reads,
	// which must all be present in Layout.
	Inputs []shape.Semantic

	// Formats are the attachment formats of the render target.
	Formats TargetFormats

	// Depth is the depth test state, or nil for no depth test.
	// It requires a depth format in Formats.
	Depth *DepthState

	// Textured adds the [TextureGroup] and [SamplerGroup]
	// bind groups to the pipeline layout.
	Textured bool

	Topology shape.Topologies

	// CullMode is the face culling mode; front faces are
	// counter-clockwise.
	CullMode wgpu.CullMode
}

// Validate returns an error wrapping [ErrConfiguration] if the
// description cannot produce a working pipeline.
func (pd *PipelineDesc) Validate() error {
	if pd.Shader == nil {
		return fmt.Errorf("gpu.PipelineDesc %q: no shader: %w", pd.Label, ErrConfiguration)
	}
	if pd.VertexEntry == "" || pd.FragmentEntry == "" {
		return fmt.Errorf("gpu.PipelineDesc %q: empty entry point: %w", pd.Label, ErrConfiguration)
	}
	if err := pd.Layout.Validate(); err != nil {
		return fmt.Errorf("gpu.PipelineDesc %q: %w", pd.Label, err)
	}
	for _, in := range pd.Inputs {
		if !pd.Layout.Has(in) {
			return fmt.Errorf("gpu.PipelineDesc %q: shader input %s is not in the vertex layout: %w", pd.Label, in, ErrConfiguration)
		}
	}
	if err := pd.Formats.Validate(); err != nil {
		return fmt.Errorf("gpu.PipelineDesc %q: %w", pd.Label, err)
	}
	if pd.Depth != nil && !pd.Formats.HasDepth() {
		return fmt.Errorf("gpu.PipelineDesc %q: depth state without a depth format: %w", pd.Label, ErrConfiguration)
	}
	return nil
}

// Groups returns the bind groups used by the pipeline, in order.
func (pd *PipelineDesc) Groups() []Groups {
	if pd.Textured {
		return []Groups{UniformGroup, TextureGroup, SamplerGroup}
	}
	return []Groups{UniformGroup}
}

// primitiveTopology returns the WebGPU topology for t.
func primitiveTopology(t shape.Topologies) wgpu.PrimitiveTopology {
	switch t {
	case shape.TriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	case shape.LineList:
		return wgpu.PrimitiveTopologyLineList
	case shape.PointList:
		return wgpu.PrimitiveTopologyPointList
	}
	return wgpu.PrimitiveTopologyTriangleList
}

// Pipeline is an immutable compiled render pipeline.
// It must be rebuilt if the target formats change, but not on resize.
type Pipeline struct {
	// Desc is the description the pipeline was built from.
	Desc PipelineDesc

	layout   *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
}

// NewPipeline validates the description and builds the pipeline layout
// from the standard group layouts, then the render pipeline.
func (gp *GPU) NewPipeline(desc *PipelineDesc) (*Pipeline, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	pl := &Pipeline{Desc: *desc}
	var lays []*wgpu.BindGroupLayout
	for _, g := range desc.Groups() {
		bl, err := gp.BindGroupLayout(g)
		if err != nil {
			return nil, err
		}
		lays = append(lays, bl)
	}
	layout, err := gp.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: lays,
	})
	if err != nil {
		return nil, resourceError("pipeline layout "+desc.Label, err)
	}
	pl.layout = layout

	var depth *wgpu.DepthStencilState
	if desc.Depth != nil {
		depth = desc.Depth.descriptor(desc.Formats.Depth)
	} else if desc.Formats.HasDepth() {
		// attachment present but untested
		depth = DepthState{Compare: wgpu.CompareFunctionAlways}.descriptor(desc.Formats.Depth)
	}
	rp, err := gp.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     desc.Shader.module,
			EntryPoint: desc.VertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{desc.Layout.BufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     desc.Shader.module,
			EntryPoint: desc.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    desc.Formats.Color,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  primitiveTopology(desc.Topology),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  desc.CullMode,
		},
		DepthStencil: depth,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		pl.Release()
		return nil, resourceError("render pipeline "+desc.Label, err)
	}
	pl.pipeline = rp
	if Debug {
		slog.Info("gpu: created pipeline", "label", desc.Label, "formats", desc.Formats.String(), "textured", desc.Textured)
	}
	return pl, nil
}

// Bind sets this pipeline as the one used for subsequent draws in the pass.
func (pl *Pipeline) Bind(rp *wgpu.RenderPassEncoder) {
	rp.SetPipeline(pl.pipeline)
}

// Release releases the render pipeline and its layout.
// The shared group layouts are owned by the [GPU].
func (pl *Pipeline) Release() {
	if pl == nil {
		return
	}
	if pl.pipeline != nil {
		pl.pipeline.Release()
		pl.pipeline = nil
	}
	if pl.layout != nil {
		pl.layout.Release()
		pl.layout = nil
	}
}
