// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render draws one lit, optionally textured solid per frame.
// A [Renderer] builds all of its GPU resources once in [New], and then
// runs the same fixed sequence of commands for each frame in
// [Renderer.OnFrame], driven by the host's display refresh tick.
//
// The renderer only talks to the GPU through the [Device], [Target]
// and [Frame] interfaces, which are implemented on WebGPU by
// *gpu.GPU, [SurfaceTarget] and [TextureTarget].
package render

import (
	"errors"
	"image"
	"image/color"

	"cogentcore.org/solid/gpu"
	"cogentcore.org/solid/gpu/shape"
)

// ErrFrameSkipped is returned (wrapped) by [Renderer.OnFrame] when
// no target could be acquired for the frame. It is not fatal: the
// next frame tries again.
var ErrFrameSkipped = errors.New("frame skipped")

// Device creates the GPU resources of a [Renderer].
// It is implemented by *gpu.GPU.
type Device interface {
	NewShader(name, source string) (*gpu.Shader, error)
	NewPipeline(desc *gpu.PipelineDesc) (*gpu.Pipeline, error)
	NewMesh(md *shape.MeshData) (*gpu.Mesh, error)
	NewUniformBuffer(size int) (*gpu.UniformBuffer, error)
	NewTexture(name string, img image.Image) (*gpu.Texture, error)
	NewSampler(name string, cfg gpu.SamplerConfig) (*gpu.Sampler, error)
}

var _ Device = (*gpu.GPU)(nil)

// PassConfig is the render pass configuration for one frame.
type PassConfig struct {
	// Clear is the color the target is cleared to;
	// nil is opaque black.
	Clear color.Color
}

// Target is something that can be rendered into, once per frame.
type Target interface {
	// Acquire gets the next image to render into, as a new Frame.
	Acquire() (Frame, error)
}

// Frame records and submits the commands for one frame into
// an acquired target image. The index and unit arguments are the
// fixed slots of the shading program: vertex buffer 0, uniform
// buffer 1, texture unit 0 and sampler unit 0.
type Frame interface {
	// BeginPass begins the render pass, clearing color and
	// any depth and stencil attachments.
	BeginPass(pc PassConfig) error

	SetVertexBuffer(index int, mesh *gpu.Mesh)

	// SetUniforms writes data into the uniform buffer and binds it.
	SetUniforms(index int, buf *gpu.UniformBuffer, data []byte) error

	// SetPipeline binds the pipeline, including its depth state.
	SetPipeline(pl *gpu.Pipeline)

	SetTexture(unit int, tx *gpu.Texture)
	SetSampler(unit int, sm *gpu.Sampler)

	// Draw draws the whole mesh in one call.
	Draw(mesh *gpu.Mesh)

	EndPass()

	// Present schedules presentation of the target image,
	// which happens in Submit once the commands are submitted.
	Present()

	// Submit finishes and submits the recorded commands.
	Submit() error

	// Release releases the frame's transient resources.
	// It is always called, even after an error.
	Release()
}
