// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"io/fs"
	"log/slog"

	"cogentcore.org/solid/assets"
	"cogentcore.org/solid/base/fsx"
	"cogentcore.org/solid/base/iox/imagex"
	"cogentcore.org/solid/gpu"
	"cogentcore.org/solid/gpu/phong"
	"cogentcore.org/solid/gpu/shape"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/jinzhu/copier"
)

// Fixed binding slots of the shading program.
const (
	VertexBufferIndex = 0
	UniformIndex      = gpu.UniformBinding
	TextureUnit       = 0
	SamplerUnit       = 0
)

// resource is a created resource, with its release function.
type resource struct {
	name    string
	release func()
}

// Renderer draws the configured solid. All of its GPU resources are
// created in [New] and are immutable afterwards, except the uniform
// buffer, which is rewritten each frame.
type Renderer struct {
	// Config is a private copy of the validated configuration
	// the renderer was built from.
	Config Config

	// Formats are the target formats the pipeline was built for.
	Formats gpu.TargetFormats

	// Size is the current viewport size.
	Size image.Point

	// Camera computes the matrices in the uniform block.
	Camera phong.Camera

	// Program is the shading program variant.
	Program *phong.Program

	// MeshData is the host copy of the geometry.
	MeshData *shape.MeshData

	// uniforms is the stored uniform block, written each frame.
	uniforms phong.Uniforms

	shader   *gpu.Shader
	pipeline *gpu.Pipeline
	mesh     *gpu.Mesh
	ubuf     *gpu.UniformBuffer
	texture  *gpu.Texture
	sampler  *gpu.Sampler

	// resources are in creation order.
	resources []resource
}

// New validates the config and builds a renderer for targets with the
// given formats and size: mesh data, camera, shader, pipeline, mesh
// buffers, uniform buffer, and the texture and sampler if textured.
// If anything fails, everything built so far is released and only the
// error is returned.
func New(dev Device, cfg *Config, formats gpu.TargetFormats, size image.Point) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{Formats: formats}
	if err := copier.CopyWithOption(&r.Config, cfg, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("render: copy config: %w: %w", gpu.ErrConfiguration, err)
	}
	if err := r.build(dev); err != nil {
		r.Release()
		return nil, err
	}
	r.Camera.SetAspect(size.X, size.Y)
	if size.X > 0 && size.Y > 0 {
		r.Size = size
	}
	r.uniforms = r.Camera.Uniforms()
	return r, nil
}

func (r *Renderer) track(name string, release func()) {
	r.resources = append(r.resources, resource{name: name, release: release})
}

func (r *Renderer) build(dev Device) error {
	cfg := &r.Config
	md, err := cfg.Mesh().MeshData()
	if err != nil {
		return err
	}
	r.MeshData = md

	r.Camera = cfg.NewCamera()
	if err := r.Camera.Validate(); err != nil {
		return err
	}

	r.Program = cfg.Program()
	src, err := r.Program.Source()
	if err != nil {
		return err
	}
	r.shader, err = dev.NewShader(r.Program.Name(), src)
	if err != nil {
		return err
	}
	r.track("shader", r.shader.Release)

	desc := r.pipelineDesc()
	if err := desc.Validate(); err != nil {
		return err
	}
	r.pipeline, err = dev.NewPipeline(desc)
	if err != nil {
		return err
	}
	r.track("pipeline", r.pipeline.Release)

	r.mesh, err = dev.NewMesh(md)
	if err != nil {
		return err
	}
	r.track("mesh", r.mesh.Release)

	r.ubuf, err = dev.NewUniformBuffer(phong.UniformsSize)
	if err != nil {
		return err
	}
	r.track("uniforms", r.ubuf.Release)

	if !cfg.Textured {
		return nil
	}
	img, err := r.loadImage()
	if err != nil {
		return err
	}
	r.texture, err = dev.NewTexture(cfg.Texture.Name, img)
	if err != nil {
		return err
	}
	r.track("texture", r.texture.Release)

	r.sampler, err = dev.NewSampler(cfg.Texture.Name, gpu.DefaultSamplerConfig())
	if err != nil {
		return err
	}
	r.track("sampler", r.sampler.Release)
	return nil
}

// pipelineDesc returns the pipeline description for the program and mesh.
func (r *Renderer) pipelineDesc() *gpu.PipelineDesc {
	desc := &gpu.PipelineDesc{
		Label:         r.Program.Name(),
		Shader:        r.shader,
		VertexEntry:   phong.VertexEntry,
		FragmentEntry: phong.FragmentEntry,
		Layout:        gpu.NewVertexLayout(r.MeshData.Format),
		Inputs:        r.Program.Inputs(),
		Formats:       r.Formats,
		Textured:      r.Program.Textured,
		Topology:      r.MeshData.Topology,
		CullMode:      wgpu.CullModeBack,
	}
	if r.Formats.HasDepth() {
		ds := gpu.DefaultDepthState()
		desc.Depth = &ds
	}
	return desc
}

// textureFS returns the file system holding the texture image.
func (r *Renderer) textureFS() (fs.FS, error) {
	if r.Config.Texture.Dir == "" {
		return assets.FS, nil
	}
	return fsx.DirFS(r.Config.Texture.Dir)
}

// loadImage loads the texture image with row 0 at the top.
func (r *Renderer) loadImage() (image.Image, error) {
	fn := r.Config.Texture.Filename()
	fsys, err := r.textureFS()
	if err != nil {
		return nil, fmt.Errorf("render: texture %q: %w: %w", fn, gpu.ErrAssetLoad, err)
	}
	if ok, err := fsx.FileExistsFS(fsys, fn); err != nil || !ok {
		if err == nil {
			err = fs.ErrNotExist
		}
		return nil, fmt.Errorf("render: texture %q: %w: %w", fn, gpu.ErrAssetLoad, err)
	}
	img, _, err := imagex.OpenFS(fsys, fn)
	if err != nil {
		return nil, fmt.Errorf("render: texture %q: %w: %w", fn, gpu.ErrAssetLoad, err)
	}
	origin, err := r.Config.Origin()
	if err != nil {
		return nil, err
	}
	return imagex.NormalizeOrigin(img, origin), nil
}

// OnResize recomputes the projection for the new viewport size, and
// its copy in the stored uniform block. Nothing else changes. A size
// with zero area, as for a minimized window, is ignored.
func (r *Renderer) OnResize(width, height int) {
	if !r.Camera.SetAspect(width, height) {
		return
	}
	r.Size = image.Pt(width, height)
	r.uniforms.Projection = r.Camera.Projection()
}

// Uniforms returns the current uniform block.
func (r *Renderer) Uniforms() phong.Uniforms {
	return r.uniforms
}

// OnFrame renders one frame into the target. If no image can be
// acquired, it returns an error wrapping [ErrFrameSkipped] without
// drawing anything.
func (r *Renderer) OnFrame(target Target, pc PassConfig) error {
	if r.pipeline == nil {
		return fmt.Errorf("render: renderer is released: %w", ErrFrameSkipped)
	}
	fr, err := target.Acquire()
	if err != nil {
		slog.Debug("render: frame skipped", "err", err)
		return fmt.Errorf("render: acquire: %w: %w", ErrFrameSkipped, err)
	}
	defer fr.Release()

	if r.Camera.Spin != 0 {
		r.Camera.Step()
		r.uniforms.ModelView = r.Camera.ModelView()
		r.uniforms.Normal = r.Camera.NormalMatrix()
	}
	if pc.Clear == nil {
		pc.Clear = r.Config.Clear()
	}
	if err := fr.BeginPass(pc); err != nil {
		return fmt.Errorf("render: begin pass: %w: %w", ErrFrameSkipped, err)
	}
	fr.SetVertexBuffer(VertexBufferIndex, r.mesh)
	if err := fr.SetUniforms(UniformIndex, r.ubuf, r.uniforms.Bytes()); err != nil {
		fr.EndPass()
		return err
	}
	fr.SetPipeline(r.pipeline)
	if r.texture != nil {
		fr.SetTexture(TextureUnit, r.texture)
		fr.SetSampler(SamplerUnit, r.sampler)
	}
	fr.Draw(r.mesh)
	fr.EndPass()
	fr.Present()
	return fr.Submit()
}

// Release releases all resources in the reverse order of creation.
// It is safe to call more than once.
func (r *Renderer) Release() {
	if r == nil {
		return
	}
	for i := len(r.resources) - 1; i >= 0; i-- {
		res := r.resources[i]
		res.release()
		slog.Debug("render: released", "resource", res.name)
	}
	r.resources = nil
	r.shader, r.pipeline, r.mesh, r.ubuf, r.texture, r.sampler = nil, nil, nil, nil, nil, nil
}
