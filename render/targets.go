// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"

	"cogentcore.org/solid/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceTarget renders into a window surface, presenting
// each frame after it is submitted.
type SurfaceTarget struct {
	GPU     *gpu.GPU
	Surface *gpu.Surface
}

// NewSurfaceTarget returns a target for the given surface.
func NewSurfaceTarget(gp *gpu.GPU, sf *gpu.Surface) *SurfaceTarget {
	return &SurfaceTarget{GPU: gp, Surface: sf}
}

// Formats returns the surface color and depth formats.
func (st *SurfaceTarget) Formats() gpu.TargetFormats {
	return st.Surface.Formats
}

// SetSize reconfigures the surface for a new window size.
func (st *SurfaceTarget) SetSize(size image.Point) error {
	return st.Surface.SetSize(size)
}

func (st *SurfaceTarget) Acquire() (Frame, error) {
	view, err := st.Surface.Acquire()
	if err != nil {
		return nil, err
	}
	return &gpuFrame{gpu: st.GPU, view: view, depth: st.Surface.DepthView(), formats: st.Surface.Formats, present: st.Surface.Present}, nil
}

// Release releases the surface.
func (st *SurfaceTarget) Release() {
	st.Surface.Release()
}

// TextureTarget renders offscreen into a texture,
// whose image can be read back after each frame.
type TextureTarget struct {
	GPU     *gpu.GPU
	Texture *gpu.RenderTexture
}

// NewTextureTarget returns a new offscreen target of the given size and formats.
func NewTextureTarget(gp *gpu.GPU, size image.Point, formats gpu.TargetFormats) (*TextureTarget, error) {
	rt, err := gpu.NewRenderTexture(gp, size, formats)
	if err != nil {
		return nil, err
	}
	return &TextureTarget{GPU: gp, Texture: rt}, nil
}

// Formats returns the texture color and depth formats.
func (tt *TextureTarget) Formats() gpu.TargetFormats {
	return tt.Texture.Formats
}

// SetSize resizes the texture.
func (tt *TextureTarget) SetSize(size image.Point) error {
	return tt.Texture.SetSize(size)
}

func (tt *TextureTarget) Acquire() (Frame, error) {
	view, err := tt.Texture.Acquire()
	if err != nil {
		return nil, err
	}
	return &gpuFrame{gpu: tt.GPU, view: view, depth: tt.Texture.DepthView(), formats: tt.Texture.Formats, present: tt.Texture.Present}, nil
}

// ReadImage returns the last rendered image, waiting for rendering to finish.
func (tt *TextureTarget) ReadImage() (*image.RGBA, error) {
	return tt.Texture.ReadImage()
}

// Release releases the texture.
func (tt *TextureTarget) Release() {
	tt.Texture.Release()
}

// gpuFrame is a [Frame] recording into one [gpu.RenderPass].
type gpuFrame struct {
	gpu     *gpu.GPU
	view    *wgpu.TextureView
	depth   *wgpu.TextureView
	formats gpu.TargetFormats
	present func()

	pass      *gpu.RenderPass
	scheduled bool
}

func (fr *gpuFrame) BeginPass(pc PassConfig) error {
	pass, err := fr.gpu.BeginRenderPass(fr.view, fr.depth, fr.formats, pc.Clear)
	if err != nil {
		return err
	}
	fr.pass = pass
	return nil
}

func (fr *gpuFrame) SetVertexBuffer(index int, mesh *gpu.Mesh) {
	mesh.Bind(fr.pass.Pass(), index)
}

func (fr *gpuFrame) SetUniforms(index int, buf *gpu.UniformBuffer, data []byte) error {
	if index != gpu.UniformBinding {
		return fmt.Errorf("render: uniform index %d is not %d: %w", index, gpu.UniformBinding, gpu.ErrConfiguration)
	}
	if err := buf.Write(data); err != nil {
		return err
	}
	buf.Bind(fr.pass.Pass())
	return nil
}

func (fr *gpuFrame) SetPipeline(pl *gpu.Pipeline) {
	pl.Bind(fr.pass.Pass())
}

func (fr *gpuFrame) SetTexture(unit int, tx *gpu.Texture) {
	tx.Bind(fr.pass.Pass())
}

func (fr *gpuFrame) SetSampler(unit int, sm *gpu.Sampler) {
	sm.Bind(fr.pass.Pass())
}

func (fr *gpuFrame) Draw(mesh *gpu.Mesh) {
	mesh.Draw(fr.pass.Pass())
}

func (fr *gpuFrame) EndPass() {
	fr.pass.End()
}

func (fr *gpuFrame) Present() {
	fr.scheduled = true
}

func (fr *gpuFrame) Submit() error {
	if err := fr.pass.Submit(); err != nil {
		return err
	}
	if fr.scheduled {
		fr.scheduled = false
		fr.present()
	}
	return nil
}

func (fr *gpuFrame) Release() {
	fr.pass.Release()
}
