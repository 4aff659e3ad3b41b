// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image/color"

	"github.com/cogentcore/webgpu/wgpu"
)

// RenderPass is one command encoder with one render pass on it,
// drawing into a color view and an optional depth view.
type RenderPass struct {
	gpu     *GPU
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	ended   bool
}

// colorToWGPU converts a Go color to a WebGPU clear color.
func colorToWGPU(c color.Color) wgpu.Color {
	if c == nil {
		return wgpu.Color{A: 1}
	}
	r, g, b, a := c.RGBA()
	return wgpu.Color{R: float64(r) / 0xffff, G: float64(g) / 0xffff, B: float64(b) / 0xffff, A: float64(a) / 0xffff}
}

// BeginRenderPass starts a render pass that clears the color view to
// the given color (opaque black if nil) and, if depth is non-nil,
// clears depth to 1 and stencil to 0 when formats has a stencil aspect.
func (gp *GPU) BeginRenderPass(view, depth *wgpu.TextureView, formats TargetFormats, clear color.Color) (*RenderPass, error) {
	encoder, err := gp.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, resourceError("command encoder", err)
	}
	rpd := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: colorToWGPU(clear),
		}},
	}
	if depth != nil {
		ds := &wgpu.RenderPassDepthStencilAttachment{
			View:            depth,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		}
		if formats.HasStencil() {
			ds.StencilLoadOp = wgpu.LoadOpClear
			ds.StencilStoreOp = wgpu.StoreOpStore
			ds.StencilClearValue = 0
		}
		rpd.DepthStencilAttachment = ds
	}
	return &RenderPass{gpu: gp, encoder: encoder, pass: encoder.BeginRenderPass(rpd)}, nil
}

// Pass returns the render pass encoder, for binding and drawing.
func (rp *RenderPass) Pass() *wgpu.RenderPassEncoder {
	return rp.pass
}

// Encoder returns the command encoder, for copies after the pass ends.
func (rp *RenderPass) Encoder() *wgpu.CommandEncoder {
	return rp.encoder
}

// End ends the render pass. Further calls do nothing.
func (rp *RenderPass) End() {
	if rp.ended {
		return
	}
	rp.ended = true
	rp.pass.End()
}

// Submit ends the pass if needed, finishes the command encoder
// and submits the command buffer to the queue.
func (rp *RenderPass) Submit() error {
	rp.End()
	cmd, err := rp.encoder.Finish(nil)
	if err != nil {
		return resourceError("command buffer", err)
	}
	rp.gpu.Queue.Submit(cmd)
	cmd.Release()
	return nil
}

// Release releases the pass and encoder.
func (rp *RenderPass) Release() {
	if rp == nil {
		return
	}
	if rp.pass != nil {
		rp.pass.Release()
		rp.pass = nil
	}
	if rp.encoder != nil {
		rp.encoder.Release()
		rp.encoder = nil
	}
}
