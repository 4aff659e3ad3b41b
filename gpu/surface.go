// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// Surface manages the physical device for the visible image
// of a window surface, and the depth buffer that goes with it.
type Surface struct {
	// Formats are the color format chosen from the surface
	// capabilities and the requested depth format.
	Formats TargetFormats

	// Size is the current size of the surface in pixels.
	Size image.Point

	// PresentMode is the presentation mode: Fifo (vsync) by default.
	PresentMode wgpu.PresentMode

	gpu       *GPU
	surface   *wgpu.Surface
	alphaMode wgpu.CompositeAlphaMode

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	current     *wgpu.Texture
	currentView *wgpu.TextureView
}

// NewSurface returns a new Surface for the given window surface,
// configured at the given size with a depth buffer of the given
// format (TextureFormatUndefined for none).
func NewSurface(gp *GPU, ws *wgpu.Surface, size image.Point, depth wgpu.TextureFormat) (*Surface, error) {
	caps := ws.GetCapabilities(gp.Adapter)
	if len(caps.Formats) == 0 {
		return nil, fmt.Errorf("gpu.Surface: adapter reports no surface formats: %w", ErrResourceCreation)
	}
	sf := &Surface{gpu: gp, surface: ws, PresentMode: wgpu.PresentModeFifo}
	sf.Formats = TargetFormats{Color: caps.Formats[0], Depth: depth}
	for _, f := range caps.Formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			sf.Formats.Color = f
			break
		}
	}
	if len(caps.AlphaModes) > 0 {
		sf.alphaMode = caps.AlphaModes[0]
	}
	if err := sf.configure(size); err != nil {
		return nil, err
	}
	return sf, nil
}

// configure (re)configures the surface and depth buffer at the given size.
func (sf *Surface) configure(size image.Point) error {
	sf.surface.Configure(sf.gpu.Adapter, sf.gpu.Device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      sf.Formats.Color,
		Width:       uint32(size.X),
		Height:      uint32(size.Y),
		PresentMode: sf.PresentMode,
		AlphaMode:   sf.alphaMode,
	})
	sf.Size = size
	sf.releaseDepth()
	if !sf.Formats.HasDepth() {
		return nil
	}
	t, v, err := sf.gpu.newTexture("surface depth", size, sf.Formats.Depth, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	sf.depthTexture, sf.depthView = t, v
	return nil
}

// SetSize reconfigures the surface for the given size. It does
// nothing if the size is unchanged or has zero area, as for a
// minimized window.
func (sf *Surface) SetSize(size image.Point) error {
	if size == sf.Size || size.X <= 0 || size.Y <= 0 {
		return nil
	}
	return sf.configure(size)
}

// Acquire gets the next surface texture to render into
// and returns a view of it.
func (sf *Surface) Acquire() (*wgpu.TextureView, error) {
	sf.releaseCurrent()
	t, err := sf.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	v, err := t.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, err
	}
	sf.current, sf.currentView = t, v
	return v, nil
}

// DepthView returns the depth buffer view, or nil if there is none.
func (sf *Surface) DepthView() *wgpu.TextureView {
	return sf.depthView
}

// Present presents the acquired texture to the window. It must be
// called after the commands rendering into it have been submitted.
func (sf *Surface) Present() {
	if sf.current == nil {
		return
	}
	sf.surface.Present()
	sf.releaseCurrent()
}

func (sf *Surface) releaseCurrent() {
	if sf.currentView != nil {
		sf.currentView.Release()
		sf.currentView = nil
	}
	if sf.current != nil {
		sf.current.Release()
		sf.current = nil
	}
}

func (sf *Surface) releaseDepth() {
	if sf.depthView != nil {
		sf.depthView.Release()
		sf.depthView = nil
	}
	if sf.depthTexture != nil {
		sf.depthTexture.Release()
		sf.depthTexture = nil
	}
}

// Release releases the depth buffer, any acquired texture, and
// the window surface.
func (sf *Surface) Release() {
	if sf == nil {
		return
	}
	sf.releaseCurrent()
	sf.releaseDepth()
	if sf.surface != nil {
		sf.surface.Release()
		sf.surface = nil
	}
}
