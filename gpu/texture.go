// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"cogentcore.org/solid/base/iox/imagex"
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture represents a WebGPU Texture with an associated TextureView,
// bound as texture unit 0 in [TextureGroup].
// The WebGPU Texture is in device memory, in an optimized format.
type Texture struct {
	// Name of the texture, for debugging.
	Name string

	// Size of the texture in pixels.
	Size image.Point

	// Format of the texture: RGBA8UnormSrgb for images.
	Format wgpu.TextureFormat

	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

// NewTexture uploads the given image into a new sRGB RGBA texture.
// Row 0 of the image is texture V = 0.
func (gp *GPU) NewTexture(name string, img image.Image) (*Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("gpu: texture %q has no pixels: %w", name, ErrResourceCreation)
	}
	rimg := imagex.AsRGBA(img)
	sz := rimg.Rect.Size()
	tx := &Texture{Name: name, Size: sz, Format: wgpu.TextureFormatRGBA8UnormSrgb}
	t, v, err := gp.newTexture(name, sz, tx.Format, wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	tx.texture, tx.view = t, v
	extent := wgpu.Extent3D{Width: uint32(sz.X), Height: uint32(sz.Y), DepthOrArrayLayers: 1}
	// https://www.w3.org/TR/webgpu/#gpuimagecopytexture
	gp.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  t,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		rimg.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * uint32(sz.X),
			RowsPerImage: uint32(sz.Y),
		},
		&extent,
	)
	bg, err := gp.newBindGroup(TextureGroup, name, wgpu.BindGroupEntry{Binding: 0, TextureView: v})
	if err != nil {
		tx.Release()
		return nil, err
	}
	tx.bindGroup = bg
	return tx, nil
}

// newTexture creates a 2D texture and a default view of it.
func (gp *GPU) newTexture(label string, size image.Point, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	t, err := gp.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(size.X),
			Height:             uint32(size.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, resourceError("texture "+label, err)
	}
	v, err := t.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, nil, resourceError("texture view "+label, err)
	}
	return t, v, nil
}

// Bind sets the texture's bind group as [TextureGroup].
func (tx *Texture) Bind(rp *wgpu.RenderPassEncoder) {
	rp.SetBindGroup(uint32(TextureGroup), tx.bindGroup, nil)
}

// Release destroys the bind group, view and texture.
func (tx *Texture) Release() {
	if tx == nil {
		return
	}
	if tx.bindGroup != nil {
		tx.bindGroup.Release()
		tx.bindGroup = nil
	}
	if tx.view != nil {
		tx.view.Release()
		tx.view = nil
	}
	if tx.texture != nil {
		tx.texture.Release()
		tx.texture = nil
	}
}

// SamplerConfig has the filtering and addressing parameters of a [Sampler].
type SamplerConfig struct {
	// AddressU, AddressV and AddressW are the addressing
	// modes for texture coordinates outside [0, 1].
	AddressU wgpu.AddressMode
	AddressV wgpu.AddressMode
	AddressW wgpu.AddressMode

	// MagFilter is the filter used when the texture is magnified.
	MagFilter wgpu.FilterMode

	// MinFilter is the filter used when the texture is minified.
	MinFilter wgpu.FilterMode

	// MipmapFilter is the filter between mip levels.
	MipmapFilter wgpu.MipmapFilterMode

	// MaxAnisotropy is the anisotropic filtering limit; 1 is off.
	MaxAnisotropy uint16
}

// DefaultSamplerConfig returns the sampler used for the solid's texture:
// repeat addressing, linear magnification, nearest minification and
// nearest mip selection.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		AddressU:      wgpu.AddressModeRepeat,
		AddressV:      wgpu.AddressModeRepeat,
		AddressW:      wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	}
}

// Descriptor returns the WebGPU sampler descriptor for the config.
func (sc *SamplerConfig) Descriptor(label string) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  sc.AddressU,
		AddressModeV:  sc.AddressV,
		AddressModeW:  sc.AddressW,
		MagFilter:     sc.MagFilter,
		MinFilter:     sc.MinFilter,
		MipmapFilter:  sc.MipmapFilter,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: max(sc.MaxAnisotropy, 1),
	}
}

// Sampler is an immutable texture sampler, bound as sampler
// unit 0 in [SamplerGroup].
type Sampler struct {
	Name   string
	Config SamplerConfig

	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

// NewSampler returns a new Sampler with the given config.
func (gp *GPU) NewSampler(name string, cfg SamplerConfig) (*Sampler, error) {
	s, err := gp.Device.CreateSampler(cfg.Descriptor(name))
	if err != nil {
		return nil, resourceError("sampler "+name, err)
	}
	sm := &Sampler{Name: name, Config: cfg, sampler: s}
	bg, err := gp.newBindGroup(SamplerGroup, name, wgpu.BindGroupEntry{Binding: 0, Sampler: s})
	if err != nil {
		sm.Release()
		return nil, err
	}
	sm.bindGroup = bg
	return sm, nil
}

// Bind sets the sampler's bind group as [SamplerGroup].
func (sm *Sampler) Bind(rp *wgpu.RenderPassEncoder) {
	rp.SetBindGroup(uint32(SamplerGroup), sm.bindGroup, nil)
}

// Release releases the bind group and sampler.
func (sm *Sampler) Release() {
	if sm == nil {
		return
	}
	if sm.bindGroup != nil {
		sm.bindGroup.Release()
		sm.bindGroup = nil
	}
	if sm.sampler != nil {
		sm.sampler.Release()
		sm.sampler = nil
	}
}
