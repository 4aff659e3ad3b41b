// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// copyRowAlignment is the required alignment of bytes per row
// in texture to buffer copies.
const copyRowAlignment = 256

// RenderTexture is an offscreen, non-window-backed rendering target,
// functioning like a Surface, whose image can be read back.
type RenderTexture struct {
	// Formats are the color and depth formats.
	Formats TargetFormats

	// Size is the size of the render texture in pixels.
	Size image.Point

	gpu          *GPU
	texture      *wgpu.Texture
	view         *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

// NewRenderTexture returns a new standalone texture render
// target for given GPU, suitable for offscreen rendering.
func NewRenderTexture(gp *GPU, size image.Point, formats TargetFormats) (*RenderTexture, error) {
	if err := formats.Validate(); err != nil {
		return nil, err
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("gpu.RenderTexture: size %v has zero area: %w", size, ErrConfiguration)
	}
	rt := &RenderTexture{gpu: gp, Formats: formats}
	if err := rt.configure(size); err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *RenderTexture) configure(size image.Point) error {
	rt.release()
	rt.Size = size
	t, v, err := rt.gpu.newTexture("render texture", size, rt.Formats.Color, wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageCopySrc)
	if err != nil {
		return err
	}
	rt.texture, rt.view = t, v
	if !rt.Formats.HasDepth() {
		return nil
	}
	t, v, err = rt.gpu.newTexture("render texture depth", size, rt.Formats.Depth, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		rt.release()
		return err
	}
	rt.depthTexture, rt.depthView = t, v
	return nil
}

// SetSize sets the size for the render texture,
// doesn't do anything if already that size or zero area.
func (rt *RenderTexture) SetSize(size image.Point) error {
	if size == rt.Size || size.X <= 0 || size.Y <= 0 {
		return nil
	}
	return rt.configure(size)
}

// Acquire returns the view to render into.
func (rt *RenderTexture) Acquire() (*wgpu.TextureView, error) {
	if rt.view == nil {
		return nil, fmt.Errorf("gpu.RenderTexture: released: %w", ErrResourceCreation)
	}
	return rt.view, nil
}

// DepthView returns the depth buffer view, or nil if there is none.
func (rt *RenderTexture) DepthView() *wgpu.TextureView {
	return rt.depthView
}

// paddedRow returns the bytes per row of a readback buffer.
func paddedRow(width int) int {
	row := 4 * width
	return (row + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
}

// ReadImage copies the rendered texture back to host memory,
// waiting for all submitted rendering to complete first.
func (rt *RenderTexture) ReadImage() (*image.RGBA, error) {
	gp := rt.gpu
	row := paddedRow(rt.Size.X)
	size := row * rt.Size.Y
	buf, err := gp.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "render texture readback",
		Size:  uint64(size),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, resourceError("readback buffer", err)
	}
	defer buf.Release()

	encoder, err := gp.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, resourceError("command encoder", err)
	}
	defer encoder.Release()
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  rt.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(row),
				RowsPerImage: uint32(rt.Size.Y),
			},
		},
		&wgpu.Extent3D{Width: uint32(rt.Size.X), Height: uint32(rt.Size.Y), DepthOrArrayLayers: 1},
	)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, resourceError("command buffer", err)
	}
	gp.Queue.Submit(cmd)
	cmd.Release()

	if err := BufferReadSync(gp, size, buf); err != nil {
		return nil, err
	}
	data := buf.GetMappedRange(0, uint(size))
	img := unpadRows(data, rt.Size, row, rt.Formats.IsBGRA())
	buf.Unmap()
	return img, nil
}

// unpadRows copies padded RGBA or BGRA rows into a new RGBA image.
func unpadRows(data []byte, size image.Point, row int, bgra bool) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	for y := 0; y < size.Y; y++ {
		dst := img.Pix[y*img.Stride : y*img.Stride+4*size.X]
		copy(dst, data[y*row:])
		if bgra {
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return img
}

// Present does nothing: the image stays in the texture.
func (rt *RenderTexture) Present() {}

func (rt *RenderTexture) release() {
	for _, v := range []*wgpu.TextureView{rt.view, rt.depthView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{rt.texture, rt.depthTexture} {
		if t != nil {
			t.Release()
		}
	}
	rt.view, rt.depthView, rt.texture, rt.depthTexture = nil, nil, nil, nil
}

// Release releases the color and depth textures.
func (rt *RenderTexture) Release() {
	if rt == nil {
		return
	}
	rt.release()
}
