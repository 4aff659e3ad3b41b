// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// TargetFormats are the attachment formats of a render target,
// which a pipeline must be built against.
type TargetFormats struct {
	// Color is the color attachment format.
	Color wgpu.TextureFormat

	// Depth is the depth (and optional stencil) attachment format,
	// or TextureFormatUndefined for no depth buffer.
	Depth wgpu.TextureFormat
}

// DefaultTargetFormats returns the formats used for offscreen
// rendering: sRGB RGBA color, which matches Go's image.RGBA
// byte order, and a 32 bit float depth buffer.
func DefaultTargetFormats() TargetFormats {
	return TargetFormats{Color: wgpu.TextureFormatRGBA8UnormSrgb, Depth: wgpu.TextureFormatDepth32Float}
}

// HasDepth returns whether a depth attachment is present.
func (tf TargetFormats) HasDepth() bool {
	return tf.Depth != wgpu.TextureFormatUndefined
}

// HasStencil returns whether the depth attachment has a stencil aspect.
func (tf TargetFormats) HasStencil() bool {
	switch tf.Depth {
	case wgpu.TextureFormatDepth24PlusStencil8, wgpu.TextureFormatDepth32FloatStencil8, wgpu.TextureFormatStencil8:
		return true
	}
	return false
}

// Validate returns an error wrapping [ErrConfiguration]
// if the color format is undefined.
func (tf TargetFormats) Validate() error {
	if tf.Color == wgpu.TextureFormatUndefined {
		return fmt.Errorf("gpu.TargetFormats: color format is undefined: %w", ErrConfiguration)
	}
	return nil
}

func (tf TargetFormats) String() string {
	return fmt.Sprintf("color: %s depth: %s", tf.Color.String(), tf.Depth.String())
}

// IsBGRA returns whether the color format stores pixels in
// blue, green, red, alpha byte order, as most window surfaces do.
func (tf TargetFormats) IsBGRA() bool {
	return tf.Color == wgpu.TextureFormatBGRA8Unorm || tf.Color == wgpu.TextureFormatBGRA8UnormSrgb
}
