// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// DepthState is the depth test configuration of a pipeline.
// WebGPU has no separate depth state object: it is baked into
// the render pipeline when the pipeline is created.
type DepthState struct {
	// Compare is the comparison that must pass for a fragment to be kept.
	Compare wgpu.CompareFunction

	// WriteEnabled is whether passing fragments write their depth.
	WriteEnabled bool
}

// DefaultDepthState returns the standard depth state:
// nearer fragments pass, and depth is written.
func DefaultDepthState() DepthState {
	return DepthState{Compare: wgpu.CompareFunctionLess, WriteEnabled: true}
}

// NewDepthState returns a new DepthState, with an error wrapping
// [ErrResourceCreation] if the compare function is undefined.
func NewDepthState(compare wgpu.CompareFunction, write bool) (DepthState, error) {
	if compare == wgpu.CompareFunctionUndefined {
		return DepthState{}, fmt.Errorf("gpu.DepthState: compare function is undefined: %w", ErrResourceCreation)
	}
	return DepthState{Compare: compare, WriteEnabled: write}, nil
}

// descriptor returns the pipeline depth stencil state for the given
// depth attachment format. Stencil tests always pass.
func (ds DepthState) descriptor(format wgpu.TextureFormat) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: ds.WriteEnabled,
		DepthCompare:      ds.Compare,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilReadMask:  0xFFFFFFFF,
		StencilWriteMask: 0xFFFFFFFF,
	}
}
