// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Groups are the fixed bind groups (@group in WGSL) shared by all
// pipelines. Bind groups made from the standard layout of a group
// are compatible with any pipeline that uses the group.
type Groups int32

const (
	// UniformGroup holds the per-frame uniform block,
	// at binding [UniformBinding].
	UniformGroup Groups = iota

	// TextureGroup holds texture unit 0 at binding 0.
	TextureGroup

	// SamplerGroup holds sampler unit 0 at binding 0.
	SamplerGroup

	numGroups
)

// UniformBinding is the @binding of the uniform block in [UniformGroup].
const UniformBinding = 1

func (g Groups) String() string {
	switch g {
	case UniformGroup:
		return "uniform"
	case TextureGroup:
		return "texture"
	case SamplerGroup:
		return "sampler"
	}
	return fmt.Sprintf("Groups(%d)", int32(g))
}

// layoutEntry returns the single layout entry of the group.
func (g Groups) layoutEntry() wgpu.BindGroupLayoutEntry {
	switch g {
	case TextureGroup:
		return wgpu.BindGroupLayoutEntry{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		}
	case SamplerGroup:
		return wgpu.BindGroupLayoutEntry{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		}
	}
	return wgpu.BindGroupLayoutEntry{
		Binding:    UniformBinding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type: wgpu.BufferBindingTypeUniform,
		},
	}
}

// BindGroupLayout returns the standard layout for the given group,
// creating it on first use.
func (gp *GPU) BindGroupLayout(g Groups) (*wgpu.BindGroupLayout, error) {
	if g < 0 || g >= numGroups {
		return nil, fmt.Errorf("gpu: bind group %d out of range: %w", g, ErrConfiguration)
	}
	if bl := gp.bindLayouts[g]; bl != nil {
		return bl, nil
	}
	bl, err := gp.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   g.String() + " layout",
		Entries: []wgpu.BindGroupLayoutEntry{g.layoutEntry()},
	})
	if err != nil {
		return nil, resourceError(g.String()+" bind group layout", err)
	}
	gp.bindLayouts[g] = bl
	return bl, nil
}

// newBindGroup returns a bind group for the given group
// with the single given entry.
func (gp *GPU) newBindGroup(g Groups, label string, entry wgpu.BindGroupEntry) (*wgpu.BindGroup, error) {
	bl, err := gp.BindGroupLayout(g)
	if err != nil {
		return nil, err
	}
	bg, err := gp.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  bl,
		Entries: []wgpu.BindGroupEntry{entry},
	})
	if err != nil {
		return nil, resourceError(label+" bind group", err)
	}
	return bg, nil
}
