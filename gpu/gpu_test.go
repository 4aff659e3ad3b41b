// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
	"image/color"
	"testing"

	"cogentcore.org/solid/base/iox/imagex"
	"cogentcore.org/solid/gpu/shape"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDesc() *PipelineDesc {
	ds := DefaultDepthState()
	return &PipelineDesc{
		Label:         "test",
		Shader:        &Shader{Name: "test"},
		VertexEntry:   "vertexMain",
		FragmentEntry: "fragmentMain",
		Layout:        NewVertexLayout(shape.PositionNormalTexCoord),
		Inputs:        []shape.Semantic{shape.Position, shape.Normal, shape.TexCoord},
		Formats:       DefaultTargetFormats(),
		Depth:         &ds,
		Textured:      true,
		CullMode:      wgpu.CullModeBack,
	}
}

func TestPipelineDescValidate(t *testing.T) {
	assert.NoError(t, validDesc().Validate())
	assert.Len(t, validDesc().Groups(), 3)

	cases := map[string]func(pd *PipelineDesc){
		"no shader":       func(pd *PipelineDesc) { pd.Shader = nil },
		"vertex entry":    func(pd *PipelineDesc) { pd.VertexEntry = "" },
		"fragment entry":  func(pd *PipelineDesc) { pd.FragmentEntry = "" },
		"missing input":   func(pd *PipelineDesc) { pd.Layout = NewVertexLayout(shape.PositionNormal) },
		"color undefined": func(pd *PipelineDesc) { pd.Formats.Color = wgpu.TextureFormatUndefined },
		"depth no format": func(pd *PipelineDesc) { pd.Formats.Depth = wgpu.TextureFormatUndefined },
		"offset overflow": func(pd *PipelineDesc) { pd.Layout.Stride = 28 },
		"duplicate location": func(pd *PipelineDesc) {
			pd.Layout.Attributes[2].Location = 1
		},
	}
	for name, mod := range cases {
		pd := validDesc()
		mod(pd)
		assert.ErrorIs(t, pd.Validate(), ErrConfiguration, name)
	}

	pd := validDesc()
	pd.Textured = false
	pd.Inputs = pd.Inputs[:2]
	pd.Layout = NewVertexLayout(shape.PositionNormal)
	assert.NoError(t, pd.Validate())
	assert.Equal(t, []Groups{UniformGroup}, pd.Groups())
}

func TestVertexLayout(t *testing.T) {
	vl := NewVertexLayout(shape.PositionNormalTexCoord)
	bl := vl.BufferLayout()
	assert.Equal(t, uint64(32), bl.ArrayStride)
	require.Len(t, bl.Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, bl.Attributes[0].Format)
	assert.Equal(t, uint64(12), bl.Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, bl.Attributes[2].Format)
	assert.Equal(t, uint32(2), bl.Attributes[2].ShaderLocation)
	assert.True(t, vl.Has(shape.TexCoord))

	pn := NewVertexLayout(shape.PositionNormal)
	assert.Equal(t, 24, pn.Stride)
	assert.False(t, pn.Has(shape.TexCoord))
	assert.Error(t, (&VertexLayout{}).Validate())
}

func TestDepthState(t *testing.T) {
	ds := DefaultDepthState()
	assert.Equal(t, wgpu.CompareFunctionLess, ds.Compare)
	assert.True(t, ds.WriteEnabled)

	_, err := NewDepthState(wgpu.CompareFunctionUndefined, true)
	assert.ErrorIs(t, err, ErrResourceCreation)

	ds, err = NewDepthState(wgpu.CompareFunctionLessEqual, false)
	assert.NoError(t, err)
	d := ds.descriptor(wgpu.TextureFormatDepth24Plus)
	assert.Equal(t, wgpu.TextureFormatDepth24Plus, d.Format)
	assert.False(t, d.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLessEqual, d.DepthCompare)
	assert.Equal(t, wgpu.CompareFunctionAlways, d.StencilFront.Compare)
}

func TestTargetFormats(t *testing.T) {
	tf := DefaultTargetFormats()
	assert.True(t, tf.HasDepth())
	assert.False(t, tf.HasStencil())
	assert.False(t, tf.IsBGRA())
	tf.Depth = wgpu.TextureFormatDepth24PlusStencil8
	assert.True(t, tf.HasStencil())
	tf.Color = wgpu.TextureFormatBGRA8UnormSrgb
	assert.True(t, tf.IsBGRA())
	assert.NoError(t, tf.Validate())
	assert.ErrorIs(t, TargetFormats{}.Validate(), ErrConfiguration)
}

func TestSamplerConfig(t *testing.T) {
	sc := DefaultSamplerConfig()
	d := sc.Descriptor("smp")
	assert.Equal(t, "smp", d.Label)
	assert.Equal(t, wgpu.AddressModeRepeat, d.AddressModeU)
	assert.Equal(t, wgpu.AddressModeRepeat, d.AddressModeV)
	assert.Equal(t, wgpu.AddressModeRepeat, d.AddressModeW)
	assert.Equal(t, wgpu.FilterModeLinear, d.MagFilter)
	assert.Equal(t, wgpu.FilterModeNearest, d.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeNearest, d.MipmapFilter)
	assert.Equal(t, uint16(1), d.MaxAnisotropy)

	sc.MaxAnisotropy = 0
	assert.Equal(t, uint16(1), sc.Descriptor("").MaxAnisotropy)
}

func TestGroups(t *testing.T) {
	ue := UniformGroup.layoutEntry()
	assert.Equal(t, uint32(UniformBinding), ue.Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, ue.Buffer.Type)
	te := TextureGroup.layoutEntry()
	assert.Equal(t, uint32(0), te.Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, te.Texture.SampleType)
	se := SamplerGroup.layoutEntry()
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, se.Sampler.Type)
	assert.Equal(t, "texture", TextureGroup.String())
}

func TestColorToWGPU(t *testing.T) {
	assert.Equal(t, wgpu.Color{A: 1}, colorToWGPU(nil))
	c := colorToWGPU(color.RGBA{255, 0, 0, 255})
	assert.Equal(t, 1.0, c.R)
	assert.Equal(t, 0.0, c.G)
	assert.Equal(t, 1.0, c.A)
}

func TestUnpadRows(t *testing.T) {
	assert.Equal(t, 256, paddedRow(3))
	assert.Equal(t, 512, paddedRow(65))

	size := image.Pt(2, 2)
	row := paddedRow(size.X)
	data := make([]byte, row*size.Y)
	copy(data, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	copy(data[row:], []byte{9, 10, 11, 12, 13, 14, 15, 16})

	img := unpadRows(data, size, row, false)
	assert.Equal(t, color.RGBA{9, 10, 11, 12}, img.RGBAAt(0, 1))
	bgr := unpadRows(data, size, row, true)
	assert.Equal(t, color.RGBA{7, 6, 5, 8}, bgr.RGBAAt(1, 0))
}

func TestResourcesReleaseNil(t *testing.T) {
	assert.NotPanics(t, func() {
		(&Mesh{}).Release()
		(&UniformBuffer{}).Release()
		(&Texture{}).Release()
		(&Sampler{}).Release()
		(&Shader{}).Release()
		(&Pipeline{}).Release()
		var pl *Pipeline
		pl.Release()
	})
}

func TestGPUOffscreenBox(t *testing.T) {
	t.Skip("Need software GPU on CI")
	gp, err := NoDisplayGPU()
	require.NoError(t, err)
	defer gp.Release()
	rt, err := NewRenderTexture(gp, image.Pt(64, 64), DefaultTargetFormats())
	require.NoError(t, err)
	defer rt.Release()

	sh, err := gp.NewShader("flat", `
struct Uniforms { mvp: mat4x4<f32>, }
@group(0) @binding(1) var<uniform> u: Uniforms;
@vertex fn vertexMain(@location(0) pos: vec3<f32>, @location(1) n: vec3<f32>) -> @builtin(position) vec4<f32> {
	return u.mvp * vec4<f32>(pos * 0.5, 1.0);
}
@fragment fn fragmentMain() -> @location(0) vec4<f32> { return vec4<f32>(1.0, 0.0, 0.0, 1.0); }
`)
	require.NoError(t, err)
	defer sh.Release()
	ds := DefaultDepthState()
	pl, err := gp.NewPipeline(&PipelineDesc{
		Label: "flat", Shader: sh, VertexEntry: "vertexMain", FragmentEntry: "fragmentMain",
		Layout: NewVertexLayout(shape.PositionNormal), Inputs: []shape.Semantic{shape.Position},
		Formats: rt.Formats, Depth: &ds, CullMode: wgpu.CullModeNone,
	})
	require.NoError(t, err)
	defer pl.Release()
	md, err := shape.NewBox(1).MeshData()
	require.NoError(t, err)
	ms, err := gp.NewMesh(md)
	require.NoError(t, err)
	defer ms.Release()
	ub, err := gp.NewUniformBuffer(64)
	require.NoError(t, err)
	defer ub.Release()
	id := make([]byte, 64)
	for i := 0; i < 4; i++ {
		id[i*20+2] = 0x80
		id[i*20+3] = 0x3f
	}
	require.NoError(t, ub.Write(id))

	view, err := rt.Acquire()
	require.NoError(t, err)
	rp, err := gp.BeginRenderPass(view, rt.DepthView(), rt.Formats, color.Black)
	require.NoError(t, err)
	pl.Bind(rp.Pass())
	ub.Bind(rp.Pass())
	ms.Bind(rp.Pass(), 0)
	ms.Draw(rp.Pass())
	require.NoError(t, rp.Submit())
	rp.Release()

	img, err := rt.ReadImage()
	require.NoError(t, err)
	assert.True(t, imagex.CompareColors(color.RGBA{255, 0, 0, 255}, img.RGBAAt(32, 32), 2))
	assert.True(t, imagex.CompareColors(color.RGBA{0, 0, 0, 255}, img.RGBAAt(1, 1), 2))
}
