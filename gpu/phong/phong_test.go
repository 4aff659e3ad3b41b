// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phong

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"cogentcore.org/solid/base/tolassert"
	"cogentcore.org/solid/gpu/shape"
	"cogentcore.org/solid/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProgram(terms Terms, textured bool) *Program {
	return &Program{
		Terms:    terms,
		Textured: textured,
		Light:    Light{Position: math32.Vec3(0, 5, 5), Color: math32.Vec3(1, 1, 1), Power: 50},
		Material: Material{
			Ambient:   math32.Vec3(0.1, 0.1, 0.1),
			Diffuse:   math32.Vec3(0.8, 0.2, 0.2),
			Specular:  math32.Vec3(1, 1, 1),
			Shininess: 16,
		},
	}
}

func TestTerms(t *testing.T) {
	assert.Equal(t, "flat", Terms(0).String())
	assert.Equal(t, "ambient|diffuse|specular", AllTerms.String())
	assert.Equal(t, "diffuse|specular", (Diffuse | Specular).String())

	tm, err := ParseTerms("ambient, Diffuse")
	require.NoError(t, err)
	assert.Equal(t, Ambient|Diffuse, tm)
	tm, err = ParseTerms("all")
	require.NoError(t, err)
	assert.Equal(t, AllTerms, tm)
	tm, err = ParseTerms("flat")
	require.NoError(t, err)
	assert.Equal(t, Terms(0), tm)
	_, err = ParseTerms("emissive")
	assert.Error(t, err)

	var ut Terms
	require.NoError(t, ut.UnmarshalText([]byte("specular|ambient")))
	assert.Equal(t, Ambient|Specular, ut)
	b, err := ut.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ambient|specular", string(b))
}

func TestSource(t *testing.T) {
	src, err := testProgram(AllTerms, true).Source()
	require.NoError(t, err)
	assert.Contains(t, src, "fn "+VertexEntry+"(")
	assert.Contains(t, src, "fn "+FragmentEntry+"(")
	assert.Contains(t, src, "@group(0) @binding(1) var<uniform> uniforms: Uniforms;")
	assert.Contains(t, src, "@group(1) @binding(0) var diffuseTexture")
	assert.Contains(t, src, "@group(2) @binding(0) var diffuseSampler")
	assert.Contains(t, src, "@location(2) texCoord: vec2<f32>,")
	assert.Contains(t, src, "out.texCoord = in.texCoord;")
	assert.Contains(t, src, "const lightPower: f32 = 50.0;")
	assert.Contains(t, src, "const shininess: f32 = 16.0;")
	assert.Contains(t, src, "attenuation")
	assert.NotContains(t, src, "{{")

	src, err = testProgram(Ambient|Diffuse, false).Source()
	require.NoError(t, err)
	assert.NotContains(t, src, "texture_2d")
	assert.NotContains(t, src, "@group(1)")
	assert.NotContains(t, src, "in.texCoord")
	assert.NotContains(t, src, "pow(")
	assert.Contains(t, src, "let base = diffuseColor;")
	assert.Contains(t, src, "const diffuseColor = vec3<f32>(0.8, 0.2, 0.2);")

	flat := testProgram(0, false)
	flat.TexCoords = true
	src, err = flat.Source()
	require.NoError(t, err)
	assert.Contains(t, src, "out.texCoord = in.texCoord;")
	assert.NotContains(t, src, "attenuation")
	assert.Contains(t, src, "return vec4<f32>(base, 1.0);")
}

func TestInputs(t *testing.T) {
	assert.Equal(t, []shape.Semantic{shape.Position, shape.Normal}, testProgram(AllTerms, false).Inputs())
	assert.Equal(t, []shape.Semantic{shape.Position, shape.Normal, shape.TexCoord}, testProgram(AllTerms, true).Inputs())
	assert.Equal(t, "phong ambient|diffuse|specular textured", testProgram(AllTerms, true).Name())
	assert.Equal(t, "phong flat", testProgram(0, false).Name())
}

func TestFormatF32(t *testing.T) {
	assert.Equal(t, "1.0", formatF32(1))
	assert.Equal(t, "0.5", formatF32(0.5))
	assert.Equal(t, "-3.0", formatF32(-3))
	assert.Equal(t, "1e-07", formatF32(1e-7))
	assert.Equal(t, "0.0, 5.0, 5.0", formatVec3(math32.Vec3(0, 5, 5)))
}

func TestUniforms(t *testing.T) {
	var cam Camera
	cam.Defaults()
	u := cam.Uniforms()
	b := u.Bytes()
	require.Len(t, b, UniformsSize)
	assert.Equal(t, 192, UniformsSize)
	at := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])) }
	assert.Equal(t, u.ModelView[0], at(0))
	assert.Equal(t, u.ModelView[14], at(14))
	assert.Equal(t, u.Projection[11], at(16+11))
	assert.Equal(t, float32(-1), at(16+11))
	assert.Equal(t, u.Normal[5], at(32+5))
	assert.Equal(t, float32(1), at(32+15))
}

func TestCameraDefaults(t *testing.T) {
	var cam Camera
	cam.Defaults()
	require.NoError(t, cam.Validate())
	mv := cam.ModelView()
	tolassert.EqualTol(t, -4, mv[14], 1e-6)
	assert.Equal(t, cam.ModelView(), mv)
}

func TestCameraValidate(t *testing.T) {
	for name, f := range map[string]func(c *Camera){
		"fov zero":  func(c *Camera) { c.FOV = 0 },
		"fov 180":   func(c *Camera) { c.FOV = 180 },
		"near zero": func(c *Camera) { c.Near = 0 },
		"far near":  func(c *Camera) { c.Far = c.Near },
		"nan":       func(c *Camera) { c.FOV = float32(math.NaN()) },
	} {
		var cam Camera
		cam.Defaults()
		f(&cam)
		assert.ErrorIs(t, cam.Validate(), shape.ErrConfiguration, name)
	}
}

func TestCameraRotationOrder(t *testing.T) {
	cam := Camera{FOV: 65, Near: 0.1, Far: 100, Aspect: 1}
	cam.SetRotations(
		AxisAngle{Axis: math32.Vec3(1, 0, 0), Degrees: 90},
		AxisAngle{Axis: math32.Vec3(0, 1, 0), Degrees: 90},
	)
	mv := cam.ModelView()
	p := math32.Vec3(0, 1, 0).MulMatrix4(&mv)
	tolassert.EqualTol(t, 1, p.X, 1e-6)
	tolassert.EqualTol(t, 0, p.Y, 1e-6)
	tolassert.EqualTol(t, 0, p.Z, 1e-6)

	cam.Translation = math32.Vec3(0, 0, -4)
	cam.Invalidate()
	mv = cam.ModelView()
	p = math32.Vec3(0, 1, 0).MulMatrix4(&mv)
	tolassert.EqualTol(t, -4, p.Z, 1e-6)
}

func TestCameraAspect(t *testing.T) {
	var cam Camera
	cam.Defaults()
	assert.True(t, cam.SetAspect(1600, 900))
	p1 := cam.Projection()
	assert.True(t, cam.SetAspect(1600, 900))
	p2 := cam.Projection()
	assert.Equal(t, p1, p2)
	tolassert.EqualTol(t, 1.5696855/(16.0/9), p1[0], 1e-5)

	assert.False(t, cam.SetAspect(0, 900))
	assert.False(t, cam.SetAspect(800, -1))
	assert.Equal(t, p1, cam.Projection())
}

func TestCameraStep(t *testing.T) {
	var cam Camera
	cam.Defaults()
	mv := cam.ModelView()
	cam.Step()
	assert.Equal(t, mv, cam.ModelView())

	cam.Spin = 340
	cam.Step()
	assert.Equal(t, float32(10), cam.Rotations[1].Degrees)
	assert.Equal(t, float32(20), cam.Rotations[0].Degrees)
	assert.NotEqual(t, mv, cam.ModelView())
}

func TestVertex(t *testing.T) {
	var cam Camera
	cam.Defaults()
	cam.SetAspect(16, 9)
	u := cam.Uniforms()
	p := testProgram(AllTerms, true)
	in := shape.Vertex{Position: math32.Vec3(0, 0, 1), Normal: math32.Vec3(0, 0, 1), TexCoord: math32.Vec2(0.25, 0.5)}
	out := p.Vertex(&u, in)
	tolassert.EqualTol(t, -out.Position.Z, out.Clip.W, 1e-5)
	assert.Equal(t, in.TexCoord, out.TexCoord)
	tolassert.EqualTol(t, 1, out.Normal.Length(), 1e-5)

	ndc := out.Clip.PerspDiv()
	assert.True(t, ndc.Z > 0 && ndc.Z < 1)

	p.Textured = false
	out = p.Vertex(&u, in)
	assert.Equal(t, math32.Vector2{}, out.TexCoord)
}

func TestAttenuation(t *testing.T) {
	prev := Attenuation(0.01)
	for _, d := range []float32{0.05, 0.1, 0.5, 1, 2, 10, 100} {
		a := Attenuation(d)
		assert.Less(t, a, prev, "distance %g", d)
		prev = a
	}
	tolassert.EqualTol(t, 0.25, Attenuation(2), 1e-7)
}

func TestFragmentNearLight(t *testing.T) {
	p := testProgram(Diffuse, false)
	dir := p.Light.Position.Normal()
	var prev float32
	for i, eps := range []float32{4, 2, 1, 0.5, 0.1, 0.01} {
		pos := p.Light.Position.Sub(dir.MulScalar(eps))
		c := p.Fragment(VertexOutput{Position: pos, Normal: dir}, nil)
		tolassert.EqualTol(t, 0.8*50/(eps*eps), c.X, 1e-2*c.X)
		if i > 0 {
			assert.Greater(t, c.X, prev)
		}
		prev = c.X
	}
	assert.Greater(t, prev, float32(1e5))
}

func TestFragmentTerms(t *testing.T) {
	in := VertexOutput{Position: math32.Vec3(0, 0, -4), Normal: math32.Vec3(0, 0, 2)}

	c := testProgram(Ambient, false).Fragment(in, nil)
	assert.Equal(t, math32.Vec3(0.1, 0.1, 0.1), c)

	// facing away from the light gives only ambient
	away := VertexOutput{Position: in.Position, Normal: math32.Vec3(0, 0, -1)}
	c = testProgram(AllTerms, false).Fragment(away, nil)
	tolassert.EqualTol(t, 0.1, c.X, 1e-6)

	full := testProgram(AllTerms, false).Fragment(in, nil)
	diff := testProgram(Ambient|Diffuse, false).Fragment(in, nil)
	assert.Greater(t, full.Y, diff.Y)
	assert.Greater(t, diff.X, float32(0.1))
}

func TestFragmentFlat(t *testing.T) {
	in := VertexOutput{Position: math32.Vec3(0, 0, -4), Normal: math32.Vec3(0, 0, 1), TexCoord: math32.Vec2(0.5, 0.25)}
	p := testProgram(0, false)
	assert.Equal(t, p.Material.Diffuse, p.Fragment(in, nil))

	p.Textured = true
	var got math32.Vector2
	c := p.Fragment(in, func(uv math32.Vector2) math32.Vector3 {
		got = uv
		return math32.Vec3(0, 1, 0)
	})
	assert.Equal(t, in.TexCoord, got)
	assert.Equal(t, math32.Vec3(0, 1, 0), c)
}

func TestSourceTemplateClean(t *testing.T) {
	for _, terms := range []Terms{0, Ambient, Diffuse, Specular, AllTerms} {
		for _, tex := range []bool{false, true} {
			src, err := testProgram(terms, tex).Source()
			require.NoError(t, err)
			assert.Equal(t, 1, strings.Count(src, "@vertex"))
			assert.Equal(t, 1, strings.Count(src, "@fragment"))
			assert.NotContains(t, src, "<no value>")
		}
	}
}
