// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phong

import (
	"cogentcore.org/solid/gpu/shape"
	"cogentcore.org/solid/math32"
)

// VertexOutput is the per-vertex output of the vertex stage,
// interpolated as the per-fragment input of the fragment stage.
type VertexOutput struct {
	// Clip is the clip-space position.
	Clip math32.Vector4

	// Position is the view-space position, with the viewer at the origin.
	Position math32.Vector3

	// Normal is the view-space normal, not normalized.
	Normal math32.Vector3

	TexCoord math32.Vector2
}

// Vertex evaluates the vertex stage for one vertex.
func (p *Program) Vertex(u *Uniforms, in shape.Vertex) VertexOutput {
	eye := math32.Vector4FromVector3(in.Position, 1).MulMatrix4(&u.ModelView)
	out := VertexOutput{
		Clip:     eye.MulMatrix4(&u.Projection),
		Position: eye.Vector3(),
		Normal:   in.Normal.MulMatrix4AsVector4(&u.Normal, 0),
	}
	if p.Textured || p.TexCoords {
		out.TexCoord = in.TexCoord
	}
	return out
}

// Attenuation returns the inverse square falloff of the
// light at the given distance from it.
func Attenuation(distance float32) float32 {
	return 1 / (distance * distance)
}

// Fragment evaluates the fragment stage, returning the RGB color.
// If the program is textured, sample returns the texture color at a
// texture coordinate; otherwise it is not used and may be nil.
func (p *Program) Fragment(in VertexOutput, sample func(uv math32.Vector2) math32.Vector3) math32.Vector3 {
	base := p.Material.Diffuse
	if p.Textured && sample != nil {
		base = sample(in.TexCoord)
	}
	if !p.Lit() {
		return base
	}
	n := in.Normal.Normal()
	toLight := p.Light.Position.Sub(in.Position)
	l := toLight.Normal()
	att := 1 / toLight.LengthSquared()
	var color, direct math32.Vector3
	if p.Terms.Has(Ambient) {
		color = color.Add(p.Material.Ambient)
	}
	if p.Terms.Has(Diffuse) {
		direct = direct.Add(base.MulScalar(math32.Max(n.Dot(l), 0)))
	}
	if p.Terms.Has(Specular) {
		v := in.Position.Negate().Normal()
		h := l.Add(v).Normal()
		direct = direct.Add(p.Material.Specular.MulScalar(math32.Pow(math32.Max(h.Dot(n), 0), p.Material.Shininess)))
	}
	return color.Add(direct.MulScalar(att * p.Light.Power).Mul(p.Light.Color))
}
