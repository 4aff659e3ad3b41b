// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phong provides the shading program for a single lit solid:
// Phong lighting from one point light with ambient, diffuse and
// specular terms, optionally using a texture for the diffuse color.
// The program is rendered as WGSL, and also evaluated in Go by
// [Program.Vertex] and [Program.Fragment] with the same math.
package phong

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"cogentcore.org/solid/gpu/shape"
	"cogentcore.org/solid/math32"
)

//go:embed phong.wgsl
var phongSource string

var phongTemplate = template.Must(template.New("phong").Funcs(template.FuncMap{
	"f32":  formatF32,
	"vec3": formatVec3,
}).Parse(phongSource))

// Entry points of the rendered program.
const (
	VertexEntry   = "vertexMain"
	FragmentEntry = "fragmentMain"
)

// Terms are the lighting terms to evaluate, as bit flags.
type Terms int32

const (
	Ambient Terms = 1 << iota
	Diffuse
	Specular

	// AllTerms is full Phong lighting.
	AllTerms = Ambient | Diffuse | Specular
)

// Has returns whether all of the given terms are set.
func (t Terms) Has(terms Terms) bool {
	return t&terms == terms
}

// String returns the term names joined with "|", or "flat" for none.
func (t Terms) String() string {
	if t == 0 {
		return "flat"
	}
	var s []string
	for i, n := range []string{"ambient", "diffuse", "specular"} {
		if t.Has(1 << i) {
			s = append(s, n)
		}
	}
	return strings.Join(s, "|")
}

// ParseTerms parses names separated by "|", "," or spaces:
// ambient, diffuse, specular, all, or flat (for none).
func ParseTerms(s string) (Terms, error) {
	var t Terms
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' || r == ' ' }) {
		switch strings.ToLower(f) {
		case "ambient":
			t |= Ambient
		case "diffuse":
			t |= Diffuse
		case "specular":
			t |= Specular
		case "all", "phong":
			t |= AllTerms
		case "flat", "none":
		default:
			return 0, fmt.Errorf("phong: unknown lighting term %q", f)
		}
	}
	return t, nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Terms) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Terms) UnmarshalText(text []byte) error {
	nt, err := ParseTerms(string(text))
	if err != nil {
		return err
	}
	*t = nt
	return nil
}

// Light is the single point light, positioned in view space.
type Light struct {
	Position math32.Vector3
	Color    math32.Vector3
	Power    float32
}

// Material is the single surface material.
type Material struct {
	// Ambient is added regardless of the light.
	Ambient math32.Vector3

	// Diffuse is the surface color when not textured.
	Diffuse math32.Vector3

	Specular  math32.Vector3
	Shininess float32
}

// Program is one variant of the shading program.
type Program struct {
	// Terms are the lighting terms; none gives flat, unlit color.
	Terms Terms

	// Textured samples the diffuse color from the texture
	// instead of using the material diffuse color.
	Textured bool

	// TexCoords is whether the vertex input has texture coordinates.
	// It is implied by Textured.
	TexCoords bool

	Light    Light
	Material Material
}

// Lit returns whether any lighting term is evaluated.
func (p *Program) Lit() bool {
	return p.Terms != 0
}

// Inputs returns the vertex semantics the program reads.
func (p *Program) Inputs() []shape.Semantic {
	in := []shape.Semantic{shape.Position, shape.Normal}
	if p.Textured || p.TexCoords {
		in = append(in, shape.TexCoord)
	}
	return in
}

// Name returns a short label for the variant.
func (p *Program) Name() string {
	if p.Textured {
		return "phong " + p.Terms.String() + " textured"
	}
	return "phong " + p.Terms.String()
}

// Source renders the WGSL source of the program,
// with entry points [VertexEntry] and [FragmentEntry].
func (p *Program) Source() (string, error) {
	data := struct {
		*Program
		TexCoords                  bool
		Ambient, Diffuse, Specular bool
	}{
		Program:   p,
		TexCoords: p.Textured || p.TexCoords,
		Ambient:   p.Terms.Has(Ambient),
		Diffuse:   p.Terms.Has(Diffuse),
		Specular:  p.Terms.Has(Specular),
	}
	var b bytes.Buffer
	if err := phongTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("phong: render %s: %w", p.Name(), err)
	}
	return b.String(), nil
}

// formatF32 formats v as a WGSL f32 literal.
func formatF32(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func formatVec3(v math32.Vector3) string {
	return formatF32(v.X) + ", " + formatF32(v.Y) + ", " + formatF32(v.Z)
}
