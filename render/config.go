// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"cogentcore.org/solid/base/fsx"
	"cogentcore.org/solid/base/iox/imagex"
	"cogentcore.org/solid/base/iox/tomlx"
	"cogentcore.org/solid/base/iox/yamlx"
	"cogentcore.org/solid/gpu"
	"cogentcore.org/solid/gpu/phong"
	"cogentcore.org/solid/gpu/shape"
	"cogentcore.org/solid/math32"
)

// Geometries are the kinds of solid that can be drawn.
type Geometries int32

const (
	// Sphere is a procedural UV sphere, with texture coordinates.
	Sphere Geometries = iota

	// Box is a fixed cube, without texture coordinates.
	Box
)

func (g Geometries) String() string {
	switch g {
	case Sphere:
		return "sphere"
	case Box:
		return "box"
	}
	return fmt.Sprintf("Geometries(%d)", int32(g))
}

// SetString sets the geometry from its name.
func (g *Geometries) SetString(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sphere":
		*g = Sphere
	case "box", "cube":
		*g = Box
	default:
		return fmt.Errorf("render: unknown geometry %q: %w", s, gpu.ErrConfiguration)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (g Geometries) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Geometries) UnmarshalText(text []byte) error { return g.SetString(string(text)) }

// SphereConfig has the sphere parameters.
type SphereConfig struct {
	Radius float32 `toml:"radius" yaml:"radius"`

	// Longitude and Latitude are the segment counts, at least 3.
	Longitude int `toml:"longitude" yaml:"longitude"`
	Latitude  int `toml:"latitude" yaml:"latitude"`
}

// BoxConfig has the box parameters.
type BoxConfig struct {
	// Size is the edge length.
	Size float32 `toml:"size" yaml:"size"`
}

// TextureConfig names the texture image.
type TextureConfig struct {
	// Name is the file name without extension.
	Name string `toml:"name" yaml:"name"`

	// Ext is the file extension, with or without the leading dot.
	Ext string `toml:"ext" yaml:"ext"`

	// Origin is where image row 0 is: top-left or bottom-left.
	Origin string `toml:"origin" yaml:"origin"`

	// Dir is a directory to load the image from, which may start with ~.
	// If empty, the bundled assets are used.
	Dir string `toml:"dir,omitempty" yaml:"dir,omitempty"`
}

// Filename returns the name plus extension.
func (tc *TextureConfig) Filename() string {
	if tc.Ext == "" {
		return tc.Name
	}
	return tc.Name + "." + strings.TrimPrefix(tc.Ext, ".")
}

// RotationConfig is one rotation of the object, in degrees.
type RotationConfig struct {
	Axis    [3]float32 `toml:"axis" yaml:"axis"`
	Degrees float32    `toml:"degrees" yaml:"degrees"`
}

// CameraConfig places the object relative to the viewer.
type CameraConfig struct {
	Translation [3]float32 `toml:"translation" yaml:"translation"`

	// Rotations are applied to the object in order.
	Rotations []RotationConfig `toml:"rotations" yaml:"rotations"`

	// FOV is the vertical field of view in degrees.
	FOV  float32 `toml:"fov" yaml:"fov"`
	Near float32 `toml:"near" yaml:"near"`
	Far  float32 `toml:"far" yaml:"far"`

	// Spin is degrees per frame added to the last rotation; 0 is static.
	Spin float32 `toml:"spin" yaml:"spin"`
}

// LightConfig is the point light, in view space.
type LightConfig struct {
	Position [3]float32 `toml:"position" yaml:"position"`
	Color    [3]float32 `toml:"color" yaml:"color"`
	Power    float32    `toml:"power" yaml:"power"`
}

// MaterialConfig is the surface material.
type MaterialConfig struct {
	Ambient   [3]float32 `toml:"ambient" yaml:"ambient"`
	Diffuse   [3]float32 `toml:"diffuse" yaml:"diffuse"`
	Specular  [3]float32 `toml:"specular" yaml:"specular"`
	Shininess float32    `toml:"shininess" yaml:"shininess"`
}

// Config is the full configuration of a [Renderer]: which solid to
// draw, how to light and texture it, and where the viewer is.
// Geometry, lighting terms and vertex layout are independent choices,
// except that a textured solid needs texture coordinates.
type Config struct {
	// Geometry is the solid to draw.
	Geometry Geometries `toml:"geometry" yaml:"geometry"`

	Sphere SphereConfig `toml:"sphere" yaml:"sphere"`
	Box    BoxConfig    `toml:"box" yaml:"box"`

	// Textured is whether the diffuse color comes from the texture.
	Textured bool `toml:"textured" yaml:"textured"`

	Texture TextureConfig `toml:"texture" yaml:"texture"`

	// Terms are the lighting terms: ambient|diffuse|specular, or flat.
	Terms phong.Terms `toml:"terms" yaml:"terms"`

	Camera   CameraConfig   `toml:"camera" yaml:"camera"`
	Light    LightConfig    `toml:"light" yaml:"light"`
	Material MaterialConfig `toml:"material" yaml:"material"`

	// ClearColor is the RGBA background, in [0, 1].
	ClearColor [4]float32 `toml:"clear_color" yaml:"clear_color"`
}

// Defaults sets the default configuration: a textured, fully lit
// unit sphere seen from 4 units away.
func (c *Config) Defaults() {
	c.Geometry = Sphere
	c.Sphere = SphereConfig{Radius: 1, Longitude: 32, Latitude: 32}
	c.Box = BoxConfig{Size: 1.5}
	c.Textured = true
	c.Texture = TextureConfig{Name: "checker", Ext: "png", Origin: imagex.TopLeft.String()}
	c.Terms = phong.AllTerms
	c.Camera = CameraConfig{
		Translation: [3]float32{0, 0, -4},
		Rotations: []RotationConfig{
			{Axis: [3]float32{1, 0, 0}, Degrees: 20},
			{Axis: [3]float32{0, 1, 0}, Degrees: 30},
		},
		FOV:  65,
		Near: 0.1,
		Far:  100,
	}
	c.Light = LightConfig{Position: [3]float32{0, 5, 5}, Color: [3]float32{1, 1, 1}, Power: 50}
	c.Material = MaterialConfig{
		Ambient:   [3]float32{0.05, 0.05, 0.05},
		Diffuse:   [3]float32{0.8, 0.3, 0.2},
		Specular:  [3]float32{1, 1, 1},
		Shininess: 16,
	}
	c.ClearColor = [4]float32{0, 0, 0, 1}
}

// Mesh returns the geometry source for the configured solid.
func (c *Config) Mesh() shape.Mesh {
	if c.Geometry == Box {
		return shape.NewBox(c.Box.Size)
	}
	return shape.NewSphere(c.Sphere.Radius, c.Sphere.Longitude, c.Sphere.Latitude)
}

// Program returns the shading program variant for the configuration.
func (c *Config) Program() *phong.Program {
	return &phong.Program{
		Terms:     c.Terms,
		Textured:  c.Textured,
		TexCoords: c.Mesh().Format().Has(shape.TexCoord),
		Light: phong.Light{
			Position: vec3(c.Light.Position),
			Color:    vec3(c.Light.Color),
			Power:    c.Light.Power,
		},
		Material: phong.Material{
			Ambient:   vec3(c.Material.Ambient),
			Diffuse:   vec3(c.Material.Diffuse),
			Specular:  vec3(c.Material.Specular),
			Shininess: c.Material.Shininess,
		},
	}
}

// NewCamera returns the camera for the configuration, at aspect 1.
func (c *Config) NewCamera() phong.Camera {
	cam := phong.Camera{
		Translation: vec3(c.Camera.Translation),
		FOV:         c.Camera.FOV,
		Near:        c.Camera.Near,
		Far:         c.Camera.Far,
		Aspect:      1,
		Spin:        c.Camera.Spin,
	}
	rots := make([]phong.AxisAngle, len(c.Camera.Rotations))
	for i, r := range c.Camera.Rotations {
		rots[i] = phong.AxisAngle{Axis: vec3(r.Axis), Degrees: r.Degrees}
	}
	cam.SetRotations(rots...)
	return cam
}

// Origin returns the parsed texture origin, top-left if empty.
func (c *Config) Origin() (imagex.Origins, error) {
	if c.Texture.Origin == "" {
		return imagex.TopLeft, nil
	}
	o, ok := imagex.ParseOrigin(c.Texture.Origin)
	if !ok {
		return o, fmt.Errorf("render: unknown texture origin %q: %w", c.Texture.Origin, gpu.ErrConfiguration)
	}
	return o, nil
}

// Clear returns the clear color.
func (c *Config) Clear() color.Color {
	cv := func(v float32) uint16 {
		return uint16(math32.Clamp(v, 0, 1)*0xffff + 0.5)
	}
	return color.RGBA64{R: cv(c.ClearColor[0]), G: cv(c.ClearColor[1]), B: cv(c.ClearColor[2]), A: cv(c.ClearColor[3])}
}

// Validate returns an error wrapping [gpu.ErrConfiguration] for
// any invalid parameter, before any resource is created.
func (c *Config) Validate() error {
	switch c.Geometry {
	case Sphere:
		sp := shape.NewSphere(c.Sphere.Radius, c.Sphere.Longitude, c.Sphere.Latitude)
		if err := sp.Validate(); err != nil {
			return err
		}
	case Box:
		bx := shape.NewBox(c.Box.Size)
		if err := bx.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("render: unknown geometry %v: %w", c.Geometry, gpu.ErrConfiguration)
	}
	if c.Textured {
		if !c.Mesh().Format().Has(shape.TexCoord) {
			return fmt.Errorf("render: a textured %v needs texture coordinates: %w", c.Geometry, gpu.ErrConfiguration)
		}
		if c.Texture.Name == "" {
			return fmt.Errorf("render: textured without a texture name: %w", gpu.ErrConfiguration)
		}
		if _, err := c.Origin(); err != nil {
			return err
		}
	}
	cam := c.NewCamera()
	if err := cam.Validate(); err != nil {
		return err
	}
	if c.Light.Power < 0 {
		return fmt.Errorf("render: negative light power %g: %w", c.Light.Power, gpu.ErrConfiguration)
	}
	if c.Terms.Has(phong.Specular) && !(c.Material.Shininess > 0) {
		return fmt.Errorf("render: shininess %g must be positive: %w", c.Material.Shininess, gpu.ErrConfiguration)
	}
	return nil
}

// Open sets the defaults and then reads the config from the given
// file, as TOML or YAML according to its extension. A leading ~ in
// the file name is expanded to the home directory.
func (c *Config) Open(filename string) error {
	fn, err := fsx.Expand(filename)
	if err != nil {
		return err
	}
	c.Defaults()
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".toml":
		return tomlx.Open(c, fn)
	case ".yaml", ".yml":
		return yamlx.Open(c, fn)
	}
	return fmt.Errorf("render: config file %q must be .toml or .yaml: %w", filename, gpu.ErrConfiguration)
}

// Save writes the config to the given file, as TOML or
// YAML according to its extension.
func (c *Config) Save(filename string) error {
	fn, err := fsx.Expand(filename)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".toml":
		return tomlx.Save(c, fn)
	case ".yaml", ".yml":
		return yamlx.Save(c, fn)
	}
	return fmt.Errorf("render: config file %q must be .toml or .yaml: %w", filename, gpu.ErrConfiguration)
}

func vec3(v [3]float32) math32.Vector3 {
	return math32.Vec3(v[0], v[1], v[2])
}
