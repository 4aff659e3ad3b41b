// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phong

import (
	"fmt"

	"cogentcore.org/solid/gpu/shape"
	"cogentcore.org/solid/math32"
)

// AxisAngle is a rotation about an axis, in degrees.
type AxisAngle struct {
	Axis    math32.Vector3
	Degrees float32
}

// Matrix returns the rotation matrix.
func (aa AxisAngle) Matrix() math32.Matrix4 {
	return math32.Rotation4(aa.Axis, math32.DegToRad(aa.Degrees))
}

// Camera holds the fixed object placement relative to the viewer at
// the origin, and the perspective projection. It caches the derived
// matrices: the projection is recomputed only when the aspect ratio
// changes, and the model-view and normal matrices only when the
// rotations change.
type Camera struct {
	// Translation places the object in view space, after rotation.
	Translation math32.Vector3

	// Rotations are applied to the object in list order.
	Rotations []AxisAngle

	// FOV is the vertical field of view in degrees, in (0, 180).
	FOV float32

	// Near and Far are the clip plane distances, 0 < Near < Far.
	Near float32
	Far  float32

	// Aspect is the viewport width / height.
	Aspect float32

	// Spin is the number of degrees added to the last rotation by each [Camera.Step].
	Spin float32

	modelView  math32.Matrix4
	normal     math32.Matrix4
	projection math32.Matrix4
	viewValid  bool
	projValid  bool
}

// Defaults sets the default camera: the object 4 units in front of
// the viewer, turned 20 degrees about X and then 30 about Y, viewed
// with a 65 degree field of view.
func (c *Camera) Defaults() {
	c.Translation = math32.Vec3(0, 0, -4)
	c.Rotations = []AxisAngle{
		{Axis: math32.Vec3(1, 0, 0), Degrees: 20},
		{Axis: math32.Vec3(0, 1, 0), Degrees: 30},
	}
	c.FOV = 65
	c.Near = 0.1
	c.Far = 100
	c.Aspect = 1
	c.Invalidate()
}

// Validate returns an error wrapping [shape.ErrConfiguration]
// for an invalid field of view, clip planes or aspect ratio.
func (c *Camera) Validate() error {
	if !(c.FOV > 0 && c.FOV < 180) {
		return fmt.Errorf("phong.Camera: field of view %g not in (0, 180): %w", c.FOV, shape.ErrConfiguration)
	}
	if !(c.Near > 0) || !(c.Far > c.Near) {
		return fmt.Errorf("phong.Camera: clip planes near %g far %g need 0 < near < far: %w", c.Near, c.Far, shape.ErrConfiguration)
	}
	if !(c.Aspect > 0) {
		return fmt.Errorf("phong.Camera: aspect %g must be positive: %w", c.Aspect, shape.ErrConfiguration)
	}
	return nil
}

// Invalidate marks all cached matrices for recomputation,
// after the exported fields have been set directly.
func (c *Camera) Invalidate() {
	c.viewValid = false
	c.projValid = false
}

// SetAspect sets the aspect ratio from a viewport size, recomputing
// the projection. It returns false, leaving the camera unchanged,
// if the size has zero area.
func (c *Camera) SetAspect(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.Aspect = float32(width) / float32(height)
	c.projValid = false
	return true
}

// SetRotations sets the rotations, recomputing the model-view
// and normal matrices.
func (c *Camera) SetRotations(rots ...AxisAngle) {
	c.Rotations = rots
	c.viewValid = false
}

// Step advances the last rotation by Spin degrees, if Spin is set.
func (c *Camera) Step() {
	if c.Spin == 0 || len(c.Rotations) == 0 {
		return
	}
	last := &c.Rotations[len(c.Rotations)-1]
	last.Degrees = math32.Mod(last.Degrees+c.Spin, 360)
	c.viewValid = false
}

func (c *Camera) updateView() {
	if c.viewValid {
		return
	}
	m := math32.Identity4()
	for _, r := range c.Rotations {
		rm := r.Matrix()
		m = rm.Mul(&m)
	}
	tr := math32.Translation4(c.Translation)
	c.modelView = tr.Mul(&m)
	c.normal = math32.NormalMatrix(&c.modelView)
	c.viewValid = true
}

func (c *Camera) updateProjection() {
	if c.projValid {
		return
	}
	c.projection = math32.PerspectiveRH(c.FOV, c.Aspect, c.Near, c.Far)
	c.projValid = true
}

// ModelView returns Translation * R_n * ... * R_1,
// where R_1 is the first rotation, applied first.
func (c *Camera) ModelView() math32.Matrix4 {
	c.updateView()
	return c.modelView
}

// NormalMatrix returns the inverse transpose of the
// model-view's upper-left 3x3, padded into a 4x4.
func (c *Camera) NormalMatrix() math32.Matrix4 {
	c.updateView()
	return c.normal
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() math32.Matrix4 {
	c.updateProjection()
	return c.projection
}

// Uniforms returns the uniform block for the current state.
func (c *Camera) Uniforms() Uniforms {
	return Uniforms{ModelView: c.ModelView(), Projection: c.Projection(), Normal: c.NormalMatrix()}
}
