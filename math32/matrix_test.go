// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"cogentcore.org/solid/base/tolassert"
	"github.com/stretchr/testify/assert"
)

func assertMatrix4(t *testing.T, want, got Matrix4) {
	t.Helper()
	tolassert.EqualTolSlice(t, want[:], got[:], 1.0e-5)
}

func TestMatrix4Mul(t *testing.T) {
	id := Identity4()
	tr := Translation4(Vec3(1, 2, 3))
	assertMatrix4(t, tr, id.Mul(&tr))
	assertMatrix4(t, tr, tr.Mul(&id))

	rot := Rotation4(Vec3(0, 1, 0), Pi/2)
	// rotate first, then translate
	m := tr.Mul(&rot)
	p := Vec3(1, 0, 0).MulMatrix4(&m)
	tolassert.EqualTol(t, 1, p.X, 1.0e-5)
	tolassert.EqualTol(t, 2, p.Y, 1.0e-5)
	tolassert.EqualTol(t, 2, p.Z, 1.0e-5)
}

func TestRotation4(t *testing.T) {
	rx := Rotation4(Vec3(1, 0, 0), Pi/2)
	v := Vec3(0, 1, 0).MulMatrix4AsVector4(&rx, 0)
	tolassert.EqualTolSlice(t, []float32{0, 0, 1}, []float32{v.X, v.Y, v.Z}, 1.0e-5)

	rz := Rotation4(Vec3(0, 0, 2), Pi/2)
	v = Vec3(1, 0, 0).MulMatrix4AsVector4(&rz, 0)
	tolassert.EqualTolSlice(t, []float32{0, 1, 0}, []float32{v.X, v.Y, v.Z}, 1.0e-5)

	assert.Equal(t, Identity4(), Rotation4(Vector3{}, 1))
}

func TestMatrix4Inverse(t *testing.T) {
	rot := Rotation4(Vec3(1, 1, 0), 0.7)
	tr := Translation4(Vec3(0.5, -2, 4))
	m := tr.Mul(&rot)
	inv, ok := m.Inverse()
	assert.True(t, ok)
	assertMatrix4(t, Identity4(), m.Mul(&inv))
	tolassert.EqualTol(t, 1, m.Determinant(), 1.0e-5)

	_, ok = (&Matrix4{}).Inverse()
	assert.False(t, ok)

	tt := m.Transpose()
	assert.Equal(t, m.At(3, 1), tt.At(1, 3))
}

func TestMatrix3(t *testing.T) {
	m := Matrix3{2, 0, 0, 0, 4, 0, 1, 0, 1}
	inv, ok := m.Inverse()
	assert.True(t, ok)
	prod := m.Mul(&inv)
	id := Identity3()
	tolassert.EqualTolSlice(t, id[:], prod[:], 1.0e-6)
	tolassert.EqualTol(t, 8, m.Determinant(), 1.0e-6)

	v := m.MulVector3(Vec3(1, 1, 1))
	assert.Equal(t, Vec3(3, 4, 1), v)

	_, ok = (&Matrix3{}).Inverse()
	assert.False(t, ok)

	m4 := m.Matrix4()
	assert.Equal(t, float32(1), m4[15])
	assert.Equal(t, float32(0), m4[3])
	assert.Equal(t, m, Matrix3FromMatrix4(&m4))
}

func TestPerspectiveRH(t *testing.T) {
	near, far := float32(0.1), float32(100)
	p := PerspectiveRH(65, 16.0/9.0, near, far)
	ys := 1 / Tan(DegToRad(65)/2)
	tolassert.EqualTol(t, 1.5696855, ys, 1.0e-5)
	tolassert.EqualTol(t, ys, p.At(1, 1), 1.0e-6)
	tolassert.EqualTol(t, ys*9/16, p.At(0, 0), 1.0e-6)
	tolassert.EqualTol(t, far/(near-far), p.At(2, 2), 1.0e-6)
	assert.Equal(t, float32(-1), p.At(2, 3))
	tolassert.EqualTol(t, near*far/(near-far), p.At(3, 2), 1.0e-6)

	// clip w is the negated view-space depth
	for _, z := range []float32{-0.1, -1, -4, -50} {
		c := Vec4(0.3, -0.2, z, 1).MulMatrix4(&p)
		tolassert.EqualTol(t, -z, c.W, 1.0e-6)
	}
	// near maps to depth 0, far to depth 1
	tolassert.EqualTol(t, 0, Vec4(0, 0, -near, 1).MulMatrix4(&p).PerspDiv().Z, 1.0e-5)
	tolassert.EqualTol(t, 1, Vec4(0, 0, -far, 1).MulMatrix4(&p).PerspDiv().Z, 1.0e-4)
}

func TestNormalMatrix(t *testing.T) {
	// non-uniform scale so that the inverse transpose matters
	sc := Identity4()
	sc[0] = 2
	sc[5] = 0.5
	rot := Rotation4(Vec3(0, 1, 1), 0.4)
	mv := rot.Mul(&sc)
	nm := NormalMatrix(&mv)

	n := Vec3(1, 1, 0).Normal()
	tangent := Vec3(1, -1, 0)
	tn := n.MulMatrix4AsVector4(&nm, 0)
	tt := tangent.MulMatrix4AsVector4(&mv, 0)
	tolassert.EqualTol(t, 0, tn.Dot(tt), 1.0e-5)

	rn := NormalMatrix(&rot)
	r3 := Matrix3FromMatrix4(&rot)
	rn3 := Matrix3FromMatrix4(&rn)
	tolassert.EqualTolSlice(t, r3[:], rn3[:], 1.0e-5)

	assert.Equal(t, Identity4(), NormalMatrix(&Matrix4{}))
}

func TestVector3(t *testing.T) {
	a := Vec3(1, 0, 0)
	b := Vec3(0, 1, 0)
	assert.Equal(t, Vec3(0, 0, 1), a.Cross(b))
	assert.Equal(t, float32(0), a.Dot(b))
	tolassert.Equal(t, 5, Vec3(3, 4, 0).Length())
	assert.Equal(t, Vector3{}, a.DivScalar(0))
	bb := B3Empty()
	assert.True(t, bb.IsEmpty())
	bb.ExpandByPoint(Vec3(-1, 2, 0))
	bb.ExpandByPoint(Vec3(1, -2, 3))
	assert.Equal(t, Vec3(2, 4, 3), bb.Size())
	assert.Equal(t, Vec3(0, 0, 1.5), bb.Center())
}
