// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix3 is 3x3 matrix organized internally as column matrix.
type Matrix3 [9]float32

// Identity3 returns a new identity [Matrix3] matrix.
func Identity3() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Matrix3FromMatrix4 returns the upper-left 3x3 of the given 4x4 matrix.
func Matrix3FromMatrix4(m *Matrix4) Matrix3 {
	return Matrix3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// At returns the element at the given column and row.
func (m *Matrix3) At(col, row int) float32 {
	return m[col*3+row]
}

// Mul returns the matrix product m * other.
func (m *Matrix3) Mul(other *Matrix3) Matrix3 {
	var r Matrix3
	for c := 0; c < 3; c++ {
		for rw := 0; rw < 3; rw++ {
			r[c*3+rw] = m[rw]*other[c*3] + m[3+rw]*other[c*3+1] + m[6+rw]*other[c*3+2]
		}
	}
	return r
}

// MulVector3 returns the given vector multiplied by this matrix.
func (m *Matrix3) MulVector3(v Vector3) Vector3 {
	return v.MulMatrix3(m)
}

// Determinant calculates and returns the determinant of this matrix.
func (m *Matrix3) Determinant() float32 {
	return m[0]*m[4]*m[8] -
		m[0]*m[5]*m[7] -
		m[1]*m[3]*m[8] +
		m[1]*m[5]*m[6] +
		m[2]*m[3]*m[7] -
		m[2]*m[4]*m[6]
}

// Inverse returns the inverse of this matrix.
// If the matrix cannot be inverted, it returns the zero matrix and false.
func (m *Matrix3) Inverse() (Matrix3, bool) {
	det := m.Determinant()
	if det == 0 {
		return Matrix3{}, false
	}
	var r Matrix3
	r[0] = m[4]*m[8] - m[5]*m[7]
	r[1] = m[2]*m[7] - m[1]*m[8]
	r[2] = m[1]*m[5] - m[2]*m[4]
	r[3] = m[5]*m[6] - m[3]*m[8]
	r[4] = m[0]*m[8] - m[2]*m[6]
	r[5] = m[2]*m[3] - m[0]*m[5]
	r[6] = m[3]*m[7] - m[4]*m[6]
	r[7] = m[1]*m[6] - m[0]*m[7]
	r[8] = m[0]*m[4] - m[1]*m[3]
	inv := 1 / det
	for i := range r {
		r[i] *= inv
	}
	return r, true
}

// Transpose returns the transpose of this matrix.
func (m *Matrix3) Transpose() Matrix3 {
	return Matrix3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Matrix4 returns this matrix padded into the upper-left of a 4x4
// matrix, with 1 in the last diagonal element. Each column of the
// result has a 16-byte stride, as required for a mat3x3 in a uniform block.
func (m *Matrix3) Matrix4() Matrix4 {
	return Matrix4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		0, 0, 0, 1,
	}
}
