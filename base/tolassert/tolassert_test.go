// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tolassert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct{ failed bool }

func (r *recorder) Errorf(format string, args ...any) { r.failed = true }

func TestEqual(t *testing.T) {
	assert.True(t, Equal(t, float32(1), 1.0004))
	assert.True(t, EqualTol(t, 0.6997, 0.69972, 1e-4))
	assert.True(t, EqualTolSlice(t, []float32{1, 2, 3}, []float32{1, 2.000001, 3}, 1e-5))

	rt := &recorder{}
	assert.False(t, EqualTol(rt, 1.0, 1.1, 0.01))
	assert.True(t, rt.failed)

	rt = &recorder{}
	assert.False(t, EqualTolSlice(rt, []float64{1, 2}, []float64{1}, 0.01))
	assert.True(t, rt.failed)
}
