// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"cogentcore.org/solid/base/errors"
	"cogentcore.org/solid/gpu/shape"
)

var (
	// ErrConfiguration is returned (wrapped) for invalid parameters
	// detected before any GPU resource is created: bad geometry,
	// camera or pipeline descriptions. It is the same value as
	// [shape.ErrConfiguration].
	ErrConfiguration = shape.ErrConfiguration

	// ErrResourceCreation is returned (wrapped) when the device
	// fails to create a buffer, texture, sampler, shader or pipeline.
	ErrResourceCreation = errors.New("resource creation error")

	// ErrAssetLoad is returned (wrapped) when a bundled asset
	// is missing or cannot be decoded.
	ErrAssetLoad = errors.New("asset load error")
)
