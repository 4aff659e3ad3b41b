// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assets contains the images bundled into the app.
package assets

import "embed"

// FS holds the bundled images, by file name.
//
//go:embed *.png
var FS embed.FS
