// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"
)

// Origins specify which corner row 0 of an image source refers to.
type Origins int32

const (
	// TopLeft means row 0 is the top of the image, as in all
	// standard Go decoders. This is the texture V=0 convention.
	TopLeft Origins = iota

	// BottomLeft means row 0 is the bottom of the image, as
	// produced by OpenGL-style readbacks and some asset tools.
	BottomLeft
)

func (o Origins) String() string {
	if o == BottomLeft {
		return "bottom-left"
	}
	return "top-left"
}

// ParseOrigin returns the Origins for the given name,
// which is either "top-left" (the default for "") or "bottom-left".
func ParseOrigin(s string) (Origins, bool) {
	switch s {
	case "", "top-left":
		return TopLeft, true
	case "bottom-left":
		return BottomLeft, true
	}
	return TopLeft, false
}

// NormalizeOrigin returns the image with row 0 at the top:
// images with a [BottomLeft] origin are flipped vertically.
func NormalizeOrigin(src image.Image, origin Origins) image.Image {
	if origin != BottomLeft || src == nil {
		return src
	}
	return transform.FlipV(src)
}

// CloneAsRGBA returns an RGBA copy of the supplied image,
// with bounds starting at 0,0.
func CloneAsRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	img := image.NewRGBA(image.Rectangle{Max: bounds.Size()})
	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Src)
	return img
}

// AsRGBA returns the image as an RGBA: if it already is one with
// bounds starting at 0,0 and a tight stride, then it returns that
// image directly. Otherwise it returns a clone.
func AsRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	return CloneAsRGBA(src)
}
