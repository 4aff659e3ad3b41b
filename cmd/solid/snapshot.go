// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/solid/base/errors"
	"cogentcore.org/solid/base/iox/imagex"
	"cogentcore.org/solid/gpu"
	"cogentcore.org/solid/render"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(opts *options) *cobra.Command {
	var out, size string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame offscreen and save it as an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sz, err := parseSize(size)
			if err != nil {
				return err
			}
			cfg, err := opts.load()
			if err != nil {
				return errors.Log(err)
			}
			return errors.Log(snapshot(cfg, sz, out))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "solid.png", "output image file; the extension selects the format")
	cmd.Flags().StringVar(&size, "size", "1024x768", "image size as WxH")
	return cmd
}

// parseSize parses a WxH size with positive width and height.
func parseSize(s string) (image.Point, error) {
	var sz image.Point
	if _, err := fmt.Sscanf(s, "%dx%d", &sz.X, &sz.Y); err != nil {
		return sz, fmt.Errorf("solid: size %q is not WxH: %w", s, gpu.ErrConfiguration)
	}
	if sz.X <= 0 || sz.Y <= 0 {
		return sz, fmt.Errorf("solid: size %q has zero area: %w", s, gpu.ErrConfiguration)
	}
	return sz, nil
}

// snapshot renders one frame of cfg offscreen at the given size
// and saves it to the given file.
func snapshot(cfg *render.Config, size image.Point, filename string) error {
	gp, err := gpu.NoDisplayGPU()
	if err != nil {
		return err
	}
	defer gp.Release()
	target, err := render.NewTextureTarget(gp, size, gpu.DefaultTargetFormats())
	if err != nil {
		return err
	}
	defer target.Release()
	rd, err := render.New(gp, cfg, target.Formats(), size)
	if err != nil {
		return err
	}
	defer rd.Release()
	if err := rd.OnFrame(target, render.PassConfig{Clear: cfg.Clear()}); err != nil {
		return err
	}
	img, err := target.ReadImage()
	if err != nil {
		return err
	}
	if err := imagex.Save(img, filename); err != nil {
		return err
	}
	slog.Info("solid: saved snapshot", "file", filename, "size", size)
	return nil
}
