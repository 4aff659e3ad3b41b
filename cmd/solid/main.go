// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command solid draws a lit, textured solid in a window,
// or renders a single frame of it to an image file.
package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"runtime"
	"time"

	"cogentcore.org/solid/base/errors"
	"cogentcore.org/solid/base/logx"
	"cogentcore.org/solid/gpu"
	"cogentcore.org/solid/render"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/spf13/cobra"
)

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

// options are the command line flags shared by all commands.
type options struct {
	config   string
	geometry string
	textured bool

	// texturedSet is whether --textured was given explicitly.
	texturedSet bool

	logLevel string
	debug    bool

	// watch reloads the config file when it changes.
	watch bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "solid",
		Short:         "Draw a lit, textured, rotating solid with WebGPU",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lv, err := logx.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			logx.SetDefault(lv)
			gpu.Debug = opts.debug
			opts.texturedSet = cmd.Flags().Changed("textured")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return errors.Log(err)
			}
			return runWindow(opts, cfg)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.config, "config", "c", "", "config file (.toml or .yaml)")
	pf.StringVarP(&opts.geometry, "geometry", "g", "", "solid to draw: sphere or box")
	pf.BoolVarP(&opts.textured, "textured", "t", true, "sample the diffuse color from the texture")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.BoolVar(&opts.debug, "gpu-debug", false, "log gpu resource creation")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild the renderer when the config file changes")
	cmd.AddCommand(newSnapshotCmd(opts))
	return cmd
}

// load returns the config from the defaults and the config file,
// overridden by any flags given on the command line.
func (o *options) load() (*render.Config, error) {
	cfg := &render.Config{}
	if o.config != "" {
		if err := cfg.Open(o.config); err != nil {
			return nil, err
		}
	} else {
		cfg.Defaults()
	}
	if o.geometry != "" {
		if err := cfg.Geometry.SetString(o.geometry); err != nil {
			return nil, err
		}
		if cfg.Geometry == render.Box && !o.texturedSet {
			cfg.Textured = false
		}
	}
	if o.texturedSet {
		cfg.Textured = o.textured
	}
	return cfg, cfg.Validate()
}

// runWindow opens a window and draws into it at 60 frames per second
// until the window is closed.
func runWindow(opts *options, cfg *render.Config) error {
	var resize func(size image.Point)
	size := image.Point{1024, 768}
	ws, terminate, pollEvents, size, err := gpu.GLFWCreateWindow(size, "Solid", &resize)
	if err != nil {
		return err
	}
	gp, err := gpu.NewGPU(ws)
	if err != nil {
		terminate()
		return errors.Log(err)
	}
	sf, err := gpu.NewSurface(gp, ws, size, wgpu.TextureFormatDepth32Float)
	if err != nil {
		gp.Release()
		terminate()
		return errors.Log(err)
	}
	target := render.NewSurfaceTarget(gp, sf)
	rd, err := render.New(gp, cfg, target.Formats(), size)
	if err != nil {
		target.Release()
		gp.Release()
		terminate()
		return errors.Log(err)
	}
	slog.Info("solid: rendering", "geometry", cfg.Geometry, "terms", cfg.Terms, "textured", cfg.Textured, "format", target.Formats())

	resize = func(size image.Point) {
		if errors.Log(target.SetSize(size)) == nil {
			rd.OnResize(size.X, size.Y)
		}
	}
	destroy := func() {
		rd.Release()
		target.Release()
		gp.Release()
		terminate()
	}

	var changed <-chan struct{}
	if opts.watch && opts.config != "" {
		cw, err := watchConfig(opts.config)
		if errors.Log(err) == nil {
			defer cw.Close()
			changed = cw.Changed
		}
	}

	frameCount := 0
	stTime := time.Now()
	renderFrame := func() {
		err := rd.OnFrame(target, render.PassConfig{})
		if err != nil && !errors.Is(err, render.ErrFrameSkipped) {
			errors.Log(err)
		}
		frameCount++
		eTime := time.Now()
		dur := float64(eTime.Sub(stTime)) / float64(time.Second)
		if dur > 10 {
			slog.Debug("solid: frame rate", "fps", fmt.Sprintf("%.0f", float64(frameCount)/dur))
			frameCount = 0
			stTime = eTime
		}
	}

	fpsTicker := time.NewTicker(time.Second / 60)
	defer fpsTicker.Stop()
	for {
		select {
		case <-changed:
			rd = reload(gp, target, rd, opts)
		case <-fpsTicker.C:
			if !pollEvents() {
				destroy()
				return nil
			}
			renderFrame()
		}
	}
}

// reload builds a new renderer from the changed config file, replacing
// the current one. If the new config fails, the current one is kept.
func reload(gp *gpu.GPU, target *render.SurfaceTarget, rd *render.Renderer, opts *options) *render.Renderer {
	cfg, err := opts.load()
	if errors.Log(err) != nil {
		return rd
	}
	size := rd.Size
	nr, err := render.New(gp, cfg, target.Formats(), size)
	if errors.Log(err) != nil {
		return rd
	}
	rd.Release()
	slog.Info("solid: reloaded config", "file", opts.config)
	return nr
}
