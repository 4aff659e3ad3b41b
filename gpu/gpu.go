// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu provides the WebGPU resources used to draw one lit mesh:
// device setup, vertex layouts, shaders, render pipelines with baked
// depth state, mesh and uniform buffers, textures and samplers, and
// surface and offscreen render targets.
//
// All resources are immutable after creation except the uniform buffer,
// and each is freed by its Release method, which is safe to call on a
// zero value and more than once.
package gpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/solid/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Debug is whether to enable debug mode, getting more diagnostic output.
var Debug = false

// theInstance is the initialized WebGPU instance, initialized
// for the first call to Instance.
var theInstance *wgpu.Instance

// Instance returns the highest-level GPU handle: the Instance.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

// GPU represents the GPU hardware adapter and the logical device
// and queue used to create and submit all resources.
type GPU struct {
	// Adapter is the WebGPU adapter that was selected.
	Adapter *wgpu.Adapter

	// Device is the logical device used for all resource creation.
	Device *wgpu.Device

	// Queue is the device queue used for writes and submission.
	Queue *wgpu.Queue

	// bindLayouts are the standard layouts for each [Groups] value,
	// created on first use.
	bindLayouts [numGroups]*wgpu.BindGroupLayout
}

// NewGPU returns a new GPU compatible with the given surface,
// which may be nil for offscreen use.
func NewGPU(surface *wgpu.Surface) (*GPU, error) {
	gp := &GPU{}
	adapter, err := Instance().RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request adapter: %w: %w", ErrResourceCreation, err)
	}
	gp.Adapter = adapter
	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "solid device"})
	if err != nil {
		adapter.Release()
		return nil, fmt.Errorf("gpu: request device: %w: %w", ErrResourceCreation, err)
	}
	gp.Device = dev
	gp.Queue = dev.GetQueue()
	if Debug {
		slog.Info("gpu: device ready", "offscreen", surface == nil)
	}
	return gp, nil
}

// NoDisplayGPU returns a new GPU for offscreen rendering,
// without any window surface.
func NoDisplayGPU() (*GPU, error) {
	return NewGPU(nil)
}

// WaitDone blocks until all submitted work is complete.
func (gp *GPU) WaitDone() {
	if gp.Device == nil {
		return
	}
	gp.Device.Poll(true, nil)
}

// Release releases the device and adapter.
func (gp *GPU) Release() {
	for i, bl := range gp.bindLayouts {
		if bl != nil {
			bl.Release()
			gp.bindLayouts[i] = nil
		}
	}
	if gp.Queue != nil {
		gp.Queue.Release()
		gp.Queue = nil
	}
	if gp.Device != nil {
		gp.Device.Release()
		gp.Device = nil
	}
	if gp.Adapter != nil {
		gp.Adapter.Release()
		gp.Adapter = nil
	}
}

// resourceError returns err wrapped as an [ErrResourceCreation]
// for the given resource, logging it in Debug mode.
func resourceError(what string, err error) error {
	err = fmt.Errorf("gpu: create %s: %w: %w", what, ErrResourceCreation, err)
	if Debug {
		errors.Log(err)
	}
	return err
}
