// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Shader manages a single compiled WGSL shader module,
// which can hold multiple entry points.
type Shader struct {
	// Name is the label of the shader module.
	Name string

	// Source is the WGSL code the module was compiled from.
	Source string

	module *wgpu.ShaderModule
}

// NewShader compiles the given WGSL source into a new Shader.
func (gp *GPU) NewShader(name, source string) (*Shader, error) {
	module, err := gp.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, resourceError("shader "+name, err)
	}
	return &Shader{Name: name, Source: source, module: module}, nil
}

// Release releases the shader module.
func (sh *Shader) Release() {
	if sh == nil || sh.module == nil {
		return
	}
	sh.module.Release()
	sh.module = nil
}
