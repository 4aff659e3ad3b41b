// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/solid/base/errors"
	"cogentcore.org/solid/gpu/shape"
	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh is immutable mesh geometry in device buffers.
type Mesh struct {
	// Format is the vertex format of the vertex buffer.
	Format shape.VertexFormat

	// VertexCount is the number of vertices.
	VertexCount int

	// IndexCount is the number of indices, 0 for a non-indexed mesh.
	IndexCount int

	// IndexFormat is the index element type, if indexed.
	IndexFormat wgpu.IndexFormat

	vertex *wgpu.Buffer
	index  *wgpu.Buffer
}

// NewMesh uploads the given mesh data into new vertex and index buffers.
func (gp *GPU) NewMesh(md *shape.MeshData) (*Mesh, error) {
	if md == nil || md.VertexCount() == 0 {
		return nil, fmt.Errorf("gpu: empty mesh: %w", ErrConfiguration)
	}
	ms := &Mesh{Format: md.Format, VertexCount: md.VertexCount(), IndexCount: md.IndexCount()}
	vb, err := gp.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "vertex",
		Contents: md.VertexBytes(),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, resourceError("vertex buffer", err)
	}
	ms.vertex = vb
	if !md.Indexed() {
		return ms, nil
	}
	ms.IndexFormat = wgpu.IndexFormatUint32
	if md.IndexWidth() == 2 {
		ms.IndexFormat = wgpu.IndexFormatUint16
	}
	ib, err := gp.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "index",
		Contents: md.IndexBytes(),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		ms.Release()
		return nil, resourceError("index buffer", err)
	}
	ms.index = ib
	return ms, nil
}

// Indexed returns whether the mesh is drawn with indices.
func (ms *Mesh) Indexed() bool {
	return ms.IndexCount > 0
}

// Bind sets the vertex buffer at the given slot, and
// the index buffer if indexed.
func (ms *Mesh) Bind(rp *wgpu.RenderPassEncoder, slot int) {
	rp.SetVertexBuffer(uint32(slot), ms.vertex, 0, wgpu.WholeSize)
	if ms.index != nil {
		rp.SetIndexBuffer(ms.index, ms.IndexFormat, 0, wgpu.WholeSize)
	}
}

// Draw issues a single draw of the whole mesh:
// indexed if the mesh has indices, otherwise non-indexed.
func (ms *Mesh) Draw(rp *wgpu.RenderPassEncoder) {
	if ms.Indexed() {
		rp.DrawIndexed(uint32(ms.IndexCount), 1, 0, 0, 0)
		return
	}
	rp.Draw(uint32(ms.VertexCount), 1, 0, 0)
}

// Release releases the vertex and index buffers.
func (ms *Mesh) Release() {
	if ms == nil {
		return
	}
	if ms.index != nil {
		ms.index.Release()
		ms.index = nil
	}
	if ms.vertex != nil {
		ms.vertex.Release()
		ms.vertex = nil
	}
}

// UniformBuffer is a uniform block in [UniformGroup], rewritten each frame.
type UniformBuffer struct {
	// Size is the size of the block in bytes.
	Size int

	queue     *wgpu.Queue
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

// NewUniformBuffer returns a new uniform buffer of the given size,
// with its bind group.
func (gp *GPU) NewUniformBuffer(size int) (*UniformBuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("gpu: uniform buffer size %d: %w", size, ErrConfiguration)
	}
	ub := &UniformBuffer{Size: size, queue: gp.Queue}
	buf, err := gp.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "uniforms",
		Size:  uint64((size + 15) &^ 15),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, resourceError("uniform buffer", err)
	}
	ub.buffer = buf
	bg, err := gp.newBindGroup(UniformGroup, "uniforms", wgpu.BindGroupEntry{
		Binding: UniformBinding,
		Buffer:  buf,
		Offset:  0,
		Size:    wgpu.WholeSize,
	})
	if err != nil {
		ub.Release()
		return nil, err
	}
	ub.bindGroup = bg
	return ub, nil
}

// Write queues a write of the given bytes to the buffer,
// which takes effect before the next submitted command buffer.
func (ub *UniformBuffer) Write(data []byte) error {
	if len(data) != ub.Size {
		return fmt.Errorf("gpu.UniformBuffer: wrote %d bytes to a %d byte block: %w", len(data), ub.Size, ErrConfiguration)
	}
	ub.queue.WriteBuffer(ub.buffer, 0, data)
	return nil
}

// Bind sets the buffer's bind group as [UniformGroup].
func (ub *UniformBuffer) Bind(rp *wgpu.RenderPassEncoder) {
	rp.SetBindGroup(uint32(UniformGroup), ub.bindGroup, nil)
}

// Release releases the bind group and buffer.
func (ub *UniformBuffer) Release() {
	if ub == nil {
		return
	}
	if ub.bindGroup != nil {
		ub.bindGroup.Release()
		ub.bindGroup = nil
	}
	if ub.buffer != nil {
		ub.buffer.Release()
		ub.buffer = nil
	}
}

// BufferMapAsyncError returns an error message if the status is not success.
func BufferMapAsyncError(status wgpu.BufferMapAsyncStatus) error {
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return errors.New("gpu BufferMapAsync was not successful")
	}
	return nil
}

// BufferReadSync does a MapAsync on given buffer, waiting on the device
// until the sync is complete, and returning error if any issues.
func BufferReadSync(gp *GPU, size int, buffer *wgpu.Buffer) error {
	var status wgpu.BufferMapAsyncStatus
	err := buffer.MapAsync(wgpu.MapModeRead, 0, uint64(size), func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if errors.Log(err) != nil {
		return err
	}
	gp.WaitDone()
	return BufferMapAsyncError(status)
}
