// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"log/slog"
	"path/filepath"
	"testing"

	"cogentcore.org/solid/base/iox/imagex"
	"cogentcore.org/solid/base/tolassert"
	"cogentcore.org/solid/gpu"
	"cogentcore.org/solid/gpu/phong"
	"cogentcore.org/solid/gpu/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice creates empty resources, recording each creation,
// and fails the one named by failAt.
type fakeDevice struct {
	failAt   string
	created  []string
	desc     *gpu.PipelineDesc
	imgSize  image.Point
	mesh     *shape.MeshData
	sampling gpu.SamplerConfig
}

func (d *fakeDevice) create(name string) error {
	if d.failAt == name {
		return fmt.Errorf("fake %s: %w", name, gpu.ErrResourceCreation)
	}
	d.created = append(d.created, name)
	return nil
}

func (d *fakeDevice) NewShader(name, source string) (*gpu.Shader, error) {
	if err := d.create("shader"); err != nil {
		return nil, err
	}
	return &gpu.Shader{Name: name, Source: source}, nil
}

func (d *fakeDevice) NewPipeline(desc *gpu.PipelineDesc) (*gpu.Pipeline, error) {
	if err := d.create("pipeline"); err != nil {
		return nil, err
	}
	d.desc = desc
	return &gpu.Pipeline{Desc: *desc}, nil
}

func (d *fakeDevice) NewMesh(md *shape.MeshData) (*gpu.Mesh, error) {
	if err := d.create("mesh"); err != nil {
		return nil, err
	}
	d.mesh = md
	return &gpu.Mesh{Format: md.Format, VertexCount: md.VertexCount(), IndexCount: md.IndexCount()}, nil
}

func (d *fakeDevice) NewUniformBuffer(size int) (*gpu.UniformBuffer, error) {
	if err := d.create("uniforms"); err != nil {
		return nil, err
	}
	return &gpu.UniformBuffer{Size: size}, nil
}

func (d *fakeDevice) NewTexture(name string, img image.Image) (*gpu.Texture, error) {
	if err := d.create("texture"); err != nil {
		return nil, err
	}
	d.imgSize = img.Bounds().Size()
	return &gpu.Texture{Name: name, Size: d.imgSize}, nil
}

func (d *fakeDevice) NewSampler(name string, cfg gpu.SamplerConfig) (*gpu.Sampler, error) {
	if err := d.create("sampler"); err != nil {
		return nil, err
	}
	d.sampling = cfg
	return &gpu.Sampler{Name: name, Config: cfg}, nil
}

// fakeTarget records the calls made on its frames.
type fakeTarget struct {
	acquireErr error
	calls      []string
	uniforms   []byte
}

func (ft *fakeTarget) Acquire() (Frame, error) {
	if ft.acquireErr != nil {
		return nil, ft.acquireErr
	}
	return &fakeFrame{target: ft}, nil
}

type fakeFrame struct {
	target *fakeTarget
}

func (ff *fakeFrame) call(format string, args ...any) {
	ff.target.calls = append(ff.target.calls, fmt.Sprintf(format, args...))
}

func (ff *fakeFrame) BeginPass(pc PassConfig) error {
	r, g, b, a := pc.Clear.RGBA()
	ff.call("begin %d %d %d %d", r, g, b, a)
	return nil
}

func (ff *fakeFrame) SetVertexBuffer(index int, mesh *gpu.Mesh) {
	ff.call("vertex %d %d", index, mesh.VertexCount)
}

func (ff *fakeFrame) SetUniforms(index int, buf *gpu.UniformBuffer, data []byte) error {
	ff.call("uniforms %d %d", index, len(data))
	ff.target.uniforms = data
	return nil
}

func (ff *fakeFrame) SetPipeline(pl *gpu.Pipeline) { ff.call("pipeline") }

func (ff *fakeFrame) SetTexture(unit int, tx *gpu.Texture) { ff.call("texture %d", unit) }

func (ff *fakeFrame) SetSampler(unit int, sm *gpu.Sampler) { ff.call("sampler %d", unit) }

func (ff *fakeFrame) Draw(mesh *gpu.Mesh) {
	if mesh.Indexed() {
		ff.call("draw indexed %d", mesh.IndexCount)
		return
	}
	ff.call("draw %d", mesh.VertexCount)
}

func (ff *fakeFrame) EndPass() { ff.call("end") }

func (ff *fakeFrame) Present() { ff.call("present") }

func (ff *fakeFrame) Submit() error {
	ff.call("submit")
	return nil
}

func (ff *fakeFrame) Release() { ff.call("release") }

// releaseHandler collects the resources logged as released.
type releaseHandler struct {
	released *[]string
}

func (h releaseHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h releaseHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Message != "render: released" {
		return nil
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "resource" {
			*h.released = append(*h.released, a.Value.String())
		}
		return true
	})
	return nil
}

func (h releaseHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h releaseHandler) WithGroup(string) slog.Handler      { return h }

// captureReleases records released resource names until the test ends.
func captureReleases(t *testing.T) *[]string {
	released := &[]string{}
	prev := slog.Default()
	slog.SetDefault(slog.New(releaseHandler{released: released}))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return released
}

func reversed(s []string) []string {
	r := make([]string, len(s))
	for i, v := range s {
		r[len(s)-1-i] = v
	}
	return r
}

var testSize = image.Pt(1600, 900)

func TestNewTexturedSphere(t *testing.T) {
	dev := &fakeDevice{}
	r, err := New(dev, defaultConfig(), gpu.DefaultTargetFormats(), testSize)
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, []string{"shader", "pipeline", "mesh", "uniforms", "texture", "sampler"}, dev.created)
	require.NotNil(t, dev.desc)
	assert.True(t, dev.desc.Textured)
	assert.Equal(t, 32, dev.desc.Layout.Stride)
	assert.Equal(t, phong.VertexEntry, dev.desc.VertexEntry)
	assert.Equal(t, phong.FragmentEntry, dev.desc.FragmentEntry)
	require.NotNil(t, dev.desc.Depth)
	assert.Equal(t, gpu.DefaultDepthState(), *dev.desc.Depth)
	assert.Contains(t, dev.desc.Shader.Source, "@group(1) @binding(0)")
	assert.Equal(t, image.Pt(256, 256), dev.imgSize)
	assert.Equal(t, gpu.DefaultSamplerConfig(), dev.sampling)
	assert.Equal(t, 6*32*31, dev.mesh.IndexCount())
	assert.Equal(t, testSize, r.Size)
}

func TestNewCopiesConfig(t *testing.T) {
	cfg := defaultConfig()
	r, err := New(&fakeDevice{}, cfg, gpu.DefaultTargetFormats(), testSize)
	require.NoError(t, err)
	defer r.Release()
	cfg.Camera.Rotations[0].Degrees = 90
	cfg.Sphere.Radius = 3
	assert.Equal(t, float32(20), r.Config.Camera.Rotations[0].Degrees)
	assert.Equal(t, float32(1), r.Config.Sphere.Radius)
}

func TestNewBox(t *testing.T) {
	dev := &fakeDevice{}
	cfg := defaultConfig()
	cfg.Geometry, cfg.Textured = Box, false
	r, err := New(dev, cfg, gpu.TargetFormats{Color: gpu.DefaultTargetFormats().Color}, testSize)
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, []string{"shader", "pipeline", "mesh", "uniforms"}, dev.created)
	assert.False(t, dev.desc.Textured)
	assert.Nil(t, dev.desc.Depth)
	assert.Equal(t, 24, dev.desc.Layout.Stride)
	assert.NotContains(t, dev.desc.Shader.Source, "texture_2d")

	ft := &fakeTarget{}
	require.NoError(t, r.OnFrame(ft, PassConfig{}))
	assert.Contains(t, ft.calls, "draw 36")
	assert.NotContains(t, ft.calls, "texture 0")
}

func TestNewTexturedBox(t *testing.T) {
	dev := &fakeDevice{}
	cfg := defaultConfig()
	cfg.Geometry = Box
	r, err := New(dev, cfg, gpu.DefaultTargetFormats(), testSize)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, gpu.ErrConfiguration)
	assert.Empty(t, dev.created)
}

func TestNewFailureReleases(t *testing.T) {
	for _, fail := range []string{"shader", "pipeline", "mesh", "uniforms", "texture", "sampler"} {
		released := captureReleases(t)
		dev := &fakeDevice{failAt: fail}
		r, err := New(dev, defaultConfig(), gpu.DefaultTargetFormats(), testSize)
		assert.Nil(t, r, fail)
		assert.ErrorIs(t, err, gpu.ErrResourceCreation, fail)
		assert.Equal(t, reversed(dev.created), *released, fail)
	}
}

func TestNewAssetLoad(t *testing.T) {
	released := captureReleases(t)
	dev := &fakeDevice{}
	cfg := defaultConfig()
	cfg.Texture.Name = "missing"
	r, err := New(dev, cfg, gpu.DefaultTargetFormats(), testSize)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, gpu.ErrAssetLoad)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, []string{"uniforms", "mesh", "pipeline", "shader"}, *released)
}

func TestNewTextureDir(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	require.NoError(t, imagex.Save(img, filepath.Join(dir, "red.png")))

	dev := &fakeDevice{}
	cfg := defaultConfig()
	cfg.Texture = TextureConfig{Name: "red", Ext: ".png", Origin: "bottom-left", Dir: dir}
	r, err := New(dev, cfg, gpu.DefaultTargetFormats(), testSize)
	require.NoError(t, err)
	defer r.Release()
	assert.Equal(t, image.Pt(8, 4), dev.imgSize)
}

func TestOnFrameOrder(t *testing.T) {
	r, err := New(&fakeDevice{}, defaultConfig(), gpu.DefaultTargetFormats(), testSize)
	require.NoError(t, err)
	defer r.Release()

	ft := &fakeTarget{}
	require.NoError(t, r.OnFrame(ft, PassConfig{}))
	nv := (32 + 1) * (32 + 1)
	assert.Equal(t, []string{
		"begin 0 0 0 65535",
		fmt.Sprintf("vertex 0 %d", nv),
		"uniforms 1 192",
		"pipeline",
		"texture 0",
		"sampler 0",
		fmt.Sprintf("draw indexed %d", 6*32*31),
		"end",
		"present",
		"submit",
		"release",
	}, ft.calls)
	u := r.Uniforms()
	assert.Equal(t, u.Bytes(), ft.uniforms)

	ft.calls = nil
	require.NoError(t, r.OnFrame(ft, PassConfig{Clear: color.White}))
	assert.Equal(t, "begin 65535 65535 65535 65535", ft.calls[0])
}

func TestOnFrameSkipped(t *testing.T) {
	r, err := New(&fakeDevice{}, defaultConfig(), gpu.DefaultTargetFormats(), testSize)
	require.NoError(t, err)
	defer r.Release()

	ft := &fakeTarget{acquireErr: errors.New("surface outdated")}
	err = r.OnFrame(ft, PassConfig{})
	assert.ErrorIs(t, err, ErrFrameSkipped)
	assert.Empty(t, ft.calls)

	ft.acquireErr = nil
	assert.NoError(t, r.OnFrame(ft, PassConfig{}))
	assert.Contains(t, ft.calls, "submit")
}

func TestOnResize(t *testing.T) {
	r, err := New(&fakeDevice{}, defaultConfig(), gpu.DefaultTargetFormats(), image.Pt(800, 800))
	require.NoError(t, err)
	defer r.Release()

	before := r.Uniforms()
	r.OnResize(1600, 900)
	p1 := r.Uniforms()
	r.OnResize(1600, 900)
	p2 := r.Uniforms()
	assert.Equal(t, p1.Projection, p2.Projection)
	assert.Equal(t, before.ModelView, p1.ModelView)
	assert.Equal(t, before.Normal, p1.Normal)
	assert.NotEqual(t, before.Projection, p1.Projection)
	tolassert.EqualTol(t, 1.5696855/(16.0/9), p1.Projection[0], 1e-5)
	tolassert.EqualTol(t, 1.5696855, p1.Projection[5], 1e-5)

	r.OnResize(0, 0)
	assert.Equal(t, p1, r.Uniforms())
	assert.Equal(t, image.Pt(1600, 900), r.Size)
}

func TestOnFrameSpin(t *testing.T) {
	cfg := defaultConfig()
	cfg.Camera.Spin = 10
	r, err := New(&fakeDevice{}, cfg, gpu.DefaultTargetFormats(), testSize)
	require.NoError(t, err)
	defer r.Release()

	before := r.Uniforms()
	require.NoError(t, r.OnFrame(&fakeTarget{}, PassConfig{}))
	after := r.Uniforms()
	assert.NotEqual(t, before.ModelView, after.ModelView)
	assert.Equal(t, before.Projection, after.Projection)
	assert.Equal(t, float32(40), r.Camera.Rotations[1].Degrees)
}

func TestReleaseTwice(t *testing.T) {
	released := captureReleases(t)
	r, err := New(&fakeDevice{}, defaultConfig(), gpu.DefaultTargetFormats(), testSize)
	require.NoError(t, err)
	r.Release()
	r.Release()
	assert.Equal(t, []string{"sampler", "texture", "uniforms", "mesh", "pipeline", "shader"}, *released)
	assert.ErrorIs(t, r.OnFrame(&fakeTarget{}, PassConfig{}), ErrFrameSkipped)
}

func TestOffscreenRender(t *testing.T) {
	t.Skip("Need software GPU on CI")
	gp, err := gpu.NoDisplayGPU()
	require.NoError(t, err)
	defer gp.Release()
	size := image.Pt(256, 192)
	tt, err := NewTextureTarget(gp, size, gpu.DefaultTargetFormats())
	require.NoError(t, err)
	defer tt.Release()
	r, err := New(gp, defaultConfig(), tt.Formats(), size)
	require.NoError(t, err)
	defer r.Release()
	require.NoError(t, r.OnFrame(tt, PassConfig{}))
	img, err := tt.ReadImage()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 0))
	assert.NotEqual(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(128, 96))
}
