package renderer

import (
	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// drawSurface is a color attachment being recorded into. Draws are collected between Begin and End and
// encoded into a single render pass when the surface ends.
type drawSurface struct {
	label         string
	view          *wgpu.TextureView
	resolveTarget *wgpu.TextureView
	format        wgpu.TextureFormat
	sampleCount   uint32
	width         uint32
	height        uint32

	proj  [16]float32
	clear *wgpu.Color
	draws []drawCommand
}

func newDrawSurface(label string, view *wgpu.TextureView, format wgpu.TextureFormat, sampleCount, width, height uint32) *drawSurface {
	s := &drawSurface{
		label:       label,
		view:        view,
		format:      format,
		sampleCount: max(sampleCount, 1),
		width:       width,
		height:      height,
	}
	common.Ortho(s.proj[:], 0, float32(width), 0, float32(height), -100, 100)
	return s
}

// drawCommand is one recorded textured quad.
type drawCommand struct {
	pipeline pipeline.Pipeline
	effect   *effect
	uniforms map[bindingKey][]byte
	textures map[bindingKey]*texture
}
