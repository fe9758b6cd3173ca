package renderer

import (
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/cogentcore/webgpu/wgpu"
)

// texture is the renderer's gfx.Texture: a GPU texture and the view it is sampled through.
type texture struct {
	label  string
	tex    *wgpu.Texture
	view   *wgpu.TextureView
	width  uint32
	height uint32
	format wgpu.TextureFormat
}

var _ gfx.Texture = &texture{}

func (t *texture) Width() uint32 {
	return t.width
}

func (t *texture) Height() uint32 {
	return t.height
}

func (t *texture) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}
