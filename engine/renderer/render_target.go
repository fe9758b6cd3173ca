package renderer

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderTarget is the renderer's gfx.RenderTarget. Its texture is a render attachment that can also be sampled.
type renderTarget struct {
	r       *renderer
	id      int
	format  wgpu.TextureFormat
	tex     *texture
	surface *drawSurface

	began     bool
	destroyed bool
}

var _ gfx.RenderTarget = &renderTarget{}

func (t *renderTarget) Begin(width, height uint32) bool {
	if t.destroyed || t.began || width == 0 || height == 0 {
		return false
	}
	if t.tex == nil || t.tex.width != width || t.tex.height != height {
		tex, err := t.r.backend.CreateTexture(
			fmt.Sprintf("Render Target %d", t.id), width, height, t.format,
			wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding,
		)
		if err != nil {
			log.Printf("[Renderer] failed to allocate render target %d at %dx%d: %v", t.id, width, height, err)
			return false
		}
		if t.tex != nil {
			t.tex.release()
		}
		t.tex = tex
	}

	t.began = true
	t.surface = newDrawSurface(t.tex.label, t.tex.view, t.format, 1, width, height)
	t.r.pushSurface(t.surface)
	return true
}

func (t *renderTarget) End() {
	if t.surface == nil {
		return
	}
	t.r.popSurface(t.surface)
	t.surface = nil
}

func (t *renderTarget) Reset() {
	t.began = false
}

func (t *renderTarget) Texture() gfx.Texture {
	if t.tex == nil {
		return nil
	}
	return t.tex
}

func (t *renderTarget) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.surface != nil {
		t.End()
	}
	if t.tex != nil {
		t.tex.release()
		t.tex = nil
	}
	t.r.forgetTarget(t)
}
