// Package testpattern provides a generated video source: 75% color bars with a marker sweeping across
// them, so frame delay and feedback are visible without a capture device.
package testpattern

import (
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/google/uuid"
)

// Uploader is the graphics subsystem with CPU texture upload, as provided by the renderer.
type Uploader interface {
	gfx.Graphics

	CreateTexture(data common.TextureStagingData) (gfx.Texture, error)
	UpdateTexture(tex gfx.Texture, data common.TextureStagingData) error
	DestroyTexture(tex gfx.Texture)
}

// 75% bars, left to right.
var bars = [...][3]byte{
	{191, 191, 191},
	{191, 191, 0},
	{0, 191, 191},
	{0, 191, 0},
	{191, 0, 191},
	{191, 0, 0},
	{0, 0, 191},
}

// Pattern is a host.Target rendering animated color bars.
type Pattern struct {
	id     uuid.UUID
	g      Uploader
	width  uint32
	height uint32
	period float32

	mu     sync.Mutex
	phase  float32
	pixels []byte

	// tex is only touched with the graphics context held.
	tex gfx.Texture
}

var _ host.Target = &Pattern{}

// New creates a pattern of the given size. Nothing is uploaded until the first Tick.
//
// Parameters:
//   - g: the graphics subsystem to upload into
//   - width: the pattern width in pixels
//   - height: the pattern height in pixels
//   - options: functional options
//
// Returns:
//   - *Pattern: the pattern
func New(g Uploader, width, height uint32, options ...Option) *Pattern {
	p := &Pattern{
		id:     uuid.New(),
		g:      g,
		width:  width,
		height: height,
		period: 4,
		pixels: make([]byte, int(width)*int(height)*4),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *Pattern) ID() uuid.UUID {
	return p.id
}

func (p *Pattern) BaseWidth() uint32 {
	return p.width
}

func (p *Pattern) BaseHeight() uint32 {
	return p.height
}

// Tick advances the marker and uploads the new frame.
func (p *Pattern) Tick(seconds float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.phase = float32(math.Mod(float64(p.phase+seconds/p.period), 1))
	Fill(p.pixels, p.width, p.height, p.phase)
	data := common.TextureStagingData{Pixels: p.pixels, Width: p.width, Height: p.height}

	gfx.Do(p.g, func() {
		if p.tex == nil {
			tex, err := p.g.CreateTexture(data)
			if err != nil {
				log.Printf("[TestPattern] failed to create texture: %v", err)
				return
			}
			p.tex = tex
			return
		}
		if err := p.g.UpdateTexture(p.tex, data); err != nil {
			log.Printf("[TestPattern] failed to update texture: %v", err)
		}
	})
}

// VideoRender draws the last uploaded frame. It must be called with the graphics context held.
func (p *Pattern) VideoRender() {
	if p.tex == nil {
		return
	}
	gfx.DrawTechnique(p.g, p.g.DefaultEffect(), "Draw", p.tex, p.width, p.height)
}

// Destroy releases the uploaded texture.
func (p *Pattern) Destroy() {
	gfx.Do(p.g, func() {
		if p.tex != nil {
			p.g.DestroyTexture(p.tex)
			p.tex = nil
		}
	})
}

// Fill draws the pattern into pixels, RGBA with 4 bytes per pixel. The top two thirds are the bars; the
// bottom third is black with a white marker whose horizontal position follows phase in [0, 1).
//
// Parameters:
//   - pixels: the destination, at least width*height*4 bytes
//   - width: the pattern width in pixels
//   - height: the pattern height in pixels
//   - phase: the marker position as a fraction of a sweep
func Fill(pixels []byte, width, height uint32, phase float32) {
	if width == 0 || height == 0 {
		return
	}
	split := height * 2 / 3
	marker := max(width/16, 1)
	mx := uint32(phase * float32(width-marker))

	for y := range height {
		row := pixels[int(y)*int(width)*4:]
		for x := range width {
			var c [3]byte
			switch {
			case y < split:
				c = bars[int(x)*len(bars)/int(width)]
			case x >= mx && x < mx+marker:
				c = [3]byte{255, 255, 255}
			}
			o := int(x) * 4
			row[o], row[o+1], row[o+2], row[o+3] = c[0], c[1], c[2], 255
		}
	}
}
