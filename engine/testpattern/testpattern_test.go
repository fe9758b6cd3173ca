package testpattern

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx/gfxtest"
)

type uploader struct {
	*gfxtest.Recorder
	created, updated, destroyed int
	outside                     int
	last                        []byte
}

func (u *uploader) CreateTexture(data common.TextureStagingData) (gfx.Texture, error) {
	u.check()
	u.created++
	u.last = bytes.Clone(data.Pixels)
	return &gfxtest.Texture{ID: u.created, W: data.Width, H: data.Height, Source: "pattern"}, nil
}

func (u *uploader) UpdateTexture(_ gfx.Texture, data common.TextureStagingData) error {
	u.check()
	u.updated++
	u.last = bytes.Clone(data.Pixels)
	return nil
}

func (u *uploader) DestroyTexture(gfx.Texture) {
	u.check()
	u.destroyed++
}

func (u *uploader) check() {
	if u.Depth() == 0 {
		u.outside++
	}
}

func pixel(pixels []byte, width, x, y uint32) [4]byte {
	o := (int(y)*int(width) + int(x)) * 4
	return [4]byte(pixels[o : o+4])
}

func TestFillBars(t *testing.T) {
	const w, h = 70, 30
	px := make([]byte, w*h*4)
	Fill(px, w, h, 0)

	for i, c := range bars {
		x := uint32(i*10 + 5)
		want := [4]byte{c[0], c[1], c[2], 255}
		if got := pixel(px, w, x, 0); got != want {
			t.Errorf("bar %d at x=%d: got %v, want %v", i, x, got, want)
		}
	}
}

func TestFillMarkerFollowsPhase(t *testing.T) {
	const w, h = 64, 30
	px := make([]byte, w*h*4)
	white := [4]byte{255, 255, 255, 255}
	black := [4]byte{0, 0, 0, 255}

	Fill(px, w, h, 0)
	if got := pixel(px, w, 0, h-1); got != white {
		t.Errorf("phase 0: left edge = %v, want white", got)
	}
	if got := pixel(px, w, w-1, h-1); got != black {
		t.Errorf("phase 0: right edge = %v, want black", got)
	}

	Fill(px, w, h, 0.999)
	if got := pixel(px, w, w-2, h-1); got != white {
		t.Errorf("phase 1: right edge = %v, want white", got)
	}
	if got := pixel(px, w, 0, h-1); got != black {
		t.Errorf("phase 1: left edge = %v, want black", got)
	}
}

func TestPatternUploadsInsideGraphicsScope(t *testing.T) {
	u := &uploader{Recorder: gfxtest.NewRecorder()}
	p := New(u, 32, 18, WithPeriod(2))

	p.VideoRender()
	if len(u.Draws) != 0 {
		t.Fatal("drew before the first tick")
	}

	p.Tick(0.5)
	p.Tick(0.5)
	if u.created != 1 || u.updated != 1 {
		t.Errorf("created %d, updated %d; want 1 and 1", u.created, u.updated)
	}
	if p.phase != 0.5 {
		t.Errorf("phase = %v, want 0.5", p.phase)
	}

	gfx.Do(u, p.VideoRender)
	if len(u.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(u.Draws))
	}
	d := u.Draws[0]
	if d.Width != 32 || d.Height != 18 || d.Effect != "default" || d.Technique != "Draw" {
		t.Errorf("draw = %+v", d)
	}

	p.Destroy()
	p.Destroy()
	if u.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", u.destroyed)
	}
	if u.outside != 0 {
		t.Errorf("%d texture calls outside the graphics scope", u.outside)
	}
}
