package feedback

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx/gfxtest"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
	"github.com/google/uuid"
)

const testEffectPath = "effects/render.wgsl"

type fakeTarget struct {
	id      uuid.UUID
	w, h    uint32
	rec     *gfxtest.Recorder
	tex     *gfxtest.Texture
	renders int
}

func (t *fakeTarget) ID() uuid.UUID      { return t.id }
func (t *fakeTarget) BaseWidth() uint32  { return t.w }
func (t *fakeTarget) BaseHeight() uint32 { return t.h }

func (t *fakeTarget) VideoRender() {
	t.renders++
	t.rec.DrawSprite(t.tex, 0, t.w, t.h)
}

type fakeSource struct {
	id      uuid.UUID
	enabled bool
	target  host.Target
	parent  host.Target
	skips   int
}

func (s *fakeSource) ID() uuid.UUID             { return s.id }
func (s *fakeSource) Name() string              { return "recursion" }
func (s *fakeSource) Enabled() bool             { return s.enabled }
func (s *fakeSource) SetEnabled(enabled bool)   { s.enabled = enabled }
func (s *fakeSource) FilterTarget() host.Target { return s.target }
func (s *fakeSource) FilterParent() host.Target { return s.parent }
func (s *fakeSource) SkipVideoFilter()          { s.skips++ }

type fakeVideo struct {
	info host.VideoInfo
}

func (v *fakeVideo) VideoInfo() host.VideoInfo { return v.info }

type harness struct {
	rec     *gfxtest.Recorder
	effect  *gfxtest.Effect
	target  *fakeTarget
	parent  *fakeTarget
	src     *fakeSource
	video   *fakeVideo
	hotkeys *host.Hotkeys
	s       *settings.Settings
	f       *Filter
}

// newHarness builds a filter on a 1920x1080 target at 30 fps with the given explicit settings.
func newHarness(t *testing.T, values map[string]any, options ...FilterBuilderOption) *harness {
	t.Helper()

	rec := gfxtest.NewRecorder()
	effect := gfxtest.NewEffect(rec, "render", paramImage, paramMultiplier)
	rec.Effects[testEffectPath] = effect

	target := &fakeTarget{id: uuid.New(), w: 1920, h: 1080, rec: rec}
	target.tex = &gfxtest.Texture{ID: -1, W: 1920, H: 1080, Source: "target"}
	parent := &fakeTarget{id: uuid.New(), w: 1920, h: 1080, rec: rec}

	h := &harness{
		rec:     rec,
		effect:  effect,
		target:  target,
		parent:  parent,
		src:     &fakeSource{id: uuid.New(), enabled: true, target: target, parent: parent},
		video:   &fakeVideo{info: host.VideoInfo{FPSNum: 30000, FPSDen: 1000}},
		hotkeys: host.NewHotkeys(),
		s:       settings.FromMap(values),
	}
	Defaults(h.s)

	ctx := &host.Context{Graphics: rec, Video: h.video, Hotkeys: h.hotkeys}
	opts := append([]FilterBuilderOption{WithLogger(NopLogger), WithEffectPath(testEffectPath)}, options...)
	h.f = NewFilter(ctx, h.s, h.src, opts...)
	return h
}

// frame runs one host frame: tick then render.
func (h *harness) frame() {
	h.f.Tick(1.0 / 30)
	h.f.Render()
}

func (h *harness) update(key string, v any) {
	switch n := v.(type) {
	case int:
		h.s.SetInt(key, int64(n))
	case float64:
		h.s.SetDouble(key, n)
	case bool:
		h.s.SetBool(key, n)
	}
	h.f.Update(h.s)
}

// offscreenDraws returns the draws that went into a render target rather than the host surface.
func (h *harness) offscreenDraws() []gfxtest.Draw {
	var out []gfxtest.Draw
	for _, d := range h.rec.Draws {
		if d.Surface != 0 {
			out = append(out, d)
		}
	}
	return out
}

func (h *harness) surfaceDraws() []gfxtest.Draw {
	var out []gfxtest.Draw
	for _, d := range h.rec.Draws {
		if d.Surface == 0 {
			out = append(out, d)
		}
	}
	return out
}
