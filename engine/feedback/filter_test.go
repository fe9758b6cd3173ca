package feedback

import (
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx/gfxtest"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
	"github.com/google/uuid"
)

func TestBufferSettlesToDelayOverInterval(t *testing.T) {
	tests := []struct {
		name    string
		delayMS int
		fps     host.VideoInfo
		want    int
	}{
		{"100ms at 30fps", 100, host.VideoInfo{FPSNum: 30000, FPSDen: 1000}, 3},
		{"50ms at 30fps", 50, host.VideoInfo{FPSNum: 30000, FPSDen: 1000}, 1},
		{"1ms at 60fps floors to one", 1, host.VideoInfo{FPSNum: 60, FPSDen: 1}, 1},
		{"1000ms at 60fps", 1000, host.VideoInfo{FPSNum: 60, FPSDen: 1}, 60},
		{"1000ms at 29.97fps", 1000, host.VideoInfo{FPSNum: 30000, FPSDen: 1001}, 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, map[string]any{SettingDelayMS: tt.delayMS})
			h.video.info = tt.fps
			h.f.Tick(0)
			h.f.Tick(0)

			if got := h.f.buffer.Len(); got != tt.want {
				t.Errorf("slots = %d, want %d", got, tt.want)
			}
			if h.f.buffer.Scratch() == nil {
				t.Error("scratch target was not created")
			}
			if got := h.f.Metrics().Slots; got != tt.want {
				t.Errorf("metrics slots = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDelayShrinkFreesOldest(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.f.Tick(0)
	before := h.f.buffer.Slots()
	if len(before) != 3 {
		t.Fatalf("slots = %d, want 3", len(before))
	}
	destroyed := h.rec.Destroyed

	h.update(SettingDelayMS, 50)

	after := h.f.buffer.Slots()
	if len(after) != 1 {
		t.Fatalf("slots after shrink = %d, want 1", len(after))
	}
	if after[0] != before[2] {
		t.Error("shrink did not keep the newest slot")
	}
	if got := h.rec.Destroyed - destroyed; got != 2 {
		t.Errorf("destroyed %d targets, want 2", got)
	}
}

func TestDelayGrowAppendsAtBack(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 50})
	h.f.Tick(0)
	before := h.f.buffer.Slots()

	h.update(SettingDelayMS, 100)

	after := h.f.buffer.Slots()
	if len(after) != 3 {
		t.Fatalf("slots after grow = %d, want 3", len(after))
	}
	if after[0] != before[0] {
		t.Error("grow disturbed the oldest slot")
	}
	if h.f.Metrics().Resizes != 2 {
		t.Errorf("resizes = %d, want 2", h.f.Metrics().Resizes)
	}
}

func TestDelayChangeBeforeSizingIsDeferred(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.update(SettingDelayMS, 200)
	if h.rec.Created != 0 {
		t.Fatalf("created %d targets before the first tick", h.rec.Created)
	}
	h.f.Tick(0)
	if got := h.f.buffer.Len(); got != 6 {
		t.Errorf("slots = %d, want 6", got)
	}
}

func TestDelayFlooredToOneMillisecond(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 0})
	if got := h.f.tracker.Delay(); got != 1_000_000 {
		t.Errorf("delay = %dns, want 1ms", got)
	}
}

func TestResolutionChangeRebuildsBuffer(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.frame()
	h.frame()
	old := h.f.buffer.Slots()
	created := h.rec.Created

	h.target.w, h.target.h = 1280, 720
	h.f.Tick(0)

	if got := h.rec.Destroyed; got != created {
		t.Fatalf("destroyed %d of %d targets", got, created)
	}
	slots := h.f.buffer.Slots()
	if len(slots) != 3 {
		t.Fatalf("slots after rebuild = %d, want 3", len(slots))
	}
	for i, s := range slots {
		for _, o := range old {
			if s == o || s.Target == o.Target {
				t.Fatalf("slot %d survived the rebuild", i)
			}
		}
	}

	h.rec.ResetDraws()
	h.f.Render()
	found := false
	for _, line := range h.rec.Journal() {
		if strings.HasPrefix(line, "begin") {
			if !strings.HasSuffix(line, "1280x720") {
				t.Errorf("render pass %q not at the new resolution", line)
			}
			found = true
		}
	}
	if !found {
		t.Error("no render pass after rebuild")
	}
	if h.f.Metrics().Invalidations != 2 {
		t.Errorf("invalidations = %d, want 2", h.f.Metrics().Invalidations)
	}
}

func TestInvalidTargetFreesEverything(t *testing.T) {
	tests := []struct {
		name       string
		invalidate func(h *harness)
		restore    func(h *harness)
	}{
		{
			name:       "missing target",
			invalidate: func(h *harness) { h.src.target = nil },
			restore:    func(h *harness) { h.src.target = h.target },
		},
		{
			name:       "zero resolution",
			invalidate: func(h *harness) { h.target.w = 0 },
			restore:    func(h *harness) { h.target.w = 1920 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, map[string]any{SettingDelayMS: 100})
			h.frame()

			tt.invalidate(h)
			h.frame()

			if h.f.buffer.Len() != 0 || h.f.buffer.Scratch() != nil {
				t.Fatalf("buffer len=%d scratch=%v after invalid target", h.f.buffer.Len(), h.f.buffer.Scratch())
			}
			if h.rec.Live() != 0 {
				t.Fatalf("%d render targets leaked", h.rec.Live())
			}
			if h.src.skips != 1 {
				t.Errorf("skips = %d, want 1", h.src.skips)
			}

			tt.restore(h)
			h.f.Tick(0)
			if h.f.buffer.Len() != 3 {
				t.Errorf("slots after recovery = %d, want 3", h.f.buffer.Len())
			}
		})
	}
}

func TestZeroFrameRateFreesBuffer(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.f.Tick(0)

	h.video.info = host.VideoInfo{FPSNum: 0, FPSDen: 1}
	h.f.Tick(0)
	if h.f.buffer.Allocated() || h.f.tracker.Interval() != 0 {
		t.Fatalf("buffer still allocated at zero frame rate")
	}

	h.video.info = host.VideoInfo{FPSNum: 30000, FPSDen: 1000}
	h.f.Tick(0)
	if h.f.buffer.Len() != 3 {
		t.Errorf("slots = %d, want 3", h.f.buffer.Len())
	}
}

func TestEnableTriggerDrainsWhileDisabled(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100, SettingResetTrigger: int(ResetTriggerEnable)})
	h.f.Tick(0)
	if h.f.buffer.Len() != 3 {
		t.Fatalf("slots = %d, want 3", h.f.buffer.Len())
	}

	h.src.enabled = false
	for i := 0; i < 3; i++ {
		h.f.Tick(0)
		if h.f.buffer.Allocated() || h.rec.Live() != 0 {
			t.Fatalf("tick %d: buffer not drained (len=%d live=%d)", i, h.f.buffer.Len(), h.rec.Live())
		}
	}
	created := h.rec.Created

	h.src.enabled = true
	h.f.Tick(0)
	if h.f.buffer.Len() != 3 {
		t.Errorf("slots after re-enable = %d, want 3", h.f.buffer.Len())
	}
	if h.rec.Created != created+4 {
		t.Errorf("created %d targets on re-enable, want 4", h.rec.Created-created)
	}
}

func TestDisabledWithoutEnableTriggerKeepsBuffer(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100, SettingResetTrigger: int(ResetTriggerShow)})
	h.f.Tick(0)
	h.src.enabled = false
	h.f.Tick(0)
	if h.f.buffer.Len() != 3 {
		t.Errorf("slots = %d, want 3", h.f.buffer.Len())
	}
}

func TestLifecycleTriggers(t *testing.T) {
	events := []struct {
		event   LifecycleEvent
		call    func(f *Filter)
		trigger ResetTrigger
	}{
		{EventShow, (*Filter).Show, ResetTriggerShow},
		{EventHide, (*Filter).Hide, ResetTriggerHide},
		{EventActivate, (*Filter).Activate, ResetTriggerActivate},
		{EventDeactivate, (*Filter).Deactivate, ResetTriggerDeactivate},
	}
	for _, trigger := range []ResetTrigger{ResetTriggerNone, ResetTriggerShow, ResetTriggerHide, ResetTriggerActivate, ResetTriggerDeactivate} {
		for _, ev := range events {
			t.Run(trigger.String()+"/"+ev.event.String(), func(t *testing.T) {
				h := newHarness(t, map[string]any{SettingDelayMS: 100, SettingResetTrigger: int(trigger)})
				h.f.Tick(0)
				destroyed := h.rec.Destroyed

				ev.call(h.f)

				wantDestroyed := 0
				if ev.trigger == trigger {
					wantDestroyed = 4
				}
				if got := h.rec.Destroyed - destroyed; got != wantDestroyed {
					t.Errorf("destroyed %d targets, want %d", got, wantDestroyed)
				}
				if h.f.buffer.Len() != 3 {
					t.Errorf("slots = %d, want 3", h.f.buffer.Len())
				}
			})
		}
	}
}

func TestOneCompositePerTick(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.f.Tick(0)

	for i := 0; i < 3; i++ {
		h.f.Render()
	}
	m := h.f.Metrics()
	if m.Composites != 1 || m.Redraws != 2 {
		t.Fatalf("composites=%d redraws=%d, want 1 and 2", m.Composites, m.Redraws)
	}
	if h.target.renders != 1 {
		t.Errorf("target rendered %d times, want 1", h.target.renders)
	}
	if got := len(h.surfaceDraws()); got != 3 {
		t.Errorf("surface draws = %d, want 3", got)
	}

	h.frame()
	if got := h.f.Metrics().Composites; got != 2 {
		t.Errorf("composites after next tick = %d, want 2", got)
	}
}

func TestSwapExchangesTargetIdentities(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.f.Tick(0)

	slot := h.f.buffer.PeekOldest()
	slotTarget := slot.Target
	scratch := h.f.buffer.Scratch()
	created := h.rec.Created

	h.f.Render()

	if h.f.buffer.PeekNewest() != slot {
		t.Fatal("popped slot was not pushed to the back")
	}
	if slot.Target != scratch {
		t.Error("slot target is not the previous scratch target")
	}
	if h.f.buffer.Scratch() != slotTarget {
		t.Error("scratch target is not the previous slot target")
	}
	if h.rec.Created != created {
		t.Errorf("render created %d targets", h.rec.Created-created)
	}
	if h.f.buffer.Len() != 3 {
		t.Errorf("slots = %d, want 3", h.f.buffer.Len())
	}
}

func TestCompositeOrderAndBlend(t *testing.T) {
	tests := []struct {
		name        string
		inversed    bool
		wantBlend   gfx.BlendState
		wantDelayed int
	}{
		{"normal", false, gfx.BlendState{Src: gfx.BlendOne, Dst: gfx.BlendInvSrcAlpha}, 0},
		{"inversed", true, gfx.BlendState{Src: gfx.BlendSrcAlpha, Dst: gfx.BlendInvSrcAlpha}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// a single slot comes back around on the next frame with content
			h := newHarness(t, map[string]any{SettingDelayMS: 10, SettingInversed: tt.inversed})
			h.frame()
			h.rec.ResetDraws()
			h.frame()

			draws := h.offscreenDraws()
			if len(draws) != 2 {
				t.Fatalf("offscreen draws = %d, want 2", len(draws))
			}
			delayed, live := draws[tt.wantDelayed], draws[1-tt.wantDelayed]
			if delayed.Effect != "render" || delayed.Technique != techniqueDraw {
				t.Errorf("delayed draw = %+v, want the render effect", delayed)
			}
			if live.Texture != h.target.tex {
				t.Errorf("live draw texture = %v, want the target", live.Texture)
			}
			for _, d := range draws {
				if d.Blend != tt.wantBlend {
					t.Errorf("composite blend = %+v, want %+v", d.Blend, tt.wantBlend)
				}
				if d.Width != 1920 || d.Height != 1080 {
					t.Errorf("draw size = %dx%d", d.Width, d.Height)
				}
			}

			final := h.surfaceDraws()
			if len(final) != 1 {
				t.Fatalf("surface draws = %d, want 1", len(final))
			}
			want := gfx.BlendState{Src: gfx.BlendOne, Dst: gfx.BlendInvSrcAlpha}
			if final[0].Blend != want || final[0].Effect != "default" {
				t.Errorf("final draw = %+v", final[0])
			}
			if final[0].Texture != h.f.buffer.PeekNewest().Texture() {
				t.Error("final draw is not the newest slot")
			}
			if h.rec.Blend() != gfx.DefaultBlendState || h.rec.MatrixDepth() != 1 {
				t.Errorf("render leaked state: blend=%+v matrices=%d", h.rec.Blend(), h.rec.MatrixDepth())
			}
		})
	}
}

func TestDelayedFrameTransform(t *testing.T) {
	h := newHarness(t, map[string]any{
		SettingDelayMS:  10,
		SettingOffsetX:  10.0,
		SettingOffsetY:  20.0,
		SettingScaleX:   2.0,
		SettingScaleY:   3.0,
		SettingRotation: 90.0,
		SettingAlpha:    0.5,
	})
	h.frame()
	h.rec.ResetDraws()
	h.frame()

	var delayed *gfxtest.Draw
	draws := h.offscreenDraws()
	for i := range draws {
		if draws[i].Effect == "render" {
			delayed = &draws[i]
		}
	}
	if delayed == nil {
		t.Fatal("delayed frame was not drawn")
	}

	x, y, _ := common.TransformPoint(delayed.Matrix[:], 1, 0, 0)
	if math.Abs(float64(x-10)) > 1e-4 || math.Abs(float64(y-23)) > 1e-4 {
		t.Errorf("(1,0) -> (%v,%v), want (10,23)", x, y)
	}
	if got := delayed.Floats[paramMultiplier]; got != 0.5 {
		t.Errorf("multiplier = %v, want 0.5", got)
	}
	if h.effect.Fake(paramImage).Texture != delayed.Texture {
		t.Error("image parameter not bound to the delayed texture")
	}
}

func TestFirstCompositeSkipsEmptySlot(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.frame()

	draws := h.offscreenDraws()
	if len(draws) != 1 || draws[0].Texture != h.target.tex {
		t.Fatalf("offscreen draws = %+v, want only the live frame", draws)
	}
}

func TestMissingEffectPassesThrough(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100}, WithEffectPath("missing.wgsl"))
	h.frame()

	if h.src.skips != 1 {
		t.Errorf("skips = %d, want 1", h.src.skips)
	}
	if len(h.rec.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(h.rec.Draws))
	}
	if h.f.buffer.Len() != 3 {
		t.Errorf("slots = %d, want 3", h.f.buffer.Len())
	}
}

func TestMissingParentPassesThrough(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.src.parent = nil
	h.frame()
	if h.src.skips != 1 || h.f.Metrics().Skips != 1 {
		t.Errorf("skips = %d, want 1", h.src.skips)
	}
}

func TestRenderTargetCreationFailure(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.rec.FailCreate = true
	h.frame()
	h.frame()

	if h.f.buffer.Len() != 3 {
		t.Fatalf("slots = %d, want 3", h.f.buffer.Len())
	}
	if len(h.rec.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(h.rec.Draws))
	}

	h.rec.FailCreate = false
	h.f.Destroy()
	if len(h.rec.Violations) != 0 {
		t.Errorf("violations: %v", h.rec.Violations)
	}
}

func TestRenderTargetCreationRecovers(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	h.frame()
	h.rec.FailCreate = true
	h.update(SettingDelayMS, 150)
	if h.f.buffer.Len() != 4 || h.f.buffer.Complete() {
		t.Fatalf("slots=%d complete=%v, want 4 slots with one missing target", h.f.buffer.Len(), h.f.buffer.Complete())
	}

	h.rec.FailCreate = false
	h.frame()
	for i, s := range h.f.buffer.Slots() {
		if s.Target == nil {
			t.Fatalf("slot %d still has no target after recovery", i)
		}
	}
	if h.f.buffer.Scratch() == nil {
		t.Fatal("scratch missing after recovery")
	}

	skips := h.src.skips
	for i := 0; i < 40; i++ {
		h.rec.ResetDraws()
		h.frame()
		if len(h.surfaceDraws()) == 0 && h.src.skips == skips {
			t.Fatalf("frame %d drew nothing and did not pass through", i)
		}
	}
	if h.src.skips != skips {
		t.Errorf("%d frames passed through after recovery", h.src.skips-skips)
	}

	h.f.Destroy()
	if h.rec.Live() != 0 || len(h.rec.Violations) != 0 {
		t.Errorf("live=%d violations=%v", h.rec.Live(), h.rec.Violations)
	}
}

func TestCreateDestroyBalanced(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100, SettingResetTrigger: int(ResetTriggerEnable)})
	for i := 0; i < 5; i++ {
		h.frame()
	}
	h.update(SettingDelayMS, 300)
	h.frame()
	h.update(SettingDelayMS, 40)
	h.frame()
	h.target.w, h.target.h = 640, 480
	h.frame()
	h.src.enabled = false
	h.frame()
	h.src.enabled = true
	h.frame()

	h.f.Destroy()

	if h.rec.Created == 0 || h.rec.Created != h.rec.Destroyed {
		t.Errorf("created %d, destroyed %d", h.rec.Created, h.rec.Destroyed)
	}
	if h.rec.Live() != 0 {
		t.Errorf("%d render targets leaked", h.rec.Live())
	}
	if !h.effect.Destroyed {
		t.Error("effect was not destroyed")
	}
	if len(h.rec.Violations) != 0 {
		t.Errorf("violations: %v", h.rec.Violations)
	}
	if h.rec.Depth() != 0 {
		t.Errorf("graphics depth = %d after destroy", h.rec.Depth())
	}
}

func TestHotkeysToggleSource(t *testing.T) {
	h := newHarness(t, map[string]any{SettingDelayMS: 100})
	if h.hotkeys.Len() != 1 {
		t.Fatalf("hotkey pairs = %d, want 1", h.hotkeys.Len())
	}

	if n := h.hotkeys.Trigger(HotkeyEnable, true); n != 0 {
		t.Errorf("enable on an enabled filter acted %d times", n)
	}
	if n := h.hotkeys.Trigger(HotkeyDisable, true); n != 1 || h.src.enabled {
		t.Errorf("disable acted=%d enabled=%v", n, h.src.enabled)
	}
	if n := h.hotkeys.Trigger(HotkeyEnable, false); n != 0 || h.src.enabled {
		t.Errorf("release acted=%d enabled=%v", n, h.src.enabled)
	}
	if n := h.hotkeys.Trigger(HotkeyEnable, true); n != 1 || !h.src.enabled {
		t.Errorf("enable acted=%d enabled=%v", n, h.src.enabled)
	}

	h.f.Update(h.s)
	if h.hotkeys.Len() != 1 {
		t.Errorf("update registered the pair again")
	}
	h.f.Destroy()
	if h.hotkeys.Len() != 0 {
		t.Errorf("hotkey pairs after destroy = %d", h.hotkeys.Len())
	}
}

func TestHotkeysRegisteredOnceParentExists(t *testing.T) {
	h := newHarness(t, nil)
	h.f.Destroy()

	h.src.parent = nil
	ctx := &host.Context{Graphics: h.rec, Video: h.video, Hotkeys: h.hotkeys}
	h.f = NewFilter(ctx, h.s, h.src, WithLogger(NopLogger), WithEffectPath(testEffectPath))
	if h.hotkeys.Len() != 0 {
		t.Fatalf("hotkeys registered without a parent")
	}

	h.src.parent = h.parent
	h.f.Update(h.s)
	if h.hotkeys.Len() != 1 {
		t.Errorf("hotkey pairs = %d, want 1", h.hotkeys.Len())
	}
}

func TestPropertiesDescribeSettings(t *testing.T) {
	h := newHarness(t, nil)
	props := h.f.Properties()

	delay := props.Get(SettingDelayMS)
	if delay == nil || delay.Min != 1 || delay.Max != 1000 || delay.Suffix != "ms" {
		t.Errorf("delay property = %+v", delay)
	}
	trigger := props.Get(SettingResetTrigger)
	if trigger == nil || len(trigger.Items) != 6 || trigger.Items[5].Value != int64(ResetTriggerEnable) {
		t.Errorf("reset trigger property = %+v", trigger)
	}
	if alpha := props.Get(SettingAlpha); alpha == nil || alpha.Min != 0.001 || alpha.Max != 1 {
		t.Errorf("alpha property = %+v", alpha)
	}
	if info := props.Get("plugin_info"); info == nil || !strings.Contains(info.Text, Version) {
		t.Errorf("info property = %+v", info)
	}
}

func TestDefaultsApply(t *testing.T) {
	h := newHarness(t, nil)
	p := h.f.params
	if p.Scale.X != 1 || p.Scale.Y != 1 || p.Alpha != 1 || p.Inversed {
		t.Errorf("params = %+v", p)
	}
	if h.f.policy.Trigger != ResetTriggerNone {
		t.Errorf("trigger = %v", h.f.policy.Trigger)
	}
}

func TestRegisteredFilterClampsLoadedSettings(t *testing.T) {
	r := host.NewRegistry()
	if err := Register(r, NopLogger, WithLogger(NopLogger), WithEffectPath(testEffectPath)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	values, err := settings.Decode([]byte("delay_ms: 5000\nscale_x: 0\nalpha: 7\nreset_trigger: 42\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	rec := gfxtest.NewRecorder()
	rec.Effects[testEffectPath] = gfxtest.NewEffect(rec, "render", paramImage, paramMultiplier)
	target := &fakeTarget{id: uuid.New(), w: 1920, h: 1080, rec: rec}
	src := &fakeSource{id: uuid.New(), enabled: true, target: target, parent: target}
	ctx := &host.Context{
		Graphics: rec,
		Video:    &fakeVideo{info: host.VideoInfo{FPSNum: 30000, FPSDen: 1000}},
		Hotkeys:  host.NewHotkeys(),
	}

	hf, s, err := r.Create(ctx, FilterID, values, src)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f := hf.(*Filter)
	f.Tick(1.0 / 30)

	if s.Int(SettingDelayMS) != 1000 {
		t.Errorf("delay_ms = %d, want 1000", s.Int(SettingDelayMS))
	}
	if f.buffer.Len() != 30 {
		t.Errorf("slots = %d, want 30", f.buffer.Len())
	}
	if f.params.Scale.X != 0.01 || f.params.Alpha != 1 {
		t.Errorf("params = %+v", f.params)
	}
	if f.policy.Trigger != ResetTriggerNone {
		t.Errorf("trigger = %v, want None", f.policy.Trigger)
	}
	f.Destroy()
}

func TestRegisterInstallsDescriptor(t *testing.T) {
	r := host.NewRegistry()
	if err := Register(r, NopLogger, WithLogger(NopLogger)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	info, err := r.Lookup(FilterID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if info.Name != FilterName || !info.Flags.Has(host.OutputVideo|host.OutputSRGB|host.OutputCustomDraw) {
		t.Errorf("info = %+v", info)
	}
	s, err := r.Defaults(FilterID)
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if s.Double(SettingAlpha) != 1 || s.Double(SettingScaleX) != 1 || s.Double(SettingScaleY) != 1 {
		t.Errorf("defaults = alpha %v scale %v,%v", s.Double(SettingAlpha), s.Double(SettingScaleX), s.Double(SettingScaleY))
	}
}
