package engine

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
	"github.com/google/uuid"
)

// trace collects render and lifecycle calls in order.
type trace struct {
	calls []string
}

func (t *trace) add(s string) { t.calls = append(t.calls, s) }

type baseTarget struct {
	id        uuid.UUID
	tr        *trace
	ticks     int
	destroyed bool
}

func (b *baseTarget) ID() uuid.UUID      { return b.id }
func (b *baseTarget) BaseWidth() uint32  { return 320 }
func (b *baseTarget) BaseHeight() uint32 { return 180 }
func (b *baseTarget) VideoRender()       { b.tr.add("base") }
func (b *baseTarget) Tick(float32)       { b.ticks++ }
func (b *baseTarget) Destroy()           { b.destroyed = true }

// passFilter renders its target, or skips itself when skip is set.
type passFilter struct {
	name  string
	src   host.Source
	tr    *trace
	skip  bool
	ticks int
	s     *settings.Settings
}

func (f *passFilter) Update(s *settings.Settings)      { f.s = s }
func (f *passFilter) Tick(float32)                     { f.ticks++ }
func (f *passFilter) Show()                            { f.tr.add(f.name + ".show") }
func (f *passFilter) Hide()                            { f.tr.add(f.name + ".hide") }
func (f *passFilter) Activate()                        { f.tr.add(f.name + ".activate") }
func (f *passFilter) Deactivate()                      { f.tr.add(f.name + ".deactivate") }
func (f *passFilter) Destroy()                         { f.tr.add(f.name + ".destroy") }
func (f *passFilter) Properties() *settings.Properties { return passProperties() }

func passProperties() *settings.Properties {
	props := settings.NewProperties()
	props.AddInt("delay_ms", "Delay", 1, 1000, 1)
	return props
}

func (f *passFilter) Render() {
	if f.skip {
		f.src.SkipVideoFilter()
		return
	}
	f.tr.add(f.name)
	f.src.FilterTarget().VideoRender()
}

type fixture struct {
	e       *engine
	tr      *trace
	base    *baseTarget
	chain   *Chain
	filters map[string]*passFilter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{tr: &trace{}, filters: make(map[string]*passFilter)}

	reg := host.NewRegistry()
	err := reg.Register(host.FilterInfo{
		ID:    "pass",
		Name:  "Pass",
		Flags: host.OutputVideo,
		Create: func(_ *host.Context, s *settings.Settings, src host.Source) (host.Filter, error) {
			f := &passFilter{name: src.Name(), src: src, tr: fx.tr, s: s}
			fx.filters[f.name] = f
			return f, nil
		},
		Defaults:   func(s *settings.Settings) { s.SetDefaultInt("level", 1) },
		Properties: passProperties,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	fx.e = NewEngine(WithRegistry(reg), WithWorkers(2)).(*engine)
	t.Cleanup(fx.e.pool.Stop)

	fx.base = &baseTarget{id: uuid.New(), tr: fx.tr}
	fx.chain = fx.e.AddChain("camera", fx.base)
	return fx
}

func (fx *fixture) add(t *testing.T, name string) uuid.UUID {
	t.Helper()
	id, err := fx.e.AddFilter(fx.chain.ID(), "pass", name, nil)
	if err != nil {
		t.Fatalf("AddFilter(%s): %v", name, err)
	}
	return id
}

func TestAddFilterForwardsChainState(t *testing.T) {
	fx := newFixture(t)
	fx.add(t, "a")

	want := []string{"a.show", "a.activate"}
	if !slices.Equal(fx.tr.calls, want) {
		t.Errorf("calls = %v, want %v", fx.tr.calls, want)
	}
	if got := fx.filters["a"].s.Int("level"); got != 1 {
		t.Errorf("level = %d, want the default 1", got)
	}
}

func TestAddFilterErrors(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.e.AddFilter(uuid.New(), "pass", "x", nil); !errors.Is(err, ErrUnknownChain) {
		t.Errorf("unknown chain: err = %v", err)
	}
	if _, err := fx.e.AddFilter(fx.chain.ID(), "missing", "x", nil); !errors.Is(err, host.ErrUnknownFilter) {
		t.Errorf("unknown type: err = %v", err)
	}
	if len(fx.chain.slots) != 0 {
		t.Errorf("failed adds left %d slots", len(fx.chain.slots))
	}
}

func TestChainRendersTopDown(t *testing.T) {
	fx := newFixture(t)
	fx.add(t, "a")
	fx.add(t, "b")
	c := fx.add(t, "c")
	fx.tr.calls = nil

	fx.chain.VideoRender()
	want := []string{"c", "b", "a", "base"}
	if !slices.Equal(fx.tr.calls, want) {
		t.Fatalf("render = %v, want %v", fx.tr.calls, want)
	}

	if err := fx.e.SetFilterEnabled(fx.chain.ID(), c, false); err != nil {
		t.Fatalf("SetFilterEnabled: %v", err)
	}
	fx.filters["b"].skip = true
	fx.tr.calls = nil

	fx.chain.VideoRender()
	want = []string{"a", "base"}
	if !slices.Equal(fx.tr.calls, want) {
		t.Errorf("render = %v, want %v", fx.tr.calls, want)
	}
}

func TestFilterTargetMatchesBase(t *testing.T) {
	fx := newFixture(t)
	fx.add(t, "a")

	src := fx.filters["a"].src
	target := src.FilterTarget()
	if target.BaseWidth() != 320 || target.BaseHeight() != 180 {
		t.Errorf("target size = %dx%d, want 320x180", target.BaseWidth(), target.BaseHeight())
	}
	if src.FilterParent().ID() != fx.chain.ID() {
		t.Error("parent is not the chain")
	}
	if target != src.FilterTarget() {
		t.Error("FilterTarget is not stable")
	}
}

func TestRemoveFilterReindexes(t *testing.T) {
	fx := newFixture(t)
	a := fx.add(t, "a")
	fx.add(t, "b")
	fx.tr.calls = nil

	if err := fx.e.RemoveFilter(fx.chain.ID(), a); err != nil {
		t.Fatalf("RemoveFilter: %v", err)
	}
	want := []string{"a.deactivate", "a.hide", "a.destroy"}
	if !slices.Equal(fx.tr.calls, want) {
		t.Errorf("calls = %v, want %v", fx.tr.calls, want)
	}
	if err := fx.e.RemoveFilter(fx.chain.ID(), a); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("second RemoveFilter = %v, want ErrUnknownFilter", err)
	}

	fx.tr.calls = nil
	fx.chain.VideoRender()
	want = []string{"b", "base"}
	if !slices.Equal(fx.tr.calls, want) {
		t.Errorf("render = %v, want %v", fx.tr.calls, want)
	}
}

func TestChainVisibilityIsEdgeTriggered(t *testing.T) {
	fx := newFixture(t)
	fx.add(t, "a")
	fx.tr.calls = nil

	id := fx.chain.ID()
	_ = fx.e.SetChainVisible(id, false)
	_ = fx.e.SetChainVisible(id, false)
	_ = fx.e.SetChainActive(id, false)
	_ = fx.e.SetChainActive(id, true)
	_ = fx.e.SetChainVisible(id, true)

	want := []string{"a.hide", "a.deactivate", "a.activate", "a.show"}
	if !slices.Equal(fx.tr.calls, want) {
		t.Errorf("calls = %v, want %v", fx.tr.calls, want)
	}
	if err := fx.e.SetChainVisible(uuid.New(), true); !errors.Is(err, ErrUnknownChain) {
		t.Errorf("unknown chain: err = %v", err)
	}
}

func TestFrameTicksVisibleChains(t *testing.T) {
	fx := newFixture(t)
	fx.add(t, "a")

	hidden := &baseTarget{id: uuid.New(), tr: fx.tr}
	hc := fx.e.AddChain("hidden", hidden)
	_ = fx.e.SetChainVisible(hc.ID(), false)

	for range 3 {
		fx.e.frame(1.0 / 60)
	}
	if fx.base.ticks != 3 || fx.filters["a"].ticks != 3 {
		t.Errorf("ticks = base %d, filter %d; want 3 each", fx.base.ticks, fx.filters["a"].ticks)
	}
	if hidden.ticks != 0 {
		t.Errorf("hidden chain ticked %d times", hidden.ticks)
	}
}

func TestUpdateFilterLayersSettings(t *testing.T) {
	fx := newFixture(t)
	id := fx.add(t, "a")

	values := settings.New()
	values.SetInt("delay_ms", 250)
	if err := fx.e.UpdateFilter(fx.chain.ID(), id, values); err != nil {
		t.Fatalf("UpdateFilter: %v", err)
	}
	got, err := fx.e.FilterSettings(fx.chain.ID(), id)
	if err != nil {
		t.Fatalf("FilterSettings: %v", err)
	}
	if got.Int("delay_ms") != 250 || got.Int("level") != 1 {
		t.Errorf("settings = %v", got.Values())
	}
	if fx.filters["a"].s.Int("delay_ms") != 250 {
		t.Error("filter did not receive the update")
	}
}

func TestUpdateFilterClampsToProperties(t *testing.T) {
	fx := newFixture(t)
	values := settings.New()
	values.SetInt("delay_ms", 0)
	id, err := fx.e.AddFilter(fx.chain.ID(), "pass", "a", values)
	if err != nil {
		t.Fatalf("AddFilter: %v", err)
	}
	if got := fx.filters["a"].s.Int("delay_ms"); got != 1 {
		t.Errorf("created with delay_ms = %d, want 1", got)
	}

	values.SetInt("delay_ms", 5000)
	if err := fx.e.UpdateFilter(fx.chain.ID(), id, values); err != nil {
		t.Fatalf("UpdateFilter: %v", err)
	}
	if got := fx.filters["a"].s.Int("delay_ms"); got != 1000 {
		t.Errorf("filter saw delay_ms = %d, want 1000", got)
	}
	s, _ := fx.e.FilterSettings(fx.chain.ID(), id)
	if s.Int("delay_ms") != 1000 {
		t.Errorf("stored delay_ms = %d, want 1000", s.Int("delay_ms"))
	}
}

func TestRemoveChainDestroysFilters(t *testing.T) {
	fx := newFixture(t)
	fx.add(t, "a")
	fx.tr.calls = nil

	if err := fx.e.RemoveChain(fx.chain.ID()); err != nil {
		t.Fatalf("RemoveChain: %v", err)
	}
	if !slices.Contains(fx.tr.calls, "a.destroy") {
		t.Errorf("calls = %v, want a.destroy", fx.tr.calls)
	}
	if !fx.base.destroyed {
		t.Error("base source not destroyed")
	}
	if len(fx.e.Chains()) != 0 {
		t.Error("chain still registered")
	}
	if err := fx.e.RemoveChain(fx.chain.ID()); !errors.Is(err, ErrUnknownChain) {
		t.Errorf("second RemoveChain = %v", err)
	}
}

func TestDispatchKeyTriggersBoundHotkeys(t *testing.T) {
	fx := newFixture(t)

	var got []bool
	fn := func(pressed bool) bool {
		got = append(got, pressed)
		return true
	}
	if _, err := fx.e.Hotkeys().RegisterPair(fx.chain.ID(), "on", "On", "off", "Off", fn, fn); err != nil {
		t.Fatalf("RegisterPair: %v", err)
	}
	fx.e.Hotkeys().Bind(common.KeyE, "on")

	if n := fx.e.DispatchKey(common.KeyE, true); n != 1 {
		t.Errorf("DispatchKey = %d, want 1", n)
	}
	if n := fx.e.DispatchKey(common.KeyD, true); n != 0 {
		t.Errorf("unbound DispatchKey = %d, want 0", n)
	}
	if !slices.Equal(got, []bool{true}) {
		t.Errorf("callbacks = %v", got)
	}
}

func TestVideoInfo(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
		want host.VideoInfo
		dur  time.Duration
	}{
		{"default", 0, host.VideoInfo{FPSNum: 60, FPSDen: 1}, time.Second / 60},
		{"integer", 30, host.VideoInfo{FPSNum: 30, FPSDen: 1}, time.Second / 30},
		{"ntsc", 29.97, host.VideoInfo{FPSNum: 29970, FPSDen: 1000}, 33366700 * time.Nanosecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := videoInfoFromFPS(tt.fps)
			if got != tt.want {
				t.Fatalf("videoInfoFromFPS(%v) = %+v, want %+v", tt.fps, got, tt.want)
			}
			if d := frameDuration(got); d != tt.dur {
				t.Errorf("frameDuration = %v, want %v", d, tt.dur)
			}
		})
	}

	e := NewEngine(WithVideoInfo(host.VideoInfo{FPSNum: 30000, FPSDen: 1001})).(*engine)
	defer e.pool.Stop()
	if got := e.VideoInfo(); got.FPSNum != 30000 || got.FPSDen != 1001 {
		t.Errorf("VideoInfo = %+v", got)
	}
	e.SetTickRate(-1)
	if got := e.VideoInfo(); got.FPSNum != 60 || got.FPSDen != 1 {
		t.Errorf("VideoInfo after reset = %+v", got)
	}
}

func TestEngineFlagsAcrossGoroutines(t *testing.T) {
	fx := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				fx.e.EnableProfiler()
			} else {
				fx.e.DisableProfiler()
			}
			fx.e.SetVideoInfo(host.VideoInfo{FPSNum: 30, FPSDen: 1})
		}(i)
	}
	wg.Wait()

	select {
	case d := <-fx.e.tickRateChannel:
		t.Fatalf("rate %v sent before the frame loop started", d)
	default:
	}

	fx.e.EnableProfiler()
	if !fx.e.profilingEnabled.Load() {
		t.Error("profiler not enabled")
	}

	fx.e.running.Store(true)
	fx.e.SetVideoInfo(host.VideoInfo{FPSNum: 25, FPSDen: 1})
	select {
	case d := <-fx.e.tickRateChannel:
		if d != 40*time.Millisecond {
			t.Errorf("rate = %v, want 40ms", d)
		}
	default:
		t.Error("running engine did not receive the new rate")
	}
}
