package feedback

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
	"github.com/google/uuid"
)

// Hotkey names registered on the filter's parent source.
const (
	HotkeyEnable  = "RecursionEffect.Enable"
	HotkeyDisable = "RecursionEffect.Disable"
)

// Filter is one recursion effect instance. The host calls every method from one goroutine.
type Filter struct {
	src        host.Source
	g          gfx.Graphics
	video      host.Video
	hotkeys    *host.Hotkeys
	log        Logger
	effectPath string
	now        func() time.Time

	effect  gfx.Effect
	buffer  *DelayBuffer
	tracker IntervalTracker
	policy  ResetPolicy
	params  EffectParameters
	step    *RenderFeedbackStep

	targetValid bool
	cx, cy      uint32
	hotkey      uuid.UUID
	metrics     counters
}

var _ host.Filter = &Filter{}

// NewFilter creates a filter, loads its compositing effect and applies s. An effect that fails to load
// is logged and leaves the filter passing its target through unchanged.
//
// Parameters:
//   - ctx: the host context
//   - s: the filter settings
//   - src: the host-side context of this instance
//   - options: functional options
//
// Returns:
//   - *Filter: the filter
func NewFilter(ctx *host.Context, s *settings.Settings, src host.Source, options ...FilterBuilderOption) *Filter {
	f := &Filter{
		src:        src,
		g:          ctx.Graphics,
		video:      ctx.Video,
		hotkeys:    ctx.Hotkeys,
		log:        NewStdLogger(false),
		effectPath: filepath.Join(ctx.DataPath, "effects", "render.wgsl"),
		now:        time.Now,
		params:     DefaultEffectParameters(),
	}
	for _, option := range options {
		option(f)
	}
	f.buffer = NewDelayBuffer(f.g, f.log)

	gfx.Do(f.g, func() {
		effect, err := f.g.LoadEffect(f.effectPath)
		if err != nil {
			f.log.Warnf("failed to load effect %s: %v", f.effectPath, err)
			return
		}
		f.effect = effect
	})
	f.step = NewRenderFeedbackStep(f.g, f.effect)
	f.step.now = f.now
	if f.effect != nil && !f.step.Ready() {
		f.log.Warnf("effect %s has no %q parameter", f.effectPath, paramImage)
	}

	f.Update(s)
	return f
}

func (f *Filter) Update(s *settings.Settings) {
	f.registerHotkeys()

	if f.tracker.SetDelay(s.Int(SettingDelayMS)) && f.tracker.Interval() != 0 {
		f.updateInterval(f.tracker.Interval())
	}
	f.params = EffectParametersFrom(s)
	f.policy = ResetPolicy{Trigger: ResetTrigger(s.Int(SettingResetTrigger))}
}

func (f *Filter) Tick(seconds float32) {
	defer f.publishState()

	f.step.BeginTick()
	if f.policy.Drains(f.src.Enabled()) {
		f.tracker.Reset()
		f.buffer.Free()
		return
	}
	if f.checkSize() {
		return
	}
	f.checkInterval()
}

func (f *Filter) Render() {
	defer f.publishState()

	target := f.src.FilterTarget()
	parent := f.src.FilterParent()
	if !f.targetValid || target == nil || parent == nil || f.buffer.Empty() || !f.step.Ready() {
		f.skip()
		return
	}

	switch f.step.Render(f.buffer, Frame{Target: target, Width: f.cx, Height: f.cy, Params: f.params}) {
	case RenderComposited:
		f.metrics.composites.Add(1)
	case RenderRedrawn:
		f.metrics.redraws.Add(1)
	default:
		f.skip()
	}
}

func (f *Filter) Show()       { f.lifecycle(EventShow) }
func (f *Filter) Hide()       { f.lifecycle(EventHide) }
func (f *Filter) Activate()   { f.lifecycle(EventActivate) }
func (f *Filter) Deactivate() { f.lifecycle(EventDeactivate) }

func (f *Filter) Properties() *settings.Properties {
	return FilterProperties()
}

// FilterProperties describes the filter settings and their ranges.
//
// Returns:
//   - *settings.Properties: the property descriptors
func FilterProperties() *settings.Properties {
	props := settings.NewProperties()
	props.AddInt(SettingDelayMS, "Delay", 1, 1000, 1).SetSuffix("ms")
	props.AddFloatSlider(SettingOffsetX, "Offset X", -1000, 1000, 1)
	props.AddFloatSlider(SettingOffsetY, "Offset Y", -1000, 1000, 1)
	props.AddFloatSlider(SettingScaleX, "Scale X", 0.01, 10, 0.01)
	props.AddFloatSlider(SettingScaleY, "Scale Y", 0.01, 10, 0.01)
	props.AddFloatSlider(SettingRotation, "Rotation", -360, 360, 1)
	props.AddFloatSlider(SettingAlpha, "Alpha", 0.001, 1, 0.001)
	props.AddBool(SettingInversed, "Inversed")
	list := props.AddIntList(SettingResetTrigger, "Reset Trigger")
	for t := ResetTriggerNone; t <= ResetTriggerEnable; t++ {
		list.AddItem(t.String(), int64(t))
	}
	props.AddText("plugin_info", fmt.Sprintf("%s (%s)", FilterName, Version))
	return props
}

func (f *Filter) Destroy() {
	if f.hotkey != uuid.Nil {
		f.hotkeys.UnregisterPair(f.hotkey)
		f.hotkey = uuid.Nil
	}
	f.buffer.Free()

	gfx.Do(f.g, func() {
		if f.effect != nil {
			f.effect.Destroy()
			f.effect = nil
		}
	})
	f.publishState()
}

// Metrics returns a snapshot of the filter counters.
func (f *Filter) Metrics() Metrics {
	return f.metrics.snapshot()
}

func (f *Filter) skip() {
	f.metrics.skips.Add(1)
	f.src.SkipVideoFilter()
}

func (f *Filter) lifecycle(ev LifecycleEvent) {
	if f.policy.Invalidates(ev) {
		f.log.Debugf("%s event invalidates the delay buffer", ev)
		f.invalidate()
	}
}

// invalidate frees the buffer and immediately re-sizes it for the current interval.
func (f *Filter) invalidate() {
	f.metrics.invalidations.Add(1)
	f.tracker.Reset()
	f.buffer.Free()
	f.checkInterval()
}

// checkSize tracks the target's resolution. It returns true when the tick should stop: the target is
// missing or unsized, or its resolution changed and the buffer was rebuilt.
func (f *Filter) checkSize() bool {
	target := f.src.FilterTarget()
	if target == nil {
		f.dropTarget()
		return true
	}
	cx, cy := target.BaseWidth(), target.BaseHeight()
	if cx == 0 || cy == 0 {
		f.dropTarget()
		return true
	}
	f.targetValid = true

	if cx != f.cx || cy != f.cy {
		f.log.Debugf("target resolution %dx%d -> %dx%d", f.cx, f.cy, cx, cy)
		f.cx, f.cy = cx, cy
		f.invalidate()
		return true
	}
	return false
}

func (f *Filter) dropTarget() {
	f.targetValid = false
	f.tracker.Reset()
	f.buffer.Free()
}

func (f *Filter) checkInterval() {
	interval := FrameInterval(f.video.VideoInfo())
	if f.tracker.Changed(interval) {
		f.updateInterval(interval)
		return
	}
	if f.tracker.Interval() != 0 && !f.buffer.Complete() {
		f.buffer.Resize(f.buffer.Len())
	}
}

func (f *Filter) updateInterval(interval uint64) {
	if !f.targetValid || interval == 0 {
		f.tracker.Reset()
		f.buffer.Free()
		return
	}
	n := f.tracker.Accept(interval)
	if n != f.buffer.Len() {
		f.log.Debugf("delay buffer %d -> %d frames (delay %dns, interval %dns)", f.buffer.Len(), n, f.tracker.Delay(), interval)
		f.metrics.resizes.Add(1)
	}
	f.buffer.Resize(n)
}

func (f *Filter) publishState() {
	f.metrics.slots.Store(int64(f.buffer.Len()))
	f.metrics.interval.Store(f.tracker.Interval())
}

func (f *Filter) registerHotkeys() {
	if f.hotkey != uuid.Nil || f.hotkeys == nil {
		return
	}
	parent := f.src.FilterParent()
	if parent == nil {
		return
	}
	id, err := f.hotkeys.RegisterPair(parent.ID(),
		HotkeyEnable, "Enable Recursion Effect",
		HotkeyDisable, "Disable Recursion Effect",
		f.enableHotkey, f.disableHotkey)
	if err != nil {
		f.log.Warnf("failed to register hotkeys: %v", err)
		return
	}
	f.hotkey = id
}

func (f *Filter) enableHotkey(pressed bool) bool {
	if !pressed || f.src.Enabled() {
		return false
	}
	f.src.SetEnabled(true)
	return true
}

func (f *Filter) disableHotkey(pressed bool) bool {
	if !pressed || !f.src.Enabled() {
		return false
	}
	f.src.SetEnabled(false)
	return true
}
