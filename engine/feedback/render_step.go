package feedback

import (
	"time"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
)

const (
	paramImage      = "image"
	paramMultiplier = "multiplier"
	techniqueDraw   = "Draw"
)

// RenderOutcome is what a call to RenderFeedbackStep.Render did.
type RenderOutcome int

const (
	// RenderComposited composited a new frame into the buffer and drew it.
	RenderComposited RenderOutcome = iota
	// RenderRedrawn redrew the frame already composited this tick.
	RenderRedrawn
	// RenderSkipped drew nothing; the caller should let the unfiltered frame show.
	RenderSkipped
)

// Frame is the per-render input of RenderFeedbackStep.
type Frame struct {
	Target host.Target
	Width  uint32
	Height uint32
	Params EffectParameters
}

// RenderFeedbackStep composites at most one new frame per tick. Any further Render in the same tick
// redraws the newest buffered frame.
type RenderFeedbackStep struct {
	g          gfx.Graphics
	effect     gfx.Effect
	image      gfx.EffectParam
	multiplier gfx.EffectParam
	processed  bool
	now        func() time.Time
}

// NewRenderFeedbackStep creates a render step that composites with effect. A nil effect, or one
// without an "image" parameter, leaves the step not ready.
//
// Parameters:
//   - g: the graphics subsystem
//   - effect: the compositing effect, may be nil
//
// Returns:
//   - *RenderFeedbackStep: the render step
func NewRenderFeedbackStep(g gfx.Graphics, effect gfx.Effect) *RenderFeedbackStep {
	r := &RenderFeedbackStep{g: g, effect: effect, now: time.Now}
	if effect != nil {
		r.image = effect.Param(paramImage)
		r.multiplier = effect.Param(paramMultiplier)
	}
	return r
}

// Ready reports whether the step has a usable effect.
func (r *RenderFeedbackStep) Ready() bool {
	return r.effect != nil && r.image != nil
}

// BeginTick allows the next Render to composite again.
func (r *RenderFeedbackStep) BeginTick() {
	r.processed = false
}

// Processed reports whether a frame was composited since the last BeginTick.
func (r *RenderFeedbackStep) Processed() bool {
	return r.processed
}

// Render composites f.Target with the oldest buffered frame into the scratch target, rotates the
// scratch into the buffer as the newest slot and draws it to the current surface.
//
// Parameters:
//   - buf: the delay buffer
//   - f: the target, its size and the effect parameters
//
// Returns:
//   - RenderOutcome: what was drawn
func (r *RenderFeedbackStep) Render(buf *DelayBuffer, f Frame) RenderOutcome {
	if !r.Ready() || buf.Empty() {
		return RenderSkipped
	}
	if r.processed {
		r.drawNewest(buf, f.Width, f.Height)
		return RenderRedrawn
	}
	scratch := buf.Scratch()
	if scratch == nil {
		return RenderSkipped
	}

	slot := buf.PopOldest()
	scratch.Reset()

	r.g.BlendStatePush()
	blend := f.Params.CompositeBlend()
	r.g.BlendFunction(blend.Src, blend.Dst)
	if scratch.Begin(f.Width, f.Height) {
		r.g.Clear([4]float32{})
		r.g.Ortho(0, float32(f.Width), 0, float32(f.Height), -100, 100)
		if f.Params.Inversed {
			f.Target.VideoRender()
		}
		r.drawDelayed(slot, f)
		if !f.Params.Inversed {
			f.Target.VideoRender()
		}
		scratch.End()
	}
	r.g.BlendStatePop()

	buf.SwapScratch(slot)
	slot.CaptureTime = r.now()
	buf.PushNewest(slot)

	r.drawNewest(buf, f.Width, f.Height)
	r.processed = true
	return RenderComposited
}

func (r *RenderFeedbackStep) drawDelayed(slot *FrameSlot, f Frame) {
	tex := slot.Texture()
	if tex == nil {
		return
	}
	p := f.Params

	r.g.MatrixPush()
	r.g.MatrixTranslate(p.Offset.X, p.Offset.Y, 0)
	r.g.MatrixScale(p.Scale.X, p.Scale.Y, 1)
	r.g.MatrixRotate(0, 0, 1, common.Radians(p.Rotation))

	r.image.SetTexture(tex)
	if r.multiplier != nil {
		r.multiplier.SetFloat(p.Alpha)
	}
	gfx.DrawTechnique(r.g, r.effect, techniqueDraw, tex, f.Width, f.Height)

	r.g.MatrixIdentity()
	r.g.MatrixPop()
}

// drawNewest draws the newest slot with premultiplied alpha using the host's default effect.
func (r *RenderFeedbackStep) drawNewest(buf *DelayBuffer, width, height uint32) {
	tex := buf.PeekNewest().Texture()
	if tex == nil {
		return
	}
	effect := r.g.DefaultEffect()

	r.g.BlendStatePush()
	r.g.BlendFunction(gfx.BlendOne, gfx.BlendInvSrcAlpha)
	if image := effect.Param(paramImage); image != nil {
		image.SetTexture(tex)
	}
	gfx.DrawTechnique(r.g, effect, techniqueDraw, tex, width, height)
	r.g.BlendStatePop()
}
