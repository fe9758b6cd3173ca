package feedback

import (
	"time"

	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
)

// FrameSlot is one delayed frame: the render target holding it and when it was composited.
// The slot owns its target exclusively.
type FrameSlot struct {
	Target      gfx.RenderTarget
	CaptureTime time.Time
}

// Texture returns the slot's rendered texture, or nil if the slot has no target or has not been
// rendered into yet.
func (s *FrameSlot) Texture() gfx.Texture {
	if s == nil || s.Target == nil {
		return nil
	}
	return s.Target.Texture()
}
