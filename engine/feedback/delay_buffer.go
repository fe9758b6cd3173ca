package feedback

import (
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
)

// DelayBuffer is a FIFO of FrameSlots (front is oldest) plus one scratch render target that is not part
// of the sequence. It owns every render target it holds. Resize and Free create and destroy targets
// inside their own graphics scope.
type DelayBuffer struct {
	g       gfx.Graphics
	log     Logger
	ring    []*FrameSlot
	head    int
	count   int
	scratch gfx.RenderTarget
	// scratchLive is true from scratch creation until Free, even if creation failed.
	scratchLive bool
}

// NewDelayBuffer creates an empty DelayBuffer.
//
// Parameters:
//   - g: the graphics subsystem render targets are created with
//   - log: where target creation failures are reported
//
// Returns:
//   - *DelayBuffer: the empty buffer
func NewDelayBuffer(g gfx.Graphics, log Logger) *DelayBuffer {
	return &DelayBuffer{g: g, log: log}
}

// Len returns the number of buffered slots.
func (b *DelayBuffer) Len() int {
	return b.count
}

// Empty reports whether the buffer holds no slots.
func (b *DelayBuffer) Empty() bool {
	return b.count == 0
}

// Scratch returns the scratch target, or nil if the buffer is freed.
func (b *DelayBuffer) Scratch() gfx.RenderTarget {
	return b.scratch
}

// Allocated reports whether the buffer holds any slot or a scratch target.
func (b *DelayBuffer) Allocated() bool {
	return b.count > 0 || b.scratchLive
}

// Resize grows or shrinks the buffer to n slots. Growth appends fresh slots at the back and leaves the
// existing ones untouched; shrinking destroys slots from the front. The scratch target is created on
// first use, and a slot or scratch whose target failed to create is given a new one. n <= 0 frees
// everything.
//
// Parameters:
//   - n: the required slot count
func (b *DelayBuffer) Resize(n int) {
	if n <= 0 {
		b.Free()
		return
	}
	if b.scratchLive && n == b.count && b.Complete() {
		return
	}
	gfx.Do(b.g, func() {
		b.scratchLive = true
		for b.count > n {
			b.destroyTarget(b.popFront().Target)
		}
		if b.scratch == nil {
			b.scratch = b.createTarget()
		}
		for i := 0; i < b.count; i++ {
			if s := b.ring[(b.head+i)%len(b.ring)]; s.Target == nil {
				s.Target = b.createTarget()
			}
		}
		for b.count < n {
			b.pushBack(&FrameSlot{Target: b.createTarget()})
		}
	})
}

// Complete reports whether the scratch and every slot hold a render target. A freed buffer is not
// complete.
func (b *DelayBuffer) Complete() bool {
	if b.scratch == nil {
		return false
	}
	for i := 0; i < b.count; i++ {
		if b.ring[(b.head+i)%len(b.ring)].Target == nil {
			return false
		}
	}
	return true
}

// Free destroys every slot and the scratch target.
func (b *DelayBuffer) Free() {
	if !b.Allocated() {
		return
	}
	gfx.Do(b.g, func() {
		for b.count > 0 {
			b.destroyTarget(b.popFront().Target)
		}
		b.destroyTarget(b.scratch)
		b.scratch = nil
		b.scratchLive = false
		b.ring = nil
		b.head = 0
	})
}

// PeekOldest returns the front slot without removing it, or nil.
func (b *DelayBuffer) PeekOldest() *FrameSlot {
	if b.count == 0 {
		return nil
	}
	return b.ring[b.head]
}

// PeekNewest returns the back slot without removing it, or nil.
func (b *DelayBuffer) PeekNewest() *FrameSlot {
	if b.count == 0 {
		return nil
	}
	return b.ring[(b.head+b.count-1)%len(b.ring)]
}

// PopOldest removes and returns the front slot, or nil if the buffer is empty.
func (b *DelayBuffer) PopOldest() *FrameSlot {
	if b.count == 0 {
		return nil
	}
	return b.popFront()
}

// PushNewest appends a slot at the back. The buffer takes ownership of its target.
func (b *DelayBuffer) PushNewest(s *FrameSlot) {
	b.pushBack(s)
}

// SwapScratch exchanges the slot's target with the scratch target.
//
// Parameters:
//   - s: the slot whose target becomes the new scratch
func (b *DelayBuffer) SwapScratch(s *FrameSlot) {
	b.scratch, s.Target = s.Target, b.scratch
}

// Slots returns the slots oldest first.
func (b *DelayBuffer) Slots() []*FrameSlot {
	out := make([]*FrameSlot, b.count)
	for i := range out {
		out[i] = b.ring[(b.head+i)%len(b.ring)]
	}
	return out
}

func (b *DelayBuffer) pushBack(s *FrameSlot) {
	if b.count == len(b.ring) {
		b.grow()
	}
	b.ring[(b.head+b.count)%len(b.ring)] = s
	b.count++
}

func (b *DelayBuffer) popFront() *FrameSlot {
	s := b.ring[b.head]
	b.ring[b.head] = nil
	b.head = (b.head + 1) % len(b.ring)
	b.count--
	return s
}

func (b *DelayBuffer) grow() {
	ring := make([]*FrameSlot, max(4, 2*len(b.ring)))
	for i := 0; i < b.count; i++ {
		ring[i] = b.ring[(b.head+i)%len(b.ring)]
	}
	b.ring = ring
	b.head = 0
}

func (b *DelayBuffer) createTarget() gfx.RenderTarget {
	rt, err := b.g.CreateRenderTarget(gfx.ColorFormatRGBA, gfx.ZStencilNone)
	if err != nil {
		b.log.Warnf("failed to create render target: %v", err)
		return nil
	}
	return rt
}

func (b *DelayBuffer) destroyTarget(rt gfx.RenderTarget) {
	if rt == nil {
		return
	}
	rt.Destroy()
}
