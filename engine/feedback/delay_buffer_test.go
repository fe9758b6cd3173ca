package feedback

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx/gfxtest"
)

func targetsOf(b *DelayBuffer) []gfx.RenderTarget {
	var out []gfx.RenderTarget
	for _, s := range b.Slots() {
		out = append(out, s.Target)
	}
	return out
}

func TestDelayBufferRotationKeepsOrder(t *testing.T) {
	rec := gfxtest.NewRecorder()
	b := NewDelayBuffer(rec, NopLogger)
	b.Resize(3)
	initial := b.Slots()

	// rotate past the ring boundary several times
	for i := 0; i < 7; i++ {
		s := b.PopOldest()
		b.PushNewest(s)
	}

	got := b.Slots()
	for i := range got {
		if want := initial[(i+7)%3]; got[i] != want {
			t.Fatalf("slot %d out of order after rotation", i)
		}
	}
	if b.PeekOldest() != got[0] || b.PeekNewest() != got[2] {
		t.Error("peek disagrees with Slots")
	}
}

func TestDelayBufferResizeAcrossWrap(t *testing.T) {
	rec := gfxtest.NewRecorder()
	b := NewDelayBuffer(rec, NopLogger)
	b.Resize(4)
	b.PushNewest(b.PopOldest())
	b.PushNewest(b.PopOldest())
	before := targetsOf(b)

	b.Resize(9)
	after := targetsOf(b)
	for i, rt := range before {
		if after[i] != rt {
			t.Fatalf("grow moved slot %d", i)
		}
	}
	if len(after) != 9 {
		t.Fatalf("len = %d, want 9", len(after))
	}

	b.Resize(2)
	shrunk := targetsOf(b)
	if shrunk[0] != after[7] || shrunk[1] != after[8] {
		t.Error("shrink did not drop from the front")
	}
	if rec.Live() != 3 {
		t.Errorf("live targets = %d, want 3 (two slots and scratch)", rec.Live())
	}
}

func TestDelayBufferFree(t *testing.T) {
	rec := gfxtest.NewRecorder()
	b := NewDelayBuffer(rec, NopLogger)
	b.Resize(5)
	b.Free()

	if b.Len() != 0 || b.Scratch() != nil || b.Allocated() {
		t.Fatalf("len=%d scratch=%v after Free", b.Len(), b.Scratch())
	}
	if rec.Created != 6 || rec.Destroyed != 6 {
		t.Errorf("created=%d destroyed=%d, want 6 and 6", rec.Created, rec.Destroyed)
	}
	if b.PopOldest() != nil || b.PeekNewest() != nil {
		t.Error("empty buffer returned a slot")
	}

	enters := rec.Enters()
	b.Free()
	if rec.Enters() != enters {
		t.Error("freeing an empty buffer entered the graphics context")
	}

	b.Resize(2)
	if b.Scratch() == nil || b.Len() != 2 {
		t.Error("buffer did not rebuild after Free")
	}
	b.Resize(0)
	if b.Allocated() {
		t.Error("Resize(0) did not free")
	}
	if len(rec.Violations) != 0 {
		t.Errorf("violations: %v", rec.Violations)
	}
}

func TestDelayBufferResizeSameCountIsNoop(t *testing.T) {
	rec := gfxtest.NewRecorder()
	b := NewDelayBuffer(rec, NopLogger)
	b.Resize(3)
	enters := rec.Enters()
	b.Resize(3)
	if rec.Enters() != enters || rec.Created != 4 {
		t.Errorf("enters %d->%d created=%d", enters, rec.Enters(), rec.Created)
	}
}

func TestDelayBufferSwapScratch(t *testing.T) {
	rec := gfxtest.NewRecorder()
	b := NewDelayBuffer(rec, NopLogger)
	b.Resize(1)

	slot := b.PopOldest()
	slotTarget, scratch := slot.Target, b.Scratch()
	b.SwapScratch(slot)

	if slot.Target != scratch || b.Scratch() != slotTarget {
		t.Error("targets were not exchanged")
	}
}

func TestDelayBufferResizeRefillsFailedTargets(t *testing.T) {
	rec := gfxtest.NewRecorder()
	b := NewDelayBuffer(rec, NopLogger)
	b.Resize(2)
	kept := targetsOf(b)

	rec.FailCreate = true
	b.Resize(3)
	if b.Complete() {
		t.Fatal("buffer complete after a failed create")
	}

	rec.FailCreate = false
	b.Resize(3)
	if !b.Complete() {
		t.Fatal("Resize with an unchanged count did not refill the missing target")
	}
	got := targetsOf(b)
	if got[0] != kept[0] || got[1] != kept[1] {
		t.Error("refill replaced a live target")
	}
	if rec.Created != 4 {
		t.Errorf("created = %d, want 4", rec.Created)
	}

	b.Free()
	if rec.Live() != 0 || len(rec.Violations) != 0 {
		t.Errorf("live=%d violations=%v", rec.Live(), rec.Violations)
	}
}
