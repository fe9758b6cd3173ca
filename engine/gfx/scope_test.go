package gfx_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx/gfxtest"
)

func TestDoLeavesOnPanic(t *testing.T) {
	rec := gfxtest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		gfx.Do(rec, func() {
			if rec.Depth() != 1 {
				t.Fatalf("depth inside Do = %d, want 1", rec.Depth())
			}
			panic("boom")
		})
	}()

	if rec.Depth() != 0 {
		t.Errorf("depth after panic = %d, want 0", rec.Depth())
	}
}

func TestDrawTechniqueDrawsOncePerPass(t *testing.T) {
	rec := gfxtest.NewRecorder()
	effect := rec.DefaultEffect()
	tex := &gfxtest.Texture{ID: 7, W: 4, H: 4}

	gfx.DrawTechnique(rec, effect, "Draw", tex, 4, 4)
	gfx.DrawTechnique(rec, effect, "Draw", tex, 4, 4)

	if len(rec.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(rec.Draws))
	}
	if rec.Draws[0].Technique != "Draw" || rec.Draws[0].Effect != "default" {
		t.Errorf("draw = %+v", rec.Draws[0])
	}
}

func TestDrawTechniqueUnknownTechnique(t *testing.T) {
	rec := gfxtest.NewRecorder()
	gfx.DrawTechnique(rec, rec.DefaultEffect(), "Missing", &gfxtest.Texture{}, 1, 1)
	if len(rec.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(rec.Draws))
	}
}

func TestBlendTypeString(t *testing.T) {
	if gfx.BlendInvSrcAlpha.String() != "invsrcalpha" {
		t.Errorf("String = %q", gfx.BlendInvSrcAlpha.String())
	}
}
