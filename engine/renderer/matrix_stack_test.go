package renderer

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestMatrixStackPushPop(t *testing.T) {
	m := newMatrixStack()
	if m.pop() {
		t.Fatal("popped the base matrix")
	}

	m.translate(10, 20, 0)
	m.push()
	m.scale(2, 2, 1)
	if m.depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.depth())
	}
	if x, y, _ := common.TransformPoint(m.top()[:], 1, 1, 0); !near(x, 12) || !near(y, 22) {
		t.Errorf("pushed transform maps (1,1) to (%v,%v), want (12,22)", x, y)
	}

	if !m.pop() {
		t.Fatal("pop failed with a pushed matrix")
	}
	if x, y, _ := common.TransformPoint(m.top()[:], 1, 1, 0); !near(x, 11) || !near(y, 21) {
		t.Errorf("restored transform maps (1,1) to (%v,%v), want (11,21)", x, y)
	}

	m.push()
	m.reset()
	if m.depth() != 1 {
		t.Errorf("depth after reset = %d, want 1", m.depth())
	}
	if x, y, _ := common.TransformPoint(m.top()[:], 3, 4, 0); !near(x, 3) || !near(y, 4) {
		t.Errorf("reset left a transform: (%v,%v)", x, y)
	}
}

func TestMatrixStackRotate(t *testing.T) {
	m := newMatrixStack()
	m.rotate(0, 0, 1, math.Pi/2)
	if x, y, _ := common.TransformPoint(m.top()[:], 1, 0, 0); !near(x, 0) || !near(y, 1) {
		t.Errorf("rotated (1,0) = (%v,%v), want (0,1)", x, y)
	}
	m.identity()
	if x, y, _ := common.TransformPoint(m.top()[:], 1, 0, 0); !near(x, 1) || !near(y, 0) {
		t.Errorf("identity left a rotation: (%v,%v)", x, y)
	}
}

func TestSpriteTransformFlip(t *testing.T) {
	var ident, proj [16]float32
	common.Identity(ident[:])
	common.Identity(proj[:])

	tests := []struct {
		name string
		flip uint32
		// where the quad corner (0,0) lands
		x, y float32
	}{
		{"none", 0, 0, 0},
		{"u", gfx.FlipU, 40, 0},
		{"v", gfx.FlipV, 0, 30},
		{"uv", gfx.FlipU | gfx.FlipV, 40, 30},
	}
	for _, tt := range tests {
		m := spriteTransform(proj, ident, tt.flip, 40, 30)
		if x, y, _ := common.TransformPoint(m[:], 0, 0, 0); !near(x, tt.x) || !near(y, tt.y) {
			t.Errorf("%s: origin maps to (%v,%v), want (%v,%v)", tt.name, x, y, tt.x, tt.y)
		}
		// the opposite corner always lands on the other extreme
		if x, y, _ := common.TransformPoint(m[:], 40, 30, 0); !near(x, 40-tt.x) || !near(y, 30-tt.y) {
			t.Errorf("%s: far corner maps to (%v,%v)", tt.name, x, y)
		}
	}
}
