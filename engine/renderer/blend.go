package renderer

import (
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/cogentcore/webgpu/wgpu"
)

// blendFactor maps a gfx blend factor onto its WebGPU equivalent. Unknown factors map to One.
func blendFactor(b gfx.BlendType) wgpu.BlendFactor {
	switch b {
	case gfx.BlendZero:
		return wgpu.BlendFactorZero
	case gfx.BlendSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case gfx.BlendInvSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	case gfx.BlendDstAlpha:
		return wgpu.BlendFactorDstAlpha
	case gfx.BlendInvDstAlpha:
		return wgpu.BlendFactorOneMinusDstAlpha
	default:
		return wgpu.BlendFactorOne
	}
}

// blendState builds an additive WebGPU blend state applying the same factors to color and alpha.
func blendState(s gfx.BlendState) *wgpu.BlendState {
	component := wgpu.BlendComponent{
		SrcFactor: blendFactor(s.Src),
		DstFactor: blendFactor(s.Dst),
		Operation: wgpu.BlendOperationAdd,
	}
	return &wgpu.BlendState{Color: component, Alpha: component}
}

// blendStack holds the current blend state and the states saved by push.
type blendStack struct {
	current gfx.BlendState
	saved   []gfx.BlendState
}

func newBlendStack() *blendStack {
	return &blendStack{current: gfx.DefaultBlendState}
}

func (b *blendStack) push() {
	b.saved = append(b.saved, b.current)
}

// pop restores the most recently saved state. It reports false when nothing was saved.
func (b *blendStack) pop() bool {
	if len(b.saved) == 0 {
		return false
	}
	b.current = b.saved[len(b.saved)-1]
	b.saved = b.saved[:len(b.saved)-1]
	return true
}

func (b *blendStack) set(src, dst gfx.BlendType) {
	b.current = gfx.BlendState{Src: src, Dst: dst}
}

func (b *blendStack) reset() {
	b.current = gfx.DefaultBlendState
	b.saved = b.saved[:0]
}
