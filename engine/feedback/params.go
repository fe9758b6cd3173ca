package feedback

import (
	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
)

// Settings keys.
const (
	SettingDelayMS      = "delay_ms"
	SettingOffsetX      = "offset_x"
	SettingOffsetY      = "offset_y"
	SettingScaleX       = "scale_x"
	SettingScaleY       = "scale_y"
	SettingRotation     = "rotation"
	SettingAlpha        = "alpha"
	SettingInversed     = "inversed"
	SettingResetTrigger = "reset_trigger"
)

// EffectParameters is how the delayed frame is transformed and blended into the new one.
type EffectParameters struct {
	Offset common.Vec2
	Scale  common.Vec2
	// Rotation is in degrees.
	Rotation float32
	// Alpha multiplies the delayed frame.
	Alpha float32
	// Inversed draws the delayed frame over the live frame with straight alpha.
	Inversed bool
}

// DefaultEffectParameters returns the identity transform at full alpha.
func DefaultEffectParameters() EffectParameters {
	return EffectParameters{
		Scale: common.Vec2{X: 1, Y: 1},
		Alpha: 1,
	}
}

// EffectParametersFrom reads the parameters from s.
func EffectParametersFrom(s *settings.Settings) EffectParameters {
	return EffectParameters{
		Offset:   common.Vec2{X: float32(s.Double(SettingOffsetX)), Y: float32(s.Double(SettingOffsetY))},
		Scale:    common.Vec2{X: float32(s.Double(SettingScaleX)), Y: float32(s.Double(SettingScaleY))},
		Rotation: float32(s.Double(SettingRotation)),
		Alpha:    float32(s.Double(SettingAlpha)),
		Inversed: s.Bool(SettingInversed),
	}
}

// CompositeBlend returns the blend function used while compositing a new frame.
func (p EffectParameters) CompositeBlend() gfx.BlendState {
	if p.Inversed {
		return gfx.BlendState{Src: gfx.BlendSrcAlpha, Dst: gfx.BlendInvSrcAlpha}
	}
	return gfx.BlendState{Src: gfx.BlendOne, Dst: gfx.BlendInvSrcAlpha}
}

// Defaults installs the filter defaults into s.
func Defaults(s *settings.Settings) {
	s.SetDefaultDouble(SettingScaleX, 1.0)
	s.SetDefaultDouble(SettingScaleY, 1.0)
	s.SetDefaultDouble(SettingAlpha, 1.0)
}
