// Package gfx defines the graphics contract the feedback filter is written against: off-screen render
// targets, textures, shader effects with named parameters, a matrix stack, a blend-state stack and sprite
// drawing. Implementations live elsewhere (engine/renderer for WebGPU, gfxtest for tests).
//
// All resource creation and destruction must happen between Graphics.Enter and Graphics.Leave. Use Do to
// guarantee the pair on every exit path.
package gfx

// ColorFormat identifies the pixel format of a render target.
type ColorFormat int

const (
	// ColorFormatRGBA is 8-bit per channel RGBA.
	ColorFormatRGBA ColorFormat = iota
	// ColorFormatBGRA is 8-bit per channel BGRA, typically the swapchain format.
	ColorFormatBGRA
)

// ZStencilFormat identifies the depth/stencil attachment of a render target.
type ZStencilFormat int

const (
	// ZStencilNone creates no depth/stencil attachment.
	ZStencilNone ZStencilFormat = iota
)

// Flip flags accepted by Graphics.DrawSprite.
const (
	// FlipU mirrors the sprite horizontally.
	FlipU uint32 = 1 << iota
	// FlipV mirrors the sprite vertically.
	FlipV
)

// BlendType is a blend factor applied to the source or destination color.
type BlendType int

const (
	BlendZero BlendType = iota
	BlendOne
	BlendSrcAlpha
	BlendInvSrcAlpha
	BlendDstAlpha
	BlendInvDstAlpha
)

// String returns the blend factor name.
func (b BlendType) String() string {
	switch b {
	case BlendZero:
		return "zero"
	case BlendOne:
		return "one"
	case BlendSrcAlpha:
		return "srcalpha"
	case BlendInvSrcAlpha:
		return "invsrcalpha"
	case BlendDstAlpha:
		return "dstalpha"
	case BlendInvDstAlpha:
		return "invdstalpha"
	default:
		return "unknown"
	}
}

// BlendState is a source/destination blend factor pair.
type BlendState struct {
	Src BlendType
	Dst BlendType
}

// DefaultBlendState is the blend state in effect when nothing has been pushed: straight alpha.
var DefaultBlendState = BlendState{Src: BlendSrcAlpha, Dst: BlendInvSrcAlpha}

// Texture is a sampled GPU image.
type Texture interface {
	// Width returns the texture width in pixels.
	//
	// Returns:
	//   - uint32: width in pixels
	Width() uint32

	// Height returns the texture height in pixels.
	//
	// Returns:
	//   - uint32: height in pixels
	Height() uint32
}

// RenderTarget is an off-screen color surface that can be rendered into and then sampled as a Texture.
type RenderTarget interface {
	// Begin starts rendering into the target at the given size, (re)allocating the backing texture when
	// the size differs from the previous one. Begin only succeeds once per Reset.
	//
	// Parameters:
	//   - width: the target width in pixels
	//   - height: the target height in pixels
	//
	// Returns:
	//   - bool: true if rendering began and End must be called
	Begin(width, height uint32) bool

	// End finishes rendering into the target and restores the previous render surface.
	End()

	// Reset allows the target to be rendered into again.
	Reset()

	// Texture returns the rendered texture, or nil if nothing has been rendered yet.
	//
	// Returns:
	//   - Texture: the target texture, or nil
	Texture() Texture

	// Destroy releases the target's GPU resources.
	Destroy()
}

// EffectParam is a named, settable effect parameter.
type EffectParam interface {
	// Name returns the parameter name as declared in the effect source.
	//
	// Returns:
	//   - string: the parameter name
	Name() string

	// SetTexture binds a texture to the parameter.
	//
	// Parameters:
	//   - tex: the texture to bind
	SetTexture(tex Texture)

	// SetFloat sets a scalar float parameter.
	//
	// Parameters:
	//   - v: the value to set
	SetFloat(v float32)
}

// Effect is a loaded shader effect with named parameters and named techniques.
type Effect interface {
	// Param looks up a parameter by name.
	//
	// Parameters:
	//   - name: the parameter name
	//
	// Returns:
	//   - EffectParam: the parameter, or nil if the effect has no such parameter
	Param(name string) EffectParam

	// Loop advances through the passes of the named technique. Each call that returns true makes the
	// next pass current for subsequent draws; the call after the last pass returns false and resets the
	// loop so the technique can be iterated again.
	//
	// Parameters:
	//   - technique: the technique name (e.g. "Draw")
	//
	// Returns:
	//   - bool: true while a pass is current
	Loop(technique string) bool

	// Destroy releases the effect's GPU resources.
	Destroy()
}

// Graphics is the host graphics subsystem.
type Graphics interface {
	// Enter acquires the graphics context. Every Enter must be paired with a Leave.
	Enter()

	// Leave releases the graphics context acquired by Enter.
	Leave()

	// CreateRenderTarget creates an off-screen render target. Must be called inside Enter/Leave.
	//
	// Parameters:
	//   - format: the color format of the target
	//   - zs: the depth/stencil format of the target
	//
	// Returns:
	//   - RenderTarget: the new render target
	//   - error: an error if the target could not be created
	CreateRenderTarget(format ColorFormat, zs ZStencilFormat) (RenderTarget, error)

	// LoadEffect loads a shader effect from a file. Must be called inside Enter/Leave.
	//
	// Parameters:
	//   - path: the effect file path
	//
	// Returns:
	//   - Effect: the loaded effect
	//   - error: an error describing why the effect failed to load
	LoadEffect(path string) (Effect, error)

	// DefaultEffect returns the host's built-in textured-sprite effect.
	//
	// Returns:
	//   - Effect: the default effect
	DefaultEffect() Effect

	// Clear clears the current render surface to the given RGBA color.
	//
	// Parameters:
	//   - color: the clear color
	Clear(color [4]float32)

	// Ortho sets an orthographic projection on the current render surface.
	//
	// Parameters:
	//   - left, right, top, bottom, near, far: the projection box
	Ortho(left, right, top, bottom, near, far float32)

	// MatrixPush duplicates the top of the model-view matrix stack.
	MatrixPush()

	// MatrixPop discards the top of the model-view matrix stack.
	MatrixPop()

	// MatrixIdentity resets the top of the model-view matrix stack.
	MatrixIdentity()

	// MatrixTranslate applies a translation to the top of the matrix stack.
	//
	// Parameters:
	//   - x, y, z: the translation
	MatrixTranslate(x, y, z float32)

	// MatrixScale applies a scale to the top of the matrix stack.
	//
	// Parameters:
	//   - x, y, z: the scale factors
	MatrixScale(x, y, z float32)

	// MatrixRotate applies a rotation about an axis to the top of the matrix stack.
	//
	// Parameters:
	//   - x, y, z: the rotation axis
	//   - radians: the rotation angle
	MatrixRotate(x, y, z, radians float32)

	// BlendStatePush saves the current blend state.
	BlendStatePush()

	// BlendStatePop restores the most recently pushed blend state.
	BlendStatePop()

	// BlendFunction sets the blend factors for subsequent draws.
	//
	// Parameters:
	//   - src: the source factor
	//   - dst: the destination factor
	BlendFunction(src, dst BlendType)

	// DrawSprite draws tex as a width x height quad at the origin using the current effect pass,
	// matrix and blend state. A zero width or height uses the texture's own size.
	//
	// Parameters:
	//   - tex: the texture to draw
	//   - flip: a combination of FlipU and FlipV, or 0
	//   - width: the quad width in pixels
	//   - height: the quad height in pixels
	DrawSprite(tex Texture, flip uint32, width, height uint32)
}
