package gfx

// Do runs fn inside an Enter/Leave pair. Leave runs even if fn panics.
//
// Parameters:
//   - g: the graphics subsystem
//   - fn: the function to run with the graphics context held
func Do(g Graphics, fn func()) {
	g.Enter()
	defer g.Leave()
	fn()
}

// DrawTechnique draws tex with every pass of the effect's technique.
//
// Parameters:
//   - g: the graphics subsystem
//   - effect: the effect whose passes are iterated
//   - technique: the technique name
//   - tex: the texture to draw
//   - width: the quad width in pixels
//   - height: the quad height in pixels
func DrawTechnique(g Graphics, effect Effect, technique string, tex Texture, width, height uint32) {
	for effect.Loop(technique) {
		g.DrawSprite(tex, 0, width, height)
	}
}
