// Package gfxtest provides an in-memory gfx.Graphics that records every call so tests can assert on
// resource balance, draw order, blend state and transforms without a GPU.
package gfxtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
)

// ErrCreateFailed is returned by CreateRenderTarget when the recorder is told to fail.
var ErrCreateFailed = errors.New("gfxtest: render target creation failed")

// Texture is a fake texture identified by the render target that produced it.
type Texture struct {
	ID     int
	W, H   uint32
	Source string
}

func (t *Texture) Width() uint32  { return t.W }
func (t *Texture) Height() uint32 { return t.H }

// Draw is one recorded DrawSprite call.
type Draw struct {
	// Surface is the render target id the draw went to, or 0 for the host surface.
	Surface int
	// Texture is the drawn texture.
	Texture gfx.Texture
	// Width and Height are the requested quad size.
	Width, Height uint32
	// Blend is the blend state in effect.
	Blend gfx.BlendState
	// Matrix is the model-view matrix in effect.
	Matrix [16]float32
	// Effect is the name of the effect whose pass was current.
	Effect string
	// Technique is the technique being looped.
	Technique string
	// Floats holds the float parameters of the effect at draw time.
	Floats map[string]float32
}

// RenderTarget is a fake off-screen target.
type RenderTarget struct {
	rec       *Recorder
	ID        int
	tex       *Texture
	began     bool
	destroyed bool
}

func (t *RenderTarget) Begin(width, height uint32) bool {
	r := t.rec
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.destroyed || t.began || width == 0 || height == 0 || r.FailBegin {
		return false
	}
	t.began = true
	if t.tex == nil || t.tex.W != width || t.tex.H != height {
		t.tex = &Texture{ID: t.ID, W: width, H: height, Source: fmt.Sprintf("rt%d", t.ID)}
	}
	r.surfaces = append(r.surfaces, t.ID)
	r.journal = append(r.journal, fmt.Sprintf("begin rt%d %dx%d", t.ID, width, height))
	return true
}

func (t *RenderTarget) End() {
	r := t.rec
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.surfaces) > 0 {
		r.surfaces = r.surfaces[:len(r.surfaces)-1]
	}
	r.journal = append(r.journal, fmt.Sprintf("end rt%d", t.ID))
}

func (t *RenderTarget) Reset() {
	t.rec.mu.Lock()
	defer t.rec.mu.Unlock()
	t.began = false
	t.rec.journal = append(t.rec.journal, fmt.Sprintf("reset rt%d", t.ID))
}

func (t *RenderTarget) Texture() gfx.Texture {
	if t.tex == nil {
		return nil
	}
	return t.tex
}

func (t *RenderTarget) Destroy() {
	r := t.rec
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.destroyed {
		r.Violations = append(r.Violations, fmt.Sprintf("rt%d destroyed twice", t.ID))
		return
	}
	if r.depth == 0 {
		r.Violations = append(r.Violations, fmt.Sprintf("rt%d destroyed outside graphics scope", t.ID))
	}
	t.destroyed = true
	r.Destroyed++
	delete(r.live, t.ID)
	r.journal = append(r.journal, fmt.Sprintf("destroy rt%d", t.ID))
}

// Param is a fake effect parameter.
type Param struct {
	effect  *Effect
	name    string
	Texture gfx.Texture
	Float   float32
}

func (p *Param) Name() string { return p.name }

func (p *Param) SetTexture(tex gfx.Texture) {
	p.Texture = tex
}

func (p *Param) SetFloat(v float32) {
	p.Float = v
	p.effect.floats[p.name] = v
}

// Effect is a fake shader effect with a fixed parameter and technique set.
type Effect struct {
	rec        *Recorder
	Name       string
	params     map[string]*Param
	techniques map[string]bool
	floats     map[string]float32
	looping    string
	Destroyed  bool
}

// NewEffect creates a fake effect with the given parameters and a single "Draw" technique.
//
// Parameters:
//   - rec: the recorder the effect draws through
//   - name: the effect name reported on recorded draws
//   - params: the parameter names the effect declares
//
// Returns:
//   - *Effect: the fake effect
func NewEffect(rec *Recorder, name string, params ...string) *Effect {
	e := &Effect{
		rec:        rec,
		Name:       name,
		params:     make(map[string]*Param, len(params)),
		techniques: map[string]bool{"Draw": true},
		floats:     make(map[string]float32),
	}
	for _, p := range params {
		e.params[p] = &Param{effect: e, name: p}
	}
	return e
}

func (e *Effect) Param(name string) gfx.EffectParam {
	p, ok := e.params[name]
	if !ok {
		return nil
	}
	return p
}

// Fake returns the concrete fake parameter for assertions.
func (e *Effect) Fake(name string) *Param {
	return e.params[name]
}

func (e *Effect) Loop(technique string) bool {
	r := e.rec
	r.mu.Lock()
	defer r.mu.Unlock()

	if !e.techniques[technique] {
		return false
	}
	if e.looping == technique {
		e.looping = ""
		r.active = nil
		return false
	}
	e.looping = technique
	r.active = e
	return true
}

func (e *Effect) Destroy() {
	e.Destroyed = true
}

// Recorder is a gfx.Graphics that records calls. The zero value is not usable; use NewRecorder.
type Recorder struct {
	mu sync.Mutex

	// FailCreate makes CreateRenderTarget return ErrCreateFailed.
	FailCreate bool
	// FailBegin makes RenderTarget.Begin return false.
	FailBegin bool
	// Effects maps effect paths to the effect LoadEffect returns; unknown paths fail to load.
	Effects map[string]*Effect

	// Created and Destroyed count render target lifetimes.
	Created, Destroyed int
	// Draws records every DrawSprite call in order.
	Draws []Draw
	// Violations records contract breaches such as creation outside Enter/Leave.
	Violations []string

	defaultEffect *Effect
	nextID        int
	live          map[int]*RenderTarget
	depth         int
	enters        int
	surfaces      []int
	matrices      [][16]float32
	blend         gfx.BlendState
	blendStack    []gfx.BlendState
	active        *Effect
	journal       []string
}

var _ gfx.Graphics = &Recorder{}

// NewRecorder creates an empty recorder whose default effect declares an "image" parameter.
//
// Returns:
//   - *Recorder: the recorder
func NewRecorder() *Recorder {
	r := &Recorder{
		Effects: make(map[string]*Effect),
		live:    make(map[int]*RenderTarget),
		blend:   gfx.DefaultBlendState,
	}
	var m [16]float32
	common.Identity(m[:])
	r.matrices = [][16]float32{m}
	r.defaultEffect = NewEffect(r, "default", "image")
	return r
}

func (r *Recorder) Enter() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depth++
	r.enters++
}

func (r *Recorder) Leave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.depth == 0 {
		r.Violations = append(r.Violations, "leave without enter")
		return
	}
	r.depth--
}

func (r *Recorder) CreateRenderTarget(format gfx.ColorFormat, zs gfx.ZStencilFormat) (gfx.RenderTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.depth == 0 {
		r.Violations = append(r.Violations, "render target created outside graphics scope")
	}
	if r.FailCreate {
		return nil, ErrCreateFailed
	}
	r.nextID++
	t := &RenderTarget{rec: r, ID: r.nextID}
	r.live[t.ID] = t
	r.Created++
	r.journal = append(r.journal, fmt.Sprintf("create rt%d", t.ID))
	return t, nil
}

func (r *Recorder) LoadEffect(path string) (gfx.Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.depth == 0 {
		r.Violations = append(r.Violations, "effect loaded outside graphics scope")
	}
	e, ok := r.Effects[path]
	if !ok {
		return nil, fmt.Errorf("gfxtest: no effect at %q", path)
	}
	return e, nil
}

func (r *Recorder) DefaultEffect() gfx.Effect {
	return r.defaultEffect
}

func (r *Recorder) Clear(color [4]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journal = append(r.journal, fmt.Sprintf("clear %v", color))
}

func (r *Recorder) Ortho(left, right, top, bottom, near, far float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journal = append(r.journal, fmt.Sprintf("ortho %g %g %g %g %g %g", left, right, top, bottom, near, far))
}

func (r *Recorder) MatrixPush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matrices = append(r.matrices, r.matrices[len(r.matrices)-1])
}

func (r *Recorder) MatrixPop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.matrices) == 1 {
		r.Violations = append(r.Violations, "matrix stack underflow")
		return
	}
	r.matrices = r.matrices[:len(r.matrices)-1]
}

func (r *Recorder) MatrixIdentity() {
	r.mu.Lock()
	defer r.mu.Unlock()
	common.Identity(r.matrices[len(r.matrices)-1][:])
}

func (r *Recorder) MatrixTranslate(x, y, z float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	common.Translate4(r.matrices[len(r.matrices)-1][:], x, y, z)
}

func (r *Recorder) MatrixScale(x, y, z float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	common.Scale4(r.matrices[len(r.matrices)-1][:], x, y, z)
}

func (r *Recorder) MatrixRotate(x, y, z, radians float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	common.RotateAxis4(r.matrices[len(r.matrices)-1][:], x, y, z, radians)
}

func (r *Recorder) BlendStatePush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blendStack = append(r.blendStack, r.blend)
}

func (r *Recorder) BlendStatePop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.blendStack) == 0 {
		r.Violations = append(r.Violations, "blend stack underflow")
		return
	}
	r.blend = r.blendStack[len(r.blendStack)-1]
	r.blendStack = r.blendStack[:len(r.blendStack)-1]
}

func (r *Recorder) BlendFunction(src, dst gfx.BlendType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blend = gfx.BlendState{Src: src, Dst: dst}
}

func (r *Recorder) DrawSprite(tex gfx.Texture, flip uint32, width, height uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := Draw{
		Texture: tex,
		Width:   width,
		Height:  height,
		Blend:   r.blend,
		Matrix:  r.matrices[len(r.matrices)-1],
	}
	if len(r.surfaces) > 0 {
		d.Surface = r.surfaces[len(r.surfaces)-1]
	}
	if r.active != nil {
		d.Effect = r.active.Name
		d.Technique = r.active.looping
		d.Floats = make(map[string]float32, len(r.active.floats))
		for k, v := range r.active.floats {
			d.Floats[k] = v
		}
	}
	r.Draws = append(r.Draws, d)
}

// Live returns the number of render targets created and not yet destroyed.
func (r *Recorder) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Depth returns the current Enter nesting depth.
func (r *Recorder) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depth
}

// Enters returns how many times Enter has been called.
func (r *Recorder) Enters() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enters
}

// Blend returns the current blend state.
func (r *Recorder) Blend() gfx.BlendState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blend
}

// MatrixDepth returns the height of the matrix stack.
func (r *Recorder) MatrixDepth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matrices)
}

// Journal returns a copy of the recorded non-draw calls.
func (r *Recorder) Journal() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.journal))
	copy(out, r.journal)
	return out
}

// ResetDraws clears the recorded draws and journal.
func (r *Recorder) ResetDraws() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Draws = nil
	r.journal = nil
}
