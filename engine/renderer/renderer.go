package renderer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-recursion/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoSurface is returned when a frame is ended without having begun.
	ErrNoSurface = errors.New("renderer: no surface is being rendered")

	// ErrUnsupportedFormat is returned for color or depth formats the renderer cannot allocate.
	ErrUnsupportedFormat = errors.New("renderer: unsupported format")

	// ErrForeignTexture is returned when a texture was not created by this renderer.
	ErrForeignTexture = errors.New("renderer: texture was not created by this renderer")
)

// techniqueDraw is the technique DrawSprite uses when no effect pass is current.
const techniqueDraw = "Draw"

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           [4]float32

	defaultEffect *effect
	sampler       *wgpu.Sampler
	fallback      *texture

	targets    map[*renderTarget]struct{}
	effects    map[*effect]struct{}
	nextTarget int
	nextEffect int

	// Immediate-mode state, only touched with the graphics context held.
	surfaces []*drawSurface
	frame    *drawSurface
	matrices *matrixStack
	blends   *blendStack
	active   *effect
}

// Renderer is an immediate-mode WebGPU implementation of gfx.Graphics that draws into a window surface.
//
// Draw calls are recorded against the surface on top of the surface stack: the window's frame between
// BeginFrame and EndFrame, or a render target between its Begin and End. Each surface is encoded into one
// render pass and submitted when it ends, so a render target's texture can be sampled by draws recorded after
// its End.
type Renderer interface {
	gfx.Graphics

	// Resize reconfigures the window surface. Call it between frames.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the next window surface texture and makes it the current surface, cleared to the
	// configured clear color with an orthographic projection covering the surface in pixels.
	// Must be called with the graphics context held.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// EndFrame encodes and submits the draws recorded into the window surface.
	//
	// Returns:
	//   - error: ErrNoSurface if no frame is in progress, or an encoding error
	EndFrame() error

	// Present presents the window surface texture acquired by BeginFrame.
	Present()

	// SurfaceSize returns the size of the window surface.
	//
	// Returns:
	//   - common.Resolution: the surface size in pixels
	SurfaceSize() common.Resolution

	// CreateTexture uploads RGBA pixels into a new sampled texture. Must be called with the graphics
	// context held.
	//
	// Parameters:
	//   - data: the pixels and their size
	//
	// Returns:
	//   - gfx.Texture: the new texture
	//   - error: an error if the texture could not be created
	CreateTexture(data common.TextureStagingData) (gfx.Texture, error)

	// UpdateTexture replaces the pixels of a texture created by CreateTexture. The data must match the
	// texture size.
	//
	// Parameters:
	//   - tex: the texture to update
	//   - data: the new pixels
	//
	// Returns:
	//   - error: an error if the texture is foreign or the size does not match
	UpdateTexture(tex gfx.Texture, data common.TextureStagingData) error

	// DestroyTexture releases a texture created by CreateTexture.
	//
	// Parameters:
	//   - tex: the texture to release
	DestroyTexture(tex gfx.Texture)

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// Release destroys every render target, effect and pipeline still alive and releases the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the given window.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - window: the window whose surface is rendered to
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		targets:       make(map[*renderTarget]struct{}),
		effects:       make(map[*effect]struct{}),
		matrices:      newMatrixStack(),
		blends:        newBlendStack(),
		clearColor:    [4]float32{0.1, 0.1, 0.1, 1},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAAOff
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(window.Width(), window.Height())

	if err := r.initDefaults(); err != nil {
		panic(fmt.Sprintf("renderer: %v", err))
	}
	return r
}

// initDefaults creates the default effect, the shared sampler and the transparent texture bound to texture
// parameters that were never set.
func (r *renderer) initDefaults() error {
	s, err := shader.ParseShader("default", defaultEffectSource)
	if err != nil {
		return fmt.Errorf("failed to parse default effect: %w", err)
	}
	module, err := r.backend.CreateShaderModule(s)
	if err != nil {
		return fmt.Errorf("failed to create default effect module: %w", err)
	}
	r.defaultEffect = newEffect(r, s, module)

	r.sampler, err = r.backend.CreateSampler(common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	r.fallback, err = r.backend.CreateTexture("Fallback Texture", 1, 1, wgpu.TextureFormatRGBA8Unorm,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return fmt.Errorf("failed to create fallback texture: %w", err)
	}
	return r.backend.WriteTexture(r.fallback, common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1})
}

func (r *renderer) Enter() {
	r.mu.Lock()
}

func (r *renderer) Leave() {
	r.mu.Unlock()
}

func (r *renderer) CreateRenderTarget(format gfx.ColorFormat, zs gfx.ZStencilFormat) (gfx.RenderTarget, error) {
	if zs != gfx.ZStencilNone {
		return nil, fmt.Errorf("%w: depth/stencil %d", ErrUnsupportedFormat, zs)
	}
	var f wgpu.TextureFormat
	switch format {
	case gfx.ColorFormatRGBA:
		f = wgpu.TextureFormatRGBA8Unorm
	case gfx.ColorFormatBGRA:
		f = wgpu.TextureFormatBGRA8Unorm
	default:
		return nil, fmt.Errorf("%w: color %d", ErrUnsupportedFormat, format)
	}

	r.nextTarget++
	t := &renderTarget{r: r, id: r.nextTarget, format: f}
	r.targets[t] = struct{}{}
	return t, nil
}

func (r *renderer) LoadEffect(path string) (gfx.Effect, error) {
	r.nextEffect++
	s, err := shader.NewShader(fmt.Sprintf("%s@%d", path, r.nextEffect), path)
	if err != nil {
		return nil, err
	}
	module, err := r.backend.CreateShaderModule(s)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module for %s: %w", path, err)
	}
	e := newEffect(r, s, module)
	r.effects[e] = struct{}{}
	return e, nil
}

func (r *renderer) DefaultEffect() gfx.Effect {
	return r.defaultEffect
}

func (r *renderer) Clear(color [4]float32) {
	s := r.current()
	if s == nil {
		return
	}
	s.clear = &wgpu.Color{R: float64(color[0]), G: float64(color[1]), B: float64(color[2]), A: float64(color[3])}
	s.draws = s.draws[:0]
}

func (r *renderer) Ortho(left, right, top, bottom, near, far float32) {
	s := r.current()
	if s == nil {
		return
	}
	common.Ortho(s.proj[:], left, right, top, bottom, near, far)
}

func (r *renderer) MatrixPush() {
	r.matrices.push()
}

func (r *renderer) MatrixPop() {
	if !r.matrices.pop() {
		log.Printf("[Renderer] matrix stack underflow")
	}
}

func (r *renderer) MatrixIdentity() {
	r.matrices.identity()
}

func (r *renderer) MatrixTranslate(x, y, z float32) {
	r.matrices.translate(x, y, z)
}

func (r *renderer) MatrixScale(x, y, z float32) {
	r.matrices.scale(x, y, z)
}

func (r *renderer) MatrixRotate(x, y, z, radians float32) {
	r.matrices.rotate(x, y, z, radians)
}

func (r *renderer) BlendStatePush() {
	r.blends.push()
}

func (r *renderer) BlendStatePop() {
	if !r.blends.pop() {
		log.Printf("[Renderer] blend state stack underflow")
	}
}

func (r *renderer) BlendFunction(src, dst gfx.BlendType) {
	r.blends.set(src, dst)
}

func (r *renderer) DrawSprite(tex gfx.Texture, flip uint32, width, height uint32) {
	s := r.current()
	if s == nil {
		log.Printf("[Renderer] DrawSprite called without a surface")
		return
	}
	t, ok := tex.(*texture)
	if !ok || t == nil || t.view == nil {
		return
	}
	width = common.Coalesce(width, t.width)
	height = common.Coalesce(height, t.height)

	e := r.active
	entry := ""
	if e != nil {
		entry = e.entry
	} else {
		e = r.defaultEffect
		var err error
		if entry, err = e.shader.Technique(techniqueDraw); err != nil {
			log.Printf("[Renderer] %v", err)
			return
		}
	}

	p, err := r.pipelineFor(e, entry, s)
	if err != nil {
		log.Printf("[Renderer] failed to create pipeline for %s: %v", e.shader.Key(), err)
		return
	}

	uniforms, staged := e.snapshot()
	if b, ok := e.shader.Binding(paramImage); ok && b.Kind == shader.ResourceTexture {
		staged[bindingKey{b.Group, b.Binding}] = t
	}
	if f, ok := e.shader.UniformField(uniformViewProj); ok {
		mvp := spriteTransform(s.proj, *r.matrices.top(), flip, width, height)
		putFloats(uniforms, f, mvp[:]...)
	}
	if f, ok := e.shader.UniformField(uniformSize); ok {
		putFloats(uniforms, f, float32(width), float32(height))
	}

	textures := make(map[bindingKey]*texture, len(staged))
	for k, v := range staged {
		if vt, ok := v.(*texture); ok && vt != nil && vt.view != nil {
			textures[k] = vt
		}
	}

	s.draws = append(s.draws, drawCommand{
		pipeline: p,
		effect:   e,
		uniforms: uniforms,
		textures: textures,
	})
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginFrame() error {
	if r.frame != nil {
		return fmt.Errorf("previous frame not yet ended")
	}
	s, err := r.backend.BeginFrame()
	if err != nil {
		return err
	}
	r.matrices.reset()
	r.blends.reset()
	r.frame = s
	r.pushSurface(s)
	r.Clear(r.clearColor)
	return nil
}

func (r *renderer) EndFrame() error {
	if r.frame == nil {
		return ErrNoSurface
	}
	s := r.frame
	r.frame = nil
	return r.popSurface(s)
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) SurfaceSize() common.Resolution {
	return r.backend.SurfaceSize()
}

func (r *renderer) CreateTexture(data common.TextureStagingData) (gfx.Texture, error) {
	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("texture size %dx%d is not drawable", data.Width, data.Height)
	}
	t, err := r.backend.CreateTexture("Sampled Texture", data.Width, data.Height, wgpu.TextureFormatRGBA8Unorm,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	if err := r.backend.WriteTexture(t, data); err != nil {
		t.release()
		return nil, err
	}
	return t, nil
}

func (r *renderer) UpdateTexture(tex gfx.Texture, data common.TextureStagingData) error {
	t, ok := tex.(*texture)
	if !ok || t == nil {
		return ErrForeignTexture
	}
	if t.width != data.Width || t.height != data.Height {
		return fmt.Errorf("texture is %dx%d, data is %dx%d", t.width, t.height, data.Width, data.Height)
	}
	return r.backend.WriteTexture(t, data)
}

func (r *renderer) DestroyTexture(tex gfx.Texture) {
	if t, ok := tex.(*texture); ok && t != nil {
		t.release()
	}
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	cp := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, v := range r.pipelineCache {
		cp[k] = v
	}
	return cp
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for t := range r.targets {
		t.Destroy()
	}
	for e := range r.effects {
		e.Destroy()
	}
	if r.defaultEffect != nil {
		r.defaultEffect.Destroy()
		r.defaultEffect = nil
	}
	for k, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, k)
	}
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	if r.fallback != nil {
		r.fallback.release()
		r.fallback = nil
	}
	r.backend.Release()
}

// current returns the surface on top of the surface stack, or nil.
func (r *renderer) current() *drawSurface {
	if len(r.surfaces) == 0 {
		return nil
	}
	return r.surfaces[len(r.surfaces)-1]
}

func (r *renderer) pushSurface(s *drawSurface) {
	r.matrices.push()
	r.matrices.identity()
	r.surfaces = append(r.surfaces, s)
}

// popSurface removes s from the top of the surface stack and submits its draws.
func (r *renderer) popSurface(s *drawSurface) error {
	if r.current() != s {
		log.Printf("[Renderer] surface %s ended out of order", s.label)
		return ErrNoSurface
	}
	r.surfaces = r.surfaces[:len(r.surfaces)-1]
	r.matrices.pop()

	err := r.backend.EncodeSurface(s, r.sampler, r.fallback)
	if err != nil {
		log.Printf("[Renderer] failed to encode %s: %v", s.label, err)
	}
	return err
}

// pipelineFor returns the cached pipeline drawing entry of e with the current blend state into s, creating it
// on first use.
func (r *renderer) pipelineFor(e *effect, entry string, s *drawSurface) (pipeline.Pipeline, error) {
	blend := blendState(r.blends.current)
	key := pipeline.Key(e.shader.Key(), entry, blend, s.format, s.sampleCount)
	if p, ok := r.pipelineCache[key]; ok {
		return p, nil
	}

	p := pipeline.NewPipeline(key,
		pipeline.WithShader(e.shader),
		pipeline.WithFragmentEntryPoint(entry),
		pipeline.WithFormat(s.format),
		pipeline.WithSampleCount(s.sampleCount),
		pipeline.WithBlendState(blend),
	)
	if err := r.backend.RegisterRenderPipeline(p, e.module); err != nil {
		return nil, err
	}
	r.pipelineCache[key] = p
	return p, nil
}

// forgetEffect drops an effect and releases the pipelines built from it.
func (r *renderer) forgetEffect(e *effect) {
	delete(r.effects, e)
	if r.active == e {
		r.active = nil
	}
	for k, p := range r.pipelineCache {
		if p.Shader() == e.shader {
			p.Release()
			delete(r.pipelineCache, k)
		}
	}
}

func (r *renderer) forgetTarget(t *renderTarget) {
	delete(r.targets, t)
}

// spriteTransform returns proj * modelView, with flip applied to the width x height quad first.
func spriteTransform(proj, modelView [16]float32, flip uint32, width, height uint32) [16]float32 {
	var out [16]float32
	common.Mul4(out[:], proj[:], modelView[:])
	if flip&gfx.FlipU != 0 {
		common.Translate4(out[:], float32(width), 0, 0)
		common.Scale4(out[:], -1, 1, 1)
	}
	if flip&gfx.FlipV != 0 {
		common.Translate4(out[:], 0, float32(height), 0)
		common.Scale4(out[:], 1, -1, 1)
	}
	return out
}
