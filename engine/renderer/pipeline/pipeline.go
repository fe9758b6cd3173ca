package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the configuration for one effect technique drawn with one blend state into one kind of surface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// effectShader and fragmentEntry are required to be set before initializing a pipeline.
	effectShader  shader.Shader
	fragmentEntry string

	// renderPipeline and bindGroupLayouts are created by the renderer backend.
	renderPipeline   *wgpu.RenderPipeline
	bindGroupLayouts []*wgpu.BindGroupLayout

	format       wgpu.TextureFormat
	sampleCount  uint32
	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline defines a GPU render pipeline for drawing textured quads with an effect technique. The vertex stage
// is the effect's vertex entry point and the fragment stage is the technique's entry point.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the effect shader the pipeline is built from.
	//
	// Returns:
	//   - shader.Shader: the effect shader, or nil if not set
	Shader() shader.Shader

	// FragmentEntryPoint returns the fragment entry point of the technique being drawn.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// Pipeline returns the underlying render pipeline, or nil before the backend has created it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	Pipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the layout created for a bind group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout, or nil if the effect declares no such group
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// Format returns the color target format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color format
	Format() wgpu.TextureFormat

	// SampleCount returns the multisample count of the color target.
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline
	BlendState() *wgpu.BlendState

	// SetRenderPipeline sets the created render pipeline.
	//
	// Parameters:
	//   - rp: the render pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// SetBindGroupLayouts sets the layouts created for the pipeline, indexed by group.
	//
	// Parameters:
	//   - layouts: the layouts
	SetBindGroupLayouts(layouts []*wgpu.BindGroupLayout)

	// Release releases the render pipeline and its layouts.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new pipeline description with the provided options.
// Defaults are a triangle list, no culling, all color channels written and straight alpha blending.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:  pipelineKey,
		format:       wgpu.TextureFormatRGBA8Unorm,
		sampleCount:  1,
		blendEnabled: true,
		cullMode:     wgpu.CullModeNone,
		topology:     wgpu.PrimitiveTopologyTriangleList,
		frontFace:    wgpu.FrontFaceCCW,
		writeMask:    wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key builds the cache key of the pipeline that draws an effect's fragment entry point with a blend state
// into a color target of the given format and sample count.
//
// Parameters:
//   - effectKey: the effect shader key
//   - entry: the fragment entry point
//   - blend: the blend state
//   - format: the color target format
//   - sampleCount: the color target sample count
//
// Returns:
//   - string: the pipeline key
func Key(effectKey, entry string, blend *wgpu.BlendState, format wgpu.TextureFormat, sampleCount uint32) string {
	return fmt.Sprintf("%s#%s|%d,%d,%d|%d,%d,%d|%d|%d",
		effectKey, entry,
		blend.Color.SrcFactor, blend.Color.DstFactor, blend.Color.Operation,
		blend.Alpha.SrcFactor, blend.Alpha.DstFactor, blend.Alpha.Operation,
		format, sampleCount)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.effectShader
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) Format() wgpu.TextureFormat {
	return p.format
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) SetBindGroupLayouts(layouts []*wgpu.BindGroupLayout) {
	p.bindGroupLayouts = layouts
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	for _, layout := range p.bindGroupLayouts {
		if layout != nil {
			layout.Release()
		}
	}
	p.bindGroupLayouts = nil
}
