package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// quadVertexCount is the number of vertices of the two triangles every sprite is drawn with. The vertex stage
// generates them from the vertex index; no vertex buffers are bound.
const quadVertexCount = 6

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat   *wgpu.TextureFormat
	msaaTexture     *wgpu.Texture
	msaaTextureView *wgpu.TextureView
	width, height   uint32

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the window surface

	// Swapchain texture held between BeginFrame and Present
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Surface() *wgpu.Surface
	SetDevice(device *wgpu.Device)
	SetQueue(queue *wgpu.Queue)
	SetInstance(instance *wgpu.Instance)
	SetAdapter(adapter *wgpu.Adapter)
	SetSurface(surface *wgpu.Surface)

	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SurfaceSize returns the size the surface was last configured with.
	//
	// Returns:
	//   - common.Resolution: the surface size
	SurfaceSize() common.Resolution

	// CreateShaderModule compiles an effect shader.
	//
	// Parameters:
	//   - s: the parsed effect shader
	//
	// Returns:
	//   - *wgpu.ShaderModule: the compiled module
	//   - error: an error if the WGSL failed to compile
	CreateShaderModule(s shader.Shader) (*wgpu.ShaderModule, error)

	// RegisterRenderPipeline creates the bind group layouts, pipeline layout and render pipeline for the
	// provided pipeline description and stores them on it.
	//
	// Parameters:
	//   - p: the pipeline description
	//   - module: the compiled module of p's shader
	//
	// Returns:
	//   - error: an error if the pipeline could not be created, otherwise nil
	RegisterRenderPipeline(p pipeline.Pipeline, module *wgpu.ShaderModule) error

	// CreateTexture allocates a 2D texture with a single mip level and a view of it.
	//
	// Parameters:
	//   - label: the debug label
	//   - width, height: the texture size in pixels
	//   - format: the texture format
	//   - usage: the texture usage flags
	//
	// Returns:
	//   - *texture: the texture
	//   - error: an error if the texture or its view could not be created
	CreateTexture(label string, width, height uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*texture, error)

	// WriteTexture uploads RGBA pixels covering the whole texture.
	//
	// Parameters:
	//   - t: the destination texture, created with CopyDst usage
	//   - data: the pixels
	//
	// Returns:
	//   - error: an error if data holds fewer pixels than the texture
	WriteTexture(t *texture, data common.TextureStagingData) error

	// CreateSampler creates a sampler, filling zero fields of the staging data with defaults.
	//
	// Parameters:
	//   - data: the sampler configuration
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	//   - error: an error if the sampler could not be created
	CreateSampler(data common.SamplerStagingData) (*wgpu.Sampler, error)

	// BeginFrame acquires the next swapchain texture and returns the surface recording into it.
	// Must be paired with Present.
	//
	// Returns:
	//   - *drawSurface: the window surface for this frame
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() (*drawSurface, error)

	// EncodeSurface encodes the draws recorded into s as a single render pass and submits it to the GPU
	// queue. Per-draw uniform buffers and bind groups are released once submitted.
	//
	// Parameters:
	//   - s: the surface to encode
	//   - sampler: the sampler bound to every sampler binding
	//   - fallback: the texture bound to texture bindings without a texture
	//
	// Returns:
	//   - error: an error if a bind group or the command buffer could not be created
	EncodeSurface(s *drawSurface, sampler *wgpu.Sampler, fallback *texture) error

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after the window surface has been encoded.
	Present()

	// Release releases the device and every surface resource.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
	}
	w.SetSurface(w.instance.CreateSurface(surfaceDescriptor))

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.SetAdapter(a)

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.SetDevice(d)
	w.SetQueue(d.GetQueue())

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]
	b.width, b.height = uint32(width), uint32(height)

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       b.width,
		Height:      b.height,
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseMSAA()
	count := uint32(b.sampleCount)
	if count <= 1 {
		// No MSAA, the render pass draws directly to the swapchain view.
		return
	}

	// The render pass draws into the MSAA texture and resolves into the swapchain view.
	msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "MSAA Texture",
		Size: wgpu.Extent3D{
			Width:              b.width,
			Height:             b.height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        *b.surfaceFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.msaaTexture = msaaTexture
	b.msaaTextureView, err = msaaTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) SurfaceSize() common.Resolution {
	b.mu.Lock()
	defer b.mu.Unlock()
	return common.Resolution{Width: b.width, Height: b.height}
}

func (b *wgpuRendererBackendImpl) CreateShaderModule(s shader.Shader) (*wgpu.ShaderModule, error) {
	return b.device.CreateShaderModule(s.Module())
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline, module *wgpu.ShaderModule) error {
	s := p.Shader()
	if s == nil || module == nil {
		return errors.New("a shader and its module must be set to create a render pipeline")
	}
	if p.FragmentEntryPoint() == "" {
		return errors.New("a fragment entry point must be set to create a render pipeline")
	}

	descriptors := s.BindGroupLayoutDescriptors()
	maxGroup := -1
	for g := range descriptors {
		if g > maxGroup {
			maxGroup = g
		}
	}

	// Gaps in the group indices get empty layouts; the pipeline layout cannot hold nil entries.
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := range bindGroupLayouts {
		desc, ok := descriptors[g]
		if !ok {
			desc = wgpu.BindGroupLayoutDescriptor{Label: fmt.Sprintf("%s Empty Group %d", s.Key(), g)}
		}
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			releaseLayouts(bindGroupLayouts)
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		releaseLayouts(bindGroupLayouts)
		return err
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: s.VertexEntryPoint(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				func() wgpu.ColorTargetState {
					state := wgpu.ColorTargetState{
						Format:    p.Format(),
						WriteMask: p.WriteMask(),
					}
					if p.BlendEnabled() {
						state.Blend = p.BlendState()
					}
					return state
				}(),
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: p.SampleCount(),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		releaseLayouts(bindGroupLayouts)
		return err
	}

	p.SetRenderPipeline(created)
	p.SetBindGroupLayouts(bindGroupLayouts)

	return nil
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, width, height uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     usage,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	return &texture{
		label:  label,
		tex:    tex,
		view:   view,
		width:  width,
		height: height,
		format: format,
	}, nil
}

func (b *wgpuRendererBackendImpl) WriteTexture(t *texture, data common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t.tex == nil {
		return errors.New("texture has been released")
	}
	if need := int(t.width) * int(t.height) * 4; len(data.Pixels) < need {
		return fmt.Errorf("texture %s needs %d bytes, got %d", t.label, need, len(data.Pixels))
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  t.width * 4,
			RowsPerImage: t.height,
		},
		&wgpu.Extent3D{
			Width:              t.width,
			Height:             t.height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateSampler(data common.SamplerStagingData) (*wgpu.Sampler, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Effect Sampler",
		AddressModeU:  common.Coalesce(data.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(data.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(data.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(data.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(data.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(data.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(data.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(data.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(data.MaxAnisotropy, 1),
	})
}

func (b *wgpuRendererBackendImpl) BeginFrame() (*drawSurface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A swapchain texture still held means the previous frame was never presented; acquiring another one
	// fails validation in wgpu-native.
	if b.frameSurface != nil {
		return nil, fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, err
	}

	b.frameSurface = surfaceTexture
	b.frameView = view

	// With MSAA the MSAA texture is drawn into and the swapchain view is the resolve target.
	s := newDrawSurface("Window Surface", view, *b.surfaceFormat, uint32(b.sampleCount), b.width, b.height)
	if b.msaaTextureView != nil {
		s.view = b.msaaTextureView
		s.resolveTarget = view
	} else {
		s.sampleCount = 1
	}
	return s, nil
}

// encodedDraw is a recorded draw with its bind groups created.
type encodedDraw struct {
	pipeline pipeline.Pipeline
	groups   []bind_group_provider.BindGroupProvider
}

func (b *wgpuRendererBackendImpl) EncodeSurface(s *drawSurface, sampler *wgpu.Sampler, fallback *texture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	defer func() { s.draws = s.draws[:0] }()

	var encoded []encodedDraw
	defer func() {
		for _, d := range encoded {
			for _, g := range d.groups {
				g.Release()
			}
		}
	}()

	for i, d := range s.draws {
		if d.pipeline.Pipeline() == nil {
			continue
		}
		groups, err := b.initDrawBindGroups(fmt.Sprintf("%s Draw %d", s.label, i), d, sampler, fallback)
		encoded = append(encoded, encodedDraw{pipeline: d.pipeline, groups: groups})
		if err != nil {
			return err
		}
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	loadOp, clearValue := wgpu.LoadOpLoad, wgpu.Color{}
	if s.clear != nil {
		loadOp, clearValue = wgpu.LoadOpClear, *s.clear
	}
	storeOp := wgpu.StoreOpStore
	if s.resolveTarget != nil {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          s.view,
				ResolveTarget: s.resolveTarget,
				LoadOp:        loadOp,
				StoreOp:       storeOp,
				ClearValue:    clearValue,
			},
		},
	})
	for _, d := range encoded {
		pass.SetPipeline(d.pipeline.Pipeline())
		for _, g := range d.groups {
			pass.SetBindGroup(uint32(g.Group()), g.BindGroup(), nil)
		}
		pass.Draw(quadVertexCount, 1, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	s.clear = nil
	return nil
}

// initDrawBindGroups creates one provider per bind group the draw's effect declares, with its uniform
// buffers written from the draw's staged uniform bytes.
func (b *wgpuRendererBackendImpl) initDrawBindGroups(label string, d drawCommand, sampler *wgpu.Sampler, fallback *texture) ([]bind_group_provider.BindGroupProvider, error) {
	descriptors := d.pipeline.Shader().BindGroupLayoutDescriptors()
	providers := make([]bind_group_provider.BindGroupProvider, 0, len(descriptors))

	var writes []bind_group_provider.BufferWrite
	for g, desc := range descriptors {
		provider := bind_group_provider.NewBindGroupProvider(
			fmt.Sprintf("%s Group %d", label, g),
			bind_group_provider.WithGroup(g),
			bind_group_provider.WithBindGroupLayout(d.pipeline.BindGroupLayout(g)),
		)
		providers = append(providers, provider)

		for _, entry := range desc.Entries {
			binding := int(entry.Binding)
			switch {
			case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
				tex := fallback
				if t, ok := d.textures[bindingKey{g, binding}]; ok && t.view != nil {
					tex = t
				}
				provider.SetTextureView(binding, tex.view)
			case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
				provider.SetSampler(binding, sampler)
			}
		}

		if err := b.initBindGroup(provider, desc); err != nil {
			return providers, err
		}
		for _, entry := range desc.Entries {
			if data, ok := d.uniforms[bindingKey{g, int(entry.Binding)}]; ok {
				writes = append(writes, bind_group_provider.BufferWrite{
					Provider: provider,
					Binding:  int(entry.Binding),
					Data:     data,
				})
			}
		}
	}

	b.writeBuffers(writes)
	return providers, nil
}

// initBindGroup creates the buffers and the bind group of a provider from its layout entries. Texture views
// and samplers must already be attached.
func (b *wgpuRendererBackendImpl) initBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		return fmt.Errorf("%s has no bind group layout", provider.Label())
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		if isTexture {
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("texture binding %d has no texture view", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tv,
			}
		} else if isSampler {
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("sampler binding %d has no sampler", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		} else {
			var usage wgpu.BufferUsage
			switch entry.Buffer.Type {
			case wgpu.BufferBindingTypeUniform:
				usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
			case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
				usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
			}

			buf := provider.Buffer(binding)
			if buf == nil {
				var bufErr error
				buf, bufErr = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " Buffer",
					Size:  max(entry.Buffer.MinBindingSize, 16),
					Usage: usage,
				})
				if bufErr != nil {
					return bufErr
				}
				provider.SetBuffer(binding, buf)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

// writeBuffers writes staged uniform bytes to the GPU queue, ahead of the command buffer that reads them.
func (b *wgpuRendererBackendImpl) writeBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil || len(w.Data) == 0 {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
	b.releaseMSAA()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

func (b *wgpuRendererBackendImpl) releaseMSAA() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) Instance() *wgpu.Instance {
	return b.instance
}

func (b *wgpuRendererBackendImpl) Adapter() *wgpu.Adapter {
	return b.adapter
}

func (b *wgpuRendererBackendImpl) Surface() *wgpu.Surface {
	return b.surface
}

func (b *wgpuRendererBackendImpl) SetDevice(device *wgpu.Device) {
	b.device = device
}

func (b *wgpuRendererBackendImpl) SetQueue(queue *wgpu.Queue) {
	b.queue = queue
}

func (b *wgpuRendererBackendImpl) SetInstance(instance *wgpu.Instance) {
	b.instance = instance
}

func (b *wgpuRendererBackendImpl) SetAdapter(adapter *wgpu.Adapter) {
	b.adapter = adapter
}

func (b *wgpuRendererBackendImpl) SetSurface(surface *wgpu.Surface) {
	b.surface = surface
}

func releaseLayouts(layouts []*wgpu.BindGroupLayout) {
	for _, l := range layouts {
		if l != nil {
			l.Release()
		}
	}
}
