package renderer

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Uniform members the renderer fills on every draw when an effect declares them.
const (
	uniformViewProj = "view_proj"
	uniformSize     = "size"
)

// paramImage is the texture parameter DrawSprite binds its texture to.
const paramImage = "image"

// bindingKey addresses one @group/@binding slot.
type bindingKey struct {
	group   int
	binding int
}

// effect is the renderer's gfx.Effect. Parameter values are staged on the CPU and copied into each recorded
// draw, so changing a parameter never affects draws already recorded.
type effect struct {
	r      *renderer
	shader shader.Shader
	module *wgpu.ShaderModule

	params   map[string]*effectParam
	uniforms map[bindingKey][]byte
	textures map[bindingKey]gfx.Texture

	technique string
	entry     string
	destroyed bool
}

var _ gfx.Effect = &effect{}

func newEffect(r *renderer, s shader.Shader, module *wgpu.ShaderModule) *effect {
	e := &effect{
		r:        r,
		shader:   s,
		module:   module,
		params:   make(map[string]*effectParam),
		uniforms: make(map[bindingKey][]byte),
		textures: make(map[bindingKey]gfx.Texture),
	}
	for _, b := range s.Bindings() {
		if b.Kind == shader.ResourceUniform {
			e.uniforms[bindingKey{b.Group, b.Binding}] = make([]byte, b.Size)
		}
	}
	return e
}

func (e *effect) Param(name string) gfx.EffectParam {
	if p, ok := e.params[name]; ok {
		return p
	}

	p := &effectParam{e: e, name: name}
	if field, ok := e.shader.UniformField(name); ok {
		p.field = &field
	} else if b, ok := e.shader.Binding(name); ok && b.Kind == shader.ResourceTexture {
		key := bindingKey{b.Group, b.Binding}
		p.texture = &key
	} else {
		return nil
	}
	e.params[name] = p
	return p
}

func (e *effect) Loop(technique string) bool {
	if e.technique != "" {
		e.technique, e.entry = "", ""
		e.r.active = nil
		return false
	}
	if e.destroyed {
		return false
	}
	entry, err := e.shader.Technique(technique)
	if err != nil {
		log.Printf("[Renderer] %v", err)
		return false
	}
	e.technique, e.entry = technique, entry
	e.r.active = e
	return true
}

func (e *effect) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.r.forgetEffect(e)
	if e.module != nil {
		e.module.Release()
		e.module = nil
	}
}

// setFloat writes v into the staged bytes of a uniform field.
func (e *effect) setFloat(field *shader.UniformField, v float32) {
	putFloats(e.uniforms, *field, v)
}

// snapshot copies the staged parameters for one draw.
func (e *effect) snapshot() (map[bindingKey][]byte, map[bindingKey]gfx.Texture) {
	uniforms := make(map[bindingKey][]byte, len(e.uniforms))
	for k, v := range e.uniforms {
		uniforms[k] = append([]byte(nil), v...)
	}
	textures := make(map[bindingKey]gfx.Texture, len(e.textures))
	for k, v := range e.textures {
		textures[k] = v
	}
	return uniforms, textures
}

// putFloats writes vs consecutively into a uniform field, truncated to the field size.
func putFloats(uniforms map[bindingKey][]byte, field shader.UniformField, vs ...float32) {
	buf, ok := uniforms[bindingKey{field.Group, field.Binding}]
	if !ok {
		return
	}
	for i, v := range vs {
		off := field.Offset + uint64(i)*4
		if uint64(i)*4+4 > field.Size || off+4 > uint64(len(buf)) {
			return
		}
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
}

// effectParam is a named uniform field or texture binding of an effect.
type effectParam struct {
	e       *effect
	name    string
	field   *shader.UniformField
	texture *bindingKey
}

func (p *effectParam) Name() string {
	return p.name
}

func (p *effectParam) SetTexture(tex gfx.Texture) {
	if p.texture == nil {
		return
	}
	p.e.textures[*p.texture] = tex
}

func (p *effectParam) SetFloat(v float32) {
	if p.field == nil {
		return
	}
	p.e.setFloat(p.field, v)
}
