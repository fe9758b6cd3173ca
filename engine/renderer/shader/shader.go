package shader

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoEntryPoint is returned when an effect source lacks a @vertex or @fragment entry point.
	ErrNoEntryPoint = errors.New("shader: missing entry point")

	// ErrUnknownTechnique is returned when a technique name has no matching fragment entry point.
	ErrUnknownTechnique = errors.New("shader: unknown technique")
)

// ShaderType identifies a programmable pipeline stage.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// ResourceKind classifies a bound resource declared in an effect source.
type ResourceKind int

const (
	ResourceUnknown ResourceKind = iota
	ResourceUniform
	ResourceStorage
	ResourceTexture
	ResourceSampler
)

// Binding describes a single @group/@binding declaration.
type Binding struct {
	Group   int
	Binding int
	Name    string
	Kind    ResourceKind
	// Size is the minimum buffer size for uniform and storage bindings, zero otherwise.
	Size uint64
}

// UniformField is a named member of a uniform struct and the byte range it occupies in its buffer.
type UniformField struct {
	Name    string
	Type    string
	Group   int
	Binding int
	Offset  uint64
	Size    uint64
}

// shader is the implementation of the Shader interface.
// It holds everything parsed out of an effect source that the renderer needs to build pipelines and bind
// parameters by name.
type shader struct {
	key                        string
	source                     string
	vertexEntry                string
	fragmentEntries            []string
	techniques                 map[string]string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindings                   []Binding
	uniformFields              map[string]UniformField
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL effect: one vertex entry point shared by every technique, and one fragment entry
// point per technique. A fragment entry named fs_draw provides the technique "Draw", fs_draw_alpha provides
// "DrawAlpha", and so on.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// Module returns the shader module descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the vertex entry point
	VertexEntryPoint() string

	// Techniques returns the technique names provided by the effect, sorted.
	//
	// Returns:
	//   - []string: the technique names
	Techniques() []string

	// Technique resolves a technique name to its fragment entry point.
	//
	// Parameters:
	//   - name: the technique name (e.g. "Draw")
	//
	// Returns:
	//   - string: the fragment entry point
	//   - error: ErrUnknownTechnique if the effect has no such technique
	Technique(name string) (string, error)

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	// Every entry is visible to both the vertex and fragment stages.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Bindings returns every resource declaration sorted by group then binding.
	//
	// Returns:
	//   - []Binding: the declarations
	Bindings() []Binding

	// Binding looks up a resource declaration by variable name.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - Binding: the declaration
	//   - bool: false if no resource has that name
	Binding(name string) (Binding, bool)

	// UniformField looks up a uniform struct member by field name.
	//
	// Parameters:
	//   - name: the field name
	//
	// Returns:
	//   - UniformField: the field location
	//   - bool: false if no uniform struct has that field
	UniformField(name string) (UniformField, bool)
}

var _ Shader = &shader{}

// NewShader reads and parses an effect source file.
//
// Parameters:
//   - key: the unique key for the shader
//   - sourcePath: the path of the WGSL file
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the file could not be read or parsed
func NewShader(key string, sourcePath string) (Shader, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("shader: %s has no source path", key)
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", sourcePath, err)
	}
	return ParseShader(key, string(data))
}

// ParseShader parses effect source held in memory.
//
// Parameters:
//   - key: the unique key for the shader
//   - source: the WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrNoEntryPoint if the source lacks a vertex or fragment entry point
func ParseShader(key string, source string) (Shader, error) {
	s := &shader{
		key:        key,
		source:     source,
		techniques: make(map[string]string),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}

	if entries := parseEntryPoints(source, ShaderTypeVertex); len(entries) > 0 {
		s.vertexEntry = entries[0]
	}
	s.fragmentEntries = parseEntryPoints(source, ShaderTypeFragment)
	if s.vertexEntry == "" || len(s.fragmentEntries) == 0 {
		return nil, fmt.Errorf("%w: %s needs a @vertex and at least one @fragment function", ErrNoEntryPoint, key)
	}
	for _, entry := range s.fragmentEntries {
		s.techniques[techniqueName(entry)] = entry
	}

	s.bindGroupLayoutDescriptors, s.bindings = parseBindGroupLayouts(source, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	s.uniformFields = parseUniformFields(source)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) Techniques() []string {
	names := make([]string, 0, len(s.techniques))
	for name := range s.techniques {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *shader) Technique(name string) (string, error) {
	entry, ok := s.techniques[name]
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", ErrUnknownTechnique, name, s.key)
	}
	return entry, nil
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) Binding(name string) (Binding, bool) {
	for _, b := range s.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *shader) UniformField(name string) (UniformField, bool) {
	f, ok := s.uniformFields[name]
	return f, ok
}

// techniqueName maps a fragment entry point to its technique name: the fs_ prefix is dropped and each
// underscore-separated word is capitalized.
func techniqueName(entry string) string {
	trimmed := strings.TrimPrefix(entry, "fs_")
	var sb strings.Builder
	for word := range strings.SplitSeq(trimmed, "_") {
		if word == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(word[:1]))
		sb.WriteString(word[1:])
	}
	if sb.Len() == 0 {
		return entry
	}
	return sb.String()
}
