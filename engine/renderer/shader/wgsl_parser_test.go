package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{"Pair": {16, 8}}
	tests := []struct {
		typeName string
		want     wgslTypeLayout
		ok       bool
	}{
		{"f32", wgslTypeLayout{4, 4}, true},
		{"vec3f", wgslTypeLayout{12, 16}, true},
		{"mat4x4<f32>", wgslTypeLayout{64, 16}, true},
		{"Pair", wgslTypeLayout{16, 8}, true},
		{"array<vec3f, 4>", wgslTypeLayout{64, 16}, true},
		{"array<array<f32, 2>, 3>", wgslTypeLayout{24, 4}, true},
		{"array<Pair>", wgslTypeLayout{16, 8}, true},
		{"array<f32, n>", wgslTypeLayout{}, false},
		{"Missing", wgslTypeLayout{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, ok := resolveTypeLayout(tt.typeName, known)
			if ok != tt.ok || got != tt.want {
				t.Errorf("resolveTypeLayout(%q) = %v, %v; want %v, %v", tt.typeName, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestComputeStructSizesResolvesDependencies(t *testing.T) {
	structs := parseStructBlocks(stripComments(`
struct Outer { inner: Inner, tail: f32 }
struct Inner { a: vec3f, b: f32 }
struct Broken { x: Unknown }
`))
	sizes := computeStructSizes(structs)

	if got := sizes["Inner"]; got != (wgslTypeLayout{16, 16}) {
		t.Errorf("Inner = %v, want {16 16}", got)
	}
	if got := sizes["Outer"]; got != (wgslTypeLayout{32, 16}) {
		t.Errorf("Outer = %v, want {32 16}", got)
	}
	if _, ok := sizes["Broken"]; ok {
		t.Error("Broken resolved")
	}
}

func TestStripComments(t *testing.T) {
	got := stripComments("a /* x /* nested */ y */ b // tail\nc")
	if got != "a  b \nc" {
		t.Errorf("stripComments = %q", got)
	}
}

func TestClassifyResource(t *testing.T) {
	tests := []struct {
		name, space, typeName string
		want                  ResourceKind
	}{
		{"uniform", "uniform", "Globals", ResourceUniform},
		{"storage", "storage, read", "Data", ResourceStorage},
		{"sampler", "", "sampler", ResourceSampler},
		{"texture", "", "texture_2d<f32>", ResourceTexture},
		{"storage texture", "", "texture_storage_2d<rgba8unorm, write>", ResourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := classifyResource(0, wgpu.ShaderStageFragment, tt.space, tt.typeName)
			if got := resourceKind(entry); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}

	entry := classifyResource(3, wgpu.ShaderStageFragment, "", "texture_2d<f32>")
	if entry.Binding != 3 || entry.Texture.ViewDimension != wgpu.TextureViewDimension2D || entry.Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Errorf("texture entry = %+v", entry.Texture)
	}
}
