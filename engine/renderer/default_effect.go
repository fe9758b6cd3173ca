package renderer

// defaultEffectSource is the built-in sprite effect returned by DefaultEffect. It draws a texture unchanged.
const defaultEffectSource = `
struct Globals {
    view_proj: mat4x4<f32>,
    size: vec2<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;
@group(0) @binding(1) var image: texture_2d<f32>;
@group(0) @binding(2) var image_sampler: sampler;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOutput {
    var corners = array<vec2<f32>, 6>(
        vec2<f32>(0.0, 0.0),
        vec2<f32>(1.0, 0.0),
        vec2<f32>(0.0, 1.0),
        vec2<f32>(0.0, 1.0),
        vec2<f32>(1.0, 0.0),
        vec2<f32>(1.0, 1.0),
    );
    let corner = corners[index];

    var out: VertexOutput;
    out.position = globals.view_proj * vec4<f32>(corner * globals.size, 0.0, 1.0);
    out.uv = corner;
    return out;
}

@fragment
fn fs_draw(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(image, image_sampler, in.uv);
}
`
