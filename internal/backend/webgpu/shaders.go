//go:build windows

package webgpu

import "fmt"

// The dimension-0 reduction shader mirrors the staged pipeline's workgroup
// geometry: 16 elements per thread, 8 threads per workgroup, 128 elements
// per workgroup. One workgroup produces one output element; dispatch is
// (workgroups along dimension 0) x (rows).
const dim0ShaderTemplate = `
@group(0) @binding(0) var<storage, read> src: array<f32>;
@group(0) @binding(1) var<storage, read_write> dst: array<f32>;

struct Params {
    d0: u32,
    pw_in: u32,
    pw_out: u32,
    divisor: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

var<workgroup> partial: array<f32, 8>;

@compute @workgroup_size(8)
fn main(
    @builtin(workgroup_id) wid: vec3<u32>,
    @builtin(local_invocation_id) lid: vec3<u32>,
) {
    let g = wid.x;
    let r = wid.y;

    var acc = 0.0;
    for (var i = 0u; i < 16u; i = i + 1u) {
        let x = g * 128u + lid.x * 16u + i;
        var v = 0.0;
        if (x < params.d0) {
            v = src[r * params.pw_in + x];
        }
        acc = acc + %s;
    }
    partial[lid.x] = acc;
    workgroupBarrier();

    if (lid.x == 0u) {
        var total = 0.0;
        for (var i = 0u; i < 8u; i = i + 1u) {
            total = total + partial[i];
        }
        dst[r * params.pw_out + g] = total %s;
    }
}
`

// dim0Shader builds the workgroup-reduction shader for one arithmetic
// variant. accum is the per-element contribution; scale the final
// adjustment applied by thread 0.
func dim0Shader(accum, scale string) string {
	return fmt.Sprintf(dim0ShaderTemplate, accum, scale)
}

var (
	sumDim0Shader       = dim0Shader("v", "")
	sumSquareDim0Shader = dim0Shader("v * v", "")
	meanSumDim0Shader   = dim0Shader("v", "/ params.divisor")
)

// The whole-axis shader handles the single-pass path for axes other than 0.
// Each invocation reduces one full line; the host precomputes the source
// and destination offsets per output element, so the shader stays free of
// shape decomposition.
const axisShader = `
@group(0) @binding(0) var<storage, read> src: array<f32>;
@group(0) @binding(1) var<storage, read_write> dst: array<f32>;
@group(0) @binding(2) var<storage, read> offsets: array<vec2<u32>>;

struct Params {
    num_out: u32,
    n: u32,
    step: u32,
    op: u32,
    divisor: f32,
}
@group(0) @binding(3) var<uniform> params: Params;

const OP_SUM = 0u;
const OP_MEAN_SUM = 1u;
const OP_SUM_SQUARE = 2u;
const OP_MIN = 3u;
const OP_MAX = 4u;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.num_out) {
        return;
    }

    let base = offsets[idx].x;
    var acc = src[base];
    if (params.op == OP_SUM_SQUARE) {
        acc = acc * acc;
    }

    for (var k = 1u; k < params.n; k = k + 1u) {
        let v = src[base + k * params.step];
        switch params.op {
            case OP_SUM_SQUARE: {
                acc = acc + v * v;
            }
            case OP_MIN: {
                acc = min(acc, v);
            }
            case OP_MAX: {
                acc = max(acc, v);
            }
            default: {
                acc = acc + v;
            }
        }
    }

    if (params.op == OP_MEAN_SUM) {
        acc = acc / params.divisor;
    }
    dst[offsets[idx].y] = acc;
}
`
