//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/internal/reduce"
	"github.com/reduct-ml/reduct/internal/tensor"
)

// Verify that the backend implements the pipeline contracts.
var (
	_ reduce.Kernel       = (*Kernel)(nil)
	_ reduce.BorderFiller = (*Filler)(nil)
	_ device.Queue        = (*Queue)(nil)
)

// axisOp codes shared with the whole-axis shader.
const (
	axisOpSum = iota
	axisOpMeanSum
	axisOpSumSquare
	axisOpMin
	axisOpMax
)

// Kernel is the WebGPU reduction kernel. Along dimension 0 one workgroup
// reduces one 128-element chunk; along other axes each invocation collapses
// a whole line in one pass.
type Kernel struct {
	backend *Backend
}

// Validate checks that one reduction step is computable by this kernel.
func (k *Kernel) Validate(in, out *tensor.Descriptor, axis int, op reduce.Op, width int) error {
	if in.DType() != tensor.Float32 {
		return fmt.Errorf("webgpu: unsupported dtype %s (only float32)", in.DType())
	}
	if out.DType() != in.DType() {
		return fmt.Errorf("webgpu: dtype mismatch: input %s, output %s", in.DType(), out.DType())
	}
	if in.Channels() != 1 || out.Channels() != 1 {
		return fmt.Errorf("webgpu: multi-channel tensors not supported")
	}
	if out.Rank() != in.Rank() {
		return fmt.Errorf("webgpu: rank mismatch: input %d, output %d", in.Rank(), out.Rank())
	}
	if axis < 0 || axis >= in.Rank() {
		return fmt.Errorf("webgpu: axis %d out of range for rank %d input", axis, in.Rank())
	}
	if width < 0 {
		return fmt.Errorf("webgpu: negative width %d", width)
	}

	want := 1
	if axis == 0 {
		want = ceilDiv(in.Dim(0), reduce.WorkgroupSize)
	}
	if out.Dim(axis) != want {
		return fmt.Errorf("webgpu: output extent %d along axis %d, want %d", out.Dim(axis), axis, want)
	}
	for i := 0; i < in.Rank(); i++ {
		if i != axis && in.Dim(i) != out.Dim(i) {
			return fmt.Errorf("webgpu: extent mismatch at dimension %d: input %d, output %d", i, in.Dim(i), out.Dim(i))
		}
	}

	switch op {
	case reduce.Sum, reduce.MeanSum, reduce.SumSquare:
	case reduce.Min, reduce.Max:
		if axis == 0 {
			return fmt.Errorf("webgpu: %s not supported along dimension 0", op)
		}
	default:
		return fmt.Errorf("webgpu: %s not implemented", op)
	}
	return nil
}

// Configure prepares one reduction step over the given buffers.
func (k *Kernel) Configure(in, out *device.Buffer, axis int, op reduce.Op, width int) device.Workload {
	return &reduceWork{backend: k.backend, in: in, out: out, axis: axis, op: op, width: width}
}

// BorderSize reports the padding that rounds dimension 0 up to whole
// workgroups.
func (k *Kernel) BorderSize(in *tensor.Descriptor, axis int) int {
	if axis != 0 {
		return 0
	}
	workgroups := ceilDiv(in.Dim(0), reduce.WorkgroupSize)
	return workgroups*reduce.WorkgroupSize - in.Dim(0)
}

// reduceWork executes one configured reduction step: upload the stage
// input, dispatch the shader, read the result back into the stage output.
type reduceWork struct {
	backend *Backend
	in, out *device.Buffer
	axis    int
	op      reduce.Op
	width   int
}

// Execute runs the reduction on the device.
func (w *reduceWork) Execute() {
	if w.axis == 0 {
		w.reduceDim0()
	} else {
		w.reduceAxis()
	}
}

func (w *reduceWork) divisor() float32 {
	if w.width > 0 {
		return float32(w.width)
	}
	return float32(w.in.Descriptor().Dim(w.axis))
}

// dim0ShaderFor picks the shader variant for the stage's operation.
func dim0ShaderFor(op reduce.Op) (name, code string) {
	switch op {
	case reduce.SumSquare:
		return "reduce_dim0_sum_square", sumSquareDim0Shader
	case reduce.MeanSum:
		return "reduce_dim0_mean_sum", meanSumDim0Shader
	default:
		return "reduce_dim0_sum", sumDim0Shader
	}
}

func (w *reduceWork) reduceDim0() {
	b := w.backend
	in, out := w.in.Descriptor(), w.out.Descriptor()
	d0 := in.Dim(0)
	rows := in.NumElements() / d0
	outW := out.Dim(0)

	name, code := dim0ShaderFor(w.op)
	shader := b.compileShader(name, code)
	pipeline := b.getOrCreatePipeline(name, shader)

	srcBuffer := b.createBuffer(w.in.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer srcBuffer.Release()

	outSize := uint64(w.out.AllocSize())
	dstBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  outSize,
	})
	defer dstBuffer.Release()

	params := packParams(
		uint32(d0),
		uint32(w.in.PaddedDim0()),
		uint32(w.out.PaddedDim0()),
		math.Float32bits(w.divisor()),
	)
	paramsBuffer := b.createUniformBuffer(params)
	defer paramsBuffer.Release()

	layout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(layout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, srcBuffer, 0, uint64(len(w.in.Data()))),
		wgpu.BufferBindingEntry(1, dstBuffer, 0, outSize),
		wgpu.BufferBindingEntry(2, paramsBuffer, 0, 16),
	})
	defer bindGroup.Release()

	w.dispatch(pipeline, bindGroup, uint32(outW), uint32(rows))
	w.readBack(dstBuffer, outSize)
}

func (w *reduceWork) reduceAxis() {
	b := w.backend
	in := w.in.Descriptor()
	shape := in.Shape()
	n := shape[w.axis]
	numOut := in.NumElements() / n

	strides := paddedStrides(w.in)
	outStrides := paddedStrides(w.out)
	step := strides[w.axis]

	// Precompute the (source base, destination) offset pair per output
	// element so the shader needs no shape decomposition.
	offsets := make([]byte, 0, numOut*8)
	for o := 0; o < numOut; o++ {
		srcBase, dstOff := 0, 0
		rem := o
		for d := 0; d < len(shape); d++ {
			if d == w.axis {
				continue
			}
			coord := rem % shape[d]
			rem /= shape[d]
			srcBase += coord * strides[d]
			dstOff += coord * outStrides[d]
		}
		offsets = binary.LittleEndian.AppendUint32(offsets, uint32(srcBase))
		offsets = binary.LittleEndian.AppendUint32(offsets, uint32(dstOff))
	}

	opCode := uint32(axisOpSum)
	switch w.op {
	case reduce.MeanSum:
		opCode = axisOpMeanSum
	case reduce.SumSquare:
		opCode = axisOpSumSquare
	case reduce.Min:
		opCode = axisOpMin
	case reduce.Max:
		opCode = axisOpMax
	}

	shader := b.compileShader("reduce_axis", axisShader)
	pipeline := b.getOrCreatePipeline("reduce_axis", shader)

	srcBuffer := b.createBuffer(w.in.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer srcBuffer.Release()

	outSize := uint64(w.out.AllocSize())
	dstBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  outSize,
	})
	defer dstBuffer.Release()

	offsetsBuffer := b.createBuffer(offsets, wgpu.BufferUsageStorage)
	defer offsetsBuffer.Release()

	params := packParams(
		uint32(numOut),
		uint32(n),
		uint32(step),
		opCode,
		math.Float32bits(w.divisor()),
	)
	paramsBuffer := b.createUniformBuffer(params)
	defer paramsBuffer.Release()

	layout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(layout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, srcBuffer, 0, uint64(len(w.in.Data()))),
		wgpu.BufferBindingEntry(1, dstBuffer, 0, outSize),
		wgpu.BufferBindingEntry(2, offsetsBuffer, 0, uint64(len(offsets))),
		wgpu.BufferBindingEntry(3, paramsBuffer, 0, 32),
	})
	defer bindGroup.Release()

	w.dispatch(pipeline, bindGroup, uint32(ceilDiv(numOut, 64)), 1)
	w.readBack(dstBuffer, outSize)
}

// dispatch encodes one compute pass and submits it to the device queue.
func (w *reduceWork) dispatch(pipeline *wgpu.ComputePipeline, bindGroup *wgpu.BindGroup, x, y uint32) {
	b := w.backend

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.DispatchWorkgroups(x, y, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)
}

// readBack copies the device result into the stage output's host storage.
func (w *reduceWork) readBack(dstBuffer *wgpu.Buffer, size uint64) {
	result, err := w.backend.readBuffer(dstBuffer, size)
	if err != nil {
		panic(fmt.Sprintf("webgpu: reduce: %v", err))
	}
	copy(w.out.Data(), result)
}

// packParams encodes uniform fields as little-endian 32-bit words.
func packParams(words ...uint32) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, word := range words {
		out = binary.LittleEndian.AppendUint32(out, word)
	}
	return out
}

// paddedStrides computes memory strides accounting for the buffer's border
// padding along dimension 0.
func paddedStrides(b *device.Buffer) []int {
	shape := b.Descriptor().Shape()
	strides := shape.Strides()
	if len(shape) > 1 {
		strides[1] = b.PaddedDim0()
		for i := 2; i < len(shape); i++ {
			strides[i] = strides[i-1] * shape[i-1]
		}
	}
	return strides
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
