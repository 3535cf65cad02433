package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/internal/reduce"
	"github.com/reduct-ml/reduct/internal/tensor"
)

// Kernel is the host reduction kernel. Along dimension 0 it reduces one
// workgroup-sized chunk per output element, the shape the staged pipeline
// expects; along any other axis it collapses the whole extent in one pass.
type Kernel struct{}

// Validate checks that one reduction step is computable by this kernel.
func (k *Kernel) Validate(in, out *tensor.Descriptor, axis int, op reduce.Op, width int) error {
	if in.DType() != tensor.Float32 && in.DType() != tensor.Float64 {
		return fmt.Errorf("cpu: unsupported dtype %s (only float32/float64)", in.DType())
	}
	if out.DType() != in.DType() {
		return fmt.Errorf("cpu: dtype mismatch: input %s, output %s", in.DType(), out.DType())
	}
	if in.Channels() != 1 || out.Channels() != 1 {
		return fmt.Errorf("cpu: multi-channel tensors not supported")
	}
	if out.Rank() != in.Rank() {
		return fmt.Errorf("cpu: rank mismatch: input %d, output %d", in.Rank(), out.Rank())
	}
	if axis < 0 || axis >= in.Rank() {
		return fmt.Errorf("cpu: axis %d out of range for rank %d input", axis, in.Rank())
	}
	if width < 0 {
		return fmt.Errorf("cpu: negative width %d", width)
	}

	want := 1
	if axis == 0 {
		want = ceilDiv(in.Dim(0), reduce.WorkgroupSize)
	}
	if out.Dim(axis) != want {
		return fmt.Errorf("cpu: output extent %d along axis %d, want %d", out.Dim(axis), axis, want)
	}
	for i := 0; i < in.Rank(); i++ {
		if i != axis && in.Dim(i) != out.Dim(i) {
			return fmt.Errorf("cpu: extent mismatch at dimension %d: input %d, output %d", i, in.Dim(i), out.Dim(i))
		}
	}

	switch op {
	case reduce.Sum, reduce.MeanSum, reduce.SumSquare:
	case reduce.Min, reduce.Max:
		if axis == 0 {
			return fmt.Errorf("cpu: %s not supported along dimension 0", op)
		}
	default:
		return fmt.Errorf("cpu: %s not implemented", op)
	}
	return nil
}

// Configure prepares one reduction step over the given buffers.
func (k *Kernel) Configure(in, out *device.Buffer, axis int, op reduce.Op, width int) device.Workload {
	return &reduceWork{in: in, out: out, axis: axis, op: op, width: width}
}

// BorderSize reports the padding that rounds dimension 0 up to whole
// workgroups, so fixed-size block reads stay inside the allocation.
func (k *Kernel) BorderSize(in *tensor.Descriptor, axis int) int {
	if axis != 0 {
		return 0
	}
	workgroups := ceilDiv(in.Dim(0), reduce.WorkgroupSize)
	return workgroups*reduce.WorkgroupSize - in.Dim(0)
}

// reduceWork executes one configured reduction step.
type reduceWork struct {
	in, out *device.Buffer
	axis    int
	op      reduce.Op
	width   int
}

// Execute runs the reduction.
func (w *reduceWork) Execute() {
	if w.axis == 0 {
		w.reduceDim0()
	} else {
		w.reduceAxis()
	}
}

// divisor returns the MeanSum denominator: the original pre-reduction width
// when staged, the local extent on the single-pass path.
func (w *reduceWork) divisor() float64 {
	if w.width > 0 {
		return float64(w.width)
	}
	return float64(w.in.Descriptor().Dim(w.axis))
}

// reduceDim0 collapses each workgroup-sized chunk of dimension 0 into one
// output element.
func (w *reduceWork) reduceDim0() {
	in, out := w.in.Descriptor(), w.out.Descriptor()
	d0 := in.Dim(0)
	pwIn, pwOut := w.in.PaddedDim0(), w.out.PaddedDim0()
	rows := in.NumElements() / d0
	outW := out.Dim(0)

	switch in.DType() {
	case tensor.Float32:
		reduceDim0Float32(w.in.Float32(), w.out.Float32(), rows, d0, pwIn, outW, pwOut, w.op, float32(w.divisor()))
	case tensor.Float64:
		reduceDim0Float64(w.in.Float64(), w.out.Float64(), rows, d0, pwIn, outW, pwOut, w.op, w.divisor())
	default:
		panic(fmt.Sprintf("cpu: reduce: unsupported dtype %s", in.DType()))
	}
}

func reduceDim0Float32(src, dst []float32, rows, d0, pwIn, outW, pwOut int, op reduce.Op, divisor float32) {
	for r := 0; r < rows; r++ {
		base := r * pwIn
		for g := 0; g < outW; g++ {
			lo := g * reduce.WorkgroupSize
			hi := lo + reduce.WorkgroupSize
			if hi > d0 {
				hi = d0
			}
			var acc float32
			if op == reduce.SumSquare {
				for _, v := range src[base+lo : base+hi] {
					acc += v * v
				}
			} else {
				for _, v := range src[base+lo : base+hi] {
					acc += v
				}
			}
			if op == reduce.MeanSum {
				acc /= divisor
			}
			dst[r*pwOut+g] = acc
		}
	}
}

func reduceDim0Float64(src, dst []float64, rows, d0, pwIn, outW, pwOut int, op reduce.Op, divisor float64) {
	for r := 0; r < rows; r++ {
		base := r * pwIn
		for g := 0; g < outW; g++ {
			lo := g * reduce.WorkgroupSize
			hi := lo + reduce.WorkgroupSize
			if hi > d0 {
				hi = d0
			}
			chunk := src[base+lo : base+hi]
			var acc float64
			if op == reduce.SumSquare {
				acc = floats.Dot(chunk, chunk)
			} else {
				acc = floats.Sum(chunk)
			}
			if op == reduce.MeanSum {
				acc /= divisor
			}
			dst[r*pwOut+g] = acc
		}
	}
}

// reduceAxis collapses the whole extent of a non-zero axis in one pass.
func (w *reduceWork) reduceAxis() {
	in := w.in.Descriptor()
	shape := in.Shape()
	n := shape[w.axis]
	numOut := in.NumElements() / n

	strides := paddedStrides(w.in)
	outStrides := paddedStrides(w.out)
	step := strides[w.axis]

	switch in.DType() {
	case tensor.Float32:
		reduceAxisFloat32(w.in.Float32(), w.out.Float32(), shape, strides, outStrides, w.axis, n, numOut, step, w.op, float32(w.divisor()))
	case tensor.Float64:
		reduceAxisFloat64(w.in.Float64(), w.out.Float64(), shape, strides, outStrides, w.axis, n, numOut, step, w.op, w.divisor())
	default:
		panic(fmt.Sprintf("cpu: reduce: unsupported dtype %s", in.DType()))
	}
}

func reduceAxisFloat32(src, dst []float32, shape tensor.Shape, strides, outStrides []int, axis, n, numOut, step int, op reduce.Op, divisor float32) {
	for o := 0; o < numOut; o++ {
		srcBase, dstOff := 0, 0
		rem := o
		for d := 0; d < len(shape); d++ {
			if d == axis {
				continue
			}
			coord := rem % shape[d]
			rem /= shape[d]
			srcBase += coord * strides[d]
			dstOff += coord * outStrides[d]
		}

		acc := src[srcBase]
		if op == reduce.SumSquare {
			acc *= acc
		}
		for i := 1; i < n; i++ {
			v := src[srcBase+i*step]
			switch op {
			case reduce.SumSquare:
				acc += v * v
			case reduce.Min:
				if v < acc {
					acc = v
				}
			case reduce.Max:
				if v > acc {
					acc = v
				}
			default:
				acc += v
			}
		}
		if op == reduce.MeanSum {
			acc /= divisor
		}
		dst[dstOff] = acc
	}
}

func reduceAxisFloat64(src, dst []float64, shape tensor.Shape, strides, outStrides []int, axis, n, numOut, step int, op reduce.Op, divisor float64) {
	for o := 0; o < numOut; o++ {
		srcBase, dstOff := 0, 0
		rem := o
		for d := 0; d < len(shape); d++ {
			if d == axis {
				continue
			}
			coord := rem % shape[d]
			rem /= shape[d]
			srcBase += coord * strides[d]
			dstOff += coord * outStrides[d]
		}

		acc := src[srcBase]
		if op == reduce.SumSquare {
			acc *= acc
		}
		for i := 1; i < n; i++ {
			v := src[srcBase+i*step]
			switch op {
			case reduce.SumSquare:
				acc += v * v
			case reduce.Min:
				if v < acc {
					acc = v
				}
			case reduce.Max:
				if v > acc {
					acc = v
				}
			default:
				acc += v
			}
		}
		if op == reduce.MeanSum {
			acc /= divisor
		}
		dst[dstOff] = acc
	}
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
