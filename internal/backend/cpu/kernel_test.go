package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/internal/reduce"
	"github.com/reduct-ml/reduct/internal/tensor"
)

func desc(t *testing.T, dtype tensor.DataType, dims ...int) *tensor.Descriptor {
	t.Helper()
	d, err := tensor.NewDescriptor(tensor.Shape(dims), dtype, 1)
	require.NoError(t, err)
	return d
}

func allocBuffer(t *testing.T, d *tensor.Descriptor, border int) *device.Buffer {
	t.Helper()
	b := device.NewBuffer(d)
	b.ExtendBorder(border)
	device.NewGroup(device.NewPool()).Allocate(b)
	return b
}

func TestKernelValidate(t *testing.T) {
	k := &Kernel{}

	in := desc(t, tensor.Float32, 300, 2)
	partial := desc(t, tensor.Float32, 3, 2)
	out1 := desc(t, tensor.Float32, 1, 2)

	// Dimension 0 reduces one workgroup per output element.
	assert.NoError(t, k.Validate(in, partial, 0, reduce.Sum, 0))
	assert.Error(t, k.Validate(in, out1, 0, reduce.Sum, 0), "output must have one element per workgroup")

	// Other axes collapse to extent 1.
	wide := desc(t, tensor.Float32, 4, 1000)
	narrow := desc(t, tensor.Float32, 4, 1)
	assert.NoError(t, k.Validate(wide, narrow, 1, reduce.Min, 0))
	assert.Error(t, k.Validate(wide, wide, 1, reduce.Min, 0))

	// Min/Max have no workgroup decomposition on dimension 0.
	assert.Error(t, k.Validate(in, partial, 0, reduce.Min, 0))
	assert.Error(t, k.Validate(in, partial, 0, reduce.Max, 0))

	// Unimplemented ops and dtypes.
	assert.Error(t, k.Validate(wide, narrow, 1, reduce.Prod, 0))
	quant := desc(t, tensor.QAsymm8, 300, 2)
	assert.Error(t, k.Validate(quant, desc(t, tensor.QAsymm8, 3, 2), 0, reduce.Sum, 0))

	// Mismatched non-reduced extents.
	assert.Error(t, k.Validate(in, desc(t, tensor.Float32, 3, 5), 0, reduce.Sum, 0))
}

func TestKernelBorderSize(t *testing.T) {
	k := &Kernel{}

	assert.Equal(t, 84, k.BorderSize(desc(t, tensor.Float32, 300), 0))
	assert.Equal(t, 0, k.BorderSize(desc(t, tensor.Float32, 256), 0))
	assert.Equal(t, 0, k.BorderSize(desc(t, tensor.Float32, 300), 1))
}

func TestReduceDim0Workgroups(t *testing.T) {
	k := &Kernel{}
	q := &Queue{}

	// 300 elements: workgroups of 128, 128, and 44.
	in := allocBuffer(t, desc(t, tensor.Float32, 300), 84)
	out := allocBuffer(t, desc(t, tensor.Float32, 3), 0)

	src := in.Float32()
	for i := 0; i < 300; i++ {
		src[i] = 1
	}

	q.Submit(k.Configure(in, out, 0, reduce.Sum, 0), false)

	dst := out.Float32()
	assert.Equal(t, float32(128), dst[0])
	assert.Equal(t, float32(128), dst[1])
	assert.Equal(t, float32(44), dst[2])
}

func TestReduceDim0SumSquare(t *testing.T) {
	k := &Kernel{}
	q := &Queue{}

	in := allocBuffer(t, desc(t, tensor.Float32, 4), 124)
	out := allocBuffer(t, desc(t, tensor.Float32, 1), 0)

	copy(in.Float32(), []float32{1, 2, 3, 4})
	q.Submit(k.Configure(in, out, 0, reduce.SumSquare, 0), false)

	assert.Equal(t, float32(30), out.Float32()[0])
}

func TestReduceDim0MeanSumUsesWidth(t *testing.T) {
	k := &Kernel{}
	q := &Queue{}

	// A last stage sums 3 partials but divides by the original width.
	in := allocBuffer(t, desc(t, tensor.Float32, 3), 125)
	out := allocBuffer(t, desc(t, tensor.Float32, 1), 0)

	copy(in.Float32(), []float32{100, 200, 300})
	q.Submit(k.Configure(in, out, 0, reduce.MeanSum, 1200), false)

	assert.Equal(t, float32(0.5), out.Float32()[0])
}

func TestReduceAxisOne(t *testing.T) {
	k := &Kernel{}
	q := &Queue{}

	// Shape {4, 3}: dimension 0 contiguous, reduce along axis 1.
	in := allocBuffer(t, desc(t, tensor.Float32, 4, 3), 0)
	out := allocBuffer(t, desc(t, tensor.Float32, 4, 1), 0)

	src := in.Float32()
	for x1 := 0; x1 < 3; x1++ {
		for x0 := 0; x0 < 4; x0++ {
			src[x0+4*x1] = float32(x0 + 1)
		}
	}

	q.Submit(k.Configure(in, out, 1, reduce.Sum, 0), false)
	assert.Equal(t, []float32{3, 6, 9, 12}, out.Float32()[:4])

	q.Submit(k.Configure(in, out, 1, reduce.MeanSum, 0), false)
	assert.Equal(t, []float32{1, 2, 3, 4}, out.Float32()[:4])

	src[1+4*2] = -7 // x0=1, x1=2
	q.Submit(k.Configure(in, out, 1, reduce.Min, 0), false)
	assert.Equal(t, []float32{1, -7, 3, 4}, out.Float32()[:4])

	q.Submit(k.Configure(in, out, 1, reduce.Max, 0), false)
	assert.Equal(t, []float32{1, 2, 3, 4}, out.Float32()[:4])
}

func TestReduceAxisFloat64(t *testing.T) {
	k := &Kernel{}
	q := &Queue{}

	in := allocBuffer(t, desc(t, tensor.Float64, 2, 4), 0)
	out := allocBuffer(t, desc(t, tensor.Float64, 2, 1), 0)

	src := in.Float64()
	for i := range src[:8] {
		src[i] = float64(i)
	}

	q.Submit(k.Configure(in, out, 1, reduce.SumSquare, 0), false)

	// Column x0=0: 0,2,4,6 -> 56; column x0=1: 1,3,5,7 -> 84.
	assert.Equal(t, []float64{56, 84}, out.Float64()[:2])
}

func TestFillerPadsBorder(t *testing.T) {
	f := &Filler{}
	q := &Queue{}

	buf := allocBuffer(t, desc(t, tensor.Float32, 5, 2), 3)
	data := buf.Float32()
	for i := range data {
		data[i] = 9
	}

	q.Submit(f.Configure(buf, 3, device.ConstantBorder, 0), false)

	// Each row keeps its 5 payload elements and zeroes the 3-wide tail.
	for r := 0; r < 2; r++ {
		row := data[r*8 : (r+1)*8]
		assert.Equal(t, []float32{9, 9, 9, 9, 9, 0, 0, 0}, row, "row %d", r)
	}
}

func TestFillerRejectsReplicate(t *testing.T) {
	f := &Filler{}
	buf := allocBuffer(t, desc(t, tensor.Float32, 5), 3)

	assert.Panics(t, func() {
		f.Configure(buf, 3, device.ReplicateBorder, 0)
	})
}
