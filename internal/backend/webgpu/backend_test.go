//go:build windows

package webgpu

import (
	"testing"

	"github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/internal/reduce"
	"github.com/reduct-ml/reduct/internal/tensor"
)

func desc(t *testing.T, dt tensor.DataType, dims ...int) *tensor.Descriptor {
	t.Helper()
	d, err := tensor.NewDescriptor(tensor.Shape(dims), dt, 1)
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	return d
}

// buildPipeline validates, configures and allocates a full reduction over
// the backend's kernel, returning the endpoint buffers.
func buildPipeline(t *testing.T, b *Backend, in *tensor.Descriptor, axis int, op reduce.Op) (*reduce.Pipeline, *device.Buffer, *device.Buffer, *device.Group) {
	t.Helper()

	out := in.WithShape(outputShape(in, axis))
	kernel := b.Kernel()
	if err := reduce.Validate(kernel, in, out, axis, op); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	group := device.NewGroup(device.NewPool())
	p := reduce.NewPipeline(kernel, b.Filler(), b.Queue(), group)

	src := device.NewBuffer(in)
	dst := device.NewBuffer(out)
	p.Configure(src, dst, axis, op)
	group.Allocate(src)
	group.Allocate(dst)
	return p, src, dst, group
}

func outputShape(in *tensor.Descriptor, axis int) tensor.Shape {
	shape := in.Shape()
	shape[axis] = 1
	return shape
}

func TestDim0SumGPU(t *testing.T) {
	backend, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	defer backend.Release()

	in := desc(t, tensor.Float32, 300)
	p, src, dst, _ := buildPipeline(t, backend, in, 0, reduce.Sum)

	data := src.Float32()
	for i := range data[:300] {
		data[i] = float32(i + 1)
	}
	p.Run()

	// sum(1..300)
	if got := dst.Float32()[0]; got != 45150 {
		t.Errorf("sum = %v, want 45150", got)
	}
}

func TestDim0MeanSumGPU(t *testing.T) {
	backend, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	defer backend.Release()

	in := desc(t, tensor.Float32, 300)
	p, src, dst, _ := buildPipeline(t, backend, in, 0, reduce.MeanSum)

	data := src.Float32()
	for i := range data[:300] {
		data[i] = float32(i + 1)
	}
	p.Run()

	if got := dst.Float32()[0]; got != 150.5 {
		t.Errorf("mean = %v, want 150.5", got)
	}
}

func TestThreeStageSumGPU(t *testing.T) {
	backend, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	defer backend.Release()

	in := desc(t, tensor.Float32, 16384)
	if got := reduce.StageCount(in, 0); got != 3 {
		t.Fatalf("StageCount = %d, want 3", got)
	}
	p, src, dst, _ := buildPipeline(t, backend, in, 0, reduce.Sum)

	data := src.Float32()
	for i := 0; i < 16384; i++ {
		data[i] = 1
	}
	p.Run()

	if got := dst.Float32()[0]; got != 16384 {
		t.Errorf("sum = %v, want 16384", got)
	}
}

func TestAxisReductionsGPU(t *testing.T) {
	backend, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	defer backend.Release()

	cases := []struct {
		op   reduce.Op
		want []float32
	}{
		{reduce.Sum, []float32{9, 12}},
		{reduce.MeanSum, []float32{3, 4}},
		{reduce.Min, []float32{1, 2}},
		{reduce.Max, []float32{5, 6}},
	}
	for _, tc := range cases {
		in := desc(t, tensor.Float32, 2, 3)
		p, src, dst, _ := buildPipeline(t, backend, in, 1, tc.op)

		copy(src.Float32(), []float32{1, 2, 3, 4, 5, 6})
		p.Run()

		got := dst.Float32()
		for i, want := range tc.want {
			if got[i] != want {
				t.Errorf("%s: out[%d] = %v, want %v", tc.op, i, got[i], want)
			}
		}
	}
}
