//go:build windows

package webgpu

import (
	"fmt"

	"github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/internal/tensor"
)

// Filler implements constant border filling. Stage inputs are uploaded by
// the reduction workload at execution time, so the padding is applied to
// the host-side storage just before that upload; the in-order queue keeps
// the fill ahead of its kernel.
type Filler struct{}

// Configure prepares a workload that writes the fill value into the border
// padding of dimension 0. Only the constant mode is implemented.
func (f *Filler) Configure(target *device.Buffer, border int, mode device.BorderMode, value float32) device.Workload {
	if mode != device.ConstantBorder {
		panic(fmt.Sprintf("webgpu: %s border not implemented", mode))
	}
	return &fillWork{target: target, border: border, value: value}
}

// fillWork pads the out-of-range tail of every dimension-0 row.
type fillWork struct {
	target *device.Buffer
	border int
	value  float32
}

// Execute writes the fill value into the padding region.
func (w *fillWork) Execute() {
	if w.border == 0 {
		return
	}

	desc := w.target.Descriptor()
	if desc.DType() != tensor.Float32 {
		panic(fmt.Sprintf("webgpu: fill: unsupported dtype %s", desc.DType()))
	}

	d0 := desc.Dim(0)
	pw := w.target.PaddedDim0()
	rows := desc.NumElements() / d0

	data := w.target.Float32()
	for r := 0; r < rows; r++ {
		row := data[r*pw : (r+1)*pw]
		for x := d0; x < pw; x++ {
			row[x] = w.value
		}
	}
}
