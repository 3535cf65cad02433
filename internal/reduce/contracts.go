package reduce

import (
	"github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/internal/tensor"
)

// Kernel is the device reduction kernel the pipeline drives. One kernel
// invocation reduces a single buffer into another; the pipeline composes
// invocations into stages.
//
// width carries the original (pre-reduction) dimension-0 extent and is
// consumed only by MeanSum for the final division; every other invocation
// passes 0.
type Kernel interface {
	// Validate checks one reduction step without allocating device
	// resources or mutating the descriptors.
	Validate(in, out *tensor.Descriptor, axis int, op Op, width int) error

	// Configure prepares one reduction step reading in and writing out,
	// returning the submittable workload.
	Configure(in, out *device.Buffer, axis int, op Op, width int) device.Workload

	// BorderSize reports the halo padding, in elements along dimension 0,
	// the kernel's fixed-size block reads need over the given input.
	BorderSize(in *tensor.Descriptor, axis int) int
}

// BorderFiller prepares the workload that pads a buffer's out-of-range
// elements before a kernel reads it.
type BorderFiller interface {
	Configure(target *device.Buffer, border int, mode device.BorderMode, value float32) device.Workload
}
