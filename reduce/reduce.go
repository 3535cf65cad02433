// Copyright 2025 Reduct ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package reduce provides staged tensor reductions over a device backend.
//
// A reduction along dimension 0 that exceeds one workgroup is decomposed
// into a chain of partial-reduction stages; reductions along other axes run
// in a single pass. Validate checks a reduction without touching device
// state, and a Pipeline configures and runs it.
//
// Example:
//
//	import (
//	    "github.com/reduct-ml/reduct/backend/cpu"
//	    "github.com/reduct-ml/reduct/device"
//	    "github.com/reduct-ml/reduct/reduce"
//	    "github.com/reduct-ml/reduct/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    in, _ := tensor.NewDescriptor(tensor.Shape{16384}, tensor.Float32, 1)
//	    if err := reduce.Validate(backend.Kernel(), in, 0, reduce.MeanSum); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    group := device.NewGroup(device.NewPool())
//	    p := reduce.NewPipeline(backend.Kernel(), backend.Filler(), backend.Queue(), group)
//	    // ... configure buffers, then p.Run()
//	}
package reduce

import (
	"github.com/reduct-ml/reduct/device"
	internalreduce "github.com/reduct-ml/reduct/internal/reduce"
	"github.com/reduct-ml/reduct/tensor"
)

// WorkgroupSize is the number of elements one device workgroup reduces
// along dimension 0.
const WorkgroupSize = internalreduce.WorkgroupSize

// Op identifies a reduction operation.
type Op = internalreduce.Op

// Reduction operations.
const (
	Sum       = internalreduce.Sum
	MeanSum   = internalreduce.MeanSum
	SumSquare = internalreduce.SumSquare
	Prod      = internalreduce.Prod
	Min       = internalreduce.Min
	Max       = internalreduce.Max
	ArgMax    = internalreduce.ArgMax
	ArgMin    = internalreduce.ArgMin
)

// ErrUnsupportedOp reports an operation the staged decomposition cannot
// express.
var ErrUnsupportedOp = internalreduce.ErrUnsupportedOp

// Kernel configures and validates single reduction steps on a device.
type Kernel = internalreduce.Kernel

// BorderFiller configures border-padding fill workloads.
type BorderFiller = internalreduce.BorderFiller

// Pipeline is a configured multi-stage reduction.
type Pipeline = internalreduce.Pipeline

// NewPipeline creates an unconfigured pipeline over the given device
// contracts.
func NewPipeline(kernel Kernel, filler BorderFiller, queue device.Queue, group *device.Group) *Pipeline {
	return internalreduce.NewPipeline(kernel, filler, queue, group)
}

// Validate checks a full reduction, staged or single-pass, without touching
// device state.
func Validate(kernel Kernel, in, out *tensor.Descriptor, axis int, op Op) error {
	return internalreduce.Validate(kernel, in, out, axis, op)
}

// StageCount reports how many kernel passes a reduction needs.
func StageCount(in *tensor.Descriptor, axis int) int {
	return internalreduce.StageCount(in, axis)
}
