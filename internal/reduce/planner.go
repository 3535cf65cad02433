package reduce

import "github.com/reduct-ml/reduct/internal/tensor"

// WorkgroupSize is the number of elements one kernel workgroup reduces:
// 16 elements per thread, 8 threads per workgroup.
const WorkgroupSize = 128

// StageCount returns the number of pipeline stages needed to reduce the
// described tensor along axis.
//
// Only dimension 0 of a non-quantized tensor needs staging; every other case
// is a single kernel pass. For the staged case the count is
// workgroups/WorkgroupSize + 2 with workgroups = ceil(dim0/WorkgroupSize),
// which yields 2 or 3 stages across the practical range of widths.
func StageCount(in *tensor.Descriptor, axis int) int {
	if axis != 0 || in.DType().IsQuantized() {
		return 1
	}
	workgroups := ceilDiv(in.Dim(0), WorkgroupSize)
	return workgroups/WorkgroupSize + 2
}

// intermediateShape derives the shape of the partial-sum buffer fed by a
// stage whose input has the previous shape: dimension 0 collapses to one
// element per workgroup, everything else is unchanged.
func intermediateShape(prev tensor.Shape) tensor.Shape {
	next := prev.Clone()
	next[0] = ceilDiv(next[0], WorkgroupSize)
	return next
}

// intermediateDescriptors derives the descriptors of all n-1 intermediate
// buffers for an n-stage reduction of the input. Element type and channel
// count are copied from the input.
func intermediateDescriptors(in *tensor.Descriptor, stages int) []*tensor.Descriptor {
	sums := make([]*tensor.Descriptor, stages-1)
	shape := in.Shape()
	for i := range sums {
		shape = intermediateShape(shape)
		sums[i] = in.WithShape(shape)
	}
	return sums
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
