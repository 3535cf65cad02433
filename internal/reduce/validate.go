package reduce

import (
	"fmt"

	"github.com/reduct-ml/reduct/internal/tensor"
)

// Validate dry-runs the reduction plan for the given descriptors against
// the kernel contract. It allocates no buffers and no device resources and
// never mutates its arguments, so it can be called repeatedly ahead of
// Configure.
//
// The single-stage path (axis != 0, or a quantized input) delegates to the
// kernel's own validation verbatim. The staged path derives the same stage
// count, intermediate shapes, and per-stage operations Configure will use,
// and validates every stage, short-circuiting on the first failure.
func Validate(k Kernel, in, out *tensor.Descriptor, axis int, op Op) error {
	if axis < 0 || axis >= in.Rank() {
		return fmt.Errorf("reduce: axis %d out of range for rank %d input", axis, in.Rank())
	}

	stages := StageCount(in, axis)
	if stages == 1 {
		return k.Validate(in, out, axis, op, 0)
	}

	first, last, err := stageOps(op)
	if err != nil {
		return err
	}

	sums := intermediateDescriptors(in, stages)

	if err := k.Validate(in, sums[0], axis, first, 0); err != nil {
		return err
	}
	for i := 1; i < stages-1; i++ {
		if err := k.Validate(sums[i-1], sums[i], axis, Sum, 0); err != nil {
			return err
		}
	}
	// The last stage alone receives the original width, for MeanSum.
	return k.Validate(sums[stages-2], out, axis, last, in.Dim(0))
}
