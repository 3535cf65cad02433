package reduce

import "fmt"

// stageOps maps a requested operation to the operations actually executed
// by the first and last stages of a staged reduction. Middle stages always
// run a plain Sum over the previous stage's partial results.
//
//   - Sum:       every stage sums.
//   - MeanSum:   sum first, divide by the original width in the last stage.
//   - SumSquare: square-and-sum first, then plain sums of the partials.
//
// Any other operation has no staged decomposition and is rejected.
func stageOps(op Op) (first, last Op, err error) {
	switch op {
	case Sum, MeanSum:
		return Sum, op, nil
	case SumSquare:
		return SumSquare, Sum, nil
	default:
		return 0, 0, fmt.Errorf("reduce: %s: %w", op, ErrUnsupportedOp)
	}
}
