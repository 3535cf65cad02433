// Package reduce orchestrates multi-stage tensor reductions on an
// accelerator device.
//
// Reducing dimension 0 of a non-quantized tensor cannot always be done in a
// single kernel pass: the kernel reduces fixed-size workgroups, so a wide
// dimension collapses through a short pipeline of partial sums held in
// intermediate buffers. This package plans that pipeline, validates it
// against the device kernel contract without committing resources, builds it
// with eager intermediate-buffer allocation from a shared pool, and runs it
// as an ordered sequence of non-blocking queue submissions.
package reduce

// Op identifies a reduction operation.
type Op int

// Reduction operations. Only Sum, MeanSum, and SumSquare are supported on
// the staged dimension-0 path; the rest are forwarded to the kernel on the
// single-stage path.
const (
	Sum Op = iota
	MeanSum
	SumSquare
	Prod
	Min
	Max
	ArgMax
	ArgMin
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case Sum:
		return "sum"
	case MeanSum:
		return "mean_sum"
	case SumSquare:
		return "sum_square"
	case Prod:
		return "prod"
	case Min:
		return "min"
	case Max:
		return "max"
	case ArgMax:
		return "argmax"
	case ArgMin:
		return "argmin"
	default:
		return "unknown"
	}
}
