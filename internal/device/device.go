// Package device defines the collaborator contracts the reduction pipeline
// drives: submittable workloads, an in-order command queue, buffers, and the
// shared buffer pool that tracks per-pipeline claim windows.
package device

// Workload is one submittable unit of device work.
type Workload interface {
	Execute()
}

// Queue executes submitted workloads.
//
// Implementations must execute submissions from one submitter in the order
// they were received. The reduction pipeline relies on this guarantee for
// cross-stage ordering instead of waiting for completion between stages;
// all pipeline submissions are non-blocking.
type Queue interface {
	Submit(w Workload, blocking bool)
}

// BorderMode selects how out-of-range elements are populated.
type BorderMode int

// Supported border modes.
const (
	// ConstantBorder fills out-of-range elements with a fixed value.
	ConstantBorder BorderMode = iota
	// ReplicateBorder repeats the nearest in-range element.
	ReplicateBorder
)

// String returns a human-readable border mode name.
func (m BorderMode) String() string {
	switch m {
	case ConstantBorder:
		return "constant"
	case ReplicateBorder:
		return "replicate"
	default:
		return "unknown"
	}
}
