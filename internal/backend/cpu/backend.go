// Package cpu implements the reduction device contracts on the host.
// It serves as the reference backend: the queue executes submissions
// synchronously in arrival order, which trivially satisfies the in-order
// guarantee the pipeline depends on.
package cpu

import (
	"github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/internal/reduce"
)

// Verify that the backend implements the pipeline contracts.
var (
	_ reduce.Kernel       = (*Kernel)(nil)
	_ reduce.BorderFiller = (*Filler)(nil)
	_ device.Queue        = (*Queue)(nil)
)

// Backend bundles the host implementations of the reduction kernel, the
// border filler, and the command queue.
type Backend struct {
	kernel Kernel
	filler Filler
	queue  Queue
}

// New creates a CPU backend.
func New() *Backend {
	return &Backend{}
}

// Kernel returns the host reduction kernel.
func (b *Backend) Kernel() *Kernel {
	return &b.kernel
}

// Filler returns the host border filler.
func (b *Backend) Filler() *Filler {
	return &b.filler
}

// Queue returns the host command queue.
func (b *Backend) Queue() *Queue {
	return &b.queue
}

// Queue executes workloads synchronously in arrival order.
type Queue struct{}

// Submit executes the workload immediately. Execution is synchronous, so
// the blocking flag makes no difference here.
func (q *Queue) Submit(w device.Workload, _ bool) {
	w.Execute()
}
