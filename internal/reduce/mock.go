package reduce

import (
	"github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/internal/tensor"
)

// Verify that the mocks implement the pipeline contracts.
var (
	_ Kernel          = (*MockKernel)(nil)
	_ BorderFiller    = (*MockFiller)(nil)
	_ device.Queue    = (*MockQueue)(nil)
	_ device.Workload = (*MockWork)(nil)
)

// MockWork is a recordable no-op workload.
type MockWork struct {
	Kind string // "reduce" or "fill"
	Op   Op     // reduce workloads only
	Runs int
}

// Execute counts invocations.
func (w *MockWork) Execute() {
	w.Runs++
}

// KernelCall records one invocation of the kernel contract.
type KernelCall struct {
	In, Out *tensor.Descriptor
	Axis    int
	Op      Op
	Width   int
}

// MockKernel is a kernel stub for testing. It records every Validate and
// Configure call and can be made to fail validation selectively.
type MockKernel struct {
	// Halo is the border size reported for dimension-0 inputs.
	Halo int
	// FailValidate, when set, is consulted on every Validate call.
	FailValidate func(call KernelCall) error

	Validated  []KernelCall
	Configured []KernelCall
}

// Validate records the call and applies FailValidate if set.
func (m *MockKernel) Validate(in, out *tensor.Descriptor, axis int, op Op, width int) error {
	call := KernelCall{In: in, Out: out, Axis: axis, Op: op, Width: width}
	m.Validated = append(m.Validated, call)
	if m.FailValidate != nil {
		return m.FailValidate(call)
	}
	return nil
}

// Configure records the call and returns a fresh recordable workload.
func (m *MockKernel) Configure(in, out *device.Buffer, axis int, op Op, width int) device.Workload {
	m.Configured = append(m.Configured, KernelCall{
		In:    in.Descriptor(),
		Out:   out.Descriptor(),
		Axis:  axis,
		Op:    op,
		Width: width,
	})
	return &MockWork{Kind: "reduce", Op: op}
}

// BorderSize reports Halo for dimension-0 inputs and 0 otherwise.
func (m *MockKernel) BorderSize(in *tensor.Descriptor, axis int) int {
	if axis != 0 {
		return 0
	}
	return m.Halo
}

// FillCall records one border-fill configuration.
type FillCall struct {
	Target *device.Buffer
	Border int
	Mode   device.BorderMode
	Value  float32
}

// MockFiller is a border-fill stub recording every configuration.
type MockFiller struct {
	Configured []FillCall
}

// Configure records the call and returns a fresh recordable workload.
func (m *MockFiller) Configure(target *device.Buffer, border int, mode device.BorderMode, value float32) device.Workload {
	m.Configured = append(m.Configured, FillCall{Target: target, Border: border, Mode: mode, Value: value})
	return &MockWork{Kind: "fill"}
}

// MockQueue records submissions in arrival order.
type MockQueue struct {
	Submitted []device.Workload
	Blocking  []bool
}

// Submit appends the workload without executing it.
func (q *MockQueue) Submit(w device.Workload, blocking bool) {
	q.Submitted = append(q.Submitted, w)
	q.Blocking = append(q.Blocking, blocking)
}
