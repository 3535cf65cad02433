package reduce

import (
	"fmt"

	"github.com/reduct-ml/reduct/internal/device"
)

// stageRole tags the behavioral variant of one pipeline stage.
type stageRole int

const (
	// stageSingle is the whole reduction in one kernel pass.
	stageSingle stageRole = iota
	// stageFirst applies the op-specific first kernel to the raw input.
	stageFirst
	// stageMiddle sums the previous stage's partial results.
	stageMiddle
	// stageLast writes the caller's output, applying the op-specific
	// final kernel (and the MeanSum division).
	stageLast
)

// stage is one configured step of the pipeline: the border fill that makes
// the input safe to read in fixed-size blocks, then the reduction workload.
// fill is nil only for the single-stage path.
type stage struct {
	role stageRole
	op   Op
	fill device.Workload
	work device.Workload
}

// Pipeline is a reusable staged reduction. Configure builds it once;
// Run submits its work any number of times. A Pipeline is single-writer:
// Configure must not race with Run or another Configure on the same
// instance.
type Pipeline struct {
	kernel Kernel
	filler BorderFiller
	queue  device.Queue
	group  *device.Group

	stages []stage
	sums   []*device.Buffer
	axis   int
}

// NewPipeline creates an unconfigured pipeline over the given collaborators.
// The group should be dedicated to this pipeline; the pool behind it may be
// shared with other pipelines.
func NewPipeline(k Kernel, f BorderFiller, q device.Queue, g *device.Group) *Pipeline {
	return &Pipeline{kernel: k, filler: f, queue: q, group: g}
}

// Configure materializes the reduction of in into out along axis.
//
// It derives the same stage count, intermediate shapes, and per-stage
// operations as Validate, creates the intermediate buffers, registers them
// with the buffer group, and configures each stage's border fill and kernel.
// Intermediate buffers are allocated eagerly, each one as soon as its
// consumer stage has been configured, so peak scratch memory follows the
// pipeline's stage depth.
//
// Configure assumes a prior successful Validate with equivalent parameters;
// it does not re-verify shapes, and discovering an unsupported operation
// here is a broken precondition that panics.
func (p *Pipeline) Configure(in, out *device.Buffer, axis int, op Op) {
	p.reset()
	p.axis = axis

	stages := StageCount(in.Descriptor(), axis)
	if stages == 1 {
		work := p.kernel.Configure(in, out, axis, op, 0)
		p.stages = append(p.stages, stage{role: stageSingle, op: op, work: work})
		return
	}

	first, last, err := stageOps(op)
	if err != nil {
		panic(fmt.Sprintf("reduce: configure without prior validate: %v", err))
	}

	descs := intermediateDescriptors(in.Descriptor(), stages)
	p.sums = make([]*device.Buffer, len(descs))
	for i, desc := range descs {
		p.sums[i] = device.NewBuffer(desc)
		p.group.Register(p.sums[i])
	}

	p.addStage(stageFirst, first, in, p.sums[0], 0)

	for i := 1; i < stages-1; i++ {
		p.addStage(stageMiddle, Sum, p.sums[i-1], p.sums[i], 0)
		// sums[i-1] is no longer a future stage's output; commit it now.
		p.group.Allocate(p.sums[i-1])
	}

	p.addStage(stageLast, last, p.sums[stages-2], out, in.Descriptor().Dim(0))
	p.group.Allocate(p.sums[stages-2])
}

// addStage configures one staged step: the reduction kernel plus a
// constant-zero border fill over the step's input, sized to the kernel's
// halo requirement.
func (p *Pipeline) addStage(role stageRole, op Op, in, out *device.Buffer, width int) {
	work := p.kernel.Configure(in, out, p.axis, op, width)

	border := p.kernel.BorderSize(in.Descriptor(), p.axis)
	in.ExtendBorder(border)
	fill := p.filler.Configure(in, border, device.ConstantBorder, 0)

	p.stages = append(p.stages, stage{role: role, op: op, fill: fill, work: work})
}

// reset recycles intermediate storage from a previous configuration.
func (p *Pipeline) reset() {
	if p.sums != nil {
		p.group.FreeAll()
	}
	p.sums = nil
	p.stages = nil
}

// Stages returns the number of configured stages, or 0 before Configure.
func (p *Pipeline) Stages() int {
	return len(p.stages)
}

// Intermediates returns the number of intermediate buffers the pipeline owns.
func (p *Pipeline) Intermediates() int {
	return len(p.sums)
}
