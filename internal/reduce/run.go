package reduce

// Run claims the pipeline's intermediate buffers and submits every stage's
// work to the queue in dependency order: for each stage, its border fill
// then its reduction kernel, all non-blocking. Stage i+1 is submitted
// strictly after stage i; the queue's in-order execution guarantee carries
// the data dependency, so Run never waits for device completion.
//
// The claim is released right after the last submission. That ends this
// pipeline's logical hold on the scratch memory; device-side completion
// tracking belongs to the pool and queue.
func (p *Pipeline) Run() {
	if len(p.stages) == 0 {
		panic("reduce: run before configure")
	}

	p.group.ClaimAll()

	for _, s := range p.stages {
		if s.fill != nil {
			p.queue.Submit(s.fill, false)
		}
		p.queue.Submit(s.work, false)
	}

	p.group.ReleaseAll()
}
