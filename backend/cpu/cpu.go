// Copyright 2025 Reduct ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure-Go host backend for reductions.
//
// The CPU backend executes workloads synchronously at submission, which
// satisfies the in-order queue contract trivially. It supports float32 and
// float64 operands.
package cpu

import (
	internalcpu "github.com/reduct-ml/reduct/internal/backend/cpu"
	"github.com/reduct-ml/reduct/reduce"
)

// Backend bundles the CPU kernel, border filler and queue.
type Backend = internalcpu.Backend

// Compile-time check that the backend satisfies the pipeline contracts.
var (
	_ reduce.Kernel       = (*internalcpu.Kernel)(nil)
	_ reduce.BorderFiller = (*internalcpu.Filler)(nil)
)

// New creates a CPU backend.
//
// Example:
//
//	import (
//	    "github.com/reduct-ml/reduct/backend/cpu"
//	    "github.com/reduct-ml/reduct/reduce"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    kernel := backend.Kernel()
//	    // ... reduce.Validate, reduce.NewPipeline
//	}
func New() *Backend {
	return internalcpu.New()
}
