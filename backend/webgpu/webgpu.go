//go:build windows

// Copyright 2025 Reduct ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU backend for reductions over WebGPU.
//
// Example:
//
//	import (
//	    "github.com/reduct-ml/reduct/backend/webgpu"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//	}
package webgpu

import (
	internalwebgpu "github.com/reduct-ml/reduct/internal/backend/webgpu"
	"github.com/reduct-ml/reduct/reduce"
)

// Backend owns the WebGPU device and hands out the reduction kernel,
// border filler and queue bound to it.
type Backend = internalwebgpu.Backend

// Compile-time check that the backend satisfies the pipeline contracts.
var (
	_ reduce.Kernel       = (*internalwebgpu.Kernel)(nil)
	_ reduce.BorderFiller = (*internalwebgpu.Filler)(nil)
)

// New creates a WebGPU backend. Returns an error if no compatible adapter
// or device can be initialized. Call Release when done to free GPU
// resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether WebGPU can be initialized on this system.
// Useful for graceful fallback to the CPU backend.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
