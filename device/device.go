// Copyright 2025 Reduct ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device exposes the buffer, memory-group and queue abstractions
// that reduction pipelines are built on.
//
// A Buffer binds storage to a tensor descriptor, with optional border
// padding along dimension 0. Buffers are registered in a Group, which
// allocates them from a shared Pool and guards execution with a
// claim/release window. A Queue submits workloads for in-order execution.
package device

import (
	internaldevice "github.com/reduct-ml/reduct/internal/device"
	"github.com/reduct-ml/reduct/tensor"
)

// Workload is a unit of device work.
type Workload = internaldevice.Workload

// Queue submits workloads for in-order execution.
type Queue = internaldevice.Queue

// BorderMode selects how border padding is filled.
type BorderMode = internaldevice.BorderMode

// Border fill modes.
const (
	ConstantBorder  = internaldevice.ConstantBorder
	ReplicateBorder = internaldevice.ReplicateBorder
)

// Buffer binds storage to a tensor descriptor.
type Buffer = internaldevice.Buffer

// Pool recycles freed allocations across pipeline reconfigurations.
type Pool = internaldevice.Pool

// Group tracks the buffers of one pipeline and allocates them from a pool.
type Group = internaldevice.Group

// NewBuffer creates an unallocated buffer for the descriptor.
func NewBuffer(desc *tensor.Descriptor) *Buffer {
	return internaldevice.NewBuffer(desc)
}

// NewPool creates an empty allocation pool.
func NewPool() *Pool {
	return internaldevice.NewPool()
}

// NewGroup creates a memory group backed by the pool.
func NewGroup(pool *Pool) *Group {
	return internaldevice.NewGroup(pool)
}
