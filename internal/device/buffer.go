package device

import (
	"fmt"
	"unsafe"

	"github.com/reduct-ml/reduct/internal/tensor"
)

// Buffer couples a tensor descriptor with device storage. The backing bytes
// are owned by the Pool and bound when a Group allocates the buffer; until
// then the buffer is a shape-and-type placeholder.
//
// A buffer may carry border padding along dimension 0 so kernels that read
// fixed-size blocks never touch memory past the logical extent. Padding must
// be requested (ExtendBorder) before allocation.
type Buffer struct {
	desc      *tensor.Descriptor
	border    int
	data      []byte
	allocated bool
}

// NewBuffer creates an unallocated buffer for the given descriptor.
func NewBuffer(desc *tensor.Descriptor) *Buffer {
	return &Buffer{desc: desc}
}

// Descriptor returns the buffer's tensor descriptor.
func (b *Buffer) Descriptor() *tensor.Descriptor {
	return b.desc
}

// ExtendBorder grows the border padding along dimension 0 to at least n
// elements. Panics if the buffer is already allocated, since the backing
// storage could no longer honor the padding.
func (b *Buffer) ExtendBorder(n int) {
	if n <= b.border {
		return
	}
	if b.allocated {
		panic(fmt.Sprintf("device: cannot extend border to %d on allocated buffer %s", n, b.desc))
	}
	b.border = n
}

// Border returns the border padding along dimension 0, in elements.
func (b *Buffer) Border() int {
	return b.border
}

// PaddedDim0 returns the storage extent of dimension 0 including padding.
func (b *Buffer) PaddedDim0() int {
	if b.desc.Rank() == 0 {
		return 1
	}
	return b.desc.Dim(0) + b.border
}

// AllocSize returns the storage size in bytes including border padding.
func (b *Buffer) AllocSize() int {
	inner := b.desc.NumElements()
	if b.desc.Rank() > 0 {
		inner /= b.desc.Dim(0)
	}
	return b.PaddedDim0() * inner * b.desc.Channels() * b.desc.DType().Size()
}

// Allocated reports whether backing storage is bound.
func (b *Buffer) Allocated() bool {
	return b.allocated
}

// Data returns the raw backing bytes, or nil if unallocated.
func (b *Buffer) Data() []byte {
	return b.data
}

// Float32 interprets the backing storage as []float32, padding included.
// Panics if the buffer is unallocated or not float32.
func (b *Buffer) Float32() []float32 {
	if b.desc.DType() != tensor.Float32 {
		panic(fmt.Sprintf("device: buffer dtype is %s, not float32", b.desc.DType()))
	}
	if !b.allocated || len(b.data) == 0 {
		panic("device: buffer not allocated")
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the allocation
	return unsafe.Slice((*float32)(unsafe.Pointer(&b.data[0])), len(b.data)/4)
}

// Float64 interprets the backing storage as []float64, padding included.
// Panics if the buffer is unallocated or not float64.
func (b *Buffer) Float64() []float64 {
	if b.desc.DType() != tensor.Float64 {
		panic(fmt.Sprintf("device: buffer dtype is %s, not float64", b.desc.DType()))
	}
	if !b.allocated || len(b.data) == 0 {
		panic("device: buffer not allocated")
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the allocation
	return unsafe.Slice((*float64)(unsafe.Pointer(&b.data[0])), len(b.data)/8)
}

// bind attaches pool-owned backing storage.
func (b *Buffer) bind(data []byte) {
	b.data = data
	b.allocated = true
}

// unbind detaches the backing storage and returns it for recycling.
func (b *Buffer) unbind() []byte {
	data := b.data
	b.data = nil
	b.allocated = false
	return data
}
