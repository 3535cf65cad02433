// Copyright 2025 Reduct ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor describes the shape and element type of reduction operands.
//
// A Descriptor is immutable metadata: shape, data type and channel count.
// It never owns storage; buffers in the device package bind storage to a
// descriptor at allocation time.
//
// Example:
//
//	import "github.com/reduct-ml/reduct/tensor"
//
//	func main() {
//	    desc, err := tensor.NewDescriptor(tensor.Shape{300, 4}, tensor.Float32, 1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(desc) // float32[300 4]
//	}
package tensor

import (
	internaltensor "github.com/reduct-ml/reduct/internal/tensor"
)

// Shape holds tensor dimensions, fastest-moving dimension first.
type Shape = internaltensor.Shape

// DataType identifies the element type of a tensor.
type DataType = internaltensor.DataType

// Supported element types.
const (
	Float32 = internaltensor.Float32
	Float64 = internaltensor.Float64
	Int32   = internaltensor.Int32
	Uint8   = internaltensor.Uint8
	QAsymm8 = internaltensor.QAsymm8
	Bool    = internaltensor.Bool
)

// Descriptor is immutable tensor metadata: shape, element type and channel
// count.
type Descriptor = internaltensor.Descriptor

// NewDescriptor builds a descriptor after validating the shape and channel
// count.
func NewDescriptor(shape Shape, dtype DataType, channels int) (*Descriptor, error) {
	return internaltensor.NewDescriptor(shape, dtype, channels)
}
