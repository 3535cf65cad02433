package tensor

import "fmt"

// Descriptor describes a tensor's shape, element type, and channel count
// without owning any element storage. Descriptors are immutable once created;
// derive modified copies with Clone or WithShape.
type Descriptor struct {
	shape    Shape
	dtype    DataType
	channels int
}

// NewDescriptor creates a descriptor for a tensor with the given shape,
// element type, and number of channels per element.
func NewDescriptor(shape Shape, dtype DataType, channels int) (*Descriptor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d (must be >= 1)", channels)
	}
	return &Descriptor{
		shape:    shape.Clone(),
		dtype:    dtype,
		channels: channels,
	}, nil
}

// Shape returns a copy of the descriptor's shape.
func (d *Descriptor) Shape() Shape {
	return d.shape.Clone()
}

// Rank returns the number of dimensions.
func (d *Descriptor) Rank() int {
	return len(d.shape)
}

// Dim returns the extent of dimension i.
func (d *Descriptor) Dim(i int) int {
	return d.shape[i]
}

// DType returns the element data type.
func (d *Descriptor) DType() DataType {
	return d.dtype
}

// Channels returns the number of channels per element.
func (d *Descriptor) Channels() int {
	return d.channels
}

// NumElements returns the total number of elements.
func (d *Descriptor) NumElements() int {
	return d.shape.NumElements()
}

// ByteSize returns the unpadded storage size in bytes.
func (d *Descriptor) ByteSize() int {
	return d.NumElements() * d.channels * d.dtype.Size()
}

// Clone returns a copy of the descriptor.
func (d *Descriptor) Clone() *Descriptor {
	return &Descriptor{
		shape:    d.shape.Clone(),
		dtype:    d.dtype,
		channels: d.channels,
	}
}

// WithShape returns a copy of the descriptor with a different shape.
// Element type and channel count are carried over unchanged.
func (d *Descriptor) WithShape(shape Shape) *Descriptor {
	clone := d.Clone()
	clone.shape = shape.Clone()
	return clone
}

// String returns a compact description, e.g. "float32[300 4 2]".
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s%v", d.dtype, []int(d.shape))
}
