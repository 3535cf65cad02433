// Package tensor provides the tensor descriptor types shared by the
// reduction pipeline and its device backends.
package tensor

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Uint8
	QAsymm8
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64:
		return 8
	case Uint8, QAsymm8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// IsQuantized reports whether the data type uses a fixed-point encoding.
// Quantized tensors take the single-stage reduction path regardless of axis.
func (dt DataType) IsQuantized() bool {
	return dt == QAsymm8
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Uint8:
		return "uint8"
	case QAsymm8:
		return "qasymm8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}
