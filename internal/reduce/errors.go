package reduce

import "errors"

// ErrUnsupportedOp is returned by Validate when the requested operation has
// no staged decomposition. Kernel-side shape or type mismatches are
// propagated verbatim and never wrapped into this error.
var ErrUnsupportedOp = errors.New("operation not supported on the staged reduction path")
