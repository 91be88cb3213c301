package elastic

import "github.com/pkg/errors"

//Sentinel errors. Callers compare against errors.Cause(err).
var (
	ErrEmptyMesh         = errors.New("elastic: mesh has no vertices")
	ErrBufferMismatch    = errors.New("elastic: vertex buffer length mismatch")
	ErrInvalidStep       = errors.New("elastic: time step must be finite and non-negative")
	ErrInvalidParam      = errors.New("elastic: invalid parameter")
	ErrInvalidContact    = errors.New("elastic: contact position is not finite")
	ErrSingularTransform = errors.New("elastic: transform is not invertible")
)
