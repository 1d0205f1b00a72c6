package graphics

import "github.com/pkg/errors"

// Surface acquisition and submission failures, independent of the backend.
var (
	ErrSurfaceOutdated = errors.New("surface outdated")
	ErrSurfaceLost     = errors.New("surface lost")
	ErrSurfaceTimeout  = errors.New("surface acquire timeout")
	ErrOutOfMemory     = errors.New("gpu out of memory")
	ErrDeviceLost      = errors.New("gpu device lost")
)

// Recoverable reports whether err only requires the surface to be
// configured again.
func Recoverable(err error) bool {
	switch errors.Cause(err) {
	case ErrSurfaceOutdated, ErrSurfaceLost:
		return true
	}
	return false
}

// Transient reports whether err only skips the current frame.
func Transient(err error) bool {
	return errors.Cause(err) == ErrSurfaceTimeout
}
