//go:build !linux && !windows

package platform

// NewBackend reports that no window backend exists for this platform.
func NewBackend() (Backend, error) {
	return nil, ErrUnsupported
}
