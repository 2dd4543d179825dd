//go:build !linux && !windows

package hotkeys

import (
	"github.com/1broseidon/winhide/internal/platform"
	"go.uber.org/zap"
)

// NewRegistrar reports that global hotkeys are unavailable.
func NewRegistrar(_ platform.Backend, _ *zap.Logger) (Registrar, error) {
	return nil, platform.ErrUnsupported
}
