package daemon

import (
	"context"
	"time"

	"github.com/1broseidon/winhide/internal/platform"
	"go.uber.org/zap"
)

// PruneFunc drops hidden entries for closed windows and returns their ids.
type PruneFunc func() []platform.WindowID

// PrunerConfig holds configuration for the pruner.
type PrunerConfig struct {
	Interval time.Duration
	Logger   *zap.Logger
}

// Pruner periodically forgets hidden windows that were closed while hidden.
type Pruner struct {
	interval time.Duration
	prune    PruneFunc
	logger   *zap.Logger
}

// NewPruner creates a pruner. A non-positive interval disables it; Run then
// just waits for ctx.
func NewPruner(cfg PrunerConfig, prune PruneFunc) *Pruner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pruner{
		interval: cfg.Interval,
		prune:    prune,
		logger:   logger.Named("pruner"),
	}
}

// Run starts the prune loop. Blocks until context is cancelled.
func (p *Pruner) Run(ctx context.Context) error {
	if p.interval <= 0 {
		p.logger.Info("pruner disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("pruner started", zap.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pruner stopped")
			return nil
		case <-ticker.C:
			p.pruneOnce()
		}
	}
}

// pruneOnce performs a single pass.
func (p *Pruner) pruneOnce() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("pruner panic recovered", zap.Any("error", err))
		}
	}()

	dropped := p.prune()
	if len(dropped) == 0 {
		return
	}
	for _, id := range dropped {
		p.logger.Info("dropped hidden window that no longer exists", zap.Uint32("window", uint32(id)))
	}
}
