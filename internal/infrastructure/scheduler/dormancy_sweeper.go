package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SupplierDeactivator performs one dormancy sweep over the supplier base
type SupplierDeactivator interface {
	DeactivateDormant(ctx context.Context) (int64, error)
}

// DormancySweeperConfig holds configuration for the dormancy sweeper
type DormancySweeperConfig struct {
	// Interval is how often the sweep runs
	Interval time.Duration
	// RunAtStart runs one sweep immediately when the sweeper starts
	RunAtStart bool
}

// DefaultDormancySweeperConfig returns the default sweeper configuration
func DefaultDormancySweeperConfig() DormancySweeperConfig {
	return DormancySweeperConfig{
		Interval:   24 * time.Hour,
		RunAtStart: true,
	}
}

// DormancySweeper periodically deactivates suppliers with no recent supply
// activity. A failed sweep is logged and retried at the next tick; it never
// takes the process down.
type DormancySweeper struct {
	config      DormancySweeperConfig
	deactivator SupplierDeactivator
	logger      *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewDormancySweeper creates a new dormancy sweeper
func NewDormancySweeper(
	config DormancySweeperConfig,
	deactivator SupplierDeactivator,
	logger *zap.Logger,
) *DormancySweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}
	return &DormancySweeper{
		config:      config,
		deactivator: deactivator,
		logger:      logger,
	}
}

// Start starts the sweep loop. Calling Start on a running sweeper is a no-op.
func (s *DormancySweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("dormancy sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_at_start", s.config.RunAtStart),
	)
	return nil
}

// Stop stops the sweep loop and waits for an in-flight sweep to finish
func (s *DormancySweeper) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("dormancy sweeper stopped")
}

func (s *DormancySweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunAtStart {
		s.sweep(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *DormancySweeper) sweep(ctx context.Context) {
	count, err := s.deactivator.DeactivateDormant(ctx)
	if err != nil {
		s.logger.Error("dormancy sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("dormancy sweep finished", zap.Int64("deactivated", count))
}
