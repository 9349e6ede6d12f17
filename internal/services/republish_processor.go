package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ledger/internal/log"
)

// Republisher re-sends one batch of undelivered journal entries.
type Republisher interface {
	RepublishPending(ctx context.Context) (int, error)
}

// RepublishProcessorConfig holds configuration for the republish loop
type RepublishProcessorConfig struct {
	// PollInterval is how often to look for unacknowledged entries (default: 30s)
	PollInterval time.Duration
}

func DefaultRepublishProcessorConfig() RepublishProcessorConfig {
	return RepublishProcessorConfig{
		PollInterval: 30 * time.Second,
	}
}

// RepublishProcessor periodically republishes journal entries that no consumer
// has acknowledged yet.
type RepublishProcessor struct {
	republisher Republisher
	config      RepublishProcessorConfig
	logger      *log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRepublishProcessor(republisher Republisher, config RepublishProcessorConfig, logger *log.Logger) *RepublishProcessor {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultRepublishProcessorConfig().PollInterval
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &RepublishProcessor{
		republisher: republisher,
		config:      config,
		logger:      logger.WithComponent(log.ComponentWorker),
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *RepublishProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("republish processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	p.logger.InfoContext(ctx, "Republish processor started", "poll_interval", p.config.PollInterval.String())
	return nil
}

// Stop signals the loop and waits for it to finish or for ctx to expire.
func (p *RepublishProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		p.logger.InfoContext(ctx, "Republish processor stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Republish processor stop timed out")
		return ctx.Err()
	}
}

func (p *RepublishProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *RepublishProcessor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.processBatch(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

func (p *RepublishProcessor) processBatch(ctx context.Context) {
	n, err := p.republisher.RepublishPending(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to republish pending entries",
			log.FieldOperation, log.OpRepublish,
			log.FieldError, err.Error())
		return
	}
	if n > 0 {
		p.logger.InfoContext(ctx, "Republished pending entries",
			log.FieldOperation, log.OpRepublish,
			log.FieldCount, n)
	}
}
