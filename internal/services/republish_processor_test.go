package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingRepublisher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRepublisher) RepublishPending(context.Context) (int, error) {
	r.calls.Add(1)
	return 1, r.err
}

func TestDefaultRepublishProcessorConfig(t *testing.T) {
	if got := DefaultRepublishProcessorConfig().PollInterval; got != 30*time.Second {
		t.Errorf("expected PollInterval 30s, got %v", got)
	}
	p := NewRepublishProcessor(&countingRepublisher{}, RepublishProcessorConfig{}, nil)
	if p.config.PollInterval != 30*time.Second {
		t.Errorf("zero PollInterval should fall back to default, got %v", p.config.PollInterval)
	}
}

func TestRepublishProcessor_Lifecycle(t *testing.T) {
	rep := &countingRepublisher{}
	p := NewRepublishProcessor(rep, RepublishProcessorConfig{PollInterval: 5 * time.Millisecond}, nil)

	if p.IsRunning() {
		t.Fatal("processor should not be running initially")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := p.Start(ctx); err == nil {
		t.Fatal("expected error when starting already running processor")
	}

	deadline := time.Now().Add(2 * time.Second)
	for rep.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if rep.calls.Load() < 2 {
		t.Fatalf("expected at least 2 batches, got %d", rep.calls.Load())
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if p.IsRunning() {
		t.Fatal("processor should not be running after Stop")
	}
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop when not running should not error: %v", err)
	}
}

func TestRepublishProcessor_ErrorsDoNotStopLoop(t *testing.T) {
	rep := &countingRepublisher{err: errors.New("broker down")}
	p := NewRepublishProcessor(rep, RepublishProcessorConfig{PollInterval: 5 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for rep.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if rep.calls.Load() < 3 {
		t.Fatalf("loop stopped after errors, calls = %d", rep.calls.Load())
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
