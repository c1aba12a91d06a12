package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoop_SurvivesTickErrors(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(time.Millisecond, func(context.Context) error {
		n := calls.Add(1)
		if n >= 5 {
			cancel()
		}
		return errors.New("transient")
	}, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run: want context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
	if calls.Load() < 5 {
		t.Errorf("want >= 5 ticks, got %d", calls.Load())
	}
}

func TestLoop_TicksImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	loop := NewLoop(time.Hour, func(context.Context) error {
		calls.Add(1)
		cancel()
		return nil
	}, zerolog.Nop())

	_ = loop.Run(ctx)
	if calls.Load() != 1 {
		t.Errorf("want exactly 1 tick, got %d", calls.Load())
	}
}
