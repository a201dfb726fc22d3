package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrBufferFull is returned by Async.Publish when the queue has no room.
var ErrBufferFull = errors.New("telemetry: buffer full")

// Async decouples a slow Sink from the caller. Publish queues the sample and returns at
// once; a single goroutine forwards queued samples, each under its own timeout.
type Async struct {
	sink    Sink
	timeout time.Duration
	ch      chan Sample
	done    chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	errMu   sync.Mutex
	err     error
}

// NewAsync starts forwarding to sink. buffer < 1 is treated as 1.
func NewAsync(sink Sink, buffer int, timeout time.Duration) *Async {
	if buffer < 1 {
		buffer = 1
	}
	a := &Async{sink: sink, timeout: timeout, ch: make(chan Sample, buffer), done: make(chan struct{})}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for s := range a.ch {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.sink.Publish(ctx, s)
		cancel()
		if err != nil {
			a.errMu.Lock()
			if a.err == nil {
				a.err = err
			}
			a.errMu.Unlock()
		}
	}
}

// Publish queues s. It returns ErrBufferFull when the queue is full, otherwise the first
// error the forwarding goroutine has seen, if any.
func (a *Async) Publish(_ context.Context, s Sample) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return fmt.Errorf("telemetry: publish after close")
	}
	select {
	case a.ch <- s:
	default:
		a.dropped.Add(1)
		return ErrBufferFull
	}
	return a.Err()
}

// Err returns the first forwarding error.
func (a *Async) Err() error {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return a.err
}

// Dropped returns the number of samples rejected because the queue was full.
func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Close forwards what is queued, then closes the underlying sink.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()
	<-a.done
	return a.sink.Close()
}
