package dispatch

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"capture_collector/internal/event"
)

const (
	// DefaultFlushInterval bounds end-to-end latency under low load.
	DefaultFlushInterval = 20 * time.Millisecond

	// DefaultFlushCount bounds memory and batch size under high load. Kept
	// below the downstream consumer's own per-batch cap: a few more events
	// typically arrive between the threshold firing and the worker
	// re-acquiring the buffer.
	DefaultFlushCount = 5000
)

// Consumer receives each flushed batch, in flush order, outside any lock.
// The batch may be empty. ProcessEvents may block; producers are unaffected.
type Consumer interface {
	ProcessEvents(batch []event.Event)
}

// DrainFunc produces the shutdown-time side-channel events appended to the
// final batch. It runs exactly once, on the stop-triggered flush, while the
// buffer mutex is still held.
type DrainFunc func() []event.Event

// Config parametrizes a Sender. Consumer is required; everything else has a
// default.
type Config struct {
	Consumer      Consumer
	Drain         DrainFunc
	FlushInterval time.Duration
	FlushCount    int
	Logger        *zap.Logger
}

// Sender is the buffered dispatch scheduler: one shared event buffer, many
// producers, one worker goroutine.
type Sender struct {
	consumer Consumer
	drain    DrainFunc
	interval time.Duration
	count    int
	logger   *zap.Logger

	mu      sync.Mutex
	buf     []event.Event
	stopped bool

	wake chan struct{}
	done chan struct{}
}

// NewSender creates a Sender and starts its worker goroutine.
func NewSender(cfg Config) *Sender {
	if cfg.Consumer == nil {
		panic("dispatch: Config.Consumer is required")
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.FlushCount <= 0 {
		cfg.FlushCount = DefaultFlushCount
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Sender{
		consumer: cfg.Consumer,
		drain:    cfg.Drain,
		interval: cfg.FlushInterval,
		count:    cfg.FlushCount,
		logger:   cfg.Logger,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue appends ev to the buffer. It is safe to call from any number of
// goroutines and never blocks on downstream delivery. Calling Enqueue after
// Stop is a caller bug and panics.
func (s *Sender) Enqueue(ev event.Event) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		panic("dispatch: Enqueue after Stop")
	}
	s.buf = append(s.buf, ev)
	n := len(s.buf)
	s.mu.Unlock()

	if n >= s.count {
		s.signal()
	}
}

// Stop flips the stop flag and blocks until the worker has delivered the
// final batch (including any drained side-channel records) and exited.
// Calling Stop twice is a caller bug and panics.
func (s *Sender) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		panic("dispatch: Stop called twice")
	}
	s.stopped = true
	s.mu.Unlock()

	s.signal()
	<-s.done
}

// signal nudges the worker without blocking; a pending wakeup is enough.
func (s *Sender) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Sender) run() {
	defer close(s.done)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
		case <-s.wake:
		}

		s.mu.Lock()
		stopped := s.stopped
		batch := s.buf
		s.buf = nil
		if stopped && s.drain != nil {
			// The drain must be atomic with the final flush: nothing may
			// slip in between the buffered events and the drained records.
			batch = append(batch, s.drain()...)
		}
		s.mu.Unlock()

		s.consumer.ProcessEvents(batch)

		if stopped {
			s.logger.Debug("dispatch worker exiting", zap.Int("final_batch", len(batch)))
			return
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.interval)
	}
}
