package main

import (
	"sync"

	"go.uber.org/zap"

	"capture_collector/internal/event"
	"capture_collector/internal/timesync"
)

// logConsumer stands in for the downstream transport: it counts events per
// kind and logs one line per non-empty batch.
type logConsumer struct {
	logger *zap.Logger
	clock  *timesync.Clock

	mu      sync.Mutex
	batches int
	byKind  map[string]int
}

func newLogConsumer(logger *zap.Logger) *logConsumer {
	return &logConsumer{
		logger: logger,
		clock:  timesync.NewClock(),
		byKind: make(map[string]int),
	}
}

func (c *logConsumer) ProcessEvents(batch []event.Event) {
	if len(batch) == 0 {
		return
	}

	c.mu.Lock()
	c.batches++
	for _, ev := range batch {
		c.byKind[kindName(ev)]++
	}
	c.mu.Unlock()

	fields := []zap.Field{zap.Int("events", len(batch))}
	if ts, ok := lastTimestampNs(batch); ok {
		fields = append(fields, zap.Time("last_event", c.clock.WallClock(ts)))
	}
	c.logger.Info("batch flushed", fields...)
}

func (c *logConsumer) logTotals() {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields := []zap.Field{zap.Int("batches", c.batches)}
	for kind, n := range c.byKind {
		fields = append(fields, zap.Int(kind, n))
	}
	c.logger.Info("capture totals", fields...)
}

// lastTimestampNs finds the last event in the batch that carries a
// boot-relative timestamp.
func lastTimestampNs(batch []event.Event) (uint64, bool) {
	for i := len(batch) - 1; i >= 0; i-- {
		switch ev := batch[i].(type) {
		case event.SchedulingSlice:
			return ev.OutTimestampNs, true
		case event.CallstackSample:
			return ev.TimestampNs, true
		case event.ThreadName:
			return ev.TimestampNs, true
		case event.ThreadStateSlice:
			return ev.EndTimestampNs, true
		case event.TracepointEvent:
			return ev.TimestampNs, true
		case event.FunctionCall:
			return ev.EndTimestampNs, true
		}
	}
	return 0, false
}

func kindName(ev event.Event) string {
	switch ev.(type) {
	case event.SchedulingSlice:
		return "scheduling_slices"
	case event.CallstackSample:
		return "callstack_samples"
	case event.FunctionCall:
		return "function_calls"
	case event.IntrospectionScope:
		return "introspection_scopes"
	case event.GpuJob:
		return "gpu_jobs"
	case event.ThreadName:
		return "thread_names"
	case event.ThreadStateSlice:
		return "thread_state_slices"
	case event.AddressInfo:
		return "address_infos"
	case event.TracepointEvent:
		return "tracepoint_events"
	case event.InternedString:
		return "interned_strings"
	case event.InternedCallstack:
		return "interned_callstacks"
	case event.InternedTracepointInfo:
		return "interned_tracepoints"
	case event.GpuQueueSubmission:
		return "gpu_queue_submissions"
	default:
		return "unknown"
	}
}
