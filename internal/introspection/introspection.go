// Package introspection is the self-tracing facade: it translates this
// process's own OpenTelemetry spans into introspection-scope events on the
// normal pipeline, so the profiler can see its own overhead.
package introspection

import (
	"context"
	"os"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/unix"

	"capture_collector/internal/event"
)

// ScopeFunc receives one synthesized introspection scope per ended span. It
// is fed through the session's regular enqueue path.
type ScopeFunc func(scope event.IntrospectionScope)

// Processor is an OpenTelemetry span processor that mirrors every finished
// span into the capture pipeline. Nesting depth is tracked per live span so
// a scope knows how deep inside other self-trace scopes it ran.
type Processor struct {
	sink ScopeFunc

	mu     sync.Mutex
	depths map[trace.SpanID]int32
}

var _ sdktrace.SpanProcessor = (*Processor)(nil)

// NewProcessor creates a Processor that emits scopes through sink.
func NewProcessor(sink ScopeFunc) *Processor {
	return &Processor{
		sink:   sink,
		depths: make(map[trace.SpanID]int32),
	}
}

// OnStart records the span's nesting depth relative to its parent.
func (p *Processor) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	parentID := s.Parent().SpanID()

	p.mu.Lock()
	defer p.mu.Unlock()
	depth := int32(0)
	if parentDepth, ok := p.depths[parentID]; ok {
		depth = parentDepth + 1
	}
	p.depths[s.SpanContext().SpanID()] = depth
}

// OnEnd synthesizes the introspection scope and hands it to the sink.
func (p *Processor) OnEnd(s sdktrace.ReadOnlySpan) {
	id := s.SpanContext().SpanID()

	p.mu.Lock()
	depth := p.depths[id]
	delete(p.depths, id)
	p.mu.Unlock()

	scope := event.IntrospectionScope{
		Pid:              int32(os.Getpid()),
		Tid:              int32(unix.Gettid()),
		BeginTimestampNs: uint64(s.StartTime().UnixNano()),
		EndTimestampNs:   uint64(s.EndTime().UnixNano()),
		Depth:            depth,
	}

	// Up to six numeric span attributes ride along as opaque registers, in
	// attribute order.
	reg := 0
	for _, attr := range s.Attributes() {
		if reg == len(scope.Registers) {
			break
		}
		switch attr.Value.Type() {
		case attribute.INT64:
			scope.Registers[reg] = uint64(attr.Value.AsInt64())
			reg++
		case attribute.FLOAT64:
			scope.Registers[reg] = uint64(attr.Value.AsFloat64())
			reg++
		}
	}

	p.sink(scope)
}

// Shutdown implements sdktrace.SpanProcessor.
func (p *Processor) Shutdown(context.Context) error { return nil }

// ForceFlush implements sdktrace.SpanProcessor.
func (p *Processor) ForceFlush(context.Context) error { return nil }
