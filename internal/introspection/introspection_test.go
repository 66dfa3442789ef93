package introspection

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"capture_collector/internal/event"
)

type scopeRecorder struct {
	mu     sync.Mutex
	scopes []event.IntrospectionScope
}

func (r *scopeRecorder) record(scope event.IntrospectionScope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = append(r.scopes, scope)
}

func (r *scopeRecorder) all() []event.IntrospectionScope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.IntrospectionScope(nil), r.scopes...)
}

func newTestProvider(rec *scopeRecorder) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewProcessor(rec.record)))
}

func TestProcessor_EndedSpanBecomesScope(t *testing.T) {
	rec := &scopeRecorder{}
	tp := newTestProvider(rec)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "work")
	span.End()

	scopes := rec.all()
	require.Len(t, scopes, 1)
	assert.Equal(t, int32(os.Getpid()), scopes[0].Pid)
	assert.NotZero(t, scopes[0].Tid)
	assert.NotZero(t, scopes[0].BeginTimestampNs)
	assert.LessOrEqual(t, scopes[0].BeginTimestampNs, scopes[0].EndTimestampNs)
	assert.Equal(t, int32(0), scopes[0].Depth)
}

func TestProcessor_NestedSpansTrackDepth(t *testing.T) {
	rec := &scopeRecorder{}
	tp := newTestProvider(rec)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	trc := tp.Tracer("test")
	ctx, outer := trc.Start(context.Background(), "outer")
	ctx, middle := trc.Start(ctx, "middle")
	_, inner := trc.Start(ctx, "inner")
	inner.End()
	middle.End()
	outer.End()

	scopes := rec.all()
	require.Len(t, scopes, 3)

	// Spans end innermost first.
	assert.Equal(t, int32(2), scopes[0].Depth)
	assert.Equal(t, int32(1), scopes[1].Depth)
	assert.Equal(t, int32(0), scopes[2].Depth)
}

func TestProcessor_NumericAttributesBecomeRegisters(t *testing.T) {
	rec := &scopeRecorder{}
	tp := newTestProvider(rec)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "work",
		trace.WithAttributes(
			attribute.Int64("a", 11),
			attribute.String("ignored", "text"),
			attribute.Int64("b", 22),
		))
	span.End()

	scopes := rec.all()
	require.Len(t, scopes, 1)
	assert.Equal(t, uint64(11), scopes[0].Registers[0])
	assert.Equal(t, uint64(22), scopes[0].Registers[1])
	assert.Zero(t, scopes[0].Registers[2])
}

func TestProcessor_AtMostSixRegisters(t *testing.T) {
	rec := &scopeRecorder{}
	tp := newTestProvider(rec)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	attrs := make([]attribute.KeyValue, 8)
	for i := range attrs {
		attrs[i] = attribute.Int64(string(rune('a'+i)), int64(i+1))
	}
	_, span := tp.Tracer("test").Start(context.Background(), "work", trace.WithAttributes(attrs...))
	span.End()

	scopes := rec.all()
	require.Len(t, scopes, 1)
	for i := 0; i < 6; i++ {
		assert.NotZero(t, scopes[0].Registers[i])
	}
}

func TestProcessor_DepthForgottenAfterEnd(t *testing.T) {
	rec := &scopeRecorder{}
	p := NewProcessor(rec.record)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(p))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "work")
	span.End()

	p.mu.Lock()
	live := len(p.depths)
	p.mu.Unlock()
	assert.Zero(t, live, "depth table must not grow without bound")
}
