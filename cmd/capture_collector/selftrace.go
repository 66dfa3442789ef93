package main

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// selfTraceLoop produces a nested span pair every 100ms until stop closes.
// The spans reach the event stream through the introspection facade.
func selfTraceLoop(tp *sdktrace.TracerProvider, stop <-chan struct{}) {
	trc := tp.Tracer("capture_collector/demo")
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	iteration := int64(0)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		iteration++
		ctx, outer := trc.Start(context.Background(), "demo iteration",
			trace.WithAttributes(attribute.Int64("iteration", iteration)))
		_, inner := trc.Start(ctx, "demo inner work")
		time.Sleep(time.Millisecond)
		inner.End()
		outer.End()
	}
}
