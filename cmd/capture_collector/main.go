// Command capture_collector runs the collection pipeline against a
// synthetic tracer: a handful of producer goroutines that generate the full
// event taxonomy at a steady rate. Batches are logged as they are flushed.
// Useful for exercising the pipeline end to end without a kernel-side
// capture engine.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"capture_collector/internal/config"
	"capture_collector/internal/handler"
	"capture_collector/internal/tracer"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return err
	}

	consumer := newLogConsumer(logger)
	h := handler.New(consumer, newSyntheticTracer, cfg, otelCfg, logger)

	if err := h.Start(tracer.Options{EnableIntrospection: cfg.EnableIntrospection}); err != nil {
		return err
	}

	// With introspection on, trace our own activity so the facade has spans
	// to fold back into the stream.
	stopSelfTrace := make(chan struct{})
	if tp := h.TracerProvider(); tp != nil {
		go selfTraceLoop(tp, stopSelfTrace)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("received signal, stopping capture")

	close(stopSelfTrace)
	h.Stop()

	consumer.logTotals()
	return nil
}
