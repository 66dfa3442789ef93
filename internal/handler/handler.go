package handler

import (
	"context"
	"time"

	"github.com/ianlancetaylor/demangle"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"capture_collector/internal/addrgate"
	"capture_collector/internal/config"
	"capture_collector/internal/dispatch"
	"capture_collector/internal/event"
	"capture_collector/internal/intern"
	"capture_collector/internal/introspection"
	"capture_collector/internal/otel"
	"capture_collector/internal/sidechannel"
	"capture_collector/internal/tracer"
)

const providerShutdownTimeout = 5 * time.Second

// session aggregates the per-capture state: the event buffer and worker,
// the three intern tables, the address gate and the tracer handle. It is
// created by Start and torn down by Stop.
type session struct {
	sender    *dispatch.Sender
	interner  *intern.Interner
	addresses *addrgate.Gate
	tracer    tracer.Tracer
	provider  *sdktrace.TracerProvider
}

// Handler implements tracer.Listener and drives the session lifecycle.
type Handler struct {
	consumer  dispatch.Consumer
	newTracer tracer.Factory
	cfg       *config.Config
	otelCfg   *config.OTELConfig
	logger    *zap.Logger

	session *session
}

var _ tracer.Listener = (*Handler)(nil)

// New creates a Handler. consumer receives every flushed batch; newTracer
// constructs the capture engine for each session.
func New(consumer dispatch.Consumer, newTracer tracer.Factory, cfg *config.Config, otelCfg *config.OTELConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		consumer:  consumer,
		newTracer: newTracer,
		cfg:       cfg,
		otelCfg:   otelCfg,
		logger:    logger,
	}
}

// Start creates the session, registers this handler as the tracer's sink,
// starts the tracer and the dispatch worker, and optionally attaches the
// introspection facade. Panics if a session is already live.
func (h *Handler) Start(opts tracer.Options) error {
	if h.session != nil {
		panic("handler: Start called with a live session")
	}

	s := &session{
		addresses: addrgate.New(),
	}

	// Build the introspection provider first: if it fails, nothing has been
	// started yet and there is nothing to unwind.
	if opts.EnableIntrospection {
		scopes := introspection.NewProcessor(h.OnIntrospectionScope)
		provider, err := otel.NewProvider(h.otelCfg, scopes)
		if err != nil {
			return err
		}
		s.provider = provider
	}

	path := h.cfg.SideChannelPath
	logger := h.logger
	s.sender = dispatch.NewSender(dispatch.Config{
		Consumer: h.consumer,
		Drain: func() []event.Event {
			return sidechannel.Drain(path, logger)
		},
		Logger: h.logger,
	})
	s.interner = intern.New(s.sender.Enqueue)

	s.tracer = h.newTracer(opts)
	s.tracer.SetListener(h)

	// The session must be visible to the sink methods before capture
	// threads start delivering events.
	h.session = s
	s.tracer.Start()

	h.logger.Info("capture session started",
		zap.Bool("introspection", opts.EnableIntrospection),
		zap.String("side_channel", path))
	return nil
}

// Stop quiesces the tracer, flushes the introspection facade, and joins the
// dispatch worker. When Stop returns, the consumer has received the final
// batch, including any drained side-channel records. Panics if no session
// is live.
func (h *Handler) Stop() {
	s := h.session
	if s == nil {
		panic("handler: Stop called without a live session")
	}

	s.tracer.Stop()

	// Shut the introspection provider down while the buffer still accepts
	// events: flushed spans become introspection scopes on the normal path.
	if s.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), providerShutdownTimeout)
		if err := otel.ShutdownProvider(ctx, s.provider); err != nil {
			h.logger.Warn("shutting down introspection provider", zap.Error(err))
		}
		cancel()
	}

	s.sender.Stop()
	h.session = nil

	h.logger.Info("capture session stopped")
}

// TracerProvider exposes the session's self-tracing provider so the
// embedding process can create spans that flow through the introspection
// facade. Returns nil when no session is live or introspection is off.
func (h *Handler) TracerProvider() *sdktrace.TracerProvider {
	if h.session == nil {
		return nil
	}
	return h.session.provider
}

// OnSchedulingSlice implements tracer.Listener.
func (h *Handler) OnSchedulingSlice(slice event.SchedulingSlice) {
	h.session.sender.Enqueue(slice)
}

// OnCallstackSample interns the sample's call stack and enqueues the sample
// carrying only the key.
func (h *Handler) OnCallstackSample(sample event.CallstackSample) {
	s := h.session
	sample.CallstackKey = s.interner.Callstack(sample.Callstack)
	sample.Callstack = event.Callstack{}
	s.sender.Enqueue(sample)
}

// OnFunctionCall implements tracer.Listener.
func (h *Handler) OnFunctionCall(call event.FunctionCall) {
	h.session.sender.Enqueue(call)
}

// OnGpuJob interns the job's timeline string and enqueues the job carrying
// only the key.
func (h *Handler) OnGpuJob(job event.GpuJob) {
	s := h.session
	job.TimelineKey = s.interner.String(job.Timeline)
	job.Timeline = ""
	s.sender.Enqueue(job)
}

// OnThreadName implements tracer.Listener.
func (h *Handler) OnThreadName(name event.ThreadName) {
	h.session.sender.Enqueue(name)
}

// OnThreadStateSlice implements tracer.Listener.
func (h *Handler) OnThreadStateSlice(slice event.ThreadStateSlice) {
	h.session.sender.Enqueue(slice)
}

// OnAddressInfo resolves an address at most once per session: repeat
// sightings are dropped by the gate before any demangling or interning
// work. First sightings get the function name demangled, both strings
// interned, and the info enqueued carrying only keys.
func (h *Handler) OnAddressInfo(info event.AddressInfo) {
	s := h.session
	if !s.addresses.ShouldProcess(info.AbsoluteAddress) {
		return
	}

	info.FunctionNameKey = s.interner.String(demangle.Filter(info.FunctionName))
	info.FunctionName = ""
	info.MapNameKey = s.interner.String(info.MapName)
	info.MapName = ""
	s.sender.Enqueue(info)
}

// OnTracepointEvent interns the tracepoint descriptor and enqueues the
// event carrying only the key.
func (h *Handler) OnTracepointEvent(ev event.TracepointEvent) {
	s := h.session
	ev.TracepointInfoKey = s.interner.Tracepoint(ev.Info)
	ev.Info = event.TracepointInfo{}
	s.sender.Enqueue(ev)
}

// OnIntrospectionScope implements tracer.Listener. Also the sink for the
// introspection facade.
func (h *Handler) OnIntrospectionScope(scope event.IntrospectionScope) {
	h.session.sender.Enqueue(scope)
}
