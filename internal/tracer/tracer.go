// Package tracer defines the contract between the collection pipeline and
// the event-producing tracer. The tracer itself lives outside this module;
// only the interfaces it is driven through are defined here.
package tracer

import "capture_collector/internal/event"

// Options configures one capture session.
type Options struct {
	// EnableIntrospection attaches the self-tracing facade so this process's
	// own spans flow through the pipeline as introspection-scope events.
	EnableIntrospection bool

	// Params carries the remaining capture parameters. They are opaque to
	// the collection tier and forwarded to the tracer unexamined.
	Params map[string]string
}

// Listener receives fully-formed payloads from the tracer, one call per
// event. Every method must be safe to call concurrently from unrelated
// capture threads.
type Listener interface {
	OnSchedulingSlice(slice event.SchedulingSlice)
	OnCallstackSample(sample event.CallstackSample)
	OnFunctionCall(call event.FunctionCall)
	OnGpuJob(job event.GpuJob)
	OnThreadName(name event.ThreadName)
	OnThreadStateSlice(slice event.ThreadStateSlice)
	OnAddressInfo(info event.AddressInfo)
	OnTracepointEvent(ev event.TracepointEvent)
	OnIntrospectionScope(scope event.IntrospectionScope)
}

// Tracer is the external capture engine. SetListener must be called before
// Start; Stop must cause the tracer's capture threads to quiesce before it
// returns, after which no further Listener calls are made.
type Tracer interface {
	SetListener(listener Listener)
	Start()
	Stop()
}

// Factory constructs a Tracer for one session from its options.
type Factory func(opts Options) Tracer
