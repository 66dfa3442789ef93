package event

// Event is one unit of trace data flowing through the collection pipeline.
// The interface is sealed: the complete set of variants is defined in this
// package and consumers dispatch with a type switch.
type Event interface {
	isEvent()
}

// SchedulingSlice records a span of time a thread spent running on a core.
type SchedulingSlice struct {
	Pid            int32
	Tid            int32
	Core           int32
	DurationNs     uint64
	OutTimestampNs uint64
}

// Callstack is an ordered sequence of program counters, innermost frame
// first. It only appears inline inside an InternedCallstack event; samples
// reference it by key.
type Callstack struct {
	Pcs []uint64
}

// CallstackSample is one stack sample taken from a running thread.
//
// The tracer delivers it with Callstack populated and CallstackKey zero; the
// handler interns the stack, sets CallstackKey and clears Callstack before
// the sample enters the buffer.
type CallstackSample struct {
	TimestampNs  uint64
	Pid          int32
	Tid          int32
	Callstack    Callstack
	CallstackKey uint64
}

// FunctionCall records one dynamically instrumented function invocation.
type FunctionCall struct {
	Tid              int32
	AbsoluteAddress  uint64
	BeginTimestampNs uint64
	EndTimestampNs   uint64
	Depth            int32
	ReturnValue      uint64
	Registers        []uint64
}

// IntrospectionScope is a self-trace span emitted by this process's own
// instrumentation, carrying up to six opaque numeric registers.
type IntrospectionScope struct {
	Pid              int32
	Tid              int32
	BeginTimestampNs uint64
	EndTimestampNs   uint64
	Depth            int32
	Registers        [6]uint64
}

// GpuJob records one job submitted to a GPU hardware queue. Timeline is
// delivered inline by the tracer and replaced by TimelineKey on the way into
// the buffer.
type GpuJob struct {
	Pid                     int32
	Tid                     int32
	Context                 uint32
	Seqno                   uint32
	DepthComplete           int32
	AmdgpuCsIoctlTimeNs     uint64
	AmdgpuSchedRunJobTimeNs uint64
	GpuHardwareStartTimeNs  uint64
	DmaFenceSignaledTimeNs  uint64
	Timeline                string
	TimelineKey             uint64
}

// ThreadName records a thread's comm at a point in time.
type ThreadName struct {
	Pid         int32
	Tid         int32
	Name        string
	TimestampNs uint64
}

// ThreadStateSlice records a span of time a thread spent in one scheduler
// state (runnable, interruptible sleep, ...).
type ThreadStateSlice struct {
	Tid            int32
	ThreadState    int32
	DurationNs     uint64
	EndTimestampNs uint64
}

// AddressInfo resolves a sampled code address to symbol and mapping. The
// tracer delivers FunctionName and MapName inline; the handler demangles,
// interns both and replaces them with keys.
type AddressInfo struct {
	AbsoluteAddress  uint64
	OffsetInFunction uint64
	FunctionName     string
	FunctionNameKey  uint64
	MapName          string
	MapNameKey       uint64
}

// TracepointInfo identifies a kernel tracepoint by category and name. It
// only appears inline inside an InternedTracepointInfo event.
type TracepointInfo struct {
	Category string
	Name     string
}

// TracepointEvent records one hit of a kernel tracepoint.
type TracepointEvent struct {
	Pid               int32
	Tid               int32
	TimestampNs       uint64
	Cpu               int32
	Info              TracepointInfo
	TracepointInfoKey uint64
}

// InternedString carries a unique string payload, sent at most once per
// session for a given key.
type InternedString struct {
	Key    uint64
	Intern string
}

// InternedCallstack carries a unique call stack payload, sent at most once
// per session for a given key.
type InternedCallstack struct {
	Key    uint64
	Intern Callstack
}

// InternedTracepointInfo carries a unique tracepoint descriptor, sent at
// most once per session for a given key.
type InternedTracepointInfo struct {
	Key    uint64
	Intern TracepointInfo
}

// GpuQueueSubmission is an externally sourced record drained from the
// side-channel file at shutdown. The payload is opaque at this tier; the
// downstream consumer owns its schema.
type GpuQueueSubmission struct {
	Payload []byte
}

func (SchedulingSlice) isEvent()        {}
func (CallstackSample) isEvent()        {}
func (FunctionCall) isEvent()           {}
func (IntrospectionScope) isEvent()     {}
func (GpuJob) isEvent()                 {}
func (ThreadName) isEvent()             {}
func (ThreadStateSlice) isEvent()       {}
func (AddressInfo) isEvent()            {}
func (TracepointEvent) isEvent()        {}
func (InternedString) isEvent()         {}
func (InternedCallstack) isEvent()      {}
func (InternedTracepointInfo) isEvent() {}
func (GpuQueueSubmission) isEvent()     {}
