package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"capture_collector/internal/event"
	"capture_collector/internal/tracer"
)

// syntheticTracer drives the pipeline with generated events from several
// concurrent producer goroutines, standing in for the kernel-side capture
// engine.
type syntheticTracer struct {
	listener tracer.Listener
	start    time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func newSyntheticTracer(tracer.Options) tracer.Tracer {
	return &syntheticTracer{stopCh: make(chan struct{})}
}

func (t *syntheticTracer) SetListener(listener tracer.Listener) {
	t.listener = listener
}

func (t *syntheticTracer) Start() {
	t.start = time.Now()

	const producers = 4
	for i := 0; i < producers; i++ {
		t.wg.Add(1)
		go t.produce(int32(1000 + i))
	}
}

func (t *syntheticTracer) Stop() {
	close(t.stopCh)
	t.wg.Wait()
}

// canned stacks: repeated to exercise the intern tables, order-shuffled
// variants to exercise order sensitivity of the callstack key.
var stacks = []event.Callstack{
	{Pcs: []uint64{0x401000, 0x402200, 0x403400}},
	{Pcs: []uint64{0x403400, 0x402200, 0x401000}},
	{Pcs: []uint64{0x401000, 0x405800}},
}

var tracepoints = []event.TracepointInfo{
	{Category: "sched", Name: "sched_switch"},
	{Category: "sched", Name: "sched_wakeup"},
}

func (t *syntheticTracer) produce(tid int32) {
	defer t.wg.Done()

	rng := rand.New(rand.NewSource(int64(tid)))
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	t.listener.OnThreadName(event.ThreadName{
		Pid:         1,
		Tid:         tid,
		Name:        fmt.Sprintf("worker-%d", tid),
		TimestampNs: t.nowNs(),
	})

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
		}

		now := t.nowNs()
		switch rng.Intn(6) {
		case 0:
			t.listener.OnSchedulingSlice(event.SchedulingSlice{
				Pid: 1, Tid: tid, Core: int32(rng.Intn(8)),
				DurationNs: uint64(rng.Intn(1_000_000)), OutTimestampNs: now,
			})
		case 1:
			t.listener.OnCallstackSample(event.CallstackSample{
				TimestampNs: now, Pid: 1, Tid: tid,
				Callstack: stacks[rng.Intn(len(stacks))],
			})
		case 2:
			t.listener.OnFunctionCall(event.FunctionCall{
				Tid: tid, AbsoluteAddress: 0x401000 + uint64(rng.Intn(4))*0x100,
				BeginTimestampNs: now - 5000, EndTimestampNs: now, Depth: int32(rng.Intn(4)),
			})
		case 3:
			t.listener.OnAddressInfo(event.AddressInfo{
				AbsoluteAddress: 0x401000 + uint64(rng.Intn(16))*0x100,
				FunctionName:    "_ZN7example4workEv",
				MapName:         "/usr/bin/example",
			})
		case 4:
			t.listener.OnTracepointEvent(event.TracepointEvent{
				Pid: 1, Tid: tid, TimestampNs: now, Cpu: int32(rng.Intn(8)),
				Info: tracepoints[rng.Intn(len(tracepoints))],
			})
		case 5:
			t.listener.OnGpuJob(event.GpuJob{
				Pid: 1, Tid: tid, Context: 7, Seqno: uint32(rng.Intn(1 << 16)),
				Timeline:               "gfx",
				AmdgpuCsIoctlTimeNs:    now - 20000,
				DmaFenceSignaledTimeNs: now,
			})
		}
	}
}

func (t *syntheticTracer) nowNs() uint64 {
	return uint64(time.Since(t.start))
}
