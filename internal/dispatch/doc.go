// Package dispatch owns the shared event buffer and the single background
// worker that flushes it to the downstream consumer.
//
// Producers append to the buffer under its mutex and never block on
// downstream delivery. The worker wakes on whichever comes first of a flush
// interval elapsing, the buffer reaching the count threshold, or the session
// stopping, then swaps the buffer out under the mutex and forwards the batch
// outside of it. Batch boundaries depend on timing, but the stream of
// delivered events preserves buffer append order and delivers every event
// exactly once.
//
// The stop flag lives under the same mutex as the buffer: the flush that
// observes it also performs the one-shot side-channel drain before releasing
// the lock, so the drained records ride in the final batch atomically.
package dispatch
