// Package event defines the envelope shared by every stage of the capture
// pipeline: a closed union of trace event kinds plus their payload types.
//
// Events are value types. Once constructed they are never mutated, and they
// carry no references back into the components that produced them, so they
// can cross goroutine boundaries freely.
//
// Payloads that repeat heavily (symbol names, call stacks, tracepoint
// descriptors) are not carried inline on the data-bearing events. Instead a
// 64-bit key references an Interned* event emitted once per unique payload;
// see the intern package for the key derivation and the once-per-session
// guarantee.
package event
