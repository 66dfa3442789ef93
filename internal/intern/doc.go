// Package intern deduplicates repeated trace payloads so the full data
// crosses the pipeline at most once per capture session.
//
// Three independent domains exist: strings, call stacks and tracepoint
// descriptors. Each domain derives a deterministic 64-bit key from payload
// content and tracks which keys have already been emitted, under its own
// lock. The first caller to present a payload wins and emits an interned
// event; every caller gets the key back and references the payload by key
// from then on.
//
// Keys are content hashes with no collision handling: two distinct payloads
// mapping to the same 64-bit key would make the second one silently alias
// the first. Within one session the key space makes this vanishingly
// unlikely, and tables are discarded when the session ends.
package intern
