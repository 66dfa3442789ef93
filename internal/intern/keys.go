package intern

import (
	"hash/fnv"

	"capture_collector/internal/event"
)

// StringKey derives the intern key for a string from its content using
// 64-bit FNV-1a.
func StringKey(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// CallstackKey derives the intern key for a call stack as a polynomial hash
// over the ordered program counters. Frame order is part of the identity:
// two stacks with the same addresses in different order get different keys.
func CallstackKey(cs event.Callstack) uint64 {
	key := uint64(17)
	for _, pc := range cs.Pcs {
		key = 31*key + pc
	}
	return key
}

// TracepointKey derives the intern key for a tracepoint descriptor from the
// string "<category>:<name>".
func TracepointKey(info event.TracepointInfo) uint64 {
	return StringKey(info.Category + ":" + info.Name)
}
