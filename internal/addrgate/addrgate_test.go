package addrgate

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGate_FirstSightingOnly(t *testing.T) {
	g := New()

	if !g.ShouldProcess(0x401000) {
		t.Error("first sighting should be processed")
	}
	if g.ShouldProcess(0x401000) {
		t.Error("repeat sighting should be dropped")
	}
	if !g.ShouldProcess(0x402000) {
		t.Error("distinct address should be processed")
	}
}

func TestGate_ConcurrentSingleWinner(t *testing.T) {
	g := New()

	const goroutines = 32
	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.ShouldProcess(0xdeadbeef) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := accepted.Load(); got != 1 {
		t.Errorf("accepted = %d, want exactly 1", got)
	}
}
