package timesync

import (
	"testing"
	"time"
)

func TestClock_WallClock(t *testing.T) {
	bootTime := time.Unix(1000000000, 0)
	clock := ClockAt(bootTime)

	tests := []struct {
		name           string
		bootRelativeNs uint64
		want           time.Time
	}{
		{
			name:           "zero nanoseconds",
			bootRelativeNs: 0,
			want:           bootTime,
		},
		{
			name:           "one second",
			bootRelativeNs: 1_000_000_000,
			want:           bootTime.Add(1 * time.Second),
		},
		{
			name:           "one hour",
			bootRelativeNs: 3_600_000_000_000,
			want:           bootTime.Add(1 * time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clock.WallClock(tt.bootRelativeNs)
			if !got.Equal(tt.want) {
				t.Errorf("WallClock() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClock_BootTime(t *testing.T) {
	bootTime := time.Unix(1000000000, 0)
	clock := ClockAt(bootTime)

	if !clock.BootTime().Equal(bootTime) {
		t.Errorf("BootTime() = %v, want %v", clock.BootTime(), bootTime)
	}
}

func TestNewClock_AlwaysUsable(t *testing.T) {
	clock := NewClock()

	// Whether /proc/stat was readable or the fallback kicked in, the anchor
	// must be in the past.
	if clock.BootTime().After(time.Now()) {
		t.Errorf("BootTime() = %v is in the future", clock.BootTime())
	}
}
