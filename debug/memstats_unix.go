//go:build unix

package debug

import (
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sys/unix"
)

// residentBytes reports the peak resident set size of the process.
func residentBytes() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	maxrss := uint64(ru.Maxrss)
	if runtime.GOOS != "darwin" {
		maxrss *= 1024 // kilobytes elsewhere
	}
	return maxrss, nil
}

// StartMemLogger launches a goroutine that logs memory stats every interval.
func StartMemLogger(interval time.Duration, logger *slog.Logger) {
	startMemLogger(interval, logger, residentBytes)
}
