// Package debug holds runtime loggers started only when config.Debug is true.
package debug

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// StartGoroutineLogger launches a ticker that logs goroutine count and stack memory.
// Capture sessions, recordings and the inference worker all run their own
// goroutines, so a steadily rising count points at a leak in one of them.
func StartGoroutineLogger(interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		return
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for range t.C {
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			logger.Debug("debug.goroutines",
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("stack_sys", ms.StackSys),
			)
		}
	}()
}
