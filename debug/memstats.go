package debug

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

func startMemLogger(interval time.Duration, logger *slog.Logger, rss func() (uint64, error)) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for range ticker.C {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			resident, err := rss()
			if err != nil && !rssErrLogged {
				logger.Warn("debug.memstats: resident size query failed", slog.String("error", err.Error()))
				rssErrLogged = true
			}
			logger.Info("debug.memstats",
				slog.Int("goroutines", runtime.NumGoroutine()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("heap_sys", ms.HeapSys),
				slog.Uint64("next_gc", ms.NextGC),
				slog.Uint64("rss", resident),
				slog.String("rss_human", humanize.IBytes(resident)),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}
