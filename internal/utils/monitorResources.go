package utils

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// MonitorResources logs goroutine and heap usage every interval until ctx is done.
func MonitorResources(ctx context.Context, log *zap.Logger, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		var memStats runtime.MemStats
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			runtime.ReadMemStats(&memStats)
			log.Info("resource monitor",
				zap.Int("goroutines", runtime.NumGoroutine()),
				zap.Float64("heap_alloc_kb", float64(memStats.HeapAlloc)/1024),
				zap.Uint64("heap_objects", memStats.HeapObjects),
			)
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}
		}
	}()
}
