package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMonitorResources(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	MonitorResources(ctx, zap.New(core), 5*time.Millisecond)

	assert.Eventually(t, func() bool { return logs.FilterMessage("resource monitor").Len() >= 2 }, 2*time.Second, 5*time.Millisecond)
	entry := logs.FilterMessage("resource monitor").All()[0]
	assert.Contains(t, entry.ContextMap(), "goroutines")
	assert.Contains(t, entry.ContextMap(), "heap_alloc_kb")
}

func TestMonitorResources_Disabled(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	MonitorResources(context.Background(), zap.New(core), 0)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, logs.Len())
}
