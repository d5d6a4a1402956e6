package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"leadtimecli/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	cache     CacheStatsProvider
	startTime time.Time
	logger    *slog.Logger
}

// CacheStatsProvider exposes batch cache counters; AnalysisService implements it.
type CacheStatsProvider interface {
	CacheStats() map[string]interface{}
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a health service. cache may be nil.
func NewHealthService(version string, cache CacheStatsProvider, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized", slog.String("version", version))

	return &HealthService{
		version:   version,
		cache:     cache,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}

	if hs.cache != nil {
		status.Services = map[string]interface{}{
			"batch_cache": hs.cache.CacheStats(),
		}
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.Duration("uptime", time.Since(hs.startTime)))
	return status
}

// VersionStatus is the build information plus process start time
type VersionStatus struct {
	contracts.VersionInfo
	StartTime string `json:"start_time"`
}

// Version returns version information
func (hs *HealthService) Version() VersionStatus {
	info := contracts.GetVersionInfo()
	info.Version = hs.version
	return VersionStatus{
		VersionInfo: info,
		StartTime:   hs.startTime.Format(time.RFC3339),
	}
}
