package memory

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"image-resizer/internal/logging"
	"image-resizer/internal/metrics"
)

// Config holds memory management configuration
type Config struct {
	// LimitBytes is the soft memory limit (0 = use GOMEMLIMIT or no limit)
	LimitBytes int64

	// ResumeWaterMark is the fraction of the limit below which paused
	// workers resume (0.0-1.0)
	ResumeWaterMark float64

	// PauseWaterMark is the fraction of the limit at which workers pause
	// before decoding another image (0.0-1.0)
	PauseWaterMark float64

	// CheckInterval is how often to check memory usage
	CheckInterval time.Duration
}

// DefaultConfig returns the defaults used by the warm command.
func DefaultConfig() Config {
	return Config{
		ResumeWaterMark: 0.7,
		PauseWaterMark:  0.85,
		CheckInterval:   2 * time.Second,
	}
}

// Monitor pauses resize workers while the heap is close to the memory
// limit. Without a limit it never pauses.
type Monitor struct {
	config    Config
	limit     int64
	stopChan  chan struct{}
	stopOnce  sync.Once
	mu        sync.RWMutex
	current   uint64
	isPaused  bool
	pauseChan chan struct{}
}

// NewMonitor creates a new memory monitor
func NewMonitor(config Config) *Monitor {
	limit := config.LimitBytes
	if limit == 0 {
		if goMemLimit := debug.SetMemoryLimit(-1); goMemLimit > 0 && goMemLimit < 1<<62 {
			limit = goMemLimit
		}
	}

	if limit == 0 {
		logging.Debug("Memory monitor: no memory limit configured, backpressure disabled")
	} else {
		logging.Debug("Memory monitor limit: %s", formatBytes(limit))
	}

	return &Monitor{
		config:    config,
		limit:     limit,
		stopChan:  make(chan struct{}),
		pauseChan: make(chan struct{}),
	}
}

// Start begins monitoring memory usage
func (m *Monitor) Start() {
	if m.limit == 0 || m.config.CheckInterval <= 0 {
		return
	}
	go m.monitorLoop()
}

// Stop stops the monitor and releases any paused workers.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *Monitor) monitorLoop() {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			m.update(stats.Alloc)
		case <-m.stopChan:
			return
		}
	}
}

// update records the current heap allocation and flips the paused state
// when it crosses a water mark.
func (m *Monitor) update(alloc uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = alloc
	if m.limit <= 0 {
		return
	}

	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch {
	case usage >= m.config.PauseWaterMark && !m.isPaused:
		logging.Warn("Memory critical (%.1f%% of limit), pausing resize workers", usage*100)
		m.isPaused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()

	case usage < m.config.ResumeWaterMark && m.isPaused:
		logging.Info("Memory recovered (%.1f%% of limit), resuming resize workers", usage*100)
		m.isPaused = false
		metrics.MemoryPaused.Set(0)
		close(m.pauseChan)
		m.pauseChan = make(chan struct{})
	}
}

// WaitIfPaused blocks while memory usage is critical. It returns false if
// the monitor was stopped while waiting.
func (m *Monitor) WaitIfPaused() bool {
	m.mu.RLock()
	if !m.isPaused {
		m.mu.RUnlock()
		return true
	}
	pauseChan := m.pauseChan
	m.mu.RUnlock()

	select {
	case <-pauseChan:
		return true
	case <-m.stopChan:
		return false
	}
}

// IsPaused reports whether workers should currently wait.
func (m *Monitor) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isPaused
}

// Usage returns the last sampled heap allocation as a fraction of the limit,
// or 0 when no limit is configured.
func (m *Monitor) Usage() float64 {
	if m.limit == 0 {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.current) / float64(m.limit)
}
