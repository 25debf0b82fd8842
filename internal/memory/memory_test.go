package memory

import (
	"runtime/debug"
	"testing"
	"time"
)

func TestParseRatio(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "", want: DefaultMemoryRatio},
		{input: "0.5", want: 0.5},
		{input: "1", want: 1.0},
		{input: "0", want: DefaultMemoryRatio},
		{input: "1.5", want: DefaultMemoryRatio},
		{input: "-0.2", want: DefaultMemoryRatio},
		{input: "half", want: DefaultMemoryRatio},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseRatio(tt.input); got != tt.want {
				t.Errorf("parseRatio(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{input: 0, want: "0 B"},
		{input: 1023, want: "1023 B"},
		{input: 1024, want: "1.0 KiB"},
		{input: 1536, want: "1.5 KiB"},
		{input: 1024 * 1024, want: "1.0 MiB"},
		{input: 2 * 1024 * 1024 * 1024, want: "2.0 GiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.input); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConfigureFromEnv(t *testing.T) {
	previous := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(previous) })

	t.Run("Not configured", func(t *testing.T) {
		t.Setenv("GOMEMLIMIT", "")
		t.Setenv("MEMORY_LIMIT", "")

		if got := ConfigureFromEnv(); got.Configured || got.Source != "none" {
			t.Errorf("ConfigureFromEnv() = %+v, want unconfigured", got)
		}
	})

	t.Run("Invalid limit", func(t *testing.T) {
		t.Setenv("GOMEMLIMIT", "")
		t.Setenv("MEMORY_LIMIT", "lots")

		if got := ConfigureFromEnv(); got.Configured {
			t.Errorf("ConfigureFromEnv() = %+v, want unconfigured", got)
		}
	})

	t.Run("Container limit", func(t *testing.T) {
		t.Setenv("GOMEMLIMIT", "")
		t.Setenv("MEMORY_LIMIT", "1073741824")
		t.Setenv("MEMORY_RATIO", "0.5")

		got := ConfigureFromEnv()
		if !got.Configured || got.Source != "MEMORY_LIMIT" {
			t.Fatalf("ConfigureFromEnv() = %+v, want configured from MEMORY_LIMIT", got)
		}
		if got.GoMemLimit != 536870912 {
			t.Errorf("GoMemLimit = %d, want 536870912", got.GoMemLimit)
		}
		if limit := debug.SetMemoryLimit(-1); limit != 536870912 {
			t.Errorf("runtime memory limit = %d, want 536870912", limit)
		}
	})
}

func TestMonitorPausesAndResumes(t *testing.T) {
	m := NewMonitor(Config{
		LimitBytes:      1000,
		ResumeWaterMark: 0.5,
		PauseWaterMark:  0.9,
	})
	defer m.Stop()

	m.update(100)
	if m.IsPaused() {
		t.Fatal("paused below the resume mark")
	}
	if got := m.Usage(); got != 0.1 {
		t.Errorf("Usage() = %v, want 0.1", got)
	}

	m.update(950)
	if !m.IsPaused() {
		t.Fatal("not paused above the pause mark")
	}

	done := make(chan bool)
	go func() { done <- m.WaitIfPaused() }()

	select {
	case <-done:
		t.Fatal("WaitIfPaused returned while paused")
	case <-time.After(20 * time.Millisecond):
	}

	// Between the marks the state holds
	m.update(700)
	if !m.IsPaused() {
		t.Fatal("resumed above the resume mark")
	}

	m.update(400)
	select {
	case ok := <-done:
		if !ok {
			t.Error("WaitIfPaused() = false after recovery, want true")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitIfPaused did not return after recovery")
	}
}

func TestMonitorStopReleasesWaiters(t *testing.T) {
	m := NewMonitor(Config{LimitBytes: 1000, ResumeWaterMark: 0.5, PauseWaterMark: 0.9})
	m.update(990)

	done := make(chan bool)
	go func() { done <- m.WaitIfPaused() }()

	m.Stop()
	m.Stop()

	select {
	case ok := <-done:
		if ok {
			t.Error("WaitIfPaused() = true after Stop, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitIfPaused did not return after Stop")
	}
}

func TestMonitorWithoutLimitNeverPauses(t *testing.T) {
	previous := debug.SetMemoryLimit(-1)
	debug.SetMemoryLimit(1<<63 - 1)
	t.Cleanup(func() { debug.SetMemoryLimit(previous) })

	m := NewMonitor(DefaultConfig())
	m.Start()
	defer m.Stop()

	m.update(1 << 40)
	if m.IsPaused() || !m.WaitIfPaused() {
		t.Error("monitor without a limit must never pause")
	}
	if m.Usage() != 0 {
		t.Errorf("Usage() = %v, want 0", m.Usage())
	}
}
