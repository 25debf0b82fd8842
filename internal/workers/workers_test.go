package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	t.Setenv(OverrideEnv, "")

	availableCPU := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		minExpect  int
		maxExpect  int
	}{
		{
			name:       "CPU-bound task (1.0x multiplier)",
			multiplier: 1.0,
			minExpect:  1,
			maxExpect:  availableCPU,
		},
		{
			name:       "I/O-heavy task (2.0x multiplier)",
			multiplier: 2.0,
			minExpect:  1,
			maxExpect:  availableCPU * 2,
		},
		{
			name:       "With limit lower than calculated",
			multiplier: 2.0,
			limit:      2,
			minExpect:  1,
			maxExpect:  2,
		},
		{
			name:       "Very low multiplier",
			multiplier: 0.1,
			minExpect:  1,
			maxExpect:  max(1, int(float64(availableCPU)*0.1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)
			if got < tt.minExpect || got > tt.maxExpect {
				t.Errorf("Count(%v, %d) = %d, want between %d and %d",
					tt.multiplier, tt.limit, got, tt.minExpect, tt.maxExpect)
			}
		})
	}
}

func TestCountOverride(t *testing.T) {
	tests := []struct {
		name     string
		override string
		limit    int
		want     int
	}{
		{name: "Valid override", override: "3", want: 3},
		{name: "Override capped by limit", override: "16", limit: 4, want: 4},
		{name: "Override below limit", override: "2", limit: 4, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(OverrideEnv, tt.override)
			if got := Count(1.0, tt.limit); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountInvalidOverrideIgnored(t *testing.T) {
	for _, override := range []string{"0", "-2", "lots"} {
		t.Run(override, func(t *testing.T) {
			t.Setenv(OverrideEnv, "")
			want := Count(1.0, 0)

			t.Setenv(OverrideEnv, override)
			if got := Count(1.0, 0); got != want {
				t.Errorf("Count() with %s=%q = %d, want %d", OverrideEnv, override, got, want)
			}
		})
	}
}

func TestForCPU(t *testing.T) {
	t.Setenv(OverrideEnv, "")

	if got := ForCPU(0); got != max(1, runtime.GOMAXPROCS(0)) {
		t.Errorf("ForCPU(0) = %d, want %d", got, runtime.GOMAXPROCS(0))
	}
	if got := ForCPU(1); got != 1 {
		t.Errorf("ForCPU(1) = %d, want 1", got)
	}
}
