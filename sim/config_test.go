package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSimConfig_FieldEquivalence(t *testing.T) {
	got := NewSimConfig(10000, 10, 2, 10, 42)
	want := SimConfig{
		InitialStock:      10000,
		ReturnRatePercent: 10,
		DelayMin:          2,
		DelayMax:          10,
		Seed:              42,
	}
	assert.Equal(t, want, got)
}

func TestSimConfig_ReturnRate_IsFraction(t *testing.T) {
	assert.Equal(t, 0.25, NewSimConfig(1, 25, 1, 1, 0).ReturnRate())
}

func TestSimConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       SimConfig
		wantField string
	}{
		{"valid", NewSimConfig(10000, 10, 2, 10, 0), ""},
		{"equal delay bounds", NewSimConfig(0, 0, 5, 5, 0), ""},
		{"full returns", NewSimConfig(1, 100, 0, 0, 0), ""},
		{"delay min above max", NewSimConfig(1, 0, 6, 5, 0), "delay min"},
		{"negative delay min", NewSimConfig(1, 0, -2, 5, 0), "delay min"},
		{"return rate over 100", NewSimConfig(1, 100.5, 1, 5, 0), "return rate"},
		{"negative stock", NewSimConfig(-5, 0, 1, 5, 0), "initial stock"},
		{"delay max at ceiling", NewSimConfig(1, 0, 0, MaxDelayDays, 0), ""},
		{"delay max above ceiling", NewSimConfig(1, 0, 0, MaxDelayDays+1, 0), "delay max"},
		{"delay max int64 limit", NewSimConfig(1, 0, 0, math.MaxInt64, 0), "delay max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			if assert.ErrorAs(t, err, &cfgErr) {
				assert.Equal(t, tt.wantField, cfgErr.Field)
			}
		})
	}
}
