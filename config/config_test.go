package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalight/dalight/config"
	"github.com/dalight/dalight/light/provider"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.ValidateBasic())

	assert.Equal(t, provider.ExpectedVersion{Version: "1.6", SpecName: "data-avail"},
		cfg.ExpectedVersion())
}

func TestValidateBasic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FullNodes = nil
	assert.Error(t, cfg.ValidateBasic())

	cfg = config.DefaultConfig()
	cfg.FullNodes = []string{"ws://only"}
	cfg.LastKnownNode = "ws://only"
	assert.Error(t, cfg.ValidateBasic(), "excluding the only node must fail")

	cfg = config.DefaultConfig()
	cfg.NetworkVersion = ""
	assert.Error(t, cfg.ValidateBasic())

	cfg = config.DefaultConfig()
	cfg.SpecName = ""
	assert.Error(t, cfg.ValidateBasic())

	// an out-of-range confidence is normalized at the point of use, not
	// rejected here
	cfg = config.DefaultConfig()
	cfg.Confidence = 200
	assert.NoError(t, cfg.ValidateBasic())
}

func TestConfidenceOrDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Confidence = 95
	got, normalized := cfg.ConfidenceOrDefault()
	assert.Equal(t, 95.0, got)
	assert.False(t, normalized)

	for _, bad := range []float64{-1, 0, 49.9, 100, 120} {
		cfg.Confidence = bad
		got, normalized = cfg.ConfidenceOrDefault()
		assert.Equal(t, 99.0, got, "confidence %v", bad)
		assert.True(t, normalized)
	}
}
