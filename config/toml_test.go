package config_test

import (
	"os"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalight/dalight/config"
)

func TestWriteConfigFileRoundTrip(t *testing.T) {
	root := t.TempDir()

	want := config.DefaultConfig()
	want.FullNodes = []string{"ws://n1:9944", "ws://n2:9944"}
	want.Confidence = 92.5
	want.PrometheusListenAddr = ":26660"

	require.NoError(t, config.WriteConfigFile(root, want))

	path := config.DefaultConfigFilePath(root)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		FullNodes            []string `toml:"full-nodes"`
		LastKnownNode        string   `toml:"last-known-node"`
		Confidence           float64  `toml:"confidence"`
		NetworkVersion       string   `toml:"network-version"`
		SpecName             string   `toml:"spec-name"`
		LogLevel             string   `toml:"log-level"`
		LogFormat            string   `toml:"log-format"`
		PrometheusListenAddr string   `toml:"prometheus-listen-addr"`
	}
	require.NoError(t, toml.Unmarshal(data, &got))

	assert.Equal(t, want.FullNodes, got.FullNodes)
	assert.Equal(t, want.Confidence, got.Confidence)
	assert.Equal(t, want.NetworkVersion, got.NetworkVersion)
	assert.Equal(t, want.SpecName, got.SpecName)
	assert.Equal(t, want.LogLevel, got.LogLevel)
	assert.Equal(t, want.LogFormat, got.LogFormat)
	assert.Equal(t, want.PrometheusListenAddr, got.PrometheusListenAddr)
}
