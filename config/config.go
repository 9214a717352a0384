package config

import (
	"errors"
	"fmt"

	"github.com/dalight/dalight/light/provider"
	"github.com/dalight/dalight/light/sample"
)

// Config holds the light client configuration. It is written to and read
// from a TOML file; field names follow the mapstructure tags.
type Config struct {
	// FullNodes are candidate full-node websocket endpoints, in preference
	// order. The first failover pass walks them in this order.
	FullNodes []string `mapstructure:"full-nodes"`

	// LastKnownNode, when set, is excluded from the candidate list so a
	// node that just failed is not retried first.
	LastKnownNode string `mapstructure:"last-known-node"`

	// Confidence is the target probability, as a percentage in [50, 100),
	// that sampling has not missed a withheld portion of a block.
	// Out-of-range values are normalized to sample.DefaultConfidence at
	// the point of use.
	Confidence float64 `mapstructure:"confidence"`

	// NetworkVersion and SpecName identify the network the client accepts:
	// a node's version must start with NetworkVersion and its runtime spec
	// name must equal SpecName.
	NetworkVersion string `mapstructure:"network-version"`
	SpecName       string `mapstructure:"spec-name"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	// PrometheusListenAddr, when non-empty, serves /metrics there.
	PrometheusListenAddr string `mapstructure:"prometheus-listen-addr"`
}

// DefaultConfig returns a default configuration for the light client.
func DefaultConfig() *Config {
	return &Config{
		FullNodes:            []string{"ws://127.0.0.1:9944"},
		Confidence:           sample.DefaultConfidence,
		NetworkVersion:       "1.6",
		SpecName:             "data-avail",
		LogLevel:             "info",
		LogFormat:            "plain",
		PrometheusListenAddr: "",
	}
}

// ExpectedVersion returns the version baseline nodes are checked against.
func (cfg *Config) ExpectedVersion() provider.ExpectedVersion {
	return provider.ExpectedVersion{
		Version:  cfg.NetworkVersion,
		SpecName: cfg.SpecName,
	}
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if len(cfg.FullNodes) == 0 {
		return errors.New("at least one full node is required")
	}
	pool := provider.NewPool(cfg.FullNodes, cfg.LastKnownNode)
	if pool.Len() == 0 {
		return errors.New("excluding last-known-node leaves no full nodes")
	}
	if cfg.NetworkVersion == "" {
		return errors.New("network-version must not be empty")
	}
	if cfg.SpecName == "" {
		return errors.New("spec-name must not be empty")
	}
	// an out-of-range confidence is deliberately not an error: the
	// sampling planner normalizes it to the default
	return nil
}

// ConfidenceOrDefault returns the configured confidence, or the sampling
// default when it is out of range, along with whether it was replaced.
func (cfg *Config) ConfidenceOrDefault() (float64, bool) {
	if cfg.Confidence < 50.0 || cfg.Confidence >= 100.0 {
		return sample.DefaultConfidence, true
	}
	return cfg.Confidence, false
}

func (cfg *Config) String() string {
	return fmt.Sprintf("Config{nodes=%d confidence=%.1f expected=%s}",
		len(cfg.FullNodes), cfg.Confidence, cfg.ExpectedVersion())
}
