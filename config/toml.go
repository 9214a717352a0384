package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// DefaultConfigDir and DefaultConfigFileName locate the config file under
// the client's home directory.
const (
	DefaultConfigDir      = "config"
	DefaultConfigFileName = "config.toml"
)

var configTemplate *template.Template

func init() {
	var err error
	tmpl := template.New("configFileTemplate").Funcs(template.FuncMap{
		"StringsJoin": stringsJoinQuoted,
	})
	if configTemplate, err = tmpl.Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// DefaultConfigFilePath returns the config file path under root.
func DefaultConfigFilePath(root string) string {
	return filepath.Join(root, DefaultConfigDir, DefaultConfigFileName)
}

// WriteConfigFile renders config into TOML and writes it to the standard
// location under root, creating the config directory if needed.
func WriteConfigFile(root string, cfg *Config) error {
	var buffer bytes.Buffer
	if err := configTemplate.Execute(&buffer, cfg); err != nil {
		return fmt.Errorf("rendering config template: %w", err)
	}

	path := DefaultConfigFilePath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, buffer.Bytes(), 0o600)
}

func stringsJoinQuoted(ss []string) string {
	var buf bytes.Buffer
	for i, s := range ss {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%q", s)
	}
	return buf.String()
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go.
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

# Candidate full-node websocket endpoints, in preference order.
full-nodes = [{{ StringsJoin .FullNodes }}]

# Excluded from the candidate list so a just-failed node is not retried
# first. Usually left empty.
last-known-node = "{{ .LastKnownNode }}"

# Target probability (percentage, 50 <= c < 100) that sampling has not
# missed a withheld portion of a block. Out-of-range values fall back to
# the default of 99.
confidence = {{ printf "%.1f" .Confidence }}

# Accepted network identity: a node's version must start with
# network-version and its runtime spec name must equal spec-name.
network-version = "{{ .NetworkVersion }}"
spec-name = "{{ .SpecName }}"

# Output level and format for the logger (plain or json).
log-level = "{{ .LogLevel }}"
log-format = "{{ .LogFormat }}"

# When set (e.g. ":26660"), Prometheus metrics are served at /metrics.
prometheus-listen-addr = "{{ .PrometheusListenAddr }}"
`
