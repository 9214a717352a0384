package provider

import (
	"fmt"
	"strings"
)

// ExpectedVersion is the baseline a node's reported identity is checked
// against. It is injected from configuration and fixed for the process
// lifetime; there is no package-level default in use at runtime.
type ExpectedVersion struct {
	Version  string
	SpecName string
}

// Matches checks if the expected version matches the network version
// reported by a node. Since the light client uses a subset of the node
// APIs, only the prefix of the node version is checked: an expected
// version of "1.6" matches node versions "1.6.x". The specification name
// identifies the chain/runtime family and is checked for an exact match.
// Runtime spec_version changes with runtime upgrades and is deliberately
// not part of the check.
func (v ExpectedVersion) Matches(nodeVersion, specName string) bool {
	return strings.HasPrefix(nodeVersion, v.Version) && v.SpecName == specName
}

func (v ExpectedVersion) String() string {
	return fmt.Sprintf("v%s/%s", v.Version, v.SpecName)
}
