package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedVersionMatches(t *testing.T) {
	expected := ExpectedVersion{Version: "1.6", SpecName: "avail"}

	testCases := []struct {
		name        string
		nodeVersion string
		specName    string
		want        bool
	}{
		{"patch level accepted under coarser baseline", "1.6.3", "avail", true},
		{"exact version", "1.6", "avail", true},
		{"different minor version", "1.7.0", "avail", false},
		{"different spec name", "1.6.3", "other", false},
		{"empty node version", "", "avail", false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, expected.Matches(tc.nodeVersion, tc.specName))
		})
	}
}

func TestExpectedVersionString(t *testing.T) {
	expected := ExpectedVersion{Version: "1.6", SpecName: "data-avail"}
	assert.Equal(t, "v1.6/data-avail", expected.String())
}
