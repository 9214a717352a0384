package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrConnClosed is returned by FullNode calls issued after the
	// connection was torn down.
	ErrConnClosed = errors.New("connection closed")

	// ErrNoResponse is returned when the node does not answer a request
	// before its context expires.
	ErrNoResponse = errors.New("node failed to respond")
)

// ErrVersionMismatch is returned when a node's reported identity does not
// match the expected network version. The caller decides whether to
// reject the node and try the next one; it is never raised as a panic.
type ErrVersionMismatch struct {
	Expected ExpectedVersion
	Version  string
	SpecName string
}

func (e ErrVersionMismatch) Error() string {
	return fmt.Sprintf("node version %s/%s does not match expected %s",
		e.Version, e.SpecName, e.Expected)
}
