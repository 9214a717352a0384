package provider

import (
	"context"

	"github.com/dalight/dalight/types"
)

// RuntimeVersion is the runtime identity a full node reports during the
// handshake.
type RuntimeVersion struct {
	SpecName    string `json:"specName"`
	SpecVersion uint32 `json:"specVersion"`
}

// FullNode is a live connection to a single full node. The connection
// event loop owns exactly one FullNode at a time; all methods except Quit
// and Close are issued only from that loop.
//
// Implementations signal unrecoverable connection loss through Quit; after
// Quit fires the connection is dead and every call returns an error.
type FullNode interface {
	// SystemVersion returns the node's implementation version string,
	// e.g. "1.6.3-abc123".
	SystemVersion(ctx context.Context) (string, error)

	// RuntimeVersion returns the runtime specification the node runs.
	RuntimeVersion(ctx context.Context) (RuntimeVersion, error)

	// GenesisHash returns the hash of the chain's genesis block.
	GenesisHash(ctx context.Context) (types.Hash, error)

	// BlockHash returns the block hash at the given height.
	BlockHash(ctx context.Context, height uint64) (types.Hash, error)

	// HeaderByHash returns the header of the block with the given hash.
	HeaderByHash(ctx context.Context, hash types.Hash) (*types.Header, error)

	// Cells fetches the given cells of the block's extended matrix,
	// together with their inclusion proofs.
	Cells(ctx context.Context, block types.Hash, positions []types.Position) ([]types.Cell, error)

	// Quit returns a channel that delivers the terminal error once the
	// connection is unrecoverably lost, then is closed. Closing the
	// connection locally also fires Quit.
	Quit() <-chan error

	// Close tears the connection down.
	Close() error
}

// Dialer establishes a FullNode connection to the given host. The event
// loop uses it to (re)connect while walking the candidate pool.
type Dialer func(ctx context.Context, host string) (FullNode, error)
