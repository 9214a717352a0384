package light

import (
	"context"

	"github.com/dalight/dalight/light/provider"
	"github.com/dalight/dalight/types"
)

// Client is a thin handle for issuing requests against the node the event
// loop is currently connected to. It never touches the connection itself:
// every method enqueues a command on the bounded command queue and waits
// for the loop's reply. Any number of goroutines may share one Client.
//
// When the queue is full, enqueueing blocks until the loop drains an
// entry; that is the intended backpressure, not an error. The client
// imposes no timeouts of its own: cancel or deadline the context to stop
// waiting. A command abandoned this way may still complete inside the
// loop; no cancellation propagates inward.
type Client struct {
	cmds chan<- command
	bus  *EventBus
}

func newClient(cmds chan<- command, bus *EventBus) *Client {
	return &Client{cmds: cmds, bus: bus}
}

// Subscribe returns an independent listener on the event loop's event
// stream. See EventBus for the delivery guarantees.
func (c *Client) Subscribe() *Subscription { return c.bus.Subscribe() }

// Unsubscribe removes a subscription obtained from Subscribe.
func (c *Client) Unsubscribe(sub *Subscription) { c.bus.Unsubscribe(sub) }

// SystemVersion returns the connected node's implementation version.
func (c *Client) SystemVersion(ctx context.Context) (string, error) {
	resp := make(chan stringResult, 1)
	if err := c.enqueue(ctx, cmdSystemVersion{resp: resp}); err != nil {
		return "", err
	}
	select {
	case r := <-resp:
		return r.value, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// RuntimeVersion returns the connected node's runtime specification.
func (c *Client) RuntimeVersion(ctx context.Context) (provider.RuntimeVersion, error) {
	resp := make(chan runtimeVersionResult, 1)
	if err := c.enqueue(ctx, cmdRuntimeVersion{resp: resp}); err != nil {
		return provider.RuntimeVersion{}, err
	}
	select {
	case r := <-resp:
		return r.value, r.err
	case <-ctx.Done():
		return provider.RuntimeVersion{}, ctx.Err()
	}
}

// GenesisHash returns the genesis hash recorded during the handshake with
// the connected node.
func (c *Client) GenesisHash(ctx context.Context) (types.Hash, error) {
	resp := make(chan hashResult, 1)
	if err := c.enqueue(ctx, cmdGenesisHash{resp: resp}); err != nil {
		return types.Hash{}, err
	}
	select {
	case r := <-resp:
		return r.value, r.err
	case <-ctx.Done():
		return types.Hash{}, ctx.Err()
	}
}

// BlockHash returns the block hash at the given height.
func (c *Client) BlockHash(ctx context.Context, height uint64) (types.Hash, error) {
	resp := make(chan hashResult, 1)
	if err := c.enqueue(ctx, cmdBlockHash{height: height, resp: resp}); err != nil {
		return types.Hash{}, err
	}
	select {
	case r := <-resp:
		return r.value, r.err
	case <-ctx.Done():
		return types.Hash{}, ctx.Err()
	}
}

// HeaderByHash returns the header of the block with the given hash.
func (c *Client) HeaderByHash(ctx context.Context, hash types.Hash) (*types.Header, error) {
	resp := make(chan headerResult, 1)
	if err := c.enqueue(ctx, cmdHeaderByHash{hash: hash, resp: resp}); err != nil {
		return nil, err
	}
	select {
	case r := <-resp:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cells fetches the given cells of a block's extended matrix with their
// proofs. Callers typically compute positions with the sample package.
func (c *Client) Cells(ctx context.Context, block types.Hash, positions []types.Position) ([]types.Cell, error) {
	resp := make(chan cellsResult, 1)
	if err := c.enqueue(ctx, cmdCells{block: block, positions: positions, resp: resp}); err != nil {
		return nil, err
	}
	select {
	case r := <-resp:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CurrentNode returns the handshake-populated identity of the node the
// loop is currently connected to.
func (c *Client) CurrentNode(ctx context.Context) (provider.Node, error) {
	resp := make(chan nodeResult, 1)
	if err := c.enqueue(ctx, cmdCurrentNode{resp: resp}); err != nil {
		return provider.Node{}, err
	}
	select {
	case r := <-resp:
		return r.value, r.err
	case <-ctx.Done():
		return provider.Node{}, ctx.Err()
	}
}

func (c *Client) enqueue(ctx context.Context, cmd command) error {
	select {
	case c.cmds <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// command is a request from a Client to the event loop. Every concrete
// command carries a one-shot reply channel (capacity 1, never closed) so
// an abandoned reply cannot block the loop.
type command interface{}

type (
	cmdSystemVersion  struct{ resp chan stringResult }
	cmdRuntimeVersion struct{ resp chan runtimeVersionResult }
	cmdGenesisHash    struct{ resp chan hashResult }
	cmdCurrentNode    struct{ resp chan nodeResult }

	cmdBlockHash struct {
		height uint64
		resp   chan hashResult
	}

	cmdHeaderByHash struct {
		hash types.Hash
		resp chan headerResult
	}

	cmdCells struct {
		block     types.Hash
		positions []types.Position
		resp      chan cellsResult
	}
)

type stringResult struct {
	value string
	err   error
}

type runtimeVersionResult struct {
	value provider.RuntimeVersion
	err   error
}

type hashResult struct {
	value types.Hash
	err   error
}

type headerResult struct {
	value *types.Header
	err   error
}

type cellsResult struct {
	value []types.Cell
	err   error
}

type nodeResult struct {
	value provider.Node
	err   error
}
