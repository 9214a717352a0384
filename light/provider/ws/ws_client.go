// Package ws implements the FullNode transport over a websocket JSON-RPC
// 2.0 connection, the interface substrate-style full nodes expose.
package ws

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/dalight/dalight/libs/log"
	"github.com/dalight/dalight/light/provider"
	"github.com/dalight/dalight/types"
)

// RPC methods the light client issues against a full node.
const (
	methodSystemVersion  = "system_version"
	methodRuntimeVersion = "state_getRuntimeVersion"
	methodBlockHash      = "chain_getBlockHash"
	methodHeader         = "chain_getHeader"
	methodQueryProof     = "kate_queryProof"
)

// Client is a websocket JSON-RPC connection to one full node. Requests
// may be issued from multiple goroutines; responses are matched to
// requests by ID in a single read pump. Once the pump fails the
// connection is dead: Quit fires and every pending and future call
// returns an error.
type Client struct {
	logger log.Logger
	conn   *websocket.Conn

	writeMtx sync.Mutex // websocket allows one concurrent writer

	nextID uint64 // atomic

	mtx     sync.Mutex
	pending map[uint64]chan<- rpcResponse

	quit      chan error
	done      chan struct{}
	terminate sync.Once
}

var _ provider.FullNode = (*Client)(nil)

// Dial connects to the node's websocket endpoint and starts the read
// pump.
func Dial(ctx context.Context, host string, logger log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, host, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", host, err)
	}

	c := &Client{
		logger:  logger.With("host", host),
		conn:    conn,
		pending: make(map[uint64]chan<- rpcResponse),
		quit:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go c.readPump()

	return c, nil
}

// Dialer adapts Dial to the provider.Dialer the event loop consumes.
func Dialer(logger log.Logger) provider.Dialer {
	return func(ctx context.Context, host string) (provider.FullNode, error) {
		return Dial(ctx, host, logger)
	}
}

func (c *Client) SystemVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.call(ctx, methodSystemVersion, nil, &version); err != nil {
		return "", err
	}
	return version, nil
}

func (c *Client) RuntimeVersion(ctx context.Context) (provider.RuntimeVersion, error) {
	var version provider.RuntimeVersion
	if err := c.call(ctx, methodRuntimeVersion, nil, &version); err != nil {
		return provider.RuntimeVersion{}, err
	}
	return version, nil
}

// GenesisHash fetches the block hash at height 0.
func (c *Client) GenesisHash(ctx context.Context) (types.Hash, error) {
	return c.BlockHash(ctx, 0)
}

func (c *Client) BlockHash(ctx context.Context, height uint64) (types.Hash, error) {
	var hash types.Hash
	if err := c.call(ctx, methodBlockHash, []interface{}{height}, &hash); err != nil {
		return types.Hash{}, err
	}
	return hash, nil
}

func (c *Client) HeaderByHash(ctx context.Context, hash types.Hash) (*types.Header, error) {
	var header types.Header
	if err := c.call(ctx, methodHeader, []interface{}{hash}, &header); err != nil {
		return nil, err
	}
	return &header, nil
}

// Cells fetches the given cells with proofs. The node replies with one
// hex string of CellWithProofSize bytes per requested position, in
// request order.
func (c *Client) Cells(ctx context.Context, block types.Hash, positions []types.Position) ([]types.Cell, error) {
	var contents []string
	if err := c.call(ctx, methodQueryProof, []interface{}{positions, block}, &contents); err != nil {
		return nil, err
	}
	if len(contents) != len(positions) {
		return nil, fmt.Errorf("node returned %d cells for %d positions", len(contents), len(positions))
	}

	cells := make([]types.Cell, len(positions))
	for i, content := range contents {
		b, err := hex.DecodeString(strings.TrimPrefix(content, "0x"))
		if err != nil {
			return nil, fmt.Errorf("decoding cell %d: %w", i, err)
		}
		if len(b) != types.CellWithProofSize {
			return nil, fmt.Errorf("cell %d has %d bytes, want %d", i, len(b), types.CellWithProofSize)
		}
		cells[i].Position = positions[i]
		copy(cells[i].Content[:], b)
	}

	return cells, nil
}

// Quit returns the channel that delivers the terminal connection error.
func (c *Client) Quit() <-chan error { return c.quit }

// Close tears the connection down and fires Quit.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.fail(provider.ErrConnClosed)
	return err
}

// call issues a single request and waits for its response, the context,
// or connection death, whichever comes first.
func (c *Client) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	req, respCh, err := c.register(method, params)
	if err != nil {
		return err
	}
	defer c.unregister(req.ID)

	c.writeMtx.Lock()
	err = c.conn.WriteJSON(req)
	c.writeMtx.Unlock()
	if err != nil {
		return fmt.Errorf("writing %s request: %w", method, err)
	}

	select {
	case resp := <-respCh:
		if resp.Error != nil {
			return resp.Error
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("unmarshaling %s result: %w", method, err)
		}
		return nil
	case <-c.done:
		return provider.ErrConnClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) register(method string, params interface{}) (rpcRequest, chan rpcResponse, error) {
	var rawParams json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return rpcRequest{}, nil, fmt.Errorf("marshaling %s params: %w", method, err)
		}
		rawParams = b
	}

	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      atomic.AddUint64(&c.nextID, 1),
		Method:  method,
		Params:  rawParams,
	}

	respCh := make(chan rpcResponse, 1)
	c.mtx.Lock()
	c.pending[req.ID] = respCh
	c.mtx.Unlock()

	return req, respCh, nil
}

func (c *Client) unregister(id uint64) {
	c.mtx.Lock()
	delete(c.pending, id)
	c.mtx.Unlock()
}

// readPump is the single reader of the connection. It routes responses to
// waiting calls by ID until the read fails, then declares the connection
// dead.
func (c *Client) readPump() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(fmt.Errorf("reading from node: %w", err))
			return
		}

		var resp rpcResponse
		if err := json.Unmarshal(msg, &resp); err != nil {
			c.logger.Error("dropping malformed response", "err", err)
			continue
		}

		c.mtx.Lock()
		respCh, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mtx.Unlock()

		if !ok {
			// a reply for an abandoned or unknown request
			c.logger.Debug("dropping unsolicited response", "id", resp.ID)
			continue
		}
		respCh <- resp
	}
}

// fail marks the connection dead exactly once: pending and future calls
// unblock with an error and Quit delivers the cause.
func (c *Client) fail(cause error) {
	c.terminate.Do(func() {
		close(c.done)
		c.quit <- cause
		close(c.quit)
		c.conn.Close()
	})
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("RPC error %d - %s: %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("RPC error %d - %s", e.Code, e.Message)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}
