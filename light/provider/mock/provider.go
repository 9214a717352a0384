// Package mock provides an in-memory FullNode for tests.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/dalight/dalight/light/provider"
	"github.com/dalight/dalight/types"
)

// FullNode is a scriptable in-memory provider.FullNode. Zero-value
// function fields fall back to canned responses derived from the struct
// fields, so most tests only set what they assert on.
type FullNode struct {
	Host        string
	Version     string
	Runtime     provider.RuntimeVersion
	Genesis     types.Hash
	BlockHashes map[uint64]types.Hash
	Headers     map[types.Hash]*types.Header

	// Optional overrides.
	SystemVersionFn func(ctx context.Context) (string, error)
	CellsFn         func(ctx context.Context, block types.Hash, positions []types.Position) ([]types.Cell, error)

	quit   chan error
	once   sync.Once
	closed bool
	mtx    sync.Mutex
}

var _ provider.FullNode = (*FullNode)(nil)

// New returns a mock node that passes a {version "1.6", spec "data-avail"}
// handshake.
func New(host string) *FullNode {
	return &FullNode{
		Host:    host,
		Version: "1.6.3",
		Runtime: provider.RuntimeVersion{SpecName: "data-avail", SpecVersion: 9},
		quit:    make(chan error, 1),
	}
}

// FailConn simulates unrecoverable connection loss.
func (m *FullNode) FailConn(err error) {
	m.once.Do(func() {
		m.quit <- err
		close(m.quit)
	})
}

func (m *FullNode) SystemVersion(ctx context.Context) (string, error) {
	if m.SystemVersionFn != nil {
		return m.SystemVersionFn(ctx)
	}
	return m.Version, nil
}

func (m *FullNode) RuntimeVersion(ctx context.Context) (provider.RuntimeVersion, error) {
	return m.Runtime, nil
}

func (m *FullNode) GenesisHash(ctx context.Context) (types.Hash, error) {
	return m.Genesis, nil
}

func (m *FullNode) BlockHash(ctx context.Context, height uint64) (types.Hash, error) {
	if h, ok := m.BlockHashes[height]; ok {
		return h, nil
	}
	return types.Hash{}, fmt.Errorf("no block at height %d", height)
}

func (m *FullNode) HeaderByHash(ctx context.Context, hash types.Hash) (*types.Header, error) {
	if h, ok := m.Headers[hash]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("no header for %s", hash)
}

func (m *FullNode) Cells(ctx context.Context, block types.Hash, positions []types.Position) ([]types.Cell, error) {
	if m.CellsFn != nil {
		return m.CellsFn(ctx, block, positions)
	}
	cells := make([]types.Cell, len(positions))
	for i, pos := range positions {
		cells[i] = types.Cell{Position: pos}
	}
	return cells, nil
}

func (m *FullNode) Quit() <-chan error { return m.quit }

func (m *FullNode) Close() error {
	m.mtx.Lock()
	m.closed = true
	m.mtx.Unlock()
	m.FailConn(provider.ErrConnClosed)
	return nil
}

// Closed reports whether Close was called.
func (m *FullNode) Closed() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.closed
}
