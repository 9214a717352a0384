package ws

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalight/dalight/libs/log"
	"github.com/dalight/dalight/light/provider"
	"github.com/dalight/dalight/types"
)

// fakeNode is a minimal websocket JSON-RPC server speaking the methods the
// client issues.
type fakeNode struct {
	t        *testing.T
	upgrader websocket.Upgrader
	srv      *httptest.Server
}

func newFakeNode(t *testing.T) *fakeNode {
	n := &fakeNode{t: t}
	n.srv = httptest.NewServer(http.HandlerFunc(n.handle))
	t.Cleanup(n.srv.Close)
	return n
}

func (n *fakeNode) url() string {
	return "ws" + strings.TrimPrefix(n.srv.URL, "http")
}

func (n *fakeNode) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var req struct {
			ID     uint64            `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		var result interface{}
		switch req.Method {
		case "system_version":
			result = "1.6.3-5609d66"
		case "state_getRuntimeVersion":
			result = map[string]interface{}{"specName": "data-avail", "specVersion": 9}
		case "chain_getBlockHash":
			var height uint64
			require.NoError(n.t, json.Unmarshal(req.Params[0], &height))
			result = "0x" + strings.Repeat("00", 31) + "0" + string('1'+rune(height%9))
		case "chain_getHeader":
			result = map[string]interface{}{
				"number":         42,
				"parentHash":     "0x" + strings.Repeat("aa", 32),
				"stateRoot":      "0x" + strings.Repeat("bb", 32),
				"extrinsicsRoot": "0x" + strings.Repeat("cc", 32),
			}
		case "kate_queryProof":
			var positions []types.Position
			require.NoError(n.t, json.Unmarshal(req.Params[0], &positions))
			contents := make([]string, len(positions))
			for i := range positions {
				contents[i] = "0x" + hex.EncodeToString(make([]byte, types.CellWithProofSize))
			}
			result = contents
		default:
			_ = conn.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]interface{}{"code": -32601, "message": "Method not found"},
			})
			continue
		}

		_ = conn.WriteJSON(map[string]interface{}{
			"jsonrpc": "2.0", "id": req.ID, "result": result,
		})
	}
}

func TestClientRoundTrip(t *testing.T) {
	node := newFakeNode(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, node.url(), log.NewTestingLogger(t))
	require.NoError(t, err)
	defer client.Close()

	version, err := client.SystemVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.6.3-5609d66", version)

	runtime, err := client.RuntimeVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, provider.RuntimeVersion{SpecName: "data-avail", SpecVersion: 9}, runtime)

	genesis, err := client.GenesisHash(ctx)
	require.NoError(t, err)
	assert.False(t, genesis.IsZero())

	hash, err := client.BlockHash(ctx, 3)
	require.NoError(t, err)
	assert.False(t, hash.IsZero())

	header, err := client.HeaderByHash(ctx, hash)
	require.NoError(t, err)
	assert.EqualValues(t, 42, header.Number)

	positions := []types.Position{{Row: 0, Col: 0}, {Row: 3, Col: 1}}
	cells, err := client.Cells(ctx, hash, positions)
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, positions[1], cells[1].Position)
}

func TestClientRPCError(t *testing.T) {
	node := newFakeNode(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, node.url(), log.NewTestingLogger(t))
	require.NoError(t, err)
	defer client.Close()

	var out string
	err = client.call(ctx, "no_such_method", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Method not found")
}

func TestClientQuitFiresOnServerClose(t *testing.T) {
	node := newFakeNode(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, node.url(), log.NewTestingLogger(t))
	require.NoError(t, err)

	node.srv.CloseClientConnections()

	select {
	case err := <-client.Quit():
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Quit did not fire after the server dropped the connection")
	}

	// the dead connection rejects further calls
	_, err = client.SystemVersion(ctx)
	require.Error(t, err)
}

func TestClientCloseFiresQuit(t *testing.T) {
	node := newFakeNode(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, node.url(), log.NewTestingLogger(t))
	require.NoError(t, err)
	require.NoError(t, client.Close())

	select {
	case err := <-client.Quit():
		require.ErrorIs(t, err, provider.ErrConnClosed)
	case <-time.After(time.Second):
		t.Fatal("Quit did not fire on local close")
	}
}
