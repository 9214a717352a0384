package provider

import (
	mrand "math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolExcludesLastKnownNode(t *testing.T) {
	pool := NewPool([]string{"a", "b", "c"}, "b")

	require.Equal(t, []string{"a", "c"}, pool.Hosts())

	current, ok := pool.GetCurrent()
	require.True(t, ok)
	assert.Equal(t, "a", current.Host)
}

func TestNewPoolNoExclusion(t *testing.T) {
	pool := NewPool([]string{"a", "b", "c"}, "")
	require.Equal(t, []string{"a", "b", "c"}, pool.Hosts())
}

func TestPoolNextVisitsEachNodeOnceInOrder(t *testing.T) {
	hosts := []string{"a", "b", "c", "d"}
	pool := NewPool(hosts, "")

	visited := []string{}
	node, ok := pool.GetCurrent()
	require.True(t, ok)
	visited = append(visited, node.Host)

	for {
		node, ok := pool.Next()
		if !ok {
			break
		}
		visited = append(visited, node.Host)
	}
	require.Equal(t, hosts, visited)

	// exhaustion is permanent until Reset
	for i := 0; i < 3; i++ {
		_, ok := pool.Next()
		assert.False(t, ok)
	}
	current, ok := pool.GetCurrent()
	require.True(t, ok)
	assert.Equal(t, "d", current.Host, "exhausted Next must not move the cursor")
}

func TestPoolResetShufflesAndRewinds(t *testing.T) {
	hosts := []string{"a", "b", "c", "d", "e", "f"}
	pool := NewPool(hosts, "")
	pool.rng = mrand.New(mrand.NewSource(42))

	for {
		if _, ok := pool.Next(); !ok {
			break
		}
	}

	first, ok := pool.Reset()
	require.True(t, ok)

	current, ok := pool.GetCurrent()
	require.True(t, ok)
	assert.Equal(t, first.Host, current.Host, "Reset must rewind the cursor to the front")

	// same multiset of hosts after shuffling
	got := pool.Hosts()
	sort.Strings(got)
	want := append([]string(nil), hosts...)
	sort.Strings(want)
	assert.Equal(t, want, got)

	// a full pass works again after Reset
	count := 1
	for {
		if _, ok := pool.Next(); !ok {
			break
		}
		count++
	}
	assert.Equal(t, len(hosts), count)
}

func TestPoolResetShuffleIsSeedable(t *testing.T) {
	order := func(seed int64) []string {
		pool := NewPool([]string{"a", "b", "c", "d", "e", "f", "g", "h"}, "")
		pool.rng = mrand.New(mrand.NewSource(seed))
		pool.Reset()
		return pool.Hosts()
	}

	assert.Equal(t, order(7), order(7), "same seed must give the same permutation")
}

func TestPoolEmpty(t *testing.T) {
	pool := NewPool([]string{"a"}, "a")
	require.Equal(t, 0, pool.Len())

	_, ok := pool.GetCurrent()
	assert.False(t, ok)
	_, ok = pool.Reset()
	assert.False(t, ok)
}

func TestNodeNetwork(t *testing.T) {
	node := Node{
		Host:          "ws://localhost:9944",
		SystemVersion: "1.6.3",
		SpecVersion:   9,
	}
	expected := ExpectedVersion{Version: "1.6", SpecName: "data-avail"}

	assert.Equal(t, "ws://localhost:9944/1.6.3/data-avail/9", node.Network(expected))
}
