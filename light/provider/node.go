package provider

import (
	"fmt"
	mrand "math/rand"

	"github.com/dalight/dalight/libs/rand"
	"github.com/dalight/dalight/types"
)

// Node identifies a candidate full node. Only Host is known up front; the
// remaining fields are populated once a handshake with that host succeeds.
type Node struct {
	Host          string
	SystemVersion string
	SpecVersion   uint32
	GenesisHash   types.Hash
}

// NewNode returns a Node for a bare host, with every handshake-derived
// field zeroed.
func NewNode(host string) Node {
	return Node{Host: host}
}

// Network renders the composite network identifier used for diagnostics
// and version negotiation: host/system_version/spec_name/spec_version.
// The spec name comes from the expected version because the node reports
// it only through the runtime version, which is not stored on the Node.
func (n Node) Network(expected ExpectedVersion) string {
	return fmt.Sprintf("%s/%s/%s/%d",
		n.Host, n.SystemVersion, expected.SpecName, n.SpecVersion)
}

// Pool is a failover cursor over an ordered list of candidate nodes.
//
// The first pass walks the list in the caller-supplied order, respecting
// any preference ordering. Once exhausted, Reset reshuffles the candidates
// so that repeated passes do not hammer nodes in the same fixed order.
//
// A Pool is not safe for concurrent use; it is owned and mutated
// exclusively by the connection event loop.
type Pool struct {
	list    []Node
	current int
	rng     *mrand.Rand
}

// NewPool builds a pool from hosts, dropping any entry equal to exclude
// (typically the node a previous run just failed on, so it is not retried
// first). The cursor starts at the first element and the order is
// preserved. Callers must not use an empty pool; GetCurrent and Next
// report emptiness rather than panic, but an empty pool is a
// configuration error.
func NewPool(hosts []string, exclude string) *Pool {
	list := make([]Node, 0, len(hosts))
	for _, h := range hosts {
		if exclude != "" && h == exclude {
			continue
		}
		list = append(list, NewNode(h))
	}

	return &Pool{
		list: list,
		rng:  rand.NewRand(),
	}
}

// Len returns the number of candidates.
func (p *Pool) Len() int { return len(p.list) }

// GetCurrent returns a copy of the node under the cursor, or false if the
// pool is empty.
func (p *Pool) GetCurrent() (Node, bool) {
	if len(p.list) == 0 {
		return Node{}, false
	}
	return p.list[p.current], true
}

// Next advances the cursor and returns the new current node. Once the
// cursor sits on the last element the pool is exhausted: Next returns
// false without moving, and keeps doing so until Reset.
func (p *Pool) Next() (Node, bool) {
	if p.current >= len(p.list)-1 {
		return Node{}, false
	}
	p.current++
	return p.GetCurrent()
}

// Reset reshuffles the candidate list and rewinds the cursor to the first
// element, returning the new current node. Used to start a fresh failover
// pass after the previous one exhausted the list.
func (p *Pool) Reset() (Node, bool) {
	p.shuffle()
	p.current = 0
	return p.GetCurrent()
}

// Hosts returns the candidate hosts in cursor order.
func (p *Pool) Hosts() []string {
	hosts := make([]string, len(p.list))
	for i, n := range p.list {
		hosts[i] = n.Host
	}
	return hosts
}

func (p *Pool) shuffle() {
	p.rng.Shuffle(len(p.list), func(i, j int) {
		p.list[i], p.list[j] = p.list[j], p.list[i]
	})
}
