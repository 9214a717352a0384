package light

import (
	"context"
	"errors"
	"time"

	"github.com/dalight/dalight/libs/log"
	"github.com/dalight/dalight/libs/service"
	"github.com/dalight/dalight/light/provider"
)

const (
	// commandQueueSize bounds the command queue between Client handles and
	// the event loop. Enqueueing blocks once it is full.
	commandQueueSize = 1000

	// eventBufferSize is each subscriber's event buffer. A subscriber that
	// falls further behind loses its oldest unread events.
	eventBufferSize = 1000

	// defaultPassDelay is the pause between failover passes, so an
	// entirely unreachable candidate set is not hammered in a tight loop.
	defaultPassDelay = 5 * time.Second
)

var (
	// ErrEmptyPool is returned when the event loop is started with no
	// candidate nodes. This is a configuration error, not a runtime
	// condition the loop recovers from.
	ErrEmptyPool = errors.New("node pool is empty")

	// ErrConnStopped is returned when the loop is stopped while still
	// trying to establish a connection.
	ErrConnStopped = errors.New("event loop stopped")
)

// EventLoop owns the single live connection to the currently selected
// full node, and is the only goroutine that mutates the candidate pool.
// It consumes commands from Client handles, executes them against the
// connection, fails over through the pool when the connection is lost,
// and publishes Events to the bus.
type EventLoop struct {
	*service.BaseService
	logger log.Logger

	pool     *provider.Pool
	dial     provider.Dialer
	expected provider.ExpectedVersion

	cmds <-chan command
	bus  *EventBus

	metrics   *Metrics
	passDelay time.Duration

	// owned by the run goroutine after OnStart
	conn provider.FullNode
	node provider.Node

	stopCh chan struct{}
}

// Option sets a parameter for the event loop.
type Option func(*EventLoop)

// WithMetrics sets the metrics sink. Defaults to NopMetrics.
func WithMetrics(m *Metrics) Option {
	return func(el *EventLoop) { el.metrics = m }
}

// WithPassDelay sets the pause between failover passes.
func WithPassDelay(d time.Duration) Option {
	return func(el *EventLoop) { el.passDelay = d }
}

// Init wires a Client/EventLoop pair around a bounded command queue and a
// broadcast event bus. The pool must not be empty. The loop does nothing
// until started.
func Init(
	logger log.Logger,
	pool *provider.Pool,
	dial provider.Dialer,
	expected provider.ExpectedVersion,
	opts ...Option,
) (*Client, *EventLoop) {
	cmds := make(chan command, commandQueueSize)
	bus := newEventBus()

	el := &EventLoop{
		logger:    logger,
		pool:      pool,
		dial:      dial,
		expected:  expected,
		cmds:      cmds,
		bus:       bus,
		metrics:   NopMetrics(),
		passDelay: defaultPassDelay,
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(el)
	}
	el.BaseService = service.NewBaseService(logger, "EventLoop", el)

	return newClient(cmds, bus), el
}

// OnStart connects to the first reachable, version-compatible candidate
// and launches the command-processing loop. It blocks until a connection
// is established or ctx is canceled.
func (el *EventLoop) OnStart(ctx context.Context) error {
	if el.pool.Len() == 0 {
		return ErrEmptyPool
	}

	if err := el.connect(ctx); err != nil {
		return err
	}

	go el.run(ctx)
	return nil
}

// OnStop makes the run goroutine tear down the connection and exit.
func (el *EventLoop) OnStop() {
	close(el.stopCh)
}

func (el *EventLoop) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			el.teardown()
			return

		case <-el.stopCh:
			el.teardown()
			return

		case err := <-el.conn.Quit():
			el.logger.Error("connection lost", "host", el.node.Host, "err", err)
			el.metrics.Connected.Set(0)
			el.publish(EventConnectionLost{Host: el.node.Host, Err: err})
			el.conn.Close()

			// do not retry the node that just failed
			if _, ok := el.pool.Next(); !ok {
				el.startFreshPass()
			}
			if err := el.connect(ctx); err != nil {
				el.teardown()
				return
			}

		case cmd := <-el.cmds:
			el.handle(ctx, cmd)
			el.metrics.CommandsProcessed.Add(1)
		}
	}
}

// connect walks the pool from the current cursor until a dial and
// handshake succeed, resetting for a fresh shuffled pass whenever the
// list is exhausted. It returns only on success or context cancellation:
// the loop provides the retry mechanism, a giving-up policy is the
// caller's to impose via ctx.
func (el *EventLoop) connect(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		node, ok := el.pool.GetCurrent()
		if !ok {
			return ErrEmptyPool
		}

		populated, err := el.tryConnect(ctx, node)
		if err == nil {
			el.node = populated
			el.metrics.Connected.Set(1)
			el.logger.Info("connected to node", "network", populated.Network(el.expected))
			el.publish(EventConnectionEstablished{Node: populated})
			return nil
		}

		el.logger.Error("failed to connect to node", "host", node.Host, "err", err)
		el.metrics.Failovers.Add(1)

		if _, ok := el.pool.Next(); !ok {
			el.startFreshPass()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-el.stopCh:
				return ErrConnStopped
			case <-time.After(el.passDelay):
			}
		}
	}
}

// tryConnect dials the node and performs the handshake: fetch the node's
// identity, reject it on a version mismatch, and populate the Node from
// the reported values. On any error the connection is closed.
func (el *EventLoop) tryConnect(ctx context.Context, node provider.Node) (provider.Node, error) {
	conn, err := el.dial(ctx, node.Host)
	if err != nil {
		return provider.Node{}, err
	}

	populated, err := el.handshake(ctx, conn, node)
	if err != nil {
		conn.Close()
		return provider.Node{}, err
	}

	el.conn = conn
	return populated, nil
}

func (el *EventLoop) handshake(ctx context.Context, conn provider.FullNode, node provider.Node) (provider.Node, error) {
	systemVersion, err := conn.SystemVersion(ctx)
	if err != nil {
		return provider.Node{}, err
	}

	runtimeVersion, err := conn.RuntimeVersion(ctx)
	if err != nil {
		return provider.Node{}, err
	}

	if !el.expected.Matches(systemVersion, runtimeVersion.SpecName) {
		return provider.Node{}, provider.ErrVersionMismatch{
			Expected: el.expected,
			Version:  systemVersion,
			SpecName: runtimeVersion.SpecName,
		}
	}

	genesisHash, err := conn.GenesisHash(ctx)
	if err != nil {
		return provider.Node{}, err
	}

	node.SystemVersion = systemVersion
	node.SpecVersion = runtimeVersion.SpecVersion
	node.GenesisHash = genesisHash
	return node, nil
}

func (el *EventLoop) startFreshPass() {
	el.metrics.PassResets.Add(1)
	el.pool.Reset()
	el.logger.Info("candidate list exhausted, starting fresh pass", "hosts", el.pool.Hosts())
}

func (el *EventLoop) handle(ctx context.Context, cmd command) {
	switch c := cmd.(type) {
	case cmdSystemVersion:
		v, err := el.conn.SystemVersion(ctx)
		c.resp <- stringResult{value: v, err: err}
	case cmdRuntimeVersion:
		v, err := el.conn.RuntimeVersion(ctx)
		c.resp <- runtimeVersionResult{value: v, err: err}
	case cmdGenesisHash:
		// recorded during the handshake, no round trip needed
		c.resp <- hashResult{value: el.node.GenesisHash}
	case cmdCurrentNode:
		c.resp <- nodeResult{value: el.node}
	case cmdBlockHash:
		v, err := el.conn.BlockHash(ctx, c.height)
		c.resp <- hashResult{value: v, err: err}
	case cmdHeaderByHash:
		v, err := el.conn.HeaderByHash(ctx, c.hash)
		c.resp <- headerResult{value: v, err: err}
	case cmdCells:
		v, err := el.conn.Cells(ctx, c.block, c.positions)
		c.resp <- cellsResult{value: v, err: err}
	default:
		el.logger.Error("unknown command", "cmd", cmd)
	}
}

func (el *EventLoop) publish(event Event) {
	dropped := el.bus.Publish(event)
	el.metrics.EventsPublished.Add(1)
	if dropped > 0 {
		el.metrics.EventsDropped.Add(float64(dropped))
	}
}

func (el *EventLoop) teardown() {
	if el.conn != nil {
		el.conn.Close()
		el.conn = nil
	}
	el.metrics.Connected.Set(0)
}
