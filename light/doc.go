/*
Package light implements the network-access core of the light client.

A Client/EventLoop pair is created with Init. The EventLoop is a
long-lived service owning the single live connection to the currently
selected full node and all failover state; Client handles issue requests
over a bounded command queue and any number of listeners observe
connection lifecycle events through Subscribe.

	pool := provider.NewPool(hosts, lastKnownNode)
	client, loop := light.Init(logger, pool, ws.Dialer(), expected)
	if err := loop.Start(ctx); err != nil { ... }

	sub := client.Subscribe()
	hash, err := client.BlockHash(ctx, height)

How many cells of a block to request, and which, is computed by the
sample package.
*/
package light
