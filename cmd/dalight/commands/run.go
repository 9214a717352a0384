package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dalight/dalight/light"
	"github.com/dalight/dalight/light/provider"
	"github.com/dalight/dalight/light/provider/ws"
	"github.com/dalight/dalight/light/sample"
)

// RunCmd starts the connection event loop and keeps it running until
// interrupted.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the full-node network and process requests",
	RunE:  runLoop,
}

func runLoop(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	confidence, normalized := config.ConfidenceOrDefault()
	if normalized {
		logger.Info("confidence out of range, using default",
			"configured", config.Confidence, "default", confidence)
	}
	logger.Info("sampling plan",
		"confidence", confidence,
		"cells_per_block", sample.CellCountForConfidence(confidence))

	pool := provider.NewPool(config.FullNodes, config.LastKnownNode)

	metrics := light.NopMetrics()
	if config.PrometheusListenAddr != "" {
		metrics = light.PrometheusMetrics("dalight")
	}

	client, loop := light.Init(
		logger.With("module", "light"),
		pool,
		ws.Dialer(logger.With("module", "ws")),
		config.ExpectedVersion(),
		light.WithMetrics(metrics),
	)

	if err := loop.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return logEvents(ctx, client)
	})

	if config.PrometheusListenAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, config.PrometheusListenAddr)
		})
	}

	g.Go(func() error {
		loop.Wait()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// logEvents mirrors the event stream into the log until ctx is done.
func logEvents(ctx context.Context, client *light.Client) error {
	sub := client.Subscribe()
	defer client.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-sub.Out():
			if !ok {
				return nil
			}
			switch e := event.(type) {
			case light.EventConnectionEstablished:
				logger.Info("connection established", "host", e.Node.Host,
					"system_version", e.Node.SystemVersion,
					"genesis_hash", e.Node.GenesisHash)
			case light.EventConnectionLost:
				logger.Error("connection lost, failing over", "host", e.Host, "err", e.Err)
			}
		}
	}
}

func serveMetrics(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: promhttp.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
