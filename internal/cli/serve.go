package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/atomspace/internal/config"
	"github.com/lazypower/atomspace/internal/engine"
	"github.com/lazypower/atomspace/internal/errors"
	"github.com/lazypower/atomspace/internal/logger"
	"github.com/lazypower/atomspace/internal/server"
	"github.com/lazypower/atomspace/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer logger.Sync()

	spaces := server.NewRegistry(engineFactory(cfg))
	defer spaces.Close()

	srv := server.New(spaces, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Infow("atomspace serving",
			"addr", addr,
			"consolidation_interval", cfg.ConsolidationInterval(),
			"consolidation_threshold", cfg.Consolidation.Threshold)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return errors.Wrap(err, "serve")
	}
	logger.Logger.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

// engineFactory builds engines configured from cfg, with the background
// consolidation timer already running when an interval is set.
func engineFactory(cfg *config.Config) server.EngineFactory {
	sim := store.WeightedSimilarity(cfg.Consolidation.TruthWeight, cfg.Consolidation.AttentionWeight)
	bridge := engine.BridgeSettings{
		MaxState:   cfg.Bridge.MaxState,
		Activation: float32(cfg.Bridge.Activation),
		Confidence: float32(cfg.Bridge.Confidence),
	}
	return func() *engine.Engine {
		e := engine.New(store.New(store.WithSimilarity(sim)), bridge)
		e.StartConsolidationTimer(cfg.ConsolidationInterval(), cfg.Consolidation.Threshold)
		return e
	}
}
