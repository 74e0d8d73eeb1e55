// Command bin-server is the collector the bin-sensor device reports to: it
// receives telemetry, owns the remote buzzer mute flag, runs the mock waste
// classifier and serves the dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/bin-sensor/internal/collector"
	"github.com/sweeney/bin-sensor/internal/config"
	"github.com/sweeney/bin-sensor/internal/logging"
)

func main() {
	config.Load()

	httpAddr := flag.String("http", config.Getenv(config.EnvCollectorAddr, ":5000"), "Listen address")
	historyCap := flag.Int("history", 50, "Telemetry history ring capacity")
	debug := flag.Bool("debug", config.GetenvBool(config.EnvDebug, false), "Enable per-request debug logging")
	flag.Parse()

	log, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*httpAddr, *historyCap, log); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(httpAddr string, historyCap int, log *zap.SugaredLogger) error {
	store := collector.NewStore(historyCap)
	classifier := collector.NewClassifier(store, log,
		rand.New(rand.NewSource(time.Now().UnixNano())))
	classifier.Start()
	defer classifier.Stop()

	srv := collector.New(httpAddr, store, classifier, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Infow("collector listening", "addr", httpAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case s := <-sig:
		log.Infow("shutting down", "signal", s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
