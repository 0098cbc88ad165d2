// Command cityrund is the headless runtime host: it wires together
// savegame persistence, the peer synchronizer and metrics export, then
// drives the turn loop until SIGINT (spec.md §6 "Process CLI"). A
// concrete game defines its own actor/message types against the
// internal/actor API and links them in from a fork of this entry point;
// cityrund itself registers none, making it a runnable reference host
// rather than a specific simulation.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/citybound/citybound-sub004/internal/actor"
	"github.com/citybound/citybound-sub004/internal/cberrors"
	"github.com/citybound/citybound-sub004/internal/chunked"
	"github.com/citybound/citybound-sub004/internal/config"
	"github.com/citybound/citybound-sub004/internal/metrics"
	"github.com/citybound/citybound-sub004/internal/netsync"
)

func main() {
	cmd := rootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cityrund: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfg config.Config
	var peers []string

	cmd := &cobra.Command{
		Use:   "cityrund",
		Short: "Headless host for the citybound actor runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Peers = peers
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	var machineIndex uint8
	flags.Uint8Var(&machineIndex, "machine-index", 0, "this machine's index into --peer")
	flags.StringArrayVar(&peers, "peer", nil, "peer address, one flag per peer, ordered by machine index (repeatable)")
	flags.StringVar(&cfg.SavegameDir, "savegame-dir", "", "directory to persist the actor system's chunked storage under")
	flags.IntVar(&cfg.BatchMsgBytes, "batch-msg-bytes", 64*1024, "outgoing frame batch size per peer connection")
	flags.Uint64Var(&cfg.OkTurnDist, "ok-turn-dist", 5, "turns this machine may run ahead of its slowest peer before skipping")
	flags.Float64Var(&cfg.SkipRatio, "skip-ratio", 2.0, "skip-count multiplier applied once ok-turn-dist is exceeded")
	flags.Float64Var(&cfg.TargetFPS, "target-fps", 30, "target turns per second")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", ":9090", "address to serve /metrics on")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		cfg.MachineIndex = machineIndex
		return nil
	}

	return cmd
}

func run(cfg config.Config) error {
	logger := log.NewNoOpLogger()
	defer cberrors.RecoverHandlerPanic(logger)
	runID := uuid.New()
	logger.Info(fmt.Sprintf("starting cityrund run %s as machine %d", runID, cfg.MachineIndex))

	if err := os.MkdirAll(cfg.SavegameDir, 0o755); err != nil {
		return fmt.Errorf("cityrund: create savegame dir: %w", err)
	}
	matched, onDisk, err := chunked.CheckVersionFile(cfg.SavegameDir)
	if err != nil {
		return fmt.Errorf("cityrund: check savegame version: %w", err)
	}
	if !matched {
		logger.Warn(fmt.Sprintf("savegame format version %d does not match current version %d; continuing anyway", onDisk, chunked.CurrentFormatVersion))
	}
	if err := chunked.WriteVersionFile(cfg.SavegameDir); err != nil {
		return fmt.Errorf("cityrund: write savegame version: %w", err)
	}

	backend, err := chunked.NewMmapBackend(cfg.SavegameDir)
	if err != nil {
		return fmt.Errorf("cityrund: open savegame backend: %w", err)
	}

	sys := actor.NewSystem(backend, cfg.MachineIndex)
	world := actor.NewWorld(sys)

	net := netsync.NewNetworking(cfg.MachineIndex, cfg.Peers, cfg.BatchMsgBytes)
	if len(cfg.Peers) > 1 {
		if err := net.Connect(); err != nil {
			cberrors.Fatal(logger, "peer connect", err)
		}
	}
	sys.AttachNetworking(net)
	sync := netsync.NewSynchronizer(net, cfg.OkTurnDist, cfg.SkipRatio)

	registry := prometheus.NewRegistry()
	runtimeMetrics := metrics.NewRuntime(registry)
	serveMetrics(cfg.MetricsAddr, registry, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	var stopping atomic.Bool
	go func() {
		<-sigCh
		stopping.Store(true)
	}()

	frameInterval := time.Duration(cfg.FrameInterval() * float64(time.Second))
	skipTurns := 0
	for !stopping.Load() {
		turnStart := time.Now()

		if err := sys.ProcessAllMessages(world); err != nil {
			cberrors.Fatal(logger, "process messages", err)
		}
		if skipTurns > 0 {
			skipTurns--
		}

		if err := sync.NetworkingSendAndReceive(func(peer uint8, frame netsync.Frame) error {
			return sys.DeliverFrame(frame.MessageType, frame.Payload)
		}); err != nil {
			cberrors.Fatal(logger, "network poll", err)
		}

		nextSkip, err := sync.NetworkingFinishTurn()
		if err != nil {
			cberrors.Fatal(logger, "finish turn", err)
		}
		if nextSkip > skipTurns {
			skipTurns = nextSkip
		}

		runtimeMetrics.TurnDuration.Observe(time.Since(turnStart).Seconds())

		if elapsed := time.Since(turnStart); elapsed < frameInterval {
			time.Sleep(frameInterval - elapsed)
		}
	}

	logger.Info("received SIGINT, exiting after final turn")
	return nil
}

func serveMetrics(addr string, registry *prometheus.Registry, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn(fmt.Sprintf("metrics server stopped: %v", err))
		}
	}()
}
