package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "github.com/kubev2v/parallel-queue/api/v1"
	"github.com/kubev2v/parallel-queue/internal/config"
	"github.com/kubev2v/parallel-queue/internal/handlers"
	"github.com/kubev2v/parallel-queue/internal/server"
	"github.com/kubev2v/parallel-queue/internal/services"
	"github.com/kubev2v/parallel-queue/pkg/metrics"
	"github.com/kubev2v/parallel-queue/pkg/pq"
)

const (
	envPrefix       = "PQ"
	shutdownTimeout = 10 * time.Second
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"mode":             "server.mode",
	"http-port":        "server.http-port",
	"log-format":       "log-format",
	"log-level":        "log-level",
	"demo":             "demo.enabled",
	"demo-queue":       "demo.queue",
	"interrupts":       "interrupts.enabled",
	"interrupts-queue": "interrupts.queue",
	"interrupts-rate":  "interrupts.rate",
}

func NewRunCommand() *cobra.Command {
	var configFile string
	defaults := config.NewConfigurationWithOptionsAndDefaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the parallel queues and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd, configFile)
			if err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			undo := zap.ReplaceGlobals(logger)
			defer undo()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "Path to a configuration file (yaml, json or toml)")
	flags.String("mode", defaults.Server.ServerMode, "Server mode: dev or prod")
	flags.Int("http-port", defaults.Server.HTTPPort, "HTTP server listen port")
	flags.String("log-format", defaults.LogFormat, "Log format: console or json")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	flags.Bool("demo", defaults.Demo.Enabled, "Run the demo scenario")
	flags.String("demo-queue", defaults.Demo.Queue, "Name of the demo queue")
	flags.Bool("interrupts", defaults.Interrupts.Enabled, "Post events from a simulated interrupt")
	flags.String("interrupts-queue", defaults.Interrupts.Queue, "Queue receiving simulated interrupts")
	flags.Float64("interrupts-rate", defaults.Interrupts.Rate, "Simulated interrupts per second")

	return cmd
}

func newViper(cmd *cobra.Command, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}
	return v, nil
}

func run(ctx context.Context, cfg *config.Configuration) error {
	log := zap.S().Named("main")
	log.Infow("configuration loaded", "config", cfg.DebugMap())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := metrics.New(registry)
	if err != nil {
		return err
	}

	queueSrv := services.NewQueueService(pq.WithObserver(observer))
	queueSrv.OnRegister(observer.Track)
	defer queueSrv.Close()

	for _, qc := range cfg.Queues {
		if _, err := queueSrv.Create(qc); err != nil {
			return err
		}
	}
	if err := queueSrv.StartAll(); err != nil {
		return fmt.Errorf("failed to start queues: %w", err)
	}

	var demo *services.Demo
	if cfg.Demo.Enabled {
		demo = services.NewDemo(queueSrv, cfg.Demo)
		if _, err := demo.Setup(); err != nil {
			return fmt.Errorf("failed to set up demo: %w", err)
		}
	}

	var interrupts *services.InterruptSimulator
	if cfg.Interrupts.Enabled {
		h, err := queueSrv.Get(cfg.Interrupts.Queue)
		if err != nil {
			return fmt.Errorf("interrupt target: %w", err)
		}
		interrupts = services.NewInterruptSimulator(h, cfg.Interrupts.Rate, cfg.Interrupts.Burst, nil)
	}

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, handlers.New(queueSrv))
	}, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	if demo != nil {
		g.Go(func() error {
			return demo.Run(gctx)
		})
	}
	if interrupts != nil {
		g.Go(func() error {
			return interrupts.Run(gctx)
		})
	}

	err = g.Wait()
	log.Infow("shutting down", "queues", len(queueSrv.List()))
	return err
}
