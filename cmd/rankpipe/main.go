// Package main is a demo daemon for the ranking engine. It assembles the
// client feed pipeline, runs it on an interval, and exposes Prometheus
// metrics so the engine's observability can be inspected end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnwee/rankpipe/config"
	"github.com/onnwee/rankpipe/feeds"
	"github.com/onnwee/rankpipe/pipeline"
	"github.com/onnwee/rankpipe/ranking"
	"github.com/onnwee/rankpipe/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", ":9090", "metrics listen address")
	interval := flag.Duration("interval", 15*time.Second, "ranking run interval")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Rankpipe Demo Daemon")
		fmt.Println()
		fmt.Println("Usage: rankpipe [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			logger.Error("configuration error", "error", err)
		}
		os.Exit(1)
	}

	provider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  cfg.Tracing.ServiceName,
		Enabled:      cfg.Tracing.Enabled,
		Environment:  cfg.Env,
		ExporterType: cfg.Tracing.ExporterType,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SamplingRate: cfg.Tracing.SamplingRate,
		InsecureMode: cfg.Tracing.Insecure,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	scoring, err := ranking.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		logger.Warn("calibration fell back to defaults", "error", err)
	}

	reg := prometheus.NewRegistry()
	metrics := pipeline.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	p, err := pipeline.New(pipeline.Config[*feeds.Notification]{
		Sources: []pipeline.Source[*feeds.Notification]{
			feeds.NewActionRequiredSource(demoNotifications()),
			feeds.NewTrafficAlertsSource(demoNotifications()),
			feeds.NewReportsSource(demoNotifications()),
		},
		Hydrators: []pipeline.Hydrator[*feeds.Notification]{
			feeds.NewPreferencesHydrator(nil),
			feeds.NewEngagementHydrator(nil),
		},
		Filters: []pipeline.Filter[*feeds.Notification]{
			feeds.UnviewedFilter{},
			feeds.DismissRateFilter{Threshold: feeds.DefaultDismissThreshold},
		},
		Scorers: []pipeline.Scorer[*feeds.Notification]{
			feeds.NewFeedScorer(scoring),
			feeds.ActionBooster{Factor: feeds.DefaultActionBoost},
		},
		Selectors: []pipeline.Selector[*feeds.Notification]{
			feeds.BalancedSelector{MaxPerKind: feeds.DefaultMaxPerKind},
			pipeline.TopNSelector[*feeds.Notification]{},
		},
		Workers:     cfg.Workers,
		SourceLimit: cfg.SourceLimit,
		FailClosed:  !cfg.FailOpen,
		Logger:      logger,
		Observers: []pipeline.Observer{
			pipeline.NewSlogObserver(logger),
			pipeline.NewMetricsObserver(metrics),
		},
	})
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})

	server := &http.Server{
		Addr:         *addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", "addr", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
			os.Exit(1)
		}
	}()

	runCtx, cancelRuns := context.WithCancel(context.Background())
	defer cancelRuns()

	go func() {
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		for {
			runOnce(runCtx, p, logger)
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	cancelRuns()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := provider.Shutdown(ctx); err != nil {
		logger.Error("tracing shutdown failed", "error", err)
	}

	logger.Info("stopped")
}

func runOnce(ctx context.Context, p *pipeline.Pipeline[*feeds.Notification], logger *slog.Logger) {
	rc := &pipeline.RunContext{UserID: "client_demo"}
	feed, err := p.Run(ctx, rc, 5)
	if err != nil {
		logger.Error("ranking run failed", "error", err)
		return
	}
	for i, c := range feed {
		logger.Info("ranked item",
			"rank", i+1,
			"title", c.Payload.Title,
			"score", c.Score,
			"source", c.Origin)
	}
}

// demoNotifications fabricates a small notification set so each run has
// fresh timestamps to rank.
func demoNotifications() []*feeds.Notification {
	return []*feeds.Notification{
		feeds.NewNotification(feeds.KindActionRequired, "Approval needed", "Content plan awaits sign-off", feeds.PriorityCritical),
		feeds.NewNotification(feeds.KindTrafficSpike, "Traffic up 30%", "Organic traffic spiked this week", feeds.PriorityHigh),
		feeds.NewNotification(feeds.KindTrafficDrop, "Traffic down 8%", "Services page traffic dipped", feeds.PriorityNormal),
		feeds.NewNotification(feeds.KindReportReady, "Monthly report", "The SEO report is ready", feeds.PriorityNormal),
	}
}
