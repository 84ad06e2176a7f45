package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/plateworks/menumetrics/internal/batch"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/internal/repositories/postgres"
	"github.com/plateworks/menumetrics/internal/server"
	"github.com/plateworks/menumetrics/internal/service"
	"github.com/plateworks/menumetrics/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the menu analytics HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return runServer(cfg)
	},
}

func init() {
	serveCmd.Flags().String("http-addr", ":8084", "listen address for the HTTP API")
	serveCmd.Flags().Bool("kafka-enabled", false, "mirror ingested events to Kafka")
	serveCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")

	viper.BindPFlag("http_addr", serveCmd.Flags().Lookup("http-addr"))
	viper.BindPFlag("kafka.enabled", serveCmd.Flags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka.broker_list", serveCmd.Flags().Lookup("kafka-broker-list"))

	rootCmd.AddCommand(serveCmd)
}

func runServer(cfg *models.Config) error {
	log := logger.New(logger.Config{
		Level:  logger.LogLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: "stdout",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}
	log.Info("database ready", "conn", cfg.Database.Redacted())

	items := postgres.NewMenuItemRepository(pool)
	orders := postgres.NewOrderRepository(pool)
	events := postgres.NewEventRepository(pool)
	snapshots := postgres.NewSnapshotRepository(pool)

	analytics := service.NewAnalyticsService(items, orders, events, snapshots, log)
	strategies := service.NewStrategyService(items, analytics, log)

	sink := batch.Sink(batch.NewStoreSink(events))
	if cfg.Kafka.Enabled {
		kafkaSink, err := batch.NewKafkaSink(cfg.Kafka.BrokerList, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("error connecting to kafka: %w", err)
		}
		sink = batch.MultiSink{sink, kafkaSink}
		log.Info("kafka sink enabled", "topic", cfg.Kafka.Topic)
	}

	batcher := batch.NewBatcher(sink, cfg.Batch.FlushInterval, cfg.Batch.MaxBatch, log)
	go batcher.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.NewRouter(cfg, analytics, strategies, batcher, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	if err := batcher.Close(shutdownCtx); err != nil {
		log.Error("event batcher drain failed", "error", err)
	}
	return nil
}
