package cmd

import (
	"context"
	"fmt"

	"github.com/plateworks/menumetrics/internal/export"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/internal/repositories/postgres"
	"github.com/plateworks/menumetrics/internal/service"
	"github.com/plateworks/menumetrics/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportRecompute bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export analytics snapshots as CSV, JSON, Parquet or an XLSX report",
	Long: `export writes the stored snapshots for the current analysis window to the
configured destination, partitioned by restaurant and date. Destinations can
be a local directory or an s3://bucket/prefix URL. Restaurants without
stored snapshots are analyzed first; --recompute forces that for all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		days := cfg.AnalysisPeriodDays
		if cmd.Flags().Changed("days") {
			days, _ = cmd.Flags().GetInt("days")
		}
		return runExport(cfg, days)
	},
}

func init() {
	exportCmd.Flags().String("format", "csv", "export format: csv, json, parquet or xlsx")
	exportCmd.Flags().String("destination", "", "local directory or s3://bucket/prefix")
	exportCmd.Flags().String("output-folder", "exports", "folder inside the destination")
	exportCmd.Flags().Int("days", 30, "analysis window in days")
	exportCmd.Flags().BoolVar(&exportRecompute, "recompute", false, "rerun the analysis before exporting")

	viper.BindPFlag("export.format", exportCmd.Flags().Lookup("format"))
	viper.BindPFlag("export.destination", exportCmd.Flags().Lookup("destination"))
	viper.BindPFlag("export.output_folder", exportCmd.Flags().Lookup("output-folder"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cfg *models.Config, days int) error {
	log := logger.New(logger.Config{
		Level:  logger.LogLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: "stderr",
	})
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	restaurants := postgres.NewRestaurantRepository(pool)
	analytics := service.NewAnalyticsService(
		postgres.NewMenuItemRepository(pool),
		postgres.NewOrderRepository(pool),
		postgres.NewEventRepository(pool),
		postgres.NewSnapshotRepository(pool),
		log,
	)

	factory, err := export.NewWriterFactory(cfg.Export)
	if err != nil {
		return fmt.Errorf("error building export writer: %w", err)
	}
	exporter, err := export.New(cfg.Export.Format, factory, cfg.Export.OutputFolder)
	if err != nil {
		return err
	}

	all, err := restaurants.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error loading restaurants: %w", err)
	}
	if len(all) == 0 {
		return fmt.Errorf("no restaurants found, run seed first")
	}

	var exported int
	for _, r := range all {
		rows, err := analytics.Snapshots(ctx, r.ID, days)
		if err != nil {
			return fmt.Errorf("error loading snapshots for %s: %w", r.SlugName, err)
		}
		if exportRecompute || len(rows) == 0 {
			if _, err := analytics.RunAnalysis(ctx, r.ID, days); err != nil {
				log.Error("analysis failed", "restaurant", r.SlugName, "error", err)
				continue
			}
			rows, err = analytics.Snapshots(ctx, r.ID, days)
			if err != nil {
				return fmt.Errorf("error loading snapshots for %s: %w", r.SlugName, err)
			}
		}
		if len(rows) == 0 {
			log.Warn("nothing to export", "restaurant", r.SlugName)
			continue
		}
		if err := exporter.Export(rows); err != nil {
			return fmt.Errorf("error exporting %s: %w", r.SlugName, err)
		}
		exported += len(rows)
		log.Info("exported restaurant", "slug", r.SlugName, "rows", len(rows))
	}

	destination := cfg.Export.Destination
	if destination == "" {
		destination = "."
	}
	fmt.Printf("Exported %d snapshot rows as %s to %s/%s\n",
		exported, cfg.Export.Format, destination, cfg.Export.OutputFolder)
	return nil
}
