package cmd

import (
	"context"
	"fmt"

	"github.com/plateworks/menumetrics/internal/engine"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/internal/repositories/postgres"
	"github.com/plateworks/menumetrics/internal/service"
	"github.com/plateworks/menumetrics/pkg/logger"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [restaurant]",
	Short: "Classify menus and print a quadrant report",
	Long: `analyze runs the BCG classification for one restaurant, matched by id or
slug, or for every restaurant when none is given. Snapshots are persisted
and the report is printed to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		days := cfg.AnalysisPeriodDays
		if cmd.Flags().Changed("days") {
			days, _ = cmd.Flags().GetInt("days")
		}
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return runAnalyze(cfg, target, days)
	},
}

func init() {
	analyzeCmd.Flags().Int("days", 30, "analysis window in days")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cfg *models.Config, target string, days int) error {
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

	all, err := restaurants.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error loading restaurants: %w", err)
	}

	var selected []models.Restaurant
	for _, r := range all {
		if target == "" || r.ID == target || r.SlugName == target {
			selected = append(selected, r)
		}
	}
	if len(selected) == 0 {
		if target == "" {
			return fmt.Errorf("no restaurants found, run seed first")
		}
		return fmt.Errorf("no restaurant matches %q", target)
	}

	for _, r := range selected {
		result, err := analytics.RunAnalysis(ctx, r.ID, days)
		if err != nil {
			log.Error("analysis failed", "restaurant", r.SlugName, "error", err)
			continue
		}
		printReport(r, result.Summary)
	}
	return nil
}

func printReport(r models.Restaurant, summary models.AnalyticsSummary) {
	fmt.Printf("\n%s (%s)\n", r.Name, r.SlugName)
	fmt.Printf("Period %s to %s\n",
		summary.PeriodStart.Format("2006-01-02"), summary.PeriodEnd.Format("2006-01-02"))
	fmt.Printf("Revenue %.2f across %d items, %d with sales, average margin %.1f%%\n\n",
		summary.TotalRevenue, summary.TotalItems, summary.ItemsWithSales, summary.AvgMarginPercent)

	fmt.Printf("%-16s %-32s %9s %9s %6s %12s\n", "CLASS", "ITEM", "POP", "PROFIT", "QTY", "REVENUE")
	for _, res := range summary.Results {
		fmt.Printf("%-16s %-32s %9.1f %9.1f %6d %12.2f\n",
			res.MenuEngineeringClass,
			truncate(res.ItemName, 32),
			res.PopularityIndex,
			res.ProfitabilityIndex,
			res.QuantitySold,
			res.TotalRevenue)
	}

	fmt.Printf("\nStars %d, cash cows %d, question marks %d, dogs %d\n",
		summary.Stars, summary.CashCows, summary.QuestionMarks, summary.Dogs)

	recommendations := engine.Recommend(summary)
	if len(recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range recommendations {
			fmt.Printf("  [%s] %s %s: %s\n", rec.Priority, rec.Type, rec.ItemName, rec.Message)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
