package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/plateworks/menumetrics/internal/factories"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/internal/repositories/postgres"
	"github.com/plateworks/menumetrics/internal/service"
	"github.com/plateworks/menumetrics/pkg/logger"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var seedFresh bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with demo restaurants, sales history and tracking events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return runSeed(cfg)
	},
}

func init() {
	seedCmd.Flags().Int("restaurants", 3, "number of demo restaurants")
	seedCmd.Flags().Int("days", 30, "days of history to generate")
	seedCmd.Flags().Int("orders-per-day", 120, "average orders per restaurant per day")
	seedCmd.Flags().Int("sessions-per-day", 400, "average browsing sessions per restaurant per day")
	seedCmd.Flags().String("menu-file", "", "CSV catalogue to build menus from instead of the builtin templates")
	seedCmd.Flags().Int64("seed", 42, "random seed, 0 picks one from the clock")
	seedCmd.Flags().BoolVar(&seedFresh, "fresh", false, "truncate existing data before seeding")

	viper.BindPFlag("seed.restaurants", seedCmd.Flags().Lookup("restaurants"))
	viper.BindPFlag("seed.days", seedCmd.Flags().Lookup("days"))
	viper.BindPFlag("seed.orders_per_day", seedCmd.Flags().Lookup("orders-per-day"))
	viper.BindPFlag("seed.sessions_per_day", seedCmd.Flags().Lookup("sessions-per-day"))
	viper.BindPFlag("seed.menu_file", seedCmd.Flags().Lookup("menu-file"))
	viper.BindPFlag("seed.seed", seedCmd.Flags().Lookup("seed"))

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cfg *models.Config) error {
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
	items := postgres.NewMenuItemRepository(pool)
	orders := postgres.NewOrderRepository(pool)
	events := postgres.NewEventRepository(pool)
	snapshots := postgres.NewSnapshotRepository(pool)

	if seedFresh {
		log.Info("clearing existing data")
		for _, wipe := range []func(context.Context) error{
			events.DeleteAll, orders.DeleteAll, items.DeleteAll, snapshots.DeleteAll, restaurants.DeleteAll,
		} {
			if err := wipe(ctx); err != nil {
				return fmt.Errorf("error clearing tables: %w", err)
			}
		}
	}

	var catalogue []models.CatalogueItem
	if cfg.Seed.MenuFile != "" {
		catalogue, err = models.LoadMenuCatalogue(cfg.Seed.MenuFile)
		if err != nil {
			return fmt.Errorf("error reading menu catalogue: %w", err)
		}
		log.Info("using menu catalogue", "file", cfg.Seed.MenuFile, "items", len(catalogue))
	}

	seed := cfg.Seed.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	restaurantFactory := factories.NewRestaurantFactory(rng)
	menuFactory := factories.NewMenuFactory(rng)
	salesFactory := factories.NewSalesFactory(rng)
	eventFactory := factories.NewEventFactory(rng)

	analytics := service.NewAnalyticsService(items, orders, events, snapshots, log)

	bar := progressbar.Default(int64(cfg.Seed.Restaurants), "seeding restaurants")
	var totalItems, totalLines, totalEvents int

	for i := 0; i < cfg.Seed.Restaurants; i++ {
		restaurant := restaurantFactory.CreateRestaurant()
		if err := restaurants.Create(ctx, restaurant); err != nil {
			return fmt.Errorf("error creating restaurant: %w", err)
		}

		var categories []models.Category
		var menu []models.MenuItem
		if len(catalogue) > 0 {
			categories, menu = menuFactory.FromCatalogue(restaurant, catalogue)
		} else {
			categories, menu = menuFactory.CreateMenu(restaurant)
		}
		if err := items.BulkCreateCategories(ctx, categories); err != nil {
			return fmt.Errorf("error creating categories: %w", err)
		}
		if err := items.BulkCreate(ctx, menu); err != nil {
			return fmt.Errorf("error creating menu items: %w", err)
		}

		lines := salesFactory.GenerateOrderLines(restaurant.ID, menu, cfg.Seed.Days, cfg.Seed.OrdersPerDay)
		if err := orders.BulkCreateLines(ctx, lines); err != nil {
			return fmt.Errorf("error creating order lines: %w", err)
		}

		sessions := eventFactory.GenerateSessions(restaurant.ID, menu, cfg.Seed.Days, cfg.Seed.SessionsPerDay)
		if err := events.InsertEvents(ctx, sessions); err != nil {
			return fmt.Errorf("error creating events: %w", err)
		}

		totalItems += len(menu)
		totalLines += len(lines)
		totalEvents += len(sessions)

		// Run the first classification now so the API serves data immediately.
		result, err := analytics.RunAnalysis(ctx, restaurant.ID, cfg.Seed.Days)
		if err != nil {
			log.Warn("initial analysis failed", "restaurant", restaurant.SlugName, "error", err)
		} else {
			summary := result.Summary
			log.Info("seeded restaurant",
				"slug", restaurant.SlugName,
				"cuisine", restaurant.Cuisine,
				"items", len(menu),
				"stars", summary.Stars,
				"cash_cows", summary.CashCows,
				"question_marks", summary.QuestionMarks,
				"dogs", summary.Dogs)
		}
		bar.Add(1)
	}

	fmt.Printf("\nSeeded %d restaurants: %d menu items, %d order lines, %d events (seed %d)\n",
		cfg.Seed.Restaurants, totalItems, totalLines, totalEvents, seed)
	return nil
}
