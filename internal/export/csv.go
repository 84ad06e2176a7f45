package export

import (
	"encoding/csv"
	"fmt"
	"path"
	"time"

	"github.com/plateworks/menumetrics/internal/models"
)

var csvHeader = []string{
	"restaurant_id", "menu_item_id", "item_name", "period_start", "period_end",
	"bcg_quadrant", "menu_engineering_class", "popularity_index",
	"profitability_index", "quantity_sold", "order_count", "total_revenue",
	"contribution", "gross_margin_percent", "computed_at",
}

type CSVExporter struct {
	factory CloudWriterFactory
	folder  string
}

func NewCSVExporter(factory CloudWriterFactory, folder string) *CSVExporter {
	return &CSVExporter{factory: factory, folder: folder}
}

func (e *CSVExporter) Export(snapshots []models.AnalyticsSnapshot) error {
	for dir, rows := range groupByPartition(e.folder, snapshots) {
		if err := e.writePartition(dir, rows); err != nil {
			return err
		}
	}
	return nil
}

func (e *CSVExporter) writePartition(dir string, rows []models.AnalyticsSnapshot) error {
	w, err := e.factory.NewWriter(path.Join(dir, "data.csv"))
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(csvHeader); err != nil {
		w.Close()
		return err
	}
	for _, s := range rows {
		record := []string{
			s.RestaurantID,
			s.MenuItemID,
			s.ItemName,
			s.PeriodStart.Format(time.RFC3339),
			s.PeriodEnd.Format(time.RFC3339),
			s.BCGQuadrant,
			s.MenuEngineeringClass,
			s.PopularityIndex,
			s.ProfitabilityIndex,
			fmt.Sprintf("%d", s.QuantitySold),
			fmt.Sprintf("%d", s.OrderCount),
			s.TotalRevenue,
			s.Contribution,
			s.GrossMarginPercent,
			s.ComputedAt.Format(time.RFC3339),
		}
		if err := csvWriter.Write(record); err != nil {
			w.Close()
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
