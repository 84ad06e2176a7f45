// Package export writes analytics snapshots out for BI pipelines. Flat
// formats (csv, json, parquet) land under hive-style partition paths so
// downstream engines can prune by restaurant and date; xlsx produces an
// owner-facing report instead.
package export

import (
	"fmt"
	"path"

	"github.com/plateworks/menumetrics/internal/models"
	"github.com/shopspring/decimal"
)

type Exporter interface {
	Export(snapshots []models.AnalyticsSnapshot) error
}

// New picks the exporter for the configured format.
func New(format string, factory CloudWriterFactory, folder string) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSVExporter(factory, folder), nil
	case "json":
		return NewJSONExporter(factory, folder), nil
	case "parquet":
		return NewParquetExporter(factory, folder), nil
	case "xlsx":
		return NewXLSXReport(factory, folder), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// partitionDir builds the hive-style partition directory for one snapshot,
// keyed on the restaurant and the day the analysis ran.
func partitionDir(folder string, s models.AnalyticsSnapshot) string {
	year, month, day := s.ComputedAt.Date()
	return path.Join(folder,
		fmt.Sprintf("restaurant=%s", s.RestaurantID),
		fmt.Sprintf("year=%d", year),
		fmt.Sprintf("month=%02d", int(month)),
		fmt.Sprintf("day=%02d", day),
	)
}

func groupByPartition(folder string, snapshots []models.AnalyticsSnapshot) map[string][]models.AnalyticsSnapshot {
	groups := make(map[string][]models.AnalyticsSnapshot)
	for _, s := range snapshots {
		dir := partitionDir(folder, s)
		groups[dir] = append(groups[dir], s)
	}
	return groups
}

// parseAmount converts a stored decimal string back to a float for formats
// that carry numeric columns. Unparseable values degrade to 0.
func parseAmount(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
