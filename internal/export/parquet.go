package export

import (
	"fmt"
	"io"
	"path"

	"github.com/plateworks/menumetrics/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// snapshotRow is the parquet projection of an AnalyticsSnapshot. Timestamps
// become unix seconds and decimal strings become doubles so the columns are
// directly queryable.
type snapshotRow struct {
	RestaurantID         string  `parquet:"name=restaurant_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	MenuItemID           string  `parquet:"name=menu_item_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemName             string  `parquet:"name=item_name,type=BYTE_ARRAY,convertedtype=UTF8"`
	PeriodStart          int64   `parquet:"name=period_start,type=INT64"`
	PeriodEnd            int64   `parquet:"name=period_end,type=INT64"`
	BCGQuadrant          string  `parquet:"name=bcg_quadrant,type=BYTE_ARRAY,convertedtype=UTF8"`
	MenuEngineeringClass string  `parquet:"name=menu_engineering_class,type=BYTE_ARRAY,convertedtype=UTF8"`
	PopularityIndex      float64 `parquet:"name=popularity_index,type=DOUBLE"`
	ProfitabilityIndex   float64 `parquet:"name=profitability_index,type=DOUBLE"`
	QuantitySold         int64   `parquet:"name=quantity_sold,type=INT64"`
	OrderCount           int64   `parquet:"name=order_count,type=INT64"`
	TotalRevenue         float64 `parquet:"name=total_revenue,type=DOUBLE"`
	Contribution         float64 `parquet:"name=contribution,type=DOUBLE"`
	GrossMarginPercent   float64 `parquet:"name=gross_margin_percent,type=DOUBLE"`
	ComputedAt           int64   `parquet:"name=computed_at,type=INT64"`
}

func toRow(s models.AnalyticsSnapshot) snapshotRow {
	return snapshotRow{
		RestaurantID:         s.RestaurantID,
		MenuItemID:           s.MenuItemID,
		ItemName:             s.ItemName,
		PeriodStart:          s.PeriodStart.Unix(),
		PeriodEnd:            s.PeriodEnd.Unix(),
		BCGQuadrant:          s.BCGQuadrant,
		MenuEngineeringClass: s.MenuEngineeringClass,
		PopularityIndex:      parseAmount(s.PopularityIndex),
		ProfitabilityIndex:   parseAmount(s.ProfitabilityIndex),
		QuantitySold:         int64(s.QuantitySold),
		OrderCount:           int64(s.OrderCount),
		TotalRevenue:         parseAmount(s.TotalRevenue),
		Contribution:         parseAmount(s.Contribution),
		GrossMarginPercent:   parseAmount(s.GrossMarginPercent),
		ComputedAt:           s.ComputedAt.Unix(),
	}
}

type ParquetExporter struct {
	factory CloudWriterFactory
	folder  string
}

func NewParquetExporter(factory CloudWriterFactory, folder string) *ParquetExporter {
	return &ParquetExporter{factory: factory, folder: folder}
}

func (e *ParquetExporter) Export(snapshots []models.AnalyticsSnapshot) error {
	for dir, rows := range groupByPartition(e.folder, snapshots) {
		if err := e.writePartition(dir, rows); err != nil {
			return err
		}
	}
	return nil
}

func (e *ParquetExporter) writePartition(dir string, rows []models.AnalyticsSnapshot) error {
	fw, err := e.openTarget(path.Join(dir, "data.parquet"))
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, new(snapshotRow), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, s := range rows {
		if err := pw.Write(toRow(s)); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write snapshot row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return fw.Close()
}

// openTarget returns a parquet file for the object path. Local destinations
// write straight to disk; everything else goes through the cloud writer
// adapter.
func (e *ParquetExporter) openTarget(objectPath string) (source.ParquetFile, error) {
	if lf, ok := e.factory.(*LocalWriterFactory); ok {
		fullPath, err := lf.prepare(objectPath)
		if err != nil {
			return nil, err
		}
		return local.NewLocalFileWriter(fullPath)
	}
	w, err := e.factory.NewWriter(objectPath)
	if err != nil {
		return nil, err
	}
	return newCloudParquetFile(w), nil
}

// cloudParquetFile adapts a CloudWriter to the source.ParquetFile interface.
// The parquet writer appends sequentially, so only forward positioning is
// tracked; reads and seek-from-end are for the read path and unsupported.
type cloudParquetFile struct {
	w      CloudWriter
	offset int64
}

func newCloudParquetFile(w CloudWriter) *cloudParquetFile {
	return &cloudParquetFile{w: w}
}

func (c *cloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *cloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *cloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported")
	}
	return c.offset, nil
}

func (c *cloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported")
}

func (c *cloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *cloudParquetFile) Close() error {
	return c.w.Close()
}
