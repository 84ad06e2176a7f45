package export

import (
	"encoding/json"
	"path"

	"github.com/plateworks/menumetrics/internal/models"
)

// JSONExporter writes one JSON object per line, the shape most ingestion
// tools expect for newline-delimited JSON.
type JSONExporter struct {
	factory CloudWriterFactory
	folder  string
}

func NewJSONExporter(factory CloudWriterFactory, folder string) *JSONExporter {
	return &JSONExporter{factory: factory, folder: folder}
}

func (e *JSONExporter) Export(snapshots []models.AnalyticsSnapshot) error {
	for dir, rows := range groupByPartition(e.folder, snapshots) {
		if err := e.writePartition(dir, rows); err != nil {
			return err
		}
	}
	return nil
}

func (e *JSONExporter) writePartition(dir string, rows []models.AnalyticsSnapshot) error {
	w, err := e.factory.NewWriter(path.Join(dir, "data.json"))
	if err != nil {
		return err
	}

	for _, s := range rows {
		data, err := json.Marshal(s)
		if err != nil {
			w.Close()
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
