package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plateworks/menumetrics/internal/models"
)

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(objectPath string) (CloudWriter, error)
}

// NewWriterFactory selects the destination from config: an "s3://bucket/prefix"
// destination uploads objects, anything else is treated as a local directory.
func NewWriterFactory(cfg models.ExportConfig) (CloudWriterFactory, error) {
	if strings.HasPrefix(cfg.Destination, "s3://") {
		trimmed := strings.TrimPrefix(cfg.Destination, "s3://")
		bucket, prefix, _ := strings.Cut(trimmed, "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid s3 destination: %s", cfg.Destination)
		}
		return NewS3WriterFactory(cfg.Region, bucket, prefix)
	}
	dest := cfg.Destination
	if dest == "" {
		dest = "."
	}
	return NewLocalWriterFactory(dest), nil
}

type LocalWriterFactory struct {
	basePath string
}

func NewLocalWriterFactory(basePath string) *LocalWriterFactory {
	return &LocalWriterFactory{basePath: basePath}
}

func (f *LocalWriterFactory) NewWriter(objectPath string) (CloudWriter, error) {
	fullPath, err := f.prepare(objectPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// prepare resolves the object path against the base directory and makes sure
// the parent directory exists.
func (f *LocalWriterFactory) prepare(objectPath string) (string, error) {
	fullPath := filepath.Join(f.basePath, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return "", err
	}
	return fullPath, nil
}
