package models

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CatalogueItem is one row of a menu catalogue file used to seed demo data.
type CatalogueItem struct {
	Category    string  `mapstructure:"category"`
	Name        string  `mapstructure:"name"`
	Description string  `mapstructure:"description"`
	Price       float64 `mapstructure:"price"`
	Cost        float64 `mapstructure:"cost"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
}

// ConnString builds a pgx connection string.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// Redacted is ConnString with the password elided, safe for logs.
func (d DatabaseConfig) Redacted() string {
	return fmt.Sprintf("postgres://%s:***@%s:%d/%s?sslmode=%s",
		d.User, d.Host, d.Port, d.DBName, d.SSLMode)
}

type KafkaConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BrokerList string `mapstructure:"broker_list"`
	Topic      string `mapstructure:"topic"`
}

type BatchConfig struct {
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	MaxBatch      int           `mapstructure:"max_batch"`
}

type ExportConfig struct {
	Format       string `mapstructure:"format"`      // csv, json, parquet, xlsx
	Destination  string `mapstructure:"destination"` // local folder or s3://bucket/prefix
	OutputFolder string `mapstructure:"output_folder"`
	Region       string `mapstructure:"region"`
}

type SeedConfig struct {
	Restaurants    int    `mapstructure:"restaurants"`
	Days           int    `mapstructure:"days"`
	OrdersPerDay   int    `mapstructure:"orders_per_day"`
	SessionsPerDay int    `mapstructure:"sessions_per_day"`
	MenuFile       string `mapstructure:"menu_file"`
	Seed           int64  `mapstructure:"seed"`
}

type Config struct {
	HTTPAddr           string         `mapstructure:"http_addr"`
	CORSOrigins        []string       `mapstructure:"cors_origins"`
	LogLevel           string         `mapstructure:"log_level"`
	LogFormat          string         `mapstructure:"log_format"`
	AnalysisPeriodDays int            `mapstructure:"analysis_period_days"`
	Database           DatabaseConfig `mapstructure:"database"`
	Kafka              KafkaConfig    `mapstructure:"kafka"`
	Batch              BatchConfig    `mapstructure:"batch"`
	Export             ExportConfig   `mapstructure:"export"`
	Seed               SeedConfig     `mapstructure:"seed"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	// .env is optional; deployed environments set real env vars
	_ = godotenv.Load()

	if cfgFile == "" {
		cfgFile = os.Getenv("MENUMETRICS_CONFIG")
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("menumetrics")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("http_addr", ":8084")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "json")
	viper.SetDefault("analysis_period_days", 30)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_conns", 10)
	viper.SetDefault("kafka.topic", "menu_events")
	viper.SetDefault("batch.flush_interval", "10s")
	viper.SetDefault("batch.max_batch", 100)
	viper.SetDefault("export.format", "csv")
	viper.SetDefault("export.output_folder", "exports")
	viper.SetDefault("seed.restaurants", 3)
	viper.SetDefault("seed.days", 30)
	viper.SetDefault("seed.orders_per_day", 120)
	viper.SetDefault("seed.sessions_per_day", 400)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// LoadMenuCatalogue reads a CSV of category,name,description,price,cost rows.
// The first line is treated as a header and skipped.
func LoadMenuCatalogue(filePath string) ([]CatalogueItem, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Read()

	var items []CatalogueItem
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(fields) < 5 {
			continue
		}
		price, _ := strconv.ParseFloat(fields[3], 64)
		cost, _ := strconv.ParseFloat(fields[4], 64)
		items = append(items, CatalogueItem{
			Category:    fields[0],
			Name:        fields[1],
			Description: fields[2],
			Price:       price,
			Cost:        cost,
		})
	}

	return items, nil
}
