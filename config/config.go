package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTPConfig
	Data     DataConfig
	RabbitMQ RabbitMQConfig
	Registry RegistryConfig
}

type HTTPConfig struct {
	Addr string
}

// DataConfig locates the per-brand data tree:
//
//	<Dir>/tmp_uploads/                 temporary upload spool
//	<Dir>/brands/<id>/orders.db        per-brand order store
//	<Dir>/brands/<id>/archive/         ingested report archive
type DataConfig struct {
	Dir string
}

type RabbitMQConfig struct {
	URL           string
	ReportQueue   string
	PrefetchCount int
}

// RegistryConfig is the shared brand/user registry database.
type RegistryConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	prefetchCount, _ := strconv.Atoi(getEnv("RABBITMQ_PREFETCH_COUNT", "10"))
	pgPort, _ := strconv.Atoi(getEnv("REGISTRY_PORT", "5432"))

	return &Config{
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Data: DataConfig{
			Dir: getEnv("DATA_DIR", "./data"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:           getEnv("RABBITMQ_URL", ""),
			ReportQueue:   getEnv("RABBITMQ_REPORT_QUEUE", "reports.ingest"),
			PrefetchCount: prefetchCount,
		},
		Registry: RegistryConfig{
			Host:     getEnv("REGISTRY_HOST", "localhost"),
			Port:     pgPort,
			Database: getEnv("REGISTRY_DATABASE", "reports"),
			Username: getEnv("REGISTRY_USERNAME", "postgres"),
			Password: getEnv("REGISTRY_PASSWORD", "postgres"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Registry.Host == "" {
		return fmt.Errorf("REGISTRY_HOST is required")
	}
	return nil
}

// DSN builds the registry database connection string.
func (r RegistryConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		r.Host, r.Username, r.Password, r.Database, r.Port)
}

func (c *Config) TmpUploadDir() string {
	return filepath.Join(c.Data.Dir, "tmp_uploads")
}

func (c *Config) BrandDir(brandID string) string {
	return filepath.Join(c.Data.Dir, "brands", brandID)
}

func (c *Config) BrandDBPath(brandID string) string {
	return filepath.Join(c.BrandDir(brandID), "orders.db")
}

func (c *Config) BrandArchiveDir(brandID string) string {
	return filepath.Join(c.BrandDir(brandID), "archive")
}

// EnsureBrandDirs creates the brand's data and archive directories.
func (c *Config) EnsureBrandDirs(brandID string) error {
	if err := os.MkdirAll(c.BrandArchiveDir(brandID), 0o755); err != nil {
		return fmt.Errorf("failed to create brand directories: %w", err)
	}
	return nil
}
