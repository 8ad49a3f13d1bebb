package config

import (
	"fmt"
	"os"
)

// NetworkConfig holds endpoint configuration for the HTTP server and the
// optional backing services.
type NetworkConfig struct {
	HTTPPort     string
	TemporalHost string
	DatabaseURL  string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// GetNetworkConfig returns network configuration from environment or defaults
func GetNetworkConfig() *NetworkConfig {
	return &NetworkConfig{
		HTTPPort:     getEnvOrDefault("A2T_HTTP_PORT", DefaultHTTPPort),
		TemporalHost: getEnvOrDefault("TEMPORAL_HOST", "localhost:7233"),
		DatabaseURL:  getEnvOrDefault("DATABASE_URL", ""),

		MinioEndpoint:  getEnvOrDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnvOrDefault("MINIO_BUCKET", "transcriptions"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

// GetPostgresConnectionString constructs the PostgreSQL connection string
func (nc *NetworkConfig) GetPostgresConnectionString() string {
	if nc.DatabaseURL != "" {
		return nc.DatabaseURL
	}

	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "a2t")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
