package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Extractor ExtractorConfig
	Upload    UploadConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// ExtractorConfig holds settings for the hosted extraction model.
type ExtractorConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// UploadConfig holds upload validation and bulk processing settings.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxBulkFiles  int   `mapstructure:"max_bulk_files"`
	Concurrency   int   `mapstructure:"concurrency"`
}

// MaxFileSizeBytes returns the per-file size limit in bytes.
func (u *UploadConfig) MaxFileSizeBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// S3Config holds settings for the optional original-image archive bucket.
// An empty Bucket disables archiving.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the KYC_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KYC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "kyc")
	v.SetDefault("db.password", "kyc_secret")
	v.SetDefault("db.name", "kyc_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "kyc-idp")

	// Extractor defaults
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.endpoint", "https://api.fireworks.ai/inference/v1/chat/completions")
	v.SetDefault("extractor.model", "accounts/fireworks/models/llama4-scout-instruct-basic")
	v.SetDefault("extractor.timeout_secs", 60)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 10)
	v.SetDefault("upload.max_bulk_files", 20)
	v.SetDefault("upload.concurrency", 4)

	// S3 defaults (archiving disabled unless a bucket is set)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "KYC_SERVER_PORT",
		"server.read_timeout":     "KYC_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "KYC_SERVER_WRITE_TIMEOUT",
		"server.environment":      "KYC_SERVER_ENVIRONMENT",
		"db.host":                 "KYC_DB_HOST",
		"db.port":                 "KYC_DB_PORT",
		"db.user":                 "KYC_DB_USER",
		"db.password":             "KYC_DB_PASSWORD",
		"db.name":                 "KYC_DB_NAME",
		"db.sslmode":              "KYC_DB_SSLMODE",
		"db.max_open":             "KYC_DB_MAX_OPEN",
		"db.max_idle":             "KYC_DB_MAX_IDLE",
		"jwt.secret":              "KYC_JWT_SECRET",
		"jwt.access_expiry":       "KYC_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":      "KYC_JWT_REFRESH_EXPIRY",
		"jwt.issuer":              "KYC_JWT_ISSUER",
		"extractor.api_key":       "KYC_EXTRACTOR_API_KEY",
		"extractor.endpoint":      "KYC_EXTRACTOR_ENDPOINT",
		"extractor.model":         "KYC_EXTRACTOR_MODEL",
		"extractor.timeout_secs":  "KYC_EXTRACTOR_TIMEOUT_SECS",
		"upload.max_file_size_mb": "KYC_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_bulk_files":   "KYC_UPLOAD_MAX_BULK_FILES",
		"upload.concurrency":      "KYC_UPLOAD_CONCURRENCY",
		"s3.region":               "KYC_S3_REGION",
		"s3.bucket":               "KYC_S3_BUCKET",
		"s3.endpoint":             "KYC_S3_ENDPOINT",
		"s3.access_key":           "KYC_S3_ACCESS_KEY",
		"s3.secret_key":           "KYC_S3_SECRET_KEY",
		"log.level":               "KYC_LOG_LEVEL",
		"log.format":              "KYC_LOG_FORMAT",
		"cors.allowed_origins":    "KYC_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if KYC_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("KYC_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Extractor = ExtractorConfig{
		APIKey:      v.GetString("extractor.api_key"),
		Endpoint:    v.GetString("extractor.endpoint"),
		Model:       v.GetString("extractor.model"),
		TimeoutSecs: v.GetInt("extractor.timeout_secs"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		MaxBulkFiles:  v.GetInt("upload.max_bulk_files"),
		Concurrency:   v.GetInt("upload.concurrency"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
