package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Billing BillingConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BillingConfig holds invoice defaults.
type BillingConfig struct {
	// DefaultGSTRate is offered when an invoice enables GST without a rate.
	DefaultGSTRate int `mapstructure:"default_gst_rate"`
	// AllowSignup lets anyone register a staff account.
	AllowSignup bool `mapstructure:"allow_signup"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
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

	// MaxLifetime recycles pooled connections; zero keeps them forever.
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
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

// S3Config holds AWS S3 settings. An empty Bucket disables uploads.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// PresignTTL is the lifetime of signed download links.
func (s *S3Config) PresignTTL() time.Duration {
	return time.Duration(s.PresignExpiry) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Flags translates the settings into standard logger flags. "debug" adds
// the calling file and line. The "bare" format drops the timestamp prefix
// for hosts whose log collector stamps each line itself; any other format
// is treated as "console".
func (l LogConfig) Flags() int {
	flags := log.LstdFlags | log.Lmicroseconds
	if l.Format == "bare" {
		flags = 0
	}
	if l.Level == "debug" {
		flags |= log.Lshortfile
	}
	return flags
}

// Load reads configuration from environment variables with the TRADEBOOK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRADEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tradebook")
	v.SetDefault("db.password", "tradebook_secret")
	v.SetDefault("db.name", "tradebook_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.max_lifetime", "30m")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "12h")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "tradebook")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 5)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (Vite and CRA dev servers)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "billing@tradebook.local")
	v.SetDefault("email.from_name", "Tradebook Billing")
	v.SetDefault("email.frontend_url", "http://localhost:5173")

	// Billing defaults
	v.SetDefault("billing.default_gst_rate", 5)
	v.SetDefault("billing.allow_signup", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "TRADEBOOK_SERVER_PORT",
		"server.read_timeout":      "TRADEBOOK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "TRADEBOOK_SERVER_WRITE_TIMEOUT",
		"server.environment":       "TRADEBOOK_SERVER_ENVIRONMENT",
		"db.host":                  "TRADEBOOK_DB_HOST",
		"db.port":                  "TRADEBOOK_DB_PORT",
		"db.user":                  "TRADEBOOK_DB_USER",
		"db.password":              "TRADEBOOK_DB_PASSWORD",
		"db.name":                  "TRADEBOOK_DB_NAME",
		"db.sslmode":               "TRADEBOOK_DB_SSLMODE",
		"db.max_open":              "TRADEBOOK_DB_MAX_OPEN",
		"db.max_idle":              "TRADEBOOK_DB_MAX_IDLE",
		"jwt.secret":               "TRADEBOOK_JWT_SECRET",
		"jwt.access_expiry":        "TRADEBOOK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "TRADEBOOK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "TRADEBOOK_JWT_ISSUER",
		"s3.region":                "TRADEBOOK_S3_REGION",
		"s3.bucket":                "TRADEBOOK_S3_BUCKET",
		"s3.endpoint":              "TRADEBOOK_S3_ENDPOINT",
		"s3.access_key":            "TRADEBOOK_S3_ACCESS_KEY",
		"s3.secret_key":            "TRADEBOOK_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "TRADEBOOK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":        "TRADEBOOK_S3_PRESIGN_EXPIRY",
		"log.level":                "TRADEBOOK_LOG_LEVEL",
		"log.format":               "TRADEBOOK_LOG_FORMAT",
		"cors.allowed_origins":     "TRADEBOOK_CORS_ALLOWED_ORIGINS",
		"email.provider":           "TRADEBOOK_EMAIL_PROVIDER",
		"email.region":             "TRADEBOOK_EMAIL_REGION",
		"email.from_address":       "TRADEBOOK_EMAIL_FROM_ADDRESS",
		"email.from_name":          "TRADEBOOK_EMAIL_FROM_NAME",
		"email.frontend_url":       "TRADEBOOK_EMAIL_FRONTEND_URL",
		"billing.default_gst_rate": "TRADEBOOK_BILLING_DEFAULT_GST_RATE",
		"billing.allow_signup":     "TRADEBOOK_BILLING_ALLOW_SIGNUP",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TRADEBOOK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TRADEBOOK_SERVER_PORT") == "" {
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

		MaxLifetime: v.GetDuration("db.max_lifetime"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Billing = BillingConfig{
		DefaultGSTRate: v.GetInt("billing.default_gst_rate"),
		AllowSignup:    v.GetBool("billing.allow_signup"),
	}

	if cfg.Server.IsProduction() && cfg.JWT.Secret == "change-me-in-production" {
		return nil, fmt.Errorf("TRADEBOOK_JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// splitList parses a comma-separated setting, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
