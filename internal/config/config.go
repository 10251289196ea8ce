package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           string        `validate:"required,numeric"`
	RequestTimeout time.Duration `validate:"gt=0"`
	LogLevel       string        `validate:"oneof=debug info warn error"`

	// Database configuration
	DBType            string `validate:"required,oneof=mysql mariadb postgres postgresql sqlite sqlserver mssql"`
	DBHost            string
	DBPort            string
	DBDatabase        string `validate:"required"`
	DBUser            string `validate:"required_unless=DBType sqlite"`
	DBPassword        string
	DBConnectionLimit int    `validate:"min=1"`
	DBLogLevel        string `validate:"oneof=silent error warn info"`

	// Authentication configuration
	AuthMode         string `validate:"oneof=jwt jwks authorizer header"`
	JWTSecret        string `validate:"required_if=AuthMode jwt"`
	JWKSURL          string `validate:"required_if=AuthMode jwks"`
	JWTAudience      string
	JWTIssuer        string
	AuthzURL         string `validate:"required_if=AuthMode authorizer"`
	AuthzClientID    string `validate:"required_if=AuthMode authorizer"`
	AuthzRedirectURL string

	// Spreadsheet import configuration
	ImportMaxBytes      int `validate:"min=1"`
	ImportArchiveBucket string
	S3Region            string
}

var validate = validator.New()

// Load reads optional dotenv files, then the environment, and validates the result.
// Variables already present in the environment win over dotenv values.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:                getEnv("PORT", "3000"),
		RequestTimeout:      getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DBType:              strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBDatabase:          getEnv("DB_DATABASE", "mypcf.db"),
		DBUser:              getEnv("DB_USER", ""),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:   getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		DBLogLevel:          strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		AuthMode:            strings.ToLower(getEnv("AUTH_MODE", "jwt")),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWKSURL:             getEnv("JWKS_URL", ""),
		JWTAudience:         getEnv("JWT_AUDIENCE", ""),
		JWTIssuer:           getEnv("JWT_ISSUER", ""),
		AuthzURL:            getEnv("AUTHZ_URL", ""),
		AuthzClientID:       getEnv("AUTHZ_CLIENT_ID", ""),
		AuthzRedirectURL:    getEnv("AUTHZ_REDIRECT_URL", ""),
		ImportMaxBytes:      getEnvAsInt("IMPORT_MAX_BYTES", 5*1024*1024),
		ImportArchiveBucket: getEnv("IMPORT_ARCHIVE_BUCKET", ""),
		S3Region:            getEnv("S3_REGION", ""),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", describe(err))
	}

	return cfg, nil
}

// describe turns validator field errors into environment variable names
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", envNames[fe.Field()], fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

var envNames = map[string]string{
	"Port":                "PORT",
	"RequestTimeout":      "REQUEST_TIMEOUT",
	"LogLevel":            "LOG_LEVEL",
	"DBType":              "DB_TYPE",
	"DBHost":              "DB_HOST",
	"DBPort":              "DB_PORT",
	"DBDatabase":          "DB_DATABASE",
	"DBUser":              "DB_USER",
	"DBPassword":          "DB_PASSWORD",
	"DBConnectionLimit":   "DB_CONNECTION_LIMIT",
	"DBLogLevel":          "DB_LOG_LEVEL",
	"AuthMode":            "AUTH_MODE",
	"JWTSecret":           "JWT_SECRET",
	"JWKSURL":             "JWKS_URL",
	"JWTAudience":         "JWT_AUDIENCE",
	"JWTIssuer":           "JWT_ISSUER",
	"AuthzURL":            "AUTHZ_URL",
	"AuthzClientID":       "AUTHZ_CLIENT_ID",
	"AuthzRedirectURL":    "AUTHZ_REDIRECT_URL",
	"ImportMaxBytes":      "IMPORT_MAX_BYTES",
	"ImportArchiveBucket": "IMPORT_ARCHIVE_BUCKET",
	"S3Region":            "S3_REGION",
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("30s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
