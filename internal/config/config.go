package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port      string `yaml:"port"`
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Clinic REST API
	APIBaseURL            string        `yaml:"api_base_url"`
	APITimeout            time.Duration `yaml:"api_timeout"` // 0 means no client-side timeout
	APIInsecureSkipVerify bool          `yaml:"api_insecure_skip_verify"`

	// Presentation
	Timezone           string   `yaml:"timezone"`
	UpcomingStatuses   []int    `yaml:"upcoming_statuses"`
	UpcomingLimit      int      `yaml:"upcoming_limit"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// Write endpoints of the HTTP server; 0 disables the limit.
	WriteRateLimit float64 `yaml:"write_rate_limit"`
	WriteRateBurst int     `yaml:"write_rate_burst"`

	// Preferences store
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisTLS      bool   `yaml:"redis_tls"`

	// Attachment uploads
	AWSRegion           string `yaml:"aws_region"`
	AWSAccessKeyID      string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey  string `yaml:"aws_secret_access_key"`
	AWSEndpointOverride string `yaml:"aws_endpoint_override"`
	AttachmentsBucket   string `yaml:"attachments_bucket"`
	AttachmentsBaseURL  string `yaml:"attachments_base_url"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:             "8080",
		Env:              "development",
		LogLevel:         "info",
		LogFormat:        "json",
		APIBaseURL:       "https://localhost:7224",
		Timezone:         "Europe/Madrid",
		UpcomingStatuses: []int{0, 1},
		UpcomingLimit:    5,
		WriteRateLimit:   2,
		WriteRateBurst:   10,
		AWSRegion:        "eu-west-1",
	}
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := Defaults()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads a YAML file on top of the defaults and then applies
// environment variables, which always win.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))

	c.APIBaseURL = strings.TrimRight(getEnv("API_BASE_URL", c.APIBaseURL), "/")
	c.APITimeout = getEnvAsDuration("API_TIMEOUT", c.APITimeout)
	c.APIInsecureSkipVerify = getEnvAsBool("API_INSECURE_SKIP_VERIFY", c.APIInsecureSkipVerify)

	c.Timezone = getEnv("CLINIC_TIMEZONE", c.Timezone)
	c.UpcomingStatuses = getEnvAsIntList("UPCOMING_STATUSES", c.UpcomingStatuses)
	c.UpcomingLimit = getEnvAsInt("UPCOMING_LIMIT", c.UpcomingLimit)
	c.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)
	c.WriteRateLimit = getEnvAsFloat("WRITE_RATE_LIMIT", c.WriteRateLimit)
	c.WriteRateBurst = getEnvAsInt("WRITE_RATE_BURST", c.WriteRateBurst)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisTLS = getEnvAsBool("REDIS_TLS", c.RedisTLS)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", c.AWSAccessKeyID)
	c.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", c.AWSSecretAccessKey)
	c.AWSEndpointOverride = getEnv("AWS_ENDPOINT_OVERRIDE", c.AWSEndpointOverride)
	c.AttachmentsBucket = getEnv("ATTACHMENTS_BUCKET", c.AttachmentsBucket)
	c.AttachmentsBaseURL = strings.TrimRight(getEnv("ATTACHMENTS_BASE_URL", c.AttachmentsBaseURL), "/")
}

// Location resolves the clinic timezone, falling back to UTC.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("config: load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsIntList parses "0,1"; any bad element keeps the default.
func getEnvAsIntList(key string, defaultValue []int) []int {
	parts := getEnvAsList(key, nil)
	if len(parts) == 0 {
		return defaultValue
	}
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
