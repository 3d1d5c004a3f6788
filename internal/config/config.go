package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 2333
	defaultEnv      = "development"
	defaultDSN      = "root:password@tcp(127.0.0.1:3306)/boasting?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL = "redis://localhost:6379/0"
	defaultOrigin   = "http://localhost:3000"
	defaultStatic   = "./static"
)

// AppConfig holds runtime startup configuration loaded from YAML, with
// environment variables taking precedence for deploy-time secrets.
type AppConfig struct {
	Port           int       `yaml:"port"`
	DSN            string    `yaml:"dsn"` // MySQL DSN
	RedisURL       string    `yaml:"redis_url"`
	Env            string    `yaml:"env"` // "development" | "production"
	JWTSecret      string    `yaml:"jwt_secret"`
	AllowedOrigins []string  `yaml:"allowed_origins"`
	WebOrigin      string    `yaml:"web_origin"` // public origin used in share links
	StaticDir      string    `yaml:"static_dir"`
	S3             S3Options `yaml:"s3"`
}

// S3Options configures the blob store. When Enable is false, uploads land in
// StaticDir and are served by this process.
type S3Options struct {
	Enable          bool   `yaml:"enable"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// Load reads the YAML config at path (missing file is fine), applies env
// overrides and defaults, and validates the result.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only deployment
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	setIfEnv(&cfg.DSN, "DSN")
	setIfEnv(&cfg.RedisURL, "REDIS_URL")
	setIfEnv(&cfg.Env, "APP_ENV")
	setIfEnv(&cfg.JWTSecret, "JWT_SECRET")
	setIfEnv(&cfg.WebOrigin, "WEB_ORIGIN")
	setIfEnv(&cfg.StaticDir, "STATIC_DIR")
	setIfEnv(&cfg.S3.Bucket, "S3_BUCKET")
	setIfEnv(&cfg.S3.Region, "S3_REGION")
	setIfEnv(&cfg.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	setIfEnv(&cfg.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	setIfEnv(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setIfEnv(&cfg.S3.CustomDomain, "S3_CUSTOM_DOMAIN")
	if v := os.Getenv("S3_ENABLE"); v != "" {
		cfg.S3.Enable = v == "1" || strings.EqualFold(v, "true")
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.WebOrigin == "" {
		cfg.WebOrigin = defaultOrigin
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = defaultStatic
	}
}

func (c *AppConfig) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.S3.Enable {
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("s3 is enabled but bucket/region are missing")
		}
		if c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "" {
			return fmt.Errorf("s3 is enabled but credentials are missing")
		}
	}
	return nil
}

func setIfEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}
