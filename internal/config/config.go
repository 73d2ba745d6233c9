package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
	Score    ScoreConfig    `yaml:"score"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Mode        string `yaml:"mode"` // debug, release, test
	BodyLimitMB int    `yaml:"body_limit_mb"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`    // sqlite, mysql
	DSN      string `yaml:"dsn"`       // mysql DSNs need parseTime=true
	LogLevel string `yaml:"log_level"` // silent, error, warn, info
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// CORSConfig lists the origins allowed in release mode. Debug mode allows all.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ScoreConfig drives the periodic project score refresh. An empty schedule
// disables it.
type ScoreConfig struct {
	Schedule      string  `yaml:"schedule"` // cron expression, e.g. "@every 1h"
	SupportWeight float64 `yaml:"support_weight"`
	ViewWeight    float64 `yaml:"view_weight"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	// A missing .env is not an error
	_ = godotenv.Load()

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := DefaultConfig()
		if err := yaml.Unmarshal(data, fileCfg); err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "3001",
			Mode:        "debug",
			BodyLimitMB: 10,
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			DSN:      "brainfuel.db",
			LogLevel: "warn",
		},
		JWT: JWTConfig{
			Secret:     "brainfuel-secret-key-change-in-production",
			ExpireHour: 24,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Score: ScoreConfig{
			Schedule:      "@every 1h",
			SupportWeight: 10,
			ViewWeight:    1,
		},
	}
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "release"
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	// NODE_ENV is kept for compatibility with the existing frontend deployment
	if env := os.Getenv("NODE_ENV"); env != "" {
		c.Server.Mode = modeFromEnv(env)
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if limit := os.Getenv("BODY_LIMIT_MB"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			c.Server.BodyLimitMB = n
		}
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if level := os.Getenv("DB_LOG_LEVEL"); level != "" {
		c.Database.LogLevel = level
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORS.AllowOrigins = splitList(origins)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if schedule, ok := os.LookupEnv("SCORE_SCHEDULE"); ok {
		c.Score.Schedule = schedule
	}
}

// modeFromEnv maps a NODE_ENV style value to a gin mode.
func modeFromEnv(env string) string {
	switch strings.ToLower(env) {
	case "production", "prod":
		return "release"
	case "test":
		return "test"
	default:
		return "debug"
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
