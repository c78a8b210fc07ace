package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// app config, loaded from the environment and an optional .env file
type Config struct {
	Env  string
	Port string

	Mongo MongoConfig
	Redis RedisConfig
	JWT   JWTConfig
	SMTP  SMTPConfig
	Log   LogConfig

	CORSOrigins []string
	// text (legacy) or structural
	OperatorRewrite string
	// cron schedule for the dependency probe; "off" disables it
	ProbeSchedule string
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// RedisConfig is optional; an empty Addr disables the answered cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	Secret           string
	Expire           time.Duration
	CookieExpireDays int
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Pass     string
	From     string
	FromName string
}

type LogConfig struct {
	Level  string
	Format string
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// LoadConfig reads configuration from the environment, with .env as a
// fallback source.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:  strings.ToLower(v.GetString("ENV")),
		Port: v.GetString("PORT"),
		Mongo: MongoConfig{
			URI:            v.GetString("MONGO_URI"),
			Database:       v.GetString("MONGO_DB"),
			ConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("ANSWERED_CACHE_TTL"),
		},
		JWT: JWTConfig{
			Secret:           v.GetString("JWT_SECRET"),
			Expire:           v.GetDuration("JWT_EXPIRE"),
			CookieExpireDays: v.GetInt("JWT_COOKIE_EXPIRE"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetString("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Pass:     v.GetString("SMTP_PASS"),
			From:     v.GetString("SMTP_FROM"),
			FromName: v.GetString("SMTP_FROM_NAME"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		CORSOrigins:     splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		OperatorRewrite: strings.ToLower(v.GetString("QUERY_OPERATOR_REWRITE")),
		ProbeSchedule:   strings.TrimSpace(v.GetString("DEPENDENCY_PROBE_SCHEDULE")),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "questionbank")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ANSWERED_CACHE_TTL", "10m")
	v.SetDefault("JWT_SECRET", "dev")
	v.SetDefault("JWT_EXPIRE", "720h")
	v.SetDefault("JWT_COOKIE_EXPIRE", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("QUERY_OPERATOR_REWRITE", "text")
	v.SetDefault("DEPENDENCY_PROBE_SCHEDULE", "@every 30s")
}

func validateConfig(cfg *Config) error {
	if cfg.Mongo.URI == "" {
		return errors.New("MONGO_URI is empty")
	}
	if cfg.JWT.Expire <= 0 {
		return errors.New("JWT_EXPIRE must be a positive duration")
	}
	if cfg.JWT.CookieExpireDays <= 0 {
		return errors.New("JWT_COOKIE_EXPIRE must be a positive number of days")
	}
	if cfg.IsProduction() && (cfg.JWT.Secret == "" || cfg.JWT.Secret == "dev") {
		return errors.New("JWT_SECRET must be set in production")
	}
	switch cfg.OperatorRewrite {
	case "text", "structural":
	default:
		return errors.New("unsupported QUERY_OPERATOR_REWRITE: " + cfg.OperatorRewrite + ". Supported: text, structural")
	}
	return nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
