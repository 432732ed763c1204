package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr              string        `yaml:"addr"`
	DBPath            string        `yaml:"db"`
	UploadDir         string        `yaml:"upload_dir"`
	SecretKey         string        `yaml:"secret_key"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	MaxUploadBytes    int64         `yaml:"max_upload_bytes"`
	AllowedExtensions []string      `yaml:"allowed_extensions"`
	LogLevel          string        `yaml:"log_level"`
	TrustProxy        bool          `yaml:"trust_proxy"` // use X-Forwarded-For for client addresses
	Admin             Admin         `yaml:"admin"`
	RateLimits        RateLimits    `yaml:"rate_limits"`

	// Version is set from build flags, never from files or the environment.
	Version string `yaml:"-"`
}

// Admin is the superuser created by `quill deploy`.
type Admin struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type RateLimits struct {
	LoginPerMinute    int `yaml:"login_per_minute"`
	RegisterPerMinute int `yaml:"register_per_minute"`
	CommentPerMinute  int `yaml:"comment_per_minute"`
}

func Default() Config {
	return Config{
		Addr:              ":8080",
		DBPath:            "quill.db",
		UploadDir:         "uploads",
		SecretKey:         "dev-secret-key",
		TokenTTL:          24 * time.Hour,
		MaxUploadBytes:    16 << 20,
		AllowedExtensions: []string{"txt", "pdf", "png", "jpg", "jpeg", "gif"},
		LogLevel:          "info",
		Admin: Admin{
			Name:     "admin",
			Email:    "email@example.com",
			Password: "123456",
		},
		RateLimits: RateLimits{
			LoginPerMinute:    20,
			RegisterPerMinute: 10,
			CommentPerMinute:  30,
		},
	}
}

// Load layers configuration: defaults, then the YAML file at path (if
// path is non-empty), then QUILL_* environment variables. A .env file in
// the working directory is loaded into the environment first.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	cfg.Addr = envString("QUILL_ADDR", cfg.Addr)
	cfg.DBPath = envString("QUILL_DB", cfg.DBPath)
	cfg.UploadDir = envString("QUILL_UPLOAD_DIR", cfg.UploadDir)
	cfg.SecretKey = envString("QUILL_SECRET_KEY", cfg.SecretKey)
	cfg.TokenTTL = envDuration("QUILL_TOKEN_TTL", cfg.TokenTTL)
	cfg.TrustProxy = envBool("QUILL_TRUST_PROXY", cfg.TrustProxy)
	cfg.MaxUploadBytes = envInt64("QUILL_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.AllowedExtensions = envList("QUILL_ALLOWED_EXTENSIONS", cfg.AllowedExtensions)
	cfg.LogLevel = envString("QUILL_LOG_LEVEL", cfg.LogLevel)
	cfg.Admin.Name = envString("QUILL_ADMIN_NAME", cfg.Admin.Name)
	cfg.Admin.Email = envString("QUILL_ADMIN_EMAIL", cfg.Admin.Email)
	cfg.Admin.Password = envString("QUILL_ADMIN_PASSWORD", cfg.Admin.Password)
	cfg.RateLimits.LoginPerMinute = envInt("QUILL_RL_LOGIN_PER_MIN", cfg.RateLimits.LoginPerMinute)
	cfg.RateLimits.RegisterPerMinute = envInt("QUILL_RL_REGISTER_PER_MIN", cfg.RateLimits.RegisterPerMinute)
	cfg.RateLimits.CommentPerMinute = envInt("QUILL_RL_COMMENT_PER_MIN", cfg.RateLimits.CommentPerMinute)

	if cfg.SecretKey == "" {
		return Config{}, errors.New("secret key must not be empty")
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
