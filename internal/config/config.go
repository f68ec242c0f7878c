package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server and the maintenance commands need.
// Values come from the process environment, optionally primed from a .env file.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Host        string
	Port        string
	LogLevel    string

	// DatabaseURL may be a postgres URL/DSN or "sqlite:<path>".
	DatabaseURL string

	SessionSecret string
	SecureCookies bool

	SecretKey          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	AllowedOrigins     []string
	TrustedProxies     []string
	DefaultPageSize    int
	MaxPageSize        int
	LeadLimitPerHour   int
	LoginLimitPer15Min int

	UploadDir string
	ImageDir  string

	SendgridAPIKey string
	LeadNotifyFrom string
	LeadNotifyTo   string

	OpenAIAPIKey string
	OpenAIModel  string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://indohomz.com",
	"https://www.indohomz.com",
}

// Load reads .env (if present) and then the environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		AppName:     getenv("APP_NAME", "IndoHomz"),
		AppVersion:  getenv("APP_VERSION", "1.0.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		Host:        getenv("HOST", "127.0.0.1"),
		Port:        getenv("PORT", "8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DatabaseURL: databaseURL(),

		SessionSecret: getenv("SESSION_SECRET", "dev-insecure-secret-change-me-now"),
		SecureCookies: os.Getenv("APP_HTTPS") == "1",

		SecretKey:          getenv("SECRET_KEY", "indohomz-dev-secret-change-in-production"),
		AccessTokenTTL:     time.Duration(getint("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24)) * time.Minute,
		RefreshTokenTTL:    time.Duration(getint("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,
		AllowedOrigins:     parseOrigins(os.Getenv("ALLOWED_ORIGINS")),
		TrustedProxies:     splitList(os.Getenv("TRUSTED_PROXIES")),
		DefaultPageSize:    getint("DEFAULT_PAGE_SIZE", 12),
		MaxPageSize:        getint("MAX_PAGE_SIZE", 50),
		LeadLimitPerHour:   getint("LEAD_LIMIT_PER_HOUR", 5),
		LoginLimitPer15Min: getint("LOGIN_LIMIT_PER_15_MIN", 10),

		UploadDir: getenv("UPLOAD_DIR", "uploads"),
		ImageDir:  getenv("IMAGE_DIR", "images"),

		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		LeadNotifyFrom: getenv("LEAD_NOTIFY_FROM", "no-reply@indohomz.com"),
		LeadNotifyTo:   getenv("LEAD_NOTIFY_TO", "sales@indohomz.com"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getenv("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasSendgrid() bool {
	return c.SendgridAPIKey != ""
}

// databaseURL follows the precedence DATABASE_URL > POSTGRES_DSN > POSTGRES_* parts.
// With none of them set, a local sqlite file is used.
func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		return v
	}
	if os.Getenv("POSTGRES_HOST") == "" && os.Getenv("POSTGRES_DB") == "" {
		return "sqlite:indohomz.db"
	}

	parts := []string{
		"host=" + getenv("POSTGRES_HOST", "127.0.0.1"),
		"port=" + getenv("POSTGRES_PORT", "5432"),
		"user=" + getenv("POSTGRES_USER", "postgres"),
		"dbname=" + getenv("POSTGRES_DB", "indohomz"),
		"sslmode=" + getenv("POSTGRES_SSLMODE", "disable"),
	}
	if pass := os.Getenv("POSTGRES_PASSWORD"); pass != "" {
		parts = append(parts, "password="+pass)
	}
	return strings.Join(parts, " ")
}

// parseOrigins accepts either a JSON array or a comma separated list.
func parseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return append([]string(nil), defaultOrigins...)
	}
	var list []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			list = append(list, o)
		}
	}
	return list
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
