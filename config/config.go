package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	defaultContactRateLimit         = 5
	defaultContactRateWindowSeconds = 600
)

type Config struct {
	Port        string
	Environment string
	// Message store
	StoreDriver string
	DBUrl       string
	SQLitePath  string
	// Mail (SMTP)
	EmailUser      string
	EmailPass      string
	SMTPHost       string
	SMTPPort       string
	EmailFrom      string
	ContactEmailTo string
	// CORS
	AllowedOrigins []string
	// Proxies whose X-Forwarded-For is trusted for the client IP; none by default
	TrustedProxies []string
	// Redis Configuration (optional, rate limit counters)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	ContactRateLimit         int
	ContactRateWindowSeconds int
}

func LoadConfig() (*Config, error) {
	// Load .env file (local only, ignored when missing)
	_ = godotenv.Load()

	env := strings.ToLower(getEnv("APP_ENV", EnvDevelopment))
	if os.Getenv("GIN_MODE") == "release" {
		env = EnvProduction
	}

	emailUser := getEnv("EMAIL_USER", "")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DBUrl:       getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "data/contact.db"),
		// Mail
		EmailUser:      emailUser,
		EmailPass:      getEnv("EMAIL_PASS", ""),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		EmailFrom:      getEnv("EMAIL_FROM", emailUser),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", "hello@zainiarf.com"),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate limiting (5 submissions per 10 minutes per IP)
		ContactRateLimit:         getEnvInt("CONTACT_RATE_LIMIT", defaultContactRateLimit),
		ContactRateWindowSeconds: getEnvInt("CONTACT_RATE_WINDOW_SECONDS", defaultContactRateWindowSeconds),
	}

	defaultOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if cfg.IsProduction() {
		defaultOrigins = nil
	}
	cfg.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", defaultOrigins)
	cfg.TrustedProxies = getEnvList("TRUSTED_PROXIES", nil)

	if cfg.ContactRateLimit <= 0 {
		log.Printf("WARNING: CONTACT_RATE_LIMIT=%d is not positive. Using default %d.", cfg.ContactRateLimit, defaultContactRateLimit)
		cfg.ContactRateLimit = defaultContactRateLimit
	}
	if cfg.ContactRateWindowSeconds <= 0 {
		log.Printf("WARNING: CONTACT_RATE_WINDOW_SECONDS=%d is not positive. Using default %d.", cfg.ContactRateWindowSeconds, defaultContactRateWindowSeconds)
		cfg.ContactRateWindowSeconds = defaultContactRateWindowSeconds
	}

	driver := StoreMemory
	if cfg.DBUrl != "" {
		driver = StorePostgres
	}
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", driver))

	if cfg.StoreDriver == StorePostgres && cfg.DBUrl == "" {
		log.Println("WARNING: STORE_DRIVER=postgres but DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.StoreDriver == StoreMemory && cfg.IsProduction() {
		log.Println("WARNING: using in-memory message store in production. Messages are lost on restart.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether live email delivery is allowed.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// EmailConfigured reports whether SMTP credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

func (c *Config) ContactRateWindow() time.Duration {
	return time.Duration(c.ContactRateWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
