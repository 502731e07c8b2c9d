package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr    string
	PublicBaseURL string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	MigrationsDir string

	LogMode  string
	LogLevel string
	LogDir   string

	UploadDir     string
	UseS3         bool
	S3Bucket      string
	S3Region      string
	CloudFrontURL string

	RedisEnabled bool
	RedisAddr    string
	CacheTTL     time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "landing"),
		DBPath:     getEnv("DB_PATH", "landing.db"),

		MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),

		LogMode:  getEnv("LOG_MODE", "prod"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogDir:   getEnv("LOG_DIR", "logs"),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		UseS3:         getEnvBool("USE_S3", false),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", ""),
		CloudFrontURL: strings.TrimRight(getEnv("CLOUDFRONT_URL", ""), "/"),

		RedisEnabled: getEnvBool("REDIS_ENABLED", false),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

// RequiredDBVars lists the connection variables the selected driver needs
// that are still empty.
func (c *Config) RequiredDBVars() []string {
	if c.DBDriver == "sqlite" {
		if c.DBPath == "" {
			return []string{"DB_PATH"}
		}
		return nil
	}

	var missing []string
	for key, value := range map[string]string{
		"DB_HOST":     c.DBHost,
		"DB_NAME":     c.DBName,
		"DB_USER":     c.DBUser,
		"DB_PASSWORD": c.DBPassword,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
