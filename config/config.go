package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
}

type JWTConfig struct {
	Secret           string
	UserTokenExpiry  time.Duration // 一般ユーザー: 30日
	AdminTokenExpiry time.Duration // 管理者: 7日
}

type CORSConfig struct {
	AllowedOrigins []string
}

// CatalogConfig 外部書誌カタログAPIの接続設定
type CatalogConfig struct {
	BaseURL    string
	Country    string
	Timeout    time.Duration
	MaxResults int
}

type RedisConfig struct {
	Enabled  bool // 無効時はトークン失効リストを持たない
	Host     string
	Port     string
	Password string
	DB       int
}

// AdminConfig 起動時に冪等に作成される初期管理者アカウント
type AdminConfig struct {
	Username string
	Password string
}

// ExportConfig 帳票出力まわりの設定
type ExportConfig struct {
	PDFFontPath string // CJK対応TTFフォント。空の場合は内蔵フォントにフォールバック
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "admin"),
			Password:     getEnv("DB_PASSWORD", "1234"),
			DBName:       getEnv("DB_NAME", "sensho"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxIdleConns: parseInt(getEnv("DB_MAX_IDLE_CONNS", "10"), 10),
			MaxOpenConns: parseInt(getEnv("DB_MAX_OPEN_CONNS", "100"), 100),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "your-secret-key"),
			UserTokenExpiry:  parseDuration(getEnv("JWT_USER_TOKEN_EXPIRY", "720h"), 720*time.Hour),
			AdminTokenExpiry: parseDuration(getEnv("JWT_ADMIN_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Catalog: CatalogConfig{
			BaseURL:    getEnv("CATALOG_BASE_URL", "https://www.googleapis.com/books/v1"),
			Country:    getEnv("CATALOG_COUNTRY", "JP"),
			Timeout:    parseDuration(getEnv("CATALOG_TIMEOUT", "10s"), 10*time.Second),
			MaxResults: parseInt(getEnv("CATALOG_MAX_RESULTS", "20"), 20),
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Export: ExportConfig{
			PDFFontPath: getEnv("EXPORT_PDF_FONT_PATH", ""),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
