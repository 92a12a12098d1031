package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm/logger"
)

const devTokenSecret = "portfolio-dev-secret"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	Port       string `env:"PORT" envDefault:"5000"`
	ListenAddr string `env:"LISTEN_ADDR"`
	GinMode    string `env:"GIN_MODE" envDefault:"release"`

	DBType         string `env:"DB_TYPE" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"portfolio.db"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         string `env:"DB_PORT"`
	DBUser         string `env:"DB_USER" envDefault:"root"`
	DBPassword     string `env:"DB_PASSWORD"`
	DBName         string `env:"DB_NAME" envDefault:"portfolio_db"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`

	TokenSecret string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadURLPath  string `env:"UPLOAD_URL_PATH" envDefault:"/uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	StaticDir      string   `env:"STATIC_DIR"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminEmail    string `env:"ADMIN_EMAIL"`

	SeedDefaults   bool `env:"SEED_DEFAULTS" envDefault:"true"`
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load 先尝试读取 .env，再从环境变量解析配置，并为缺失项补齐默认值。
func Load(envFiles ...string) (AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("[INFO] no .env file loaded: %v", err)
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "5000"
	}

	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}

	c.DBType = strings.ToLower(strings.TrimSpace(c.DBType))
	if c.DBType == "" {
		c.DBType = "sqlite"
	}
	if c.DBPort == "" {
		c.DBPort = defaultDBPort(c.DBType)
	}
	if c.DBMaxOpenConns <= 0 {
		c.DBMaxOpenConns = 10
	}

	c.TokenSecret = strings.TrimSpace(c.TokenSecret)
	if c.TokenSecret == "" {
		log.Printf("[WARN] JWT_SECRET is not set, falling back to a development secret")
		c.TokenSecret = devTokenSecret
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = time.Hour
	}

	c.UploadURLPath = "/" + strings.Trim(strings.TrimSpace(c.UploadURLPath), "/")
	if c.UploadURLPath == "/" {
		c.UploadURLPath = "/uploads"
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 50 << 20
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins

	c.AdminUsername = strings.TrimSpace(c.AdminUsername)
	c.AdminEmail = strings.TrimSpace(c.AdminEmail)
}

// Database 返回打开数据库所需的参数，debug 模式下输出全部 SQL。
func (c AppConfig) Database() db.Options {
	level := logger.Warn
	if c.GinMode == "debug" {
		level = logger.Info
	}
	return db.Options{
		Type:         c.DBType,
		Path:         c.DatabasePath,
		Host:         c.DBHost,
		Port:         c.DBPort,
		User:         c.DBUser,
		Password:     c.DBPassword,
		Name:         c.DBName,
		MaxOpenConns: c.DBMaxOpenConns,
		LogLevel:     level,
	}
}

func defaultDBPort(dbType string) string {
	switch dbType {
	case "mysql", "mariadb":
		return "3306"
	case "postgres", "postgresql":
		return "5432"
	case "sqlserver", "mssql":
		return "1433"
	default:
		return ""
	}
}
