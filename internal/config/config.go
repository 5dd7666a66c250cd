package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Queue     QueueConfig
	Printer   PrinterConfig
	PDF       PDFConfig
	Receipt   ReceiptConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QueueConfig selects where the print queue is persisted.
type QueueConfig struct {
	Store        string // redis, database or memory
	Key          string
	WriteTimeout time.Duration
}

type PrinterConfig struct {
	Type        string
	USBPath     string
	Address     string
	CharWidth   int
	DialTimeout time.Duration
}

type PDFConfig struct {
	Timeout    time.Duration
	ChromePath string
	NoSandbox  bool
}

// ReceiptConfig overrides printed labels; blanks keep the defaults.
type ReceiptConfig struct {
	Bags            string
	Tare            string
	Labour          string
	Rate            string
	AddedNote       string
	PaidNote        string
	InterestHeading string
	Footer          string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level string
	Dir   string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Queue: QueueConfig{
			Store:        strings.ToLower(viper.GetString("QUEUE_STORE")),
			Key:          viper.GetString("QUEUE_KEY"),
			WriteTimeout: viper.GetDuration("QUEUE_WRITE_TIMEOUT"),
		},
		Printer: PrinterConfig{
			Type:        viper.GetString("PRINTER_TYPE"),
			USBPath:     viper.GetString("PRINTER_USB_PATH"),
			Address:     viper.GetString("PRINTER_ADDRESS"),
			CharWidth:   viper.GetInt("PRINTER_CHAR_WIDTH"),
			DialTimeout: viper.GetDuration("PRINTER_DIAL_TIMEOUT"),
		},
		PDF: PDFConfig{
			Timeout:    viper.GetDuration("PDF_TIMEOUT"),
			ChromePath: viper.GetString("PDF_CHROME_PATH"),
			NoSandbox:  viper.GetBool("PDF_NO_SANDBOX"),
		},
		Receipt: ReceiptConfig{
			Bags:            viper.GetString("RECEIPT_LABEL_BAGS"),
			Tare:            viper.GetString("RECEIPT_LABEL_TARE"),
			Labour:          viper.GetString("RECEIPT_LABEL_LABOUR"),
			Rate:            viper.GetString("RECEIPT_LABEL_RATE"),
			AddedNote:       viper.GetString("RECEIPT_NOTE_ADDED"),
			PaidNote:        viper.GetString("RECEIPT_NOTE_PAID"),
			InterestHeading: viper.GetString("RECEIPT_INTEREST_HEADING"),
			Footer:          viper.GetString("RECEIPT_FOOTER"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
			Dir:   viper.GetString("LOG_DIR"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "paddybill")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "paddybill")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DB_SQLITE_PATH", "./storage/paddybill.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("QUEUE_STORE", "database")
	viper.SetDefault("QUEUE_KEY", "printQueue")
	viper.SetDefault("QUEUE_WRITE_TIMEOUT", "2s")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("PRINTER_DIAL_TIMEOUT", "5s")
	viper.SetDefault("PDF_TIMEOUT", "30s")
	viper.SetDefault("PDF_CHROME_PATH", "")
	viper.SetDefault("PDF_NO_SANDBOX", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", "X-Request-ID"})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_DIR", "logs")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
