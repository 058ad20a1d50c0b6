package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Mail providers understood by MAIL_PROVIDER.
const (
	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"
)

// Config holds the process-wide settings. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	RequestTimeout time.Duration
	LogLevel       string

	SpreadsheetPath string
	SheetName       string

	MailProvider  string
	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPass     string
	EmailFromName string

	AWSRegion     string
	AWSBucketName string
}

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}
}

// Load reads the .env file (if any) and the environment into a Config.
func Load() (*Config, error) {
	LoadConfig()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            GetEnv("PORT", "5000"),
		MongoURI:        GetEnv("MONGO_URI", "mongodb://localhost:27017/"),
		DBName:          GetEnv("DB_NAME", "contact_form"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		SpreadsheetPath: GetEnv("SPREADSHEET_PATH", "data.xlsx"),
		SheetName:       GetEnv("SHEET_NAME", "Form Submissions"),
		MailProvider:    GetEnv("MAIL_PROVIDER", MailProviderSMTP),
		SMTPHost:        GetEnv("SMTP_HOST", "smtp.gmail.com"),
		EmailUser:       os.Getenv("EMAIL_USER"),
		EmailPass:       os.Getenv("EMAIL_PASS"),
		EmailFromName:   GetEnv("EMAIL_FROM_NAME", "Team_NCS"),
		AWSRegion:       GetEnv("AWS_REGION", "ap-south-1"),
		AWSBucketName:   os.Getenv("AWS_BUCKET_NAME"),
	}

	port, err := strconv.Atoi(GetEnv("SMTP_PORT", "587"))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid SMTP_PORT %q", os.Getenv("SMTP_PORT"))
	}
	cfg.SMTPPort = port

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	timeout, err := time.ParseDuration(GetEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	switch cfg.MailProvider {
	case MailProviderSMTP, MailProviderSendGrid:
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}

	if cfg.EmailUser == "" {
		return nil, fmt.Errorf("EMAIL_USER is not set in environment variables")
	}
	if cfg.EmailPass == "" {
		return nil, fmt.Errorf("EMAIL_PASS is not set in environment variables")
	}

	return cfg, nil
}

// ArchiveEnabled reports whether spreadsheet snapshots go to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.AWSBucketName != ""
}

// GetEnv returns the environment value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
