package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// Reminder scheduling
	ReminderTick         time.Duration
	NotificationsEnabled bool
	CalendarWriteEnabled bool
	ProcessPageSize      int64

	// Text generation for email drafts
	GenerationURL     string
	GenerationAPIKey  string
	GenerationModel   string
	GenerationTimeout time.Duration
	DefaultSenderName string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "go-transfer"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-transfer"),

		ReminderTick:         time.Duration(getEnvInt("REMINDER_TICK_SECONDS", 60)) * time.Second,
		NotificationsEnabled: getEnv("NOTIFICATIONS_ENABLED", "true") == "true",
		CalendarWriteEnabled: getEnv("CALENDAR_WRITE_ENABLED", "true") == "true",
		ProcessPageSize:      int64(getEnvInt("PROCESS_PAGE_SIZE", 100)),

		GenerationURL:     getEnv("GENERATION_URL", "https://api.openai.com/v1/chat/completions"),
		GenerationAPIKey:  getEnv("GENERATION_API_KEY", ""),
		GenerationModel:   getEnv("GENERATION_MODEL", "gpt-4o-mini"),
		GenerationTimeout: time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 60)) * time.Second,
		DefaultSenderName: getEnv("DEFAULT_SENDER_NAME", "Ihr Beraterteam"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s, using default %d", key, fallback)
		return fallback
	}
	return n
}
