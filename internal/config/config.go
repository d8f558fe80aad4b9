package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	DiskToken      string
	GeocoderAPIKey string
	GroupChatID    int64

	MediaDir      string
	MaxUploadSize int64

	// CollectLocation toggles the geolocation step; on unless the env
	// explicitly disables it.
	CollectLocation bool

	// When set, the workflow asks for a distance to the city centre
	// after the confirmation step.
	CollectDistance bool

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	KafkaBrokers []string
	KafkaTopic   string

	OpsPort string
}

func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal("Error getting working directory:", err)
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf("Loaded environment variables from %s", envPath)
			return
		}
	}

	log.Println("No .env file found, relying on process environment")
}

func Load() (*Config, error) {
	loadEnv()

	groupChatID, err := strconv.ParseInt(getEnv("COMPANY_GROUP_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPANY_GROUP_ID: %w", err)
	}

	maxUploadSize, err := strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE", "52428800"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE: %w", err)
	}

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DiskToken:      os.Getenv("YANDEX_DISK_TOKEN"),
		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
		GroupChatID:    groupChatID,

		MediaDir:      getEnv("MEDIA_DIR", "media"),
		MaxUploadSize: maxUploadSize,

		CollectLocation: getEnv("COLLECT_LOCATION", "true") != "false",
		CollectDistance: getEnv("COLLECT_DISTANCE", "") == "true",

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("POSTGRES_USER", "postgres"),
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
		DBName:     getEnv("POSTGRES_DB", "proofbot"),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order_reports"),

		OpsPort: getEnv("OPS_PORT", "9000"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.DiskToken == "" {
		return fmt.Errorf("YANDEX_DISK_TOKEN is required")
	}
	if c.GroupChatID == 0 {
		return fmt.Errorf("COMPANY_GROUP_ID is required")
	}
	return nil
}

func (c *Config) Dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
