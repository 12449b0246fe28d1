package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AssignmentMode selects how long a group stays with the identity that claimed it.
type AssignmentMode string

const (
	// ModePersistent keeps a group with its identity until explicitly released.
	ModePersistent AssignmentMode = "persistent"
	// ModeDaily scopes assignments to the calendar date they were made on.
	ModeDaily AssignmentMode = "daily"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret         string
	JWTAccessExpiry   time.Duration
	AdminEmail        string
	AdminPasswordHash string

	// Accounts is the ordered list of worker identity names. Allocation is
	// processed in this order, so scarce high-priority groups go to earlier
	// entries first.
	Accounts         []string
	DailyJoinLimit   int
	AssignmentMode   AssignmentMode
	MessagesPerGroup int
	RunInterval      time.Duration

	ClassifierNormalization float64
	MinJobMessages          int

	GroupsFile string

	TelegramBotToken string

	FirebaseCredentials   string
	GoogleProjectID       string
	DiscoverySubscription string

	ChromaAPIKey   string
	ChromaTenant   string
	ChromaDatabase string
	GeminiAPIKey   string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=jobradar port=5432 sslmode=disable"),

		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		JWTAccessExpiry:   getDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@jobradar.local"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		Accounts:         getList("ACCOUNTS", []string{"account1", "account2", "account3", "account4"}),
		DailyJoinLimit:   getInt("DAILY_JOIN_LIMIT", 10),
		AssignmentMode:   getMode("ASSIGNMENT_MODE", ModePersistent),
		MessagesPerGroup: getInt("MESSAGES_PER_GROUP", 100),
		RunInterval:      getDuration("RUN_INTERVAL", 24*time.Hour),

		ClassifierNormalization: getFloat("CLASSIFIER_NORMALIZATION", 12.0),
		MinJobMessages:          getInt("MIN_JOB_MESSAGES", 10),

		GroupsFile: getEnv("GROUPS_FILE", "data/universal_groups.json"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		FirebaseCredentials:   getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleProjectID:       getEnv("GOOGLE_PROJECT_ID", ""),
		DiscoverySubscription: getEnv("DISCOVERY_SUBSCRIPTION", "group-discoveries"),

		ChromaAPIKey:   getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:   getEnv("CHROMA_TENANT", ""),
		ChromaDatabase: getEnv("CHROMA_DATABASE", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func getMode(key string, defaultValue AssignmentMode) AssignmentMode {
	switch AssignmentMode(os.Getenv(key)) {
	case ModePersistent:
		return ModePersistent
	case ModeDaily:
		return ModeDaily
	}
	return defaultValue
}
