package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	// money
	TaxRate     float64 // 0.10 = 10%
	DeliveryFee int64   // cents

	// cancellation policy
	MinAdvanceHours  int
	AllowSameDay     bool
	EmergencyContact string

	// advisory table selection
	AdvisoryEnabled       bool
	AdvisoryBaseURL       string
	AdvisoryAPIKey        string
	AdvisoryModel         string
	AdvisoryTimeout       time.Duration
	AdvisoryMinConfidence float64
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBSource:  getEnv("DB_SOURCE", "rms.db"),
		Port:      getEnv("PORT", "8000"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,

		TaxRate:     getEnvFloat("TAX_RATE", 0.10),
		DeliveryFee: int64(getEnvInt("DELIVERY_FEE_CENTS", 500)),

		MinAdvanceHours:  getEnvInt("CANCEL_MIN_ADVANCE_HOURS", 24),
		AllowSameDay:     getEnvBool("CANCEL_ALLOW_SAME_DAY", false),
		EmergencyContact: getEnv("CANCEL_EMERGENCY_CONTACT", "Please contact the restaurant directly."),

		AdvisoryEnabled:       getEnvBool("ADVISORY_ENABLED", false),
		AdvisoryBaseURL:       getEnv("ADVISORY_BASE_URL", "https://api.groq.com/openai/v1"),
		AdvisoryAPIKey:        os.Getenv("ADVISORY_API_KEY"),
		AdvisoryModel:         getEnv("ADVISORY_MODEL", "llama-3.1-8b-instant"),
		AdvisoryTimeout:       time.Duration(getEnvInt("ADVISORY_TIMEOUT_MS", 800)) * time.Millisecond,
		AdvisoryMinConfidence: getEnvFloat("ADVISORY_MIN_CONFIDENCE", 0.4),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
