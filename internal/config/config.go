package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey        string
	DatabaseURL         string
	HTTPPort            string
	LogLevel            string
	UploadDir           string
	ChunkSize           int
	ChunkOverlap        int
	SimilarityThreshold float64
	MaxResults          int
	MemoryBudget        int
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:         getEnv("DATABASE_URL", "lumora.db"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
		UploadDir:           getEnv("UPLOAD_DIR", "data/uploads"),
		ChunkSize:           getEnvAsInt("CHUNK_SIZE", 500),
		ChunkOverlap:        getEnvAsInt("CHUNK_OVERLAP", 50),
		SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.7),
		MaxResults:          getEnvAsInt("MAX_RESULTS", 10),
		MemoryBudget:        getEnvAsInt("MEMORY_BUDGET", 4000),
	}

	if AppConfig.ChunkOverlap >= AppConfig.ChunkSize {
		log.Fatalf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)",
			AppConfig.ChunkOverlap, AppConfig.ChunkSize)
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set, responses will use the extractive fallback")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
