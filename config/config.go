package config

import (
	"log"
	"os"
	"strconv"
)

const (
	defaultListenAddr = ":8080"

	defaultNotifyQueueSize  = 200
	defaultNumNotifyWorkers = 2

	defaultMatchThreshold = 0.6
	defaultEmbeddingDim   = 512

	defaultRedisChannel = "attendance.events"
)

type Config struct {
	// HTTP listen address
	ListenAddr string

	// database path
	DatabasePath string

	// matching settings
	MatchThreshold float64
	EmbeddingDim   int

	// external embedding extraction service
	ExtractorBaseURL string

	// notification dispatcher settings
	NotifyQueueSize  int
	NumNotifyWorkers int

	// optional Redis fan-out for realtime attendance events
	RedisAddr    string
	RedisChannel string

	// allowed browser origin
	CORSOrigin string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	cfg := Config{
		ListenAddr:       getEnvOrDefault("LISTEN_ADDR", defaultListenAddr),
		DatabasePath:     getEnvOrDefault("DATABASE_PATH", "attendance.db"),
		MatchThreshold:   getEnvFloatOrDefault("MATCH_THRESHOLD", defaultMatchThreshold),
		EmbeddingDim:     getEnvIntOrDefault("EMBEDDING_DIM", defaultEmbeddingDim),
		ExtractorBaseURL: getEnvOrDefault("EXTRACTOR_BASE_URL", "http://localhost:9090"),
		NotifyQueueSize:  getEnvIntOrDefault("NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
		NumNotifyWorkers: getEnvIntOrDefault("NUM_NOTIFY_WORKERS", defaultNumNotifyWorkers),
		RedisAddr:        os.Getenv("REDIS_ADDR"), // empty disables the Redis notifier
		RedisChannel:     getEnvOrDefault("REDIS_CHANNEL", defaultRedisChannel),
		CORSOrigin:       getEnvOrDefault("CORS_ORIGIN", "http://localhost:5173"),
	}

	return cfg, nil
}
