package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	MaxFileSizeBytes int64
	MinFileSizeBytes int64

	// ArchiveDir enables the upload archive when non-empty.
	ArchiveDir string

	// SimulateLatency sleeps the modeled processing time before responding.
	// Off by default; the figure is always reported in metadata.
	SimulateLatency bool

	// TuningPath points at an optional YAML file overriding the confidence
	// tier constants.
	TuningPath string

	// Traffic control. Zero disables the corresponding gate.
	APIRateLimitRPS    int
	APIRateLimitBurst  int
	APIMaxInFlight     int
	BackpressureWaitMs int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		MaxFileSizeBytes: mustEnvInt64("MAX_FILE_SIZE_BYTES", 10*1024*1024),
		MinFileSizeBytes: mustEnvInt64("MIN_FILE_SIZE_BYTES", 100),

		ArchiveDir:      mustEnv("ARCHIVE_DIR", ""),
		SimulateLatency: mustEnvBool("SIMULATE_LATENCY", false),
		TuningPath:      mustEnv("TUNING_PATH", ""),

		APIRateLimitRPS:    mustEnvInt("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:  mustEnvInt("API_RATE_LIMIT_BURST", 0),
		APIMaxInFlight:     mustEnvInt("API_MAX_IN_FLIGHT", 32),
		BackpressureWaitMs: mustEnvInt("BACKPRESSURE_WAIT_MS", 100),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
