// Package config resolves environment-backed defaults for the command line
// flags of both binaries. A .env file in the working directory is honoured,
// so systemd EnvironmentFile deployments and local development share one
// mechanism.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names shared by bin-sensor and bin-server.
const (
	EnvServerURL     = "BIN_SERVER_URL"
	EnvMQTTBroker    = "BIN_MQTT_BROKER"
	EnvHTTPAddr      = "BIN_HTTP_ADDR"
	EnvCollectorAddr = "BIN_COLLECTOR_ADDR"
	EnvHeartbeat     = "BIN_HEARTBEAT"
	EnvDebug         = "BIN_DEBUG"
)

// Load reads a .env file if one exists. Call before flag definitions so the
// values can serve as flag defaults.
func Load() {
	_ = godotenv.Load()
}

// Getenv returns the value of key, or defaultValue when unset or empty.
func Getenv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetenvInt returns key parsed as an int, or defaultValue when unset or
// malformed.
func GetenvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}

// GetenvFloat returns key parsed as a float64, or defaultValue when unset
// or malformed.
func GetenvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: failed to parse %s as float, using default: %v", key, err)
		return defaultValue
	}
	return floatValue
}

// GetenvBool returns key parsed as a bool, or defaultValue when unset or
// malformed.
func GetenvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as bool, using default: %v", key, err)
		return defaultValue
	}
	return boolValue
}

// GetenvDuration returns key parsed as a time.Duration, or defaultValue
// when unset or malformed.
func GetenvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as duration, using default: %v", key, err)
		return defaultValue
	}
	return d
}
