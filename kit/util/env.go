package util

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads key/values from path without overriding variables already set.
// A missing file is not an error.
func LoadEnvFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

func GetRequireEnvString(env string) string {
	envString := os.Getenv(env)
	if envString == "" {
		panic("no set env: " + env)
	}
	return envString
}

func GetEnvString(env, fallback string) string {
	envString := os.Getenv(env)
	if envString == "" {
		return fallback
	}
	return envString
}

func GetEnvStringSlice(env string, fallback []string) []string {
	envString := os.Getenv(env)
	if envString == "" {
		return fallback
	}
	var values []string
	for _, value := range strings.Split(envString, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func GetEnvBool(env string, fallback bool) bool {
	envString := os.Getenv(env)
	envBool, err := strconv.ParseBool(envString)
	if err != nil {
		return fallback
	}
	return envBool
}

func GetEnvInt(env string, fallback int) int {
	envString := os.Getenv(env)
	envInt, err := strconv.Atoi(envString)
	if err != nil {
		return fallback
	}
	return envInt
}

func GetEnvInt64(env string, fallback int64) int64 {
	envString := os.Getenv(env)
	envInt64, err := strconv.ParseInt(envString, 10, 64)
	if err != nil {
		return fallback
	}
	return envInt64
}

func GetEnvFloat64(env string, fallback float64) float64 {
	envString := os.Getenv(env)
	envFloat64, err := strconv.ParseFloat(envString, 64)
	if err != nil {
		return fallback
	}
	return envFloat64
}

// GetEnvSeconds reads an integer number of seconds.
func GetEnvSeconds(env string, fallback time.Duration) time.Duration {
	envString := os.Getenv(env)
	seconds, err := strconv.Atoi(envString)
	if err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
