package utils

import "os"

// GetEnv reads an environment variable, falling back to a default when unset.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
