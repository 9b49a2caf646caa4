package utils

import "github.com/google/uuid"

// GenerateUniqueID returns a random identifier suitable for journal entry keys.
func GenerateUniqueID() string {
	return uuid.NewString()
}
