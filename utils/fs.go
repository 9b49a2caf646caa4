package utils

import (
	"fmt"
	"os"
)

// CreateFolder creates a directory (and parents) if it doesn't already exist.
func CreateFolder(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", path, err)
	}
	return nil
}
