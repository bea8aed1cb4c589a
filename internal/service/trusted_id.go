package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// EnsureTrustedID returns the trusted device identifier stored at path,
// generating and persisting a fresh one on first use. The identifier lets
// the server skip repeated two-factor prompts for a device it has already
// seen. An empty path disables the mechanism.
func EnsureTrustedID(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read trusted id file: %w", err)
	}

	// 32 characters, matching what the official clients generate.
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("create trusted id dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(id), 0o600); err != nil {
		return "", fmt.Errorf("write trusted id file: %w", err)
	}

	return id, nil
}
