package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadToken returns the access token stored at path. A missing file yields "".
func ReadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveToken stores an access token at path, readable only by the current user
func SaveToken(path, token string) error {
	if path == "" {
		return fmt.Errorf("no token file configured (set api.token_file)")
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to save an empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}
