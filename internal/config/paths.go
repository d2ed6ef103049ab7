package config

import (
	"os"
	"path/filepath"
	"strings"
)

// WorkingDir returns the process working directory, falling back to ".".
func WorkingDir() string {
	if wd, err := os.Getwd(); err == nil && strings.TrimSpace(wd) != "" {
		return wd
	}
	return "."
}

// ResolveRuntimePath resolves a relative runtime directory against the
// working directory.
func ResolveRuntimePath(raw string, fallback string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallback)
		if target == "" {
			return WorkingDir()
		}
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(WorkingDir(), target))
}
