package outfile

import (
	"bytes"
	"os"
)

// GeneratedPath is where the Go file generated from a .gsx source lives.
func GeneratedPath(gsxPath string) string {
	return gsxPath + ".go"
}

// WriteGeneratedFile writes src to outPath unless the file already holds
// exactly src, and reports whether it wrote. Skipping identical content keeps
// modification times stable for watchers and build caches.
func WriteGeneratedFile(outPath string, src []byte) (bool, error) {
	if old, err := os.ReadFile(outPath); err == nil && bytes.Equal(old, src) {
		return false, nil
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
