// Package artifact writes the output index documents: one whole-file JSON
// write per artifact, guarded by an existence check unless forced.
package artifact

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Path returns the airport-scoped location of a named artifact.
func Path(outDir, airport, name string) string {
	return filepath.Join(outDir, airport, name+".json")
}

// ShouldSkip reports whether an existing artifact makes this run a no-op.
// Skipping is success, not an error.
func ShouldSkip(path string, force bool) bool {
	if force {
		return false
	}
	if _, err := os.Stat(path); err == nil {
		log.Printf("artifact: %s exists, skipping (use --force to rebuild)", path)
		return true
	}
	return false
}

// WriteJSON creates parent directories as needed and writes the document in
// a single whole-file write.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	log.Printf("artifact: wrote %s (%d bytes)", path, len(data))
	return nil
}
