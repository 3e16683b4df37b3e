package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteAtomic replaces the file at path via a temp file and rename so
// readers never observe a partial write.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cant create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cant write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cant close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("cant rename temp file into place: %w", err)
	}
	return nil
}
