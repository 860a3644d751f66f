package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile encodes the tree and replaces path with the result. The document
// goes to a temporary file next to path first, so a failure never leaves a
// truncated output behind.
func WriteFile(path string, t *CodeTree, ensureASCII bool) (int, error) {
	doc, err := Encode(t, ensureASCII)
	if err != nil {
		return 0, fmt.Errorf("encode tree: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("rename output: %w", err)
	}
	return len(doc), nil
}
