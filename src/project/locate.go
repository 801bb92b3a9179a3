// Package project discovers the Cargo project a build runs against and
// parses the package metadata the rest of the pipeline falls back on.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the file that marks a project root.
const ManifestName = "Cargo.toml"

// NotFoundError reports that no manifest exists in start or any ancestor.
type NotFoundError struct {
	Start string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %s or any parent directory", ManifestName, e.Start)
}

// Locate walks upward from start looking for a directory containing the
// manifest. It returns the first match as an absolute path.
func Locate(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving start directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{Start: start}
		}
		dir = parent
	}
}
