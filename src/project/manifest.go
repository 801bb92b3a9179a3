package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manifest is the package metadata read from Cargo.toml. It is the lowest
// precedence tier for image name and tag resolution.
type Manifest struct {
	Name    string
	Version string
}

// ManifestParseError reports a manifest missing a required field.
type ManifestParseError struct {
	Path  string
	Field string
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("%s: no %s field found", e.Path, e.Field)
}

// ParseManifest reads name and version from the manifest at the project
// root. The scan is line-based: the first `name =` and first `version =`
// line win, so a workspace manifest listing members later in the file
// resolves the same way cargo's own package section does. Values may be
// quoted or bare.
func ParseManifest(root string) (Manifest, error) {
	path := filepath.Join(root, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}

	m := Manifest{
		Name:    firstValue(string(data), "name"),
		Version: firstValue(string(data), "version"),
	}
	if m.Name == "" {
		return Manifest{}, &ManifestParseError{Path: path, Field: "name"}
	}
	if m.Version == "" {
		return Manifest{}, &ManifestParseError{Path: path, Field: "version"}
	}
	return m, nil
}

// firstValue returns the value of the first `key = value` line, with
// surrounding whitespace and quotes stripped. Empty if no line matches.
func firstValue(content, key string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, key) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, key))
		if !strings.HasPrefix(rest, "=") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(rest, "="))
		return strings.Trim(value, `"`)
	}
	return ""
}
