package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// OverrideFileName is the optional project-local override file.
const OverrideFileName = "Dockerize.toml"

// FileOverrides is the [dockerize] table of the override file. It sits
// between CLI flags and the manifest in precedence.
type FileOverrides struct {
	Name            string   `toml:"name"`
	Tag             string   `toml:"tag"`
	Tags            []string `toml:"tags"`
	Dockerfile      string   `toml:"dockerfile"`
	Title           string   `toml:"title"`
	Description     string   `toml:"description"`
	Authors         string   `toml:"authors"`
	URL             string   `toml:"url"`
	Source          string   `toml:"source"`
	Vendor          string   `toml:"vendor"`
	Licenses        string   `toml:"licenses"`
	ApplicationName string   `toml:"application_name"`
}

// LoadOverrideFile reads Dockerize.toml from the project root. A missing
// file is normal and returns the zero value. A malformed file is a
// warning, not an error: its keys fall through to the next tier.
func LoadOverrideFile(root string) FileOverrides {
	path := filepath.Join(root, OverrideFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("override file unreadable, ignoring")
		}
		return FileOverrides{}
	}

	var file struct {
		Dockerize FileOverrides `toml:"dockerize"`
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("override file malformed, ignoring")
		return FileOverrides{}
	}
	return file.Dockerize
}
