// Package config merges the three metadata tiers (CLI overrides, the
// optional Dockerize.toml override file, and the project manifest) into
// the single resolved configuration the build stages consume.
package config

import (
	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"

	"github.com/cratedock/cratedock/src/project"
)

// DefaultDockerfile is used when no tier overrides the build file path.
const DefaultDockerfile = "Dockerfile"

// Overrides carries caller-supplied values, one per configurable field.
// An empty string means the caller did not supply the field.
type Overrides struct {
	Name            string
	Tag             string
	Tags            []string
	Dockerfile      string
	Title           string
	Description     string
	Authors         string
	URL             string
	Source          string
	Vendor          string
	Licenses        string
	ApplicationName string
}

// Resolved is the merged configuration. Built once per run, immutable after.
type Resolved struct {
	ImageName      string
	PrimaryTag     string
	AdditionalTags []string
	Dockerfile     string

	Title           string
	Description     string
	Authors         string
	URL             string
	Source          string
	Vendor          string
	Licenses        string
	ApplicationName string
}

// Resolve merges the tiers for every field, highest precedence first:
// caller override, override file, manifest (name and version only),
// hardcoded default. The manifest guarantees ImageName and PrimaryTag are
// never empty.
func Resolve(root string, m project.Manifest, ov Overrides) *Resolved {
	file := LoadOverrideFile(root)

	r := &Resolved{
		ImageName:      pick(ov.Name, file.Name, m.Name),
		PrimaryTag:     pick(ov.Tag, file.Tag, m.Version),
		AdditionalTags: pickTags(ov.Tags, file.Tags),
		Dockerfile:     pick(ov.Dockerfile, file.Dockerfile, DefaultDockerfile),

		Title:           pick(ov.Title, file.Title, ""),
		Description:     pick(ov.Description, file.Description, ""),
		Authors:         pick(ov.Authors, file.Authors, ""),
		URL:             pick(ov.URL, file.URL, ""),
		Source:          pick(ov.Source, file.Source, ""),
		Vendor:          pick(ov.Vendor, file.Vendor, ""),
		Licenses:        pick(ov.Licenses, file.Licenses, ""),
		ApplicationName: pick(ov.ApplicationName, file.ApplicationName, ""),
	}

	if _, err := semver.NewVersion(r.PrimaryTag); err != nil {
		log.Debug().Str("tag", r.PrimaryTag).Msg("primary tag is not semver")
	}

	return r
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickTags(cli, file []string) []string {
	if len(cli) > 0 {
		return cli
	}
	return file
}
