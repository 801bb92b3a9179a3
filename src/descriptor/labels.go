// Package descriptor derives the OCI image labels embedded in the built
// image from the resolved configuration plus ambient context (clock,
// source-control revision).
package descriptor

import (
	"time"

	"github.com/cratedock/cratedock/src/config"
)

// Well-known OCI image annotation keys. Consumers inspecting built images
// rely on these exact strings.
const (
	LabelTitle           = "org.opencontainers.image.title"
	LabelDescription     = "org.opencontainers.image.description"
	LabelVersion         = "org.opencontainers.image.version"
	LabelCreated         = "org.opencontainers.image.created"
	LabelAuthors         = "org.opencontainers.image.authors"
	LabelURL             = "org.opencontainers.image.url"
	LabelSource          = "org.opencontainers.image.source"
	LabelRevision        = "org.opencontainers.image.revision"
	LabelVendor          = "org.opencontainers.image.vendor"
	LabelLicenses        = "org.opencontainers.image.licenses"
	LabelApplicationName = "org.opencontainers.image.ref.name"
)

// Label is a single key/value image annotation.
type Label struct {
	Key   string
	Value string
}

// Set is an ordered label collection. Order is part of the contract: the
// image build invocation passes labels in exactly this order.
type Set []Label

// Build derives the label set. The version and created labels are always
// present; every other label is included only when its field is non-empty.
func Build(cfg *config.Resolved, now time.Time, revision string) Set {
	s := Set{
		{LabelVersion, cfg.PrimaryTag},
		{LabelCreated, now.UTC().Format(time.RFC3339)},
	}

	s = s.add(LabelTitle, cfg.Title)
	s = s.add(LabelDescription, cfg.Description)
	s = s.add(LabelAuthors, cfg.Authors)
	s = s.add(LabelURL, cfg.URL)
	s = s.add(LabelSource, cfg.Source)
	s = s.add(LabelRevision, revision)
	s = s.add(LabelVendor, cfg.Vendor)
	s = s.add(LabelLicenses, cfg.Licenses)
	s = s.add(LabelApplicationName, cfg.ApplicationName)

	return s
}

func (s Set) add(key, value string) Set {
	if value == "" {
		return s
	}
	return append(s, Label{key, value})
}

// Get returns the value for key, or "" if absent.
func (s Set) Get(key string) string {
	for _, l := range s {
		if l.Key == key {
			return l.Value
		}
	}
	return ""
}
