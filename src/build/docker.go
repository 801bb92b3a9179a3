package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/cratedock/cratedock/src/config"
	"github.com/cratedock/cratedock/src/descriptor"
)

// Docker builds the container image from the project root.
type Docker struct {
	Runner Runner
}

// ImageRef is the primary image reference, `name:tag`.
func ImageRef(cfg *config.Resolved) string {
	return fmt.Sprintf("%s:%s", cfg.ImageName, cfg.PrimaryTag)
}

// DockerfilePath resolves the configured Dockerfile against the project
// root. An absolute override is used as given.
func DockerfilePath(root string, cfg *config.Resolved) string {
	if filepath.IsAbs(cfg.Dockerfile) {
		return cfg.Dockerfile
	}
	return filepath.Join(root, cfg.Dockerfile)
}

// Validate checks that the resolved Dockerfile exists. Run before any
// process is spawned so a bad path fails the run without a single launch.
func (d *Docker) Validate(root string, cfg *config.Resolved) error {
	dockerfile := DockerfilePath(root, cfg)
	if _, err := os.Stat(dockerfile); err != nil {
		return &MissingBuildFileError{Path: dockerfile}
	}
	return nil
}

// Build invokes `docker build` once with every tag and label.
func (d *Docker) Build(ctx context.Context, root string, cfg *config.Resolved, labels descriptor.Set) error {
	if err := d.Validate(root, cfg); err != nil {
		return err
	}
	dockerfile := DockerfilePath(root, cfg)

	ref := ImageRef(cfg)
	log.Info().Str("image", ref).Int("tags", 1+len(cfg.AdditionalTags)).Msg("building image")

	err := d.Runner.Run(ctx, Command{
		Dir:  root,
		Name: "docker",
		Args: buildArgs(dockerfile, cfg, labels),
	})
	if err != nil {
		return &ImageBuildFailedError{ImageRef: ref, ExitCode: exitStatus(err), Err: err}
	}
	return nil
}

// buildArgs constructs the docker build argument list. Additional tags and
// labels keep their input order.
func buildArgs(dockerfile string, cfg *config.Resolved, labels descriptor.Set) []string {
	args := []string{"build", "--file", dockerfile, "--tag", ImageRef(cfg)}

	for _, tag := range cfg.AdditionalTags {
		args = append(args, "--tag", fmt.Sprintf("%s:%s", cfg.ImageName, tag))
	}

	for _, l := range labels {
		args = append(args, "--label", fmt.Sprintf("%s=%s", l.Key, l.Value))
	}

	return append(args, ".")
}
