package build

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Cargo runs the release build of the project binary.
type Cargo struct {
	Runner Runner
}

// Build runs `cargo build --release` with the project root as working
// directory, streaming compiler output through unmodified.
func (c *Cargo) Build(ctx context.Context, root string) error {
	log.Info().Str("root", root).Msg("building release binary")

	err := c.Runner.Run(ctx, Command{
		Dir:  root,
		Name: "cargo",
		Args: []string{"build", "--release"},
	})
	if err != nil {
		return &BuildFailedError{ExitCode: exitStatus(err), Err: err}
	}
	return nil
}
