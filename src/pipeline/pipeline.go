// Package pipeline drives the packaging run as a linear state machine:
//
//	Located → Resolved → DescriptorsBuilt → Built → ImageBuilt →
//	(Exported | Skipped) → Done
//
// Each stage gates the next; the first failure terminates the run and is
// reported as a StageError naming the stage. Nothing is retried.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cratedock/cratedock/src/build"
	"github.com/cratedock/cratedock/src/config"
	"github.com/cratedock/cratedock/src/descriptor"
	"github.com/cratedock/cratedock/src/project"
)

// Stage identifies one pipeline transition.
type Stage string

const (
	StageLocate      Stage = "locate"
	StageResolve     Stage = "resolve"
	StageDescriptors Stage = "descriptors"
	StageBuild       Stage = "build"
	StageImage       Stage = "image"
	StageExport      Stage = "export"
)

// StageError is the single failure terminal: which stage failed, and why.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Options configures a run. The zero value of the ambient hooks selects
// the real clock and the real git revision lookup.
type Options struct {
	StartDir  string
	Overrides config.Overrides
	Export    bool

	Now      func() time.Time    // test hook
	Revision func(string) string // test hook
}

// Plan is the fully resolved run: everything decided, nothing executed.
// Immutable once built.
type Plan struct {
	Root        string
	Config      *config.Resolved
	Labels      descriptor.Set
	ImageRef    string
	ArchivePath string // empty when export is not requested
}

// NewPlan runs the resolution stages: locate the project, merge the
// metadata tiers, derive the descriptor labels.
func NewPlan(opts Options) (*Plan, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	revision := opts.Revision
	if revision == nil {
		revision = descriptor.Revision
	}

	root, err := project.Locate(opts.StartDir)
	if err != nil {
		return nil, &StageError{Stage: StageLocate, Err: err}
	}
	log.Info().Str("root", root).Msg("project root")

	manifest, err := project.ParseManifest(root)
	if err != nil {
		return nil, &StageError{Stage: StageResolve, Err: err}
	}

	cfg := config.Resolve(root, manifest, opts.Overrides)
	labels := descriptor.Build(cfg, now(), revision(root))

	p := &Plan{
		Root:     root,
		Config:   cfg,
		Labels:   labels,
		ImageRef: build.ImageRef(cfg),
	}
	if opts.Export {
		p.ArchivePath = build.ArchivePath(root, cfg.ImageName, cfg.PrimaryTag)
	}
	return p, nil
}

// Execute runs the process-spawning stages in order, strictly
// sequentially: the release build, the image build, and the export when
// requested. An export failure does not roll back the built image.
func (p *Plan) Execute(ctx context.Context, runner build.Runner) error {
	docker := &build.Docker{Runner: runner}

	// A missing Dockerfile fails the run before any process is spawned,
	// including the release build.
	if err := docker.Validate(p.Root, p.Config); err != nil {
		return &StageError{Stage: StageImage, Err: err}
	}

	cargo := &build.Cargo{Runner: runner}
	if err := cargo.Build(ctx, p.Root); err != nil {
		return &StageError{Stage: StageBuild, Err: err}
	}

	if err := docker.Build(ctx, p.Root, p.Config, p.Labels); err != nil {
		return &StageError{Stage: StageImage, Err: err}
	}

	if p.ArchivePath == "" {
		log.Debug().Msg("export not requested, skipping")
		return nil
	}

	exporter := &build.Exporter{Runner: runner}
	if err := exporter.Export(ctx, p.Root, p.ImageRef, p.ArchivePath); err != nil {
		return &StageError{Stage: StageExport, Err: err}
	}
	return nil
}

// Run resolves and executes in one call.
func Run(ctx context.Context, opts Options, runner build.Runner) (*Plan, error) {
	p, err := NewPlan(opts)
	if err != nil {
		return nil, err
	}
	if err := p.Execute(ctx, runner); err != nil {
		return p, err
	}
	return p, nil
}
