package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cratedock/cratedock/src/config"
	"github.com/cratedock/cratedock/src/descriptor"
)

// fakeRunner records every invocation instead of spawning processes.
type fakeRunner struct {
	commands []Command
	err      error
	stdout   string // written to cmd.Stdout when set
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) error {
	f.commands = append(f.commands, cmd)
	if f.stdout != "" && cmd.Stdout != nil {
		if _, err := cmd.Stdout.Write([]byte(f.stdout)); err != nil {
			return err
		}
	}
	return f.err
}

func projectWithDockerfile(t *testing.T, name string) string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("FROM scratch\n"), 0o644); err != nil {
		t.Fatalf("write dockerfile: %v", err)
	}
	return root
}

func TestDockerBuildArgs(t *testing.T) {
	root := projectWithDockerfile(t, "Dockerfile")
	cfg := &config.Resolved{
		ImageName:      "app",
		PrimaryTag:     "1.0.0",
		AdditionalTags: []string{"latest", "stable"},
		Dockerfile:     "Dockerfile",
	}
	labels := descriptor.Set{
		{Key: descriptor.LabelVersion, Value: "1.0.0"},
		{Key: descriptor.LabelVendor, Value: "Acme"},
	}

	r := &fakeRunner{}
	d := &Docker{Runner: r}
	if err := d.Build(context.Background(), root, cfg, labels); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(r.commands) != 1 {
		t.Fatalf("spawned %d processes, want 1", len(r.commands))
	}
	cmd := r.commands[0]
	if cmd.Name != "docker" {
		t.Errorf("command = %q, want docker", cmd.Name)
	}
	if cmd.Dir != root {
		t.Errorf("dir = %q, want project root %q", cmd.Dir, root)
	}
	want := []string{
		"build",
		"--file", filepath.Join(root, "Dockerfile"),
		"--tag", "app:1.0.0",
		"--tag", "app:latest",
		"--tag", "app:stable",
		"--label", descriptor.LabelVersion + "=1.0.0",
		"--label", descriptor.LabelVendor + "=Acme",
		".",
	}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("args = %v\nwant   %v", cmd.Args, want)
	}
}

func TestDockerBuildMissingDockerfile(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Resolved{ImageName: "app", PrimaryTag: "1.0.0", Dockerfile: "Dockerfile"}

	r := &fakeRunner{}
	d := &Docker{Runner: r}
	err := d.Build(context.Background(), root, cfg, nil)

	var missing *MissingBuildFileError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingBuildFileError", err)
	}
	if missing.Path != filepath.Join(root, "Dockerfile") {
		t.Errorf("Path = %q, want resolved path", missing.Path)
	}
	if len(r.commands) != 0 {
		t.Errorf("spawned %d processes, want none before the Dockerfile check", len(r.commands))
	}
}

func TestDockerBuildRelativeDockerfileOverride(t *testing.T) {
	root := projectWithDockerfile(t, filepath.Join("docker", "Dockerfile.release"))
	cfg := &config.Resolved{
		ImageName:  "app",
		PrimaryTag: "1.0.0",
		Dockerfile: filepath.Join("docker", "Dockerfile.release"),
	}

	r := &fakeRunner{}
	d := &Docker{Runner: r}
	if err := d.Build(context.Background(), root, cfg, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got, want := r.commands[0].Args[2], filepath.Join(root, "docker", "Dockerfile.release"); got != want {
		t.Errorf("--file arg = %q, want %q", got, want)
	}
}

func TestDockerBuildFailure(t *testing.T) {
	root := projectWithDockerfile(t, "Dockerfile")
	cfg := &config.Resolved{ImageName: "app", PrimaryTag: "1.0.0", Dockerfile: "Dockerfile"}

	r := &fakeRunner{err: errors.New("boom")}
	d := &Docker{Runner: r}
	err := d.Build(context.Background(), root, cfg, nil)

	var failed *ImageBuildFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want *ImageBuildFailedError", err)
	}
	if failed.ImageRef != "app:1.0.0" {
		t.Errorf("ImageRef = %q, want app:1.0.0", failed.ImageRef)
	}
	if failed.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1 for a launch failure", failed.ExitCode)
	}
}
