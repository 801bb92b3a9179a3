package build

import "fmt"

// MissingBuildFileError reports a Dockerfile that does not exist at its
// resolved path. Raised before any process is spawned.
type MissingBuildFileError struct {
	Path string
}

func (e *MissingBuildFileError) Error() string {
	return fmt.Sprintf("Dockerfile not found at %s", e.Path)
}

// BuildFailedError reports a failed cargo build. ExitCode is -1 when the
// process could not be launched at all.
type BuildFailedError struct {
	ExitCode int
	Err      error
}

func (e *BuildFailedError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("cargo build failed with exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("cargo build failed to launch: %v", e.Err)
}

func (e *BuildFailedError) Unwrap() error { return e.Err }

// ImageBuildFailedError reports a failed docker build.
type ImageBuildFailedError struct {
	ImageRef string
	ExitCode int
	Err      error
}

func (e *ImageBuildFailedError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("docker build of %s failed with exit code %d", e.ImageRef, e.ExitCode)
	}
	return fmt.Sprintf("docker build of %s failed to launch: %v", e.ImageRef, e.Err)
}

func (e *ImageBuildFailedError) Unwrap() error { return e.Err }

// ExportFailedError reports a failed image export. The image itself is
// already built and is not rolled back.
type ExportFailedError struct {
	ArchivePath string
	ExitCode    int
	Err         error
}

func (e *ExportFailedError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("export to %s failed with exit code %d", e.ArchivePath, e.ExitCode)
	}
	return fmt.Sprintf("export to %s failed: %v", e.ArchivePath, e.Err)
}

func (e *ExportFailedError) Unwrap() error { return e.Err }
