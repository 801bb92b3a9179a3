package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/pgzip"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Exporter serializes a built image to a gzip-compressed archive.
type Exporter struct {
	Runner Runner
}

// ArchiveName is the deterministic archive filename for an image.
func ArchiveName(imageName, primaryTag string) string {
	return fmt.Sprintf("%s-%s.tgz", imageName, primaryTag)
}

// ArchivePath joins the archive name onto the project root.
func ArchivePath(root, imageName, primaryTag string) string {
	return filepath.Join(root, ArchiveName(imageName, primaryTag))
}

// Export runs `docker save` on imageRef and streams its output through a
// gzip writer into archivePath. The save process and the compression leg
// run as a small pipeline; a failure in either surfaces as
// ExportFailedError. The built image is never rolled back.
func (e *Exporter) Export(ctx context.Context, root, imageRef, archivePath string) error {
	log.Info().Str("image", imageRef).Str("archive", archivePath).Msg("exporting image")

	f, err := os.Create(archivePath)
	if err != nil {
		return &ExportFailedError{ArchivePath: archivePath, ExitCode: -1, Err: err}
	}
	defer f.Close()

	pr, pw := io.Pipe()

	var g errgroup.Group
	g.Go(func() error {
		defer pw.Close()
		return e.Runner.Run(ctx, Command{
			Dir:    root,
			Name:   "docker",
			Args:   []string{"save", imageRef},
			Stdout: pw,
		})
	})
	g.Go(func() error {
		zw := pgzip.NewWriter(f)
		if _, err := io.Copy(zw, pr); err != nil {
			pr.CloseWithError(err)
			return err
		}
		return zw.Close()
	})

	if err := g.Wait(); err != nil {
		f.Close()
		os.Remove(archivePath) // partial archive is useless
		return &ExportFailedError{ArchivePath: archivePath, ExitCode: exitStatus(err), Err: err}
	}

	if err := f.Close(); err != nil {
		return &ExportFailedError{ArchivePath: archivePath, ExitCode: -1, Err: err}
	}
	return nil
}
