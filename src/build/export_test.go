package build

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/pgzip"
)

func TestArchiveName(t *testing.T) {
	tests := []struct {
		name, tag, want string
	}{
		{"demo", "0.1.0", "demo-0.1.0.tgz"},
		{"app", "1.0.0", "app-1.0.0.tgz"},
		{"app", "latest", "app-latest.tgz"},
	}
	for _, tt := range tests {
		if got := ArchiveName(tt.name, tt.tag); got != tt.want {
			t.Errorf("ArchiveName(%q, %q) = %q, want %q", tt.name, tt.tag, got, tt.want)
		}
	}
}

func TestExportWritesCompressedArchive(t *testing.T) {
	root := t.TempDir()
	archive := ArchivePath(root, "app", "1.0.0")

	r := &fakeRunner{stdout: "layer-tar-bytes"}
	e := &Exporter{Runner: r}
	if err := e.Export(context.Background(), root, "app:1.0.0", archive); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if len(r.commands) != 1 {
		t.Fatalf("spawned %d processes, want 1", len(r.commands))
	}
	cmd := r.commands[0]
	if want := []string{"save", "app:1.0.0"}; cmd.Name != "docker" || !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("command = %s %v, want docker %v", cmd.Name, cmd.Args, want)
	}

	f, err := os.Open(archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()
	zr, err := pgzip.NewReader(f)
	if err != nil {
		t.Fatalf("archive is not gzip: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(data) != "layer-tar-bytes" {
		t.Errorf("archive content = %q, want saved stream", data)
	}
}

func TestExportFailureRemovesPartialArchive(t *testing.T) {
	root := t.TempDir()
	archive := ArchivePath(root, "app", "1.0.0")

	r := &fakeRunner{err: errors.New("no such image")}
	e := &Exporter{Runner: r}
	err := e.Export(context.Background(), root, "app:1.0.0", archive)

	var failed *ExportFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want *ExportFailedError", err)
	}
	if failed.ArchivePath != archive {
		t.Errorf("ArchivePath = %q, want %q", failed.ArchivePath, archive)
	}
	if _, statErr := os.Stat(archive); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("partial archive left behind: stat err = %v", statErr)
	}
}

func TestExportUncreatableArchivePath(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(root, "no", "such", "dir", "app-1.0.0.tgz")

	r := &fakeRunner{}
	e := &Exporter{Runner: r}
	err := e.Export(context.Background(), root, "app:1.0.0", archive)

	var failed *ExportFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want *ExportFailedError", err)
	}
	if len(r.commands) != 0 {
		t.Errorf("spawned %d processes despite unwritable archive path", len(r.commands))
	}
}
