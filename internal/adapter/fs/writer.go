package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdoutPath makes ArtifactFile write to standard output.
const StdoutPath = "-"

// ArtifactFile writes the extraction output to a fixed path, replacing any previous
// content. The write goes to a temp file in the same directory first and is renamed
// into place, so readers never see a partial artifact.
type ArtifactFile struct {
	path   string
	stdout io.Writer
}

func NewArtifactFile(path string) *ArtifactFile {
	return &ArtifactFile{path: path, stdout: os.Stdout}
}

func (a *ArtifactFile) Path() string {
	return a.path
}

func (a *ArtifactFile) Write(content string) error {
	if a.path == StdoutPath {
		_, err := io.WriteString(a.stdout, content)
		return err
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(a.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set artifact permissions: %w", err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}
