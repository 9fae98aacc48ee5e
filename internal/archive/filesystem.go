package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"traki/internal/fleet"
)

// FileSystemArchive stores reports as files under a root directory.
// Report names are flat; nested names are rejected so a name can never
// escape the root.
type FileSystemArchive struct {
	root string
}

// NewFileSystemArchive creates a filesystem archive rooted at the given
// path, creating it if needed.
func NewFileSystemArchive(root string) (*FileSystemArchive, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileSystemArchive{root: root}, nil
}

// reportPath validates the name and returns its path under the root.
func (v *FileSystemArchive) reportPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid report name: %q", name)
	}
	return filepath.Join(v.root, name), nil
}

// Put stores a named report. An existing report of the same name is
// overwritten only after the new content is fully written.
func (v *FileSystemArchive) Put(name string, r io.Reader, size int64) error {
	destPath, err := v.reportPath(name)
	if err != nil {
		return err
	}

	// Write to a temp file first so a failed write never clobbers an
	// existing report.
	tmp, err := os.CreateTemp(v.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if size >= 0 && written != size {
		os.Remove(tmpPath)
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// Get retrieves a named report and writes it to w.
func (v *FileSystemArchive) Get(name string, w io.Writer) error {
	srcPath, err := v.reportPath(name)
	if err != nil {
		return err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("report not found: %s", name)
		}
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	return nil
}

// List returns the names of all archived reports, sorted.
func (v *FileSystemArchive) List() ([]string, error) {
	entries, err := os.ReadDir(v.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup verifies the archive directory is accessible and writable.
func (v *FileSystemArchive) ValidateSetup() error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("archive root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("archive root is not a directory: %s", v.root)
	}

	probe, err := os.CreateTemp(v.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("archive root not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// Compile-time check that FileSystemArchive implements the Archive interface
var _ fleet.Archive = (*FileSystemArchive)(nil)
