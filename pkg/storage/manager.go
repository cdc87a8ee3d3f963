package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager handles image file storage and duplicate detection. Destination
// paths are derived from animal names via Slugify, so each animal owns a
// distinct file and concurrent workers never contend on a write.
type Manager struct {
	outputDir string
	resolved  map[string]bool // slug -> present on disk
	mu        sync.RWMutex
}

// NewManager creates a storage manager rooted at outputDir
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	manager := &Manager{
		outputDir: outputDir,
		resolved:  make(map[string]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing images: %w", err)
	}

	return manager, nil
}

// scanExistingFiles indexes already-downloaded images so re-runs can skip them
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".jpg" {
			slug := strings.TrimSuffix(entry.Name(), ".jpg")
			m.resolved[slug] = true
		}
	}

	return nil
}

// ImagePath returns the destination path for the named animal
func (m *Manager) ImagePath(name string) string {
	return filepath.Join(m.outputDir, Slugify(name)+".jpg")
}

// HasImage checks if an image for the named animal already exists
func (m *Manager) HasImage(name string) bool {
	slug := Slugify(name)

	m.mu.RLock()
	known := m.resolved[slug]
	m.mu.RUnlock()
	if known {
		return true
	}

	// Not in the index; double-check the filesystem in case another run
	// wrote it after our scan
	if _, err := os.Stat(filepath.Join(m.outputDir, slug+".jpg")); err == nil {
		m.mu.Lock()
		m.resolved[slug] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// Save writes an image for the named animal from the given reader and
// returns the destination path. The write goes through a temp file with an
// atomic rename.
func (m *Manager) Save(r io.Reader, name string) (string, error) {
	slug := Slugify(name)
	filename := filepath.Join(m.outputDir, slug+".jpg")

	tmp := filename + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to save image data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.markResolved(slug)
	return filename, nil
}

// CopyPlaceholder copies the placeholder image to the named animal's
// destination path and returns that path
func (m *Manager) CopyPlaceholder(placeholderPath, name string) (string, error) {
	src, err := os.Open(placeholderPath)
	if err != nil {
		return "", fmt.Errorf("failed to open placeholder: %w", err)
	}
	defer src.Close()

	return m.Save(src, name)
}

// MarkResolved records that the named animal's image exists (used for the
// idempotent short-circuit when Fetch wrote the file directly)
func (m *Manager) MarkResolved(name string) {
	m.markResolved(Slugify(name))
}

func (m *Manager) markResolved(slug string) {
	m.mu.Lock()
	m.resolved[slug] = true
	m.mu.Unlock()
}

// OutputDir returns the image directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// ResolvedCount returns the number of images known to exist
func (m *Manager) ResolvedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.resolved)
}
