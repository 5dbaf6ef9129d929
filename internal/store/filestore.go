package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore is the on-disk implementation of Store. All documents live under a
// single base directory:
//
//	<base>/user.md
//	<base>/template.md
//	<base>/output/cv_<key>.md|.pdf|.html
//
// The base directory is passed in explicitly rather than read from ambient
// process state so tests can point the store at a temp directory.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a FileStore rooted at baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// BaseDir returns the store's root directory.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// OutputDir returns the directory holding CV documents and artifacts.
func (s *FileStore) OutputDir() string {
	return filepath.Join(s.baseDir, OutputDirName)
}

// ProfilePath returns the location of the profile document.
func (s *FileStore) ProfilePath() string {
	return filepath.Join(s.baseDir, ProfileFile)
}

// TemplatePath returns the location of the template document.
func (s *FileStore) TemplatePath() string {
	return filepath.Join(s.baseDir, TemplateFile)
}

// ProfilePDFPath returns the location of the rendered profile preview.
func (s *FileStore) ProfilePDFPath() string {
	return filepath.Join(s.baseDir, ProfilePDFFile)
}

// CVPath returns the location of the CV markdown for a job.
func (s *FileStore) CVPath(jobName string) string {
	return filepath.Join(s.OutputDir(), CVFileName(jobName))
}

// ArtifactPath returns the location of the rendered artifact for a job.
func (s *FileStore) ArtifactPath(jobName, suffix string) string {
	return filepath.Join(s.OutputDir(), ArtifactFileName(jobName, suffix))
}

// ReadTemplate returns the CV template document.
func (s *FileStore) ReadTemplate() (string, error) {
	return s.readFile(s.TemplatePath())
}

// ReadProfile returns the user profile document.
func (s *FileStore) ReadProfile() (string, error) {
	return s.readFile(s.ProfilePath())
}

// WriteProfile overwrites the user profile document in full.
func (s *FileStore) WriteProfile(content string) error {
	if err := os.MkdirAll(s.baseDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(s.ProfilePath(), []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// ReadCV returns the CV document for a job identifier.
func (s *FileStore) ReadCV(jobName string) (string, error) {
	return s.readFile(s.CVPath(jobName))
}

// WriteCV overwrites the CV document for a job identifier.
func (s *FileStore) WriteCV(jobName, content string) (string, error) {
	if err := os.MkdirAll(s.OutputDir(), 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := s.CVPath(jobName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write CV: %w", err)
	}
	return path, nil
}

// ListCVs returns the rendered artifact filenames under the output directory,
// sorted by name. Only cv_*.pdf and cv_*.html files are listed.
func (s *FileStore) ListCVs() ([]string, error) {
	entries, err := os.ReadDir(s.OutputDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, cvFilePrefix) {
			continue
		}
		if strings.HasSuffix(name, SuffixPDF) || strings.HasSuffix(name, SuffixHTML) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
