package store

import (
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory Store used by tests. Paths returned by CVPath and
// ArtifactPath are synthetic keys, not filesystem locations.
type MemStore struct {
	mu       sync.Mutex
	template string
	hasTmpl  bool
	profile  string
	hasProf  bool
	cvs      map[string]string
	rendered map[string]bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		cvs:      make(map[string]string),
		rendered: make(map[string]bool),
	}
}

// SetTemplate seeds the template document.
func (s *MemStore) SetTemplate(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = content
	s.hasTmpl = true
}

// ReadTemplate returns the seeded template document.
func (s *MemStore) ReadTemplate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTmpl {
		return "", fmt.Errorf("%w: %s", ErrNotFound, TemplateFile)
	}
	return s.template, nil
}

// ReadProfile returns the profile document.
func (s *MemStore) ReadProfile() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasProf {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ProfileFile)
	}
	return s.profile, nil
}

// WriteProfile overwrites the profile document.
func (s *MemStore) WriteProfile(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = content
	s.hasProf = true
	return nil
}

// ReadCV returns the CV document for a job identifier.
func (s *MemStore) ReadCV(jobName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.cvs[NormalizeJobName(jobName)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, CVFileName(jobName))
	}
	return content, nil
}

// WriteCV overwrites the CV document for a job identifier.
func (s *MemStore) WriteCV(jobName, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cvs[NormalizeJobName(jobName)] = content
	return s.CVPath(jobName), nil
}

// MarkRendered records a rendered artifact, for ListCVs.
func (s *MemStore) MarkRendered(jobName, suffix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered[ArtifactFileName(jobName, suffix)] = true
}

// ListCVs returns recorded artifact names, sorted.
func (s *MemStore) ListCVs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for name := range s.rendered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CVPath returns a synthetic key for the CV document.
func (s *MemStore) CVPath(jobName string) string {
	return "mem://" + CVFileName(jobName)
}

// ArtifactPath returns a synthetic key for the rendered artifact.
func (s *MemStore) ArtifactPath(jobName, suffix string) string {
	return "mem://" + ArtifactFileName(jobName, suffix)
}
