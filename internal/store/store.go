// Package store provides the flat-file persistence layer for the profile,
// template, and per-job CV documents, plus the paths of rendered artifacts.
package store

import (
	"fmt"
	"strings"
)

// Well-known document names inside the data directory.
const (
	ProfileFile       = "user.md"
	TemplateFile      = "template.md"
	ProfilePDFFile    = "profile_preview.pdf"
	OutputDirName     = "output"
	AssetsDirName     = "assets"
	StylesheetFile    = "cv_style.css"
	LatexHeaderFile   = "cv_header.tex"
	cvFilePrefix     = "cv_"
	cvMarkdownSuffix = ".md"

	// SuffixPDF and SuffixHTML select the rendered artifact format.
	SuffixPDF  = ".pdf"
	SuffixHTML = ".html"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = fmt.Errorf("document not found")

// Store abstracts the document store so the tool registry can be tested
// against an in-memory implementation.
type Store interface {
	// ReadTemplate returns the CV template document.
	ReadTemplate() (string, error)
	// ReadProfile returns the user profile document.
	ReadProfile() (string, error)
	// WriteProfile overwrites the user profile document in full.
	WriteProfile(content string) error
	// ReadCV returns the CV document for a job identifier.
	ReadCV(jobName string) (string, error)
	// WriteCV overwrites the CV document for a job identifier and returns the
	// storage location it was written to.
	WriteCV(jobName, content string) (string, error)
	// ListCVs returns the rendered artifact filenames, sorted.
	ListCVs() ([]string, error)
	// CVPath returns the storage location of the CV markdown for a job.
	CVPath(jobName string) string
	// ArtifactPath returns the storage location of the rendered artifact for a
	// job, with the given suffix (".pdf" or ".html").
	ArtifactPath(jobName, suffix string) string
}

// NormalizeJobName maps a human-entered job name to its storage key.
// Lower-cases the input and replaces each space and hyphen with an underscore,
// so "Google PM", "google-pm" and "GOOGLE_PM" all resolve to "google_pm".
// The mapping is deterministic and idempotent.
func NormalizeJobName(jobName string) string {
	key := strings.ToLower(jobName)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// CVFileName returns the markdown filename for a job identifier.
func CVFileName(jobName string) string {
	return cvFilePrefix + NormalizeJobName(jobName) + cvMarkdownSuffix
}

// ArtifactFileName returns the artifact filename for a job identifier with the
// given suffix.
func ArtifactFileName(jobName, suffix string) string {
	return cvFilePrefix + NormalizeJobName(jobName) + suffix
}
