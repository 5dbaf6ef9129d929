// Package render converts CV markdown documents into paginated artifacts via
// pandoc. It probes the locally installed PDF engines, applies per-engine
// styling arguments tuned for single-page CVs, and degrades to a styled HTML
// artifact when no PDF engine is available.
package render

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// enginePreference is the probe order for installed PDF engines. Weasyprint
// has the best CSS support and list rendering, so it comes first; the LaTeX
// engines are fallbacks with their own styling profile.
var enginePreference = []string{"weasyprint", "wkhtmltopdf", "xelatex", "pdflatex"}

// Format identifies the artifact format a render produced.
type Format string

// Artifact formats.
const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// Result describes a completed render.
type Result struct {
	OutputPath string
	Format     Format
	// Engine is the PDF engine used; empty when the render degraded to HTML.
	Engine string
	// Degraded is true when no PDF engine was installed and an HTML artifact
	// was produced instead.
	Degraded bool
}

// Renderer drives pandoc. The exec hooks exist so tests can run without
// pandoc or any PDF engine installed.
type Renderer struct {
	assetsDir string

	lookPath func(file string) (string, error)
	run      func(name string, args ...string) ([]byte, error)
}

// New creates a Renderer whose stylesheet and LaTeX header assets live under
// assetsDir. Missing assets are materialized from embedded defaults.
func New(assetsDir string) *Renderer {
	return &Renderer{
		assetsDir: assetsDir,
		lookPath:  exec.LookPath,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}
}

// ProbeEngine returns the first installed PDF engine in preference order, or
// empty string when none is installed.
func (r *Renderer) ProbeEngine() string {
	for _, engine := range enginePreference {
		if _, err := r.lookPath(engine); err == nil {
			return engine
		}
	}
	return ""
}

// RenderPDF converts markdownPath into a PDF at pdfPath using the first
// available engine. When no engine is installed it renders a styled HTML
// artifact at htmlPath instead and reports the degradation in the Result.
func (r *Renderer) RenderPDF(markdownPath, pdfPath, htmlPath string) (*Result, error) {
	if err := r.checkPandoc(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(markdownPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("markdown file not found: %s", markdownPath)
	}

	cssPath, err := r.ensureStylesheet()
	if err != nil {
		return nil, err
	}

	engine := r.ProbeEngine()
	if engine == "" {
		if err := r.renderHTML(markdownPath, htmlPath, cssPath); err != nil {
			return nil, err
		}
		return &Result{OutputPath: htmlPath, Format: FormatHTML, Degraded: true}, nil
	}

	args := []string{"--standalone", "--pdf-engine=" + engine}
	if isLatexEngine(engine) {
		headerPath, headerErr := r.ensureLatexHeader()
		if headerErr != nil {
			return nil, headerErr
		}
		args = append(args, latexStyleArgs(headerPath)...)
	} else {
		// weasyprint and wkhtmltopdf both take stylesheet-based styling.
		args = append(args, "--css", cssPath)
	}
	args = append(args, "-o", pdfPath, markdownPath)

	output, err := r.run("pandoc", args...)
	if err != nil {
		return nil, fmt.Errorf("pandoc failed with engine %s: %w: %s", engine, err, string(output))
	}

	return &Result{OutputPath: pdfPath, Format: FormatPDF, Engine: engine}, nil
}

// renderHTML produces the degraded styled HTML artifact.
func (r *Renderer) renderHTML(markdownPath, htmlPath, cssPath string) error {
	args := []string{
		"-f", "markdown",
		"-t", "html",
		"--standalone",
		"--css", cssPath,
		"--metadata", "title=CV",
		"-o", htmlPath,
		markdownPath,
	}
	output, err := r.run("pandoc", args...)
	if err != nil {
		return fmt.Errorf("pandoc HTML fallback failed: %w: %s", err, string(output))
	}
	return nil
}

// latexStyleArgs returns the typesetting arguments for the LaTeX engine
// family: tight single-page geometry plus a generated header fragment with the
// list and paragraph spacing rules.
func latexStyleArgs(headerPath string) []string {
	return []string{
		"-V", "geometry:margin=0.6in",
		"-V", "fontsize=10pt",
		"-V", "linestretch=1.05",
		"-H", headerPath,
	}
}

func isLatexEngine(engine string) bool {
	return engine == "xelatex" || engine == "pdflatex"
}

func (r *Renderer) checkPandoc() error {
	if _, err := r.lookPath("pandoc"); err != nil {
		return fmt.Errorf("pandoc not found in PATH (install pandoc to generate documents)")
	}
	return nil
}

// ensureStylesheet materializes the embedded default stylesheet into the
// assets directory if no stylesheet exists there yet, and returns its path.
func (r *Renderer) ensureStylesheet() (string, error) {
	cssPath := filepath.Join(r.assetsDir, "cv_style.css")
	if _, err := os.Stat(cssPath); err == nil {
		return cssPath, nil
	}
	if err := os.MkdirAll(r.assetsDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create assets directory: %w", err)
	}
	if err := os.WriteFile(cssPath, []byte(defaultStylesheet), 0600); err != nil {
		return "", fmt.Errorf("failed to write stylesheet: %w", err)
	}
	return cssPath, nil
}

// ensureLatexHeader writes the LaTeX header fragment used by the typesetting
// engines. The fragment is regenerated on each render so upgrades take effect.
func (r *Renderer) ensureLatexHeader() (string, error) {
	headerPath := filepath.Join(r.assetsDir, "cv_header.tex")
	if err := os.MkdirAll(r.assetsDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create assets directory: %w", err)
	}
	if err := os.WriteFile(headerPath, []byte(latexHeader), 0600); err != nil {
		return "", fmt.Errorf("failed to write LaTeX header: %w", err)
	}
	return headerPath, nil
}
