package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-studio/internal/conversation"
	"github.com/jonathan/cv-studio/internal/render"
	"github.com/jonathan/cv-studio/internal/store"
)

type fakeRenderer struct {
	calls  int
	result *render.Result
	err    error
}

func (f *fakeRenderer) RenderPDF(markdownPath, pdfPath, htmlPath string) (*render.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &render.Result{OutputPath: pdfPath, Format: render.FormatPDF, Engine: "weasyprint"}, nil
}

type fakeExtractor struct {
	configured bool
	content    string
	err        error
	urls       []string
}

func (f *fakeExtractor) Configured() bool { return f.configured }

func (f *fakeExtractor) Extract(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.content, f.err
}

type fakeFetcher struct {
	content string
	err     error
	urls    []string
}

func (f *fakeFetcher) JobPosting(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.content, f.err
}

type fakeTransformer struct {
	output string
	err    error
	inputs []string
}

func (f *fakeTransformer) CleanJobDescription(_ context.Context, content string) (string, error) {
	f.inputs = append(f.inputs, content)
	return f.output, f.err
}

func (f *fakeTransformer) TranslateJobDescription(_ context.Context, content string) (string, error) {
	f.inputs = append(f.inputs, content)
	return f.output, f.err
}

func (f *fakeTransformer) AnalyzeJobRequirements(_ context.Context, content string) (string, error) {
	f.inputs = append(f.inputs, content)
	return f.output, f.err
}

func (f *fakeTransformer) PolishCV(_ context.Context, jobDescription, cv string) (string, error) {
	f.inputs = append(f.inputs, jobDescription, cv)
	return f.output, f.err
}

type testDeps struct {
	store       *store.MemStore
	renderer    *fakeRenderer
	extractor   *fakeExtractor
	fetcher     *fakeFetcher
	transformer *fakeTransformer
}

func newTestRegistry(t *testing.T) (*Registry, *testDeps) {
	t.Helper()
	deps := &testDeps{
		store:       store.NewMemStore(),
		renderer:    &fakeRenderer{},
		extractor:   &fakeExtractor{},
		fetcher:     &fakeFetcher{},
		transformer: &fakeTransformer{},
	}
	registry, err := NewRegistry(deps.store, deps.renderer, deps.extractor, deps.fetcher, deps.transformer)
	require.NoError(t, err)
	return registry, deps
}

func call(name string, args map[string]any) conversation.ToolCall {
	return conversation.ToolCall{ID: "t1", Name: name, Args: args}
}

func TestDefinitionsCoverCatalogue(t *testing.T) {
	registry, _ := newTestRegistry(t)

	var names []string
	for _, spec := range registry.Definitions() {
		names = append(names, spec.Name)
	}
	assert.Equal(t, []string{
		"read_template", "read_user_data", "write_user_data",
		"read_cv", "write_cv", "generate_pdf", "extract_job_url",
		"clean_job_description", "translate_job_description",
		"analyze_job_requirements", "polish_cv",
	}, names)
}

func TestUnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result := registry.Execute(t.Context(), call("delete_everything", nil))
	assert.Equal(t, "Error: unknown tool 'delete_everything'", result)
}

func TestInvalidArguments(t *testing.T) {
	registry, _ := newTestRegistry(t)

	// Missing required job_name.
	result := registry.Execute(t.Context(), call("read_cv", map[string]any{}))
	assert.Contains(t, result, "Error: invalid arguments for read_cv")

	// Wrong type.
	result = registry.Execute(t.Context(), call("read_cv", map[string]any{"job_name": 42}))
	assert.Contains(t, result, "Error: invalid arguments for read_cv")
}

func TestReadTemplateMissing(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result := registry.Execute(t.Context(), call("read_template", nil))
	assert.Equal(t, "Error: template.md not found", result)
}

func TestReadTemplate(t *testing.T) {
	registry, deps := newTestRegistry(t)
	deps.store.SetTemplate("# Template\n\nRules.")

	result := registry.Execute(t.Context(), call("read_template", nil))
	assert.Equal(t, "# Template\n\nRules.", result)
}

func TestReadUserDataMissing(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result := registry.Execute(t.Context(), call("read_user_data", nil))
	assert.Equal(t, "Error: user.md not found. Please create data/user.md with your information.", result)
}

func TestWriteThenReadUserData(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result := registry.Execute(t.Context(), call("write_user_data", map[string]any{"content": "# Jane Doe"}))
	assert.Equal(t, "✅ Profile updated successfully! The changes have been saved to user.md.", result)

	result = registry.Execute(t.Context(), call("read_user_data", nil))
	assert.Equal(t, "# Jane Doe", result)
}

func TestReadCVMissing(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result := registry.Execute(t.Context(), call("read_cv", map[string]any{"job_name": "Google PM"}))
	// The message echoes the caller's spelling, not the normalized key.
	assert.Equal(t, "No CV exists for job 'Google PM' yet.", result)
}

func TestWriteCVRoundTrip(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result := registry.Execute(t.Context(), call("write_cv", map[string]any{
		"job_name": "Google PM",
		"content":  "# Jane Doe\nBerlin, Germany\njane@example.com\n\n## EXPERIENCE\n- Led a team",
	}))
	assert.Contains(t, result, "CV written to ")
	assert.Contains(t, result, "generate_pdf('Google PM')")

	// Reading back under any equivalent spelling returns the stored form,
	// with the line-break markers the normalization added.
	read := registry.Execute(t.Context(), call("read_cv", map[string]any{"job_name": "google-pm"}))
	assert.Equal(t, "# Jane Doe\nBerlin, Germany  \njane@example.com\n\n## EXPERIENCE\n- Led a team", read)
}

func TestGeneratePDFWithoutCV(t *testing.T) {
	registry, deps := newTestRegistry(t)

	result := registry.Execute(t.Context(), call("generate_pdf", map[string]any{"job_name": "acme"}))
	assert.Contains(t, result, "Error: No markdown file found at ")
	assert.Contains(t, result, "Call write_cv first.")
	// No render attempt was made.
	assert.Zero(t, deps.renderer.calls)
}

func TestGeneratePDFSuccess(t *testing.T) {
	registry, deps := newTestRegistry(t)
	_, err := deps.store.WriteCV("acme", "# CV")
	require.NoError(t, err)

	result := registry.Execute(t.Context(), call("generate_pdf", map[string]any{"job_name": "acme"}))
	assert.Contains(t, result, "PDF generated successfully at ")
	assert.Contains(t, result, "cv_acme.pdf")
	assert.Equal(t, 1, deps.renderer.calls)
}

func TestGeneratePDFDegradedToHTML(t *testing.T) {
	registry, deps := newTestRegistry(t)
	_, err := deps.store.WriteCV("acme", "# CV")
	require.NoError(t, err)
	deps.renderer.result = &render.Result{
		OutputPath: deps.store.ArtifactPath("acme", store.SuffixHTML),
		Format:     render.FormatHTML,
		Degraded:   true,
	}

	result := registry.Execute(t.Context(), call("generate_pdf", map[string]any{"job_name": "acme"}))
	assert.Contains(t, result, "PDF engine not available.")
	assert.Contains(t, result, "cv_acme.html")
	assert.Contains(t, result, "print to PDF")
}

func TestGeneratePDFRenderError(t *testing.T) {
	registry, deps := newTestRegistry(t)
	_, err := deps.store.WriteCV("acme", "# CV")
	require.NoError(t, err)
	deps.renderer.err = errors.New("pandoc failed with engine xelatex: exit status 43")

	result := registry.Execute(t.Context(), call("generate_pdf", map[string]any{"job_name": "acme"}))
	assert.Contains(t, result, "Error generating PDF:")
	assert.Contains(t, result, "exit status 43")
}

func TestExtractJobURLViaService(t *testing.T) {
	registry, deps := newTestRegistry(t)
	deps.extractor.configured = true
	deps.extractor.content = "Senior Go Engineer at Acme."

	result := registry.Execute(t.Context(), call("extract_job_url", map[string]any{"url": "https://acme.example/jobs/1"}))
	assert.Equal(t, "Senior Go Engineer at Acme.", result)
	assert.Equal(t, []string{"https://acme.example/jobs/1"}, deps.extractor.urls)
	assert.Empty(t, deps.fetcher.urls)
}

func TestExtractJobURLServiceError(t *testing.T) {
	registry, deps := newTestRegistry(t)
	deps.extractor.configured = true
	deps.extractor.err = errors.New("status 401")

	result := registry.Execute(t.Context(), call("extract_job_url", map[string]any{"url": "https://acme.example/jobs/1"}))
	assert.Contains(t, result, "Error extracting job description from URL:")
	assert.Contains(t, result, "status 401")
}

func TestExtractJobURLFallsBackToFetch(t *testing.T) {
	registry, deps := newTestRegistry(t)
	deps.extractor.configured = false
	deps.fetcher.content = "Senior Go Engineer at Acme."

	result := registry.Execute(t.Context(), call("extract_job_url", map[string]any{"url": "https://acme.example/jobs/1"}))
	assert.Contains(t, result, "Senior Go Engineer at Acme.")
	// The degraded path announces itself.
	assert.Contains(t, result, "direct page fetch")
	assert.Equal(t, []string{"https://acme.example/jobs/1"}, deps.fetcher.urls)
	assert.Empty(t, deps.extractor.urls)
}

func TestCleanJobDescription(t *testing.T) {
	registry, deps := newTestRegistry(t)
	deps.transformer.output = "Cleaned posting."

	result := registry.Execute(t.Context(), call("clean_job_description", map[string]any{"raw_content": "Cookies! Posting."}))
	assert.Equal(t, "Cleaned posting.", result)
	assert.Equal(t, []string{"Cookies! Posting."}, deps.transformer.inputs)
}

func TestTransformToolErrorMarker(t *testing.T) {
	registry, deps := newTestRegistry(t)
	deps.transformer.err = errors.New("quota exceeded")

	result := registry.Execute(t.Context(), call("analyze_job_requirements", map[string]any{"text": "posting"}))
	assert.Contains(t, result, "Error analyzing job requirements:")
	assert.Contains(t, result, "quota exceeded")
}

func TestPolishCVArgumentOrder(t *testing.T) {
	registry, deps := newTestRegistry(t)
	deps.transformer.output = "# Polished"

	result := registry.Execute(t.Context(), call("polish_cv", map[string]any{
		"cv_markdown":     "# Draft",
		"job_description": "Go role",
	}))
	assert.Equal(t, "# Polished", result)
	assert.Equal(t, []string{"Go role", "# Draft"}, deps.transformer.inputs)
}
