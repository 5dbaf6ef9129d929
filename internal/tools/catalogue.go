package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/cv-studio/internal/llm"
	"github.com/jonathan/cv-studio/internal/markdown"
	"github.com/jonathan/cv-studio/internal/store"
)

type catalogueEntry struct {
	spec   llm.ToolSpec
	handle handler
}

// catalogue is the closed tool set the model may call. Order matters only
// for the declarations shown to the model.
func (r *Registry) catalogue() []catalogueEntry {
	return []catalogueEntry{
		{
			spec: llm.ToolSpec{
				Name: "read_template",
				Description: "Read the CV template that defines structure, formatting, and layout rules. " +
					"This template MUST be followed exactly when creating CVs.",
			},
			handle: r.readTemplate,
		},
		{
			spec: llm.ToolSpec{
				Name: "read_user_data",
				Description: "Read the user's factual data (experience, skills, education). " +
					"This is the ONLY source of truth for user information. NEVER invent data not present in this file.",
			},
			handle: r.readUserData,
		},
		{
			spec: llm.ToolSpec{
				Name: "write_user_data",
				Description: "Write/update the user's profile data (user.md). Always read the current profile first " +
					"with read_user_data. You must write the COMPLETE file content, not just the changes; preserve all " +
					"existing data unless the user explicitly asks to remove something.",
				Params: []llm.ParamSpec{
					{Name: "content", Description: "The COMPLETE markdown content for the user profile.", Required: true},
				},
			},
			handle: r.writeUserData,
		},
		{
			spec: llm.ToolSpec{
				Name:        "read_cv",
				Description: "Read an existing CV for a specific job if it exists.",
				Params: []llm.ParamSpec{
					{Name: "job_name", Description: "The job identifier (e.g., 'google_pm', 'meta_engineer').", Required: true},
				},
			},
			handle: r.readCV,
		},
		{
			spec: llm.ToolSpec{
				Name: "write_cv",
				Description: "Write the tailored CV markdown content for a specific job. " +
					"After calling this, you MUST call generate_pdf with the same job_name.",
				Params: []llm.ParamSpec{
					{Name: "job_name", Description: "The job identifier (e.g., 'google_pm', 'meta_engineer').", Required: true},
					{Name: "content", Description: "The full markdown content of the CV.", Required: true},
				},
			},
			handle: r.writeCV,
		},
		{
			spec: llm.ToolSpec{
				Name:        "generate_pdf",
				Description: "Convert a CV markdown file to PDF. Call this after write_cv to generate the final PDF.",
				Params: []llm.ParamSpec{
					{Name: "job_name", Description: "The job identifier (must match a previously written CV).", Required: true},
				},
			},
			handle: r.generatePDF,
		},
		{
			spec: llm.ToolSpec{
				Name: "extract_job_url",
				Description: "Extract job description content from a URL. Use this when the user provides a job URL " +
					"instead of a text description.",
				Params: []llm.ParamSpec{
					{Name: "url", Description: "The URL of the job posting to extract content from.", Required: true},
				},
			},
			handle: r.extractJobURL,
		},
		{
			spec: llm.ToolSpec{
				Name: "clean_job_description",
				Description: "Clean raw scraped job posting text: removes navigation remnants, cookie notices, and " +
					"boilerplate while preserving the posting's own wording.",
				Params: []llm.ParamSpec{
					{Name: "raw_content", Description: "The raw scraped posting text.", Required: true},
				},
			},
			handle: r.cleanJobDescription,
		},
		{
			spec: llm.ToolSpec{
				Name: "translate_job_description",
				Description: "Translate a job description into English, preserving structure and proper nouns. " +
					"Text already in English comes back unchanged.",
				Params: []llm.ParamSpec{
					{Name: "text", Description: "The job description text.", Required: true},
				},
			},
			handle: r.translateJobDescription,
		},
		{
			spec: llm.ToolSpec{
				Name: "analyze_job_requirements",
				Description: "Analyze a job description and extract the requirements, key skills, and keywords that " +
					"matter for tailoring a CV to it.",
				Params: []llm.ParamSpec{
					{Name: "text", Description: "The job description text.", Required: true},
				},
			},
			handle: r.analyzeJobRequirements,
		},
		{
			spec: llm.ToolSpec{
				Name: "polish_cv",
				Description: "Polish the wording of a CV draft against the target job description without changing " +
					"any facts or the document structure.",
				Params: []llm.ParamSpec{
					{Name: "cv_markdown", Description: "The CV draft markdown.", Required: true},
					{Name: "job_description", Description: "The target job description.", Required: true},
				},
			},
			handle: r.polishCV,
		},
	}
}

func (r *Registry) readTemplate(_ context.Context, _ map[string]any) string {
	content, err := r.store.ReadTemplate()
	if errors.Is(err, store.ErrNotFound) {
		return "Error: template.md not found"
	}
	if err != nil {
		return fmt.Sprintf("Error reading template: %v", err)
	}
	return content
}

func (r *Registry) readUserData(_ context.Context, _ map[string]any) string {
	content, err := r.store.ReadProfile()
	if errors.Is(err, store.ErrNotFound) {
		return "Error: user.md not found. Please create data/user.md with your information."
	}
	if err != nil {
		return fmt.Sprintf("Error reading profile: %v", err)
	}
	return content
}

func (r *Registry) writeUserData(_ context.Context, args map[string]any) string {
	if err := r.store.WriteProfile(stringArg(args, "content")); err != nil {
		return fmt.Sprintf("Error writing profile: %v", err)
	}
	return "✅ Profile updated successfully! The changes have been saved to user.md."
}

func (r *Registry) readCV(_ context.Context, args map[string]any) string {
	jobName := stringArg(args, "job_name")
	content, err := r.store.ReadCV(jobName)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No CV exists for job '%s' yet.", jobName)
	}
	if err != nil {
		return fmt.Sprintf("Error reading CV: %v", err)
	}
	return content
}

func (r *Registry) writeCV(_ context.Context, args map[string]any) string {
	jobName := stringArg(args, "job_name")
	content := markdown.NormalizeLineBreaks(stringArg(args, "content"))

	path, err := r.store.WriteCV(jobName, content)
	if err != nil {
		return fmt.Sprintf("Error writing CV: %v", err)
	}
	return fmt.Sprintf("CV written to %s. Now call generate_pdf('%s') to create the PDF.", path, jobName)
}

func (r *Registry) generatePDF(_ context.Context, args map[string]any) string {
	jobName := stringArg(args, "job_name")
	mdPath := r.store.CVPath(jobName)

	if _, err := r.store.ReadCV(jobName); errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("Error: No markdown file found at %s. Call write_cv first.", mdPath)
	}

	result, err := r.renderer.RenderPDF(
		mdPath,
		r.store.ArtifactPath(jobName, store.SuffixPDF),
		r.store.ArtifactPath(jobName, store.SuffixHTML),
	)
	if err != nil {
		return fmt.Sprintf("Error generating PDF: %v", err)
	}
	if result.Degraded {
		return fmt.Sprintf("PDF engine not available. HTML created at %s. Open in browser and print to PDF.", result.OutputPath)
	}
	return fmt.Sprintf("PDF generated successfully at %s", result.OutputPath)
}

func (r *Registry) extractJobURL(ctx context.Context, args map[string]any) string {
	url := stringArg(args, "url")

	if r.extractor != nil && r.extractor.Configured() {
		content, err := r.extractor.Extract(ctx, url)
		if err != nil {
			return fmt.Sprintf("Error extracting job description from URL: %v", err)
		}
		return content
	}

	if r.fetcher == nil {
		return "Error extracting job description from URL: no extraction service configured"
	}

	content, err := r.fetcher.JobPosting(ctx, url)
	if err != nil {
		return fmt.Sprintf("Error extracting job description from URL: %v", err)
	}
	return content + "\n\n(Note: extracted via direct page fetch because no extraction service is configured. The text may contain page noise; consider clean_job_description.)"
}

func (r *Registry) cleanJobDescription(ctx context.Context, args map[string]any) string {
	if r.transformer == nil {
		return "Error cleaning job description: no language model configured"
	}
	result, err := r.transformer.CleanJobDescription(ctx, stringArg(args, "raw_content"))
	if err != nil {
		return fmt.Sprintf("Error cleaning job description: %v", err)
	}
	return result
}

func (r *Registry) translateJobDescription(ctx context.Context, args map[string]any) string {
	if r.transformer == nil {
		return "Error translating job description: no language model configured"
	}
	result, err := r.transformer.TranslateJobDescription(ctx, stringArg(args, "text"))
	if err != nil {
		return fmt.Sprintf("Error translating job description: %v", err)
	}
	return result
}

func (r *Registry) analyzeJobRequirements(ctx context.Context, args map[string]any) string {
	if r.transformer == nil {
		return "Error analyzing job requirements: no language model configured"
	}
	result, err := r.transformer.AnalyzeJobRequirements(ctx, stringArg(args, "text"))
	if err != nil {
		return fmt.Sprintf("Error analyzing job requirements: %v", err)
	}
	return result
}

func (r *Registry) polishCV(ctx context.Context, args map[string]any) string {
	if r.transformer == nil {
		return "Error polishing CV: no language model configured"
	}
	result, err := r.transformer.PolishCV(ctx, stringArg(args, "job_description"), stringArg(args, "cv_markdown"))
	if err != nil {
		return fmt.Sprintf("Error polishing CV: %v", err)
	}
	return result
}
