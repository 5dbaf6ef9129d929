// Package transform implements the fixed-instruction LLM passes applied to
// job postings and CV drafts: cleaning scraped text, translating to English,
// extracting requirements, and polishing a draft against a posting.
package transform

import (
	"context"
	"fmt"

	"github.com/jonathan/cv-studio/internal/llm"
	"github.com/jonathan/cv-studio/internal/prompts"
)

const promptFile = "transforms.json"

// Transformer runs single-shot prompts against the text generation tiers.
type Transformer struct {
	client llm.Client
}

// New creates a Transformer backed by the given client.
func New(client llm.Client) *Transformer {
	return &Transformer{client: client}
}

// CleanJobDescription strips scraping noise (navigation, cookie banners,
// application forms) from raw posting text.
func (t *Transformer) CleanJobDescription(ctx context.Context, content string) (string, error) {
	return t.run(ctx, "clean-job-description", map[string]string{"Content": content}, llm.TierLite)
}

// TranslateJobDescription translates a posting into English. Text already in
// English comes back unchanged.
func (t *Transformer) TranslateJobDescription(ctx context.Context, content string) (string, error) {
	return t.run(ctx, "translate-job-description", map[string]string{"Content": content}, llm.TierLite)
}

// AnalyzeJobRequirements extracts the requirements, skills, and keywords that
// matter for tailoring a CV to the posting.
func (t *Transformer) AnalyzeJobRequirements(ctx context.Context, content string) (string, error) {
	return t.run(ctx, "analyze-job-requirements", map[string]string{"Content": content}, llm.TierStandard)
}

// PolishCV tightens the wording of a CV draft against a job description
// without altering its facts or structure.
func (t *Transformer) PolishCV(ctx context.Context, jobDescription, cv string) (string, error) {
	return t.run(ctx, "polish-cv", map[string]string{
		"JobDescription": jobDescription,
		"CV":             cv,
	}, llm.TierStandard)
}

func (t *Transformer) run(ctx context.Context, key string, data map[string]string, tier llm.ModelTier) (string, error) {
	template, err := prompts.Get(promptFile, key)
	if err != nil {
		return "", err
	}

	output, err := t.client.GenerateText(ctx, prompts.Format(template, data), tier)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", key, err)
	}
	return llm.CleanFencedBlock(output), nil
}
