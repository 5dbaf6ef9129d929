// Package tools implements the closed tool catalogue the agent dispatches
// into: template/profile/CV file access, PDF generation, job posting
// extraction, and the LLM text transforms. Every tool is total — failures
// come back as descriptive result strings the model can react to, never as
// errors that would abort the conversation.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/cv-studio/internal/conversation"
	"github.com/jonathan/cv-studio/internal/llm"
	"github.com/jonathan/cv-studio/internal/render"
	"github.com/jonathan/cv-studio/internal/store"
)

// PDFRenderer converts a CV markdown file into a PDF or HTML artifact.
type PDFRenderer interface {
	RenderPDF(markdownPath, pdfPath, htmlPath string) (*render.Result, error)
}

// Extractor pulls page content through an external extraction service.
type Extractor interface {
	Configured() bool
	Extract(ctx context.Context, url string) (string, error)
}

// PostingFetcher retrieves job posting text by fetching the page directly.
type PostingFetcher interface {
	JobPosting(ctx context.Context, url string) (string, error)
}

// TextTransformer runs the fixed-instruction LLM passes.
type TextTransformer interface {
	CleanJobDescription(ctx context.Context, content string) (string, error)
	TranslateJobDescription(ctx context.Context, content string) (string, error)
	AnalyzeJobRequirements(ctx context.Context, content string) (string, error)
	PolishCV(ctx context.Context, jobDescription, cv string) (string, error)
}

type handler func(ctx context.Context, args map[string]any) string

// Registry holds the tool catalogue: declarations for the model, compiled
// argument schemas, and the handlers behind them.
type Registry struct {
	store       store.Store
	renderer    PDFRenderer
	extractor   Extractor
	fetcher     PostingFetcher
	transformer TextTransformer

	specs    []llm.ToolSpec
	schemas  map[string]*gojsonschema.Schema
	handlers map[string]handler
}

// NewRegistry builds the catalogue. Extractor, fetcher, and transformer may
// be nil; the corresponding tools then report the missing capability in
// their results instead of being removed from the catalogue.
func NewRegistry(st store.Store, renderer PDFRenderer, extractor Extractor, fetcher PostingFetcher, transformer TextTransformer) (*Registry, error) {
	r := &Registry{
		store:       st,
		renderer:    renderer,
		extractor:   extractor,
		fetcher:     fetcher,
		transformer: transformer,
		schemas:     make(map[string]*gojsonschema.Schema),
		handlers:    make(map[string]handler),
	}

	for _, entry := range r.catalogue() {
		schema, err := compileSchema(entry.spec)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for tool %s: %w", entry.spec.Name, err)
		}
		r.specs = append(r.specs, entry.spec)
		r.schemas[entry.spec.Name] = schema
		r.handlers[entry.spec.Name] = entry.handle
	}
	return r, nil
}

// Definitions returns the tool declarations in catalogue order, for the
// model's function-calling setup.
func (r *Registry) Definitions() []llm.ToolSpec {
	return r.specs
}

// Execute runs one tool call and returns its result text. Unknown tools and
// schema-invalid arguments produce error markers, not failures.
func (r *Registry) Execute(ctx context.Context, call conversation.ToolCall) string {
	handle, ok := r.handlers[call.Name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool '%s'", call.Name)
	}

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	if detail := r.validateArgs(call.Name, args); detail != "" {
		return fmt.Sprintf("Error: invalid arguments for %s: %s", call.Name, detail)
	}

	return handle(ctx, args)
}

func (r *Registry) validateArgs(name string, args map[string]any) string {
	result, err := r.schemas[name].Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return err.Error()
	}
	if result.Valid() {
		return ""
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return strings.Join(details, "; ")
}

// compileSchema turns a tool declaration into the JSON schema used to
// validate incoming arguments. All declared arguments are strings.
func compileSchema(spec llm.ToolSpec) (*gojsonschema.Schema, error) {
	properties := make(map[string]any, len(spec.Params))
	var required []string
	for _, param := range spec.Params {
		properties[param.Name] = map[string]any{
			"type":        "string",
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
}

func stringArg(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return value
}
