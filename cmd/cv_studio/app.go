package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-studio/internal/agent"
	"github.com/jonathan/cv-studio/internal/config"
	"github.com/jonathan/cv-studio/internal/extract"
	"github.com/jonathan/cv-studio/internal/fetch"
	"github.com/jonathan/cv-studio/internal/llm"
	"github.com/jonathan/cv-studio/internal/observability"
	"github.com/jonathan/cv-studio/internal/render"
	"github.com/jonathan/cv-studio/internal/store"
	"github.com/jonathan/cv-studio/internal/tools"
	"github.com/jonathan/cv-studio/internal/transform"
)

// Flags shared by every verb.
var (
	flagConfigPath string
	flagDataDir    string
	flagAssetsDir  string
	flagVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory holding user.md, template.md, and output/")
	rootCmd.PersistentFlags().StringVar(&flagAssetsDir, "assets-dir", "", "Directory holding the CV stylesheet")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
}

// loadConfig merges config file, environment, flag overrides, and defaults,
// in ascending priority: defaults < file < environment < flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config

	if flagConfigPath != "" {
		loaded, err := config.Load(flagConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if flagVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", flagConfigPath)
		}
	}

	cfg.ApplyEnv()

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("assets-dir") {
		cfg.AssetsDir = flagAssetsDir
	}
	if flagVerbose {
		cfg.Verbose = true
	}

	cfg = cfg.MergeWithDefaults(*config.Default())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// app bundles the wired components behind the CLI verbs. Close releases the
// LLM client when one was built.
type app struct {
	cfg      config.Config
	store    *store.FileStore
	renderer *render.Renderer
	agent    *agent.Agent
	client   llm.Client
}

func (a *app) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// newApp wires store and renderer only, for verbs that never talk to the
// model.
func newApp(cfg config.Config) *app {
	return &app{
		cfg:      cfg,
		store:    store.NewFileStore(cfg.DataDir),
		renderer: render.New(cfg.AssetsDir),
	}
}

// newAgentApp additionally wires the Gemini client, the tool registry, and
// the agent loop. It requires a Gemini API key.
func newAgentApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := newApp(cfg)

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	modelCfg := llm.DefaultConfig()
	for tier, name := range map[llm.ModelTier]string{
		llm.TierLite:     cfg.ModelLite,
		llm.TierStandard: cfg.ModelStandard,
		llm.TierAdvanced: cfg.ModelAdvanced,
	} {
		if name != "" {
			modelCfg.Models[tier] = name
		}
	}

	client, err := llm.NewGeminiClient(ctx, modelCfg, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	a.client = client

	fetchOpts := []fetch.Option{}
	if cfg.UseBrowser {
		fetchOpts = append(fetchOpts, fetch.WithBrowserFallback())
	}
	if cfg.Verbose {
		fetchOpts = append(fetchOpts, fetch.WithVerbose())
	}

	registry, err := tools.NewRegistry(
		a.store,
		a.renderer,
		extract.NewClient(cfg.TavilyAPIKey),
		fetch.NewFetcher(fetchOpts...),
		transform.New(client),
	)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	agentOpts := []agent.Option{agent.WithMaxTurns(cfg.MaxTurns)}
	if cfg.Verbose {
		agentOpts = append(agentOpts, agent.WithPrinter(observability.NewPrinter(os.Stdout)))
	}
	a.agent = agent.New(client, registry, agentOpts...)

	return a, nil
}

func parseMode(mode string) (agent.Mode, error) {
	switch mode {
	case "cv":
		return agent.ModeCV, nil
	case "profile":
		return agent.ModeProfile, nil
	case "", "none":
		return agent.ModeNone, nil
	default:
		return agent.ModeNone, fmt.Errorf("invalid mode %q (expected cv, profile, or none)", mode)
	}
}
