// Package llm provides the Gemini-backed decision step and plain text
// generation used by the tool transforms, behind a client interface the agent
// and tests can substitute.
package llm

// ModelTier represents the complexity/capability level of a model.
type ModelTier string

const (
	// TierLite is for simple tasks: cleaning, translation.
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: requirement analysis, polishing.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for the tool-calling decision step.
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model selection per tier.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model lineup.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back down the tier
// ladder when a tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
