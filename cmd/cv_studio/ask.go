package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-studio/internal/agent"
)

var askMode string

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a single message to the assistant",
	Long: `Send one message and print the assistant's answer. Useful for scripted
invocations, e.g.:

  cv_studio ask "Tailor my CV for https://example.com/jobs/123 under the name acme_backend"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askMode, "mode", "cv", "Conversation mode: cv, profile, or none")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode, err := parseMode(askMode)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newAgentApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	message := strings.Join(args, " ")
	result, err := a.agent.Run(ctx, agent.PrefixMode(mode, message))
	if err != nil {
		return err
	}

	fmt.Println(result.Text)
	return nil
}
