package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-studio/internal/agent"
)

var chatMode string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session with the assistant",
	Long: `Start an interactive conversation. The assistant keeps the whole session
in context: you can paste a job posting, refine the draft it proposes, and ask
it to render the PDF, all in one conversation.

Type "exit" or press Ctrl-D to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatMode, "mode", "", "Conversation mode: cv, profile, or none")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode, err := parseMode(chatMode)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newAgentApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	session := a.agent.NewSession()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println("CV Studio. Paste a job posting or tell me what to change. Type \"exit\" to quit.")
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		result, err := session.Send(ctx, agent.PrefixMode(mode, line))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", result.Text)
	}
}
