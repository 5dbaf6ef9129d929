// Package main provides the entry point for the CV Studio assistant CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cv_studio",
	Short: "Conversational CV tailoring assistant",
	Long:  "CV Studio tailors CVs to job postings in a conversation: it keeps your factual profile in markdown, drafts job-specific CVs from it, and renders them to PDF via pandoc.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
