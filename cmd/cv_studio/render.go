package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-studio/internal/store"
)

var renderCmd = &cobra.Command{
	Use:   "render <job>",
	Short: "Render the PDF for an existing CV without the assistant",
	Long: `Convert the stored CV markdown for a job into a PDF directly, skipping
the conversation. The job must have been written before, e.g. by a chat
session or a PUT to the API.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a := newApp(cfg)

	jobName := args[0]
	if _, err := a.store.ReadCV(jobName); errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no CV exists for job '%s' yet", jobName)
	} else if err != nil {
		return err
	}

	result, err := a.renderer.RenderPDF(
		a.store.CVPath(jobName),
		a.store.ArtifactPath(jobName, store.SuffixPDF),
		a.store.ArtifactPath(jobName, store.SuffixHTML),
	)
	if err != nil {
		return err
	}

	if result.Degraded {
		fmt.Printf("PDF engine not available. HTML created at %s. Open in browser and print to PDF.\n", result.OutputPath)
		return nil
	}
	fmt.Printf("PDF generated successfully at %s (engine: %s)\n", result.OutputPath, result.Engine)
	return nil
}
