package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-studio/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect or render the stored profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile markdown",
	RunE:  runProfileShow,
}

var profilePDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Render the profile preview PDF",
	RunE:  runProfilePDF,
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profilePDFCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a := newApp(cfg)

	content, err := a.store.ReadProfile()
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user.md not found; create %s with your information", a.store.ProfilePath())
	}
	if err != nil {
		return err
	}

	fmt.Println(content)
	return nil
}

func runProfilePDF(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a := newApp(cfg)

	if _, err := a.store.ReadProfile(); errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user.md not found; create %s with your information", a.store.ProfilePath())
	} else if err != nil {
		return err
	}

	pdfPath := a.store.ProfilePDFPath()
	htmlPath := strings.TrimSuffix(pdfPath, store.SuffixPDF) + store.SuffixHTML
	result, err := a.renderer.RenderPDF(a.store.ProfilePath(), pdfPath, htmlPath)
	if err != nil {
		return err
	}

	if result.Degraded {
		fmt.Printf("PDF engine not available. HTML created at %s. Open in browser and print to PDF.\n", result.OutputPath)
		return nil
	}
	fmt.Printf("Profile PDF generated at %s\n", result.OutputPath)
	return nil
}
