package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tubesight/pkg/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration status",
	Long:  `Report which credential, models and storage Tubesight will use.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(infoStyle.Render("\nTubesight Status:\n"))

	credential := cfg.Credential()
	switch {
	case cfg.Gemini.Backend == config.BackendVertex && credential != "":
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Vertex AI: project %s (%s)", credential, cfg.Gemini.Location)))
	case cfg.Gemini.Backend == config.BackendVertex:
		fmt.Println(errorStyle.Render("✗ Vertex AI: missing " + config.EnvGCPProject))
	case credential != "" && cfg.GeminiAPIKeySecret != "":
		fmt.Println(successStyle.Render("✓ Gemini: API key loaded from Secret Manager"))
	case credential != "":
		fmt.Println(successStyle.Render("✓ Gemini: API key configured"))
	default:
		fmt.Println(errorStyle.Render("✗ Gemini: missing " + config.EnvAPIKey))
		fmt.Println(infoStyle.Render("  Run: tubesight setup"))
	}

	fmt.Println(infoStyle.Render(fmt.Sprintf("○ Models: analysis=%s chat=%s planning=%s image=%s",
		cfg.Gemini.AnalysisModel, cfg.Gemini.ChatModel, cfg.Gemini.PlanningModel, cfg.Gemini.ImageModel)))

	if cfg.GCSBucket != "" {
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Storage: gs://%s/%s", cfg.GCSBucket, cfg.Storage.GCSPrefix)))
	} else {
		fmt.Println(infoStyle.Render(fmt.Sprintf("○ Storage: local %s", cfg.Storage.OutputDir)))
	}

	if _, err := os.Stat(cfg.PromptsPath); err == nil {
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Prompts: %s", cfg.PromptsPath)))
	} else {
		fmt.Println(infoStyle.Render("○ Prompts: built-in (optional " + cfg.PromptsPath + " not found)"))
	}

	fmt.Println()
	return nil
}
