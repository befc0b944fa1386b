package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tubesight/internal/gemini"
	"tubesight/internal/timestamp"
)

var (
	analyzeMode  string
	analyzeNotes string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video>",
	Short: "Analyze a video",
	Long: `Send a video to Gemini and print a markdown analysis.
Modes: summary, key_takeaways, sentiment, technical, qa.
The video may be a local file or a gs://bucket/object reference.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", string(gemini.ModeSummary), "Analysis mode")
	analyzeCmd.Flags().StringVarP(&analyzeNotes, "notes", "n", "", "Extra context for the analysis")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, err := gemini.ParseAnalysisMode(analyzeMode)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	service, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	video, err := service.LoadVideo(ctx, args[0])
	if err != nil {
		return err
	}

	slog.Info("Analyzing video...", "mode", mode, "size", video.Size())

	var result *gemini.AnalysisResult
	err = runWithSpinner("Analyzing video", func() error {
		var err error
		result, err = service.Gemini().Analyze(ctx, gemini.AnalysisRequest{
			Video: video,
			Notes: analyzeNotes,
			Mode:  mode,
		})
		return err
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(result.Text)

	if marks := timestamp.Find(result.Text); len(marks) > 0 {
		fmt.Println()
		fmt.Println(titleStyle.Render("Jump points:"))
		for _, mark := range marks {
			fmt.Println(infoStyle.Render(fmt.Sprintf("  %s  (%.0fs)", mark.Label, mark.Seconds)))
		}
	}

	return nil
}
