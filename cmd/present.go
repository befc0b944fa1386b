package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tubesight/internal/gemini"
)

var (
	presentCount        int
	presentStyle        string
	presentTheme        string
	presentAudience     string
	presentLanguage     string
	presentInstructions string
	presentTitle        string
	presentNoExport     bool
)

var presentCmd = &cobra.Command{
	Use:   "present <video>",
	Short: "Turn a video into an illustrated slide deck",
	Long: `Plan a slide deck from a video and generate a background image for
every slide. The deck is exported as PNG images, deck.json and notes.md.`,
	Args: cobra.ExactArgs(1),
	RunE: runPresent,
}

func init() {
	presentCmd.Flags().IntVarP(&presentCount, "count", "c", 0, "Number of slides (default from config)")
	presentCmd.Flags().StringVar(&presentStyle, "style", "", "Visual style")
	presentCmd.Flags().StringVar(&presentTheme, "theme", "", "Color theme")
	presentCmd.Flags().StringVar(&presentAudience, "audience", "", "Target audience")
	presentCmd.Flags().StringVarP(&presentLanguage, "language", "l", "", "Slide language (en, fr)")
	presentCmd.Flags().StringVarP(&presentInstructions, "instructions", "i", "", "What the deck should focus on")
	presentCmd.Flags().StringVarP(&presentTitle, "title", "t", "", "Deck title used for the export directory")
	presentCmd.Flags().BoolVar(&presentNoExport, "no-export", false, "Print the slides without writing files")
	rootCmd.AddCommand(presentCmd)
}

func runPresent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	service, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	defaults := service.Config().Presentation
	language, err := gemini.ParseLanguage(firstNonEmpty(presentLanguage, defaults.Language))
	if err != nil {
		return err
	}
	count := presentCount
	if count == 0 {
		count = defaults.SlideCount
	}

	video, err := service.LoadVideo(ctx, args[0])
	if err != nil {
		return err
	}

	slog.Info("Generating presentation...", "slides", count, "language", language)

	var slides []gemini.SlideData
	err = runWithSpinner(fmt.Sprintf("Generating %d slides", count), func() error {
		var err error
		slides, err = service.Gemini().GeneratePresentation(ctx, gemini.PresentationRequest{
			Video:        video,
			Instructions: presentInstructions,
			Audience:     firstNonEmpty(presentAudience, defaults.Audience),
			Style:        firstNonEmpty(presentStyle, defaults.Style),
			ColorTheme:   firstNonEmpty(presentTheme, defaults.ColorTheme),
			SlideCount:   count,
			Language:     language,
		})
		return err
	})
	if err != nil {
		return err
	}

	printSlides(slides)

	if presentNoExport {
		return nil
	}

	title := presentTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	result, err := service.ExportDeck(ctx, title, slides)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Exported %d files to %s", len(result.Files), result.Dir)))
	return nil
}

func printSlides(slides []gemini.SlideData) {
	fmt.Println()
	for i, slide := range slides {
		fmt.Println(titleStyle.Render(fmt.Sprintf("%d. %s", i+1, slide.Title)))
		for _, point := range slide.BulletPoints {
			fmt.Printf("  • %s\n", point)
		}
		if slide.ImageBase64 == "" {
			fmt.Println(warnStyle.Render("  (no image)"))
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
