package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tubesight/internal/app"
	"tubesight/pkg/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tubesight",
	Short: "Analyze, chat about and present videos with Gemini",
	Long: `Tubesight sends a video to Gemini to produce a markdown analysis,
answer questions about it in a streaming chat, or turn it into an illustrated
slide deck. Run it from the command line or serve it over HTTP.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func buildService(ctx context.Context) (*app.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return app.BuildService(ctx, cfg, verbose)
}
