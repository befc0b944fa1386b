package cmd

import (
	"github.com/spf13/cobra"

	"tubesight/internal/api"
	"tubesight/internal/timestamp"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long:  `Expose analysis, streaming chat and presentation generation over HTTP.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	service, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	cfg := service.Config()
	addr := firstNonEmpty(serveAddr, cfg.Server.Addr)

	handlers := api.NewHandlers(api.HandlersOptions{
		Videos:       service.Gemini(),
		Presentation: cfg.Presentation,
		Seeks:        timestamp.NewBroadcaster(),
	})

	return api.Serve(ctx, addr, api.NewRouter(handlers))
}
