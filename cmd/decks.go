package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List exported slide decks",
	RunE:  runDecks,
}

func init() {
	rootCmd.AddCommand(decksCmd)
}

func runDecks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	service, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	decks, err := service.ListDecks(ctx)
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Println(infoStyle.Render("No decks exported yet. Run: tubesight present <video>"))
		return nil
	}

	for _, dir := range decks {
		fmt.Println(dir)
	}
	return nil
}
