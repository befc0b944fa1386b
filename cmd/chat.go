package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tubesight/internal/gemini"
)

var chatLanguage string

var (
	userStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	modelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var chatCmd = &cobra.Command{
	Use:   "chat <video>",
	Short: "Chat about a video",
	Long: `Ask questions about a video. Replies stream in as they are generated.
Type /exit or press Ctrl+D to leave.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatLanguage, "language", "l", "", "Language of the greeting and error notices (en, fr)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	service, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	lang := gemini.Language(chatLanguage)
	if chatLanguage == "" {
		lang = gemini.Language(service.Config().Presentation.Language)
	}
	if _, err := gemini.ParseLanguage(string(lang)); err != nil {
		return err
	}

	video, err := service.LoadVideo(ctx, args[0])
	if err != nil {
		return err
	}

	conv := service.NewConversation(video, lang)
	fmt.Println(modelStyle.Render("gemini> ") + conv.History()[0].Text)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(userStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}

		fmt.Print(modelStyle.Render("gemini> "))
		msg, err := conv.Send(ctx, line, func(fragment string) {
			fmt.Print(fragment)
		})
		fmt.Println()
		if err != nil {
			fmt.Println(errorStyle.Render(msg.Text))
			fmt.Println(errorStyle.Render("  " + err.Error()))
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}
