package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tubesight/pkg/config"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Tubesight",
	Long:  `Configure the Gemini credential, create the output directory, and write the .env file.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Tubesight Setup"))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Creating directories", createDirectories},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return nil
}

func createDirectories() error {
	if err := os.MkdirAll(config.DefaultOutputDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", config.DefaultOutputDir, err)
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func configureEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	var backend string
	if err := huh.NewSelect[string]().
		Title("How should Tubesight reach Gemini?").
		Options(
			huh.NewOption("Gemini API key (AI Studio)", config.BackendGemini),
			huh.NewOption("Vertex AI (Google Cloud project)", config.BackendVertex),
		).
		Value(&backend).
		Run(); err != nil {
		return err
	}

	if backend == config.BackendVertex {
		if err := configureGCP(env); err != nil {
			return err
		}
	} else if err := configureAPIKey(env); err != nil {
		return err
	}

	if err := configureBucket(env); err != nil {
		return err
	}

	return writeEnvFile(env)
}

func configureAPIKey(env map[string]string) error {
	var apiKey string
	if err := huh.NewInput().
		Title("Gemini API Key").
		Description("https://aistudio.google.com/app/apikey").
		EchoMode(huh.EchoModePassword).
		Value(&apiKey).
		Validate(required("Gemini API Key")).
		Run(); err != nil {
		return err
	}

	env[config.EnvAPIKey] = strings.TrimSpace(apiKey)
	return nil
}

func configureGCP(env map[string]string) error {
	if !commandExists("gcloud") {
		fmt.Println(warnStyle.Render("gcloud CLI not found - install from https://cloud.google.com/sdk/docs/install"))
	}

	project := getActiveProject()
	if err := huh.NewInput().
		Title("Google Cloud Project ID").
		Value(&project).
		Validate(required("Project ID")).
		Run(); err != nil {
		return err
	}
	project = strings.TrimSpace(project)
	env[config.EnvGCPProject] = project

	if commandExists("gcloud") {
		if err := enableGCPAPIs(project); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
		}
	}

	fmt.Println(infoStyle.Render("Set gemini.backend: vertex in config.yaml to use this project."))
	return nil
}

func configureBucket(env map[string]string) error {
	var useBucket bool
	if err := huh.NewConfirm().
		Title("Export decks to Cloud Storage?").
		Description("Otherwise decks are written to " + config.DefaultOutputDir).
		Value(&useBucket).
		Run(); err != nil || !useBucket {
		return err
	}

	var bucket string
	if err := huh.NewInput().
		Title("GCS bucket name").
		Value(&bucket).
		Run(); err != nil {
		return err
	}

	if bucket = strings.TrimSpace(bucket); bucket != "" {
		env[config.EnvGCSBucket] = bucket
	}
	return nil
}

func getActiveProject() string {
	if !commandExists("gcloud") {
		return ""
	}
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func enableGCPAPIs(project string) error {
	apis := []string{
		"aiplatform.googleapis.com",
		"secretmanager.googleapis.com",
		"storage.googleapis.com",
	}

	return runWithSpinner("Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", project)
		return runSetupCmd("gcloud", args...)
	})
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	order := []string{
		config.EnvAPIKey,
		config.EnvGCPProject,
		config.EnvGCSBucket,
	}

	for _, key := range order {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	printNextSteps()
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Check the configuration: tubesight status")
	fmt.Println("  2. Analyze a video: tubesight analyze talk.mp4 --mode key_takeaways")
	fmt.Println("  3. Or serve the API: tubesight serve")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
