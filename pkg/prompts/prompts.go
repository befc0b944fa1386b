package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed defaults.yaml
var defaultPrompts []byte

type Prompts struct {
	Analysis     AnalysisPrompts     `yaml:"analysis"`
	Chat         ChatPrompts         `yaml:"chat"`
	Presentation PresentationPrompts `yaml:"presentation"`
}

type AnalysisPrompts struct {
	Base    string            `yaml:"base"`
	Modes   map[string]string `yaml:"modes"`
	Request string            `yaml:"request"`
}

type ChatPrompts struct {
	System         string `yaml:"system"`
	VideoContext   string `yaml:"video_context"`
	Acknowledgment string `yaml:"acknowledgement"`
}

type PresentationPrompts struct {
	Plan  string `yaml:"plan"`
	Image string `yaml:"image"`
}

type AnalysisParams struct {
	Notes string
	Mode  string
}

type PlanParams struct {
	SlideCount   int
	Instructions string
	Audience     string
	Style        string
	ColorTheme   string
	LanguageName string
}

type ImageParams struct {
	ImagePrompt string
	Style       string
	ColorTheme  string
}

// Default returns the prompts compiled into the binary.
func Default() *Prompts {
	var p Prompts
	if err := yaml.Unmarshal(defaultPrompts, &p); err != nil {
		panic(fmt.Sprintf("embedded prompts are invalid: %v", err))
	}
	return &p
}

// Load reads prompts.yaml from the working directory, falling back to the
// embedded defaults when it does not exist.
func Load() (*Prompts, error) {
	p, err := LoadFrom(defaultPromptsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return p, err
}

// LoadFrom overlays the file at path on top of the embedded defaults, so a
// file may override a single template.
func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return p, nil
}

// AnalysisSystem joins the shared analyst instruction with the task block of mode.
func (p *Prompts) AnalysisSystem(mode string) (string, error) {
	task, ok := p.Analysis.Modes[mode]
	if !ok || task == "" {
		return "", fmt.Errorf("no analysis prompt for mode %q", mode)
	}
	return p.Analysis.Base + "\n\n" + task, nil
}

// RenderAnalysisRequest treats whitespace-only notes as no notes.
func (p *Prompts) RenderAnalysisRequest(params AnalysisParams) (string, error) {
	params.Notes = strings.TrimSpace(params.Notes)
	return render(p.Analysis.Request, params)
}

func (p *Prompts) RenderPlan(params PlanParams) (string, error) {
	return render(p.Presentation.Plan, params)
}

func (p *Prompts) RenderImage(params ImageParams) (string, error) {
	return render(p.Presentation.Image, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
