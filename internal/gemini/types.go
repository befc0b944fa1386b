package gemini

import (
	"fmt"
	"time"

	"tubesight/internal/media"
)

type AnalysisMode string

const (
	ModeSummary      AnalysisMode = "summary"
	ModeKeyTakeaways AnalysisMode = "key_takeaways"
	ModeSentiment    AnalysisMode = "sentiment"
	ModeTechnical    AnalysisMode = "technical"
	ModeQA           AnalysisMode = "qa"
)

// Modes lists every analysis mode in display order.
func Modes() []AnalysisMode {
	return []AnalysisMode{ModeSummary, ModeKeyTakeaways, ModeSentiment, ModeTechnical, ModeQA}
}

func ParseAnalysisMode(s string) (AnalysisMode, error) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown analysis mode %q", s)
}

func (m AnalysisMode) Valid() bool {
	_, err := ParseAnalysisMode(string(m))
	return err == nil
}

type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguageFrench, LanguageEnglish:
		return Language(s), nil
	}
	return "", fmt.Errorf("unsupported language %q, want fr or en", s)
}

// DisplayName is the name used inside prompts.
func (l Language) DisplayName() string {
	if l == LanguageFrench {
		return "FRENCH"
	}
	return "ENGLISH"
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsError   bool      `json:"isError,omitempty"`
}

type AnalysisRequest struct {
	Video *media.Payload
	Notes string
	Mode  AnalysisMode
}

type AnalysisResult struct {
	Text string `json:"text"`
}

type ChatRequest struct {
	Video   *media.Payload
	History []ChatMessage
	Message string
}

type PresentationRequest struct {
	Video        *media.Payload
	Instructions string
	Audience     string
	Style        string
	ColorTheme   string
	SlideCount   int
	Language     Language
}

type SlideData struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	BulletPoints []string `json:"bulletPoints"`
	ImageBase64  string   `json:"imageBase64"`
	Notes        string   `json:"notes"`
}

// slidePlan is the planning model's output for one slide; it never leaves
// this package.
type slidePlan struct {
	Title        string   `json:"title"`
	BulletPoints []string `json:"bulletPoints"`
	Notes        string   `json:"notes"`
	ImagePrompt  string   `json:"imagePrompt"`
}
