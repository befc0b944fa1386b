package app

import (
	"context"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tubesight/internal/gemini"
	"tubesight/internal/media"
)

const welcomeID = "init"

var (
	welcomeText = map[gemini.Language]string{
		gemini.LanguageEnglish: "Hello! I am ready. Ask me anything about the video content.",
		gemini.LanguageFrench:  "Bonjour ! Je suis prêt. Posez-moi n'importe quelle question sur le contenu de la vidéo.",
	}
	chatErrorText = map[gemini.Language]string{
		gemini.LanguageEnglish: "Sorry, I encountered an error during analysis. Please try again.",
		gemini.LanguageFrench:  "Désolé, j'ai rencontré une erreur lors de l'analyse. Veuillez réessayer.",
	}
)

type ChatStreamer interface {
	StreamChat(ctx context.Context, req gemini.ChatRequest) iter.Seq2[string, error]
}

// Conversation keeps the message history of one chat about one video. Only
// one turn runs at a time.
type Conversation struct {
	mu      sync.Mutex
	chat    ChatStreamer
	video   *media.Payload
	lang    gemini.Language
	history []gemini.ChatMessage
	now     func() time.Time
}

func NewConversation(chat ChatStreamer, video *media.Payload, lang gemini.Language) *Conversation {
	if _, ok := welcomeText[lang]; !ok {
		lang = gemini.LanguageEnglish
	}

	c := &Conversation{
		chat:  chat,
		video: video,
		lang:  lang,
		now:   time.Now,
	}
	c.history = []gemini.ChatMessage{{
		ID:        welcomeID,
		Role:      gemini.RoleModel,
		Text:      welcomeText[lang],
		Timestamp: c.now(),
	}}
	return c
}

func (s *Service) NewConversation(video *media.Payload, lang gemini.Language) *Conversation {
	return NewConversation(s.gemini, video, lang)
}

// History returns a copy of every message shown to the user, including the
// welcome message and error notices.
func (c *Conversation) History() []gemini.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]gemini.ChatMessage(nil), c.history...)
}

// Send streams the reply to text, calling onFragment for each piece as it
// arrives. On failure any partial reply is kept, followed by an error
// notice, and the stream error is returned.
func (c *Conversation) Send(ctx context.Context, text string, onFragment func(string)) (gemini.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return gemini.ChatMessage{}, gemini.ErrEmptyMessage
	}

	req := gemini.ChatRequest{
		Video:   c.video,
		History: ProviderHistory(c.history),
		Message: text,
	}
	c.history = append(c.history, c.message(gemini.RoleUser, text))

	var reply strings.Builder
	for fragment, err := range c.chat.StreamChat(ctx, req) {
		if err != nil {
			if reply.Len() > 0 {
				c.history = append(c.history, c.message(gemini.RoleModel, reply.String()))
			}
			notice := c.message(gemini.RoleModel, chatErrorText[c.lang])
			notice.IsError = true
			c.history = append(c.history, notice)
			return notice, err
		}
		reply.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}

	msg := c.message(gemini.RoleModel, reply.String())
	c.history = append(c.history, msg)
	return msg, nil
}

// ProviderHistory drops the welcome message and error notices, which the
// model never produced. Clients that keep their own history send it with
// the same "init" welcome ID.
func ProviderHistory(history []gemini.ChatMessage) []gemini.ChatMessage {
	out := make([]gemini.ChatMessage, 0, len(history))
	for _, msg := range history {
		if msg.ID == welcomeID || msg.IsError {
			continue
		}
		out = append(out, msg)
	}
	return out
}

func (c *Conversation) message(role gemini.Role, text string) gemini.ChatMessage {
	return gemini.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: c.now(),
	}
}
