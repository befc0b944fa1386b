package app

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

const deckFile = "deck.json"

// session names one export directory inside the store.
type session struct {
	id  string
	dir string
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func newSession(now time.Time) *session {
	return &session{id: now.Format("20060102_150405")}
}

func (s *session) finalize(title string) {
	sanitized := sanitizeForPath(title)
	if sanitized == "" {
		sanitized = "untitled"
	}
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}

	s.dir = fmt.Sprintf("%s_%s", s.id, sanitized)
}

func (s *session) slidePath(i int) string { return path.Join(s.dir, fmt.Sprintf("slide-%d.png", i)) }
func (s *session) deckPath() string       { return path.Join(s.dir, deckFile) }
func (s *session) notesPath() string      { return path.Join(s.dir, "notes.md") }

func sanitizeForPath(s string) string {
	s = strings.ToLower(s)
	s = sanitizeRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
