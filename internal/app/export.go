package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"tubesight/internal/gemini"
)

type ExportResult struct {
	Dir   string
	Files []string
}

// ExportDeck writes the slide images, the deck as JSON and the speaker notes
// into a new session directory of the configured store. Slides without an
// image only appear in deck.json and notes.md.
func (s *Service) ExportDeck(ctx context.Context, title string, slides []gemini.SlideData) (*ExportResult, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("export deck: no storage configured")
	}

	sess := newSession(time.Now())
	sess.finalize(title)
	result := &ExportResult{Dir: sess.dir}

	for i, slide := range slides {
		if slide.ImageBase64 == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(slide.ImageBase64)
		if err != nil {
			slog.Warn("Skipping undecodable slide image", "slide", i, "error", err)
			continue
		}
		location, err := s.storage.Save(ctx, sess.slidePath(i), data)
		if err != nil {
			return nil, fmt.Errorf("save slide %d: %w", i, err)
		}
		result.Files = append(result.Files, location)
	}

	deck, err := json.MarshalIndent(slides, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode deck: %w", err)
	}
	location, err := s.storage.Save(ctx, sess.deckPath(), deck)
	if err != nil {
		return nil, fmt.Errorf("save deck: %w", err)
	}
	result.Files = append(result.Files, location)

	location, err = s.storage.Save(ctx, sess.notesPath(), []byte(renderNotes(title, slides)))
	if err != nil {
		return nil, fmt.Errorf("save notes: %w", err)
	}
	result.Files = append(result.Files, location)

	slog.Info("Deck exported", "dir", sess.dir, "files", len(result.Files))
	return result, nil
}

// ListDecks returns the session directories that hold a deck.json, newest
// first.
func (s *Service) ListDecks(ctx context.Context) ([]string, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("list decks: no storage configured")
	}

	names, err := s.storage.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}

	var dirs []string
	for _, name := range names {
		if path.Base(name) == deckFile {
			dirs = append(dirs, path.Dir(name))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	return dirs, nil
}

func renderNotes(title string, slides []gemini.SlideData) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}

	for i, slide := range slides {
		fmt.Fprintf(&sb, "## %d. %s\n\n", i+1, slide.Title)
		for _, point := range slide.BulletPoints {
			fmt.Fprintf(&sb, "- %s\n", point)
		}
		if slide.Notes != "" {
			fmt.Fprintf(&sb, "\n> %s\n", slide.Notes)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
