package gemini

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
)

func chunkStream(chunks []string, tail error) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, chunk := range chunks {
			if !yield(textResponse(chunk), nil) {
				return
			}
		}
		if tail != nil {
			yield(nil, tail)
		}
	}
}

func collect(seq iter.Seq2[string, error]) ([]string, error) {
	var fragments []string
	for fragment, err := range seq {
		if err != nil {
			return fragments, err
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}

func TestStreamChatFragmentsConcatenate(t *testing.T) {
	chunks := []string{"The speaker ", "mentions pricing ", "at 02:15."}
	gen := &fakeGenerator{
		stream: func(string, []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error] {
			return chunkStream(chunks, nil)
		},
		generate: func(string, []*genai.Content) (*genai.GenerateContentResponse, error) {
			return textResponse(strings.Join(chunks, "")), nil
		},
	}
	c := newTestClient(t, gen, Options{})

	fragments, err := collect(c.StreamChat(context.Background(), ChatRequest{Video: testVideo(), Message: "When is pricing discussed?"}))
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if len(fragments) != len(chunks) {
		t.Fatalf("fragments = %d, want %d", len(fragments), len(chunks))
	}

	whole, _ := gen.generate("", nil)
	if got, want := strings.Join(fragments, ""), responseText(whole); got != want {
		t.Errorf("streamed = %q, non-streamed = %q", got, want)
	}
}

func TestStreamChatTranscriptOrder(t *testing.T) {
	gen := &fakeGenerator{
		stream: func(string, []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error] {
			return chunkStream([]string{"ok"}, nil)
		},
	}
	c := newTestClient(t, gen, Options{ChatModel: "chat-model"})

	now := time.Now()
	history := []ChatMessage{
		{ID: "1", Role: RoleUser, Text: "first question", Timestamp: now},
		{ID: "2", Role: RoleModel, Text: "first answer", Timestamp: now},
		{ID: "3", Role: RoleUser, Text: "second question", Timestamp: now},
		{ID: "4", Role: RoleModel, Text: "second answer", Timestamp: now},
	}

	if _, err := collect(c.StreamChat(context.Background(), ChatRequest{Video: testVideo(), History: history, Message: "third question"})); err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	calls := gen.callsTo("chat-model")
	if len(calls) != 1 || !calls[0].stream {
		t.Fatalf("want one streamed call, got %d", len(calls))
	}
	contents := calls[0].contents
	if len(contents) != len(history)+3 {
		t.Fatalf("turns = %d, want %d", len(contents), len(history)+3)
	}

	if string(contents[0].Role) != string(genai.RoleUser) || contents[0].Parts[0].InlineData == nil {
		t.Error("turn 0 should be the user video turn")
	}
	if string(contents[1].Role) != string(genai.RoleModel) || contents[1].Parts[0].Text != c.prompts.Chat.Acknowledgment {
		t.Error("turn 1 should be the model acknowledgement")
	}
	for i, msg := range history {
		turn := contents[i+2]
		if turn.Parts[0].Text != msg.Text {
			t.Errorf("turn %d text = %q, want %q", i+2, turn.Parts[0].Text, msg.Text)
		}
		if string(turn.Role) != string(msg.Role) {
			t.Errorf("turn %d role = %q, want %q", i+2, turn.Role, msg.Role)
		}
	}
	last := contents[len(contents)-1]
	if string(last.Role) != string(genai.RoleUser) || last.Parts[0].Text != "third question" {
		t.Errorf("last turn = %q/%q, want user/third question", last.Role, last.Parts[0].Text)
	}
	if calls[0].config.SystemInstruction == nil {
		t.Error("chat call should carry the system instruction")
	}
}

func TestStreamChatSkipsEmptyChunks(t *testing.T) {
	gen := &fakeGenerator{
		stream: func(string, []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error] {
			return chunkStream([]string{"a", "", "b"}, nil)
		},
	}
	c := newTestClient(t, gen, Options{})

	fragments, err := collect(c.StreamChat(context.Background(), ChatRequest{Video: testVideo(), Message: "hi"}))
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if strings.Join(fragments, "|") != "a|b" {
		t.Errorf("fragments = %v, want [a b]", fragments)
	}
}

func TestStreamChatEmptyStream(t *testing.T) {
	gen := &fakeGenerator{
		stream: func(string, []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error] {
			return emptyStream()
		},
	}
	c := newTestClient(t, gen, Options{})

	fragments, err := collect(c.StreamChat(context.Background(), ChatRequest{Video: testVideo(), Message: "hi"}))
	if err != nil || len(fragments) != 0 {
		t.Errorf("got %v, %v; want no fragments and no error", fragments, err)
	}
}

func TestStreamChatMidStreamFailure(t *testing.T) {
	gen := &fakeGenerator{
		stream: func(string, []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error] {
			return chunkStream([]string{"partial ", "answer"}, errors.New("stream reset"))
		},
	}
	c := newTestClient(t, gen, Options{})

	fragments, err := collect(c.StreamChat(context.Background(), ChatRequest{Video: testVideo(), Message: "hi"}))
	if strings.Join(fragments, "") != "partial answer" {
		t.Errorf("fragments before failure = %v", fragments)
	}
	var streamErr *ChatStreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("error = %T, want *ChatStreamError", err)
	}
	if streamErr.Message != "stream reset" {
		t.Errorf("Message = %q", streamErr.Message)
	}
}

func TestStreamChatEarlyBreak(t *testing.T) {
	produced := 0
	gen := &fakeGenerator{
		stream: func(string, []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error] {
			return func(yield func(*genai.GenerateContentResponse, error) bool) {
				for i := 0; i < 10; i++ {
					produced++
					if !yield(textResponse("x"), nil) {
						return
					}
				}
			}
		},
	}
	c := newTestClient(t, gen, Options{})

	for range c.StreamChat(context.Background(), ChatRequest{Video: testVideo(), Message: "hi"}) {
		break
	}
	if produced != 1 {
		t.Errorf("provider produced %d chunks after consumer stopped, want 1", produced)
	}
}

func TestStreamChatPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		req     ChatRequest
		wantErr error
	}{
		{name: "emptyMessage", req: ChatRequest{Video: testVideo(), Message: "   "}, wantErr: ErrEmptyMessage},
		{name: "missingVideo", req: ChatRequest{Message: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			c := newTestClient(t, gen, Options{})

			_, err := collect(c.StreamChat(context.Background(), tt.req))
			if err == nil {
				t.Fatal("StreamChat() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if gen.callCount() != 0 {
				t.Errorf("provider called %d times", gen.callCount())
			}
		})
	}
}
