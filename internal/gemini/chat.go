package gemini

import (
	"context"
	"iter"
	"strings"

	"google.golang.org/genai"
)

// StreamChat replays the conversation behind the video and yields the reply
// fragment by fragment, in the order the provider sends them. A failure is
// yielded as the final element. Stopping the range loop early cancels the
// underlying stream.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := req.Video.Validate(); err != nil {
			yield("", err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			yield("", ErrEmptyMessage)
			return
		}

		contents := c.Transcript(req)
		config := textConfig(c.prompts.Chat.System, c.opts.ChatThinkingBudget)

		c.logger.Debug("Streaming chat", "model", c.opts.ChatModel, "turns", len(contents))

		for resp, err := range c.gen.GenerateContentStream(ctx, c.opts.ChatModel, contents, config) {
			if err != nil {
				yield("", chatError(err))
				return
			}
			text := responseText(resp)
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// Transcript builds the provider conversation: the video turn, the model's
// acknowledgement, every history message in order, then the new message.
func (c *Client) Transcript(req ChatRequest) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+3)

	contents = append(contents,
		genai.NewContentFromParts([]*genai.Part{
			videoPart(req.Video),
			genai.NewPartFromText(c.prompts.Chat.VideoContext),
		}, genai.RoleUser),
		genai.NewContentFromText(c.prompts.Chat.Acknowledgment, genai.RoleModel),
	)

	for _, msg := range req.History {
		contents = append(contents, genai.NewContentFromText(msg.Text, providerRole(msg.Role)))
	}

	return append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))
}

func providerRole(role Role) genai.Role {
	if role == RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
