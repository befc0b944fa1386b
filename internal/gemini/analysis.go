package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"tubesight/pkg/prompts"
)

const emptyAnalysisText = "Analysis complete, but no text returned."

// Analyze sends the video with the instruction template for req.Mode and
// returns the model's markdown answer in one piece.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	if err := req.Video.Validate(); err != nil {
		return nil, err
	}
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("unknown analysis mode %q", req.Mode)
	}

	systemPrompt, err := c.prompts.AnalysisSystem(string(req.Mode))
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	userPrompt, err := c.prompts.RenderAnalysisRequest(prompts.AnalysisParams{
		Notes: req.Notes,
		Mode:  string(req.Mode),
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			videoPart(req.Video),
			genai.NewPartFromText(userPrompt),
		}, genai.RoleUser),
	}

	c.logger.Debug("Requesting analysis", "mode", req.Mode, "model", c.opts.AnalysisModel, "video_bytes", req.Video.Size())

	resp, err := c.gen.GenerateContent(ctx, c.opts.AnalysisModel, contents, textConfig(systemPrompt, c.opts.AnalysisThinkingBudget))
	if err != nil {
		return nil, analysisError(err)
	}

	text := responseText(resp)
	if text == "" {
		text = emptyAnalysisText
	}
	return &AnalysisResult{Text: text}, nil
}
