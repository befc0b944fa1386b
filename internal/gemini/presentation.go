package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"tubesight/pkg/prompts"
)

const (
	defaultInstructions = "Summarize key points."
	defaultAudience     = "General"
	defaultStyle        = "Modern"
	defaultColorTheme   = "Corporate"
)

var slidePlanSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":        {Type: genai.TypeString, Description: "Slide title, under 8 words"},
		"bulletPoints": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"notes":        {Type: genai.TypeString, Description: "Speaker notes in the target language"},
		"imagePrompt":  {Type: genai.TypeString, Description: "English prompt for the background image"},
	},
	Required:         []string{"title", "bulletPoints", "notes", "imagePrompt"},
	PropertyOrdering: []string{"title", "bulletPoints", "notes", "imagePrompt"},
}

func slideDeckSchema(count int) *genai.Schema {
	n := int64(count)
	return &genai.Schema{
		Type:     genai.TypeArray,
		Items:    slidePlanSchema,
		MinItems: &n,
		MaxItems: &n,
	}
}

// GeneratePresentation plans req.SlideCount slides from the video, then
// illustrates all of them concurrently. A slide whose image fails keeps its
// text and gets an empty ImageBase64. If ctx ends before the images are
// done, no slides are returned.
func (c *Client) GeneratePresentation(ctx context.Context, req PresentationRequest) ([]SlideData, error) {
	if err := req.Video.Validate(); err != nil {
		return nil, err
	}
	if req.SlideCount < 1 || req.SlideCount > c.opts.MaxSlides {
		return nil, fmt.Errorf("%w: %d, want 1-%d", ErrInvalidSlideCount, req.SlideCount, c.opts.MaxSlides)
	}
	if req.Language == "" {
		req.Language = LanguageEnglish
	}
	if _, err := ParseLanguage(string(req.Language)); err != nil {
		return nil, err
	}
	req = withPresentationDefaults(req)

	plans, err := c.planSlides(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Illustrating slides", "count", len(plans), "model", c.opts.ImageModel)
	slides := c.illustrate(ctx, req, plans)

	// Image failures are tolerated per slide, cancellation is not.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slides, nil
}

func withPresentationDefaults(req PresentationRequest) PresentationRequest {
	if req.Instructions == "" {
		req.Instructions = defaultInstructions
	}
	if req.Audience == "" {
		req.Audience = defaultAudience
	}
	if req.Style == "" {
		req.Style = defaultStyle
	}
	if req.ColorTheme == "" {
		req.ColorTheme = defaultColorTheme
	}
	return req
}

func (c *Client) planSlides(ctx context.Context, req PresentationRequest) ([]slidePlan, error) {
	prompt, err := c.prompts.RenderPlan(prompts.PlanParams{
		SlideCount:   req.SlideCount,
		Instructions: req.Instructions,
		Audience:     req.Audience,
		Style:        req.Style,
		ColorTheme:   req.ColorTheme,
		LanguageName: req.Language.DisplayName(),
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			videoPart(req.Video),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   slideDeckSchema(req.SlideCount),
	}
	if c.opts.PlanningThinkingBudget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(c.opts.PlanningThinkingBudget)}
	}

	resp, err := c.gen.GenerateContent(ctx, c.opts.PlanningModel, contents, config)
	if err != nil {
		return nil, planningError(err)
	}

	content := responseText(resp)
	if content == "" {
		return nil, planningError(errors.New("no JSON response"))
	}

	var plans []slidePlan
	if err := json.Unmarshal([]byte(content), &plans); err != nil {
		return nil, planningError(fmt.Errorf("parse plan: %w", err))
	}
	if len(plans) < req.SlideCount {
		return nil, planningError(fmt.Errorf("plan has %d slides, want %d", len(plans), req.SlideCount))
	}
	if len(plans) > req.SlideCount {
		c.logger.Warn("Planner returned extra slides", "got", len(plans), "want", req.SlideCount)
		plans = plans[:req.SlideCount]
	}

	return plans, nil
}

// illustrate runs one image request per plan and waits for all of them.
// slides[i] always corresponds to plans[i].
func (c *Client) illustrate(ctx context.Context, req PresentationRequest, plans []slidePlan) []SlideData {
	slides := make([]SlideData, len(plans))

	var g errgroup.Group
	if c.opts.ImageConcurrency > 0 {
		g.SetLimit(c.opts.ImageConcurrency)
	}

	for i, plan := range plans {
		g.Go(func() error {
			slides[i] = SlideData{
				ID:           fmt.Sprintf("slide-%d", i),
				Title:        plan.Title,
				BulletPoints: plan.BulletPoints,
				Notes:        plan.Notes,
				ImageBase64:  c.generateImage(ctx, i, plan, req),
			}
			return nil
		})
	}

	_ = g.Wait()
	return slides
}

// generateImage returns the base64 image for one slide, or "" on failure.
func (c *Client) generateImage(ctx context.Context, index int, plan slidePlan, req PresentationRequest) string {
	prompt, err := c.prompts.RenderImage(prompts.ImageParams{
		ImagePrompt: plan.ImagePrompt,
		Style:       req.Style,
		ColorTheme:  req.ColorTheme,
	})
	if err != nil {
		c.logger.Warn("Failed to render image prompt", "slide", index, "error", err)
		return ""
	}

	resp, err := c.gen.GenerateContent(ctx, c.opts.ImageModel, genai.Text(prompt), nil)
	if err != nil {
		c.logger.Warn("Failed to generate slide image", "slide", index, "error", err)
		return ""
	}

	data := inlineImage(resp)
	if data == nil {
		c.logger.Warn("No image returned for slide", "slide", index)
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}
