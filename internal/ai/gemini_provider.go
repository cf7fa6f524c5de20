package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/meal-hub/internal/config"
	"github.com/fdg312/meal-hub/internal/planner"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider talks to the Google Gemini API. The client is created per
// request: plan generation is rare and the SDK client holds a connection
// that would otherwise idle.
type GeminiProvider struct {
	apiKey  string
	model   string
	timeout time.Duration
}

func NewGeminiProvider(cfg *config.Config) *GeminiProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 60
	}
	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-pro"
	}
	return &GeminiProvider{
		apiKey:  cfg.GeminiAPIKey,
		model:   model,
		timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

func (p *GeminiProvider) GenerateDraft(ctx context.Context, req planner.DraftRequest) (*planner.Plan, error) {
	text, err := p.generate(ctx, buildDraftPrompt(req))
	if err != nil {
		return nil, err
	}
	return ExtractPlanJSON(text)
}

func (p *GeminiProvider) OptimizePlan(ctx context.Context, plan *planner.Plan) (*planner.Plan, error) {
	text, err := p.generate(ctx, buildOptimizePrompt(plan))
	if err != nil {
		return nil, err
	}
	return ExtractPlanJSON(text)
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	return geminiResponseText(resp)
}

// geminiResponseText pulls the text part out of a response. Content is
// nil when generation was safety-blocked.
func geminiResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contains no content")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("gemini response is not text")
	}

	return strings.TrimSpace(string(text)), nil
}
