package dialogue

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// coachPersona is the system instruction applied to every engine request.
const coachPersona = `You are a personal AI coach grounded in transformative learning. ` +
	`You believe everyone holds real growth potential, and your role is to help them ` +
	`find the way of learning that fits them. Ask guiding questions, encourage ` +
	`reflection, and focus on inner growth over raw knowledge. Keep replies warm and concise.`

// GeminiEngine implements Engine using Google's Gemini API.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// NewGeminiEngine creates a Gemini-backed dialogue engine.
func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiEngine{
		client: client,
		model:  model,
	}, nil
}

// Reply generates a coaching response for a user message.
func (e *GeminiEngine) Reply(ctx context.Context, userID, message string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(message, genai.RoleUser),
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model, contents,
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(coachPersona, genai.RoleUser),
		})
	if err != nil {
		return "", fmt.Errorf("gemini generate (user %s): %w", userID, err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}

// Close implements Engine. The genai client is plain HTTP and holds no
// closable resources.
func (e *GeminiEngine) Close() error {
	return nil
}
