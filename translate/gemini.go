package translate

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// Gemini translates with Google's Gemini models through the genai SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds the backend. httpClient may be nil for the SDK default.
func NewGemini(ctx context.Context, apiKey, modelName string, httpClient *http.Client) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGoogleAI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &Gemini{client: client, model: modelName}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(translationPrompt(text, source, target)), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: translatorSystemPrompt}},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "gemini generate")
	}
	return collectGeminiText(resp), nil
}

func collectGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
