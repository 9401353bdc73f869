package translate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/llm"
	"github.com/mrsingh-rishi/voice-translate/model"
)

const translatorSystemPrompt = "You are a professional translator. Provide accurate, natural translations. Return ONLY the translated text, nothing else."

// Completer is the slice of llm.OpenAIClient the OpenAI backend needs.
type Completer interface {
	Complete(ctx context.Context, input string) (string, error)
}

// OpenAI translates with a chat completion model.
type OpenAI struct {
	completer Completer
}

// NewOpenAI wires a chat client with the translator prompt and the
// low-temperature settings used for translation.
func NewOpenAI(apiKey, baseURL, modelName string, logger *zap.SugaredLogger) (*OpenAI, error) {
	client, err := llm.NewOpenAIClient(apiKey, baseURL, translatorSystemPrompt, llm.Options{
		Model:       modelName,
		Temperature: 0.3,
		MaxTokens:   500,
	}, logger)
	if err != nil {
		return nil, err
	}
	return &OpenAI{completer: client}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Translate(ctx context.Context, text, source, target string) (string, error) {
	return o.completer.Complete(ctx, translationPrompt(text, source, target))
}

func translationPrompt(text, source, target string) string {
	if isAuto(source) {
		return fmt.Sprintf("Translate the following text to %s. Provide ONLY the translation, no explanations or additional text:\n\n%s",
			model.LanguageName(target), text)
	}
	return fmt.Sprintf("Translate the following text from %s to %s. Provide ONLY the translation, no explanations or additional text:\n\n%s",
		model.LanguageName(source), model.LanguageName(target), text)
}
