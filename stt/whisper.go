package stt

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/model"
)

// WhisperClient transcribes through OpenAI's audio transcription endpoint.
type WhisperClient struct {
	client   *openai.Client
	model    string
	language string
	preparer Preparer
	logger   *zap.SugaredLogger
}

// NewWhisperClient builds a client. baseURL may be empty for the public API.
// language is an ISO-639-1 code such as "en".
func NewWhisperClient(apiKey, baseURL, language string, preparer Preparer, logger *zap.SugaredLogger) (*WhisperClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &WhisperClient{
		client:   openai.NewClientWithConfig(cfg),
		model:    openai.Whisper1,
		language: language,
		preparer: preparer,
		logger:   loggerOrNop(logger),
	}, nil
}

func (w *WhisperClient) Name() string { return "whisper" }

func (w *WhisperClient) Transcribe(ctx context.Context, path string) (model.Transcript, error) {
	wavPath, cleanup := w.preparer.Prepare(ctx, path)
	defer cleanup()

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: wavPath,
		Language: w.language,
	})
	if err != nil {
		return model.Transcript{}, &ServiceError{Service: w.Name(), Err: err}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return model.Transcript{}, ErrUnintelligible
	}
	w.logger.Debugf("📝 Whisper transcript: %s", text)
	return model.Transcript{Text: text, Source: w.Name()}, nil
}
