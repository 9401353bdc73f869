package tts

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAISpeech uses OpenAI's speech endpoint. The voice is multilingual so
// lang is not sent.
type OpenAISpeech struct {
	client *openai.Client
	Model  openai.SpeechModel
	Voice  openai.SpeechVoice
}

func NewOpenAISpeech(apiKey, baseURL string) (*OpenAISpeech, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISpeech{
		client: openai.NewClientWithConfig(cfg),
		Model:  openai.TTSModel1,
		Voice:  openai.VoiceAlloy,
	}, nil
}

func (o *OpenAISpeech) Name() string { return "openai" }

func (o *OpenAISpeech) Synthesize(ctx context.Context, text, _, outPath string) error {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          o.Model,
		Input:          text,
		Voice:          o.Voice,
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return errors.Wrap(err, "openai speech")
	}
	defer resp.Close()

	return writeFile(outPath, resp)
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Wrap(err, "write audio")
	}
	return f.Close()
}
