package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/audio"
)

const elevenLabsURL = "https://api.elevenlabs.io"

type ElevenLabsClient struct {
	APIKey  string
	VoiceId string
	ModelId string
	BaseURL string

	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewElevenLabsClient(apiKey, voiceId, modelId string, httpClient *http.Client, logger *zap.SugaredLogger) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, errors.New("ElevenLabs API key is required")
	}
	if modelId == "" {
		modelId = "eleven_multilingual_v2"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ElevenLabsClient{
		APIKey:     apiKey,
		VoiceId:    voiceId,
		ModelId:    modelId,
		BaseURL:    elevenLabsURL,
		httpClient: httpClient,
		logger:     loggerOrNop(logger),
	}, nil
}

func (client *ElevenLabsClient) Name() string { return "elevenlabs" }

// Synthesize asks for raw 22.05 kHz PCM and wraps it in a WAV header.
func (client *ElevenLabsClient) Synthesize(ctx context.Context, text, lang, outPath string) error {
	base, err := url.Parse(fmt.Sprintf("%s/v1/text-to-speech/%s", strings.TrimRight(client.BaseURL, "/"), client.VoiceId))
	if err != nil {
		return errors.Wrap(err, "parse elevenlabs url")
	}
	q := base.Query()
	q.Set("output_format", "pcm_22050")
	base.RawQuery = q.Encode()

	payload := map[string]interface{}{
		"text":     text,
		"model_id": client.ModelId,
		"voice_settings": map[string]float64{
			"stability":        0.75,
			"similarity_boost": 0.7,
		},
	}
	if lang != "" {
		payload["language_code"] = lang
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base.String(), bytes.NewReader(bodyBytes))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("xi-api-key", client.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "elevenlabs request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("elevenlabs: bad status %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read audio")
	}
	if len(pcm) == 0 {
		return errors.New("elevenlabs returned no audio")
	}
	client.logger.Debugf("🔊 elevenlabs returned %d bytes", len(pcm))
	return audio.WriteWAV(outPath, pcm, audio.FallbackFormat)
}
