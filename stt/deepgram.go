package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/model"
)

const deepgramBaseURL = "https://api.deepgram.com"

// TranscriptionMessage is the part of Deepgram's prerecorded response we read.
type TranscriptionMessage struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// DeepgramClient transcribes whole files with Deepgram's REST listen endpoint.
type DeepgramClient struct {
	APIKey   string
	Endpoint string
	Model    string
	Language string

	httpClient *http.Client
	preparer   Preparer
	logger     *zap.SugaredLogger
}

// NewDeepgramClient builds a client for apiKey. language uses Deepgram codes, e.g. "en-US".
func NewDeepgramClient(apiKey, language string, httpClient *http.Client, preparer Preparer, logger *zap.SugaredLogger) (*DeepgramClient, error) {
	if apiKey == "" {
		return nil, errors.New("deepgram API key is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if language == "" {
		language = "en-US"
	}
	return &DeepgramClient{
		APIKey:     apiKey,
		Endpoint:   deepgramBaseURL,
		Model:      "nova-2",
		Language:   language,
		httpClient: httpClient,
		preparer:   preparer,
		logger:     loggerOrNop(logger),
	}, nil
}

func (dg *DeepgramClient) Name() string { return "deepgram" }

// Transcribe uploads the clip and returns the first alternative.
func (dg *DeepgramClient) Transcribe(ctx context.Context, path string) (model.Transcript, error) {
	wavPath, cleanup := dg.preparer.Prepare(ctx, path)
	defer cleanup()

	data, err := os.ReadFile(wavPath)
	if err != nil {
		return model.Transcript{}, errors.Wrap(err, "read audio file")
	}
	if len(data) == 0 {
		return model.Transcript{}, ErrUnintelligible
	}

	q := url.Values{}
	q.Set("model", dg.Model)
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	q.Set("language", dg.Language)
	endpoint := strings.TrimRight(dg.Endpoint, "/") + "/v1/listen?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return model.Transcript{}, errors.Wrap(err, "build deepgram request")
	}
	req.Header.Set("Authorization", "Token "+dg.APIKey)
	req.Header.Set("Content-Type", contentType(wavPath))

	resp, err := dg.httpClient.Do(req)
	if err != nil {
		return model.Transcript{}, &ServiceError{Service: dg.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return model.Transcript{}, &ServiceError{
			Service: dg.Name(),
			Err:     errors.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var parsed TranscriptionMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.Transcript{}, errors.Wrap(err, "decode deepgram response")
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return model.Transcript{}, ErrUnintelligible
	}

	alt := parsed.Results.Channels[0].Alternatives[0]
	text := strings.TrimSpace(alt.Transcript)
	if text == "" {
		return model.Transcript{}, ErrUnintelligible
	}
	dg.logger.Debugf("📝 Deepgram transcript (confidence %.2f): %s", alt.Confidence, text)
	return model.Transcript{Text: text, Source: dg.Name()}, nil
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".webm":
		return "audio/webm"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
