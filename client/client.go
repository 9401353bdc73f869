// Package client talks to the translation server over HTTP and WebSocket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/types"
)

// ProbeTimeout bounds health probes.
const ProbeTimeout = 2 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Body    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

type Client struct {
	BaseURL string

	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// New returns a client for baseURL. A nil httpClient uses a 30 s timeout.
func New(baseURL string, httpClient *http.Client, logger *zap.SugaredLogger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Translate calls POST /translate.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	var out types.TranslateResponse
	err := c.doJSON(ctx, http.MethodPost, "/translate", types.TranslateRequest{Text: text, TargetLang: targetLang}, &out)
	if err != nil {
		return "", err
	}
	return out.TranslatedText, nil
}

// TTS calls POST /tts and returns the audio bytes.
func (c *Client) TTS(ctx context.Context, text, language string) ([]byte, error) {
	body, err := json.Marshal(types.TTSRequest{Text: text, Language: language})
	if err != nil {
		return nil, errors.Wrap(err, "marshal tts request")
	}
	resp, err := c.send(ctx, http.MethodPost, "/tts", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read tts audio")
	}
	return audio, nil
}

// LiveTranslate uploads one clip to POST /live-translate.
func (c *Client) LiveTranslate(ctx context.Context, audio io.Reader, filename, targetLang, videoTimestamp string) (types.LiveTranslateResponse, error) {
	var out types.LiveTranslateResponse

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return out, errors.Wrap(err, "create audio part")
	}
	if _, err := io.Copy(part, audio); err != nil {
		return out, errors.Wrap(err, "copy audio")
	}
	if err := mw.WriteField("targetLang", targetLang); err != nil {
		return out, errors.Wrap(err, "write targetLang")
	}
	if videoTimestamp != "" {
		if err := mw.WriteField("videoTimestamp", videoTimestamp); err != nil {
			return out, errors.Wrap(err, "write videoTimestamp")
		}
	}
	if err := mw.Close(); err != nil {
		return out, errors.Wrap(err, "close multipart")
	}

	resp, err := c.send(ctx, http.MethodPost, "/live-translate", mw.FormDataContentType(), &buf)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, errors.Wrap(err, "decode live-translate response")
	}
	return out, nil
}

// CreateRoom calls POST /create-room.
func (c *Client) CreateRoom(ctx context.Context, req types.CreateRoomRequest) (types.CreateRoomResponse, error) {
	var out types.CreateRoomResponse
	err := c.doJSON(ctx, http.MethodPost, "/create-room", req, &out)
	return out, err
}

// ListRooms calls GET /rooms.
func (c *Client) ListRooms(ctx context.Context) ([]types.Room, error) {
	var out types.RoomList
	if err := c.doJSON(ctx, http.MethodGet, "/rooms", nil, &out); err != nil {
		return nil, err
	}
	return out.Rooms, nil
}

// Health calls GET /.
func (c *Client) Health(ctx context.Context) (types.Health, error) {
	var out types.Health
	err := c.doJSON(ctx, http.MethodGet, "/", nil, &out)
	return out, err
}

// Ping GETs url with ProbeTimeout and reports the status code. Any HTTP
// answer, even an error status, means the service is up.
func (c *Client) Ping(ctx context.Context, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "build probe")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "marshal %s body", path)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debugf("➡️ %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		var er types.ErrorResponse
		if json.Unmarshal(raw, &er) == nil {
			apiErr.Message = er.Error
		}
		return nil, apiErr
	}
	return resp, nil
}
