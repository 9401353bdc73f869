package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const googleWebURL = "https://translate.googleapis.com/translate_a/single"

// Google scrapes the free web endpoint the Translate widget uses. No key is
// needed but the format is undocumented and may change.
type Google struct {
	Endpoint   string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewGoogle(httpClient *http.Client, logger *zap.SugaredLogger) *Google {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Google{Endpoint: googleWebURL, httpClient: httpClient, logger: loggerOrNop(logger)}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	sl := source
	if isAuto(source) {
		sl = "auto"
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", sl)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "build google request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "google request")
	}
	defer resp.Body.Close()
	if err := checkResponse(g.Name(), resp); err != nil {
		return "", err
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "decode google response")
	}
	translated, detected, err := parseGoogle(payload)
	if err != nil {
		return "", err
	}
	if detected != "" && isAuto(source) {
		g.logger.Debugf("Detected language: %s", detected)
	}
	return translated, nil
}

// parseGoogle reads [[["target","source",...],...],null,"detected",...].
func parseGoogle(payload []json.RawMessage) (string, string, error) {
	if len(payload) == 0 {
		return "", "", ErrEmptyResult
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", "", errors.Wrap(err, "decode google segments")
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}

	var detected string
	if len(payload) > 2 {
		_ = json.Unmarshal(payload[2], &detected)
	}
	if b.Len() == 0 {
		return "", detected, ErrEmptyResult
	}
	return b.String(), detected, nil
}
