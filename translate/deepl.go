package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-translate/model"
)

// DeepL calls the DeepL v2 translate API. Free-tier keys use api-free.deepl.com.
type DeepL struct {
	Key        string
	BaseURL    string
	httpClient *http.Client
}

func NewDeepL(key, baseURL string, httpClient *http.Client) (*DeepL, error) {
	if key == "" {
		return nil, errors.New("deepl API key is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DeepL{Key: key, BaseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}, nil
}

func (d *DeepL) Name() string { return "deepl" }

func (d *DeepL) Translate(ctx context.Context, text, source, target string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", model.DeepLTarget(target))
	if !isAuto(source) {
		form.Set("source_lang", strings.ToUpper(source))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL+"/v2/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "build deepl request")
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.Key)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "deepl request")
	}
	defer resp.Body.Close()
	if err := checkResponse(d.Name(), resp); err != nil {
		return "", err
	}

	var parsed struct {
		Translations []struct {
			DetectedSourceLanguage string `json:"detected_source_language"`
			Text                   string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "decode deepl response")
	}
	if len(parsed.Translations) == 0 {
		return "", ErrEmptyResult
	}
	return parsed.Translations[0].Text, nil
}
