package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Azure calls the Cognitive Services Translator v3 REST API.
type Azure struct {
	Key        string
	Region     string
	Endpoint   string
	httpClient *http.Client
}

func NewAzure(key, region, endpoint string, httpClient *http.Client) (*Azure, error) {
	if key == "" {
		return nil, errors.New("azure translator key is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Azure{
		Key:        key,
		Region:     region,
		Endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}, nil
}

func (a *Azure) Name() string { return "azure" }

type azureText struct {
	Text string `json:"text"`
}

type azureResult struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func (a *Azure) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("api-version", "3.0")
	params.Set("to", target)
	if !isAuto(source) {
		params.Set("from", source)
	}

	body, err := json.Marshal([]azureText{{Text: text}})
	if err != nil {
		return "", errors.Wrap(err, "marshal azure body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint+"/translate?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build azure request")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.Key)
	if a.Region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", a.Region)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "azure request")
	}
	defer resp.Body.Close()
	if err := checkResponse(a.Name(), resp); err != nil {
		return "", err
	}

	var results []azureResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", errors.Wrap(err, "decode azure response")
	}
	if len(results) == 0 || len(results[0].Translations) == 0 {
		return "", ErrEmptyResult
	}
	return results[0].Translations[0].Text, nil
}
