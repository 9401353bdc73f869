package translate

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/config"
)

// ErrNotConfigured is returned by New for a backend whose credentials are missing.
var ErrNotConfigured = errors.New("backend not configured")

// New builds the named backend from cfg.
func New(ctx context.Context, name string, cfg *config.Config, httpClient *http.Client, logger *zap.SugaredLogger) (Translator, error) {
	switch name {
	case "google":
		return NewGoogle(httpClient, logger), nil
	case "phrasebook":
		return Phrasebook{}, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.Wrap(ErrNotConfigured, "OPENAI_API_KEY not set")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, logger)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.Wrap(ErrNotConfigured, "GEMINI_API_KEY not set")
		}
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, httpClient)
	case "azure":
		if cfg.AzureKey == "" {
			return nil, errors.Wrap(ErrNotConfigured, "AZURE_TRANSLATOR_KEY not set")
		}
		return NewAzure(cfg.AzureKey, cfg.AzureRegion, cfg.AzureEndpoint, httpClient)
	case "deepl":
		if cfg.DeepLAPIKey == "" {
			return nil, errors.Wrap(ErrNotConfigured, "DEEPL_API_KEY not set")
		}
		return NewDeepL(cfg.DeepLAPIKey, cfg.DeepLURL, httpClient)
	default:
		return nil, errors.Errorf("unknown translation backend %q", name)
	}
}

// FromConfig builds the chain named by cfg.TranslateBackends. Backends
// without credentials are left out rather than failing the whole chain.
func FromConfig(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *zap.SugaredLogger) (*Chain, error) {
	logger = loggerOrNop(logger)
	var backends []Translator
	for _, name := range cfg.TranslateBackends {
		t, err := New(ctx, name, cfg, httpClient, logger)
		if errors.Is(err, ErrNotConfigured) {
			logger.Debugf("skipping %s: %v", name, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		backends = append(backends, t)
	}
	return NewChain(logger, backends...), nil
}
