package translate

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/config"
)

// Single answers with one named backend. Blank answers count as failures
// and the output is ErrorText(text) once every try has failed. The LLM
// backends get Google web as a second try, or as the only one when their
// key is missing.
type Single struct {
	backends []Translator
	logger   *zap.SugaredLogger
}

func NewSingle(ctx context.Context, name string, cfg *config.Config, httpClient *http.Client, logger *zap.SugaredLogger) (*Single, error) {
	logger = loggerOrNop(logger)
	llm := name == "openai" || name == "gemini"

	t, err := New(ctx, name, cfg, httpClient, logger)
	switch {
	case err == nil:
	case llm && errors.Is(err, ErrNotConfigured):
		logger.Warnf("⚠️ %v, falling back to google", err)
		return &Single{backends: []Translator{NewGoogle(httpClient, logger)}, logger: logger}, nil
	default:
		return nil, err
	}

	backends := []Translator{t}
	if llm {
		backends = append(backends, NewGoogle(httpClient, logger))
	}
	return &Single{backends: backends, logger: logger}, nil
}

// Translate never fails; see Single.
func (s *Single) Translate(ctx context.Context, text, source, target string) string {
	for _, t := range s.backends {
		if ctx.Err() != nil {
			break
		}
		out, err := t.Translate(ctx, text, source, target)
		out = strings.TrimSpace(out)
		switch {
		case err != nil:
			s.logger.Errorf("❌ %s translation error: %v", t.Name(), err)
		case out == "":
			s.logger.Errorf("❌ %s returned an empty translation", t.Name())
		default:
			return out
		}
	}
	return ErrorText(text)
}
