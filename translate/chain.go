package translate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/model"
)

// Chain is a waterfall over backends: the first non-empty answer wins and,
// when every backend fails, the text comes back tagged with the target
// language instead of an error.
type Chain struct {
	backends []Translator
	logger   *zap.SugaredLogger
}

// NewChain builds a chain. An empty chain is valid and always returns the
// tagged original.
func NewChain(logger *zap.SugaredLogger, backends ...Translator) *Chain {
	return &Chain{backends: backends, logger: loggerOrNop(logger)}
}

// Backends lists the backend names in the order they are tried.
func (c *Chain) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// Translate returns a translation for every input; err is non-nil only when
// ctx is done.
func (c *Chain) Translate(ctx context.Context, text, source, target string) (model.Translation, error) {
	if source == "" {
		source = model.AutoDetect
	}
	out := model.Translation{SourceText: text, SourceLang: source, TargetLang: target}

	c.logger.Infof("Translating: '%s' from %s to %s", text, source, target)
	for _, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		translated, err := b.Translate(ctx, text, source, target)
		if err == nil {
			translated = strings.TrimSpace(translated)
		}
		if err == nil && translated == "" {
			err = ErrEmptyResult
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			c.logger.Warnf("❌ %s failed: %v", b.Name(), err)
			continue
		}

		c.logger.Debugf("%s: %s -> %s", b.Name(), text, translated)
		out.Text = translated
		out.Backend = b.Name()
		return out, nil
	}

	c.logger.Warn("⚠️ All translation methods failed, returning original")
	out.Text = Untranslated(text, target)
	out.Fallback = true
	return out, nil
}
