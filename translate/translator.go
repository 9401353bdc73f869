// Package translate holds the interchangeable translation backends and the
// fallback chain that tries them in order.
package translate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/model"
)

// Translator converts text to target. source may be model.AutoDetect.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// ErrEmptyResult is returned by a backend that answered with no text.
var ErrEmptyResult = errors.New("empty translation")

// HTTPError is a non-2xx answer from a translation API.
type HTTPError struct {
	Backend string
	Status  int
	Body    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Backend, e.Status, e.Body)
}

// ErrorText is what single-backend commands print when translation fails.
func ErrorText(text string) string {
	return "[Translation Error] " + text
}

// Untranslated is the last-resort output of the chain.
func Untranslated(text, target string) string {
	return model.Tag(target) + " " + text
}

func checkResponse(backend string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &HTTPError{Backend: backend, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

func isAuto(source string) bool {
	return source == "" || strings.EqualFold(source, model.AutoDetect)
}

func loggerOrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
