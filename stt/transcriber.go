// Package stt turns recorded clips into text through third-party recognizers.
package stt

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/audio"
	"github.com/mrsingh-rishi/voice-translate/model"
)

//go:generate mockgen -destination=../mocks/mock_stt.go -package=mocks github.com/mrsingh-rishi/voice-translate/stt Transcriber

// Transcriber converts the audio file at path to text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, path string) (model.Transcript, error)
}

// ErrUnintelligible means the service answered but heard no words.
var ErrUnintelligible = errors.New("could not understand audio")

// ServiceError wraps a failure talking to a recognition service.
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Describe renders err the way the command-line tools report it.
func Describe(err error) string {
	var svc *ServiceError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnintelligible):
		return "Could not understand audio - please speak clearly"
	case errors.As(err, &svc):
		return fmt.Sprintf("Speech recognition service error: %v - check internet connection", svc.Err)
	default:
		return fmt.Sprintf("Error processing audio: %v", err)
	}
}

// Preparer normalises a clip to 16 kHz mono WAV before recognition.
type Preparer struct {
	Converter audio.Converter
	// TempDir holds converted clips, os.TempDir() when empty.
	TempDir string
	Logger  *zap.SugaredLogger
}

// Prepare returns the path to recognise and a cleanup func. Files that are
// already WAV are used as is; others are converted into a temp file which
// cleanup removes. If conversion fails the original is used.
func (p Preparer) Prepare(ctx context.Context, path string) (string, func()) {
	noop := func() {}
	if audio.IsWAV(path) {
		return path, noop
	}

	logger := loggerOrNop(p.Logger)
	tmp, err := os.CreateTemp(p.TempDir, "stt-*.wav")
	if err != nil {
		logger.Warnf("⚠️ could not create temp file, using original file: %v", err)
		return path, noop
	}
	out := tmp.Name()
	_ = tmp.Close()
	cleanup := func() { _ = os.Remove(out) }

	if err := p.Converter.ToSpeechWAV(ctx, path, out); err != nil {
		cleanup()
		logger.Warnf("⚠️ audio conversion failed, using original file: %v", err)
		return path, noop
	}
	return out, cleanup
}

// Chain tries each transcriber in order and returns the first success.
type Chain struct {
	transcribers []Transcriber
	logger       *zap.SugaredLogger
}

// NewChain builds a chain; at least one transcriber is required.
func NewChain(logger *zap.SugaredLogger, transcribers ...Transcriber) (*Chain, error) {
	if len(transcribers) == 0 {
		return nil, errors.New("at least one transcriber is required")
	}
	return &Chain{transcribers: transcribers, logger: loggerOrNop(logger)}, nil
}

func (c *Chain) Name() string { return "chain" }

// Transcribe returns the first successful transcript. Unintelligible audio
// from the preferred service stops the chain since a fallback would only
// invent text; service failures move on to the next transcriber.
func (c *Chain) Transcribe(ctx context.Context, path string) (model.Transcript, error) {
	var lastErr error
	for i, t := range c.transcribers {
		if err := ctx.Err(); err != nil {
			return model.Transcript{}, err
		}

		tr, err := t.Transcribe(ctx, path)
		if err == nil {
			tr.Fallback = tr.Fallback || i > 0
			return tr, nil
		}
		if errors.Is(err, ErrUnintelligible) {
			return model.Transcript{}, err
		}

		c.logger.Warnf("❌ %s transcription failed: %v", t.Name(), err)
		lastErr = err
		if i+1 < len(c.transcribers) {
			c.logger.Infof("Online STT failed, trying %s", c.transcribers[i+1].Name())
		}
	}
	return model.Transcript{}, lastErr
}

func loggerOrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
