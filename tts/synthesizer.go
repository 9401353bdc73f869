// Package tts renders text to an audio file.
package tts

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/audio"
	"github.com/mrsingh-rishi/voice-translate/model"
)

// Synthesizer writes speech for text in lang to outPath.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, lang, outPath string) error
}

// SilenceEngine is the engine name reported for placeholder audio.
const SilenceEngine = "silence"

// FallbackDuration is the length of the placeholder clip.
const FallbackDuration = time.Second

// Fallback wraps a Synthesizer so callers always get a playable file.
type Fallback struct {
	synth  Synthesizer
	logger *zap.SugaredLogger
}

// WithSilentFallback wraps s. A nil s always produces silence.
func WithSilentFallback(s Synthesizer, logger *zap.SugaredLogger) *Fallback {
	return &Fallback{synth: s, logger: loggerOrNop(logger)}
}

// Speak synthesizes text. When the engine fails, one second of silence is
// written instead and the result is marked as a fallback.
func (f *Fallback) Speak(ctx context.Context, text, lang, outPath string) (model.Speech, error) {
	speech := model.Speech{Path: outPath, Language: lang}

	if f.synth != nil {
		err := f.synth.Synthesize(ctx, text, lang, outPath)
		if err == nil {
			speech.Engine = f.synth.Name()
			return speech, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return speech, ctxErr
		}
		f.logger.Warnf("❌ TTS Error (%s): %v", f.synth.Name(), err)
	}

	if err := audio.WriteSilence(outPath, audio.FallbackFormat, FallbackDuration); err != nil {
		return speech, errors.Wrap(err, "write placeholder audio")
	}
	f.logger.Infof("🔇 wrote placeholder audio to %s", outPath)
	speech.Engine = SilenceEngine
	speech.Fallback = true
	return speech, nil
}

func loggerOrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
