package tts

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/config"
)

// FromConfig picks the engine named by cfg.TTSEngine. "silence" returns a
// nil Synthesizer, which WithSilentFallback turns into placeholder audio.
func FromConfig(cfg *config.Config, httpClient *http.Client, logger *zap.SugaredLogger) (Synthesizer, error) {
	switch cfg.TTSEngine {
	case "", "espeak":
		return Espeak{Bin: cfg.EspeakBin}, nil
	case "openai":
		return NewOpenAISpeech(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	case "elevenlabs":
		return NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, "", httpClient, logger)
	case SilenceEngine:
		return nil, nil
	default:
		return nil, errors.Errorf("unknown TTS engine %q", cfg.TTSEngine)
	}
}
