package stt

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/audio"
	"github.com/mrsingh-rishi/voice-translate/config"
)

// FromConfig assembles the transcriber chain named by cfg.STTBackends,
// skipping services whose credentials are missing.
func FromConfig(cfg *config.Config, httpClient *http.Client, logger *zap.SugaredLogger) (*Chain, error) {
	logger = loggerOrNop(logger)
	prep := Preparer{Converter: audio.Converter{Bin: cfg.FFmpegBin}, Logger: logger}

	var chain []Transcriber
	for _, name := range cfg.STTBackends {
		switch name {
		case "deepgram":
			if cfg.DeepgramAPIKey == "" {
				logger.Debug("DEEPGRAM_API_KEY not set, skipping deepgram")
				continue
			}
			dg, err := NewDeepgramClient(cfg.DeepgramAPIKey, "en-US", httpClient, prep, logger)
			if err != nil {
				return nil, err
			}
			chain = append(chain, dg)
		case "whisper":
			if cfg.OpenAIAPIKey == "" {
				logger.Debug("OPENAI_API_KEY not set, skipping whisper")
				continue
			}
			w, err := NewWhisperClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, "en", prep, logger)
			if err != nil {
				return nil, err
			}
			chain = append(chain, w)
		case "offline":
			chain = append(chain, OfflineTranscriber{})
		default:
			return nil, errors.Errorf("unknown STT backend %q", name)
		}
	}
	if len(chain) == 0 {
		return nil, errors.New("no STT backend available; set DEEPGRAM_API_KEY or OPENAI_API_KEY, or add offline to STT_BACKENDS")
	}
	return NewChain(logger, chain...)
}
