// Package pipeline runs one recorded clip through recognition, translation
// and synthesis, the same way the server's live-translate endpoint does.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/model"
	"github.com/mrsingh-rishi/voice-translate/storage"
	"github.com/mrsingh-rishi/voice-translate/stt"
	"github.com/mrsingh-rishi/voice-translate/types"
)

//go:generate mockgen -destination=../mocks/mock_pipeline.go -package=mocks github.com/mrsingh-rishi/voice-translate/pipeline Translator,Speaker

// ErrNoSpeech stops the pipeline when the clip holds no usable words.
var ErrNoSpeech = errors.New("no speech detected")

// Translator is satisfied by *translate.Chain.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (model.Translation, error)
}

// Speaker is satisfied by *tts.Fallback.
type Speaker interface {
	Speak(ctx context.Context, text, lang, outPath string) (model.Speech, error)
}

type Pipeline struct {
	STT        stt.Transcriber
	Translator Translator
	TTS        Speaker
	// Store is optional; without it the synthesized file stays in WorkDir.
	Store   storage.Store
	WorkDir string

	logger *zap.SugaredLogger
}

func New(transcriber stt.Transcriber, translator Translator, speaker Speaker, store storage.Store, logger *zap.SugaredLogger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pipeline{
		STT:        transcriber,
		Translator: translator,
		TTS:        speaker,
		Store:      store,
		WorkDir:    os.TempDir(),
		logger:     logger,
	}
}

type Result struct {
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
	TargetLanguage string `json:"targetLanguage"`
	Backend        string `json:"backend,omitempty"`
	AudioURL       string `json:"audioUrl,omitempty"`
	AudioPath      string `json:"audioPath,omitempty"`

	TranscriptFallback  bool `json:"transcriptFallback"`
	TranslationFallback bool `json:"translationFallback"`
	AudioFallback       bool `json:"audioFallback"`
}

// Response shapes r like the server's live-translate answer.
func (r Result) Response(videoTimestamp string) types.LiveTranslateResponse {
	audioURL := r.AudioURL
	if audioURL == "" {
		audioURL = r.AudioPath
	}
	return types.LiveTranslateResponse{
		OriginalText:   r.OriginalText,
		TranslatedText: r.TranslatedText,
		AudioURL:       audioURL,
		TargetLanguage: r.TargetLanguage,
		VideoTimestamp: videoTimestamp,
		AudioReady:     audioURL != "",
	}
}

func (p *Pipeline) Run(ctx context.Context, clipPath, targetLang string) (Result, error) {
	res := Result{TargetLanguage: targetLang}

	p.logger.Infof("🎤 transcribing %s", clipPath)
	transcript, err := p.STT.Transcribe(ctx, clipPath)
	if errors.Is(err, stt.ErrUnintelligible) {
		return res, errors.Wrap(ErrNoSpeech, err.Error())
	}
	if err != nil {
		return res, errors.Wrap(err, "transcribe")
	}
	text := strings.TrimSpace(transcript.Text)
	if text == "" {
		return res, ErrNoSpeech
	}
	res.OriginalText = text
	res.TranscriptFallback = transcript.Fallback

	translation, err := p.Translator.Translate(ctx, text, model.AutoDetect, targetLang)
	if err != nil {
		return res, errors.Wrap(err, "translate")
	}
	res.TranslatedText = translation.Text
	res.Backend = translation.Backend
	res.TranslationFallback = translation.Fallback
	p.logger.Infof("🌐 %q -> %q", text, translation.Text)

	name := fmt.Sprintf("translated_%s_%s.wav", targetLang, uuid.NewString())
	outPath := filepath.Join(p.WorkDir, name)
	speech, err := p.TTS.Speak(ctx, translation.Text, targetLang, outPath)
	if err != nil {
		return res, errors.Wrap(err, "synthesize")
	}
	res.AudioFallback = speech.Fallback

	if p.Store == nil {
		res.AudioPath = speech.Path
		return res, nil
	}

	defer func() {
		if rmErr := os.Remove(speech.Path); rmErr != nil && !os.IsNotExist(rmErr) {
			p.logger.Debugf("could not remove %s: %v", speech.Path, rmErr)
		}
	}()
	res.AudioURL, err = p.Store.Save(ctx, speech.Path, "audio/"+name)
	if err != nil {
		return res, errors.Wrap(err, "publish audio")
	}
	p.logger.Infof("🔊 audio ready at %s", res.AudioURL)
	return res, nil
}
