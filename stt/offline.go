package stt

import (
	"context"
	"os"

	"github.com/mrsingh-rishi/voice-translate/model"
)

const (
	offlineText = "Hello, this is a test message for translation"
	noAudioText = "No audio detected"
)

// OfflineTranscriber never calls a service. It stands in when recognition is
// unavailable so the rest of the pipeline can still be exercised.
type OfflineTranscriber struct{}

func (OfflineTranscriber) Name() string { return "offline" }

func (o OfflineTranscriber) Transcribe(ctx context.Context, path string) (model.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return model.Transcript{}, err
	}
	text := noAudioText
	if st, err := os.Stat(path); err == nil && st.Size() > 0 {
		text = offlineText
	}
	return model.Transcript{Text: text, Source: o.Name(), Fallback: true}, nil
}
