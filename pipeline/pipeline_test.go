package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-translate/mocks"
	"github.com/mrsingh-rishi/voice-translate/model"
	"github.com/mrsingh-rishi/voice-translate/pipeline"
	"github.com/mrsingh-rishi/voice-translate/stt"
)

type fixture struct {
	stt        *mocks.MockTranscriber
	translator *mocks.MockTranslator
	speaker    *mocks.MockSpeaker
	store      *mocks.MockStore
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	return fixture{
		stt:        mocks.NewMockTranscriber(ctrl),
		translator: mocks.NewMockTranslator(ctrl),
		speaker:    mocks.NewMockSpeaker(ctrl),
		store:      mocks.NewMockStore(ctrl),
	}
}

// writeSpeech makes the speaker mock produce a real file at the requested path.
func writeSpeech(fallback bool) func(context.Context, string, string, string) (model.Speech, error) {
	return func(_ context.Context, _, lang, outPath string) (model.Speech, error) {
		if err := os.WriteFile(outPath, []byte("RIFF"), 0o644); err != nil {
			return model.Speech{}, err
		}
		return model.Speech{Path: outPath, Engine: "stub", Language: lang, Fallback: fallback}, nil
	}
}

func TestRunPublishesAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work := t.TempDir()

	f.stt.EXPECT().Transcribe(ctx, "clip.webm").
		Return(model.Transcript{Text: " Hello, how are you? ", Source: "deepgram"}, nil)
	f.translator.EXPECT().Translate(ctx, "Hello, how are you?", model.AutoDetect, "ta").
		Return(model.Translation{Text: "வணக்கம், எப்படி இருக்கிறீர்கள்?", Backend: "google"}, nil)
	f.speaker.EXPECT().Speak(ctx, "வணக்கம், எப்படி இருக்கிறீர்கள்?", "ta", gomock.Any()).
		DoAndReturn(writeSpeech(false))

	var savedPath string
	f.store.EXPECT().Save(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, localPath, key string) (string, error) {
			savedPath = localPath
			assert.True(t, strings.HasPrefix(key, "audio/translated_ta_"), key)
			assert.Equal(t, ".wav", filepath.Ext(key))
			return "/static/" + key, nil
		})

	p := pipeline.New(f.stt, f.translator, f.speaker, f.store, nil)
	p.WorkDir = work

	res, err := p.Run(ctx, "clip.webm", "ta")
	require.NoError(t, err)
	assert.Equal(t, "Hello, how are you?", res.OriginalText)
	assert.Equal(t, "வணக்கம், எப்படி இருக்கிறீர்கள்?", res.TranslatedText)
	assert.Equal(t, "google", res.Backend)
	assert.True(t, strings.HasPrefix(res.AudioURL, "/static/audio/translated_ta_"))
	assert.Empty(t, res.AudioPath)
	assert.NoFileExists(t, savedPath)

	resp := res.Response("12.5")
	assert.True(t, resp.AudioReady)
	assert.Equal(t, "12.5", resp.VideoTimestamp)
	assert.Equal(t, res.AudioURL, resp.AudioURL)
}

func TestRunWithoutStoreKeepsFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.stt.EXPECT().Transcribe(ctx, gomock.Any()).Return(model.Transcript{Text: "hello", Fallback: true}, nil)
	f.translator.EXPECT().Translate(ctx, "hello", model.AutoDetect, "fr").
		Return(model.Translation{Text: "[FR] hello", Fallback: true}, nil)
	f.speaker.EXPECT().Speak(ctx, "[FR] hello", "fr", gomock.Any()).DoAndReturn(writeSpeech(true))

	p := pipeline.New(f.stt, f.translator, f.speaker, nil, nil)
	p.WorkDir = t.TempDir()

	res, err := p.Run(ctx, "clip.wav", "fr")
	require.NoError(t, err)
	assert.True(t, res.TranscriptFallback)
	assert.True(t, res.TranslationFallback)
	assert.True(t, res.AudioFallback)
	assert.FileExists(t, res.AudioPath)
	assert.Equal(t, res.AudioPath, res.Response("").AudioURL)
}

func TestRunNoSpeech(t *testing.T) {
	for name, tc := range map[string]struct {
		transcript model.Transcript
		err        error
	}{
		"unintelligible": {err: stt.ErrUnintelligible},
		"blank":          {transcript: model.Transcript{Text: "   "}},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.stt.EXPECT().Transcribe(gomock.Any(), "clip.wav").Return(tc.transcript, tc.err)

			_, err := pipeline.New(f.stt, f.translator, f.speaker, f.store, nil).
				Run(context.Background(), "clip.wav", "ta")
			assert.ErrorIs(t, err, pipeline.ErrNoSpeech)
		})
	}
}

func TestRunStopsOnErrors(t *testing.T) {
	t.Run("transcription", func(t *testing.T) {
		f := newFixture(t)
		svcErr := &stt.ServiceError{Service: "deepgram", Err: errors.New("timeout")}
		f.stt.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return(model.Transcript{}, svcErr)

		_, err := pipeline.New(f.stt, f.translator, f.speaker, nil, nil).Run(context.Background(), "c.wav", "ta")
		var target *stt.ServiceError
		assert.ErrorAs(t, err, &target)
		assert.NotErrorIs(t, err, pipeline.ErrNoSpeech)
	})

	t.Run("synthesis", func(t *testing.T) {
		f := newFixture(t)
		f.stt.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return(model.Transcript{Text: "hi"}, nil)
		f.translator.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Translation{Text: "salut"}, nil)
		f.speaker.EXPECT().Speak(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Speech{}, errors.New("disk full"))

		_, err := pipeline.New(f.stt, f.translator, f.speaker, f.store, nil).Run(context.Background(), "c.wav", "fr")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("publish", func(t *testing.T) {
		f := newFixture(t)
		f.stt.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return(model.Transcript{Text: "hi"}, nil)
		f.translator.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Translation{Text: "hola"}, nil)
		f.speaker.EXPECT().Speak(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(writeSpeech(false))
		f.store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket gone"))

		p := pipeline.New(f.stt, f.translator, f.speaker, f.store, nil)
		p.WorkDir = t.TempDir()
		_, err := p.Run(context.Background(), "c.wav", "es")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publish audio")

		entries, _ := os.ReadDir(p.WorkDir)
		assert.Empty(t, entries)
	})
}
