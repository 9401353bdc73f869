package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-translate/audio"
	"github.com/mrsingh-rishi/voice-translate/config"
)

type stubSynth struct {
	err error
}

func (s stubSynth) Name() string { return "stub" }

func (s stubSynth) Synthesize(_ context.Context, _, _, outPath string) error {
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(outPath, []byte("audio"), 0o644)
}

func TestFallbackUsesEngine(t *testing.T) {
	out := filepath.Join(t.TempDir(), "speech.wav")

	speech, err := WithSilentFallback(stubSynth{}, nil).Speak(context.Background(), "வணக்கம்", "ta", out)
	require.NoError(t, err)
	assert.Equal(t, "stub", speech.Engine)
	assert.Equal(t, "ta", speech.Language)
	assert.False(t, speech.Fallback)
	assert.FileExists(t, out)
}

func TestFallbackWritesSilence(t *testing.T) {
	for name, synth := range map[string]Synthesizer{
		"failing engine": stubSynth{err: errors.New("no voices")},
		"no engine":      nil,
	} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "nested", "speech.wav")

			speech, err := WithSilentFallback(synth, nil).Speak(context.Background(), "hello", "en", out)
			require.NoError(t, err)
			assert.True(t, speech.Fallback)
			assert.Equal(t, SilenceEngine, speech.Engine)
			assert.Equal(t, out, speech.Path)

			info, err := audio.Inspect(out)
			require.NoError(t, err)
			assert.Equal(t, audio.FallbackFormat, info.Format)
			assert.Equal(t, int64(22050*2), info.DataBytes)
			assert.Equal(t, time.Second, info.Duration)
		})
	}
}

func TestFallbackFailsWhenSilenceCannotBeWritten(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := WithSilentFallback(nil, nil).Speak(context.Background(), "x", "en", filepath.Join(blocker, "out.wav"))
	assert.Error(t, err)
}

func TestEspeakArgs(t *testing.T) {
	e := Espeak{}
	assert.Equal(t, "espeak-ng", e.bin())
	assert.Equal(t,
		[]string{"-v", "ta", "-s", "150", "-a", "180", "-w", "out.wav", "வணக்கம்"},
		e.args("வணக்கம்", "ta", "out.wav"))

	assert.Equal(t, "en-us", espeakVoice(""))
	assert.Equal(t, "en-us", espeakVoice("EN"))
	assert.Equal(t, "cmn", espeakVoice("zh"))
	assert.Equal(t, "hi", espeakVoice("hi"))
}

func TestEspeakMissingBinary(t *testing.T) {
	e := Espeak{Bin: filepath.Join(t.TempDir(), "no-such-espeak")}
	err := e.Synthesize(context.Background(), "hello", "en", filepath.Join(t.TempDir(), "out.wav"))
	assert.Error(t, err)

	assert.Error(t, e.Synthesize(context.Background(), "  ", "en", "out.wav"))
}

func TestElevenLabsWritesWAV(t *testing.T) {
	pcm := make([]byte, 2205*2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "pcm_22050", r.URL.Query().Get("output_format"))
		assert.Equal(t, "el-key", r.Header.Get("xi-api-key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Bonjour", body["text"])
		assert.Equal(t, "eleven_multilingual_v2", body["model_id"])
		assert.Equal(t, "fr", body["language_code"])

		_, _ = w.Write(pcm)
	}))
	defer srv.Close()

	c, err := NewElevenLabsClient("el-key", "voice-1", "", nil, nil)
	require.NoError(t, err)
	c.BaseURL = srv.URL

	out := filepath.Join(t.TempDir(), "el.wav")
	require.NoError(t, c.Synthesize(context.Background(), "Bonjour", "fr", out))

	info, err := audio.Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, 22050, info.Format.SampleRate)
	assert.Equal(t, 100*time.Millisecond, info.Duration)
}

func TestElevenLabsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota_exceeded"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewElevenLabsClient("el-key", "voice-1", "", nil, nil)
	require.NoError(t, err)
	c.BaseURL = srv.URL

	out := filepath.Join(t.TempDir(), "el.wav")
	err = c.Synthesize(context.Background(), "hi", "en", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota_exceeded")
	assert.NoFileExists(t, out)
}

func TestOpenAISpeechWritesFile(t *testing.T) {
	wav := audio.EncodeWAV(audio.Silence(audio.FallbackFormat, 200*time.Millisecond), audio.FallbackFormat)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tts-1", req["model"])
		assert.Equal(t, "alloy", req["voice"])
		assert.Equal(t, "wav", req["response_format"])
		assert.Equal(t, "வணக்கம்", req["input"])

		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	}))
	defer srv.Close()

	o, err := NewOpenAISpeech("sk-test", srv.URL+"/v1")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "speech.wav")
	require.NoError(t, o.Synthesize(context.Background(), "வணக்கம்", "ta", out))

	info, err := audio.Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, info.Duration)
}

func TestOpenAISpeechError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	o, err := NewOpenAISpeech("sk-test", srv.URL+"/v1")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "speech.wav")
	assert.Error(t, o.Synthesize(context.Background(), "hello", "en", out))
	assert.NoFileExists(t, out)

	_, err = NewOpenAISpeech("", "")
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	s, err := FromConfig(&config.Config{TTSEngine: "espeak", EspeakBin: "/usr/bin/espeak"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Espeak{Bin: "/usr/bin/espeak"}, s)

	s, err = FromConfig(&config.Config{TTSEngine: "silence"}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = FromConfig(&config.Config{TTSEngine: "openai"}, nil, nil)
	assert.Error(t, err)

	s, err = FromConfig(&config.Config{TTSEngine: "elevenlabs", ElevenLabsAPIKey: "k", ElevenLabsVoiceID: "v"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "elevenlabs", s.Name())

	_, err = FromConfig(&config.Config{TTSEngine: "pyttsx3"}, nil, nil)
	assert.Error(t, err)
}
