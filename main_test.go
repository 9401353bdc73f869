package main

import (
	"context"
	"flag"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/config"
	"github.com/mrsingh-rishi/voice-translate/tts"
)

func TestArgOr(t *testing.T) {
	args := []string{"hello", "", "ta"}
	assert.Equal(t, "hello", argOr(args, 0, "x"))
	assert.Equal(t, "en", argOr(args, 1, "en"))
	assert.Equal(t, "ta", argOr(args, 2, "en"))
	assert.Equal(t, "auto", argOr(args, 3, "auto"))
}

func TestParseRequiresArgs(t *testing.T) {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	backend := fs.String("backend", "", "")

	rest, ok := parse(fs, []string{"-backend", "deepl", "hello", "fr"}, 1)
	assert.True(t, ok)
	assert.Equal(t, "deepl", *backend)
	assert.Equal(t, []string{"hello", "fr"}, rest)

	fs2 := flag.NewFlagSet("transcribe", flag.ContinueOnError)
	fs2.Usage = func() {}
	_, ok = parse(fs2, nil, 1)
	assert.False(t, ok)
}

func TestCommandsHaveUsage(t *testing.T) {
	for name, c := range commands {
		assert.Contains(t, c.usage, name)
		assert.NotNil(t, c.run, name)
	}
}

func TestSpeakerFallsBackWhenEngineUnusable(t *testing.T) {
	cfg := &config.Config{
		TTSEngine:         "elevenlabs",
		STTBackends:       []string{"offline"},
		TranslateBackends: []string{"phrasebook"},
	}
	a := newApp(cfg, zap.NewNop().Sugar())

	out := filepath.Join(t.TempDir(), "speech.wav")
	speech, err := a.speaker().Speak(context.Background(), "hello", "en", out)
	require.NoError(t, err)
	assert.True(t, speech.Fallback)
	assert.Equal(t, tts.SilenceEngine, speech.Engine)
	assert.FileExists(t, out)

	p, err := a.pipeline(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, p.TTS)
	assert.NotNil(t, a.smokeEnv(context.Background()).Speaker)
}
