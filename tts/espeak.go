package tts

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	espeakRate      = 150
	espeakAmplitude = 180
)

var espeakVoices = map[string]string{
	"en": "en-us",
	"zh": "cmn",
	"pt": "pt-pt",
}

// Espeak drives a local espeak-ng binary.
type Espeak struct {
	Bin string
}

func (e Espeak) Name() string { return "espeak" }

func (e Espeak) Synthesize(ctx context.Context, text, lang, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to synthesize")
	}
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create output dir")
		}
	}

	out, err := exec.CommandContext(ctx, e.bin(), e.args(text, lang, outPath)...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "espeak: %s", strings.TrimSpace(string(out)))
	}
	if _, err := os.Stat(outPath); err != nil {
		return errors.Wrap(err, "espeak produced no file")
	}
	return nil
}

func (e Espeak) bin() string {
	if e.Bin == "" {
		return "espeak-ng"
	}
	return e.Bin
}

func (e Espeak) args(text, lang, outPath string) []string {
	return []string{
		"-v", espeakVoice(lang),
		"-s", strconv.Itoa(espeakRate),
		"-a", strconv.Itoa(espeakAmplitude),
		"-w", outPath,
		text,
	}
}

func espeakVoice(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if v, ok := espeakVoices[lang]; ok {
		return v
	}
	if lang == "" {
		return "en-us"
	}
	return lang
}
