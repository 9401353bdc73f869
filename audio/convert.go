package audio

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Converter shells out to ffmpeg to normalise arbitrary clips for recognition.
type Converter struct {
	// Bin is the ffmpeg executable, "ffmpeg" when empty.
	Bin string
}

// IsWAV reports whether path already carries a .wav extension.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// ToSpeechWAV converts in to a 16 kHz mono WAV at out.
func (c Converter) ToSpeechWAV(ctx context.Context, in, out string) error {
	bin := c.Bin
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin,
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", in,
		"-ar", strconv.Itoa(SpeechFormat.SampleRate),
		"-ac", strconv.Itoa(SpeechFormat.Channels),
		"-f", "wav",
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "ffmpeg %s: %s", in, strings.TrimSpace(stderr.String()))
	}
	return nil
}
