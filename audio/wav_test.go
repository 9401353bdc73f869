package audio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSilenceLength(t *testing.T) {
	assert.Len(t, Silence(FallbackFormat, time.Second), 22050*2)
	assert.Len(t, Silence(SpeechFormat, 2*time.Second), 16000*2*2)
	assert.Empty(t, Silence(SpeechFormat, 0))
}

func TestEncodeWAVHeader(t *testing.T) {
	pcm := Silence(SpeechFormat, 100*time.Millisecond)
	wav := EncodeWAV(pcm, SpeechFormat)

	require.Len(t, wav, 44+len(pcm))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))
}

func TestWriteAndInspectSilence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "silence.wav")
	require.NoError(t, WriteSilence(path, FallbackFormat, time.Second))

	info, err := Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, 22050, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 16, info.BitsPerSample)
	assert.Equal(t, int64(22050*2), info.DataBytes)
	assert.Equal(t, time.Second, info.Duration)
	assert.Equal(t, int64(44+22050*2), info.Size)
}

func TestReadInfoSkipsUnknownChunks(t *testing.T) {
	wav := EncodeWAV(Silence(SpeechFormat, time.Second), SpeechFormat)

	// splice a LIST chunk with an odd payload between fmt and data
	var buf bytes.Buffer
	buf.Write(wav[:36])
	buf.WriteString("LIST")
	buf.Write([]byte{3, 0, 0, 0})
	buf.Write([]byte{'a', 'b', 'c', 0})
	buf.Write(wav[36:])

	info, err := ReadInfo(&buf)
	require.NoError(t, err)
	assert.Equal(t, time.Second, info.Duration)
}

func TestReadInfoRejectsOversizedFmtChunk(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteString("WAVEfmt ")
	buf.Write([]byte{0xF0, 0xFF, 0xFF, 0xFF})

	_, err := ReadInfo(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad fmt chunk size")
}

func TestReadInfoOddFmtChunk(t *testing.T) {
	wav := EncodeWAV(Silence(SpeechFormat, time.Second), SpeechFormat)

	// 17-byte fmt chunk: the usual 16 bytes, one extra byte, one pad byte
	var buf bytes.Buffer
	buf.Write(wav[:16])
	buf.Write([]byte{17, 0, 0, 0})
	buf.Write(wav[20:36])
	buf.Write([]byte{0, 0})
	buf.Write(wav[36:])

	info, err := ReadInfo(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16000, info.SampleRate)
	assert.Equal(t, time.Second, info.Duration)
}

func TestReadInfoRejectsOtherFiles(t *testing.T) {
	_, err := ReadInfo(bytes.NewReader([]byte("OggS not a wav at all")))
	assert.ErrorIs(t, err, ErrNotWAV)
}

func TestIsWAV(t *testing.T) {
	assert.True(t, IsWAV("clip.WAV"))
	assert.False(t, IsWAV("clip.webm"))
}

func TestConverterMissingBinary(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.webm")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0o644))

	c := Converter{Bin: filepath.Join(t.TempDir(), "no-such-ffmpeg")}
	err := c.ToSpeechWAV(context.Background(), in, filepath.Join(t.TempDir(), "out.wav"))
	assert.Error(t, err)
}
