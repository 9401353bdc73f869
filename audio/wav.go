// Package audio writes and inspects the PCM WAV files the pipeline passes around.
package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Format describes uncompressed PCM audio.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

var (
	// SpeechFormat is what speech recognizers expect: 16 kHz mono 16-bit.
	SpeechFormat = Format{SampleRate: 16000, Channels: 1, BitsPerSample: 16}
	// FallbackFormat is used for the silent clip written when TTS fails.
	FallbackFormat = Format{SampleRate: 22050, Channels: 1, BitsPerSample: 16}
)

// ErrNotWAV is returned by Inspect for files without a RIFF/WAVE header.
var ErrNotWAV = errors.New("not a RIFF/WAVE file")

func (f Format) bytesPerFrame() int {
	bits := f.BitsPerSample
	if bits == 0 {
		bits = 16
	}
	return f.Channels * bits / 8
}

// Silence returns d worth of zeroed PCM samples in format f.
func Silence(f Format, d time.Duration) []byte {
	frames := int(int64(f.SampleRate) * int64(d) / int64(time.Second))
	return make([]byte, frames*f.bytesPerFrame())
}

// EncodeWAV wraps raw little-endian PCM in a canonical 44-byte WAV header.
func EncodeWAV(pcm []byte, f Format) []byte {
	bits := f.BitsPerSample
	if bits == 0 {
		bits = 16
	}

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(f.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(f.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(f.SampleRate*f.Channels*bits/8))
	binary.Write(&buf, binary.LittleEndian, uint16(f.Channels*bits/8))
	binary.Write(&buf, binary.LittleEndian, uint16(bits))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// WriteWAV encodes pcm and writes it to path, creating parent directories.
func WriteWAV(path string, pcm []byte, f Format) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, EncodeWAV(pcm, f), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// WriteSilence writes a silent WAV of length d to path.
func WriteSilence(path string, f Format, d time.Duration) error {
	return WriteWAV(path, Silence(f, d), f)
}

// Info is what Inspect learns from a WAV header.
type Info struct {
	Format
	DataBytes int64
	Duration  time.Duration
	Size      int64
}

// Inspect reads the RIFF chunks of path far enough to report format and length.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, errors.Wrapf(err, "stat %s", path)
	}

	info, err := ReadInfo(f)
	if err != nil {
		return Info{}, err
	}
	info.Size = st.Size()
	return info, nil
}

// WAVEFORMATEXTENSIBLE is 40 bytes; anything much larger is not a real header.
const maxFmtChunk = 64

// ReadInfo parses a WAV header from r.
func ReadInfo(r io.Reader) (Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Info{}, ErrNotWAV
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Info{}, ErrNotWAV
	}

	var info Info
	haveFmt := false
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return Info{}, errors.Wrap(err, "read chunk header")
		}
		id := string(hdr[0:4])
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		switch id {
		case "fmt ":
			if size < 16 || size > maxFmtChunk {
				return Info{}, errors.Errorf("bad fmt chunk size: %d bytes", size)
			}
			var body [16]byte
			if _, err := io.ReadFull(r, body[:]); err != nil {
				return Info{}, errors.Wrap(err, "read fmt chunk")
			}
			if _, err := io.CopyN(io.Discard, r, size-16+size%2); err != nil {
				return Info{}, errors.Wrap(err, "skip fmt extension")
			}
			info.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return Info{}, errors.New("data chunk before fmt chunk")
			}
			info.DataBytes = size
			if bpf := info.bytesPerFrame(); bpf > 0 && info.SampleRate > 0 {
				frames := size / int64(bpf)
				info.Duration = time.Duration(frames) * time.Second / time.Duration(info.SampleRate)
			}
			return info, nil
		default:
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return Info{}, errors.Wrapf(err, "skip %q chunk", id)
			}
		}
	}
}
