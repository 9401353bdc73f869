package smoke

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-translate/audio"
	"github.com/mrsingh-rishi/voice-translate/client"
	"github.com/mrsingh-rishi/voice-translate/model"
	"github.com/mrsingh-rishi/voice-translate/stt"
	"github.com/mrsingh-rishi/voice-translate/types"
)

const (
	greeting      = "Hello, how are you today?"
	tamilGreeting = "வணக்கம், எப்படி இருக்கிறீர்கள்?"
	welcome       = "Good morning, welcome to our system"
)

var finalLanguages = []string{"ta", "hi", "es", "fr"}

func needClient(env *Env) error {
	if env.Client == nil {
		return errors.New("no server client configured")
	}
	return nil
}

func checkPipeline(ctx context.Context, env *Env, rep *Report) error {
	if err := needClient(env); err != nil {
		return err
	}
	out, err := env.Client.Translate(ctx, greeting, "ta")
	if err != nil {
		return errors.Wrap(err, "translation")
	}
	rep.Notef("Translation successful: %s", out)

	wav, err := env.Client.TTS(ctx, tamilGreeting, "ta")
	if err != nil {
		return errors.Wrap(err, "tts")
	}
	if len(wav) == 0 {
		return errors.New("tts returned no audio")
	}
	rep.Notef("TTS successful - %d bytes", len(wav))
	return nil
}

func checkFinal(ctx context.Context, env *Env, rep *Report) error {
	if err := needClient(env); err != nil {
		return err
	}
	text := "Hello, how are you today? I hope you are doing well."
	out, err := env.Client.Translate(ctx, text, "ta")
	if err != nil {
		return errors.Wrap(err, "translation")
	}
	rep.Notef("English: %s", text)
	rep.Notef("Tamil: %s", out)

	wav, err := env.Client.TTS(ctx, out, "ta")
	if err != nil {
		return errors.Wrap(err, "tts")
	}
	rep.Notef("Audio generated successfully (%d bytes)", len(wav))

	// Per-language failures are reported but do not fail the check.
	for _, lang := range finalLanguages {
		tr, err := env.Client.Translate(ctx, welcome, lang)
		if err != nil {
			rep.Notef("❌ %s: %v", model.Tag(lang), err)
			continue
		}
		rep.Notef("✅ %s: %s", model.Tag(lang), tr)
	}
	return nil
}

func checkMultiUser(ctx context.Context, env *Env, rep *Report) error {
	if err := needClient(env); err != nil {
		return err
	}
	created, err := env.Client.CreateRoom(ctx, types.CreateRoomRequest{})
	if err != nil {
		return errors.Wrap(err, "create room")
	}
	rep.Notef("Room created: %s", created.RoomID)

	rooms, err := env.Client.ListRooms(ctx)
	if err != nil {
		return errors.Wrap(err, "list rooms")
	}
	rep.Notef("Found %d rooms", len(rooms))
	for _, r := range rooms {
		rep.Notef("Room: %s (%d users)", r.RoomID, r.UserCount)
	}
	return nil
}

func checkRooms(ctx context.Context, env *Env, rep *Report) error {
	if err := needClient(env); err != nil {
		return err
	}
	locked, err := env.Client.CreateRoom(ctx, types.CreateRoomRequest{
		RoomName:    "TestRoom123",
		Password:    "secret123",
		CreatorName: "Alice",
	})
	if err != nil {
		return errors.Wrap(err, "create password room")
	}
	// The server drops a room once its last member leaves.
	vacated := false
	defer func() {
		if !vacated {
			vacate(ctx, env.Client, locked.RoomID, "secret123")
		}
	}()
	if !locked.HasPassword {
		return errors.Errorf("room %s should report a password", locked.RoomID)
	}
	rep.Notef("🔐 Room created: %s", locked.RoomID)

	open, err := env.Client.CreateRoom(ctx, types.CreateRoomRequest{CreatorName: "Bob"})
	if err != nil {
		return errors.Wrap(err, "create open room")
	}
	if open.HasPassword {
		return errors.Errorf("room %s should not report a password", open.RoomID)
	}
	rep.Notef("🔓 Room created: %s", open.RoomID)

	rooms, err := env.Client.ListRooms(ctx)
	if err != nil {
		return errors.Wrap(err, "list rooms")
	}
	rep.Notef("Found %d rooms", len(rooms))
	for _, r := range rooms {
		names := make([]string, len(r.Users))
		for i, u := range r.Users {
			names[i] = u.UserName
		}
		rep.Notef("Room %s: %d users, password %t, users %v", r.RoomID, r.UserCount, r.HasPassword, names)
	}

	intruder, err := env.Client.JoinRoom(ctx, client.JoinOptions{RoomID: locked.RoomID, UserName: "Mallory", Password: "wrong"})
	if intruder != nil {
		_ = intruder.Leave()
	}
	var joinErr *client.JoinError
	if !errors.As(err, &joinErr) {
		return errors.Errorf("join with a wrong password: want join-error, got %v", err)
	}
	rep.Notef("Wrong password rejected: %s", joinErr.Message)

	session, err := env.Client.JoinRoom(ctx, client.JoinOptions{
		RoomID:   locked.RoomID,
		UserName: "Alice",
		Password: "secret123",
		Language: "en",
	})
	if err != nil {
		return errors.Wrap(err, "join with the right password")
	}
	vacated = true
	rep.Notef("Joined %s as %s (%d connected)", session.RoomID, session.UserName, len(session.Users))
	return session.Leave()
}

// vacate joins roomID and leaves straight away so an otherwise empty room is
// dropped. It runs even when ctx is already done.
func vacate(ctx context.Context, c *client.Client, roomID, password string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), client.JoinTimeout)
	defer cancel()
	s, err := c.JoinRoom(ctx, client.JoinOptions{RoomID: roomID, UserName: "Alice", Password: password})
	if err != nil {
		return
	}
	_ = s.Leave()
}

// silentClip is 2 s of 16 kHz mono silence, enough to reach the offline transcriber.
func silentClip() []byte {
	return audio.EncodeWAV(audio.Silence(audio.SpeechFormat, 2*time.Second), audio.SpeechFormat)
}

func checkLive(ctx context.Context, env *Env, rep *Report) error {
	if err := needClient(env); err != nil {
		return err
	}
	res, err := env.Client.LiveTranslate(ctx, bytes.NewReader(silentClip()), "test_audio.wav", "ta", "1234567890")
	if err != nil {
		return errors.Wrap(err, "live translate")
	}
	rep.Notef("Original Text: %s", res.OriginalText)
	rep.Notef("Tamil Translation: %s", res.TranslatedText)
	rep.Notef("Audio URL: %s", res.AudioURL)
	rep.Notef("Target Language: %s", res.TargetLanguage)
	if !res.AudioReady {
		return errors.New("audio not ready")
	}
	return nil
}

func checkStatus(ctx context.Context, env *Env, rep *Report) error {
	if err := needClient(env); err != nil {
		return err
	}
	st := Probe(ctx, env.Client, env.FrontendURL)
	rep.Notef("Backend API:  %s", onlineLabel(st.Backend))
	rep.Notef("Frontend App: %s", onlineLabel(st.Frontend))
	if !st.Backend {
		return errors.Errorf("backend offline at %s", env.Client.BaseURL)
	}
	return nil
}

func checkSystem(ctx context.Context, env *Env, rep *Report) error {
	if env.Translator == nil || env.Speaker == nil {
		return errors.New("local translator and speaker are required")
	}
	tr, err := env.Translator.Translate(ctx, greeting, model.AutoDetect, "ta")
	if err != nil {
		return errors.Wrap(err, "translation")
	}
	rep.Notef("Original text: %s", greeting)
	rep.Notef("Tamil translation: %s (%s)", tr.Text, backendLabel(tr))

	out := filepath.Join(env.tempDir(), "test_output_"+uuid.NewString()+".wav")
	defer os.Remove(out)
	speech, err := env.Speaker.Speak(ctx, "This is a test of the text to speech system", "en", out)
	if err != nil {
		return errors.Wrap(err, "tts")
	}
	if _, err := os.Stat(speech.Path); err != nil {
		return errors.Wrap(err, "no audio file generated")
	}
	rep.Notef("TTS audio saved with %s", speech.Engine)
	return nil
}

func backendLabel(tr model.Translation) string {
	if tr.Fallback {
		return "untranslated"
	}
	return tr.Backend
}

// DebugAudio inspects path and runs it through env.STT.
func DebugAudio(path string) Check {
	return Check{
		Name: "debug-audio",
		Run: func(ctx context.Context, env *Env, rep *Report) error {
			st, err := os.Stat(path)
			if err != nil {
				return errors.Wrapf(err, "audio file does not exist: %s", path)
			}
			rep.Notef("Audio file exists, size: %d bytes", st.Size())

			if audio.IsWAV(path) {
				info, err := audio.Inspect(path)
				if err != nil {
					rep.Notef("⚠️ unreadable WAV header: %v", err)
				} else {
					rep.Notef("Format: %d Hz, %d ch, %d-bit, %s", info.SampleRate, info.Channels, info.BitsPerSample, info.Duration)
				}
			}

			if env.STT == nil {
				return errors.New("no transcriber configured")
			}
			tr, err := env.STT.Transcribe(ctx, path)
			if err != nil {
				return errors.New(stt.Describe(err))
			}
			rep.Notef("Transcription result: %s", tr.Text)
			return nil
		},
	}
}
