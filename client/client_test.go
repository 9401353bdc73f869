package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-translate/audio"
	"github.com/mrsingh-rishi/voice-translate/servertest"
	"github.com/mrsingh-rishi/voice-translate/types"
)

func startServer(t *testing.T) (*servertest.Server, *Client) {
	t.Helper()
	srv, err := servertest.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv, New(srv.URL, nil, nil)
}

func TestTranslate(t *testing.T) {
	_, c := startServer(t)

	out, err := c.Translate(context.Background(), "Hello, how are you today?", "ta")
	require.NoError(t, err)
	assert.Equal(t, "[TA] Hello, how are you today?", out)
}

func TestTranslateAPIError(t *testing.T) {
	_, c := startServer(t)

	_, err := c.Translate(context.Background(), "", "ta")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Translation error", apiErr.Message)
}

func TestTTS(t *testing.T) {
	_, c := startServer(t)

	wav, err := c.TTS(context.Background(), "வணக்கம்", "ta")
	require.NoError(t, err)

	info, err := audio.ReadInfo(bytes.NewReader(wav))
	require.NoError(t, err)
	assert.Equal(t, time.Second, info.Duration)
}

func TestLiveTranslate(t *testing.T) {
	_, c := startServer(t)

	clip := audio.EncodeWAV(audio.Silence(audio.SpeechFormat, 2*time.Second), audio.SpeechFormat)
	resp, err := c.LiveTranslate(context.Background(), bytes.NewReader(clip), "test.wav", "hi", "3.2")
	require.NoError(t, err)
	assert.Equal(t, servertest.DefaultLiveText, resp.OriginalText)
	assert.Equal(t, "[HI] "+servertest.DefaultLiveText, resp.TranslatedText)
	assert.Equal(t, "hi", resp.TargetLanguage)
	assert.Equal(t, "3.2", resp.VideoTimestamp)
	assert.True(t, resp.AudioReady)
}

func TestLiveTranslateNoSpeech(t *testing.T) {
	srv, c := startServer(t)
	srv.LiveText = ""

	_, err := c.LiveTranslate(context.Background(), bytes.NewReader([]byte("x")), "a.wav", "ta", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestRoomsAndHealth(t *testing.T) {
	_, c := startServer(t)
	ctx := context.Background()

	created, err := c.CreateRoom(ctx, types.CreateRoomRequest{RoomName: "TestRoom123", Password: "secret123", CreatorName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "TestRoom123", created.RoomID)
	assert.True(t, created.HasPassword)

	anon, err := c.CreateRoom(ctx, types.CreateRoomRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, anon.RoomID)
	assert.False(t, anon.HasPassword)

	rooms, err := c.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Rooms)
}

func TestPing(t *testing.T) {
	srv, c := startServer(t)

	status, err := c.Ping(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer slow.Close()

	start := time.Now()
	_, err = c.Ping(context.Background(), slow.URL)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)

	_, err = c.Ping(context.Background(), "http://127.0.0.1:1")
	assert.Error(t, err)
}

func TestWebSocketURL(t *testing.T) {
	assert.Equal(t, "wss://demo.example.com", New("https://demo.example.com/", nil, nil).WebSocketURL())
	assert.Equal(t, "ws://localhost:5000", New("http://localhost:5000", nil, nil).WebSocketURL())
}
