package servertest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-translate/types"
)

func TestCreateRoomRejectsDuplicates(t *testing.T) {
	srv, err := Start()
	require.NoError(t, err)
	defer srv.Close()

	post := func() *http.Response {
		body, _ := json.Marshal(types.CreateRoomRequest{RoomName: "demo", Password: "pw"})
		resp, err := http.Post(srv.URL+"/create-room", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		return resp
	}

	resp := post()
	var created types.CreateRoomResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "demo", created.RoomID)
	assert.True(t, created.HasPassword)

	resp = post()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv, err := Start()
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var h types.Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "OK", h.Status)
	assert.Zero(t, h.Rooms)
}
