// Package types mirrors the JSON bodies exchanged with the translation server.
package types

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

// TranslateResponse is returned by POST /translate.
type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// TTSRequest is the body of POST /tts. The response is raw audio.
type TTSRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// LiveTranslateResponse is returned by the multipart POST /live-translate.
type LiveTranslateResponse struct {
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
	AudioURL       string `json:"audioUrl"`
	TargetLanguage string `json:"targetLanguage"`
	VideoTimestamp string `json:"videoTimestamp,omitempty"`
	AudioReady     bool   `json:"audioReady"`
}

// CreateRoomRequest is the body of POST /create-room. Every field is optional.
type CreateRoomRequest struct {
	RoomName    string `json:"roomName,omitempty"`
	Password    string `json:"password,omitempty"`
	CreatorName string `json:"creatorName,omitempty"`
}

// CreateRoomResponse is returned by POST /create-room.
type CreateRoomResponse struct {
	RoomID      string `json:"roomId"`
	Message     string `json:"message,omitempty"`
	HasPassword bool   `json:"hasPassword"`
}

// RoomUser is one connected member of a room.
type RoomUser struct {
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName"`
	Language string `json:"language,omitempty"`
}

// Room is one entry of GET /rooms.
type Room struct {
	RoomID      string     `json:"roomId"`
	UserCount   int        `json:"userCount"`
	HasPassword bool       `json:"hasPassword"`
	Users       []RoomUser `json:"users"`
}

// RoomList is returned by GET /rooms.
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Health is returned by GET /.
type Health struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	Timestamp        string `json:"timestamp"`
	Rooms            int    `json:"rooms"`
	ConnectedClients int    `json:"connectedClients"`
}

// ErrorResponse is the JSON body the server sends with non-2xx statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WebSocket message types.
const (
	MsgJoinRoom          = "join-room"
	MsgLeaveRoom         = "leave-room"
	MsgAudioChunk        = "audio-chunk"
	MsgRoomJoined        = "room-joined"
	MsgJoinError         = "join-error"
	MsgUserJoined        = "user-joined"
	MsgUserLeft          = "user-left"
	MsgSTTResult         = "stt-result"
	MsgTranslationResult = "translation-result"
	MsgTranslatedAudio   = "translated-audio"
	MsgAudioReady        = "audio-ready"
	MsgError             = "error"
)

// ClientMessage is sent by a client over the room socket.
type ClientMessage struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId,omitempty"`
	UserID     string `json:"userId,omitempty"`
	UserName   string `json:"userName,omitempty"`
	Password   string `json:"password,omitempty"`
	Language   string `json:"language,omitempty"`
	AudioData  string `json:"audioData,omitempty"`
	TargetLang string `json:"targetLang,omitempty"`
}

// ServerMessage is anything the server pushes over the room socket. Only the
// fields relevant to Type are populated.
type ServerMessage struct {
	Type           string     `json:"type"`
	Message        string     `json:"message,omitempty"`
	Step           string     `json:"step,omitempty"`
	RoomID         string     `json:"roomId,omitempty"`
	UserID         string     `json:"userId,omitempty"`
	UserName       string     `json:"userName,omitempty"`
	Language       string     `json:"language,omitempty"`
	ConnectedUsers []RoomUser `json:"connectedUsers,omitempty"`
	Text           string     `json:"text,omitempty"`
	OriginalText   string     `json:"originalText,omitempty"`
	TranslatedText string     `json:"translatedText,omitempty"`
	TargetLang     string     `json:"targetLang,omitempty"`
	AudioURL       string     `json:"audioUrl,omitempty"`
	FromUser       string     `json:"fromUser,omitempty"`
	FromUserName   string     `json:"fromUserName,omitempty"`
	Timestamp      int64      `json:"timestamp,omitempty"`
}
