package client

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-translate/model"
	"github.com/mrsingh-rishi/voice-translate/types"
)

// JoinTimeout bounds the wait for the server's join verdict when ctx has no deadline.
const JoinTimeout = 10 * time.Second

// JoinError is the server refusing a join, e.g. "Invalid room password".
type JoinError struct {
	Message string
}

func (e *JoinError) Error() string { return "join refused: " + e.Message }

type JoinOptions struct {
	RoomID   string
	UserID   string
	UserName string
	Password string
	Language string
}

// Session is a joined room connection.
type Session struct {
	RoomID   string
	UserID   string
	UserName string
	Users    []types.RoomUser

	conn *websocket.Conn
	mu   sync.Mutex
}

// WebSocketURL maps the server's http(s) URL to ws(s).
func (c *Client) WebSocketURL() string {
	switch {
	case strings.HasPrefix(c.BaseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.BaseURL, "https://")
	case strings.HasPrefix(c.BaseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.BaseURL, "http://")
	default:
		return c.BaseURL
	}
}

// JoinRoom connects and sends join-room, then waits for room-joined or
// join-error. Other messages received meanwhile are dropped.
func (c *Client) JoinRoom(ctx context.Context, opts JoinOptions) (*Session, error) {
	if opts.UserID == "" {
		opts.UserID = uuid.NewString()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.WebSocketURL(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial room socket")
	}

	s := &Session{RoomID: opts.RoomID, UserID: opts.UserID, UserName: opts.UserName, conn: conn}
	err = s.write(types.ClientMessage{
		Type:     types.MsgJoinRoom,
		RoomID:   opts.RoomID,
		UserID:   opts.UserID,
		UserName: opts.UserName,
		Password: opts.Password,
		Language: opts.Language,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(JoinTimeout)
	}
	_ = conn.SetReadDeadline(deadline)
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	for {
		var msg types.ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "waiting for join reply")
		}
		switch msg.Type {
		case types.MsgRoomJoined:
			s.Users = msg.ConnectedUsers
			c.logger.Infof("🚪 %s joined room %s", opts.UserName, opts.RoomID)
			return s, nil
		case types.MsgJoinError:
			conn.Close()
			return nil, &JoinError{Message: msg.Message}
		default:
			c.logger.Debugf("ignoring %s while joining", msg.Type)
		}
	}
}

// SendAudio posts one chunk for translation into targetLang.
func (s *Session) SendAudio(chunk model.AudioChunk, targetLang string) error {
	return s.write(types.ClientMessage{
		Type:       types.MsgAudioChunk,
		RoomID:     s.RoomID,
		AudioData:  base64.StdEncoding.EncodeToString(chunk),
		TargetLang: targetLang,
	})
}

// Next blocks for the next server message.
func (s *Session) Next(ctx context.Context) (types.ServerMessage, error) {
	var msg types.ServerMessage
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetReadDeadline(deadline)
		defer func() { _ = s.conn.SetReadDeadline(time.Time{}) }()
	}
	if err := s.conn.ReadJSON(&msg); err != nil {
		return msg, errors.Wrap(err, "read room message")
	}
	return msg, nil
}

// Leave sends leave-room and closes the socket.
func (s *Session) Leave() error {
	werr := s.write(types.ClientMessage{Type: types.MsgLeaveRoom})
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	cerr := s.conn.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func (s *Session) write(msg types.ClientMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		return errors.Wrapf(err, "send %s", msg.Type)
	}
	return nil
}
