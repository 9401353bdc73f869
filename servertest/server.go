// Package servertest runs an in-memory stand-in for the translation server
// on a loopback port, for exercising the client and smoke checks.
package servertest

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-translate/audio"
	"github.com/mrsingh-rishi/voice-translate/model"
	"github.com/mrsingh-rishi/voice-translate/types"
)

// DefaultLiveText is what /live-translate "hears" in every clip.
const DefaultLiveText = "Hello, this is a test message for translation"

type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
	user types.RoomUser
	room string
}

func (p *peer) send(msg types.ServerMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.WriteJSON(msg)
}

type room struct {
	password  string
	createdBy string
	peers     map[*peer]struct{}
}

// Server is the fake. Exported fields may be changed before requests arrive.
type Server struct {
	URL string
	// TranslateFunc answers /translate and the translation steps; defaults to tagging.
	TranslateFunc func(text, target string) string
	// LiveText is the transcript of any uploaded clip. Empty means no speech.
	LiveText string

	app         *fiber.App
	mu          sync.Mutex
	rooms       map[string]*room
	peers       map[*peer]struct{}
	anyPassword bool
}

// AcceptAnyPassword makes joins ignore room passwords, like a server with a
// broken password check.
func (s *Server) AcceptAnyPassword(accept bool) {
	s.mu.Lock()
	s.anyPassword = accept
	s.mu.Unlock()
}

// Start listens on 127.0.0.1 with a random port.
func Start() (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(err, "listen")
	}

	s := &Server{
		URL: "http://" + ln.Addr().String(),
		TranslateFunc: func(text, target string) string {
			return model.Tag(target) + " " + text
		},
		LiveText: DefaultLiveText,
		rooms:    map[string]*room{},
		peers:    map[*peer]struct{}{},
	}
	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.routes()

	go func() { _ = s.app.Listener(ln) }()
	return s, nil
}

// Close stops the listener and drops open sockets.
func (s *Server) Close() error {
	return s.app.ShutdownWithTimeout(time.Second)
}

func (s *Server) routes() {
	socket := websocket.New(s.handleSocket)
	s.app.Get("/", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return socket(c)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return c.JSON(types.Health{
			Status:           "OK",
			Message:          "Multi-User Live Video/Audio Translation Server is running",
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
			Rooms:            len(s.rooms),
			ConnectedClients: len(s.peers),
		})
	})
	s.app.Get("/rooms", s.listRooms)
	s.app.Post("/create-room", s.createRoom)
	s.app.Post("/translate", s.translate)
	s.app.Post("/tts", s.tts)
	s.app.Post("/live-translate", s.liveTranslate)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(types.ErrorResponse{Error: msg})
}

func (s *Server) listRooms(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := types.RoomList{Rooms: []types.Room{}}
	for id, r := range s.rooms {
		users := make([]types.RoomUser, 0, len(r.peers))
		for p := range r.peers {
			users = append(users, p.user)
		}
		list.Rooms = append(list.Rooms, types.Room{
			RoomID:      id,
			UserCount:   len(r.peers),
			HasPassword: r.password != "",
			Users:       users,
		})
	}
	return c.JSON(list)
}

func (s *Server) createRoom(c *fiber.Ctx) error {
	var req types.CreateRoomRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid JSON")
		}
	}
	id := req.RoomName
	if id == "" {
		id = "room_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	creator := req.CreatorName
	if creator == "" {
		creator = "Anonymous"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; ok {
		return fail(c, fiber.StatusBadRequest, "Room already exists")
	}
	s.rooms[id] = &room{password: req.Password, createdBy: creator, peers: map[*peer]struct{}{}}
	return c.JSON(types.CreateRoomResponse{
		RoomID:      id,
		Message:     "Room created successfully",
		HasPassword: req.Password != "",
	})
}

func (s *Server) translate(c *fiber.Ctx) error {
	var req types.TranslateRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return fail(c, fiber.StatusBadRequest, "Translation error")
	}
	return c.JSON(types.TranslateResponse{TranslatedText: s.TranslateFunc(req.Text, req.TargetLang)})
}

func (s *Server) tts(c *fiber.Ctx) error {
	var req types.TTSRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return fail(c, fiber.StatusBadRequest, "TTS error")
	}
	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Send(audio.EncodeWAV(audio.Silence(audio.FallbackFormat, time.Second), audio.FallbackFormat))
}

func (s *Server) liveTranslate(c *fiber.Ctx) error {
	if _, err := c.FormFile("audio"); err != nil {
		return fail(c, fiber.StatusBadRequest, "No audio file uploaded")
	}
	target := c.FormValue("targetLang", "ta")
	if s.LiveText == "" {
		return fail(c, fiber.StatusBadRequest, "No speech detected or audio unclear")
	}
	return c.JSON(types.LiveTranslateResponse{
		OriginalText:   s.LiveText,
		TranslatedText: s.TranslateFunc(s.LiveText, target),
		AudioURL:       "/public/live_audio_" + uuid.NewString() + ".wav",
		TargetLanguage: target,
		VideoTimestamp: c.FormValue("videoTimestamp"),
		AudioReady:     true,
	})
}

func (s *Server) handleSocket(conn *websocket.Conn) {
	p := &peer{conn: conn}
	s.mu.Lock()
	s.peers[p] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.leave(p)
		s.mu.Lock()
		delete(s.peers, p)
		s.mu.Unlock()
	}()

	for {
		var msg types.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case types.MsgJoinRoom:
			s.join(p, msg)
		case types.MsgLeaveRoom:
			s.leave(p)
		case types.MsgAudioChunk:
			s.audioChunk(p, msg)
		default:
			p.send(types.ServerMessage{Type: types.MsgError, Message: "unknown message type " + msg.Type})
		}
	}
}

func (s *Server) join(p *peer, msg types.ClientMessage) {
	s.mu.Lock()
	r, ok := s.rooms[msg.RoomID]
	switch {
	case !ok:
		s.mu.Unlock()
		p.send(types.ServerMessage{Type: types.MsgJoinError, Message: "Room does not exist"})
		return
	case r.password != msg.Password && !s.anyPassword:
		s.mu.Unlock()
		p.send(types.ServerMessage{Type: types.MsgJoinError, Message: "Invalid room password"})
		return
	}
	s.mu.Unlock()

	s.leave(p)

	s.mu.Lock()
	if _, ok := s.rooms[msg.RoomID]; !ok {
		s.rooms[msg.RoomID] = r
	}
	p.room = msg.RoomID
	p.user = types.RoomUser{UserID: msg.UserID, UserName: msg.UserName, Language: msg.Language}
	r.peers[p] = struct{}{}
	users := make([]types.RoomUser, 0, len(r.peers))
	others := make([]*peer, 0, len(r.peers))
	for q := range r.peers {
		users = append(users, q.user)
		if q != p {
			others = append(others, q)
		}
	}
	s.mu.Unlock()

	p.send(types.ServerMessage{
		Type:           types.MsgRoomJoined,
		RoomID:         msg.RoomID,
		UserID:         msg.UserID,
		UserName:       msg.UserName,
		ConnectedUsers: users,
	})
	for _, q := range others {
		q.send(types.ServerMessage{Type: types.MsgUserJoined, UserID: msg.UserID, UserName: msg.UserName, Language: msg.Language})
	}
}

func (s *Server) leave(p *peer) {
	s.mu.Lock()
	r, ok := s.rooms[p.room]
	if !ok {
		p.room = ""
		s.mu.Unlock()
		return
	}
	delete(r.peers, p)
	others := make([]*peer, 0, len(r.peers))
	for q := range r.peers {
		others = append(others, q)
	}
	if len(r.peers) == 0 {
		delete(s.rooms, p.room)
	}
	p.room = ""
	s.mu.Unlock()

	for _, q := range others {
		q.send(types.ServerMessage{Type: types.MsgUserLeft, UserID: p.user.UserID, UserName: p.user.UserName})
	}
}

func (s *Server) audioChunk(p *peer, msg types.ClientMessage) {
	if msg.AudioData == "" || s.LiveText == "" {
		return
	}
	now := time.Now().UnixMilli()
	p.send(types.ServerMessage{
		Type:         types.MsgSTTResult,
		Text:         s.LiveText,
		Timestamp:    now,
		FromUser:     p.user.UserID,
		FromUserName: p.user.UserName,
	})

	s.mu.Lock()
	var members []*peer
	if r, ok := s.rooms[p.room]; ok {
		for q := range r.peers {
			members = append(members, q)
		}
	}
	s.mu.Unlock()
	if len(members) == 0 {
		members = []*peer{p}
	}

	out := types.ServerMessage{
		Type:           types.MsgTranslationResult,
		OriginalText:   s.LiveText,
		TranslatedText: s.TranslateFunc(s.LiveText, msg.TargetLang),
		TargetLang:     msg.TargetLang,
		Timestamp:      now,
		FromUser:       p.user.UserID,
		FromUserName:   p.user.UserName,
	}
	for _, q := range members {
		q.send(out)
	}
}
