package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/store"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 8 << 10
	sendBuffer     = 64
)

// session is one websocket client. It owns a Tracker so the page sees the
// same hysteresis a stream client would.
type session struct {
	conn    *websocket.Conn
	send    chan ServerMessage
	store   store.Store
	logger  *slog.Logger
	cfg     dpad.Settings
	tracker *dpad.Tracker
}

func newSession(conn *websocket.Conn, st store.Store, s dpad.Settings, logger *slog.Logger) *session {
	return &session{
		conn:    conn,
		send:    make(chan ServerMessage, sendBuffer),
		store:   st,
		logger:  logger,
		cfg:     s,
		tracker: dpad.NewTracker(s.Config()),
	}
}

func (s *session) writePump() {
	defer s.conn.Close()
	for msg := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteJSON(msg); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (s *session) readPump() {
	defer close(s.send)
	s.conn.SetReadLimit(maxMessageSize)
	s.logger.Debug("websocket connected")

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket closed", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(newErrorMessage(fmt.Errorf("invalid message: %w", err)))
			continue
		}
		reply, err := s.handle(msg)
		if err != nil {
			reply = newErrorMessage(err)
		}
		s.reply(reply)
	}
}

// reply drops the message when the client does not keep up.
func (s *session) reply(msg ServerMessage) {
	select {
	case s.send <- msg:
	default:
		s.logger.Debug("websocket send buffer full, dropping message", "type", msg.Type)
	}
}

func (s *session) handle(msg ClientMessage) (ServerMessage, error) {
	switch msg.Type {
	case "sample":
		sample := dpad.Sample{X: msg.X, Y: msg.Y}
		var tracked dpad.Direction
		if s.cfg.Enabled {
			tracked = s.tracker.Update(sample)
		}
		return newStateMessage(sample, tracked, s.cfg.Mode, dpad.Classify(sample, s.cfg.Config())), nil

	case "settings":
		if msg.Settings == nil {
			return ServerMessage{}, errors.New("settings message without settings")
		}
		if err := msg.Settings.Validate(); err != nil {
			return ServerMessage{}, err
		}
		if msg.Settings.Mode != s.cfg.Mode {
			s.tracker.Reset()
		}
		s.cfg = *msg.Settings
		s.tracker.SetConfig(s.cfg.Config())
		if msg.Save {
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			defer cancel()
			if err := s.store.Save(ctx, s.cfg); err != nil {
				return ServerMessage{}, fmt.Errorf("save settings: %w", err)
			}
			s.logger.Info("settings saved from web preview", "mode", s.cfg.Mode)
		}
		return newSettingsMessage(s.cfg), nil
	}
	return ServerMessage{}, fmt.Errorf("unknown message type %q", msg.Type)
}
