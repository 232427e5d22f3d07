package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/Alia5/analogdpad/dpad"
)

// DpadStream is a live classification session: each stick reading sent is
// answered with the d-pad state held by the server's tracker.
type DpadStream struct {
	conn net.Conn
	Mode dpad.Mode

	mu     sync.Mutex
	closed bool
}

// OpenStream starts a stream/{mode} session.
func (c *Client) OpenStream(ctx context.Context, mode dpad.Mode) (*DpadStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte(fmt.Sprintf("stream/%s\x00", mode))); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &DpadStream{conn: conn, Mode: mode}, nil
}

// Send writes one raw reading and waits for the resulting d-pad state.
func (s *DpadStream) Send(frame dpad.InputFrame) (dpad.Direction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errors.New("stream closed")
	}

	data, err := frame.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("marshal: %w", err)
	}
	if _, err := s.conn.Write(data); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}

	var b [1]byte
	if _, err := io.ReadFull(s.conn, b[:]); err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}
	var out dpad.OutputFrame
	if err := out.UnmarshalBinary(b[:]); err != nil {
		return 0, err
	}
	return out.Dpad, nil
}

// SendSample converts a normalized sample to a raw frame and sends it.
func (s *DpadStream) SendSample(sample dpad.Sample) (dpad.Direction, error) {
	return s.Send(dpad.InputFrame{LX: dpad.DenormalizeAxis(sample.X), LY: dpad.DenormalizeAxis(sample.Y)})
}

func (s *DpadStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
