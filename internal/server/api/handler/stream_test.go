package handler_test

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/analogdpad/apiclient"
	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/log"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/server/api/handler"
	"github.com/Alia5/analogdpad/internal/store"
	th "github.com/Alia5/analogdpad/internal/testing"
)

func startStream(t *testing.T, raw log.RawLogger, setup func(st store.Store)) string {
	t.Helper()
	addr, st := th.StartAPIServer(t, api.ServerConfig{}, func(r *api.Router, st store.Store) {
		r.RegisterStream("stream/{mode}", handler.Stream(st, raw))
	})
	if setup != nil {
		setup(st)
	}
	return addr
}

func TestStreamHysteresis(t *testing.T) {
	addr := startStream(t, log.NewRaw(nil), nil)
	s, err := apiclient.New(addr).OpenStream(context.Background(), dpad.EightWay)
	require.NoError(t, err)
	defer s.Close()

	steps := []struct {
		sample dpad.Sample
		want   dpad.Direction
	}{
		{dpad.Sample{X: 0.47, Y: 0}, 0},
		{dpad.Sample{X: 0.9, Y: 0}, dpad.Right},
		{dpad.Sample{X: 0.47, Y: 0}, dpad.Right},
		{dpad.Sample{X: 0.3, Y: 0}, 0},
		{dpad.Sample{X: 0, Y: -0.9}, dpad.Down},
	}
	for i, step := range steps {
		got, err := s.SendSample(step.sample)
		require.NoError(t, err)
		assert.Equal(t, step.want, got, "step %d", i)
	}
}

func TestStreamDisabledReportsReleased(t *testing.T) {
	addr := startStream(t, log.NewRaw(nil), func(st store.Store) {
		s := dpad.DefaultSettings()
		s.Enabled = false
		require.NoError(t, st.Save(context.Background(), s))
	})
	s, err := apiclient.New(addr).OpenStream(context.Background(), dpad.FourWay)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.SendSample(dpad.Sample{X: 1, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, dpad.Direction(0), got)
}

func TestStreamLogsRawFrames(t *testing.T) {
	var buf syncBuffer
	addr := startStream(t, log.NewRaw(&buf), nil)
	s, err := apiclient.New(addr).OpenStream(context.Background(), dpad.EightWay)
	require.NoError(t, err)

	_, err = s.Send(dpad.InputFrame{LX: 0xFFFF, LY: 0x7FFF})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Eventually(t, func() bool {
		out := buf.String()
		return bytes.Contains([]byte(out), []byte("ff ff ff 7f")) && bytes.Contains([]byte(out), []byte(": 08"))
	}, time.Second, 10*time.Millisecond)
}

func TestStreamFrameSentWithPath(t *testing.T) {
	addr := startStream(t, log.NewRaw(nil), nil)
	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer c.Close()

	// The frame follows the path in the same write; the server must not drop it.
	_, err = c.Write(append([]byte("stream/8way\x00"), 0x00, 0x00, 0xFF, 0x7F))
	require.NoError(t, err)

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	b := make([]byte, 1)
	_, err = c.Read(b)
	require.NoError(t, err)
	assert.Equal(t, byte(dpad.Left), b[0])
}

func TestStreamUnknownModeClosesConn(t *testing.T) {
	addr := startStream(t, log.NewRaw(nil), nil)
	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Write([]byte("stream/16way\x00"))
	require.NoError(t, err)

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	b := make([]byte, 1)
	_, err = c.Read(b)
	assert.Error(t, err)
}
