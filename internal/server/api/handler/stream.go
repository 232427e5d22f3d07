package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/log"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/store"
)

// Stream turns a connection into a live d-pad: every 4-byte InputFrame read
// is answered with a 1-byte OutputFrame. The settings are loaded once when
// the stream starts; while they are disabled every frame reports a released
// d-pad.
func Stream(st store.Store, rawLogger log.RawLogger) api.StreamHandlerFunc {
	return func(conn net.Conn, req *api.Request, logger *slog.Logger) error {
		defer conn.Close()

		mode, err := dpad.ParseMode(req.Params["mode"])
		if err != nil {
			return err
		}
		s, err := store.LoadOrDefault(req.Ctx, st)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		tracker := dpad.NewTracker(s.ConfigFor(mode))
		logger.Info("stream started", "mode", mode, "enabled", s.Enabled)

		in := make([]byte, dpad.InputFrameSize)
		for {
			if _, err := io.ReadFull(conn, in); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
					logger.Info("client disconnected")
					return nil
				}
				return fmt.Errorf("read input frame: %w", err)
			}
			rawLogger.Log(true, in)

			var frame dpad.InputFrame
			if err := frame.UnmarshalBinary(in); err != nil {
				return fmt.Errorf("unmarshal input frame: %w", err)
			}

			out := dpad.OutputFrame{}
			if s.Enabled {
				prev := tracker.Last()
				out.Dpad = tracker.Update(frame.Sample())
				if out.Dpad != prev {
					logger.Log(req.Ctx, log.LevelTrace, "dpad changed", "from", prev, "to", out.Dpad)
				}
			}

			data, err := out.MarshalBinary()
			if err != nil {
				return fmt.Errorf("marshal output frame: %w", err)
			}
			if _, err := conn.Write(data); err != nil {
				return fmt.Errorf("write output frame: %w", err)
			}
			rawLogger.Log(false, data)
		}
	}
}
