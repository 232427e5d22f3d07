package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/Alia5/analogdpad/apiclient"
	"github.com/Alia5/analogdpad/dpad"
)

// Watch reads the left stick of a connected gamepad and prints every d-pad
// change, classified locally or by a running API server.
type Watch struct {
	Server   string        `help:"Classify on the API server at this address instead of locally" placeholder:"ADDR"`
	Password string        `help:"API password used with --server" env:"ANALOGDPAD_API_PASSWORD"`
	Poll     time.Duration `help:"Gamepad poll interval" default:"4ms"`
	Wait     time.Duration `help:"How long to wait for a gamepad to show up" default:"10s"`

	SettingsFlags `embed:""`
}

// stickReader yields raw SDL left stick readings.
type stickReader interface {
	ReadStick() (x, y int16, err error)
}

// frameClassifier turns a raw frame into the d-pad state.
type frameClassifier interface {
	Classify(f dpad.InputFrame) (dpad.Direction, error)
}

type localClassifier struct {
	enabled bool
	tracker *dpad.Tracker
}

func (l *localClassifier) Classify(f dpad.InputFrame) (dpad.Direction, error) {
	if !l.enabled {
		return 0, nil
	}
	return l.tracker.Update(f.Sample()), nil
}

type remoteClassifier struct {
	stream *apiclient.DpadStream
}

func (r *remoteClassifier) Classify(f dpad.InputFrame) (dpad.Direction, error) {
	return r.stream.Send(f)
}

// Run is called by Kong when the watch command is executed.
func (w *Watch) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := w.resolve(ctx)
	if err != nil {
		return err
	}

	var cls frameClassifier
	if w.Server != "" {
		c := apiclient.NewWithPassword(w.Server, w.Password)
		stream, err := c.OpenStream(ctx, s.Mode)
		if err != nil {
			return fmt.Errorf("open stream: %w", err)
		}
		defer stream.Close()
		cls = &remoteClassifier{stream: stream}
		logger.Info("Classifying on server", "addr", w.Server, "mode", s.Mode)
	} else {
		cls = &localClassifier{enabled: s.Enabled, tracker: dpad.NewTracker(s.Config())}
		logger.Info("Classifying locally", "mode", s.Mode, "enabled", s.Enabled)
	}

	defer binsdl.Load().Unload()
	defer sdl.Quit()
	if err := sdl.Init(sdl.INIT_GAMEPAD); err != nil {
		return fmt.Errorf("init SDL: %w", err)
	}

	gamepad, err := openGamepad(ctx, w.Wait)
	if err != nil {
		return err
	}
	defer gamepad.Close()
	logger.Info("Gamepad opened, move the left stick (Ctrl+C to stop)")

	return watchLoop(ctx, os.Stdout, &sdlStick{gamepad: gamepad}, cls, w.Poll)
}

func openGamepad(ctx context.Context, wait time.Duration) (*sdl.Gamepad, error) {
	deadline := time.Now().Add(wait)
	for {
		sdl.UpdateGamepads()
		ids, _ := sdl.GetGamepads()
		if len(ids) > 0 {
			g, err := ids[0].OpenGamepad()
			if err != nil {
				return nil, fmt.Errorf("open gamepad: %w", err)
			}
			return g, nil
		}
		if time.Now().After(deadline) {
			return nil, errors.New("no gamepad found")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

type sdlStick struct {
	gamepad *sdl.Gamepad
}

func (s *sdlStick) ReadStick() (int16, int16, error) {
	sdl.UpdateGamepads()
	return s.gamepad.Axis(sdl.GAMEPAD_AXIS_LEFTX), s.gamepad.Axis(sdl.GAMEPAD_AXIS_LEFTY), nil
}

// frameFromSDL converts SDL axis readings to a raw frame. SDL reports +y as
// down, the frame uses +y as up.
func frameFromSDL(x, y int16) dpad.InputFrame {
	return dpad.InputFrame{LX: shiftAxis(int32(x)), LY: shiftAxis(-int32(y))}
}

func shiftAxis(v int32) uint16 {
	v += int32(dpad.AxisMid)
	switch {
	case v < int32(dpad.AxisMin):
		return dpad.AxisMin
	case v > int32(dpad.AxisMax):
		return dpad.AxisMax
	}
	return uint16(v)
}

func watchLoop(ctx context.Context, w io.Writer, src stickReader, cls frameClassifier, poll time.Duration) error {
	if poll <= 0 {
		poll = 4 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var last dpad.Direction
	for {
		x, y, err := src.ReadStick()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		dir, err := cls.Classify(frameFromSDL(x, y))
		if err != nil {
			return err
		}
		if dir != last {
			fmt.Fprintf(w, "%-10s dpad=0x%02x hat=%d\n", dir, uint8(dir), dir.Hat())
			last = dir
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
