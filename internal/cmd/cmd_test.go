package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/analogdpad/apiclient"
	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/log"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/store"
	"github.com/Alia5/analogdpad/preview"
)

var discard = slog.New(slog.DiscardHandler)

func defaultFlags() SettingsFlags {
	return SettingsFlags{Settings: dpad.DefaultSettings()}
}

func TestClassifyText(t *testing.T) {
	c := &Classify{X: 0.9, Y: 0, Format: "text", SettingsFlags: defaultFlags()}
	var out bytes.Buffer
	require.NoError(t, c.run(context.Background(), &out, discard))
	assert.Equal(t, "8way cardinal right (tier=active dpad=0x08 hat=2)\n", out.String())
}

func TestClassifyRawJSON(t *testing.T) {
	c := &Classify{X: 65535, Y: 65535, Raw: true, Format: "json", SettingsFlags: defaultFlags()}
	var out bytes.Buffer
	require.NoError(t, c.run(context.Background(), &out, discard))

	var resp apitypes.ClassifyResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "diagonal", resp.Kind)
	assert.Equal(t, uint8(dpad.Up|dpad.Right), resp.Dpad)
	assert.Equal(t, uint8(dpad.HatNE), resp.Hat)
}

func TestClassifyErrors(t *testing.T) {
	c := &Classify{X: 70000, Y: 0, Raw: true, Format: "text", SettingsFlags: defaultFlags()}
	assert.ErrorContains(t, c.run(context.Background(), &bytes.Buffer{}, discard), "raw axis")

	bad := defaultFlags()
	bad.Settings.EightWay.Debounce = 40
	c = &Classify{X: 0.9, Format: "text", SettingsFlags: bad}
	assert.ErrorContains(t, c.run(context.Background(), &bytes.Buffer{}, discard), "eightWay.debounce")
}

func TestClassifyStoredSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	saved := dpad.DefaultSettings()
	saved.Mode = dpad.FourWay
	require.NoError(t, store.NewFileStore(path).Save(context.Background(), saved))

	c := &Classify{
		X: 0.9, Y: 0.9, Format: "json",
		SettingsFlags: SettingsFlags{Stored: true, StoreConfig: store.StoreConfig{Kind: store.KindFile, Path: path}},
	}
	var out bytes.Buffer
	require.NoError(t, c.run(context.Background(), &out, discard))

	var resp apitypes.ClassifyResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, dpad.FourWay, resp.Mode)
	assert.Equal(t, "up", resp.Direction)
}

func TestPreviewWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "preview.png")
	p := &Preview{Out: out, Size: 32, SettingsFlags: defaultFlags()}
	require.NoError(t, p.run(context.Background(), &bytes.Buffer{}, false, 0, 0, discard))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestPreviewTerminal(t *testing.T) {
	p := &Preview{SettingsFlags: defaultFlags()}
	err := p.run(context.Background(), &bytes.Buffer{}, false, 40, 0, discard)
	assert.ErrorContains(t, err, "not a terminal")

	p.Ansi = true
	var out bytes.Buffer
	require.NoError(t, p.run(context.Background(), &out, false, 16, 0, discard))
	assert.Contains(t, out.String(), "\x1b[")

	var limited bytes.Buffer
	require.NoError(t, p.run(context.Background(), &limited, true, 80, 4, discard))
	assert.Equal(t, 4, bytes.Count(limited.Bytes(), []byte("\n")))
}

func TestParsePalette(t *testing.T) {
	pal, err := parsePalette("")
	require.NoError(t, err)
	assert.Equal(t, preview.DefaultPalette(), pal)

	pal, err = parsePalette("#000, ,#fff")
	require.NoError(t, err)
	assert.Equal(t, preview.Color{}, pal.Deadzone)
	assert.Equal(t, preview.DefaultPalette().Cardinal, pal.Cardinal)
	assert.Equal(t, preview.Color{R: 255, G: 255, B: 255}, pal.CardinalY)

	_, err = parsePalette("#000,#000,#000,#000,#000,#000")
	assert.Error(t, err)
	_, err = parsePalette("nope")
	assert.ErrorContains(t, err, "palette color 1")
}

func TestConfigInitServe(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "serve.yaml")
	c := &ConfigInit{Command: "serve", Format: "yaml", Output: dest}
	require.NoError(t, c.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var root map[string]any
	require.NoError(t, yaml.Unmarshal(data, &root))

	apiSection, ok := root["api"].(map[string]any)
	require.True(t, ok, "missing api section in %s", data)
	assert.Equal(t, ":3243", apiSection["addr"])
	assert.Equal(t, "30s", root["connectionTimeout"])
	assert.Contains(t, root, "store")

	assert.ErrorContains(t, c.Run(), "destination exists")
	c.Force = true
	assert.NoError(t, c.Run())
}

func TestConfigInitClassifySkipsArgs(t *testing.T) {
	root := buildMapFromStruct(reflect.TypeOf(Classify{}))
	assert.NotContains(t, root, "x")
	assert.NotContains(t, root, "y")
	assert.Equal(t, "8way", root["mode"])
	assert.Contains(t, root, "eight-way")
}

func TestConfigInitSettingsRoundTrips(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, (&ConfigInit{Command: "settings", Format: "toml", Output: dest}).Run())

	got, err := store.NewFileStore(dest).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dpad.DefaultSettings(), got)
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	saved := dpad.DefaultSettings()
	saved.EightWay.Deadzone = 70
	require.NoError(t, store.NewFileStore(path).Save(context.Background(), saved))

	c := &ConfigShow{Format: "json", StoreConfig: store.StoreConfig{Kind: store.KindFile, Path: path}}
	var out bytes.Buffer
	require.NoError(t, c.run(context.Background(), &out))

	var got dpad.Settings
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, saved, got)

	c = &ConfigShow{Format: "yaml", StoreConfig: store.StoreConfig{Kind: store.KindMemory}}
	out.Reset()
	require.NoError(t, c.run(context.Background(), &out))
	assert.Contains(t, out.String(), "mode: 8way")
}

func TestServeStartServer(t *testing.T) {
	s := &Serve{
		ApiServerConfig:   api.ServerConfig{Addr: "127.0.0.1:0", PreviewSize: 16, MaxPreviewSize: 64},
		StoreConfig:       store.StoreConfig{Kind: store.KindMemory},
		ConnectionTimeout: 2 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan *api.Server, 1)
	errCh := make(chan error, 1)
	go func() { errCh <- s.StartServer(ctx, discard, log.NewRaw(nil), ready) }()

	var srv *api.Server
	select {
	case srv = <-ready:
	case err := <-errCh:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not become ready")
	}

	c := apiclient.New(srv.Addr())
	ping, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Version, ping.Version)

	resp, err := c.Classify(context.Background(), dpad.EightWay, dpad.Sample{X: -0.9}, nil)
	require.NoError(t, err)
	assert.Equal(t, "left", resp.Direction)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeRequiresAddr(t *testing.T) {
	s := &Serve{StoreConfig: store.StoreConfig{Kind: store.KindMemory}}
	err := s.StartServer(context.Background(), discard, log.NewRaw(nil), nil)
	assert.ErrorContains(t, err, "address")
}

func TestConfigHistoryAndRollback(t *testing.T) {
	ctx := context.Background()
	sc := store.StoreConfig{Kind: store.KindSQLite, Path: filepath.Join(t.TempDir(), "settings.db")}

	st, err := store.Open(sc)
	require.NoError(t, err)
	sq := st.(*store.SQLiteStore)
	first, err := sq.SaveRevision(ctx, dpad.DefaultSettings())
	require.NoError(t, err)
	changed := dpad.DefaultSettings()
	changed.Mode = dpad.FourWay
	second, err := sq.SaveRevision(ctx, changed)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	var out bytes.Buffer
	require.NoError(t, (&ConfigHistory{Format: "text", StoreConfig: sc}).run(ctx, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "* "+second.ID), lines[0])
	assert.Contains(t, lines[0], "4way")
	assert.True(t, strings.HasPrefix(lines[1], "  "+first.ID), lines[1])

	require.NoError(t, (&ConfigRollback{ID: first.ID, StoreConfig: sc}).run(ctx, discard))

	out.Reset()
	require.NoError(t, (&ConfigHistory{Limit: 1, Format: "json", StoreConfig: sc}).run(ctx, &out))
	var revs []store.Revision
	require.NoError(t, json.Unmarshal(out.Bytes(), &revs))
	require.Len(t, revs, 1)
	assert.Equal(t, second.ID, revs[0].ID)

	show := &ConfigShow{Format: "json", StoreConfig: sc}
	out.Reset()
	require.NoError(t, show.run(ctx, &out))
	var active dpad.Settings
	require.NoError(t, json.Unmarshal(out.Bytes(), &active))
	assert.Equal(t, dpad.DefaultSettings(), active)

	err = (&ConfigRollback{ID: "missing", StoreConfig: sc}).run(ctx, discard)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConfigHistoryNeedsVersionedStore(t *testing.T) {
	c := &ConfigHistory{Format: "text", StoreConfig: store.StoreConfig{Kind: store.KindMemory}}
	err := c.run(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, store.ErrNoHistory)
	assert.ErrorContains(t, err, "--store.kind=sqlite")
}
