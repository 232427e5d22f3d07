// Package testing holds helpers shared by the API tests.
package testing

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/store"
)

// StartAPIServer starts an API server on a free loopback port backed by an
// in-memory store and lets register add the handlers under test. The server
// is closed when the test ends.
func StartAPIServer(t *testing.T, cfg api.ServerConfig, register func(r *api.Router, st store.Store)) (addr string, st *store.Memory) {
	t.Helper()
	st = store.NewMemory()

	srv, err := api.New("127.0.0.1:0", cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("api new failed: %v", err)
	}
	if register != nil {
		register(srv.Router(), st)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv.Addr(), st
}

// ExecCmd dials addr without authentication, sends cmd and returns the
// response line without its trailing newline.
func ExecCmd(t *testing.T, addr string, cmd string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()

	_, _ = fmt.Fprintf(c, "%s\x00", cmd)

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}
	return strings.TrimRight(line, "\r\n")
}
