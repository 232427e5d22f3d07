package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Alia5/analogdpad/internal/configpaths"
	"github.com/Alia5/analogdpad/internal/log"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/server/api/auth"
	"github.com/Alia5/analogdpad/internal/server/api/handler"
	"github.com/Alia5/analogdpad/internal/store"
	"github.com/Alia5/analogdpad/internal/util"
	"github.com/Alia5/analogdpad/internal/web"
)

const keyFileName = "analogdpad.key.txt"

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

type Serve struct {
	ApiServerConfig   api.ServerConfig  `embed:"" prefix:"api."`
	WebConfig         web.Config        `embed:"" prefix:"web."`
	StoreConfig       store.StoreConfig `embed:"" prefix:"store."`
	Auth              bool              `help:"Require API authentication; without --api.password a key is read from or generated into the config directory" env:"ANALOGDPAD_AUTH"`
	ConnectionTimeout time.Duration     `help:"Timeout for a single API request" default:"30s" env:"ANALOGDPAD_CONNECTION_TIMEOUT"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := s.StartServer(ctx, logger, rawLogger, nil)
	if err != nil {
		util.PauseIfGUI(os.Stdin, os.Stdout, err.Error())
	}
	return err
}

// StartServer runs until ctx is done. ready, if non-nil, receives the API
// server once it listens.
func (s *Serve) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger, ready chan<- *api.Server) error {
	s.ApiServerConfig.ConnectionTimeout = s.ConnectionTimeout
	if s.ApiServerConfig.Addr == "" {
		return errors.New("API server address must be set (default :3243)")
	}
	if s.Auth && s.ApiServerConfig.Password == "" {
		pwd, err := loadOrCreateKey(logger)
		if err != nil {
			return err
		}
		s.ApiServerConfig.Password = pwd
	}

	st, err := store.Open(s.StoreConfig)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	defer st.Close()

	settings, err := store.LoadOrDefault(ctx, st)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	logger.Info("Settings loaded", "store", s.StoreConfig.Kind, "enabled", settings.Enabled, "mode", settings.Mode)

	apiSrv, err := api.New(s.ApiServerConfig.Addr, s.ApiServerConfig, logger)
	if err != nil {
		return err
	}
	r := apiSrv.Router()
	r.Register("ping", handler.Ping(Version))
	r.Register("config/get", handler.ConfigGet(st))
	r.Register("config/set", handler.ConfigSet(st))
	r.Register("config/history", handler.ConfigHistory(st))
	r.Register("config/rollback", handler.ConfigRollback(st))
	r.Register("classify/{mode}", handler.Classify(st))
	r.Register("classify/{mode}/batch", handler.ClassifyBatch(st))
	r.Register("preview/{mode}", handler.Preview(st, s.ApiServerConfig))
	r.RegisterStream("stream/{mode}", handler.Stream(st, rawLogger))

	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		return err
	}
	defer apiSrv.Close()

	var webSrv *web.Server
	if s.WebConfig.Addr != "" {
		webSrv, err = web.New(s.WebConfig, st, logger)
		if err != nil {
			return err
		}
		if err := webSrv.Start(); err != nil {
			return fmt.Errorf("start web preview: %w", err)
		}
	}

	if ready != nil {
		ready <- apiSrv
	}
	if util.IsRunFromGUI() {
		go func() {
			time.Sleep(250 * time.Millisecond)
			util.HideConsoleWindow()
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	if webSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = webSrv.Shutdown(shutdownCtx)
	}
	return nil
}

func loadOrCreateKey(logger *slog.Logger) (string, error) {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	path := filepath.Join(dir, keyFileName)
	if pwd, err := os.ReadFile(path); err == nil {
		if p := strings.TrimSpace(string(pwd)); p != "" {
			return p, nil
		}
	}

	pwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate API password: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(path, []byte(pwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write API password: %w", err)
	}
	logger.Info("Generated API server password", "path", path)
	logger.Info("-------------------------------------")
	logger.Info(pwd)
	logger.Info("-------------------------------------")
	logger.Info("You can change this password at any time by editing the file")
	return pwd, nil
}
