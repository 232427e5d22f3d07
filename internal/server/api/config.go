package api

import "time"

// ServerConfig represents the API server configuration.
type ServerConfig struct {
	Addr     string `help:"API server listen address" default:":3243" env:"ANALOGDPAD_API_ADDR"`
	Password string `help:"Require clients to authenticate with this password (empty disables auth)" env:"ANALOGDPAD_API_PASSWORD"`
	// PreviewSize is used when a preview request leaves width/height unset.
	PreviewSize       int           `help:"Default preview raster size in pixels" default:"256" env:"ANALOGDPAD_API_PREVIEW_SIZE"`
	MaxPreviewSize    int           `help:"Largest preview raster accepted" default:"2048" env:"ANALOGDPAD_API_MAX_PREVIEW_SIZE"`
	ConnectionTimeout time.Duration `kong:"-"`
}
