// Package config holds the root command line of analogdpad.
package config

import (
	"github.com/Alia5/analogdpad/internal/cmd"
	"github.com/Alia5/analogdpad/internal/log"
)

type CLI struct {
	Log    log.Config `embed:"" prefix:"log."`
	Config string     `help:"Path to a configuration file (json, yaml or toml)" type:"path" env:"ANALOGDPAD_CONFIG"`

	Serve    cmd.Serve         `cmd:"" help:"Run the API server and the optional web preview"`
	Classify cmd.Classify      `cmd:"" help:"Classify a single stick position"`
	Preview  cmd.Preview       `cmd:"" help:"Render the classification regions of a configuration"`
	Watch    cmd.Watch         `cmd:"" help:"Show the d-pad output for the left stick of a connected gamepad"`
	Cfg      cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file helpers"`
}
