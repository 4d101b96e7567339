package app

import "flag"

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim        string
	ConfigPath string
	Width      int
	Height     int
	HUDWidth   int
	SPS        int
	Seed       int64
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "fold", Width: 720, Height: 720, HUDWidth: 260, SPS: 120, Seed: 42}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run (fold or fold-revert)")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "parameters TOML file")
	fs.IntVar(&c.Width, "width", c.Width, "view width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "view height in pixels")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	fs.IntVar(&c.SPS, "sps", c.SPS, "annealing steps per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
}
