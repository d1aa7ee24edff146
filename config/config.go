// Package config loads the settings of the staticvec tools from a .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to the name of every environment variable.
const Prefix = "STATICVEC_"

// Config holds the settings shared by the staticvec commands.
type Config struct {
	// DB is the name of the recording database, without the .sqlite3
	// extension. Empty picks a unique name.
	DB string `env:"DB"`

	// MonitorPort is the port of the monitoring server. 0 disables it.
	MonitorPort int `env:"MONITOR_PORT" envDefault:"0"`

	OpenBrowser bool `env:"OPEN_BROWSER" envDefault:"false"`

	BenchTime time.Duration `env:"BENCHTIME" envDefault:"200ms"`

	Sizes []int `env:"SIZES" envDefault:"8,64,512,4096,8192" envSeparator:","`

	// Trace records every buffer event of the demo.
	Trace bool `env:"TRACE" envDefault:"false"`
}

// Load reads the given .env files, if they exist, and then parses the
// environment. Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config

	err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix})
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the ranges of the settings.
func (c Config) Validate() error {
	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("invalid monitor port %d", c.MonitorPort)
	}

	if c.BenchTime <= 0 {
		return fmt.Errorf("invalid bench time %s", c.BenchTime)
	}

	for _, s := range c.Sizes {
		if s <= 0 {
			return fmt.Errorf("invalid size %d", s)
		}
	}

	return nil
}
