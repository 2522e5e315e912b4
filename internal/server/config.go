package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultPort is the port remote players connect to.
const DefaultPort = 54321

// DefaultDecisionTimeout is how long a remote player may take to act.
const DefaultDecisionTimeout = 120 * time.Second

// Config is the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
}

// ServerSettings contains listener configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings configures the table rules. Pointer fields distinguish an
// explicit zero from an unset value.
type TableSettings struct {
	MinBet          int    `hcl:"min_bet,optional"`
	StartMultiplier int    `hcl:"start_multiplier,optional"`
	AISeats         *int   `hcl:"ai_seats,optional"`
	RequireHuman    *bool  `hcl:"require_human,optional"`
	SidePots        bool   `hcl:"side_pots,optional"`
	InflateEvery    *int   `hcl:"inflate_every,optional"`
	DecisionTimeout string `hcl:"decision_timeout,optional"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Table == nil {
		c.Table = &TableSettings{}
	}

	if c.Server.Address == "" {
		c.Server.Address = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	def := game.DefaultConfig()
	t := c.Table
	if t.MinBet == 0 {
		t.MinBet = def.MinBet
	}
	if t.StartMultiplier == 0 {
		t.StartMultiplier = def.StartingStakeMultiplier
	}
	if t.AISeats == nil {
		t.AISeats = &def.AISeats
	}
	if t.RequireHuman == nil {
		t.RequireHuman = &def.RequireHuman
	}
	if t.InflateEvery == nil {
		t.InflateEvery = &def.InflateEvery
	}
	if t.DecisionTimeout == "" {
		t.DecisionTimeout = DefaultDecisionTimeout.String()
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}
	timeout, err := time.ParseDuration(c.Table.DecisionTimeout)
	if err != nil {
		return fmt.Errorf("invalid decision timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("decision timeout must be positive, got %s", timeout)
	}
	if err := c.TableConfig().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// DecisionTimeout returns how long a remote player may take per action.
// It assumes the configuration has been validated.
func (c *Config) DecisionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Table.DecisionTimeout)
	if err != nil {
		return DefaultDecisionTimeout
	}
	return d
}

// TableConfig returns the table rules described by the configuration.
func (c *Config) TableConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.MinBet = c.Table.MinBet
	cfg.StartingStakeMultiplier = c.Table.StartMultiplier
	cfg.AISeats = *c.Table.AISeats
	cfg.RequireHuman = *c.Table.RequireHuman
	cfg.SidePots = c.Table.SidePots
	cfg.InflateEvery = *c.Table.InflateEvery
	return cfg
}
