// Package config loads the HCL configuration for tables and simulations.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/registry"
)

// Config represents the complete configuration file
type Config struct {
	LogLevel string          `hcl:"log_level,optional"`
	Seed     int64           `hcl:"seed,optional"`
	Defaults *DefaultsConfig `hcl:"defaults,block"`
	Tables   []TableConfig   `hcl:"table,block"`
	Bots     []BotConfig     `hcl:"bot,block"`
}

// DefaultsConfig holds the settings every table starts from
type DefaultsConfig struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	BuyIn         int    `hcl:"buy_in,optional"`
	MaxSeats      int    `hcl:"max_seats,optional"`
	TurnTimeout   string `hcl:"turn_timeout,optional"`
	TimeoutAction string `hcl:"timeout_action,optional"`
}

// TableConfig defines a table to open at startup. Unset fields fall back to
// the defaults block.
type TableConfig struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	BuyIn         int    `hcl:"buy_in,optional"`
	MaxSeats      int    `hcl:"max_seats,optional"`
	TurnTimeout   string `hcl:"turn_timeout,optional"`
	TimeoutAction string `hcl:"timeout_action,optional"`
}

// BotConfig seats a simulated player at a table
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	Table    string `hcl:"table,optional"`
}

// Strategies lists the bot strategies the simulator understands
var Strategies = []string{"random", "calling", "tight", "aggressive"}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Defaults: defaultDefaults(),
		Tables:   []TableConfig{{Name: "Default Table"}},
	}
}

func defaultDefaults() *DefaultsConfig {
	return &DefaultsConfig{
		SmallBlind:    10,
		BigBlind:      20,
		BuyIn:         1000,
		MaxSeats:      game.MaxSeats,
		TurnTimeout:   "30s",
		TimeoutAction: string(registry.CheckOrFold),
	}
}

// Load loads configuration from an HCL file, or the defaults when the file
// does not exist
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
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
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	fallback := defaultDefaults()
	if c.Defaults == nil {
		c.Defaults = fallback
	}
	d := c.Defaults
	if d.SmallBlind == 0 {
		d.SmallBlind = fallback.SmallBlind
	}
	if d.BigBlind == 0 {
		d.BigBlind = d.SmallBlind * 2
	}
	if d.BuyIn == 0 {
		d.BuyIn = d.BigBlind * 50 // 50 big blinds
	}
	if d.MaxSeats == 0 {
		d.MaxSeats = fallback.MaxSeats
	}
	if d.TurnTimeout == "" {
		d.TurnTimeout = fallback.TurnTimeout
	}
	if d.TimeoutAction == "" {
		d.TimeoutAction = fallback.TimeoutAction
	}

	for i := range c.Bots {
		if c.Bots[i].Strategy == "" {
			c.Bots[i].Strategy = "random"
		}
		if c.Bots[i].Table == "" && len(c.Tables) > 0 {
			c.Bots[i].Table = c.Tables[0].Name
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if _, err := c.defaultSettings(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, table := range c.Tables {
		if seen[table.Name] {
			return fmt.Errorf("table %s: defined twice", table.Name)
		}
		seen[table.Name] = true
		if _, err := c.TableSettings(table); err != nil {
			return fmt.Errorf("table %s: %w", table.Name, err)
		}
	}

	for _, bot := range c.Bots {
		if !slices.Contains(Strategies, bot.Strategy) {
			return fmt.Errorf("bot %s: invalid strategy %s", bot.Name, bot.Strategy)
		}
		if !seen[bot.Table] {
			return fmt.Errorf("bot %s: unknown table %q", bot.Name, bot.Table)
		}
	}

	return nil
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DefaultSettings returns the registry defaults described by the defaults block
func (c *Config) DefaultSettings() registry.TableSettings {
	settings, err := c.defaultSettings()
	if err != nil {
		return registry.DefaultTableSettings()
	}
	return settings
}

func (c *Config) defaultSettings() (registry.TableSettings, error) {
	d := c.Defaults
	if d == nil {
		d = defaultDefaults()
	}
	timeout, err := time.ParseDuration(d.TurnTimeout)
	if err != nil {
		return registry.TableSettings{}, fmt.Errorf("invalid turn timeout %q: %w", d.TurnTimeout, err)
	}
	settings := registry.TableSettings{
		SmallBlind:    d.SmallBlind,
		BigBlind:      d.BigBlind,
		BuyIn:         d.BuyIn,
		MaxSeats:      d.MaxSeats,
		TurnTimeout:   timeout,
		TimeoutPolicy: registry.TimeoutPolicy(d.TimeoutAction),
	}
	return settings, settings.Validate()
}

// TableSettings merges a table block over the defaults
func (c *Config) TableSettings(table TableConfig) (registry.TableSettings, error) {
	settings, err := c.defaultSettings()
	if err != nil {
		return registry.TableSettings{}, err
	}

	if table.SmallBlind != 0 {
		settings.SmallBlind = table.SmallBlind
		settings.BigBlind = table.SmallBlind * 2
	}
	if table.BigBlind != 0 {
		settings.BigBlind = table.BigBlind
	}
	if table.BuyIn != 0 {
		settings.BuyIn = table.BuyIn
	}
	if table.MaxSeats != 0 {
		settings.MaxSeats = table.MaxSeats
	}
	if table.TurnTimeout != "" {
		timeout, err := time.ParseDuration(table.TurnTimeout)
		if err != nil {
			return registry.TableSettings{}, fmt.Errorf("invalid turn timeout %q: %w", table.TurnTimeout, err)
		}
		settings.TurnTimeout = timeout
	}
	if table.TimeoutAction != "" {
		settings.TimeoutPolicy = registry.TimeoutPolicy(table.TimeoutAction)
	}

	return settings, settings.Validate()
}

// BotsForTable returns the bots configured to sit at a table
func (c *Config) BotsForTable(tableName string) []BotConfig {
	var bots []BotConfig
	for _, bot := range c.Bots {
		if bot.Table == tableName {
			bots = append(bots, bot)
		}
	}
	return bots
}
