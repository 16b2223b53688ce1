package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/registry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, log.InfoLevel, cfg.Level())
	require.Len(t, cfg.Tables, 1)
	assert.Equal(t, "Default Table", cfg.Tables[0].Name)

	settings, err := cfg.TableSettings(cfg.Tables[0])
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultTableSettings(), settings)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
log_level = "debug"
seed      = 42

defaults {
  small_blind    = 5
  big_blind      = 10
  buy_in         = 500
  max_seats      = 6
  turn_timeout   = "15s"
  timeout_action = "fold"
}

table "Low Stakes" {}

table "High Stakes" {
  small_blind  = 50
  buy_in       = 10000
  turn_timeout = "0s"
}

bot "Alice" {
  strategy = "tight"
  table    = "High Stakes"
}

bot "Bob" {}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, int64(42), cfg.Seed)
	require.Len(t, cfg.Tables, 2)

	low, err := cfg.TableSettings(cfg.Tables[0])
	require.NoError(t, err)
	assert.Equal(t, registry.TableSettings{
		SmallBlind:    5,
		BigBlind:      10,
		BuyIn:         500,
		MaxSeats:      6,
		TurnTimeout:   15 * time.Second,
		TimeoutPolicy: registry.FoldOnTimeout,
	}, low)

	high, err := cfg.TableSettings(cfg.Tables[1])
	require.NoError(t, err)
	assert.Equal(t, 50, high.SmallBlind)
	assert.Equal(t, 100, high.BigBlind)
	assert.Equal(t, 10000, high.BuyIn)
	assert.Zero(t, high.TurnTimeout)

	require.Len(t, cfg.Bots, 2)
	assert.Equal(t, "random", cfg.Bots[1].Strategy)
	assert.Equal(t, "Low Stakes", cfg.Bots[1].Table)
	assert.Len(t, cfg.BotsForTable("High Stakes"), 1)
}

func TestLoadPartialDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
defaults {
  small_blind = 25
}
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	settings := cfg.DefaultSettings()
	assert.Equal(t, 25, settings.SmallBlind)
	assert.Equal(t, 50, settings.BigBlind)
	assert.Equal(t, 2500, settings.BuyIn)
	assert.Equal(t, 30*time.Second, settings.TurnTimeout)
	assert.Equal(t, registry.CheckOrFold, settings.TimeoutPolicy)
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `defaults {`))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(writeConfig(t, `unknown_attribute = true`))
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"log level", `log_level = "loud"`, "invalid log level"},
		{"timeout", "defaults {\n turn_timeout = \"soon\"\n}", "invalid turn timeout"},
		{"timeout action", "defaults {\n timeout_action = \"sit_out\"\n}", "unknown timeout policy"},
		{"blinds", "table \"Backwards\" {\n small_blind = 20\n big_blind = 10\n}", "big blind 10 is smaller"},
		{"seats", "table \"Crowded\" {\n max_seats = 12\n}", "max seats"},
		{"duplicate table", "table \"A\" {}\ntable \"A\" {}", "defined twice"},
		{"strategy", "table \"A\" {}\nbot \"B\" {\n strategy = \"psychic\"\n}", "invalid strategy"},
		{"bot table", "table \"A\" {}\nbot \"B\" {\n table = \"Z\"\n}", "unknown table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			assert.ErrorContains(t, cfg.Validate(), tt.message)
		})
	}
}
