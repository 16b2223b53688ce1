package phh

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/fileutil"
	"github.com/lox/holdem-engine/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// FormatAction converts an engine action to a PHH action string. total is the
// player's bet for the street after a raise or all-in, and maxBet the largest
// bet on the street before they acted.
func FormatAction(position int, a game.Action, total, maxBet int) string {
	player := fmt.Sprintf("p%d", position+1)
	switch a.Type {
	case game.Fold:
		return player + " f"
	case game.Check, game.Call:
		return player + " cc"
	case game.Raise:
		return fmt.Sprintf("%s cbr %d", player, total)
	case game.AllIn:
		// An all-in that does not exceed the bet faced is a call for less
		if total <= maxBet {
			return player + " cc"
		}
		return fmt.Sprintf("%s cbr %d", player, total)
	default:
		return fmt.Sprintf("# %s %s %d", player, a.Type, total)
	}
}

func notation(cards []deck.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.Notation())
	}
	return b.String()
}

// Log collects hands from any number of tables and writes them as one
// multi-hand file, each hand under a numbered [n] section
type Log struct {
	mu    sync.Mutex
	hands []*HandHistory
}

// Add appends a finished hand
func (l *Log) Add(hand *HandHistory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hands = append(l.hands, hand)
}

// Len returns the number of hands recorded
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hands)
}

// Encode writes every hand in the order they were added
func (l *Log) Encode(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, hand := range l.hands {
		if _, err := fmt.Fprintf(w, "[%d]\n", i+1); err != nil {
			return err
		}
		if err := Encode(w, hand); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile replaces filename with the encoded log
func (l *Log) WriteFile(filename string) error {
	var buf bytes.Buffer
	if err := l.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode hand histories: %w", err)
	}
	return fileutil.WriteFileAtomic(filename, buf.Bytes(), 0o644)
}
