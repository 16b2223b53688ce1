package display

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/game"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestCards(t *testing.T) {
	r := NewRenderer(DefaultStyles())

	if got := r.Cards(deck.MustParseCards("AsKh")); got != "[A♠ K♥]" {
		t.Errorf("Expected [A♠ K♥], got %q", got)
	}
	if got := r.Cards(nil); got != "[]" {
		t.Errorf("Expected [], got %q", got)
	}
}

func TestTable(t *testing.T) {
	r := NewRenderer(DefaultStyles())
	snap := game.Snapshot{
		Name:           "Main",
		HandNumber:     3,
		Stage:          game.Flop,
		SmallBlind:     10,
		BigBlind:       20,
		HandInProgress: true,
		CurrentTurn:    "bob",
		DealerIndex:    0,
		CommunityCards: deck.MustParseCards("2c7d9h"),
		Pots:           []game.Pot{{Amount: 60, EligiblePlayers: []string{"alice", "bob"}}},
		Players: []game.PlayerState{
			{ID: "alice", Name: "Alice", Chips: 970, TotalBet: 30, Status: game.StatusActive},
			{ID: "bob", Name: "Bob", Chips: 970, TotalBet: 30, Status: game.StatusActive},
		},
	}

	out := r.Table(snap)
	for _, want := range []string{"Main - Hand #3", "flop", "Blinds 10/20", "[2♣ 7♦ 9♥]", "Pot 60", "D Alice", "Bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "<") {
		t.Errorf("Expected the player to act to be marked, got:\n%s", out)
	}
}

func TestResults(t *testing.T) {
	r := NewRenderer(DefaultStyles())
	snap := game.Snapshot{
		Players: []game.PlayerState{{ID: "alice", Name: "Alice"}},
		Results: []game.Payout{{PlayerID: "alice", Amount: 120, Pot: 0, Hand: "One Pair (A♠ A♥ K♦ 9♣ 4♠)"}},
	}

	out := r.Results(snap)
	if !strings.Contains(out, "Alice wins 120 from pot 0 with One Pair") {
		t.Errorf("Unexpected results output:\n%s", out)
	}
}
