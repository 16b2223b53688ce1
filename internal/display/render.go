// Package display renders table snapshots for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/game"
)

// Styles holds the lipgloss styles used when rendering
type Styles struct {
	Header    lipgloss.Style
	HandInfo  lipgloss.Style
	Winner    lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Folded    lipgloss.Style
	Turn      lipgloss.Style
	Separator lipgloss.Style
}

// DefaultStyles returns the standard colour scheme
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		HandInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Winner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		RedCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: lipgloss.NewStyle().
			Bold(true),
		Folded: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Turn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Renderer turns snapshots into terminal text
type Renderer struct {
	styles Styles
}

// NewRenderer creates a renderer with the given styles
func NewRenderer(styles Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Heading renders a title bar
func (r *Renderer) Heading(text string) string {
	return r.styles.Header.Render(text)
}

// Cards renders cards in brackets, red suits highlighted
func (r *Renderer) Cards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "[]"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit == deck.Hearts || c.Suit == deck.Diamonds {
			parts[i] = r.styles.RedCard.Render(c.String())
		} else {
			parts[i] = r.styles.BlackCard.Render(c.String())
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Table renders the seats, board and pots of a snapshot
func (r *Renderer) Table(s game.Snapshot) string {
	var b strings.Builder

	b.WriteString(r.Heading(fmt.Sprintf("%s - Hand #%d", s.Name, s.HandNumber)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  Blinds %d/%d  Board %s  Pot %d\n",
		r.styles.HandInfo.Render(s.Stage.String()), s.SmallBlind, s.BigBlind, r.Cards(s.CommunityCards), s.PotTotal())

	for i, p := range s.Players {
		marker := "  "
		if i == s.DealerIndex && s.HandNumber > 0 {
			marker = "D "
		}
		line := fmt.Sprintf("%s%-16s %6d chips  bet %-5d %-11s %s",
			marker, p.Name, p.Chips, p.TotalBet, p.Status, r.Cards(p.HoleCards))
		switch {
		case p.ID == s.CurrentTurn:
			line = r.styles.Turn.Render(line + "  <")
		case p.Status == game.StatusFolded || p.Status == game.StatusSittingOut:
			line = r.styles.Folded.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(s.Pots) > 1 {
		for i, pot := range s.Pots {
			fmt.Fprintf(&b, "  pot %d: %d (%s)\n", i, pot.Amount, strings.Join(pot.EligiblePlayers, ", "))
		}
	}
	return b.String()
}

// Results renders the payouts of a finished hand
func (r *Renderer) Results(s game.Snapshot) string {
	var b strings.Builder
	b.WriteString(r.styles.Separator.Render(strings.Repeat("─", 40)))
	b.WriteString("\n")
	for _, p := range s.Results {
		name := p.PlayerID
		if ps, ok := s.Player(p.PlayerID); ok {
			name = ps.Name
		}
		line := fmt.Sprintf("%s wins %d from pot %d", name, p.Amount, p.Pot)
		if p.Hand != "" {
			line += " with " + p.Hand
		}
		b.WriteString(r.styles.Winner.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
