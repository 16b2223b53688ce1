package game

import (
	"fmt"
	"strings"
)

// ActionType is a player decision
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Raise
	AllIn
)

// String returns the wire name of the action
func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case AllIn:
		return "all_in"
	default:
		return "unknown"
	}
}

// ParseActionType converts a wire name (case-insensitive) to an ActionType
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "all_in", "allin", "all-in":
		return AllIn, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// MarshalText encodes the action name
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name
func (a *ActionType) UnmarshalText(text []byte) error {
	parsed, err := ParseActionType(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Action is a command from a player. Amount is the new total bet for a raise
// and ignored otherwise.
type Action struct {
	PlayerID string     `json:"playerId"`
	Type     ActionType `json:"type"`
	Amount   int        `json:"amount,omitempty"`
}

func (a Action) String() string {
	if a.Type == Raise {
		return fmt.Sprintf("%s %s %d", a.PlayerID, a.Type, a.Amount)
	}
	return fmt.Sprintf("%s %s", a.PlayerID, a.Type)
}
