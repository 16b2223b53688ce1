package game

import "errors"

// Rejections. Every one leaves the table untouched.
var (
	ErrOutOfTurn         = errors.New("not player's turn")
	ErrUnknownAction     = errors.New("unknown action")
	ErrIllegalCheck      = errors.New("cannot check facing a bet")
	ErrIllegalCall       = errors.New("nothing to call")
	ErrRaiseBelowMinimum = errors.New("raise below minimum")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrTableFull         = errors.New("table is full")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrNotEnoughPlayers  = errors.New("not enough players")
	ErrHandInProgress    = errors.New("hand already in progress")
	ErrDuplicatePlayer   = errors.New("player already seated")
)

var reasons = []struct {
	err  error
	code string
}{
	{ErrOutOfTurn, "out_of_turn"},
	{ErrUnknownAction, "unknown_action"},
	{ErrIllegalCheck, "illegal_check"},
	{ErrIllegalCall, "illegal_call"},
	{ErrRaiseBelowMinimum, "raise_below_minimum"},
	{ErrInsufficientChips, "insufficient_chips"},
	{ErrTableFull, "table_full"},
	{ErrPlayerNotFound, "player_not_found"},
	{ErrTableNotFound, "table_not_found"},
	{ErrNotEnoughPlayers, "not_enough_players"},
	{ErrHandInProgress, "hand_in_progress"},
	{ErrDuplicatePlayer, "duplicate_player"},
}

// Reason maps a rejection to a stable code a transport can send to clients.
// Errors that are not engine rejections map to "internal".
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return "internal"
}
