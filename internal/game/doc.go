// Package game implements the Texas Hold'em table state machine.
//
// The main type is Engine, which owns a Table and a Deck and applies every
// command to them: seating players, starting hands, betting actions and
// departures. Rejected commands return one of the sentinel errors in this
// package and never change the table.
//
// # Basic Usage
//
//	table := game.NewTable("t1", "Main", 10, 20, 1000)
//	engine := game.NewEngine(table, deck.New(randutil.New(42)), log.Default())
//	engine.Join("alice", "Alice", 1000)
//	engine.Join("bob", "Bob", 1000)
//	if err := engine.StartGame(); err != nil {
//	    return err
//	}
//	snap := engine.Snapshot()
//	err := engine.HandleAction(game.Action{PlayerID: snap.CurrentTurn, Type: game.Call})
//
// # Pots
//
// Pots are rebuilt from each player's total contribution to the hand every
// time chips move, so a player going all-in on any street produces the right
// side pots without any bookkeeping by the caller.
//
// # Snapshots
//
// Snapshot returns a deep copy safe to share between goroutines. Use
// Snapshot.Redacted before sending a table to a client, and
// Snapshot.ValidActions to prompt the player whose turn it is.
package game
