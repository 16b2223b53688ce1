package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/randutil"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	opts = append([]Option{WithLogger(testLogger()), WithSeed(42)}, opts...)
	r := New(opts...)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// seat joins players with the given ids and returns the table id
func seat(t *testing.T, r *Registry, opts []TableOption, ids ...string) string {
	t.Helper()
	tableID, err := r.CreateTable("Test Table", opts...)
	require.NoError(t, err)
	for _, id := range ids {
		_, _, err := r.JoinTable(context.Background(), tableID, "Player "+id, id)
		require.NoError(t, err)
	}
	return tableID
}

func TestCreateAndListTables(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)

	bID, err := r.CreateTable("Beta", WithBlinds(25, 50), WithBuyIn(5000))
	require.NoError(t, err)
	aID, err := r.CreateTable("Alpha")
	require.NoError(t, err)
	assert.NotEqual(t, aID, bID)

	_, _, err = r.JoinTable(context.Background(), bID, "Alice", "alice")
	require.NoError(t, err)

	tables := r.ListTables()
	require.Len(t, tables, 2)
	assert.Equal(t, "Alpha", tables[0].Name)
	assert.Equal(t, 0, tables[0].PlayerCount)
	assert.Equal(t, "Beta", tables[1].Name)
	assert.Equal(t, 1, tables[1].PlayerCount)
	assert.Equal(t, 50, tables[1].BigBlind)
}

func TestCreateTableValidation(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)

	_, err := r.CreateTable("Backwards", WithBlinds(20, 10))
	require.Error(t, err)
	_, err = r.CreateTable("Crowded", WithMaxSeats(12))
	require.Error(t, err)
	_, err = r.CreateTable("Odd", WithTurnTimeout(time.Second, "sit_out"))
	require.Error(t, err)
	assert.Empty(t, r.ListTables())
}

func TestJoinTable(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)
	ctx := context.Background()

	tableID := seat(t, r, []TableOption{WithMaxSeats(2), WithBuyIn(500)}, "alice")

	player, snap, err := r.JoinTable(ctx, tableID, "Bob", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", player.ID)
	assert.Equal(t, 500, player.Chips)
	assert.Equal(t, 1, player.Position)
	assert.Len(t, snap.Players, 2)

	_, _, err = r.JoinTable(ctx, tableID, "Carol", "carol")
	assert.ErrorIs(t, err, game.ErrTableFull)

	otherID, err := r.CreateTable("Other")
	require.NoError(t, err)
	_, _, err = r.JoinTable(ctx, otherID, "Alice", "alice")
	assert.ErrorIs(t, err, game.ErrDuplicatePlayer)

	// A rejected join does not reserve the id
	_, _, err = r.JoinTable(ctx, otherID, "Carol", "carol")
	assert.NoError(t, err)

	_, _, err = r.JoinTable(ctx, "missing", "Dave", "dave")
	assert.ErrorIs(t, err, ErrTableNotFound)

	generated, _, err := r.JoinTable(ctx, otherID, "Anonymous", "")
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID)
}

func TestPlayHandThroughRegistry(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)
	ctx := context.Background()
	tableID := seat(t, r, nil, "alice", "bob")

	snap, err := r.StartGame(ctx, tableID)
	require.NoError(t, err)
	assert.Equal(t, "bob", snap.CurrentTurn)
	assert.True(t, snap.HandInProgress)

	_, err = r.StartGame(ctx, tableID)
	assert.ErrorIs(t, err, game.ErrHandInProgress)

	_, err = r.SubmitAction(ctx, tableID, game.Action{PlayerID: "alice", Type: game.Check})
	assert.ErrorIs(t, err, game.ErrOutOfTurn)
	assert.Equal(t, "out_of_turn", game.Reason(err))

	_, err = r.SubmitAction(ctx, tableID, game.Action{PlayerID: "bob", Type: game.Raise, Amount: 30})
	assert.ErrorIs(t, err, game.ErrRaiseBelowMinimum)

	snap, err = r.SubmitAction(ctx, tableID, game.Action{PlayerID: "bob", Type: game.Call})
	require.NoError(t, err)
	assert.Equal(t, "alice", snap.CurrentTurn)

	snap, err = r.SubmitAction(ctx, tableID, game.Action{PlayerID: "alice", Type: game.Check})
	require.NoError(t, err)
	assert.Equal(t, game.Flop, snap.Stage)
	assert.Len(t, snap.CommunityCards, 3)
}

func TestTurnTimeout(t *testing.T) {
	t.Parallel()

	t.Run("check or fold", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		mClock := quartz.NewMock(t)
		var mu sync.Mutex
		var updates []game.Snapshot
		r := newTestRegistry(t, WithClock(mClock), WithListener(func(s game.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			updates = append(updates, s)
		}))
		tableID := seat(t, r, []TableOption{WithTurnTimeout(10*time.Second, CheckOrFold)}, "alice", "bob")

		_, err := r.StartGame(ctx, tableID)
		require.NoError(t, err)

		// Bob faces the big blind, so the timeout folds him
		mClock.Advance(10 * time.Second).MustWait(ctx)
		snap, err := r.Snapshot(ctx, tableID)
		require.NoError(t, err)
		assert.False(t, snap.HandInProgress)
		bob, _ := snap.Player("bob")
		assert.Equal(t, game.StatusFolded, bob.Status)
		alice, _ := snap.Player("alice")
		assert.Equal(t, 1010, alice.Chips)

		mu.Lock()
		last := updates[len(updates)-1]
		mu.Unlock()
		assert.Equal(t, game.Showdown, last.Stage)

		// Next hand alice has the button and calls; bob may check, so he does
		snap, err = r.StartGame(ctx, tableID)
		require.NoError(t, err)
		require.Equal(t, "alice", snap.CurrentTurn)
		_, err = r.SubmitAction(ctx, tableID, game.Action{PlayerID: "alice", Type: game.Call})
		require.NoError(t, err)

		mClock.Advance(10 * time.Second).MustWait(ctx)
		snap, err = r.Snapshot(ctx, tableID)
		require.NoError(t, err)
		assert.Equal(t, game.Flop, snap.Stage)
		assert.True(t, snap.HandInProgress)
	})

	t.Run("fold", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		mClock := quartz.NewMock(t)
		r := newTestRegistry(t, WithClock(mClock))
		tableID := seat(t, r, []TableOption{WithTurnTimeout(time.Second, FoldOnTimeout)}, "alice", "bob")

		_, err := r.StartGame(ctx, tableID)
		require.NoError(t, err)
		_, err = r.SubmitAction(ctx, tableID, game.Action{PlayerID: "bob", Type: game.Call})
		require.NoError(t, err)

		mClock.Advance(time.Second).MustWait(ctx)
		snap, err := r.Snapshot(ctx, tableID)
		require.NoError(t, err)
		alice, _ := snap.Player("alice")
		assert.Equal(t, game.StatusFolded, alice.Status)
		assert.Equal(t, []game.Payout{{PlayerID: "bob", Amount: 40}}, snap.Results)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		mClock := quartz.NewMock(t)
		r := newTestRegistry(t, WithClock(mClock))
		tableID := seat(t, r, []TableOption{WithTurnTimeout(0, CheckOrFold)}, "alice", "bob")

		_, err := r.StartGame(ctx, tableID)
		require.NoError(t, err)
		mClock.Advance(time.Hour).MustWait(ctx)

		snap, err := r.Snapshot(ctx, tableID)
		require.NoError(t, err)
		assert.Equal(t, "bob", snap.CurrentTurn)
	})
}

func TestConcurrentSubmissionsAreSerialized(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)
	ctx := context.Background()
	tableID := seat(t, r, nil, "alice", "bob")
	_, err := r.StartGame(ctx, tableID)
	require.NoError(t, err)

	var accepted, outOfTurn atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.SubmitAction(ctx, tableID, game.Action{PlayerID: "bob", Type: game.Call})
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, game.ErrOutOfTurn):
				outOfTurn.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(19), outOfTurn.Load())
}

func TestTablesPlayConcurrently(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)
	ctx := context.Background()

	g, ctx := errgroup.WithContext(ctx)
	for n := range 4 {
		tableID := seat(t, r, nil, fmt.Sprintf("t%d-a", n), fmt.Sprintf("t%d-b", n), fmt.Sprintf("t%d-c", n))
		g.Go(func() error {
			rng := randutil.New(int64(n + 1))
			for hand := 0; hand < 10; hand++ {
				snap, err := r.StartGame(ctx, tableID)
				if errors.Is(err, game.ErrNotEnoughPlayers) {
					return nil
				}
				if err != nil {
					return err
				}
				for snap.HandInProgress {
					opts := snap.ValidActions(snap.CurrentTurn)
					a := game.Action{PlayerID: snap.CurrentTurn, Type: opts.Types[rng.IntN(len(opts.Types))]}
					if a.Type == game.Raise {
						a.Amount = opts.MinRaise
					}
					if snap, err = r.SubmitAction(ctx, tableID, a); err != nil {
						return fmt.Errorf("%s: %w", a, err)
					}
				}
				total := snap.PotTotal()
				for _, p := range snap.Players {
					total += p.Chips
				}
				if total != 3000 {
					return fmt.Errorf("table %d hand %d: %d chips", n, hand, total)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestRemovePlayer(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)
	ctx := context.Background()
	tableID := seat(t, r, nil, "alice", "bob", "carol")

	_, err := r.StartGame(ctx, tableID)
	require.NoError(t, err)

	snap, err := r.RemovePlayer(ctx, "carol")
	require.NoError(t, err)
	carol, ok := snap.Player("carol")
	require.True(t, ok, "player stays seated until the hand ends")
	assert.Equal(t, game.StatusFolded, carol.Status)
	assert.True(t, carol.Leaving)
	assert.True(t, snap.HandInProgress)

	_, err = r.RemovePlayer(ctx, "carol")
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)
	_, err = r.RemovePlayer(ctx, "nobody")
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)

	// Carol may sit down elsewhere straight away
	otherID, err := r.CreateTable("Other")
	require.NoError(t, err)
	_, _, err = r.JoinTable(ctx, otherID, "Carol", "carol")
	assert.NoError(t, err)
}

func TestDeleteTableAndClose(t *testing.T) {
	t.Parallel()
	r := New(WithLogger(testLogger()))
	ctx := context.Background()

	tableID, err := r.CreateTable("Doomed")
	require.NoError(t, err)
	_, _, err = r.JoinTable(ctx, tableID, "Alice", "alice")
	require.NoError(t, err)

	require.NoError(t, r.DeleteTable(tableID))
	assert.Empty(t, r.ListTables())
	_, err = r.Snapshot(ctx, tableID)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.ErrorIs(t, r.DeleteTable(tableID), ErrTableNotFound)

	// The player index was cleared with the table
	otherID, err := r.CreateTable("Survivor")
	require.NoError(t, err)
	_, _, err = r.JoinTable(ctx, otherID, "Alice", "alice")
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	_, err = r.CreateTable("Late")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = r.Snapshot(ctx, otherID)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCallerContextCancelled(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	r := newTestRegistry(t, WithListener(func(game.Snapshot) {
		once.Do(func() {
			close(entered)
			<-release
		})
	}))
	tableID, err := r.CreateTable("Busy")
	require.NoError(t, err)

	go func() {
		_, _, _ = r.JoinTable(context.Background(), tableID, "Alice", "alice")
	}()
	<-entered

	// The table is stuck in the listener, so the command cannot be delivered
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Snapshot(ctx, tableID)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	snap, err := r.Snapshot(context.Background(), tableID)
	require.NoError(t, err)
	assert.Len(t, snap.Players, 1)
}

func TestSeededTablesAreReproducible(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	deal := func() game.Snapshot {
		r := newTestRegistry(t, WithSeed(7))
		tableID := seat(t, r, nil, "alice", "bob")
		snap, err := r.StartGame(ctx, tableID)
		require.NoError(t, err)
		return snap
	}

	first, second := deal(), deal()
	for i := range first.Players {
		assert.Equal(t, first.Players[i].HoleCards, second.Players[i].HoleCards)
	}
}
