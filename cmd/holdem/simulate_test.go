package main

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/display"
	"github.com/lox/holdem-engine/internal/phh"
	"github.com/lox/holdem-engine/internal/registry"
	"github.com/lox/holdem-engine/internal/statistics"
)

func TestSimulationPlaysHands(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	reg := registry.New(registry.WithLogger(logger), registry.WithSeed(7))
	defer reg.Close()

	var out bytes.Buffer
	sim := &simulation{
		registry: reg,
		renderer: display.NewRenderer(display.DefaultStyles()),
		stats:    statistics.NewCollector(),
		logger:   logger,
		out:      &out,
		quiet:    true,
		history:  &phh.Log{},
	}

	ctx := context.Background()
	tableID, err := reg.CreateTable("Sim")
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	bots, err := sim.seat(ctx, tableID, defaultBots("Sim"), func(b int) *rand.Rand { return botRand(7, 0, b) })
	if err != nil {
		t.Fatalf("seat: %v", err)
	}
	if len(bots) != 4 {
		t.Fatalf("Expected 4 bots seated, got %d", len(bots))
	}

	if err := sim.play(ctx, tableID, bots, 20); err != nil {
		t.Fatalf("play: %v", err)
	}

	snap, err := reg.Snapshot(ctx, tableID)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.HandNumber == 0 {
		t.Fatal("Expected at least one hand to be played")
	}
	if snap.HandInProgress {
		t.Error("Expected no hand in progress after play returns")
	}
	if got := sim.history.Len(); got != snap.HandNumber {
		t.Errorf("Expected %d hand histories, got %d", snap.HandNumber, got)
	}
	total := 0
	for _, p := range snap.Players {
		total += p.Chips
	}
	if total != 4000 {
		t.Errorf("Expected 4000 chips at the table, got %d", total)
	}

	var net float64
	for _, p := range sim.stats.Players() {
		net += p.SumBB
	}
	if net > 1e-6 || net < -1e-6 {
		t.Errorf("Expected player results to sum to zero, got %f", net)
	}

	sim.summary(reg.ListTables())
	if !strings.Contains(out.String(), "Sim") || !strings.Contains(out.String(), "bb/hand") {
		t.Errorf("Unexpected summary:\n%s", out.String())
	}
}

func TestDefaultBots(t *testing.T) {
	bots := defaultBots("Main")
	if len(bots) != 4 {
		t.Fatalf("Expected one bot per strategy, got %d", len(bots))
	}
	for _, b := range bots {
		if b.Table != "Main" {
			t.Errorf("Expected bot %s at Main, got %s", b.Name, b.Table)
		}
	}
}
