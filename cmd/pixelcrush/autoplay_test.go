package main

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
)

func TestAutoplayFastClearsStages(t *testing.T) {
	logger = log.New(io.Discard)
	flagAutoMaxTicks = 100000

	p := core.DefaultParams()
	p.Side = 10
	p.MaxStage = 3

	results, err := autoplayFast(context.Background(), p, 42, 3)
	if err != nil {
		t.Fatalf("autoplayFast() failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one stage result")
	}
	for i, r := range results {
		if r.Stage != i+1 {
			t.Errorf("result %d has stage %d", i, r.Stage)
		}
		if r.Won && r.Cleared != p.Side*p.Side {
			t.Errorf("won stage %d cleared %d pixels, want %d", r.Stage, r.Cleared, p.Side*p.Side)
		}
	}
	last := results[len(results)-1]
	if last.Won && len(results) != 3 {
		t.Errorf("a winning run should stop at the requested stage count, got %d", len(results))
	}
}

func TestAutoplayFastHonorsCancel(t *testing.T) {
	logger = log.New(io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := core.DefaultParams()
	p.Side = 10
	if _, err := autoplayFast(ctx, p, 1, 1); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"localhost:2222": "2222",
		"[::1]:22":       "22",
		"nonsense":       "nonsense",
	}
	for in, want := range tests {
		if got := portOf(in); got != want {
			t.Errorf("portOf(%q) = %q, want %q", in, got, want)
		}
	}
}
