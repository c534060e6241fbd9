package clock

import (
	"testing"
	"time"
)

func TestSystem_NowReturnsCurrentTime(t *testing.T) {
	before := time.Now()
	got := System{}.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("System.Now() = %v, expected between %v and %v", got, before, after)
	}
}

func TestFixed_NowReturnsPinnedInstant(t *testing.T) {
	pinned := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	clk := NewFixed(pinned)

	if got := clk.Now(); !got.Equal(pinned) {
		t.Errorf("Now() = %v, want %v", got, pinned)
	}
}

func TestFixed_SetOverridesPinnedInstant(t *testing.T) {
	clk := NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	next := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	clk.Set(next)

	if got := clk.Now(); !got.Equal(next) {
		t.Errorf("Now() after Set = %v, want %v", got, next)
	}
}

func TestFixed_AdvanceMovesInstantForward(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewFixed(start)
	clk.Advance(3 * time.Hour)

	want := start.Add(3 * time.Hour)
	if got := clk.Now(); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFixed_AdvanceIsCumulative(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewFixed(start)
	clk.Advance(1 * time.Hour)
	clk.Advance(30 * time.Minute)

	want := start.Add(90 * time.Minute)
	if got := clk.Now(); !got.Equal(want) {
		t.Errorf("Now() after two Advance calls = %v, want %v", got, want)
	}
}
