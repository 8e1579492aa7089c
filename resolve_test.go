package simfile

import "testing"

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

func TestResolveTimesTempoOnly(t *testing.T) {
	layer := EventLayer{
		{Kind: EventTempo, Row: 0, BPM: 120},
		{Kind: EventLaneTap, Row: MaxValidDenominator},
	}
	ResolveTimes(layer)
	if !approxEqual(layer[0].TimeSeconds, 0) {
		t.Errorf("tempo event: got %v, want 0", layer[0].TimeSeconds)
	}
	if !approxEqual(layer[1].TimeSeconds, 0.5) {
		t.Errorf("one beat at 120bpm: got %v, want 0.5", layer[1].TimeSeconds)
	}
}

func TestResolveTimesStopAddsDuration(t *testing.T) {
	layer := EventLayer{
		{Kind: EventTempo, Row: 0, BPM: 120},
		{Kind: EventStop, Row: MaxValidDenominator, LengthSeconds: 1.0},
		{Kind: EventLaneTap, Row: 2 * MaxValidDenominator},
	}
	ResolveTimes(layer)
	if !approxEqual(layer[1].TimeSeconds, 0.5) {
		t.Errorf("stop event time: got %v, want 0.5", layer[1].TimeSeconds)
	}
	if !approxEqual(layer[2].TimeSeconds, 2.0) {
		t.Errorf("post-stop event: got %v, want 2.0 (1.0 elapsed + 1.0 stop)", layer[2].TimeSeconds)
	}
}

func TestResolveTimesNegativeStopSubtractsDuration(t *testing.T) {
	layer := EventLayer{
		{Kind: EventTempo, Row: 0, BPM: 120},
		{Kind: EventStop, Row: MaxValidDenominator, LengthSeconds: -0.2},
		{Kind: EventLaneTap, Row: 2 * MaxValidDenominator},
	}
	ResolveTimes(layer)
	if !approxEqual(layer[2].TimeSeconds, 0.8) {
		t.Errorf("post-negative-stop event: got %v, want 0.8", layer[2].TimeSeconds)
	}
}

func TestResolveTimesWarpCollapsesElapsedTime(t *testing.T) {
	layer := EventLayer{
		{Kind: EventTempo, Row: 0, BPM: 120},
		{Kind: EventWarp, Row: MaxValidDenominator, LengthRows: MaxValidDenominator},
		{Kind: EventLaneTap, Row: 2 * MaxValidDenominator},
	}
	ResolveTimes(layer)
	warpStart := layer[1].TimeSeconds
	if !approxEqual(layer[2].TimeSeconds, warpStart) {
		t.Errorf("expected the event at the warp's end row to land on the same time as the warp's start (%v), got %v",
			warpStart, layer[2].TimeSeconds)
	}
}

func TestResolveTimesNeverGoesBackwards(t *testing.T) {
	layer := EventLayer{
		{Kind: EventTempo, Row: 0, BPM: 120},
		{Kind: EventWarp, Row: MaxValidDenominator, LengthRows: MaxValidDenominator},
		{Kind: EventLaneTap, Row: MaxValidDenominator + 1},
		{Kind: EventLaneTap, Row: 2 * MaxValidDenominator},
	}
	ResolveTimes(layer)
	for i := 1; i < len(layer); i++ {
		if layer[i].TimeSeconds < layer[i-1].TimeSeconds {
			t.Errorf("event %d time %v is before event %d time %v", i, layer[i].TimeSeconds, i-1, layer[i-1].TimeSeconds)
		}
	}
}

func TestResolveTimesTempoChangeMidWarp(t *testing.T) {
	layer := EventLayer{
		{Kind: EventTempo, Row: 0, BPM: 120},
		{Kind: EventWarp, Row: MaxValidDenominator, LengthRows: 2 * MaxValidDenominator},
		{Kind: EventTempo, Row: 2 * MaxValidDenominator, BPM: 240},
		{Kind: EventLaneTap, Row: 3 * MaxValidDenominator},
	}
	ResolveTimes(layer)
	// Monotonic invariant must hold even when a tempo change splits a warp's
	// time contribution mid-flight.
	for i := 1; i < len(layer); i++ {
		if layer[i].TimeSeconds < layer[i-1].TimeSeconds {
			t.Errorf("event %d time %v is before event %d time %v", i, layer[i].TimeSeconds, i-1, layer[i-1].TimeSeconds)
		}
	}
}

func TestSecondsPerRowNonPositiveTempo(t *testing.T) {
	if got := secondsPerRow(0); got != 0 {
		t.Errorf("secondsPerRow(0) = %v, want 0", got)
	}
	if got := secondsPerRow(-10); got != 0 {
		t.Errorf("secondsPerRow(-10) = %v, want 0", got)
	}
}
