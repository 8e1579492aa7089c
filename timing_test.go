package simfile

import "testing"

func TestBeatToRowSubdivisions(t *testing.T) {
	cases := []struct {
		beat float64
		want int
	}{
		{0, 0},
		{1, MaxValidDenominator},
		{0.5, MaxValidDenominator / 2},
		{0.25, MaxValidDenominator / 4},
		{0.125, MaxValidDenominator / 8},
		{1.0 / 3.0, MaxValidDenominator / 3},
		{2.0 / 3.0, 2 * MaxValidDenominator / 3},
	}
	for _, c := range cases {
		if got := beatToRow(c.beat); got != c.want {
			t.Errorf("beatToRow(%v) = %d, want %d", c.beat, got, c.want)
		}
	}
}

func TestBuildTempoEventsSubstitutesNonPositiveFirst(t *testing.T) {
	tt := newTimingTables()
	tt.BPMs[0] = 0
	tt.BPMs[4] = 150
	var diag Diagnostics
	events := buildTempoEvents(tt, &diag, "chart")
	if len(events) != 2 {
		t.Fatalf("expected 2 tempo events, got %d: %+v", len(events), events)
	}
	if events[0].BPM != 150 {
		t.Errorf("expected substituted first tempo 150, got %v", events[0].BPM)
	}
	if len(diag) == 0 {
		t.Error("expected a diagnostic for the substitution")
	}
}

func TestBuildTempoEventsDropsLaterNonPositive(t *testing.T) {
	tt := newTimingTables()
	tt.BPMs[0] = 120
	tt.BPMs[4] = -5
	var diag Diagnostics
	events := buildTempoEvents(tt, &diag, "chart")
	if len(events) != 1 {
		t.Fatalf("expected non-positive later tempo dropped, got %+v", events)
	}
}

func TestBuildStopEventsDropsZeroAndNegativeDelay(t *testing.T) {
	tt := newTimingTables()
	tt.Stops[0] = 0
	tt.Stops[4] = 0.5
	tt.Delays[2] = -1
	tt.Delays[6] = 0.25
	var diag Diagnostics
	events := buildStopEvents(tt, &diag, "chart")
	if len(events) != 2 {
		t.Fatalf("expected zero-stop and negative-delay dropped, got %d: %+v", len(events), events)
	}
}

func TestBuildWarpEventsDropsNonPositive(t *testing.T) {
	tt := newTimingTables()
	tt.Warps[0] = 0
	tt.Warps[4] = -1
	tt.Warps[8] = 2
	var diag Diagnostics
	events := buildWarpEvents(tt, &diag, "chart")
	if len(events) != 1 {
		t.Fatalf("expected only the positive warp kept, got %+v", events)
	}
	if events[0].LengthRows != 2*MaxValidDenominator {
		t.Errorf("got LengthRows=%d", events[0].LengthRows)
	}
}

func TestBuildFakeEventsDropsNonPositive(t *testing.T) {
	tt := newTimingTables()
	tt.Fakes[0] = -2
	tt.Fakes[4] = 1
	var diag Diagnostics
	events := buildFakeEvents(tt, &diag, "chart")
	if len(events) != 1 {
		t.Fatalf("expected only positive fake kept, got %+v", events)
	}
}

func TestBuildTimeSignatureEventsDefaultsAndSnaps(t *testing.T) {
	tt := newTimingTables()
	tt.TimeSignatures[0] = [2]int{4, 4}
	tt.TimeSignatures[3] = [2]int{3, 4} // mid-measure, should snap to next boundary
	var diag Diagnostics
	events := buildTimeSignatureEvents(tt, &diag, "chart")
	if len(events) != 2 {
		t.Fatalf("expected 2 signatures, got %d: %+v", len(events), events)
	}
	if events[0].Row != 0 || events[0].MeasureIndex != 0 {
		t.Errorf("expected first signature at row 0 measure 0, got %+v", events[0])
	}
	if events[1].Row != RowsPerMeasure {
		t.Errorf("expected snapped row %d, got %d", RowsPerMeasure, events[1].Row)
	}
	if events[1].MeasureIndex != 1 {
		t.Errorf("expected measure index 1, got %d", events[1].MeasureIndex)
	}
}

func TestBuildTimeSignatureEventsInsertsImplicitDefault(t *testing.T) {
	tt := newTimingTables()
	tt.TimeSignatures[4] = [2]int{3, 4}
	var diag Diagnostics
	events := buildTimeSignatureEvents(tt, &diag, "chart")
	if len(events) != 2 {
		t.Fatalf("expected implicit 4/4 default plus explicit signature, got %+v", events)
	}
	if events[0].Row != 0 || events[0].Numerator != 4 || events[0].Denominator != 4 {
		t.Errorf("expected implicit 4/4 at row 0, got %+v", events[0])
	}
}

func TestBuildTimeSignatureEventsDropsInvalid(t *testing.T) {
	tt := newTimingTables()
	tt.TimeSignatures[0] = [2]int{4, 4}
	tt.TimeSignatures[4] = [2]int{1, 5} // 5 does not divide 192
	var diag Diagnostics
	events := buildTimeSignatureEvents(tt, &diag, "chart")
	if len(events) != 1 {
		t.Fatalf("expected invalid signature dropped, got %+v", events)
	}
}

func TestRoundAndDedupKeepsLaterBeatOnCollision(t *testing.T) {
	table := map[float64]float64{0: 100, 0.001: 200}
	var diag Diagnostics
	entries := roundAndDedup(table, &diag, "timing", "chart", "BPMS")
	if len(entries) != 1 {
		t.Fatalf("expected collision collapsed to 1 entry, got %+v", entries)
	}
	if entries[0].Val != 200 {
		t.Errorf("expected later beat's value 200 to win, got %v", entries[0].Val)
	}
	if len(diag) == 0 {
		t.Error("expected a diagnostic for the collision")
	}
}

func TestRoundAndDedupDropsNegativeRows(t *testing.T) {
	table := map[float64]float64{-1: 999, 0: 120}
	var diag Diagnostics
	entries := roundAndDedup(table, &diag, "timing", "chart", "BPMS")
	if len(entries) != 1 || entries[0].Row != 0 {
		t.Fatalf("expected negative-row entry dropped, got %+v", entries)
	}
}
