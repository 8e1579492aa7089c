package simfile

import "testing"

func TestEventBucketOrdering(t *testing.T) {
	cases := []struct {
		name string
		e    *Event
		want int
	}{
		{"time signature", &Event{Kind: EventTimeSignature}, 1},
		{"tempo", &Event{Kind: EventTempo}, 2},
		{"tick count", &Event{Kind: EventTickCount}, 3},
		{"fake segment", &Event{Kind: EventFakeSegment}, 4},
		{"multipliers", &Event{Kind: EventMultipliers}, 5},
		{"label", &Event{Kind: EventLabel}, 6},
		{"attack", &Event{Kind: EventAttack}, 7},
		{"delay", &Event{Kind: EventStop, IsDelay: true}, 8},
		{"lane tap", &Event{Kind: EventLaneTap, TapVariant: NoteTap}, 9},
		{"hold start", &Event{Kind: EventLaneHoldStart}, 10},
		{"hold end", &Event{Kind: EventLaneHoldEnd}, 11},
		{"mine", &Event{Kind: EventLaneTap, TapVariant: NoteMine}, 12},
		{"lift", &Event{Kind: EventLaneTap, TapVariant: NoteLift}, 12},
		{"fake", &Event{Kind: EventLaneTap, TapVariant: NoteFake}, 12},
		{"keysound", &Event{Kind: EventLaneTap, TapVariant: NoteKeySound}, 12},
		{"scroll rate", &Event{Kind: EventScrollRate}, 13},
		{"scroll interp", &Event{Kind: EventScrollRateInterp}, 14},
		{"positive stop", &Event{Kind: EventStop, LengthSeconds: 1}, 15},
		{"negative stop", &Event{Kind: EventStop, LengthSeconds: -1}, 16},
		{"warp", &Event{Kind: EventWarp}, 17},
	}
	for _, c := range cases {
		if got := eventBucket(c.e); got != c.want {
			t.Errorf("%s: eventBucket() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestCompareRowTakesPrecedence(t *testing.T) {
	a := &Event{Kind: EventWarp, Row: 0}
	b := &Event{Kind: EventTimeSignature, Row: 1}
	if Compare(a, b) >= 0 {
		t.Error("expected a (earlier row) to sort before b regardless of bucket")
	}
}

func TestCompareLaneBeforeBucket(t *testing.T) {
	a := &Event{Kind: EventLaneTap, Row: 0, Lane: 0}
	b := &Event{Kind: EventLaneTap, Row: 0, Lane: 1}
	if Compare(a, b) >= 0 {
		t.Error("expected lane 0 to sort before lane 1 at the same row")
	}
}

func TestCompareBucketOrdersNonLaneEvents(t *testing.T) {
	tempo := &Event{Kind: EventTempo, Row: 0}
	warp := &Event{Kind: EventWarp, Row: 0}
	if Compare(tempo, warp) >= 0 {
		t.Error("expected tempo to sort before warp at the same row")
	}
}

func TestCompareTiesOnPlayer(t *testing.T) {
	a := &Event{Kind: EventTempo, Row: 0, Player: 0}
	b := &Event{Kind: EventTempo, Row: 0, Player: 1}
	if Compare(a, b) >= 0 {
		t.Error("expected player 0 to sort before player 1 on a full tie")
	}
	if Compare(a, a) != 0 {
		t.Error("expected an event to compare equal to itself")
	}
}

func TestSortEventsStable(t *testing.T) {
	layer := EventLayer{
		{Kind: EventWarp, Row: 0},
		{Kind: EventTempo, Row: 0},
		{Kind: EventLaneTap, Row: 0, Lane: 1},
		{Kind: EventLaneTap, Row: 0, Lane: 0},
	}
	SortEvents(layer)
	// Lane events sort by lane first, ahead of non-lane buckets only when
	// rows tie and both are lane events; non-lane events order amongst
	// themselves by bucket.
	if layer[0].Kind != EventTempo {
		t.Errorf("expected tempo first among non-lane events, got %+v", layer[0])
	}
	if layer[len(layer)-1].Kind != EventWarp {
		t.Errorf("expected warp last (highest bucket), got %+v", layer[len(layer)-1])
	}
}
