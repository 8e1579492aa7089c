package simfile

import "testing"

func TestDecodeNoteGridBasic(t *testing.T) {
	grid := "1000\n0100\n0010\n0001"
	layer, err := decodeNoteGrid(grid, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(layer) != 4 {
		t.Fatalf("expected 4 taps, got %d: %+v", len(layer), layer)
	}
	for i, e := range layer {
		if e.Kind != EventLaneTap || e.TapVariant != NoteTap {
			t.Errorf("event %d: expected tap, got %+v", i, e)
		}
		if e.Lane != i {
			t.Errorf("event %d: expected lane %d, got %d", i, i, e.Lane)
		}
	}
	if layer[0].Row != 0 || layer[1].Row != 48 || layer[2].Row != 96 || layer[3].Row != 144 {
		t.Errorf("unexpected rows: %d %d %d %d", layer[0].Row, layer[1].Row, layer[2].Row, layer[3].Row)
	}
}

func TestDecodeNoteGridHoldRoundTrip(t *testing.T) {
	grid := "2000\n0000\n3000"
	layer, err := decodeNoteGrid(grid, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(layer) != 2 {
		t.Fatalf("expected start+end, got %d: %+v", len(layer), layer)
	}
	if layer[0].Kind != EventLaneHoldStart || layer[0].HoldKind != HoldNormal {
		t.Errorf("got %+v", layer[0])
	}
	if layer[1].Kind != EventLaneHoldEnd {
		t.Errorf("got %+v", layer[1])
	}
}

func TestDecodeNoteGridIncompleteHoldFails(t *testing.T) {
	grid := "2000\n0000"
	if _, err := decodeNoteGrid(grid, 4); err == nil {
		t.Fatal("expected incomplete-hold error")
	}
}

func TestDecodeNoteGridTapDuringHoldFails(t *testing.T) {
	grid := "2000\n1000\n3000"
	if _, err := decodeNoteGrid(grid, 4); err == nil {
		t.Fatal("expected tap-during-hold error")
	}
}

func TestDecodeNoteGridOrphanReleaseFails(t *testing.T) {
	grid := "0000\n3000"
	if _, err := decodeNoteGrid(grid, 4); err == nil {
		t.Fatal("expected orphan-release error")
	}
}

func TestDecodeNoteGridKeysoundIndex(t *testing.T) {
	grid := "1[3]000"
	layer, err := decodeNoteGrid(grid, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(layer) != 1 {
		t.Fatalf("got %+v", layer)
	}
	ks, ok := layer[0].Extras.Int("keysound")
	if !ok || ks != 3 {
		t.Errorf("expected keysound=3, got %v ok=%v", ks, ok)
	}
}

func TestDecodeNoteGridStripsAnnotations(t *testing.T) {
	grid := "1{foo}000"
	layer, err := decodeNoteGrid(grid, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(layer) != 1 || layer[0].Lane != 0 {
		t.Fatalf("got %+v", layer)
	}
}

func TestDecodeNoteGridPlayerSplit(t *testing.T) {
	grid := "1000&0001"
	layer, err := decodeNoteGrid(grid, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(layer) != 2 {
		t.Fatalf("got %+v", layer)
	}
	if layer[0].Player != 0 || layer[1].Player != 1 {
		t.Errorf("expected player 0 and 1, got %d and %d", layer[0].Player, layer[1].Player)
	}
}

func TestRoundDiv(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{0, 4, 0},
		{1, 4, 48},
		{2, 4, 96},
		{3, 4, 144},
		{1, 3, 64},
		{2, 3, 128},
	}
	for _, c := range cases {
		if got := roundDiv(c.a*RowsPerMeasure, c.b); got != c.want {
			t.Errorf("roundDiv(%d*192, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
