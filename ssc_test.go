package simfile

import (
	"strings"
	"testing"

	clone "github.com/huandu/go-clone/generic"
)

const testSSCFixture = `#TITLE:Test Song;
#ARTIST:Someone;
#OFFSET:0.000000;
#BPMS:0.000=120.000;

#NOTEDATA:;
#STEPSTYPE:dance-single;
#DIFFICULTY:Hard;
#METER:7;
#NOTES:
1000
0100
0010
0001
;

#NOTEDATA:;
#STEPSTYPE:dance-single;
#DIFFICULTY:Easy;
#METER:3;
#BPMS:0.000=90.000;
#NOTES:
1000
;
`

func TestParseSSCChartScoping(t *testing.T) {
	song := ParseSSC(testSSCFixture)
	if len(song.Charts) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(song.Charts))
	}

	hard, easy := song.Charts[0], song.Charts[1]
	if hard.Difficulty != DifficultyHard || hard.Meter != 7 {
		t.Errorf("got %+v", hard)
	}
	if easy.Difficulty != DifficultyEasy || easy.Meter != 3 {
		t.Errorf("got %+v", easy)
	}

	if hard.OwnsTiming {
		t.Error("hard chart has no timing tags of its own, should inherit song timing")
	}
	if !easy.OwnsTiming {
		t.Error("easy chart declares its own BPMS, should own timing")
	}

	var hardTempo, easyTempo *Event
	for _, e := range hard.Events {
		if e.Kind == EventTempo {
			hardTempo = e
		}
	}
	for _, e := range easy.Events {
		if e.Kind == EventTempo {
			easyTempo = e
		}
	}
	if hardTempo == nil || hardTempo.BPM != 120 {
		t.Errorf("expected hard chart to inherit song BPM 120, got %+v", hardTempo)
	}
	if easyTempo == nil || easyTempo.BPM != 90 {
		t.Errorf("expected easy chart's own BPM 90, got %+v", easyTempo)
	}
}

func TestEmitSSCWritesChartScopeTiming(t *testing.T) {
	song := ParseSSC(testSSCFixture)
	cloned := clone.Clone(*song)

	text, err := EmitSSC(&cloned, EmitOptions{
		Properties:     StepmaniaNative,
		MeasureSpacing: PreserveSubdivisionDenominators,
	})
	if err != nil {
		t.Fatalf("EmitSSC: %v", err)
	}

	if strings.Count(text, "#NOTEDATA:;") != 2 {
		t.Errorf("expected 2 NOTEDATA blocks, got:\n%s", text)
	}
	if !strings.Contains(text, "#BPMS:0.000000=90.000000") {
		t.Errorf("expected the easy chart's own BPMS tag to be emitted, got:\n%s", text)
	}

	reparsed := ParseSSC(text)
	if len(reparsed.Charts) != 2 {
		t.Fatalf("round-trip chart count mismatch: got %d", len(reparsed.Charts))
	}
	if !reparsed.Charts[1].OwnsTiming {
		t.Error("round-tripped easy chart should still own its timing")
	}
}
