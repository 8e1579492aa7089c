package simfile

// timingTables accumulates the raw, beat-keyed timing data parsed from a
// song's or chart's MSD tags before it is turned into rows and Events.
// Each table also keeps its original raw string. These tables are not
// stored on the Song or Chart, so the emitters never see the raw strings:
// emitted timing tags are always recomputed from the resolved EventLayer.
type timingTables struct {
	BPMs    map[float64]float64
	RawBPMs string

	Stops    map[float64]float64
	RawStops string

	Delays    map[float64]float64
	RawDelays string

	Warps    map[float64]float64
	RawWarps string

	TimeSignatures    map[float64][2]int
	RawTimeSignatures string

	ScrollRates    map[float64]float64
	RawScrollRates string

	ScrollInterp    map[float64]scrollInterpEntry
	RawScrollInterp string

	TickCounts    map[float64]int
	RawTickCounts string

	Labels    map[float64]string
	RawLabels string

	Fakes    map[float64]float64
	RawFakes string

	Combos    map[float64][2]int
	RawCombos string

	Attacks    []attackEntry
	RawAttacks string
}

type scrollInterpEntry struct {
	Speed         float64
	Length        float64
	PreferSeconds bool
}

type attackEntry struct {
	SongTimeSeconds float64
	Modifiers       []Modifier
}

func newTimingTables() *timingTables {
	return &timingTables{
		BPMs:           map[float64]float64{},
		Stops:          map[float64]float64{},
		Delays:         map[float64]float64{},
		Warps:          map[float64]float64{},
		TimeSignatures: map[float64][2]int{},
		ScrollRates:    map[float64]float64{},
		ScrollInterp:   map[float64]scrollInterpEntry{},
		TickCounts:     map[float64]int{},
		Labels:         map[float64]string{},
		Fakes:          map[float64]float64{},
		Combos:         map[float64][2]int{},
	}
}

// timingOwningTags is the set of tags whose presence in a chart's scope
// marks that chart as owning its own timing.
var timingOwningTags = map[string]bool{
	"BPMS": true, "STOPS": true, "FREEZES": true, "DELAYS": true,
	"TIMESIGNATURES": true, "TICKCOUNTS": true, "COMBOS": true,
	"WARPS": true, "SPEEDS": true, "SCROLLS": true, "FAKES": true,
	"LABELS": true, "OFFSET": true, "ATTACKS": true,
}
