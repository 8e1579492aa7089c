// Package simfile parses and re-derives timing for StepMania-family chart
// files (the legacy song-level .sm format and the newer per-chart .ssc
// format) and re-emits either format with minimal round-trip drift.
package simfile

// Row arithmetic constants, fixed by the on-disk formats.
const (
	MaxValidDenominator = 48
	NumBeatsPerMeasure  = 4
	RowsPerMeasure      = NumBeatsPerMeasure * MaxValidDenominator // 192
)

// validSubdivisions are the beat-subdivision denominators a note-grid line
// count may represent exactly. 24 is mathematically valid but not
// representable on its own; decoders promote it to 48.
var validSubdivisions = []int{1, 2, 3, 4, 6, 8, 12, 16, 48}

// Difficulty is the closed set of difficulty names a Chart may carry.
type Difficulty string

const (
	DifficultyBeginner  Difficulty = "Beginner"
	DifficultyEasy      Difficulty = "Easy"
	DifficultyMedium    Difficulty = "Medium"
	DifficultyHard      Difficulty = "Hard"
	DifficultyChallenge Difficulty = "Challenge"
	DifficultyEdit      Difficulty = "Edit"
)

// stepsTypeInfo records the derived properties of a steps type, looked up
// from a static table.
type stepsTypeInfo struct {
	NumPlayers int
	NumInputs  int
}

// stepsTypeProperties is the closed enumeration of supported steps types.
// Unknown steps types cause a chart to be discarded.
var stepsTypeProperties = map[string]stepsTypeInfo{
	"dance-single":   {1, 4},
	"dance-double":   {1, 8},
	"dance-couple":   {2, 8},
	"dance-solo":     {1, 6},
	"dance-threepanel": {1, 3},
	"dance-routine":  {2, 8},
	"pump-single":    {1, 5},
	"pump-double":    {1, 10},
	"pump-couple":    {2, 10},
	"pump-routine":   {2, 10},
	"pump-halfdouble": {1, 6},
	"ez2-single":     {1, 5},
	"ez2-double":     {1, 10},
	"ez2-real":       {1, 7},
	"para-single":    {1, 5},
	"techno-single4": {1, 4},
	"techno-single5": {1, 5},
	"techno-single8": {1, 8},
	"techno-double4": {1, 8},
	"techno-double5": {1, 10},
	"techno-double8": {1, 16},
	"kb7-single":     {1, 7},
	"beat-single5":   {1, 5},
	"beat-versus5":   {2, 5},
	"beat-double7":   {1, 14},
	"maniax-single":  {1, 4},
	"maniax-double":  {1, 8},
}

// LookupStepsType returns the derived player/input counts for a steps
// type. ok is false for unrecognized steps types.
func LookupStepsType(stepsType string) (info stepsTypeInfo, ok bool) {
	info, ok = stepsTypeProperties[stepsType]
	return
}

// Song is the root parsed document: metadata shared by every Chart, the
// ordered Charts themselves, and a side-channel Extras bag preserving every
// unrecognized or raw-text tag verbatim.
type Song struct {
	Title          string
	Subtitle       string
	Artist         string
	TitleTranslit  string
	SubtitleTransl string
	ArtistTransl   string
	Genre          string
	Banner         string
	Background     string
	MusicFile      string
	SampleStart    float64
	SampleLength   float64
	Offset         float64
	DisplayBPM     []string // raw param list; never interpreted

	Charts []*Chart

	Extras    Extras
	RawFields map[string]string

	// rawScalars holds the verbatim param string of every known scalar tag
	// that was present in the source, keyed by tag name, so emission can
	// tell "present but zero/empty" apart from "absent" and reproduce the
	// original text under MatchSource.
	rawScalars map[string]string

	Diagnostics Diagnostics
}

// Metadata returns the non-empty string metadata fields of the Song, for
// higher-level tooling layered on top of this model (e.g. pack browsers).
func (s *Song) Metadata() map[string]string {
	m := make(map[string]string)
	add := func(key, val string) {
		if val != "" {
			m[key] = val
		}
	}
	add("title", s.Title)
	add("subtitle", s.Subtitle)
	add("artist", s.Artist)
	add("genre", s.Genre)
	add("banner", s.Banner)
	add("background", s.Background)
	add("music", s.MusicFile)
	return m
}

// Chart is a single playable steps sequence within a Song.
type Chart struct {
	StepsType      string
	Difficulty     Difficulty
	Meter          int
	Description    string
	ChartName      string
	Credit         string
	Author         string
	RadarValues    []float64
	MusicFile      string // overrides Song.MusicFile when non-empty
	ChartOffset    float64
	DisplayTempo   string

	NumPlayers int
	NumInputs  int

	OwnsTiming bool // true when the chart brought its own timing tags

	Events EventLayer

	Extras    Extras
	RawFields map[string]string

	// rawScalars mirrors Song.rawScalars: verbatim param string of every
	// known chart-scope scalar tag present in the source, keyed by tag.
	rawScalars map[string]string
}

// EventLayer is an ordered sequence of Events under the canonical order
// defined by Compare (order.go).
type EventLayer []*Event

// EventKind is the closed set of event variants a chart can contain.
type EventKind int

const (
	EventTempo EventKind = iota
	EventStop
	EventWarp
	EventTimeSignature
	EventScrollRate
	EventScrollRateInterp
	EventTickCount
	EventLabel
	EventFakeSegment
	EventMultipliers
	EventAttack
	EventLaneTap
	EventLaneHoldStart
	EventLaneHoldEnd
)

// LaneNoteVariant distinguishes the sub-kinds of a LaneTap event.
type LaneNoteVariant int

const (
	NoteTap LaneNoteVariant = iota
	NoteLift
	NoteFake
	NoteKeySound
	NoteMine
)

// HoldKind distinguishes a LaneHoldStart's behavior.
type HoldKind int

const (
	HoldNormal HoldKind = iota
	HoldRoll
)

// Modifier is a single named attack modifier (e.g. "*2 drunk").
type Modifier struct {
	Name string
}

// Event is a tagged union over every chart event variant. Only the fields
// relevant to Kind are meaningful; common header fields are followed by
// per-kind payload fields grouped below by the Kind that uses them.
type Event struct {
	Kind EventKind

	Row         int
	TimeSeconds float64

	SourceToken string
	TargetToken string

	Player int
	Lane   int

	// Tempo
	BPM float64

	// Stop / Delay / NegativeStop
	LengthSeconds float64
	IsDelay       bool

	// Warp / FakeSegment
	LengthRows int

	// TimeSignature
	Numerator    int
	Denominator  int
	MeasureIndex int

	// ScrollRate
	Rate float64

	// ScrollRateInterpolation
	PeriodRows    int
	PeriodSeconds float64
	PreferSeconds bool

	// TickCount
	TickN int

	// Label
	Text string

	// Multipliers
	HitMult  int
	MissMult int

	// Attack
	Modifiers []Modifier

	// LaneTap
	TapVariant LaneNoteVariant

	// LaneHoldStart
	HoldKind HoldKind

	Extras Extras
}

// IsLaneEvent reports whether the event occupies a lane (used by the
// canonical comparator, order.go).
func (e *Event) IsLaneEvent() bool {
	switch e.Kind {
	case EventLaneTap, EventLaneHoldStart, EventLaneHoldEnd:
		return true
	}
	return false
}

// IsTimingBearing reports whether e's kind is subject to the
// at-most-one-per-row rule.
func (e *Event) IsTimingBearing() bool {
	switch e.Kind {
	case EventTempo, EventStop, EventWarp, EventTimeSignature, EventScrollRate,
		EventScrollRateInterp, EventTickCount, EventLabel, EventFakeSegment, EventMultipliers:
		return true
	}
	return false
}
