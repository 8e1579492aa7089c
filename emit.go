package simfile

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// PropertiesPolicy controls whether a scalar property is emitted only when
// it existed in the source, or always emitted the way the reference
// application would.
type PropertiesPolicy int

const (
	MatchSource PropertiesPolicy = iota
	StepmaniaNative
)

// MeasureSpacingPolicy controls how the note-grid writer reconstructs
// measure line counts.
type MeasureSpacingPolicy int

const (
	PreserveSubdivisionDenominators MeasureSpacingPolicy = iota
	LCMOfEventSubdivisions
	LCMRoundedUpToEditorSupported
)

// EmitOptions configures an emitter run.
type EmitOptions struct {
	Properties     PropertiesPolicy
	MeasureSpacing MeasureSpacingPolicy
}

// editorSupportedLineCounts are the measure line counts the reference
// editor can represent: 4×d for each permitted beat subdivision d.
func editorSupportedLineCounts() []int {
	out := make([]int, len(validSubdivisions))
	for i, d := range validSubdivisions {
		out[i] = NumBeatsPerMeasure * d
	}
	sort.Ints(out)
	return out
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}

// reducedLineCount returns the smallest measure line count L such that
// round(i*192/L) == r for some integer i, i.e. the reduced denominator of
// r/192.
func reducedLineCount(r int) int {
	if r <= 0 {
		return 1
	}
	g := gcd(r, RowsPerMeasure)
	return RowsPerMeasure / g
}

// promoteLineCount returns the smallest editor-supported line count >= L,
// or -1 if none exists (L > RowsPerMeasure).
func promoteLineCount(l int) int {
	for _, v := range editorSupportedLineCounts() {
		if v >= l {
			return v
		}
	}
	return -1
}

// writeScalar omits tag under MatchSource when it did not exist in the
// source. Otherwise it returns the preserved raw string for tag if there is
// one (under either policy), and formatted if there is not.
func writeScalar(raw map[string]string, tag string, policy PropertiesPolicy, existedInSource bool, formatted string) (string, bool) {
	if policy == MatchSource && !existedInSource {
		return "", false
	}
	if r, ok := raw[tag]; ok {
		return r, true
	}
	return formatted, true
}

// formatTimingTableDouble renders a beat->float64 table as
// "beat=value[,beat=value]*" with 6-decimal fixed point, reading the beat
// back out of each event's Extras.
func formatTimingTableDouble(events EventLayer, kind EventKind, extract func(*Event) float64, filter func(*Event) bool) string {
	var parts []string
	for _, e := range events {
		if e.Kind != kind {
			continue
		}
		if filter != nil && !filter(e) {
			continue
		}
		beat, _ := e.Extras.Double("beat")
		parts = append(parts, fmt.Sprintf("%.6f=%.6f", beat, extract(e)))
	}
	return strings.Join(parts, ",")
}

func formatTimingTableInt(events EventLayer, kind EventKind, extract func(*Event) int64) string {
	var parts []string
	for _, e := range events {
		if e.Kind != kind {
			continue
		}
		beat, _ := e.Extras.Double("beat")
		parts = append(parts, fmt.Sprintf("%.6f=%d", beat, extract(e)))
	}
	return strings.Join(parts, ",")
}

func formatWarps(events EventLayer) string {
	return formatTimingTableDouble(events, EventWarp, func(e *Event) float64 {
		return float64(e.LengthRows) / MaxValidDenominator
	}, nil)
}

func formatFakes(events EventLayer) string {
	return formatTimingTableDouble(events, EventFakeSegment, func(e *Event) float64 {
		return float64(e.LengthRows) / MaxValidDenominator
	}, nil)
}

func formatTickCounts(events EventLayer) string {
	return formatTimingTableInt(events, EventTickCount, func(e *Event) int64 { return int64(e.TickN) })
}

func formatScrollRates(events EventLayer) string {
	return formatTimingTableDouble(events, EventScrollRate, func(e *Event) float64 { return e.Rate }, nil)
}

func formatStops(events EventLayer) string {
	return formatTimingTableDouble(events, EventStop, func(e *Event) float64 { return e.LengthSeconds }, func(e *Event) bool { return !e.IsDelay })
}

func formatDelays(events EventLayer) string {
	return formatTimingTableDouble(events, EventStop, func(e *Event) float64 { return e.LengthSeconds }, func(e *Event) bool { return e.IsDelay })
}

func formatBPMs(events EventLayer) string {
	return formatTimingTableDouble(events, EventTempo, func(e *Event) float64 { return e.BPM }, nil)
}

func formatTimeSignatures(events EventLayer) string {
	var parts []string
	for _, e := range events {
		if e.Kind != EventTimeSignature {
			continue
		}
		beat := float64(e.Row) / MaxValidDenominator
		parts = append(parts, fmt.Sprintf("%.6f=%d=%d", beat, e.Numerator, e.Denominator))
	}
	return strings.Join(parts, ",")
}

func formatLabels(events EventLayer) string {
	var parts []string
	for _, e := range events {
		if e.Kind != EventLabel {
			continue
		}
		beat, _ := e.Extras.Double("beat")
		parts = append(parts, fmt.Sprintf("%.6f=%s", beat, e.Text))
	}
	return strings.Join(parts, ",")
}

func formatCombos(events EventLayer) string {
	var parts []string
	for _, e := range events {
		if e.Kind != EventMultipliers {
			continue
		}
		beat, _ := e.Extras.Double("beat")
		if e.HitMult == e.MissMult {
			parts = append(parts, fmt.Sprintf("%.6f=%d", beat, e.HitMult))
		} else {
			parts = append(parts, fmt.Sprintf("%.6f=%d=%d", beat, e.HitMult, e.MissMult))
		}
	}
	return strings.Join(parts, ",")
}

func formatSpeeds(events EventLayer) string {
	var parts []string
	for _, e := range events {
		if e.Kind != EventScrollRateInterp {
			continue
		}
		beat, _ := e.Extras.Double("beat")
		length := float64(e.PeriodRows) / MaxValidDenominator
		mode := 0
		if e.PreferSeconds {
			mode = 1
			length = e.PeriodSeconds
		}
		parts = append(parts, fmt.Sprintf("%.6f=%.6f=%.6f=%d", beat, e.Rate, length, mode))
	}
	return strings.Join(parts, ",")
}

// noteTokenFor returns the on-disk character for a lane event.
func noteTokenFor(e *Event) byte {
	switch e.Kind {
	case EventLaneTap:
		switch e.TapVariant {
		case NoteMine:
			return 'M'
		case NoteLift:
			return 'L'
		case NoteFake:
			return 'F'
		case NoteKeySound:
			return 'K'
		default:
			return '1'
		}
	case EventLaneHoldStart:
		if e.HoldKind == HoldRoll {
			return '4'
		}
		return '2'
	case EventLaneHoldEnd:
		return '3'
	}
	return '0'
}

// writeNoteGrid reconstructs a measure-separated grid string for one
// player's lane events under the selected spacing policy.
func writeNoteGrid(events EventLayer, numInputs int, player int, spacing MeasureSpacingPolicy) (string, error) {
	laneByRow := map[int]map[int]*Event{}
	maxRow := 0
	for _, e := range events {
		if !e.IsLaneEvent() || e.Player != player {
			continue
		}
		if laneByRow[e.Row] == nil {
			laneByRow[e.Row] = map[int]*Event{}
		}
		laneByRow[e.Row][e.Lane] = e
		if e.Row > maxRow {
			maxRow = e.Row
		}
	}

	numMeasures := maxRow/RowsPerMeasure + 1
	if len(laneByRow) == 0 {
		numMeasures = 1
	}

	var measures []string
	for m := 0; m < numMeasures; m++ {
		lo, hi := m*RowsPerMeasure, (m+1)*RowsPerMeasure
		rowsInMeasure := []int{}
		for r := range laneByRow {
			if r >= lo && r < hi {
				rowsInMeasure = append(rowsInMeasure, r)
			}
		}
		sort.Ints(rowsInMeasure)

		L, err := measureLineCount(events, rowsInMeasure, lo, spacing)
		if err != nil {
			return "", err
		}

		lines := make([]string, L)
		for i := 0; i < L; i++ {
			buf := make([]byte, numInputs)
			for c := range buf {
				buf[c] = '0'
			}
			row := lo + roundDiv(i*RowsPerMeasure, L)
			if byLane, ok := laneByRow[row]; ok {
				for lane, e := range byLane {
					if lane < numInputs {
						buf[lane] = noteTokenFor(e)
					}
				}
			}
			lines[i] = string(buf)
		}
		measures = append(measures, strings.Join(lines, "\n"))
	}

	return strings.Join(measures, ",\n"), nil
}

func measureLineCount(events EventLayer, rows []int, measureStart int, spacing MeasureSpacingPolicy) (int, error) {
	if len(rows) == 0 {
		return 1, nil
	}

	switch spacing {
	case PreserveSubdivisionDenominators:
		best := 0
		for _, r := range rows {
			for _, e := range events {
				if e.Row == r && e.IsLaneEvent() {
					if lc, ok := e.Extras.Int("lineCount"); ok && int(lc) > best {
						best = int(lc)
					}
				}
			}
		}
		if best == 0 {
			best = lcmOfRelativeRows(rows, measureStart)
		}
		return best, nil

	case LCMOfEventSubdivisions:
		return lcmOfRelativeRows(rows, measureStart), nil

	case LCMRoundedUpToEditorSupported:
		l := lcmOfRelativeRows(rows, measureStart)
		p := promoteLineCount(l)
		if p < 0 {
			return 0, fmt.Errorf("measure at row %d requires %d lines, not representable by any editor-supported denominator", measureStart, l)
		}
		return p, nil
	}
	return 4, nil
}

func lcmOfRelativeRows(rows []int, measureStart int) int {
	result := 1
	for _, r := range rows {
		rel := r - measureStart
		result = lcm(result, reducedLineCount(rel))
	}
	if result == 0 {
		result = 1
	}
	return result
}

// timingField is one CSV-valued MSD timing tag ready to write.
type timingField struct {
	Tag   string
	Value string
}

// timingFields derives the full set of timing tags for one scope (song or
// chart), preferring each table's preserved raw string over a value
// recomputed from the resolved EventLayer, skipping tags with nothing to
// say. FREEZES is never reconstructed; merged stops are always written
// back out as STOPS (see DESIGN.md).
func timingFields(events EventLayer, raw *timingTables) []timingField {
	pick := func(tag, rawVal, computed string) timingField {
		if rawVal != "" {
			return timingField{tag, rawVal}
		}
		return timingField{tag, computed}
	}

	var rawBPMs, rawStops, rawDelays, rawWarps, rawTS, rawScrolls, rawSpeeds, rawTicks, rawLabels, rawFakes, rawCombos string
	if raw != nil {
		rawBPMs, rawStops, rawDelays, rawWarps = raw.RawBPMs, raw.RawStops, raw.RawDelays, raw.RawWarps
		rawTS, rawScrolls, rawSpeeds = raw.RawTimeSignatures, raw.RawScrollRates, raw.RawScrollInterp
		rawTicks, rawLabels, rawFakes, rawCombos = raw.RawTickCounts, raw.RawLabels, raw.RawFakes, raw.RawCombos
	}

	fields := []timingField{
		pick("BPMS", rawBPMs, formatBPMs(events)),
		pick("STOPS", rawStops, formatStops(events)),
		pick("DELAYS", rawDelays, formatDelays(events)),
		pick("WARPS", rawWarps, formatWarps(events)),
		pick("TIMESIGNATURES", rawTS, formatTimeSignatures(events)),
		pick("SCROLLS", rawScrolls, formatScrollRates(events)),
		pick("SPEEDS", rawSpeeds, formatSpeeds(events)),
		pick("TICKCOUNTS", rawTicks, formatTickCounts(events)),
		pick("LABELS", rawLabels, formatLabels(events)),
		pick("FAKES", rawFakes, formatFakes(events)),
		pick("COMBOS", rawCombos, formatCombos(events)),
	}

	out := fields[:0:0]
	for _, f := range fields {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}

// findSongTiming locates the events to source song-scope timing tags from:
// the first chart that did not bring its own timing.
func findSongTiming(song *Song) EventLayer {
	for _, c := range song.Charts {
		if !c.OwnsTiming {
			return c.Events
		}
	}
	return nil
}

func formatFixed(f float64) string {
	if math.IsNaN(f) {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}
