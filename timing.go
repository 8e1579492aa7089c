package simfile

import (
	"math"
	"sort"
)

// beatToRow converts a beat-space double into an integer row: split into
// an integer base beat and a fractional remainder, then snap the remainder
// to whichever permitted subdivision fraction is closest.
func beatToRow(beat float64) int {
	base := math.Floor(beat)
	frac := beat - base

	bestRow := 0
	bestDist := math.Inf(1)
	for _, d := range validSubdivisions {
		n := math.Round(frac * float64(d))
		candidate := n / float64(d)
		dist := math.Abs(frac - candidate)
		if dist < bestDist {
			bestDist = dist
			bestRow = int(base)*MaxValidDenominator + int(n)*(MaxValidDenominator/d)
		}
	}
	return bestRow
}

type rowValue[T any] struct {
	Row  int
	Beat float64
	Val  T
}

// roundAndDedup converts a beat-keyed table into row-sorted entries,
// dropping negative rows and resolving same-row collisions by keeping the
// later-beat entry.
func roundAndDedup[T any](table map[float64]T, diag *Diagnostics, component, chart, tag string) []rowValue[T] {
	if len(table) == 0 {
		return nil
	}
	beats := make([]float64, 0, len(table))
	for b := range table {
		beats = append(beats, b)
	}
	sort.Float64s(beats)

	byRow := map[int]rowValue[T]{}
	order := []int{}
	for _, b := range beats {
		row := beatToRow(b)
		if row < 0 {
			continue
		}
		if prev, ok := byRow[row]; ok {
			diag.warnf(component, chart, tag,
				"row %d: beat %.6f superseded by later beat %.6f", row, prev.Beat, b)
		} else {
			order = append(order, row)
		}
		byRow[row] = rowValue[T]{Row: row, Beat: b, Val: table[b]}
	}

	sort.Ints(order)
	out := make([]rowValue[T], 0, len(order))
	for _, r := range order {
		out = append(out, byRow[r])
	}
	return out
}

// buildTimingEvents converts one chart's (or the song's, when the chart
// doesn't own timing) timing tables into a validated EventLayer of
// timing-bearing events. Each table's events are row-sorted, but the
// tables are appended one after another, so the result as a whole is not;
// the caller merges in lane events and sorts.
func buildTimingEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	var events EventLayer

	events = append(events, buildTempoEvents(t, diag, chart)...)
	events = append(events, buildStopEvents(t, diag, chart)...)
	events = append(events, buildWarpEvents(t, diag, chart)...)
	events = append(events, buildTimeSignatureEvents(t, diag, chart)...)
	events = append(events, buildScrollRateEvents(t, diag, chart)...)
	events = append(events, buildScrollInterpEvents(t, diag, chart)...)
	events = append(events, buildTickCountEvents(t, diag, chart)...)
	events = append(events, buildLabelEvents(t, diag, chart)...)
	events = append(events, buildFakeEvents(t, diag, chart)...)
	events = append(events, buildComboEvents(t, diag, chart)...)

	return events
}

func buildTempoEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.BPMs, diag, "timing", chart, "BPMS")
	var out EventLayer

	if len(entries) == 0 {
		diag.warnf("timing", chart, "BPMS", "no tempo present, assuming 60.000000 at row 0")
		return EventLayer{{
			Kind:   EventTempo,
			Row:    0,
			BPM:    60,
			Extras: Extras{}.SetDouble("beat", 0),
		}}
	}

	firstSeen := false
	for i, e := range entries {
		bpm := e.Val
		if !firstSeen {
			firstSeen = true
			if bpm <= 0 {
				// Non-positive first tempo: scan forward for the first positive one.
				substitute := 60.0
				found := false
				for _, later := range entries[i+1:] {
					if later.Val > 0 {
						substitute = later.Val
						found = true
						break
					}
				}
				diag.warnf("timing", chart, "BPMS",
					"first tempo %.6f at row %d is non-positive, substituting %.6f (found later positive = %v)",
					bpm, e.Row, substitute, found)
				bpm = substitute
			}
		} else if bpm <= 0 {
			diag.warnf("timing", chart, "BPMS", "dropping non-positive tempo %.6f at row %d", bpm, e.Row)
			continue
		}

		out = append(out, &Event{
			Kind: EventTempo,
			Row:  e.Row,
			BPM:  bpm,
			Extras: Extras{}.SetDouble("beat", e.Beat),
		})
	}
	return out
}

func buildStopEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	var out EventLayer

	emit := func(table map[float64]float64, tag string, isDelay bool) {
		entries := roundAndDedup(table, diag, "timing", chart, tag)
		for _, e := range entries {
			if isDelay {
				if e.Val < 0 {
					diag.warnf("timing", chart, tag, "dropping negative delay %.6f at row %d", e.Val, e.Row)
					continue
				}
			} else if e.Val == 0 {
				diag.warnf("timing", chart, tag, "dropping zero-length stop at row %d", e.Row)
				continue
			}
			out = append(out, &Event{
				Kind:          EventStop,
				Row:           e.Row,
				LengthSeconds: e.Val,
				IsDelay:       isDelay,
				Extras:        Extras{}.SetDouble("beat", e.Beat),
			})
		}
	}

	// FREEZES is an input alias for STOPS; last-write-wins merge into the
	// same table at parse time (see dispatch.go), so only Stops is walked
	// here. Never emitted under its own name.
	emit(t.Stops, "STOPS", false)
	emit(t.Delays, "DELAYS", true)

	return out
}

func buildWarpEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.Warps, diag, "timing", chart, "WARPS")
	var out EventLayer
	for _, e := range entries {
		if e.Val <= 0 {
			diag.warnf("timing", chart, "WARPS", "dropping non-positive warp length %.6f at row %d", e.Val, e.Row)
			continue
		}
		lengthRows := int(math.Round(e.Val * MaxValidDenominator))
		out = append(out, &Event{
			Kind:       EventWarp,
			Row:        e.Row,
			LengthRows: lengthRows,
			Extras:     Extras{}.SetDouble("beat", e.Beat),
		})
	}
	return out
}

func buildFakeEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.Fakes, diag, "timing", chart, "FAKES")
	var out EventLayer
	for _, e := range entries {
		if e.Val <= 0 {
			diag.warnf("timing", chart, "FAKES", "dropping non-positive fake length %.6f at row %d", e.Val, e.Row)
			continue
		}
		out = append(out, &Event{
			Kind:       EventFakeSegment,
			Row:        e.Row,
			LengthRows: int(math.Round(e.Val * MaxValidDenominator)),
			Extras:     Extras{}.SetDouble("beat", e.Beat),
		})
	}
	return out
}

// buildTimeSignatureEvents applies measure-boundary snapping: a change
// mid-measure is pushed forward to the next measure boundary implied by
// the previous signature's measure length.
func buildTimeSignatureEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.TimeSignatures, diag, "timing", chart, "TIMESIGNATURES")

	type valid struct {
		row, num, den int
	}
	var kept []valid
	for _, e := range entries {
		num, den := e.Val[0], e.Val[1]
		if num < 1 || den < 1 {
			diag.warnf("timing", chart, "TIMESIGNATURES", "dropping invalid signature %d/%d at row %d", num, den, e.Row)
			continue
		}
		if (NumBeatsPerMeasure*MaxValidDenominator)%den != 0 {
			diag.warnf("timing", chart, "TIMESIGNATURES", "denominator %d does not divide %d, dropping signature at row %d", den, NumBeatsPerMeasure*MaxValidDenominator, e.Row)
			continue
		}
		kept = append(kept, valid{e.Row, num, den})
	}

	if len(kept) == 0 || kept[0].row != 0 {
		kept = append([]valid{{0, NumBeatsPerMeasure, 4}}, kept...)
	}

	var out EventLayer
	measureIndex := 0
	measureStartRow := 0
	rowsPerMeasure := 0
	for i, v := range kept {
		if i > 0 {
			// Snap forward to the next measure boundary implied by the
			// previous signature's measure length.
			if rowsPerMeasure > 0 {
				delta := v.row - measureStartRow
				measuresElapsed := (delta + rowsPerMeasure - 1) / rowsPerMeasure
				if measuresElapsed < 1 {
					measuresElapsed = 1
				}
				measureIndex += measuresElapsed
				measureStartRow += measuresElapsed * rowsPerMeasure
			}
		}
		rowsPerMeasure = v.num * ((NumBeatsPerMeasure * MaxValidDenominator) / v.den)
		out = append(out, &Event{
			Kind:         EventTimeSignature,
			Row:          measureStartRow,
			Numerator:    v.num,
			Denominator:  v.den,
			MeasureIndex: measureIndex,
		})
	}
	return out
}

func buildScrollRateEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.ScrollRates, diag, "timing", chart, "SCROLLS")
	var out EventLayer
	for _, e := range entries {
		out = append(out, &Event{
			Kind:   EventScrollRate,
			Row:    e.Row,
			Rate:   e.Val,
			Extras: Extras{}.SetDouble("beat", e.Beat),
		})
	}
	return out
}

func buildScrollInterpEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.ScrollInterp, diag, "timing", chart, "SPEEDS")
	var out EventLayer
	for _, e := range entries {
		ev := &Event{
			Kind:          EventScrollRateInterp,
			Row:           e.Row,
			Rate:          e.Val.Speed,
			PreferSeconds: e.Val.PreferSeconds,
			Extras:        Extras{}.SetDouble("beat", e.Beat),
		}
		if e.Val.PreferSeconds {
			ev.PeriodSeconds = e.Val.Length
		} else {
			ev.PeriodRows = int(math.Round(e.Val.Length * MaxValidDenominator))
		}
		out = append(out, ev)
	}
	return out
}

func buildTickCountEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.TickCounts, diag, "timing", chart, "TICKCOUNTS")
	var out EventLayer
	for _, e := range entries {
		out = append(out, &Event{
			Kind:   EventTickCount,
			Row:    e.Row,
			TickN:  e.Val,
			Extras: Extras{}.SetDouble("beat", e.Beat),
		})
	}
	return out
}

func buildLabelEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.Labels, diag, "timing", chart, "LABELS")
	var out EventLayer
	for _, e := range entries {
		out = append(out, &Event{
			Kind:   EventLabel,
			Row:    e.Row,
			Text:   e.Val,
			Extras: Extras{}.SetDouble("beat", e.Beat),
		})
	}
	return out
}

func buildComboEvents(t *timingTables, diag *Diagnostics, chart string) EventLayer {
	entries := roundAndDedup(t.Combos, diag, "timing", chart, "COMBOS")
	var out EventLayer
	for _, e := range entries {
		out = append(out, &Event{
			Kind:     EventMultipliers,
			Row:      e.Row,
			HitMult:  e.Val[0],
			MissMult: e.Val[1],
			Extras:   Extras{}.SetDouble("beat", e.Beat),
		})
	}
	return out
}
