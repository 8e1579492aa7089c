package simfile

import (
	"math"
	"strconv"
	"strings"
)

// parseAttackParams decodes an ATTACKS tag's params into attackEntry
// values. Each attack is a run of TIME=/LEN=/MODS= sub-fields; a TIME=
// starts a new entry. Duration (LEN=) is not modeled: the Attack event
// carries only a start time and modifier list.
func parseAttackParams(params []string) []attackEntry {
	var out []attackEntry
	var cur *attackEntry

	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, raw := range params {
		p := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(p, "TIME="):
			flush()
			t, _ := strconv.ParseFloat(strings.TrimPrefix(p, "TIME="), 64)
			cur = &attackEntry{SongTimeSeconds: t}
		case strings.HasPrefix(p, "MODS="):
			if cur == nil {
				continue
			}
			for _, m := range strings.Split(strings.TrimPrefix(p, "MODS="), ",") {
				m = strings.TrimSpace(m)
				if m != "" {
					cur.Modifiers = append(cur.Modifiers, Modifier{Name: m})
				}
			}
		// LEN= intentionally ignored.
		default:
		}
	}
	flush()
	return out
}

// applyAttacks runs after a chart's EventLayer has been canonically sorted
// and resolved (ResolveTimes has already run): it walks the attack list and
// places each one at the row implied by integrating forward from the
// nearest preceding tempo checkpoint, flooring to an integer row (clamped
// at 0) and reclamping its time to that row. Coincident attacks
// (same resulting row) merge their modifier lists; the caller must re-sort
// the layer afterward.
func applyAttacks(events EventLayer, attacks []attackEntry, offsetSeconds float64, diag *Diagnostics, chart string) EventLayer {
	if len(attacks) == 0 {
		return events
	}

	var (
		haveTempo       bool
		lastTempo       float64
		lastTempoRow    int
		lastTempoFinalT float64
		idx             int
	)

	type placed struct {
		row int
		ev  *Event
	}
	var inserts []placed

	for _, a := range attacks {
		target := a.SongTimeSeconds + offsetSeconds

		for idx < len(events) && events[idx].TimeSeconds <= target {
			if events[idx].Kind == EventTempo {
				haveTempo = true
				lastTempo = events[idx].BPM
				lastTempoRow = events[idx].Row
				lastTempoFinalT = events[idx].TimeSeconds
			}
			idx++
		}

		row := 0
		clampedT := 0.0
		if haveTempo && lastTempo > 0 {
			spr := secondsPerRow(lastTempo)
			row = int(math.Floor(float64(lastTempoRow) + (target-lastTempoFinalT)/spr))
			if row < 0 {
				row = 0
			}
			clampedT = lastTempoFinalT + float64(row-lastTempoRow)*spr
		}

		inserts = append(inserts, placed{row, &Event{
			Kind:        EventAttack,
			Row:         row,
			TimeSeconds: clampedT,
			Modifiers:   a.Modifiers,
		}})
	}

	merged := map[int]*Event{}
	var order []int
	for _, ins := range inserts {
		if existing, ok := merged[ins.row]; ok {
			existing.Modifiers = append(existing.Modifiers, ins.ev.Modifiers...)
			diag.warnf("timing", chart, "ATTACKS", "merging coincident attack at row %d", ins.row)
			continue
		}
		merged[ins.row] = ins.ev
		order = append(order, ins.row)
	}

	for _, r := range order {
		events = append(events, merged[r])
	}
	return events
}

// formatAttacks renders an EventLayer's Attack events back into ATTACKS
// sub-field params. The duration is not tracked, so LEN=0.000000 is written
// for compatibility with readers that require the field to be present.
func formatAttacks(events EventLayer, offsetSeconds float64) []string {
	var out []string
	for _, e := range events {
		if e.Kind != EventAttack {
			continue
		}
		out = append(out, "TIME="+formatFixed(e.TimeSeconds-offsetSeconds))
		out = append(out, "LEN=0.000000")
		var names []string
		for _, m := range e.Modifiers {
			names = append(names, m.Name)
		}
		out = append(out, "MODS="+strings.Join(names, ","))
	}
	return out
}
