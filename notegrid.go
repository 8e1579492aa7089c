package simfile

import (
	"fmt"
	"strconv"
	"strings"
)

// laneState tracks per-lane hold/roll state while decoding a measure grid.
type laneState int

const (
	laneFree laneState = iota
	laneHeld
	laneRolling
)

// noteGridError reports an invalid hold transition: a tap during a hold,
// an orphan release, or an incomplete hold at grid end. Any occurrence
// marks the whole chart invalid (discarded by the caller).
type noteGridError struct {
	lane int
	msg  string
}

func (e *noteGridError) Error() string { return fmt.Sprintf("lane %d: %s", e.lane, e.msg) }

// decodeNoteGrid turns a chart's raw measure-grid string into an
// EventLayer of lane events, honoring per-player segments ('&'), measures
// (','), lines ('\n'), keysound indices ([n]), and deprecated inline
// {...}/<...> annotations (discarded).
func decodeNoteGrid(raw string, numInputs int) (EventLayer, error) {
	raw = strings.TrimSpace(raw)

	segments := strings.Split(raw, "&")
	var out EventLayer

	for player, seg := range segments {
		layer, err := decodePlayerGrid(seg, numInputs, player)
		if err != nil {
			return nil, err
		}
		out = append(out, layer...)
	}

	return out, nil
}

func decodePlayerGrid(seg string, numInputs, player int) (EventLayer, error) {
	var out EventLayer

	states := make([]laneState, numInputs)

	measures := strings.Split(seg, ",")
	for m, measure := range measures {
		var lines []string
		for _, ln := range strings.Split(measure, "\n") {
			ln = strings.TrimRight(ln, "\r")
			if strings.TrimSpace(ln) == "" {
				continue
			}
			lines = append(lines, ln)
		}
		L := len(lines)
		if L == 0 {
			continue
		}

		for i, line := range lines {
			row := m*RowsPerMeasure + roundDiv(i*RowsPerMeasure, L)
			evs, err := decodeGridLine(line, numInputs, row, player, i, L, states)
			if err != nil {
				return nil, err
			}
			out = append(out, evs...)
		}
	}

	for lane, st := range states {
		if st != laneFree {
			return nil, &noteGridError{lane: lane, msg: "incomplete hold at end of grid"}
		}
	}

	return out, nil
}

// roundDiv computes round(a/b) for non-negative a, b using integer-safe
// rounding.
func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a*2 + b) / (2 * b)
}

// stripAnnotations removes deprecated inline {...} and <...> annotations
// from a grid line.
func stripAnnotations(line string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range line {
		switch r {
		case '{', '<':
			depth++
		case '}', '>':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

func decodeGridLine(line string, numInputs, row, player, lineIdx, lineCount int, states []laneState) (EventLayer, error) {
	line = stripAnnotations(line)
	runes := []rune(line)

	var out EventLayer

	lane := 0
	for c := 0; c < len(runes) && lane < numInputs; c++ {
		ch := runes[c]

		var keysound int
		hasKeysound := false
		if c+1 < len(runes) && runes[c+1] == '[' {
			end := c + 2
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end < len(runes) {
				if n, err := strconv.Atoi(string(runes[c+2:end])); err == nil {
					keysound = n
					hasKeysound = true
				}
				c = end // resume after ']' on next loop iteration (post-increment)
			}
		}

		ev, err := decodeGridChar(ch, lane, player, row, &states[lane])
		if err != nil {
			return nil, err
		}
		if ev != nil {
			ev.SourceToken = string(ch)
			ev.Extras = ev.Extras.SetInt("lineIndex", int64(lineIdx)).SetInt("lineCount", int64(lineCount))
			if hasKeysound {
				ev.Extras = ev.Extras.SetInt("keysound", int64(keysound))
			}
			out = append(out, ev)
		}
		lane++
	}

	return out, nil
}

func decodeGridChar(ch rune, lane, player, row int, state *laneState) (*Event, error) {
	switch ch {
	case '0':
		return nil, nil
	case '1':
		if *state != laneFree {
			return nil, &noteGridError{lane: lane, msg: "tap during hold"}
		}
		return &Event{Kind: EventLaneTap, Row: row, Player: player, Lane: lane, TapVariant: NoteTap}, nil
	case '2':
		if *state != laneFree {
			return nil, &noteGridError{lane: lane, msg: "hold start during hold"}
		}
		*state = laneHeld
		return &Event{Kind: EventLaneHoldStart, Row: row, Player: player, Lane: lane, HoldKind: HoldNormal}, nil
	case '3':
		if *state == laneFree {
			return nil, &noteGridError{lane: lane, msg: "orphan hold release"}
		}
		*state = laneFree
		return &Event{Kind: EventLaneHoldEnd, Row: row, Player: player, Lane: lane}, nil
	case '4':
		if *state != laneFree {
			return nil, &noteGridError{lane: lane, msg: "roll start during hold"}
		}
		*state = laneRolling
		return &Event{Kind: EventLaneHoldStart, Row: row, Player: player, Lane: lane, HoldKind: HoldRoll}, nil
	case 'M':
		if *state != laneFree {
			return nil, &noteGridError{lane: lane, msg: "mine during hold"}
		}
		return &Event{Kind: EventLaneTap, Row: row, Player: player, Lane: lane, TapVariant: NoteMine}, nil
	case 'L':
		if *state != laneFree {
			return nil, &noteGridError{lane: lane, msg: "lift during hold"}
		}
		return &Event{Kind: EventLaneTap, Row: row, Player: player, Lane: lane, TapVariant: NoteLift}, nil
	case 'F':
		if *state != laneFree {
			return nil, &noteGridError{lane: lane, msg: "fake during hold"}
		}
		return &Event{Kind: EventLaneTap, Row: row, Player: player, Lane: lane, TapVariant: NoteFake}, nil
	case 'K':
		if *state != laneFree {
			return nil, &noteGridError{lane: lane, msg: "keysound during hold"}
		}
		return &Event{Kind: EventLaneTap, Row: row, Player: player, Lane: lane, TapVariant: NoteKeySound}, nil
	default:
		// Unmapped character: no event.
		return nil, nil
	}
}
