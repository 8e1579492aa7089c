package simfile

import (
	"strconv"
	"strings"
)

// Format distinguishes the two on-disk simfile variants this package
// parses and emits.
type Format int

const (
	FormatSM  Format = iota // legacy song-level format (.sm)
	FormatSSC                // per-chart format (.ssc)
)

// docBuilder accumulates parse state across a sequence of MSD Values. Song
// scope is active by default; Chart scope runs from a NOTEDATA tag to the
// next NOTEDATA tag or end of stream.
type docBuilder struct {
	format Format
	diag   Diagnostics

	song      *Song
	songTimes *timingTables

	chart      *Chart
	chartTimes *timingTables
	noteBlock  string // accumulated NOTES/NOTES2 param for the current chart
}

func newDocBuilder(format Format) *docBuilder {
	return &docBuilder{
		format:    format,
		song:      &Song{Extras: Extras{}, RawFields: map[string]string{}, rawScalars: map[string]string{}},
		songTimes: newTimingTables(),
	}
}

// dispatch routes one tagged value by uppercased tag name.
func (b *docBuilder) dispatch(v Value) {
	tag := strings.ToUpper(strings.TrimSpace(v.Tag))
	if tag == "" {
		return
	}

	if tag == "NOTEDATA" {
		b.beginChart()
		return
	}

	if b.chart != nil {
		b.dispatchChart(tag, v.Params)
		return
	}
	b.dispatchSong(tag, v.Params)
}

// beginChart closes out the chart in progress, if any (SSC format), and
// opens a fresh Chart.
func (b *docBuilder) beginChart() {
	b.finishChart()
	b.chart = &Chart{Extras: Extras{}, RawFields: map[string]string{}, rawScalars: map[string]string{}}
	b.chartTimes = newTimingTables()
	b.noteBlock = ""
}

// finishChart closes out the chart currently being built, if any,
// resolving its timing and note grid and appending it to the song.
func (b *docBuilder) finishChart() {
	if b.chart == nil {
		return
	}
	c := b.chart

	info, ok := LookupStepsType(c.StepsType)
	if !ok {
		b.diag.errorf("dispatch", c.StepsType, "", "unknown steps type %q, discarding chart", c.StepsType)
		b.chart, b.chartTimes = nil, nil
		return
	}
	c.NumPlayers, c.NumInputs = info.NumPlayers, info.NumInputs

	lanes, err := decodeNoteGrid(b.noteBlock, c.NumInputs)
	if err != nil {
		b.diag.errorf("notegrid", c.StepsType+"/"+string(c.Difficulty), "", "invalid chart: %v", err)
		b.chart, b.chartTimes = nil, nil
		return
	}

	tables := b.songTimes
	if c.OwnsTiming {
		tables = b.chartTimes
	}
	label := c.StepsType + "/" + string(c.Difficulty)
	events := buildTimingEvents(tables, &b.diag, label)
	events = append(events, lanes...)
	SortEvents(events)
	ResolveTimes(events)

	if len(tables.Attacks) > 0 {
		offset := c.ChartOffset
		if offset == 0 {
			offset = b.song.Offset
		}
		events = applyAttacks(events, tables.Attacks, offset, &b.diag, label)
		SortEvents(events)
	}

	c.Events = events

	b.song.Charts = append(b.song.Charts, c)
	b.chart, b.chartTimes = nil, nil
}

// Finish must be called after the last Value has been dispatched. It
// finalizes any chart still in progress and attaches the diagnostics. SM
// charts are already finished when their song-level NOTES block is
// dispatched, using the song-scope timing seen up to that point.
func (b *docBuilder) Finish() *Song {
	b.finishChart()
	b.song.Diagnostics = b.diag
	return b.song
}

// --- Song scope ---

func (b *docBuilder) dispatchSong(tag string, params []string) {
	p1 := first(params)

	switch tag {
	case "TITLE":
		b.song.Title = p1
		b.song.rawScalars[tag] = p1
	case "SUBTITLE":
		b.song.Subtitle = p1
		b.song.rawScalars[tag] = p1
	case "ARTIST":
		b.song.Artist = p1
		b.song.rawScalars[tag] = p1
	case "TITLETRANSLIT":
		b.song.TitleTranslit = p1
		b.song.rawScalars[tag] = p1
	case "SUBTITLETRANSLIT":
		b.song.SubtitleTransl = p1
		b.song.rawScalars[tag] = p1
	case "ARTISTTRANSLIT":
		b.song.ArtistTransl = p1
		b.song.rawScalars[tag] = p1
	case "GENRE":
		b.song.Genre = p1
		b.song.rawScalars[tag] = p1
	case "BANNER":
		b.song.Banner = p1
		b.song.rawScalars[tag] = p1
	case "BACKGROUND":
		b.song.Background = p1
		b.song.rawScalars[tag] = p1
	case "MUSIC":
		b.song.MusicFile = p1
		b.song.rawScalars[tag] = p1
	case "SAMPLESTART":
		b.song.SampleStart = parseFloatOr(p1, 0, &b.diag, "dispatch", tag)
		b.song.rawScalars[tag] = p1
	case "SAMPLELENGTH":
		b.song.SampleLength = parseFloatOr(p1, 0, &b.diag, "dispatch", tag)
		b.song.rawScalars[tag] = p1
	case "OFFSET":
		b.song.Offset = parseFloatOr(p1, 0, &b.diag, "dispatch", tag)
		b.song.rawScalars[tag] = p1
	case "DISPLAYBPM":
		b.song.DisplayBPM = params // preserved verbatim, never interpreted

	case "BPMS":
		parseTimeValueDoubleCSV(p1, b.songTimes.BPMs)
		b.songTimes.RawBPMs = p1
	case "STOPS", "FREEZES":
		parseTimeValueDoubleCSV(p1, b.songTimes.Stops)
		b.songTimes.RawStops = p1
	case "DELAYS":
		parseTimeValueDoubleCSV(p1, b.songTimes.Delays)
		b.songTimes.RawDelays = p1
	case "WARPS":
		parseTimeValueDoubleCSV(p1, b.songTimes.Warps)
		b.songTimes.RawWarps = p1
	case "TIMESIGNATURES":
		parseFractionCSV(p1, b.songTimes.TimeSignatures)
		b.songTimes.RawTimeSignatures = p1
	case "SCROLLS":
		parseTimeValueDoubleCSV(p1, b.songTimes.ScrollRates)
		b.songTimes.RawScrollRates = p1
	case "SPEEDS":
		parseInterpCSV(p1, b.songTimes.ScrollInterp)
		b.songTimes.RawScrollInterp = p1
	case "TICKCOUNTS":
		parseTimeValueIntCSV(p1, b.songTimes.TickCounts)
		b.songTimes.RawTickCounts = p1
	case "LABELS":
		parseLabelCSV(p1, b.songTimes.Labels)
		b.songTimes.RawLabels = p1
	case "FAKES":
		parseTimeValueDoubleCSV(p1, b.songTimes.Fakes)
		b.songTimes.RawFakes = p1
	case "COMBOS":
		parseComboCSV(p1, b.songTimes.Combos)
		b.songTimes.RawCombos = p1
	case "ATTACKS":
		b.songTimes.Attacks = append(b.songTimes.Attacks, parseAttackParams(params)...)
		b.songTimes.RawAttacks = strings.Join(params, ":")

	case "NOTES", "NOTES2":
		// Song-level format: a single value carries the chart header plus
		// the measure grid.
		b.parseSongLevelNoteBlock(params)

	default:
		b.song.RawFields[tag] = strings.Join(params, ":")
		b.song.Extras = b.song.Extras.SetList(tag, params)
	}
}

func (b *docBuilder) parseSongLevelNoteBlock(params []string) {
	get := func(i int) string {
		if i < len(params) {
			return strings.TrimSpace(params[i])
		}
		return ""
	}

	b.chart = &Chart{Extras: Extras{}, RawFields: map[string]string{}, rawScalars: map[string]string{}}
	b.chartTimes = newTimingTables()

	b.chart.StepsType = get(0)
	b.chart.Description = get(1)
	b.chart.Difficulty = Difficulty(get(2))
	b.chart.Meter = atoiOr(get(3), 0)
	b.chart.RadarValues = parseFloatCSVList(get(4))
	b.noteBlock = get(5)

	b.finishChart()
}

// --- Chart scope (SSC format) ---

func (b *docBuilder) dispatchChart(tag string, params []string) {
	p1 := first(params)
	c := b.chart

	if timingOwningTags[tag] {
		c.OwnsTiming = true
	}

	switch tag {
	case "STEPSTYPE":
		c.StepsType = p1
		c.rawScalars[tag] = p1
	case "DIFFICULTY":
		c.Difficulty = Difficulty(p1)
		c.rawScalars[tag] = p1
	case "METER":
		c.Meter = atoiOr(p1, 0)
		c.rawScalars[tag] = p1
	case "DESCRIPTION", "CHARTNAME":
		if tag == "CHARTNAME" {
			c.ChartName = p1
		} else {
			c.Description = p1
		}
		c.rawScalars[tag] = p1
	case "CREDIT":
		c.Credit = p1
		c.rawScalars[tag] = p1
	case "CHARTSTYLE":
		c.Author = p1
		c.rawScalars[tag] = p1
	case "RADARVALUES":
		c.RadarValues = parseFloatCSVList(p1)
		c.rawScalars[tag] = p1
	case "MUSIC":
		c.MusicFile = p1
		c.rawScalars[tag] = p1
	case "OFFSET":
		c.ChartOffset = parseFloatOr(p1, 0, &b.diag, "dispatch", tag)
		c.rawScalars[tag] = p1
	case "DISPLAYBPM":
		// chart-level override, also preserved verbatim
		c.DisplayTempo = strings.Join(params, ":")

	case "BPMS":
		parseTimeValueDoubleCSV(p1, b.chartTimes.BPMs)
		b.chartTimes.RawBPMs = p1
	case "STOPS", "FREEZES":
		parseTimeValueDoubleCSV(p1, b.chartTimes.Stops)
		b.chartTimes.RawStops = p1
	case "DELAYS":
		parseTimeValueDoubleCSV(p1, b.chartTimes.Delays)
		b.chartTimes.RawDelays = p1
	case "WARPS":
		parseTimeValueDoubleCSV(p1, b.chartTimes.Warps)
		b.chartTimes.RawWarps = p1
	case "TIMESIGNATURES":
		parseFractionCSV(p1, b.chartTimes.TimeSignatures)
		b.chartTimes.RawTimeSignatures = p1
	case "SCROLLS":
		parseTimeValueDoubleCSV(p1, b.chartTimes.ScrollRates)
		b.chartTimes.RawScrollRates = p1
	case "SPEEDS":
		parseInterpCSV(p1, b.chartTimes.ScrollInterp)
		b.chartTimes.RawScrollInterp = p1
	case "TICKCOUNTS":
		parseTimeValueIntCSV(p1, b.chartTimes.TickCounts)
		b.chartTimes.RawTickCounts = p1
	case "LABELS":
		parseLabelCSV(p1, b.chartTimes.Labels)
		b.chartTimes.RawLabels = p1
	case "FAKES":
		parseTimeValueDoubleCSV(p1, b.chartTimes.Fakes)
		b.chartTimes.RawFakes = p1
	case "COMBOS":
		parseComboCSV(p1, b.chartTimes.Combos)
		b.chartTimes.RawCombos = p1
	case "ATTACKS":
		b.chartTimes.Attacks = append(b.chartTimes.Attacks, parseAttackParams(params)...)
		b.chartTimes.RawAttacks = strings.Join(params, ":")

	case "NOTES", "NOTES2":
		b.noteBlock = p1

	default:
		c.RawFields[tag] = strings.Join(params, ":")
		c.Extras = c.Extras.SetList(tag, params)
	}
}

func first(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return strings.TrimSpace(params[0])
}

func atoiOr(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return v
}

func parseFloatOr(s string, fallback float64, diag *Diagnostics, component, tag string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		diag.warnf(component, "", tag, "could not parse %q as a number, leaving unset", s)
		return fallback
	}
	return v
}

func parseFloatCSVList(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			f = 0
		}
		out = append(out, f)
	}
	return out
}

// ParseDocument tokenizes and dispatches raw MSD text into a Song. It
// never returns an error: every recoverable problem becomes a Diagnostic
// on Song.Diagnostics instead.
func ParseDocument(text string, format Format) *Song {
	b := newDocBuilder(format)
	tok := NewTokenizer(text)
	for {
		v, ok := tok.Next()
		if !ok {
			break
		}
		b.dispatch(v)
	}
	return b.Finish()
}
