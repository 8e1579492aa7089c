package simfile

import (
	"fmt"
	"strings"
)

// ParseSSC parses per-chart (.ssc) text into a Song. It shares the same
// document-level pass as ParseSM; the difference is entirely in scope
// rules (NOTEDATA opens a new chart scope instead of one NOTES tag
// carrying everything).
func ParseSSC(text string) *Song {
	return ParseDocument(text, FormatSSC)
}

// EmitSSC serializes song back to the per-chart format: one song-scope tag
// block, then one #NOTEDATA...#NOTES block per chart carrying its own
// property tags and, if it owns timing, its own timing tags.
func EmitSSC(song *Song, opts EmitOptions) (string, error) {
	var sb strings.Builder

	writeScalarSM(&sb, song, "TITLE", song.Title, opts.Properties)
	writeScalarSM(&sb, song, "SUBTITLE", song.Subtitle, opts.Properties)
	writeScalarSM(&sb, song, "ARTIST", song.Artist, opts.Properties)
	writeScalarSM(&sb, song, "TITLETRANSLIT", song.TitleTranslit, opts.Properties)
	writeScalarSM(&sb, song, "SUBTITLETRANSLIT", song.SubtitleTransl, opts.Properties)
	writeScalarSM(&sb, song, "ARTISTTRANSLIT", song.ArtistTransl, opts.Properties)
	writeScalarSM(&sb, song, "GENRE", song.Genre, opts.Properties)
	writeScalarSM(&sb, song, "BANNER", song.Banner, opts.Properties)
	writeScalarSM(&sb, song, "BACKGROUND", song.Background, opts.Properties)
	writeScalarSM(&sb, song, "MUSIC", song.MusicFile, opts.Properties)
	writeNumericSM(&sb, song, "OFFSET", song.Offset, opts.Properties)
	writeNumericSM(&sb, song, "SAMPLESTART", song.SampleStart, opts.Properties)
	writeNumericSM(&sb, song, "SAMPLELENGTH", song.SampleLength, opts.Properties)
	if len(song.DisplayBPM) > 0 {
		fmt.Fprintf(&sb, "#DISPLAYBPM:%s;\n", strings.Join(song.DisplayBPM, ":"))
	}

	for tag, raw := range song.RawFields {
		fmt.Fprintf(&sb, "#%s:%s;\n", tag, raw)
	}

	songEvents := findSongTiming(song)
	for _, f := range timingFields(songEvents, nil) {
		fmt.Fprintf(&sb, "#%s:%s;\n", f.Tag, f.Value)
	}
	if atk := formatAttacks(songEvents, song.Offset); len(atk) > 0 {
		fmt.Fprintf(&sb, "#ATTACKS:%s;\n", strings.Join(atk, ":"))
	}

	for _, c := range song.Charts {
		sb.WriteString("\n#NOTEDATA:;\n")
		fmt.Fprintf(&sb, "#STEPSTYPE:%s;\n", c.StepsType)
		fmt.Fprintf(&sb, "#DIFFICULTY:%s;\n", c.Difficulty)
		fmt.Fprintf(&sb, "#METER:%d;\n", c.Meter)
		if c.Description != "" {
			fmt.Fprintf(&sb, "#DESCRIPTION:%s;\n", c.Description)
		}
		if c.ChartName != "" {
			fmt.Fprintf(&sb, "#CHARTNAME:%s;\n", c.ChartName)
		}
		if c.Credit != "" {
			fmt.Fprintf(&sb, "#CREDIT:%s;\n", c.Credit)
		}
		if c.Author != "" {
			fmt.Fprintf(&sb, "#CHARTSTYLE:%s;\n", c.Author)
		}
		if c.MusicFile != "" {
			fmt.Fprintf(&sb, "#MUSIC:%s;\n", c.MusicFile)
		}
		if len(c.RadarValues) > 0 {
			radar := make([]string, len(c.RadarValues))
			for i, r := range c.RadarValues {
				radar[i] = formatFixed(r)
			}
			fmt.Fprintf(&sb, "#RADARVALUES:%s;\n", strings.Join(radar, ","))
		}
		for tag, raw := range c.RawFields {
			fmt.Fprintf(&sb, "#%s:%s;\n", tag, raw)
		}

		if c.OwnsTiming {
			for _, f := range timingFields(c.Events, nil) {
				fmt.Fprintf(&sb, "#%s:%s;\n", f.Tag, f.Value)
			}
			offset := c.ChartOffset
			if offset == 0 {
				offset = song.Offset
			}
			if atk := formatAttacks(c.Events, offset); len(atk) > 0 {
				fmt.Fprintf(&sb, "#ATTACKS:%s;\n", strings.Join(atk, ":"))
			}
		}

		grid, err := writeNoteGrid(c.Events, c.NumInputs, 0, opts.MeasureSpacing)
		if err != nil {
			return "", fmt.Errorf("chart %s/%s: %w", c.StepsType, c.Difficulty, err)
		}
		fmt.Fprintf(&sb, "#NOTES:\n%s\n;\n", grid)
	}

	return sb.String(), nil
}
