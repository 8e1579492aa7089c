package simfile

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSM parses legacy song-level (.sm) text into a Song: a single pass
// over the whole document producing one in-memory value, with recoverable
// problems reported rather than failing the whole load.
func ParseSM(text string) *Song {
	return ParseDocument(text, FormatSM)
}

// EmitSM serializes song back to the legacy song-level format: one
// song-scope tag block followed by one #NOTES block per chart, each
// carrying its own inline header.
func EmitSM(song *Song, opts EmitOptions) (string, error) {
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
		grid, err := writeNoteGrid(c.Events, c.NumInputs, 0, opts.MeasureSpacing)
		if err != nil {
			return "", fmt.Errorf("chart %s/%s: %w", c.StepsType, c.Difficulty, err)
		}
		radar := make([]string, len(c.RadarValues))
		for i, r := range c.RadarValues {
			radar[i] = formatFixed(r)
		}
		fmt.Fprintf(&sb, "#NOTES:\n     %s:\n     %s:\n     %s:\n     %d:\n     %s:\n%s\n;\n",
			c.StepsType, c.Description, string(c.Difficulty), c.Meter, strings.Join(radar, ","), grid)
	}

	return sb.String(), nil
}

func writeScalarSM(sb *strings.Builder, song *Song, tag, value string, policy PropertiesPolicy) {
	_, existed := song.rawScalars[tag]
	v, ok := writeScalar(song.rawScalars, tag, policy, existed, value)
	if !ok {
		return
	}
	fmt.Fprintf(sb, "#%s:%s;\n", tag, v)
}

func writeNumericSM(sb *strings.Builder, song *Song, tag string, value float64, policy PropertiesPolicy) {
	_, existed := song.rawScalars[tag]
	v, ok := writeScalar(song.rawScalars, tag, policy, existed, strconv.FormatFloat(value, 'f', -1, 64))
	if !ok {
		return
	}
	fmt.Fprintf(sb, "#%s:%s;\n", tag, v)
}
