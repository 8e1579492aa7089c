package simfile

import (
	"strconv"
	"strings"
)

// splitCSV splits a raw timing-table string on top-level commas. Entries
// are not allowed to contain commas themselves in any of the supported
// table shapes, so a plain split suffices.
func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func parseBeat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// parseTimeValueDoubleCSV parses "beat=value[,beat=value]*" into a
// beat->float64 map, last entry for a given beat string wins.
func parseTimeValueDoubleCSV(raw string, into map[float64]float64) {
	for _, entry := range splitCSV(raw) {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		beat, ok := parseBeat(parts[0])
		if !ok {
			continue
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		into[beat] = val
	}
}

// parseTimeValueIntCSV parses "beat=value[,beat=value]*" into a
// beat->int map.
func parseTimeValueIntCSV(raw string, into map[float64]int) {
	for _, entry := range splitCSV(raw) {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		beat, ok := parseBeat(parts[0])
		if !ok {
			continue
		}
		val, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		into[beat] = val
	}
}

// parseFractionCSV parses "beat=num=den[,...]" (time signatures).
func parseFractionCSV(raw string, into map[float64][2]int) {
	for _, entry := range splitCSV(raw) {
		parts := strings.SplitN(entry, "=", 3)
		if len(parts) != 3 {
			continue
		}
		beat, ok := parseBeat(parts[0])
		if !ok {
			continue
		}
		num, err1 := strconv.Atoi(strings.TrimSpace(parts[1]))
		den, err2 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil {
			continue
		}
		into[beat] = [2]int{num, den}
	}
}

// parseInterpCSV parses "beat=speed=length=mode" (speeds / interpolated
// scroll), mode 0=beats, 1=seconds.
func parseInterpCSV(raw string, into map[float64]scrollInterpEntry) {
	for _, entry := range splitCSV(raw) {
		parts := strings.SplitN(entry, "=", 4)
		if len(parts) != 4 {
			continue
		}
		beat, ok := parseBeat(parts[0])
		if !ok {
			continue
		}
		speed, err1 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		length, err2 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		mode, err3 := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		into[beat] = scrollInterpEntry{Speed: speed, Length: length, PreferSeconds: mode == 1}
	}
}

// parseComboCSV parses "beat=hit[=miss][,...]"; a missing miss defaults to
// hit.
func parseComboCSV(raw string, into map[float64][2]int) {
	for _, entry := range splitCSV(raw) {
		parts := strings.SplitN(entry, "=", 3)
		if len(parts) < 2 {
			continue
		}
		beat, ok := parseBeat(parts[0])
		if !ok {
			continue
		}
		hit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		miss := hit
		if len(parts) == 3 {
			if m, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
				miss = m
			}
		}
		into[beat] = [2]int{hit, miss}
	}
}

// parseLabelCSV parses "beat=text[,...]".
func parseLabelCSV(raw string, into map[float64]string) {
	for _, entry := range splitCSV(raw) {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		beat, ok := parseBeat(parts[0])
		if !ok {
			continue
		}
		into[beat] = strings.TrimSpace(parts[1])
	}
}
