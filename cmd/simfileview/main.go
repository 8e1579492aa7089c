// simfileview is an interactive terminal inspector: load a simfile, pick a
// chart, and page through its resolved EventLayer with colored rows.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"

	"github.com/chriskillpack/simfile"
)

const pageSize = 20

func main() {
	log.SetFlags(0)
	log.SetPrefix("simfileview: ")

	if len(os.Args) <= 1 {
		log.Fatal("Missing simfile filename")
	}

	fname := os.Args[1]
	f, err := os.Open(fname)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var format simfile.Format
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".sm":
		format = simfile.FormatSM
	case ".ssc":
		format = simfile.FormatSSC
	default:
		log.Fatalf("unsupported simfile %q", fname)
	}

	song, err := simfile.LoadSong(context.Background(), f, format)
	if err != nil {
		log.Fatal(err)
	}
	if len(song.Charts) == 0 {
		log.Fatal("song has no charts")
	}

	chart := pickChart(song)
	runViewer(chart)
}

func pickChart(song *simfile.Song) *simfile.Chart {
	if len(song.Charts) == 1 {
		return song.Charts[0]
	}
	fmt.Printf("%s - %s\n", song.Artist, song.Title)
	for i, c := range song.Charts {
		fmt.Printf("  [%d] %-16s %-10s meter=%d\n", i, c.StepsType, c.Difficulty, c.Meter)
	}
	fmt.Print("select chart: ")
	var idx int
	fmt.Scanln(&idx)
	if idx < 0 || idx >= len(song.Charts) {
		idx = 0
	}
	return song.Charts[idx]
}

// eventFormatter renders one Event as a single colored line.
func eventFormatter(e *simfile.Event) string {
	line := fmt.Sprintf("row=%-6d t=%8.3fs %s", e.Row, e.TimeSeconds, kindLabel(e))
	return colorFor(e.Kind).Sprint(line)
}

func kindLabel(e *simfile.Event) string {
	switch e.Kind {
	case simfile.EventTempo:
		return fmt.Sprintf("Tempo bpm=%.3f", e.BPM)
	case simfile.EventStop:
		if e.IsDelay {
			return fmt.Sprintf("Delay len=%.3fs", e.LengthSeconds)
		}
		return fmt.Sprintf("Stop len=%.3fs", e.LengthSeconds)
	case simfile.EventWarp:
		return fmt.Sprintf("Warp rows=%d", e.LengthRows)
	case simfile.EventTimeSignature:
		return fmt.Sprintf("TimeSignature %d/%d measure=%d", e.Numerator, e.Denominator, e.MeasureIndex)
	case simfile.EventScrollRate:
		return fmt.Sprintf("ScrollRate rate=%.3f", e.Rate)
	case simfile.EventScrollRateInterp:
		return fmt.Sprintf("ScrollRateInterp rate=%.3f", e.Rate)
	case simfile.EventTickCount:
		return fmt.Sprintf("TickCount n=%d", e.TickN)
	case simfile.EventLabel:
		return fmt.Sprintf("Label %q", e.Text)
	case simfile.EventFakeSegment:
		return fmt.Sprintf("Fake rows=%d", e.LengthRows)
	case simfile.EventMultipliers:
		return fmt.Sprintf("Combo hit=%d miss=%d", e.HitMult, e.MissMult)
	case simfile.EventAttack:
		return fmt.Sprintf("Attack mods=%d", len(e.Modifiers))
	case simfile.EventLaneTap:
		return fmt.Sprintf("Tap lane=%d player=%d variant=%d", e.Lane, e.Player, e.TapVariant)
	case simfile.EventLaneHoldStart:
		return fmt.Sprintf("HoldStart lane=%d player=%d kind=%d", e.Lane, e.Player, e.HoldKind)
	case simfile.EventLaneHoldEnd:
		return fmt.Sprintf("HoldEnd lane=%d player=%d", e.Lane, e.Player)
	default:
		return "Unknown"
	}
}

func colorFor(kind simfile.EventKind) *color.Color {
	switch kind {
	case simfile.EventTempo, simfile.EventTimeSignature, simfile.EventWarp:
		return color.New(color.FgCyan)
	case simfile.EventStop:
		return color.New(color.FgYellow)
	case simfile.EventLaneTap, simfile.EventLaneHoldStart, simfile.EventLaneHoldEnd:
		return color.New(color.FgGreen)
	case simfile.EventAttack:
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgWhite)
	}
}

// runViewer pages through chart.Events pageSize at a time, driven by an
// atomicgo.dev/keyboard press loop.
func runViewer(chart *simfile.Chart) {
	offset := 0
	render := func() {
		fmt.Print("\033[H\033[2J")
		fmt.Printf("%s / %s  (%d events) — ↓/↑ scroll, q to quit\n\n", chart.StepsType, chart.Difficulty, len(chart.Events))
		end := offset + pageSize
		if end > len(chart.Events) {
			end = len(chart.Events)
		}
		for _, e := range chart.Events[offset:end] {
			fmt.Println(eventFormatter(e))
		}
	}

	render()
	err := keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		switch key.Code {
		case keys.CtrlC, keys.Escape:
			return true, nil
		case keys.Down:
			if offset+pageSize < len(chart.Events) {
				offset += pageSize
			}
		case keys.Up:
			offset -= pageSize
			if offset < 0 {
				offset = 0
			}
		case keys.RuneKey:
			if key.String() == "q" {
				return true, nil
			}
		}
		render()
		return false, nil
	})
	if err != nil {
		log.Fatal(err)
	}
}
