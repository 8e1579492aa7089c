// simfileconvert reads a .sm or .ssc file and re-emits it, optionally to
// the other format, under a chosen properties/measure-spacing policy. A
// SIGINT during the run cancels cleanly instead of leaving a half-written
// output file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chriskillpack/simfile"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("simfileconvert: ")

	out := flag.String("out", "", "output path (required)")
	toFormat := flag.String("to", "", "output format: sm or ssc (defaults to input's format)")
	properties := flag.String("policy", "match-source", "properties policy: match-source or native")
	spacing := flag.String("spacing", "preserve", "measure spacing policy: preserve, lcm, or lcm-rounded")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("missing input simfile")
	}
	if *out == "" {
		log.Fatal("-out is required")
	}

	inFormat, err := formatFromExt(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	outFormat := inFormat
	switch strings.ToLower(*toFormat) {
	case "":
	case "sm":
		outFormat = simfile.FormatSM
	case "ssc":
		outFormat = simfile.FormatSSC
	default:
		log.Fatalf("unrecognized -to value %q", *toFormat)
	}

	opts, err := optsFromFlags(*properties, *spacing)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)
	go func() {
		<-sig
		log.Print("interrupted, cancelling")
		cancel()
	}()

	song, err := simfile.LoadSong(ctx, f, inFormat)
	if err != nil {
		log.Fatal(err)
	}
	for _, d := range song.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}

	if err := simfile.SaveSong(ctx, *out, song, outFormat, opts); err != nil {
		log.Fatal(err)
	}
}

func formatFromExt(path string) (simfile.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sm":
		return simfile.FormatSM, nil
	case ".ssc":
		return simfile.FormatSSC, nil
	default:
		return 0, fmt.Errorf("unsupported simfile %q", path)
	}
}

// optsFromFlags turns the two policy flags into EmitOptions: a flat switch
// from a flag string onto a closed set of policy values.
func optsFromFlags(properties, spacing string) (simfile.EmitOptions, error) {
	var opts simfile.EmitOptions

	switch properties {
	case "match-source":
		opts.Properties = simfile.MatchSource
	case "native":
		opts.Properties = simfile.StepmaniaNative
	default:
		return opts, fmt.Errorf("unrecognized -policy value %q", properties)
	}

	switch spacing {
	case "preserve":
		opts.MeasureSpacing = simfile.PreserveSubdivisionDenominators
	case "lcm":
		opts.MeasureSpacing = simfile.LCMOfEventSubdivisions
	case "lcm-rounded":
		opts.MeasureSpacing = simfile.LCMRoundedUpToEditorSupported
	default:
		return opts, fmt.Errorf("unrecognized -spacing value %q", spacing)
	}

	return opts, nil
}
