// simfiledump parses a single .sm/.ssc file and prints its structure plus
// any diagnostics, picking the parser from the file extension.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriskillpack/simfile"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("simfiledump: ")

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

	fmt.Printf("%s - %s\n", song.Artist, song.Title)
	fmt.Printf("%d charts\n", len(song.Charts))
	for _, c := range song.Charts {
		fmt.Printf("  %-16s %-10s meter=%-3d events=%d\n", c.StepsType, c.Difficulty, c.Meter, len(c.Events))
	}

	if len(song.Diagnostics) > 0 {
		fmt.Println("diagnostics:")
		for _, d := range song.Diagnostics {
			fmt.Println(" ", d.String())
		}
	}
	if song.Diagnostics.HasErrors() {
		os.Exit(1)
	}
}
