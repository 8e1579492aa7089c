package simfile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chriskillpack/simfile/internal/atomicfile"
)

// ErrCancelled is returned by LoadSong/SaveSong when ctx is cancelled at
// one of the defined checkpoints: after the raw bytes are read, and after
// parsing/emission completes.
var ErrCancelled = errors.New("simfile: cancelled")

// LoadSong reads all of r, checks ctx at the post-read checkpoint, parses
// the document under format, checks ctx again at the post-parse
// checkpoint, and returns the resulting Song. It never returns a parse
// error of its own — parse problems land on Song.Diagnostics — but it does
// return ErrCancelled or an I/O error from reading r.
func LoadSong(ctx context.Context, r io.Reader, format Format) (*Song, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("simfile: read: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrCancelled
	}

	song := ParseDocument(string(data), format)

	if err := ctx.Err(); err != nil {
		return nil, ErrCancelled
	}

	return song, nil
}

// SaveSong emits song under format and writes it to path using an
// atomicfile.Writer, so a reader never observes a half-written file. It
// checks ctx after emission (mirroring LoadSong's post-parse checkpoint)
// and before the rename-into-place commit.
func SaveSong(ctx context.Context, path string, song *Song, format Format, opts EmitOptions) error {
	var (
		text string
		err  error
	)
	switch format {
	case FormatSM:
		text, err = EmitSM(song, opts)
	case FormatSSC:
		text, err = EmitSSC(song, opts)
	default:
		return fmt.Errorf("simfile: unknown format %v", format)
	}
	if err != nil {
		return fmt.Errorf("simfile: emit: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return ErrCancelled
	}

	w, err := atomicfile.New(path)
	if err != nil {
		return fmt.Errorf("simfile: open destination: %w", err)
	}

	if _, err := io.WriteString(w, text); err != nil {
		w.Abort()
		return fmt.Errorf("simfile: write: %w", err)
	}

	if err := ctx.Err(); err != nil {
		w.Abort()
		return ErrCancelled
	}

	return w.Close()
}
