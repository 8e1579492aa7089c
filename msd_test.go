package simfile

import "testing"

func TestTokenizerBasic(t *testing.T) {
	vals := NewTokenizer("#TITLE:My Song;\n#ARTIST:Someone;\n").All()
	if len(vals) != 2 {
		t.Fatalf("expected 2 values, got %d", len(vals))
	}
	if vals[0].Tag != "TITLE" || vals[0].Params[0] != "My Song" {
		t.Errorf("got %+v", vals[0])
	}
	if vals[1].Tag != "ARTIST" || vals[1].Params[0] != "Someone" {
		t.Errorf("got %+v", vals[1])
	}
}

func TestTokenizerBOM(t *testing.T) {
	vals := NewTokenizer("\xef\xbb\xbf#TITLE:hi;").All()
	if len(vals) != 1 || vals[0].Params[0] != "hi" {
		t.Fatalf("got %+v", vals)
	}
}

func TestTokenizerParams(t *testing.T) {
	vals := NewTokenizer("#BPMS:0.000=120.000,4.000=140.000;").All()
	if len(vals) != 1 || len(vals[0].Params) != 1 {
		t.Fatalf("got %+v", vals)
	}
	if vals[0].Params[0] != "0.000=120.000,4.000=140.000" {
		t.Errorf("got %q", vals[0].Params[0])
	}
}

func TestTokenizerEscape(t *testing.T) {
	vals := NewTokenizer(`#TITLE:a\:b\;c\\d;`).All()
	if len(vals) != 1 {
		t.Fatalf("got %+v", vals)
	}
	if vals[0].Params[0] != `a:b;c\d` {
		t.Errorf("got %q", vals[0].Params[0])
	}
}

func TestTokenizerLineComment(t *testing.T) {
	vals := NewTokenizer("#TITLE:hi; // trailing comment\n#ARTIST:me;").All()
	if len(vals) != 2 || vals[0].Params[0] != "hi" || vals[1].Params[0] != "me" {
		t.Fatalf("got %+v", vals)
	}
}

func TestTokenizerMissingTerminator(t *testing.T) {
	vals := NewTokenizer("#TITLE:hi\n#ARTIST:me;").All()
	if len(vals) != 2 {
		t.Fatalf("expected recovery into 2 values, got %d: %+v", len(vals), vals)
	}
	if vals[0].Params[0] != "hi" {
		t.Errorf("got %q", vals[0].Params[0])
	}
}

func TestTokenizerHashInsideValueNotRecovery(t *testing.T) {
	// A '#' that is not the first non-blank character on its line is just
	// data, not a missing-terminator boundary.
	vals := NewTokenizer("#TITLE:Song #1;").All()
	if len(vals) != 1 {
		t.Fatalf("got %+v", vals)
	}
	if vals[0].Params[0] != "Song #1" {
		t.Errorf("got %q", vals[0].Params[0])
	}
}

func TestTokenizerEmptyParams(t *testing.T) {
	vals := NewTokenizer("#NOTES:::::;").All()
	if len(vals) != 1 || len(vals[0].Params) != 5 {
		t.Fatalf("got %+v", vals)
	}
}

func TestTokenizerEscapedHashBetweenValues(t *testing.T) {
	// A backslash-escaped '#' between values must be consumed as a
	// two-character no-op, not treated as the start of the next value.
	vals := NewTokenizer(`#A:x;\#not a tag#B:y;`).All()
	if len(vals) != 2 {
		t.Fatalf("expected 2 values, got %d: %+v", len(vals), vals)
	}
	if vals[0].Tag != "A" || vals[0].Params[0] != "x" {
		t.Errorf("got %+v", vals[0])
	}
	if vals[1].Tag != "B" || vals[1].Params[0] != "y" {
		t.Errorf("got %+v", vals[1])
	}
}
