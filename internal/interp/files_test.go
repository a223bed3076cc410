package interp

import (
	"strings"
	"testing"

	"github.com/pseudocode-lang/pseudocode/internal/host/virtual"
	"github.com/pseudocode-lang/pseudocode/internal/parser"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
)

func TestReadFileLines(t *testing.T) {
	h := virtual.New()
	h.SetFile("data.txt", "first\nsecond\n")
	source := `DECLARE line : STRING
OPENFILE "data.txt" FOR READ
READFILE "data.txt", line
OUTPUT line
READFILE "data.txt", line
OUTPUT line
CLOSEFILE "data.txt"`
	out, err := runHost(t, h, source)
	if err != nil {
		t.Fatal(err)
	}
	if out != "first\nsecond\n" {
		t.Errorf("expected %q, got %q", "first\nsecond\n", out)
	}
}

func TestWriteFileCreatesAndTruncates(t *testing.T) {
	h := virtual.New()
	h.SetFile("out.txt", "old content that must vanish")
	source := `OPENFILE "out.txt" FOR WRITE
WRITEFILE "out.txt", "total: ", 1 + 2
CLOSEFILE "out.txt"`
	if _, err := runHost(t, h, source); err != nil {
		t.Fatal(err)
	}
	content, ok := h.GetFile("out.txt")
	if !ok {
		t.Fatal("out.txt missing after CLOSEFILE")
	}
	if content != "total: 3\n" {
		t.Errorf("expected %q, got %q", "total: 3\n", content)
	}
}

func TestReadFromMissingFileFails(t *testing.T) {
	_, err := run(t, `OPENFILE "nothere" FOR READ`)
	wantKind(t, err, perror.KindIO)
}

func TestFileExclusivity(t *testing.T) {
	h := virtual.New()
	h.SetFile("f", "x\n")
	_, err := runHost(t, h, "OPENFILE \"f\" FOR READ\nOPENFILE \"f\" FOR READ")
	wantKind(t, err, perror.KindState)

	_, err = run(t, `CLOSEFILE "neveropened"`)
	wantKind(t, err, perror.KindState)
}

func TestModeViolations(t *testing.T) {
	h := virtual.New()
	h.SetFile("f", "x\n")
	source := `DECLARE s : STRING
OPENFILE "f" FOR READ
WRITEFILE "f", "nope"`
	_, err := runHost(t, h, source)
	wantKind(t, err, perror.KindState)

	source = `DECLARE s : STRING
OPENFILE "g" FOR WRITE
READFILE "g", s`
	_, err = run(t, source)
	wantKind(t, err, perror.KindState)

	source = `OPENFILE "g" FOR WRITE
SEEK "g", 0`
	_, err = run(t, source)
	wantKind(t, err, perror.KindState)

	h = virtual.New()
	h.SetFile("f", "x\n")
	source = `DECLARE s : STRING
OPENFILE "f" FOR READ
GETRECORD "f", s`
	_, err = runHost(t, h, source)
	wantKind(t, err, perror.KindState)
}

func TestReadFileTargetMustBeString(t *testing.T) {
	h := virtual.New()
	h.SetFile("f", "1\n")
	source := `DECLARE n : INTEGER
OPENFILE "f" FOR READ
READFILE "f", n`
	_, err := runHost(t, h, source)
	wantKind(t, err, perror.KindType)
}

func TestRandomFileRecordRoundTrip(t *testing.T) {
	h := virtual.New()
	source := `DECLARE rec : STRING
DECLARE rec2 : STRING
rec <- "hello record"
OPENFILE "db" FOR RANDOM
PUTRECORD "db", rec
SEEK "db", 0
GETRECORD "db", rec2
CLOSEFILE "db"
OUTPUT rec2`
	out, err := runHost(t, h, source)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello record\n" {
		t.Errorf("expected %q, got %q", "hello record\n", out)
	}

	// The backing file holds one full fixed-size record.
	content, ok := h.GetFile("db")
	if !ok {
		t.Fatal("db missing after CLOSEFILE")
	}
	if len(content) != 256 {
		t.Errorf("expected a 256-byte record, got %d bytes", len(content))
	}
	if !strings.HasPrefix(content, "hello record\x00") {
		t.Errorf("record not zero-padded: %q", content[:20])
	}
}

func TestSeekToSecondRecord(t *testing.T) {
	h := virtual.New()
	source := `DECLARE a : STRING
DECLARE b : STRING
DECLARE got : STRING
a <- "first"
b <- "second"
OPENFILE "db" FOR RANDOM
PUTRECORD "db", a
PUTRECORD "db", b
SEEK "db", 256
GETRECORD "db", got
CLOSEFILE "db"
OUTPUT got`
	out, err := runHost(t, h, source)
	if err != nil {
		t.Fatal(err)
	}
	if out != "second\n" {
		t.Errorf("expected %q, got %q", "second\n", out)
	}
}

func TestEOFBuiltin(t *testing.T) {
	h := virtual.New()
	h.SetFile("f", "only\n")
	source := `DECLARE s : STRING
OPENFILE "f" FOR READ
OUTPUT EOF("f")
READFILE "f", s
OUTPUT EOF("f")
CLOSEFILE "f"`
	out, err := runHost(t, h, source)
	if err != nil {
		t.Fatal(err)
	}
	if out != "FALSE\nTRUE\n" {
		t.Errorf("expected %q, got %q", "FALSE\nTRUE\n", out)
	}

	// A handle that was never opened is a state error, not at-end.
	_, err = run(t, `OUTPUT EOF("ghost")`)
	wantKind(t, err, perror.KindState)

	// Write handles always report false.
	source = `OPENFILE "w" FOR WRITE
OUTPUT EOF("w")`
	if out := mustRun(t, source); out != "FALSE\n" {
		t.Errorf("expected %q, got %q", "FALSE\n", out)
	}
}

func TestEOFDrivenReadLoop(t *testing.T) {
	h := virtual.New()
	h.SetFile("nums.txt", "1\n2\n3\n")
	source := `DECLARE line : STRING
OPENFILE "nums.txt" FOR READ
WHILE NOT EOF("nums.txt") DO
  READFILE "nums.txt", line
  OUTPUT "got ", line
ENDWHILE
CLOSEFILE "nums.txt"`
	out, err := runHost(t, h, source)
	if err != nil {
		t.Fatal(err)
	}
	if out != "got 1\ngot 2\ngot 3\n" {
		t.Errorf("expected %q, got %q", "got 1\ngot 2\ngot 3\n", out)
	}
}

func TestRecordSizeOverride(t *testing.T) {
	// RecordSize is policy, not syntax: an interpreter configured with a
	// different record length pads to that length instead.
	h := virtual.New()
	p, err := parser.New(`DECLARE rec : STRING
rec <- "ab"
OPENFILE "db" FOR RANDOM
PUTRECORD "db", rec
CLOSEFILE "db"`)
	if err != nil {
		t.Fatal(err)
	}
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatal(err)
	}
	in := New(h)
	in.RecordSize = 16
	if err := in.Run(program); err != nil {
		t.Fatal(err)
	}
	content, _ := h.GetFile("db")
	if len(content) != 16 {
		t.Errorf("expected 16-byte record, got %d bytes", len(content))
	}
}
