package virtual

import (
	"testing"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
)

func TestReadLineVariants(t *testing.T) {
	h := New()
	h.SetFile("f", "one\r\ntwo\nthree")

	handle, err := h.Open("f", ast.FileRead)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"one", "two", "three"}
	for _, want := range expected {
		line, ok, err := handle.ReadLine()
		if err != nil || !ok {
			t.Fatalf("ReadLine: ok=%v err=%v", ok, err)
		}
		if line != want {
			t.Errorf("expected %q, got %q", want, line)
		}
	}
	if _, ok, _ := handle.ReadLine(); ok {
		t.Error("expected exhaustion after the last line")
	}
	if !handle.AtEOF() {
		t.Error("expected AtEOF after the last line")
	}
}

func TestWriteHandleTruncates(t *testing.T) {
	h := New()
	h.SetFile("f", "old")

	handle, err := h.Open("f", ast.FileWrite)
	if err != nil {
		t.Fatal(err)
	}
	if err := handle.WriteLine("new\n"); err != nil {
		t.Fatal(err)
	}
	handle.Close()

	content, _ := h.GetFile("f")
	if content != "new\n" {
		t.Errorf("expected %q, got %q", "new\n", content)
	}
}

func TestRandomOverwriteInPlace(t *testing.T) {
	h := New()
	h.SetFile("db", "aaaabbbb")

	handle, err := h.Open("db", ast.FileRandom)
	if err != nil {
		t.Fatal(err)
	}
	if err := handle.Seek(4); err != nil {
		t.Fatal(err)
	}
	if err := handle.WriteRecord("CC", 4); err != nil {
		t.Fatal(err)
	}
	handle.Close()

	content, _ := h.GetFile("db")
	if content != "aaaaCC\x00\x00" {
		t.Errorf("unexpected content %q", content)
	}
}

func TestSeekPastEndClampsToEnd(t *testing.T) {
	h := New()
	h.SetFile("db", "abcd")

	handle, err := h.Open("db", ast.FileRandom)
	if err != nil {
		t.Fatal(err)
	}
	if err := handle.Seek(99); err != nil {
		t.Fatal(err)
	}
	if !handle.AtEOF() {
		t.Error("expected AtEOF after seeking past the end")
	}
}

func TestInputQueueOrder(t *testing.T) {
	h := New()
	h.AddInput("a")
	h.AddInput("b")

	if got := h.PendingInputs(); len(got) != 2 || got[0] != "a" {
		t.Errorf("unexpected pending inputs %v", got)
	}

	line, ok := h.ReadInput()
	if !ok || line != "a" {
		t.Errorf("expected a, got %q", line)
	}
	h.ClearInputs()
	if _, ok := h.ReadInput(); ok {
		t.Error("expected an empty queue after ClearInputs")
	}
}

func TestOutputCapture(t *testing.T) {
	h := New()
	h.Write("x")
	h.Write("y")
	if h.Output() != "xy" {
		t.Errorf("expected %q, got %q", "xy", h.Output())
	}
	h.ResetOutput()
	if h.Output() != "" {
		t.Error("expected empty output after reset")
	}
}
