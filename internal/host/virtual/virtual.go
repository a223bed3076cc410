// Package virtual backs the embedded engine: a map-based in-memory
// filesystem, a scripted input queue, and a captured output buffer.
package virtual

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/host"
)

// Host is the in-memory Host implementation used by pkg/engine.
type Host struct {
	files  map[string]*bytes.Buffer
	inputs []string
	output strings.Builder
}

// New returns an empty virtual Host.
func New() *Host {
	return &Host{files: make(map[string]*bytes.Buffer)}
}

// SetFile seeds or overwrites a virtual file's content.
func (h *Host) SetFile(name, content string) {
	h.files[name] = bytes.NewBufferString(content)
}

// GetFile returns a virtual file's current content.
func (h *Host) GetFile(name string) (string, bool) {
	buf, ok := h.files[name]
	if !ok {
		return "", false
	}
	return buf.String(), true
}

// AddInput appends one scripted input line to the queue INPUT statements
// consume from.
func (h *Host) AddInput(line string) {
	h.inputs = append(h.inputs, line)
}

// ClearInputs empties the scripted input queue.
func (h *Host) ClearInputs() {
	h.inputs = nil
}

// PendingInputs returns a copy of the input queue in its current,
// unconsumed order.
func (h *Host) PendingInputs() []string {
	return append([]string(nil), h.inputs...)
}

// Output returns everything written so far.
func (h *Host) Output() string {
	return h.output.String()
}

// ResetOutput clears the captured output buffer between execute() calls
// that should not accumulate text.
func (h *Host) ResetOutput() {
	h.output.Reset()
}

func (h *Host) Open(name string, mode ast.FileMode) (host.Handle, error) {
	switch mode {
	case ast.FileRead:
		buf, ok := h.files[name]
		if !ok {
			return nil, fmt.Errorf("virtual file %q does not exist", name)
		}
		return &handle{host: h, name: name, mode: mode, data: []byte(buf.String())}, nil
	case ast.FileWrite:
		h.files[name] = &bytes.Buffer{}
		return &handle{host: h, name: name, mode: mode}, nil
	case ast.FileRandom:
		buf, ok := h.files[name]
		var data []byte
		if ok {
			data = []byte(buf.String())
		} else {
			h.files[name] = &bytes.Buffer{}
		}
		return &handle{host: h, name: name, mode: mode, data: data}, nil
	default:
		return nil, fmt.Errorf("unknown file mode")
	}
}

func (h *Host) ReadInput() (string, bool) {
	if len(h.inputs) == 0 {
		return "", false
	}
	line := h.inputs[0]
	h.inputs = h.inputs[1:]
	return line, true
}

func (h *Host) Write(s string) {
	h.output.WriteString(s)
}

// handle is one open virtual file: an in-memory byte slice plus a
// cursor, written back to the owning Host's filesystem map on Close.
type handle struct {
	host *Host
	name string
	mode ast.FileMode
	data []byte
	pos  int
}

func (fh *handle) Mode() ast.FileMode { return fh.mode }

func (fh *handle) ReadLine() (string, bool, error) {
	if fh.mode == ast.FileWrite {
		return "", false, fmt.Errorf("cannot read from a WRITE handle")
	}
	if fh.pos >= len(fh.data) {
		return "", false, nil
	}
	rest := fh.data[fh.pos:]
	idx := bytes.IndexByte(rest, '\n')
	if idx < 0 {
		fh.pos = len(fh.data)
		return strings.TrimRight(string(rest), "\r"), true, nil
	}
	line := rest[:idx]
	fh.pos += idx + 1
	return strings.TrimRight(string(line), "\r"), true, nil
}

func (fh *handle) WriteLine(s string) error {
	if fh.mode == ast.FileRead {
		return fmt.Errorf("cannot write to a READ handle")
	}
	fh.data = append(fh.data, []byte(s)...)
	fh.host.files[fh.name] = bytes.NewBuffer(append([]byte(nil), fh.data...))
	return nil
}

func (fh *handle) Seek(offset int64) error {
	if fh.mode != ast.FileRandom {
		return fmt.Errorf("SEEK requires a RANDOM handle")
	}
	if offset < 0 || int(offset) > len(fh.data) {
		fh.pos = len(fh.data)
		return nil
	}
	fh.pos = int(offset)
	return nil
}

func (fh *handle) ReadRecord(size int) (string, error) {
	if fh.mode != ast.FileRandom {
		return "", fmt.Errorf("GETRECORD requires a RANDOM handle")
	}
	end := fh.pos + size
	if end > len(fh.data) {
		end = len(fh.data)
	}
	rec := fh.data[fh.pos:end]
	fh.pos = end
	return strings.TrimRight(string(rec), "\x00"), nil
}

func (fh *handle) WriteRecord(s string, size int) error {
	if fh.mode != ast.FileRandom {
		return fmt.Errorf("PUTRECORD requires a RANDOM handle")
	}
	buf := make([]byte, size)
	copy(buf, s)
	end := fh.pos + size
	if end > len(fh.data) {
		grown := make([]byte, end)
		copy(grown, fh.data)
		fh.data = grown
	}
	copy(fh.data[fh.pos:end], buf)
	fh.pos = end
	fh.host.files[fh.name] = bytes.NewBuffer(append([]byte(nil), fh.data...))
	return nil
}

func (fh *handle) AtEOF() bool {
	if fh.mode == ast.FileWrite {
		return false
	}
	return fh.pos >= len(fh.data)
}

func (fh *handle) Close() error {
	fh.host.files[fh.name] = bytes.NewBuffer(append([]byte(nil), fh.data...))
	return nil
}
