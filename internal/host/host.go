// Package host defines the adapter boundary between the interpreter and
// its surroundings: file backends, the input source, and the output
// sink. internal/host/native backs the CLI driver with the OS
// filesystem and stdio; internal/host/virtual backs the embedded engine
// with an in-memory filesystem, a scripted input queue, and a captured
// output buffer.
package host

import "github.com/pseudocode-lang/pseudocode/internal/ast"

// Handle is one open file, in whichever mode it was opened with. The
// READ, WRITE, and RANDOM behaviours are distinct implementations
// sharing this interface.
type Handle interface {
	Mode() ast.FileMode

	// ReadLine returns one line with its terminator stripped, and ok=false
	// once the handle is exhausted. Valid on READ and RANDOM handles.
	ReadLine() (line string, ok bool, err error)

	// WriteLine appends a line (the caller supplies the trailing newline
	// policy via Output/WriteFile). Valid on WRITE and RANDOM handles.
	WriteLine(s string) error

	// Seek sets the stream position to an absolute byte offset. RANDOM
	// only.
	Seek(offset int64) error

	// ReadRecord reads exactly size bytes at the current position.
	ReadRecord(size int) (string, error)

	// WriteRecord truncates/zero-pads s to size bytes and writes it at
	// the current position.
	WriteRecord(s string, size int) error

	// AtEOF reports whether the handle is positioned at end of stream.
	// Write-only handles always report false, per the EOF() built-in's
	// documented behaviour.
	AtEOF() bool

	Close() error
}

// Host is the native/virtual adapter boundary. Exactly one filesystem
// concern (Open) plus the INPUT/OUTPUT statement's stdio-or-queue
// concern (ReadInput/Write).
type Host interface {
	// Open opens name in the given mode, resolving relative paths per
	// the adapter's own policy (native: relative to the source file's
	// directory; virtual: looked up directly in the virtual filesystem).
	Open(name string, mode ast.FileMode) (Handle, error)

	// ReadInput returns the next input line for an INPUT statement, and
	// ok=false when no more input is available.
	ReadInput() (line string, ok bool)

	// Write sends one OUTPUT statement's fully-concatenated text
	// (including its trailing newline) to the output sink.
	Write(s string)
}
