// Package native backs the CLI driver: real OS files and real stdio,
// wrapped behind the host interfaces so the interpreter never touches
// os.File directly.
package native

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/host"
)

// Host is the OS-filesystem-and-stdio Host implementation.
type Host struct {
	// BaseDir is the directory relative paths are resolved against
	// (normally the directory containing the source file being run).
	BaseDir string

	in  *bufio.Scanner
	out io.Writer
}

// New returns a Host reading INPUT lines from r and writing OUTPUT to w.
func New(baseDir string, r io.Reader, w io.Writer) *Host {
	return &Host{BaseDir: baseDir, in: bufio.NewScanner(r), out: w}
}

func (h *Host) resolve(name string) string {
	if filepath.IsAbs(name) || h.BaseDir == "" {
		return name
	}
	return filepath.Join(h.BaseDir, name)
}

func (h *Host) Open(name string, mode ast.FileMode) (host.Handle, error) {
	path := h.resolve(name)
	switch mode {
	case ast.FileRead:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return &fileHandle{file: f, mode: mode, reader: bufio.NewReader(f)}, nil
	case ast.FileWrite:
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return &fileHandle{file: f, mode: mode}, nil
	case ast.FileRandom:
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return nil, err
		}
		return &fileHandle{file: f, mode: mode, reader: bufio.NewReader(f)}, nil
	default:
		return nil, fmt.Errorf("unknown file mode")
	}
}

func (h *Host) ReadInput() (string, bool) {
	if h.in.Scan() {
		return h.in.Text(), true
	}
	return "", false
}

func (h *Host) Write(s string) {
	fmt.Fprint(h.out, s)
}

// fileHandle wraps one os.File opened in a particular mode.
type fileHandle struct {
	file   *os.File
	mode   ast.FileMode
	reader *bufio.Reader
	atEOF  bool
}

func (fh *fileHandle) Mode() ast.FileMode { return fh.mode }

func (fh *fileHandle) ReadLine() (string, bool, error) {
	if fh.mode == ast.FileWrite {
		return "", false, fmt.Errorf("cannot read from a WRITE handle")
	}
	line, err := fh.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			fh.atEOF = true
			if line == "" {
				return "", false, nil
			}
			return strings.TrimRight(line, "\r\n"), true, nil
		}
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func (fh *fileHandle) WriteLine(s string) error {
	if fh.mode == ast.FileRead {
		return fmt.Errorf("cannot write to a READ handle")
	}
	if _, err := fh.file.WriteString(s); err != nil {
		return err
	}
	return fh.file.Sync()
}

func (fh *fileHandle) Seek(offset int64) error {
	if fh.mode != ast.FileRandom {
		return fmt.Errorf("SEEK requires a RANDOM handle")
	}
	if _, err := fh.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	fh.reader.Reset(fh.file)
	fh.atEOF = false
	return nil
}

// ReadRecord reads through the same buffered reader ReadLine uses, so a
// line read followed by a record read continues from the logical
// position, not from wherever the reader's fill left the OS offset.
func (fh *fileHandle) ReadRecord(size int) (string, error) {
	if fh.mode != ast.FileRandom {
		return "", fmt.Errorf("GETRECORD requires a RANDOM handle")
	}
	buf := make([]byte, size)
	n, err := io.ReadFull(fh.reader, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(string(buf[:n]), "\x00"), nil
}

func (fh *fileHandle) WriteRecord(s string, size int) error {
	if fh.mode != ast.FileRandom {
		return fmt.Errorf("PUTRECORD requires a RANDOM handle")
	}
	buf := make([]byte, size)
	copy(buf, s)
	if _, err := fh.file.Write(buf); err != nil {
		return err
	}
	fh.reader.Reset(fh.file)
	return fh.file.Sync()
}

func (fh *fileHandle) AtEOF() bool {
	if fh.mode == ast.FileWrite {
		return false
	}
	if fh.atEOF {
		return true
	}
	_, err := fh.reader.Peek(1)
	return err == io.EOF
}

func (fh *fileHandle) Close() error {
	return fh.file.Close()
}
