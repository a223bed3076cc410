package interp

import (
	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/host"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
	"github.com/pseudocode-lang/pseudocode/internal/value"
)

// openFile is one entry in the interpreter's open-file table.
type openFile struct {
	handle host.Handle
	mode   ast.FileMode
}

func (in *Interpreter) fileNameArg(e ast.Expr) (string, error) {
	v, err := in.Eval(e)
	if err != nil {
		return "", err
	}
	s, ok := v.(value.String)
	if !ok {
		return "", in.newError(perror.KindType, e.Pos(), "filename must be a STRING, got %s", v.TypeName())
	}
	return s.Value, nil
}

func (in *Interpreter) execOpenFile(s *ast.OpenFile) error {
	name, err := in.fileNameArg(s.Filename)
	if err != nil {
		return err
	}
	if _, open := in.openFiles[name]; open {
		return in.newError(perror.KindState, s.Pos(), "file %q is already open", name)
	}
	h, err := in.Host.Open(name, s.Mode)
	if err != nil {
		return in.newError(perror.KindIO, s.Pos(), "%s", err)
	}
	in.openFiles[name] = &openFile{handle: h, mode: s.Mode}
	return nil
}

func (in *Interpreter) execCloseFile(s *ast.CloseFile) error {
	name, err := in.fileNameArg(s.Filename)
	if err != nil {
		return err
	}
	of, open := in.openFiles[name]
	if !open {
		return in.newError(perror.KindState, s.Pos(), "file %q is not open", name)
	}
	delete(in.openFiles, name)
	if err := of.handle.Close(); err != nil {
		return in.newError(perror.KindIO, s.Pos(), "%s", err)
	}
	return nil
}

func (in *Interpreter) lookupOpenFile(name string, pos ast.Span) (*openFile, error) {
	of, open := in.openFiles[name]
	if !open {
		return nil, in.newError(perror.KindState, pos, "file %q is not open", name)
	}
	return of, nil
}

func (in *Interpreter) execReadFile(s *ast.ReadFile) error {
	t, ok := in.Env.GetType(s.Variable)
	if !ok {
		return in.newError(perror.KindName, s.Pos(), "unknown variable %q", s.Variable)
	}
	if scalar, isScalar := t.(*ast.ScalarType); !isScalar || scalar.Kind != ast.KindString {
		return in.newError(perror.KindType, s.Pos(), "READFILE target must be STRING, got %s", t.String())
	}
	name, err := in.fileNameArg(s.Filename)
	if err != nil {
		return err
	}
	of, err := in.lookupOpenFile(name, s.Pos())
	if err != nil {
		return err
	}
	if of.mode == ast.FileWrite {
		return in.newError(perror.KindState, s.Pos(), "cannot READFILE from a WRITE handle")
	}
	line, ok, err := of.handle.ReadLine()
	if err != nil {
		return in.newError(perror.KindIO, s.Pos(), "%s", err)
	}
	if !ok {
		return in.newError(perror.KindIO, s.Pos(), "end of file %q reached", name)
	}
	in.Env.Set(s.Variable, value.String{Value: line})
	return nil
}

// execWriteFile stringifies every expression before touching the handle:
// argument evaluation must never overlap an outstanding handle borrow
// (an expression like EOF(f) may inspect the same handle).
func (in *Interpreter) execWriteFile(s *ast.WriteFile) error {
	name, err := in.fileNameArg(s.Filename)
	if err != nil {
		return err
	}
	var text string
	for _, e := range s.Exprs {
		v, err := in.Eval(e)
		if err != nil {
			return err
		}
		text += v.String()
	}
	text += "\n"

	of, err := in.lookupOpenFile(name, s.Pos())
	if err != nil {
		return err
	}
	if of.mode == ast.FileRead {
		return in.newError(perror.KindState, s.Pos(), "cannot WRITEFILE to a READ handle")
	}
	if err := of.handle.WriteLine(text); err != nil {
		return in.newError(perror.KindIO, s.Pos(), "%s", err)
	}
	return nil
}

func (in *Interpreter) execSeek(s *ast.Seek) error {
	name, err := in.fileNameArg(s.Filename)
	if err != nil {
		return err
	}
	addrVal, err := in.Eval(s.Address)
	if err != nil {
		return err
	}
	addr, ok := addrVal.(value.Integer)
	if !ok {
		return in.newError(perror.KindType, s.Address.Pos(), "SEEK address must be INTEGER")
	}
	of, err := in.lookupOpenFile(name, s.Pos())
	if err != nil {
		return err
	}
	if of.mode != ast.FileRandom {
		return in.newError(perror.KindState, s.Pos(), "SEEK requires a RANDOM handle")
	}
	if err := of.handle.Seek(int64(addr.Value)); err != nil {
		return in.newError(perror.KindIO, s.Pos(), "%s", err)
	}
	return nil
}

func (in *Interpreter) execGetRecord(s *ast.GetRecord) error {
	name, err := in.fileNameArg(s.Filename)
	if err != nil {
		return err
	}
	if _, ok := in.Env.GetType(s.Variable); !ok {
		return in.newError(perror.KindName, s.Pos(), "unknown variable %q", s.Variable)
	}
	of, err := in.lookupOpenFile(name, s.Pos())
	if err != nil {
		return err
	}
	if of.mode != ast.FileRandom {
		return in.newError(perror.KindState, s.Pos(), "GETRECORD requires a RANDOM handle")
	}
	content, err := of.handle.ReadRecord(in.RecordSize)
	if err != nil {
		return in.newError(perror.KindIO, s.Pos(), "%s", err)
	}
	in.Env.Set(s.Variable, value.String{Value: content})
	return nil
}

func (in *Interpreter) execPutRecord(s *ast.PutRecord) error {
	name, err := in.fileNameArg(s.Filename)
	if err != nil {
		return err
	}
	v, ok := in.Env.Get(s.Variable)
	if !ok {
		return in.newError(perror.KindName, s.Pos(), "unknown variable %q", s.Variable)
	}
	of, err := in.lookupOpenFile(name, s.Pos())
	if err != nil {
		return err
	}
	if of.mode != ast.FileRandom {
		return in.newError(perror.KindState, s.Pos(), "PUTRECORD requires a RANDOM handle")
	}
	if err := of.handle.WriteRecord(v.String(), in.RecordSize); err != nil {
		return in.newError(perror.KindIO, s.Pos(), "%s", err)
	}
	return nil
}
