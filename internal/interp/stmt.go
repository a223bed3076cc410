package interp

import (
	"fmt"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
	"github.com/pseudocode-lang/pseudocode/internal/value"
)

// execBlock runs stmts in order, stopping at the first error or the
// first Return control signal.
func (in *Interpreter) execBlock(stmts []ast.Stmt) (*controlSignal, error) {
	for _, stmt := range stmts {
		sig, err := in.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig, nil
		}
	}
	return nil, nil
}

func (in *Interpreter) execStmt(stmt ast.Stmt) (*controlSignal, error) {
	switch s := stmt.(type) {
	case *ast.Declare:
		return nil, in.execDeclare(s)
	case *ast.Define:
		return nil, in.execDefine(s)
	case *ast.Constant:
		return nil, in.execConstant(s)
	case *ast.Assign:
		return nil, in.execAssign(s)
	case *ast.TypeDeclaration:
		in.Env.DeclareType(s.Name, s.Decl)
		return nil, nil
	case *ast.If:
		return in.execIf(s)
	case *ast.While:
		return in.execWhile(s)
	case *ast.For:
		return in.execFor(s)
	case *ast.RepeatUntil:
		return in.execRepeatUntil(s)
	case *ast.Case:
		return in.execCase(s)
	case *ast.FunctionDeclaration:
		return nil, in.execFunctionDeclaration(s)
	case *ast.ProcedureDeclaration:
		return nil, in.execProcedureDeclaration(s)
	case *ast.Call:
		_, err := in.execCall(s)
		return nil, err
	case *ast.Return:
		return in.execReturn(s)
	case *ast.Input:
		return nil, in.execInput(s)
	case *ast.Output:
		return nil, in.execOutput(s)
	case *ast.OpenFile:
		return nil, in.execOpenFile(s)
	case *ast.CloseFile:
		return nil, in.execCloseFile(s)
	case *ast.ReadFile:
		return nil, in.execReadFile(s)
	case *ast.WriteFile:
		return nil, in.execWriteFile(s)
	case *ast.Seek:
		return nil, in.execSeek(s)
	case *ast.GetRecord:
		return nil, in.execGetRecord(s)
	case *ast.PutRecord:
		return nil, in.execPutRecord(s)
	default:
		return nil, in.newError(perror.KindParse, stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (in *Interpreter) execDeclare(s *ast.Declare) error {
	if arr, ok := s.Type.(*ast.ArrayType); ok {
		return in.execDeclareArray(s, arr)
	}

	if s.InitialValue != nil {
		v, err := in.Eval(s.InitialValue)
		if err != nil {
			return err
		}
		in.Env.Declare(s.Name, v, s.Type)
		return nil
	}

	v, err := value.Default(s.Type, in.Env.TypeDefs())
	if err != nil {
		return in.newError(perror.KindType, s.Pos(), "%s", err)
	}
	in.Env.Declare(s.Name, v, s.Type)
	return nil
}

// execDeclareArray evaluates dimension bound expressions eagerly,
// requiring lo >= 0 and hi >= lo for every dimension.
func (in *Interpreter) execDeclareArray(s *ast.Declare, arr *ast.ArrayType) error {
	dims := make([]int, len(arr.Dimensions))
	starts := make([]int, len(arr.Dimensions))
	for i, d := range arr.Dimensions {
		loVal, err := in.Eval(d.Lo)
		if err != nil {
			return err
		}
		hiVal, err := in.Eval(d.Hi)
		if err != nil {
			return err
		}
		lo, ok := loVal.(value.Integer)
		if !ok {
			return in.newError(perror.KindType, d.Lo.Pos(), "array bound must be INTEGER, got %s", loVal.TypeName())
		}
		hi, ok := hiVal.(value.Integer)
		if !ok {
			return in.newError(perror.KindType, d.Hi.Pos(), "array bound must be INTEGER, got %s", hiVal.TypeName())
		}
		if lo.Value < 0 || hi.Value < lo.Value {
			return in.newError(perror.KindBounds, s.Pos(), "invalid array bounds [%d:%d]", lo.Value, hi.Value)
		}
		dims[i] = int(hi.Value-lo.Value) + 1
		starts[i] = int(lo.Value)
	}
	arrVal, err := value.NewArray(arr.Element, dims, starts, in.Env.TypeDefs())
	if err != nil {
		return in.newError(perror.KindType, s.Pos(), "%s", err)
	}
	in.Env.Declare(s.Name, arrVal, arr)
	return nil
}

// execDefine builds a SET OF T value from literal element text; DEFINE
// targets must name a SET type.
func (in *Interpreter) execDefine(s *ast.Define) error {
	t, ok := in.Env.LookupType(s.TypeName)
	if !ok {
		return in.newError(perror.KindName, s.Pos(), "unknown type %q", s.TypeName)
	}
	setType, ok := t.(*ast.SetType)
	if !ok {
		return in.newError(perror.KindType, s.Pos(), "DEFINE requires a SET OF T type, got %s", t.String())
	}
	elements := make([]value.Value, len(s.Values))
	for i, text := range s.Values {
		v, err := parseLiteralValue(text, setType.Element)
		if err != nil {
			return in.newError(perror.KindValue, s.Pos(), "%s", err)
		}
		elements[i] = v
	}
	in.Env.Declare(s.Name, value.Set{ElementType: setType.Element, Elements: elements}, setType)
	return nil
}

func (in *Interpreter) execConstant(s *ast.Constant) error {
	var v value.Value
	var err error
	if s.Value != nil {
		v, err = in.Eval(s.Value)
		if err != nil {
			return err
		}
	} else {
		existing, ok := in.Env.Get(s.Name)
		if !ok {
			return in.newError(perror.KindName, s.Pos(), "cannot freeze undeclared name %q", s.Name)
		}
		v = existing
	}
	in.Env.Declare(s.Name, v, inferType(v))
	in.Env.MarkConstant(s.Name)
	return nil
}

func (in *Interpreter) execAssign(s *ast.Assign) error {
	v, err := in.Eval(s.Expression)
	if err != nil {
		return err
	}
	return in.assignLValue(s.Target, v)
}

func (in *Interpreter) execIf(s *ast.If) (*controlSignal, error) {
	cond, err := in.Eval(s.Condition)
	if err != nil {
		return nil, err
	}
	truth, err := value.Truthy(cond)
	if err != nil {
		return nil, in.newError(perror.KindType, s.Condition.Pos(), "%s", err)
	}
	in.pushContext("in IF")
	defer in.popContext()
	if truth {
		return in.execBlock(s.Then)
	}
	return in.execBlock(s.Else)
}

func (in *Interpreter) execWhile(s *ast.While) (*controlSignal, error) {
	in.pushContext("in WHILE loop")
	defer in.popContext()
	iteration := 0
	for {
		cond, err := in.Eval(s.Condition)
		if err != nil {
			return nil, err
		}
		truth, err := value.Truthy(cond)
		if err != nil {
			return nil, in.newError(perror.KindType, s.Condition.Pos(), "%s", err)
		}
		if !truth {
			return nil, nil
		}
		iteration++
		in.setTopContext(fmt.Sprintf("in WHILE loop (iteration %d)", iteration))
		sig, err := in.execBlock(s.Body)
		if err != nil || sig != nil {
			return sig, err
		}
	}
}

func (in *Interpreter) execRepeatUntil(s *ast.RepeatUntil) (*controlSignal, error) {
	in.pushContext("in REPEAT loop")
	defer in.popContext()
	iteration := 0
	for {
		iteration++
		in.setTopContext(fmt.Sprintf("in REPEAT loop (iteration %d)", iteration))
		sig, err := in.execBlock(s.Body)
		if err != nil || sig != nil {
			return sig, err
		}
		cond, err := in.Eval(s.Condition)
		if err != nil {
			return nil, err
		}
		truth, err := value.Truthy(cond)
		if err != nil {
			return nil, in.newError(perror.KindType, s.Condition.Pos(), "%s", err)
		}
		if truth {
			return nil, nil
		}
	}
}

func (in *Interpreter) execFor(s *ast.For) (*controlSignal, error) {
	startVal, err := in.Eval(s.Start)
	if err != nil {
		return nil, err
	}
	endVal, err := in.Eval(s.End)
	if err != nil {
		return nil, err
	}
	start, ok := startVal.(value.Integer)
	if !ok {
		return nil, in.newError(perror.KindType, s.Start.Pos(), "FOR bounds must be INTEGER, got %s", startVal.TypeName())
	}
	end, ok := endVal.(value.Integer)
	if !ok {
		return nil, in.newError(perror.KindType, s.End.Pos(), "FOR bounds must be INTEGER, got %s", endVal.TypeName())
	}

	step := int32(1)
	if s.Step != nil {
		stepVal, err := in.Eval(s.Step)
		if err != nil {
			return nil, err
		}
		stepInt, ok := stepVal.(value.Integer)
		if !ok {
			return nil, in.newError(perror.KindType, s.Step.Pos(), "FOR STEP must be INTEGER, got %s", stepVal.TypeName())
		}
		step = stepInt.Value
	}
	if step == 0 {
		return nil, in.newError(perror.KindArithmetic, s.Pos(), "FOR STEP must not be zero")
	}

	prevVal, hadPrev := in.Env.Get(s.Counter)
	prevType, _ := in.Env.GetType(s.Counter)

	in.pushContext("in FOR loop")
	defer in.popContext()

	counter := start.Value
	iteration := 0
	for (step > 0 && counter <= end.Value) || (step < 0 && counter >= end.Value) {
		iteration++
		in.setTopContext(fmt.Sprintf("in FOR loop (iteration %d)", iteration))
		in.Env.Declare(s.Counter, value.Integer{Value: counter}, &ast.ScalarType{Kind: ast.KindInteger})
		sig, err := in.execBlock(s.Body)
		if err != nil {
			in.restoreForCounter(s.Counter, prevVal, prevType, hadPrev)
			return nil, err
		}
		if sig != nil {
			in.restoreForCounter(s.Counter, prevVal, prevType, hadPrev)
			return sig, nil
		}
		counter += step
	}
	in.restoreForCounter(s.Counter, prevVal, prevType, hadPrev)
	return nil, nil
}

func (in *Interpreter) restoreForCounter(name string, prevVal value.Value, prevType ast.Type, hadPrev bool) {
	if hadPrev {
		in.Env.Declare(name, prevVal, prevType)
		return
	}
	in.Env.Remove(name)
}

func (in *Interpreter) execCase(s *ast.Case) (*controlSignal, error) {
	subject, err := in.Eval(s.Expression)
	if err != nil {
		return nil, err
	}
	for _, branch := range s.Branches {
		label, err := in.Eval(branch.Value)
		if err != nil {
			return nil, err
		}
		if valuesEqual(subject, label) {
			return in.execBlock(branch.Body)
		}
	}
	if s.Otherwise != nil {
		return in.execBlock(s.Otherwise)
	}
	return nil, nil
}

func (in *Interpreter) execFunctionDeclaration(s *ast.FunctionDeclaration) error {
	if in.Env.HasCallable(s.Name) {
		return in.newError(perror.KindState, s.Pos(), "function %q already declared", s.Name)
	}
	in.Env.DeclareFunction(s.Name, &FunctionDef{Params: s.Params, ReturnType: s.ReturnType, Body: s.Body})
	return nil
}

func (in *Interpreter) execProcedureDeclaration(s *ast.ProcedureDeclaration) error {
	if in.Env.HasCallable(s.Name) {
		return in.newError(perror.KindState, s.Pos(), "procedure %q already declared", s.Name)
	}
	in.Env.DeclareProcedure(s.Name, &ProcedureDef{Params: s.Params, Body: s.Body})
	return nil
}

func (in *Interpreter) execCall(s *ast.Call) (value.Value, error) {
	proc, ok := in.Env.LookupProcedure(s.Name)
	if !ok {
		return nil, in.newError(perror.KindName, s.Pos(), "unknown procedure %q", s.Name)
	}
	if len(s.Args) != len(proc.Params) {
		return nil, in.newError(perror.KindArity, s.Pos(), "%s expects %d argument(s), got %d", s.Name, len(proc.Params), len(s.Args))
	}
	args := make([]value.Value, len(s.Args))
	for i, a := range s.Args {
		v, err := in.Eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	in.callStack = append(in.callStack, s.Name)
	defer func() { in.callStack = in.callStack[:len(in.callStack)-1] }()

	in.Env.PushScope()
	defer in.Env.PopScope()
	for i, p := range proc.Params {
		in.Env.Declare(p.Name, args[i], p.Type)
	}

	_, err := in.execBlock(proc.Body)
	return nil, err
}

func (in *Interpreter) execReturn(s *ast.Return) (*controlSignal, error) {
	if s.Value == nil {
		return &controlSignal{isReturn: true}, nil
	}
	v, err := in.Eval(s.Value)
	if err != nil {
		return nil, err
	}
	return &controlSignal{isReturn: true, returnValue: v, hasRetValue: true}, nil
}

func (in *Interpreter) execInput(s *ast.Input) error {
	t, ok := in.Env.GetType(s.Name)
	if !ok {
		return in.newError(perror.KindName, s.Pos(), "unknown variable %q", s.Name)
	}
	line, ok := in.Host.ReadInput()
	if !ok {
		return in.newError(perror.KindIO, s.Pos(), "no more input available for %q", s.Name)
	}
	v, err := parseInputValue(line, t)
	if err != nil {
		return in.newError(perror.KindValue, s.Pos(), "%s", err)
	}
	in.Env.Set(s.Name, v)
	return nil
}

func (in *Interpreter) execOutput(s *ast.Output) error {
	var sb []byte
	for _, e := range s.Exprs {
		v, err := in.Eval(e)
		if err != nil {
			return err
		}
		sb = append(sb, v.String()...)
	}
	sb = append(sb, '\n')
	in.Host.Write(string(sb))
	return nil
}

func (in *Interpreter) pushContext(label string) {
	in.contextStack = append(in.contextStack, label)
}

func (in *Interpreter) setTopContext(label string) {
	if len(in.contextStack) > 0 {
		in.contextStack[len(in.contextStack)-1] = label
	}
}

func (in *Interpreter) popContext() {
	if len(in.contextStack) > 0 {
		in.contextStack = in.contextStack[:len(in.contextStack)-1]
	}
}
