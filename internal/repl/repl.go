// Package repl implements the interactive shell for the pseudocode
// interpreter: a readline-backed loop that accumulates lines until the
// parser reports either a complete program or a genuine syntax error.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/pseudocode-lang/pseudocode/internal/config"
	"github.com/pseudocode-lang/pseudocode/internal/host/native"
	"github.com/pseudocode-lang/pseudocode/internal/interp"
	"github.com/pseudocode-lang/pseudocode/internal/parser"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// specialWords are the shell-only commands: exit/quit end the session,
// help prints usage, clear resets interpreter state.
var specialWords = map[string]bool{
	"exit": true, "quit": true, "help": true, "clear": true,
}

// Repl is one interactive session: its configuration and the
// interpreter state that persists across inputs until 'clear'.
type Repl struct {
	cfg config.Config
	in  *interp.Interpreter
	out io.Writer
}

// New returns a Repl writing output to w. Its native.Host resolves files
// on the OS; INPUT statements read from an empty reader, so every INPUT
// finds no line.
func New(cfg config.Config, w io.Writer) *Repl {
	return &Repl{cfg: cfg, in: newInterpreter(cfg, w), out: w}
}

func newInterpreter(cfg config.Config, w io.Writer) *interp.Interpreter {
	host := native.New("", strings.NewReader(""), w)
	in := interp.New(host)
	in.RecordSize = cfg.RecordSize
	return in
}

func (r *Repl) printBanner() {
	line := strings.Repeat("-", 60)
	blueColor.Fprintf(r.out, "%s\n", line)
	greenColor.Fprintf(r.out, "%s\n", r.cfg.REPL.Banner)
	blueColor.Fprintf(r.out, "%s\n", line)
	cyanColor.Fprintln(r.out, "Type pseudocode statements and press enter.")
	cyanColor.Fprintln(r.out, "A block (IF/WHILE/FOR/FUNCTION/...) may span multiple lines.")
	cyanColor.Fprintln(r.out, "Special commands: exit, quit, help, clear.")
	blueColor.Fprintf(r.out, "%s\n", line)
}

func (r *Repl) printHelp() {
	cyanColor.Fprintln(r.out, "exit, quit  - leave the shell")
	cyanColor.Fprintln(r.out, "help        - show this message")
	cyanColor.Fprintln(r.out, "clear       - reset all declared variables, types, and functions")
}

// Start runs the read-accumulate-eval-print loop until the user exits
// or input ends (Ctrl+D).
func (r *Repl) Start() error {
	r.printBanner()

	rl, err := readline.New(r.cfg.REPL.Prompt)
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	var buf strings.Builder
	continuation := false

	for {
		prompt := r.cfg.REPL.Prompt
		if continuation {
			prompt = strings.Repeat(" ", len(r.cfg.REPL.Prompt)-2) + ".. "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err != nil {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}

		trimmed := strings.TrimSpace(line)

		if !continuation && specialWords[strings.ToLower(trimmed)] {
			if r.handleSpecial(strings.ToLower(trimmed)) {
				return nil
			}
			continue
		}

		if trimmed == "" && buf.Len() == 0 {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)
		rl.SaveHistory(line)

		if trimmed == "" {
			// A blank line forces evaluation even if the parser would
			// otherwise ask for more input.
			r.evalAndPrint(buf.String())
			buf.Reset()
			continuation = false
			continue
		}

		source := buf.String()
		p, perr := parser.New(source)
		if perr != nil {
			redColor.Fprintf(r.out, "%s\n", perr)
			buf.Reset()
			continuation = false
			continue
		}
		_, parseErr := p.ParseProgram()
		if parseErr == nil {
			r.evalAndPrint(source)
			buf.Reset()
			continuation = false
			continue
		}
		if _, needsMore := parseErr.(*parser.ErrNeedsMoreInput); needsMore {
			continuation = true
			continue
		}
		redColor.Fprintf(r.out, "%s\n", parseErr)
		buf.Reset()
		continuation = false
	}
}

func (r *Repl) handleSpecial(word string) (exit bool) {
	switch word {
	case "exit", "quit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true
	case "help":
		r.printHelp()
	case "clear":
		r.in = newInterpreter(r.cfg, r.out)
		yellowColor.Fprintln(r.out, "Interpreter state cleared.")
	}
	return false
}

func (r *Repl) evalAndPrint(source string) {
	p, err := parser.New(source)
	if err != nil {
		redColor.Fprintf(r.out, "%s\n", err)
		return
	}
	program, err := p.ParseProgram()
	if err != nil {
		redColor.Fprintf(r.out, "%s\n", err)
		return
	}
	r.in.Source = source
	if err := r.in.Run(program); err != nil {
		redColor.Fprintf(r.out, "%s\n", err)
	}
}
