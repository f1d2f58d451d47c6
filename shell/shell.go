package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/laadim/blockfs/fsys"
)

// Shell is the REPL: read a line, skip blank input, dispatch, print the
// result, stop on "exit" or EOF. Grounded on Shell.cpp, but fixes that
// file's prompt/print swap: this port prints the dispatcher's rendered
// output, not the raw status half of its (output, status) pair.
type Shell struct {
	dispatcher *Dispatcher
	engine     *fsys.Engine
	in         *bufio.Scanner
	out        io.Writer
}

// New builds a Shell reading lines from in and writing prompts/output to
// out, dispatching against engine.
func New(engine *fsys.Engine, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		dispatcher: NewDispatcher(engine),
		engine:     engine,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run drives the REPL until "exit" is dispatched or input reaches EOF.
func (s *Shell) Run() {
	for {
		fmt.Fprint(s.out, s.prompt())
		if !s.in.Scan() {
			return
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		result := s.dispatcher.Dispatch(line)
		if result == "exit" {
			return
		}
		fmt.Fprintln(s.out, result)
	}
}

// prompt renders "<cwd> > ". Before the image is formatted it renders
// "(unformatted) > ", and it falls back to a bare "> " if CurrentPath fails.
func (s *Shell) prompt() string {
	if !s.engine.Formatted() {
		return "(unformatted) > "
	}
	parts, err := s.engine.CurrentPath()
	if err != nil {
		return "> "
	}
	return "/" + strings.Join(parts, "/") + " > "
}
