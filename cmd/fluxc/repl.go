package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/peterh/liner"

	"github.com/fluxlang/fluxc/internal/archive"
	"github.com/fluxlang/fluxc/internal/pipeline"
	"github.com/fluxlang/fluxc/internal/symbol"
)

// replSession inspects an already-computed pipeline.Result: there is no
// parser to feed it new source, so unlike the teacher's REPL (which
// re-evaluates a typed expression per line) this one's commands walk the
// tables the last run already built, plus :reload to run the pipeline
// again and diff the two archives.
//
// Grounded on the teacher's internal/repl/repl.go Start: the same
// liner.NewLiner, temp-dir history file, SetMultiLineMode(true), and
// SetCompleter/:-command dispatch loop, adapted from "evaluate an
// expression" to "inspect a compiled archive".
type replSession struct {
	cfg    pipeline.Config
	core   symbol.Package
	input  pipeline.PackageInput
	result *pipeline.Result
}

var replCommands = []string{":symbols", ":methods", ":externals", ":timings", ":reload", ":help", ":quit"}

func runREPL(cfg pipeline.Config, core symbol.Package, input pipeline.PackageInput, result *pipeline.Result) {
	out := os.Stdout

	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".fluxc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetMultiLineMode(true)
	line.SetCompleter(func(text string) (c []string) {
		if strings.HasPrefix(text, ":") {
			for _, cmd := range replCommands {
				if strings.HasPrefix(cmd, text) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s\n", bold("fluxc interactive"))
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit"))
	fmt.Fprintln(out)

	sess := &replSession{cfg: cfg, core: core, input: input, result: result}

	for {
		input, err := line.Prompt("flux> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ":quit" || input == ":q" || input == ":exit" {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}

		sess.handle(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (s *replSession) handle(cmd string, out io.Writer) {
	switch {
	case cmd == ":help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :symbols    list every symbol-table row")
		fmt.Fprintln(out, "  :methods    list every method-table row")
		fmt.Fprintln(out, "  :externals  list every external binding")
		fmt.Fprintln(out, "  :timings    print the last run's per-phase timings")
		fmt.Fprintln(out, "  :reload     re-run the pipeline and diff against the last archive")
		fmt.Fprintln(out, "  :quit       exit")
	case cmd == ":symbols":
		s.printSymbols(out)
	case cmd == ":methods":
		s.printMethods(out)
	case cmd == ":externals":
		s.printExternals(out)
	case cmd == ":timings":
		s.printTimings(out)
	case cmd == ":reload":
		s.reload(out)
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", yellow("Warning"), cmd)
	}
}

func (s *replSession) archive() *archive.Archive {
	return s.result.Archives[s.input.Pkg.String()]
}

func (s *replSession) printSymbols(out io.Writer) {
	arc := s.archive()
	if arc == nil || len(arc.Symbols) == 0 {
		fmt.Fprintln(out, dim("(no symbols)"))
		return
	}
	for _, sym := range arc.Symbols {
		fmt.Fprintf(out, "  %s %s : %s\n", cyan(sym.Access), sym.Name, sym.Type)
	}
}

func (s *replSession) printMethods(out io.Writer) {
	arc := s.archive()
	if arc == nil || len(arc.Methods) == 0 {
		fmt.Fprintln(out, dim("(no methods)"))
		return
	}
	for _, m := range arc.Methods {
		fmt.Fprintf(out, "  %s.%s : %s\n", m.Base, m.Name, m.Type)
	}
}

func (s *replSession) printExternals(out io.Writer) {
	arc := s.archive()
	if arc == nil || len(arc.Externals) == 0 {
		fmt.Fprintln(out, dim("(no externals)"))
		return
	}
	for _, e := range arc.Externals {
		fmt.Fprintf(out, "  %s -> %s (%s)\n", e.Name, e.ImportedName, e.SourceFile)
	}
}

func (s *replSession) printTimings(out io.Writer) {
	phases := make([]string, 0, len(s.result.PhaseTimings))
	for phase := range s.result.PhaseTimings {
		phases = append(phases, phase)
	}
	sort.Strings(phases)
	for _, phase := range phases {
		fmt.Fprintf(out, "  %-12s %dms\n", phase, s.result.PhaseTimings[phase])
	}
}

// reload re-runs the pipeline over the same input and reports what changed
// in the resulting archive. It diffs the two archives' stable interface
// tables (ToJSON's wire form, which stays free of internal/types's
// unexported fields) rather than the raw Archive values, since go-cmp
// refuses to descend into unexported struct fields without an explicit
// exception, and the wire form is exactly what a caller asks "did this
// package's public interface change" of.
func (s *replSession) reload(out io.Writer) {
	next, err := pipeline.Run(s.cfg, s.core, []pipeline.PackageInput{s.input})
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}
	before := s.archive()
	s.result = next
	after := s.archive()

	beforeJSON, _ := before.ToJSON()
	afterJSON, _ := after.ToJSON()

	diff := cmp.Diff(string(beforeJSON), string(afterJSON))
	if diff == "" {
		fmt.Fprintln(out, dim("(no change)"))
		return
	}
	fmt.Fprintln(out, diff)
}
