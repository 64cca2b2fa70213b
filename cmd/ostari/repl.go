package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/oruby/ostar"
)

type repl struct {
	session *ostar.Session
	out     io.Writer
	verbose bool
}

// run evaluates code as expression when it parses as one, otherwise
// executes it as statements
func (r *repl) run(code string) {
	if strings.TrimSpace(code) == "" {
		return
	}

	if isExpression(code) {
		v, err := r.session.Eval(code)
		p(r.out, v, err)
		return
	}

	if err := r.session.Exec(code); err != nil {
		p(r.out, ostar.Nil, err)
		return
	}
	if r.verbose {
		for _, name := range r.session.Names() {
			if v, err := r.session.Read(name); err == nil {
				io.WriteString(r.out, name+" = "+v.Repr()+"\n")
			}
		}
	}
}

func isExpression(code string) bool {
	_, err := ostar.StarlarkOptions().ParseExpr("<stdin>", code, 0)
	return err == nil
}

// isCodeBlockOpen guesses if the user might want to enter more lines
// before code is evaluated
func isCodeBlockOpen(code string) bool {
	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	last := strings.TrimRight(lines[len(lines)-1], " \t")

	// explicit line continuation
	if strings.HasSuffix(last, "\\") {
		return true
	}

	if depth, quoted := nesting(code); depth > 0 || quoted {
		return true
	}

	// block statement is finished with blank line
	return blockStarted(lines) && last != ""
}

func blockStarted(lines []string) bool {
	for _, line := range lines {
		if t := strings.TrimRight(stripComment(line), " \t"); strings.HasSuffix(t, ":") {
			return true
		}
	}
	return false
}

// nesting returns open bracket depth and whether triple quoted string
// is left open. Single quoted strings end at line end.
func nesting(code string) (int, bool) {
	depth := 0
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '#':
			for i < len(code) && code[i] != '\n' {
				i++
			}
		case c == '"' || c == '\'':
			if strings.HasPrefix(code[i:], strings.Repeat(string(c), 3)) {
				end := strings.Index(code[i+3:], strings.Repeat(string(c), 3))
				if end < 0 {
					return depth, true
				}
				i += 3 + end + 2
				continue
			}
			for i++; i < len(code) && code[i] != c && code[i] != '\n'; i++ {
				if code[i] == '\\' {
					i++
				}
			}
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		}
	}
	return depth, false
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 && !strings.ContainsAny(line[:idx], `"'`) {
		return line[:idx]
	}
	return line
}

func argv(args []string) []interface{} {
	out := make([]interface{}, 0, len(args))
	for _, a := range args {
		out = append(out, a)
	}
	return out
}

func debugLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
