/*
** ostari - interactive shell for ostar sessions
**
** Takes code from the user line by line and executes it
** in one session. Expressions print their value.
 */
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/oruby/ostar"
	_ "github.com/oruby/ostar/gem/base64"
	_ "github.com/oruby/ostar/gem/database"
	_ "github.com/oruby/ostar/gem/env"
	_ "github.com/oruby/ostar/gem/process"
	_ "github.com/oruby/ostar/gem/regexp"
)

const historyFileName = ".ostari_history"

func getHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, historyFileName), nil
}

func p(w io.Writer, v ostar.Value, err error) {
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	if v.IsNil() {
		return
	}
	fmt.Fprintf(w, " => %s\n", v.Repr())
}

type Args struct {
	verbose bool
	debug   bool
	libs    listFlag
	preload listFlag
}

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func usage(name string) {
	usageMsg := []string{
		"switches:",
		"-d           log debug records to stderr",
		"-r gem       require the gem (same as `ostar -r`)",
		"-l file      execute script file before first prompt",
		"-v           print version number, then run in verbose mode",
		"--verbose    run in verbose mode",
		"--version    print the version",
		"--copyright  print the copyright",
	}

	fmt.Printf("Usage: %v [switches]\n", name)
	for _, msg := range usageMsg {
		fmt.Printf("  %v\n", msg)
	}
}

func parseArgs(args *Args) bool {
	flag.Usage = func() { usage(os.Args[0]) }
	flag.BoolVar(&args.debug, "d", false, "log debug records to stderr")
	flag.Var(&args.libs, "r", "require the gem")
	flag.Var(&args.preload, "l", "execute script file before first prompt")
	flag.BoolVar(&args.verbose, "verbose", false, "run in verbose mode")
	v := flag.Bool("v", false, "print version number, then run in verbose mode")
	version := flag.Bool("version", false, "print the version")
	copyright := flag.Bool("copyright", false, "print the copyright")

	flag.Parse()

	if *version {
		fmt.Println(ostar.Description())
		return false
	}
	if *copyright {
		fmt.Println(ostar.Copyright())
		return false
	}
	if *v {
		fmt.Println(ostar.Description())
		args.verbose = true
	}
	return true
}

// Print a short remark for the user
func printHint() {
	print("ostari - interactive ostar shell, type quit or exit to leave\n\n")
}

func checkKeyword(buf, word string) bool {
	return strings.TrimSpace(buf) == word
}

func main() {
	args := Args{}
	if !parseArgs(&args) {
		return
	}

	opts := []ostar.Option{
		ostar.WithName("ostari"),
		ostar.WithModules(args.libs...),
		ostar.WithPreload(args.preload...),
		ostar.WithBindings(map[string]interface{}{"ARGV": argv(flag.Args())}),
	}
	if args.debug {
		opts = append(opts, ostar.WithLogger(debugLogger()))
	}

	s, err := ostar.New(opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	historyPath, err := getHistoryPath()
	if err != nil {
		log.Fatal("failed to get history path")
	}

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	defer ln.Close()

	if f, err := os.Open(historyPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer writeHistory(ln, historyPath)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM)
	go func() {
		<-sig
		writeHistory(ln, historyPath)
		_ = ln.Close()
		os.Exit(1)
	}()

	printHint()
	r := &repl{session: s, out: os.Stdout, verbose: args.verbose}

	for {
		code, err := readChunk(ln, "> ", "* ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			println()
			return
		}

		if checkKeyword(code, "quit") || checkKeyword(code, "exit") {
			return
		}
		r.run(code)
	}
}

// readChunk prompts until buffered code is complete
func readChunk(ln *liner.State, prompt, cont string) (string, error) {
	var buf strings.Builder
	for {
		pr := prompt
		if buf.Len() > 0 {
			pr = cont
		}

		line, err := ln.Prompt(pr)
		if err == io.EOF && buf.Len() > 0 {
			return buf.String(), nil
		}
		if err != nil {
			return "", err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')

		if !isCodeBlockOpen(buf.String()) {
			return buf.String(), nil
		}
	}
}

func writeHistory(ln *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = ln.WriteHistory(f)
}
