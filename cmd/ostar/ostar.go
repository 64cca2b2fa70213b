package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/oruby/ostar"
	_ "github.com/oruby/ostar/gem/base64"
	_ "github.com/oruby/ostar/gem/database"
	_ "github.com/oruby/ostar/gem/env"
	_ "github.com/oruby/ostar/gem/process"
	_ "github.com/oruby/ostar/gem/regexp"
)

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type Args struct {
	rfp         string
	cmdline     string
	manifest    string
	checkSyntax bool
	verbose     bool
	debug       bool
	maxSteps    uint64
	libs        listFlag
	paths       listFlag
	eline       string
}

func usage(name string) {
	usageMsg := []string{
		"switches:",
		"-c           check syntax only",
		"-d           log debug records to stderr",
		"-e 'command' one line of script",
		"-I dir       add dir to script search path",
		"-m manifest  run the program in every session of YAML manifest",
		"-r gem       require the gem before executing your script",
		"-s steps     limit execution steps of each script call",
		"-v           print version number, then run in verbose mode",
		"--verbose    run in verbose mode",
		"--version    print the version",
		"--copyright  print the copyright",
	}

	fmt.Printf("Usage: %v [switches] [programfile] [arguments]\n", name)
	for _, line := range usageMsg {
		fmt.Printf("  %v\n", line)
	}
}

func parseArgs(args *Args) (bool, error) {
	flag.Usage = func() { usage(os.Args[0]) }
	flag.BoolVar(&args.checkSyntax, "c", false, "check syntax only")
	flag.BoolVar(&args.debug, "d", false, "log debug records to stderr")
	flag.StringVar(&args.eline, "e", "", "one line of script")
	flag.Var(&args.paths, "I", "add dir to script search path")
	flag.StringVar(&args.manifest, "m", "", "run the program in every session of YAML manifest")
	flag.Var(&args.libs, "r", "require the gem before executing your script")
	flag.Uint64Var(&args.maxSteps, "s", 0, "limit execution steps of each script call")
	v := flag.Bool("v", false, "print version number, then run in verbose mode")
	flag.BoolVar(&args.verbose, "verbose", false, "run in verbose mode")
	version := flag.Bool("version", false, "print the version")
	copyright := flag.Bool("copyright", false, "print the copyright")

	flag.Parse()

	if *version {
		fmt.Println(ostar.Description())
		return false, nil
	}
	if *copyright {
		fmt.Println(ostar.Copyright())
		return false, nil
	}

	if *v {
		fmt.Println(ostar.Description())
		args.verbose = true
	}

	if args.eline != "" {
		args.cmdline = args.eline
	}

	if len(flag.Args()) > 0 {
		args.rfp = flag.Args()[0]
	}

	if args.cmdline == "" && args.rfp == "" {
		return false, nil
	}

	return true, nil
}

func exitFailure(format string, v ...any) int {
	log.Printf(format, v...)
	return 1
}

func (args *Args) options() []ostar.Option {
	level := slog.LevelWarn
	if args.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	argv := make([]interface{}, 0, len(flag.Args()))
	for _, a := range flag.Args() {
		argv = append(argv, a)
	}

	opts := []ostar.Option{
		ostar.WithLogger(logger),
		ostar.WithSearchPath(args.paths...),
		ostar.WithModules(args.libs...),
		ostar.WithBindings(map[string]interface{}{"ARGV": argv}),
	}
	if args.maxSteps > 0 {
		opts = append(opts, ostar.WithMaxSteps(args.maxSteps))
	}
	return opts
}

// program runs script file or command line in session
func (args *Args) program(s *ostar.Session) error {
	if args.rfp != "" {
		return s.ExecFile(args.rfp)
	}
	return s.Exec(args.cmdline)
}

func (args *Args) check() error {
	src := []byte(args.cmdline)
	name := "-e"
	if args.rfp != "" {
		var err error
		if src, err = os.ReadFile(args.rfp); err != nil {
			return err
		}
		name = args.rfp
	}

	_, err := ostar.StarlarkOptions().Parse(name, src, 0)
	return err
}

func main() {
	args := Args{}
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	if okToContinue, err := parseArgs(&args); !okToContinue {
		if err != nil {
			exitCode = exitFailure("%v", err)
		}
		return
	}

	if args.checkSyntax {
		if err := args.check(); err != nil {
			exitCode = exitFailure("%v: %v\n", os.Args[0], err)
			return
		}
		fmt.Println("Syntax OK")
		return
	}

	if args.manifest != "" {
		exitCode = runManifest(&args)
		return
	}

	s, err := ostar.New(args.options()...)
	if err != nil {
		exitCode = exitFailure("%v: %v\n", os.Args[0], err)
		return
	}
	defer s.Close()

	if err := args.program(s); err != nil {
		exitCode = exitFailure("%v: %v\n", os.Args[0], err)
		return
	}

	if args.verbose {
		dumpNames(s)
	}
}

func runManifest(args *Args) int {
	m, err := ostar.LoadManifest(args.manifest)
	if err != nil {
		return exitFailure("%v: %v\n", os.Args[0], err)
	}

	r := ostar.NewRegistry(args.options()...)
	defer r.Close()

	if err := r.Load(m); err != nil {
		return exitFailure("%v: %v\n", os.Args[0], err)
	}

	err = r.Each(context.Background(), func(_ context.Context, s *ostar.Session) error {
		if err := args.program(s); err != nil {
			return fmt.Errorf("session '%s': %w", s.Name(), err)
		}
		return nil
	})
	if err != nil {
		return exitFailure("%v: %v\n", os.Args[0], err)
	}

	if args.verbose {
		for _, name := range r.Names() {
			s, _ := r.Get(name)
			dumpNames(s)
		}
	}
	return 0
}

func dumpNames(s *ostar.Session) {
	for _, name := range s.Names() {
		v, err := s.Read(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s.%s = %s\n", s.Name(), name, v.Repr())
	}
}
