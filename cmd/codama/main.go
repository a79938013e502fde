package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/calumari/codama"
	"github.com/calumari/codama/internal/generator"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// deriveVersion reports the module version from the build info, else the
// first 12 characters of the vcs revision, else "devel".
func deriveVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			return bi.Main.Version
		}
		var revision string
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				revision = s.Value
				break
			}
		}
		if len(revision) >= 12 {
			return revision[:12]
		}
		if revision != "" {
			return revision
		}
	}
	return "devel"
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: codama <command> [flags]\n")
	fmt.Fprintf(w, "\nCodama extracts an IDL from Rust crates annotated with codama attributes.\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  generate-idl <path>...  write the IDL of the crates at path as JSON\n")
	fmt.Fprintf(w, "  version                 print the build version\n")
	fmt.Fprintf(w, "\nExample:\n")
	fmt.Fprintf(w, "  codama generate-idl programs/counter --output idl/counter.json --pretty\n")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "generate-idl":
		return generateIDL(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, deriveVersion())
		return exitOK
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	}
	fmt.Fprintf(stderr, "codama: unknown command %q\n\n", args[0])
	usage(stderr)
	return exitUsage
}

func generateIDL(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate-idl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		output  string
		pretty  bool
		dbg     bool
		verbose bool
	)
	fs.StringVar(&output, "output", "", "Output filename for the IDL (default stdout)")
	fs.BoolVar(&pretty, "pretty", isTerminal(stdout), "Indent the JSON (default when stdout is a terminal)")
	fs.BoolVar(&dbg, "debug", false, "Print the visited korok tree to stderr")
	fs.BoolVar(&verbose, "verbose", false, "Log visitor decisions to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: codama generate-idl <path>... [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(interleaved(fs, args)); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "Error: a crate path is required\n\n")
		fs.Usage()
		return exitUsage
	}

	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(stderr, "codama: %v\n", err)
			return exitError
		}
		defer func() { _ = logger.Sync() }()
		codama.SetLogger(logger)
	}

	cfg := generator.Config{
		Paths:   fs.Args(),
		Output:  output,
		Pretty:  pretty,
		Debug:   dbg,
		Color:   isTerminal(stderr),
		Version: deriveVersion(),
		Stdout:  stdout,
		Stderr:  stderr,
	}
	if err := generator.Run(cfg); err != nil {
		if rerr := generator.Report(stderr, err); rerr != nil {
			fmt.Fprintf(stderr, "codama: %v\n", err)
		}
		return exitError
	}
	return exitOK
}

// interleaved moves flags found after positional arguments to the front so
// `generate-idl path --pretty` parses like `generate-idl --pretty path`.
func interleaved(fs *flag.FlagSet, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(a) < 2 || a[0] != '-' {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := a[1:]
		if name[0] == '-' {
			name = name[1:]
		}
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBool(f) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(append(flags, "--"), positional...)
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
