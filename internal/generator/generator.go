package generator

import (
	"io"
	"os"
)

// Config holds the settings of one generate-idl invocation.
type Config struct {
	Paths   []string // crate directories or entry files
	Output  string   // output filename; empty writes to Stdout
	Pretty  bool     // indent the JSON by two spaces
	Debug   bool     // print the visited korok tree to Stderr
	Color   bool     // style the debug tree
	Version string   // codama build version, echoed in the summary

	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

// generator holds the resolved writers of a run.
type generator struct {
	cfg    Config
	stdout io.Writer
	stderr io.Writer
}

// Run loads the crates of cfg.Paths and writes their IDL.
func Run(cfg Config) error { return newGenerator(cfg).run() }

func newGenerator(cfg Config) *generator {
	g := &generator{cfg: cfg, stdout: cfg.Stdout, stderr: cfg.Stderr}
	if g.stdout == nil {
		g.stdout = os.Stdout
	}
	if g.stderr == nil {
		g.stderr = os.Stderr
	}
	return g
}
