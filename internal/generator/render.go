package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/calumari/codama"
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/visitors"
)

// run loads the crates, visits them, optionally dumps the tree and writes
// the JSON.
func (g *generator) run() error {
	if len(g.cfg.Paths) == 0 {
		return fmt.Errorf("no crate paths provided")
	}
	c, err := codama.Load(g.cfg.Paths...)
	if err != nil {
		return err
	}
	root, err := c.GetVisitedKorok()
	if err != nil {
		return err
	}
	if g.cfg.Debug {
		d := visitors.Debug(g.stderr, g.cfg.Color)
		if err := visitors.Run(root, d); err != nil {
			return err
		}
		if err := d.Err(); err != nil {
			return err
		}
	}
	idl, err := codama.Idl(root)
	if err != nil {
		return err
	}
	var data []byte
	if g.cfg.Pretty {
		data, err = nodes.MarshalIndent(idl, "", "  ")
	} else {
		data, err = nodes.Marshal(idl)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if g.cfg.Output == "" {
		_, err := g.stdout.Write(data)
		return err
	}
	if err := writeFile(g.cfg.Output, data); err != nil {
		return err
	}
	return g.summarize(idl)
}

// writeFile writes data to path, creating missing parent directories.
func writeFile(path string, data []byte) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Filesystem(dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Filesystem(path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if _, err := f.Write(data); err != nil {
		return errors.Filesystem(path, err)
	}
	return nil
}

func (g *generator) summarize(idl *nodes.RootNode) error {
	if err := ensureTemplates(); err != nil {
		return err
	}
	p := idl.Program
	data := summaryModel{
		Output:       g.cfg.Output,
		Version:      g.cfg.Version,
		Program:      p.Name.String(),
		Accounts:     len(p.Accounts),
		Instructions: len(p.Instructions),
		DefinedTypes: len(p.DefinedTypes),
		Errors:       len(p.Errors),
		Additional:   len(idl.AdditionalPrograms),
	}
	return reportTmpl.ExecuteTemplate(g.stderr, tmplSummary, data)
}
