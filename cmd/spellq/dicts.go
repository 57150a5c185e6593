package main

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
)

func (a *app) dicts(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("dicts", flag.ContinueOnError)
	fs.SetOutput(a.err)
	if err := fs.Parse(args); err != nil {
		return exitError, nil
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = a.cfg.DictionaryDirs
	}

	rt, err := a.newRuntime(ctx, dictFlags{})
	if err != nil {
		return exitError, err
	}
	defer a.shutdown(rt)

	sc, err := rt.NewSpellchecker()
	if err != nil {
		return exitError, err
	}

	table := tablewriter.NewWriter(a.out)
	table.Header("Dictionary", "Directory")

	found := 0
	for _, path := range paths {
		names, err := sc.GetAvailableDictionaries(path)
		if err != nil {
			return exitError, err
		}
		dir, _ := filepath.Abs(path)
		if dir == "" {
			dir = path
		}
		for _, name := range names {
			_ = table.Append(name, dir)
			found++
		}
	}

	if found == 0 {
		_, _ = faint.Fprintln(a.out, "no dictionaries found")
		return exitOK, nil
	}
	_ = table.Render()
	return exitOK, nil
}
