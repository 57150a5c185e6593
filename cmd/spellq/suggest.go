package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
)

func (a *app) suggest(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	fs.SetOutput(a.err)
	var d dictFlags
	d.register(fs, a.cfg)
	if err := fs.Parse(args); err != nil {
		return exitError, nil
	}
	if fs.NArg() == 0 {
		return exitError, fmt.Errorf("suggest: no words given")
	}

	contents, err := readContents(d)
	if err != nil {
		return exitError, err
	}

	rt, err := a.newRuntime(ctx, d)
	if err != nil {
		return exitError, err
	}
	defer a.shutdown(rt)

	sc, err := rt.NewSpellchecker()
	if err != nil {
		return exitError, err
	}
	if err := loadDictionary(sc, d, contents); err != nil {
		return exitError, err
	}

	words := fs.Args()
	misspelled := make([]bool, len(words))
	suggestions := make([][]string, len(words))
	failures := make([]error, len(words))

	for i, word := range words {
		if misspelled[i], err = sc.IsMisspelled(word); err != nil {
			return exitError, err
		}
		err := sc.GetCorrectionsForMisspellingAsync(ctx, word, func(s []string, err error) {
			suggestions[i], failures[i] = s, err
		})
		if err != nil {
			return exitError, err
		}
	}
	if err := rt.RunUntilIdle(ctx); err != nil {
		return exitError, err
	}

	table := tablewriter.NewWriter(a.out)
	table.Header("Word", "Status", "Suggestions")

	code := exitOK
	for i, word := range words {
		status := green.Sprint("ok")
		if misspelled[i] {
			status = red.Sprint("misspelled")
			code = exitMisspelled
		}

		list := strings.Join(suggestions[i], ", ")
		if failures[i] != nil {
			list = failures[i].Error()
		} else if list == "" {
			list = faint.Sprint("-")
		}
		_ = table.Append(word, status, list)
	}
	_ = table.Render()

	return code, nil
}
