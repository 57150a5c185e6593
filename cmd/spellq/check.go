package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/schollz/progressbar/v3"
	"github.com/utkarsh5026/spellq/spellcheck"
	"golang.org/x/sync/errgroup"
)

// fileReport collects what was found in one file.
type fileReport struct {
	path   string
	text   []uint16
	issues []issue
	err    error
}

type issue struct {
	rng         spellcheck.Range
	suggestions []string
}

func (a *app) check(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.err)
	var d dictFlags
	d.register(fs, a.cfg)
	suggest := fs.Bool("suggest", false, "Show corrections next to each misspelling")
	quiet := fs.Bool("quiet", false, "No progress bar")
	if err := fs.Parse(args); err != nil {
		return exitError, nil
	}
	if fs.NArg() == 0 {
		return exitError, fmt.Errorf("check: no files given")
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

	reports := make([]*fileReport, fs.NArg())
	for i, path := range fs.Args() {
		reports[i] = &fileReport{path: path}
	}

	var bar *progressbar.ProgressBar
	if !*quiet {
		bar = progressbar.NewOptions(len(reports),
			progressbar.OptionSetWriter(a.err),
			progressbar.OptionSetDescription("Checking"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	// Each file gets its own spellchecker; they are set up and fed in
	// parallel, and the results come back through the loop below.
	var g errgroup.Group
	for _, rep := range reports {
		g.Go(func() error {
			return a.submitFile(ctx, rt, rep, d, contents, *suggest, bar)
		})
	}
	if err := g.Wait(); err != nil {
		return exitError, err
	}

	if err := rt.RunUntilIdle(ctx); err != nil {
		return exitError, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return a.printReports(reports), nil
}

// submitFile reads one file and schedules its check. Read errors are kept on
// the report; only dictionary problems abort the run.
func (a *app) submitFile(ctx context.Context, rt *spellcheck.Runtime, rep *fileReport, d dictFlags, contents []byte, suggest bool, bar *progressbar.ProgressBar) error {
	data, err := os.ReadFile(rep.path)
	if err != nil {
		rep.err = err
		advance(bar)
		return nil
	}
	rep.text = utf16.Encode([]rune(string(data)))

	sc, err := rt.NewSpellchecker()
	if err != nil {
		return err
	}
	if err := loadDictionary(sc, d, contents); err != nil {
		return err
	}

	return sc.CheckSpellingUTF16Async(ctx, rep.text, func(ranges []spellcheck.Range, err error) {
		defer advance(bar)
		if err != nil {
			rep.err = err
			return
		}

		rep.issues = make([]issue, len(ranges))
		for i, r := range ranges {
			rep.issues[i].rng = r
			if !suggest {
				continue
			}
			target := &rep.issues[i]
			word := string(utf16.Decode(rep.text[r.Start:r.End]))
			if err := sc.GetCorrectionsForMisspellingAsync(ctx, word, func(s []string, err error) {
				if err == nil {
					target.suggestions = s
				}
			}); err != nil {
				a.log.Sugar().Debugw("suggestions unavailable", "word", word, "error", err)
			}
		}
	})
}

func advance(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}

// printReports writes one line per misspelling in compiler style and
// returns the exit code.
func (a *app) printReports(reports []*fileReport) int {
	code := exitOK
	total := 0

	for _, rep := range reports {
		if rep.err != nil {
			_, _ = red.Fprintf(a.err, "%s: %v\n", rep.path, rep.err)
			code = exitError
			continue
		}

		for _, is := range rep.issues {
			line, col := locate(rep.text, is.rng.Start)
			word := string(utf16.Decode(rep.text[is.rng.Start:is.rng.End]))

			_, _ = bold.Fprintf(a.out, "%s:%d:%d: ", rep.path, line, col)
			_, _ = red.Fprint(a.out, word)
			if len(is.suggestions) > 0 {
				_, _ = faint.Fprintf(a.out, " (%s)", strings.Join(is.suggestions[:min(3, len(is.suggestions))], ", "))
			}
			fmt.Fprintln(a.out)
		}
		total += len(rep.issues)
	}

	if total > 0 {
		_, _ = bold.Fprintf(a.out, "%d misspelled word(s) in %d file(s)\n", total, len(reports))
		if code == exitOK {
			code = exitMisspelled
		}
		return code
	}
	if code == exitOK {
		_, _ = green.Fprintln(a.out, "no misspellings found")
	}
	return code
}

// locate turns a code unit offset into a 1-based line and column. Columns
// count UTF-16 code units.
func locate(text []uint16, offset int) (line, col int) {
	line, col = 1, 1
	for _, u := range text[:offset] {
		if u == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
