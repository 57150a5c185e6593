// Command spellq checks text files against word-list dictionaries using the
// spellcheck runtime.
//
// Usage:
//
//	spellq [-config FILE] [-v] check   [-lang L] [-dict-dir D] [-contents F] [-suggest] FILE...
//	spellq [-config FILE] [-v] suggest [-lang L] [-dict-dir D] [-contents F] WORD...
//	spellq [-config FILE] [-v] dicts   [PATH...]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/utkarsh5026/spellq/engine/wordlist"
	"github.com/utkarsh5026/spellq/internal/config"
	"github.com/utkarsh5026/spellq/pool"
	"github.com/utkarsh5026/spellq/spellcheck"
	"go.uber.org/zap"
)

const (
	exitOK         = 0
	exitMisspelled = 1
	exitError      = 2
)

var (
	bold  = color.New(color.Bold)
	red   = color.New(color.FgRed, color.Bold)
	green = color.New(color.FgGreen)
	faint = color.New(color.Faint)
)

// app carries what every subcommand needs.
type app struct {
	cfg *config.Config
	log *zap.Logger
	out io.Writer
	err io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("spellq", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "YAML configuration file")
	verbose := global.Bool("v", false, "Debug logging to stderr")
	global.Usage = func() { usage(stderr) }

	if err := global.Parse(args); err != nil {
		return exitError
	}
	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return exitError
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "spellq: %v\n", err)
		return exitError
	}

	log := newLogger(*verbose)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{cfg: cfg, log: log, out: stdout, err: stderr}

	var code int
	switch rest[0] {
	case "check":
		code, err = a.check(ctx, rest[1:])
	case "suggest":
		code, err = a.suggest(ctx, rest[1:])
	case "dicts":
		code, err = a.dicts(ctx, rest[1:])
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "spellq: unknown command %q\n", rest[0])
		usage(stderr)
		return exitError
	}

	if err != nil {
		_, _ = red.Fprintf(stderr, "spellq: %v\n", err)
		return exitError
	}
	return code
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: spellq [-config FILE] [-v] <command> [flags] [args]

Commands:
  check    FILE...   report misspelled words (exit status 1 if any)
  suggest  WORD...   show corrections for words
  dicts    [PATH...] list available dictionaries

Run 'spellq <command> -h' for command flags.
`)
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// dictFlags are the dictionary selection flags shared by check and suggest.
type dictFlags struct {
	lang     string
	dictDir  string
	contents string
}

func (d *dictFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&d.lang, "lang", cfg.Language, "Dictionary language, e.g. en_US")
	fs.StringVar(&d.dictDir, "dict-dir", "", "Extra directory searched for <lang>.dic first")
	fs.StringVar(&d.contents, "contents", "", "Load the dictionary from this file (.dic text or JSON) instead")
}

// newRuntime starts a spellcheck runtime configured from the config file and flags.
func (a *app) newRuntime(ctx context.Context, d dictFlags) (*spellcheck.Runtime, error) {
	engineOpts := a.cfg.EngineOptions()
	if d.dictDir != "" {
		engineOpts = append(engineOpts, wordlist.WithDictionaryDirs(append([]string{d.dictDir}, a.cfg.DictionaryDirs...)...))
	}

	return spellcheck.NewRuntime(ctx,
		spellcheck.WithEngineFactory(wordlist.Factory(engineOpts...)),
		spellcheck.WithPoolOptions(a.cfg.PoolOptions()...),
		spellcheck.WithPoolOptions(pool.WithOnTaskEnd(func(job *pool.Job, err error) {
			if err != nil {
				a.log.Debug("task failed", zap.String("op", job.Name), zap.Int64("id", job.ID), zap.Error(err))
			}
		})),
		spellcheck.WithLogger(a.log),
	)
}

// loadDictionary selects the dictionary on sc. contents, when non-nil, wins over the language.
func loadDictionary(sc *spellcheck.Spellchecker, d dictFlags, contents []byte) error {
	if contents != nil {
		ok, err := sc.SetDictionaryToContents(contents)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: not a usable dictionary", d.contents)
		}
		return nil
	}

	ok, err := sc.SetDictionary(d.lang)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("dictionary %q not found (try 'spellq dicts')", d.lang)
	}
	return nil
}

func readContents(d dictFlags) ([]byte, error) {
	if d.contents == "" {
		return nil, nil
	}
	data, err := os.ReadFile(d.contents)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary contents: %w", err)
	}
	return data, nil
}

func (a *app) shutdown(rt *spellcheck.Runtime) {
	if err := rt.Shutdown(a.cfg.ShutdownTimeout); err != nil {
		a.log.Warn("runtime shutdown", zap.Error(err))
	}
}
