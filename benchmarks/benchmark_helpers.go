package benchmarks

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/utkarsh5026/spellq/engine/wordlist"
	"github.com/utkarsh5026/spellq/pool"
	"github.com/utkarsh5026/spellq/spellcheck"
)

// poolSetup defines a benchmark configuration for the worker pool
type poolSetup struct {
	name string
	opts []pool.Option
}

// getAllSetups returns the pool configurations every benchmark runs against
func getAllSetups(workerCount int) []poolSetup {
	return []poolSetup{
		{
			name: "Default",
			opts: []pool.Option{pool.WithWorkerCount(workerCount)},
		},
		{
			name: "TinyBuffer",
			opts: []pool.Option{pool.WithWorkerCount(workerCount), pool.WithTaskBuffer(1)},
		},
		{
			name: "Pinned",
			opts: []pool.Option{pool.WithWorkerCount(workerCount), pool.WithCPUAffinity(true)},
		},
	}
}

// vocabulary is a fixed dictionary for all benchmarks.
var vocabulary = generateWords(5000, 42)

// dictionary is vocabulary rendered as .dic contents.
var dictionary = []byte(strings.Join(vocabulary, "\n"))

// generateWords returns n distinct lowercase pseudo-words.
func generateWords(n int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	seen := make(map[string]bool, n)
	words := make([]string, 0, n)

	for len(words) < n {
		b := make([]byte, 3+rng.Intn(8))
		for i := range b {
			b[i] = byte('a' + rng.Intn(26))
		}
		if w := string(b); !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

// generateText builds a text of n words drawn from vocabulary. Roughly one
// word in typoEvery has two letters swapped.
func generateText(n, typoEvery int, seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	var sb strings.Builder

	for i := range n {
		w := []byte(vocabulary[rng.Intn(len(vocabulary))])
		if typoEvery > 0 && rng.Intn(typoEvery) == 0 && len(w) > 1 {
			w[0], w[1] = w[1], w[0]
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(w)
	}
	return sb.String()
}

// newRuntime starts a runtime whose spellcheckers use the benchmark dictionary.
func newRuntime(b *testing.B, opts ...pool.Option) *spellcheck.Runtime {
	b.Helper()

	rt, err := spellcheck.NewRuntime(context.Background(),
		spellcheck.WithEngineFactory(wordlist.Factory(wordlist.WithDictionaryDirs(b.TempDir()))),
		spellcheck.WithPoolOptions(opts...),
	)
	if err != nil {
		b.Fatalf("failed to start runtime: %v", err)
	}
	b.Cleanup(func() { _ = rt.Shutdown(10 * time.Second) })
	return rt
}

// newCheckers creates n spellcheckers with the benchmark dictionary loaded.
func newCheckers(b *testing.B, rt *spellcheck.Runtime, n int) []*spellcheck.Spellchecker {
	b.Helper()

	checkers := make([]*spellcheck.Spellchecker, n)
	for i := range checkers {
		sc, err := rt.NewSpellchecker()
		if err != nil {
			b.Fatalf("failed to create spellchecker: %v", err)
		}
		if ok, err := sc.SetDictionaryToContents(dictionary); err != nil || !ok {
			b.Fatalf("failed to load dictionary: ok=%v err=%v", ok, err)
		}
		checkers[i] = sc
	}
	return checkers
}

// pump delivers every outstanding completion.
func pump(b *testing.B, rt *spellcheck.Runtime) {
	b.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := rt.RunUntilIdle(ctx); err != nil {
		b.Fatalf("pump: %v", err)
	}
}
