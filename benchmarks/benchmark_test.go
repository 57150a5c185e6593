package benchmarks

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/utkarsh5026/spellq/pool"
	"github.com/utkarsh5026/spellq/spellcheck"
)

// reportThroughput adds a checks/sec metric for tasksPerOp checks per iteration.
func reportThroughput(b *testing.B, tasksPerOp int) {
	nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
	b.ReportMetric(float64(tasksPerOp)/nsPerOp*1e9, "checks/sec")
}

// checkAll posts every text to the spellcheckers round-robin and waits for
// the results.
func checkAll(b *testing.B, rt *spellcheck.Runtime, checkers []*spellcheck.Spellchecker, texts []string) {
	ctx := context.Background()
	for i, text := range texts {
		sc := checkers[i%len(checkers)]
		err := sc.CheckSpellingAsync(ctx, text, func(_ []spellcheck.Range, err error) {
			if err != nil {
				b.Error(err)
			}
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	pump(b, rt)
}

func BenchmarkCheckSpelling_HandleScaling(b *testing.B) {
	handleCounts := []int{1, 2, 4, 8, 16}
	const taskCount = 256
	texts := make([]string, taskCount)
	for i := range texts {
		texts[i] = generateText(50, 10, int64(i))
	}

	for _, handles := range handleCounts {
		b.Run(fmt.Sprintf("handles_%d", handles), func(b *testing.B) {
			rt := newRuntime(b, pool.WithWorkerCount(8))
			checkers := newCheckers(b, rt, handles)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				checkAll(b, rt, checkers, texts)
			}
			b.StopTimer()

			reportThroughput(b, taskCount)
		})
	}
}

func BenchmarkCheckSpelling_WorkerScaling(b *testing.B) {
	workerCounts := []int{1, 2, 4, 8, 16}
	const taskCount = 256
	texts := make([]string, taskCount)
	for i := range texts {
		texts[i] = generateText(50, 10, int64(i))
	}

	for _, workers := range workerCounts {
		for _, setup := range getAllSetups(workers) {
			b.Run(fmt.Sprintf("workers_%d/%s", workers, setup.name), func(b *testing.B) {
				rt := newRuntime(b, setup.opts...)
				checkers := newCheckers(b, rt, 16)

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					checkAll(b, rt, checkers, texts)
				}
				b.StopTimer()

				reportThroughput(b, taskCount)
				b.ReportMetric(float64(taskCount)/(float64(b.Elapsed().Nanoseconds())/float64(b.N))*1e9/float64(workers), "checks/sec/worker")
			})
		}
	}
}

func BenchmarkCheckSpelling_TextLength(b *testing.B) {
	for _, words := range []int{10, 100, 1000, 10000} {
		b.Run(fmt.Sprintf("words_%d", words), func(b *testing.B) {
			rt := newRuntime(b, pool.WithWorkerCount(4))
			checkers := newCheckers(b, rt, 1)
			texts := []string{generateText(words, 10, 7)}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				checkAll(b, rt, checkers, texts)
			}
		})
	}
}

func BenchmarkCorrections(b *testing.B) {
	rt := newRuntime(b, pool.WithWorkerCount(4))
	checkers := newCheckers(b, rt, 4)
	typos := make([]string, 64)
	for i := range typos {
		typos[i] = generateText(1, 1, int64(i))
	}

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j, word := range typos {
			err := checkers[j%len(checkers)].GetCorrectionsForMisspellingAsync(ctx, word, func([]string, error) {})
			if err != nil {
				b.Fatal(err)
			}
		}
		pump(b, rt)
	}
	b.StopTimer()

	reportThroughput(b, len(typos))
}

func BenchmarkSyncIsMisspelled(b *testing.B) {
	rt := newRuntime(b, pool.WithWorkerCount(4))
	sc := newCheckers(b, rt, 1)[0]
	words := generateWords(128, 99)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sc.IsMisspelled(words[i%len(words)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFeatures_WithRateLimit(b *testing.B) {
	rt := newRuntime(b, pool.WithWorkerCount(4), pool.WithRateLimit(1e6, 1000))
	checkers := newCheckers(b, rt, 4)
	texts := []string{generateText(20, 5, 1), generateText(20, 5, 2)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		checkAll(b, rt, checkers, texts)
	}
}

func BenchmarkFeatures_WithHooks(b *testing.B) {
	var started, ended atomic.Int64
	rt := newRuntime(b,
		pool.WithWorkerCount(4),
		pool.WithBeforeTaskStart(func(*pool.Job) { started.Add(1) }),
		pool.WithOnTaskEnd(func(*pool.Job, error) { ended.Add(1) }),
	)
	checkers := newCheckers(b, rt, 1)
	texts := []string{generateText(20, 5, 3)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		checkAll(b, rt, checkers, texts)
	}
	b.StopTimer()

	if started.Load() == 0 || ended.Load() < started.Load() {
		b.Errorf("hooks not called: started=%d ended=%d", started.Load(), ended.Load())
	}
}
