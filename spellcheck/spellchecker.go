package spellcheck

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"unicode/utf16"

	"github.com/utkarsh5026/spellq/engine"
	"github.com/utkarsh5026/spellq/pool"
	"go.uber.org/zap"
)

// Range is a misspelled span [Start, End) of checked text, in UTF-16 code units.
type Range struct {
	Start int
	End   int
}

// Spellchecker is a handle on one engine. All methods are safe for
// concurrent use; the engine sees the calls one at a time, in the order
// they were made.
type Spellchecker struct {
	id     string
	rt     *Runtime
	seq    *pool.Sequence
	engine engine.Engine
	log    *zap.Logger

	// contents backs the dictionary loaded by SetDictionaryToContents. Only
	// touched from tasks on seq, or after seq has drained.
	contents []byte

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// ID returns the spellchecker's unique identifier.
func (s *Spellchecker) ID() string {
	return s.id
}

// SetDictionary switches to the named dictionary. It returns false when the
// dictionary cannot be found or loaded.
func (s *Spellchecker) SetDictionary(language string) (bool, error) {
	return call(s, "SetDictionary", func(e engine.Engine) bool {
		return e.SetDictionary(language)
	})
}

// SetDictionaryToContents loads a dictionary from memory. The contents are
// copied; on success the copy is kept for as long as the dictionary is in
// use, and on failure the previous dictionary stays active.
func (s *Spellchecker) SetDictionaryToContents(contents []byte) (bool, error) {
	buf := slices.Clone(contents)
	if buf == nil {
		buf = []byte{}
	}

	return call(s, "SetDictionaryToContents", func(e engine.Engine) bool {
		if !e.SetDictionaryToContents(buf) {
			return false
		}
		s.contents = buf
		return true
	})
}

// IsMisspelled reports whether a single word is misspelled.
func (s *Spellchecker) IsMisspelled(word string) (bool, error) {
	return call(s, "IsMisspelled", func(e engine.Engine) bool {
		return e.IsMisspelled(word)
	})
}

// Add adds word to the session dictionary.
func (s *Spellchecker) Add(word string) error {
	_, err := call(s, "Add", func(e engine.Engine) struct{} {
		e.Add(word)
		return struct{}{}
	})
	return err
}

// Remove removes word from the session dictionary.
func (s *Spellchecker) Remove(word string) error {
	_, err := call(s, "Remove", func(e engine.Engine) struct{} {
		e.Remove(word)
		return struct{}{}
	})
	return err
}

// GetAvailableDictionaries lists the dictionaries found under path.
// An empty path means the working directory.
func (s *Spellchecker) GetAvailableDictionaries(path string) ([]string, error) {
	if path == "" {
		path = "."
	}

	names, err := call(s, "GetAvailableDictionaries", func(e engine.Engine) []string {
		return e.GetAvailableDictionaries(path)
	})
	if err == nil && names == nil {
		names = []string{}
	}
	return names, err
}

// CheckSpellingAsync checks text in the background and delivers the
// misspelled ranges, ordered by Start, through the runtime's loop.
//
// A nil error means onComplete will be called exactly once. If ctx is done
// before the check starts, onComplete receives ctx.Err() and the engine is
// not called. Empty text completes with an empty slice without running a task.
func (s *Spellchecker) CheckSpellingAsync(ctx context.Context, text string, onComplete func([]Range, error)) error {
	if onComplete == nil {
		return ErrNilCallback
	}
	if s.closed.Load() {
		return ErrClosed
	}
	if text == "" {
		return s.completeEmpty(onComplete)
	}
	return s.checkSpelling(ctx, utf16.Encode([]rune(text)), onComplete)
}

// CheckSpellingUTF16Async is CheckSpellingAsync for text already encoded as
// UTF-16. The slice is copied before the call returns.
func (s *Spellchecker) CheckSpellingUTF16Async(ctx context.Context, text []uint16, onComplete func([]Range, error)) error {
	if onComplete == nil {
		return ErrNilCallback
	}
	if s.closed.Load() {
		return ErrClosed
	}
	if len(text) == 0 {
		return s.completeEmpty(onComplete)
	}
	return s.checkSpelling(ctx, slices.Clone(text), onComplete)
}

// GetCorrectionsForMisspellingAsync computes suggestions for word in the
// background, best first. It follows the delivery rules of CheckSpellingAsync,
// except that an empty word still runs a task.
func (s *Spellchecker) GetCorrectionsForMisspellingAsync(ctx context.Context, word string, onComplete func([]string, error)) error {
	if onComplete == nil {
		return ErrNilCallback
	}
	if s.closed.Load() {
		return ErrClosed
	}

	const op = "GetCorrectionsForMisspelling"
	var corrections []string

	return s.schedule(ctx, op, func(e engine.Engine) {
		corrections = e.GetCorrectionsForMisspelling(word)
	}, func(err error) {
		if err != nil {
			onComplete(nil, resultErr(op, err))
			return
		}
		if corrections == nil {
			corrections = []string{}
		}
		onComplete(corrections, nil)
	})
}

// Close waits for every call already made, then closes the engine if it
// implements io.Closer and releases the dictionary contents. Calls made after
// Close return ErrClosed. Close must not be called from a task of this
// spellchecker; calling it from a completion callback is fine.
func (s *Spellchecker) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.seq.Close()

		s.contents = nil
		if c, ok := s.engine.(io.Closer); ok {
			s.closeErr = c.Close()
		}
		s.rt.forget(s.id)
		s.log.Debug("spellchecker closed", zap.Error(s.closeErr))
	})
	return s.closeErr
}

func (s *Spellchecker) checkSpelling(ctx context.Context, text []uint16, onComplete func([]Range, error)) error {
	const op = "CheckSpelling"
	var found []engine.MisspelledRange

	return s.schedule(ctx, op, func(e engine.Engine) {
		found = e.CheckSpelling(text)
	}, func(err error) {
		if err != nil {
			onComplete(nil, resultErr(op, err))
			return
		}
		onComplete(s.ranges(found, len(text)), nil)
	})
}

// schedule posts run to the sequence and arranges for deliver to be called
// on the loop once run has finished, failed or been skipped.
func (s *Spellchecker) schedule(ctx context.Context, op string, run func(engine.Engine), deliver func(error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	completion, err := s.rt.loop.Reserve()
	if err != nil {
		return submitErr(err)
	}

	job := pool.NewJob(op, func(context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		run(s.engine)
		return nil
	}, func(err error) {
		completion.Resolve(func() { deliver(err) })
	})

	if err := s.seq.Post(job); err != nil {
		completion.Discard()
		return submitErr(err)
	}
	return nil
}

func (s *Spellchecker) completeEmpty(onComplete func([]Range, error)) error {
	if err := s.rt.loop.Post(func() { onComplete([]Range{}, nil) }); err != nil {
		return submitErr(err)
	}
	return nil
}

// ranges converts engine output into public ranges. Ranges outside the text
// or empty are dropped; the rest are ordered by Start.
func (s *Spellchecker) ranges(found []engine.MisspelledRange, n int) []Range {
	out := make([]Range, 0, len(found))
	for _, r := range found {
		if !r.Valid(n) {
			s.log.Warn("dropping invalid range from engine",
				zap.Int("start", r.Start), zap.Int("end", r.End), zap.Int("length", n))
			continue
		}
		out = append(out, Range{Start: r.Start, End: r.End})
	}

	slices.SortStableFunc(out, func(a, b Range) int {
		return a.Start - b.Start
	})
	return out
}

// call runs fn against the engine through the spellchecker's sequence and
// waits for it. Synchronous calls carry no context of their own, so a task
// skipped because the runtime's context ended reports ErrClosed.
func call[R any](s *Spellchecker, op string, fn func(engine.Engine) R) (R, error) {
	var zero R
	if s.closed.Load() {
		return zero, ErrClosed
	}

	v, err := pool.Await(s.seq, op, func(context.Context) (R, error) {
		return fn(s.engine), nil
	})
	if err != nil {
		if closedErr(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, ErrClosed
		}
		return zero, resultErr(op, err)
	}
	return v, nil
}
