// Package spellcheck runs spellchecking engines off the caller's goroutine
// and delivers their results back to one consumer goroutine.
//
// A Runtime owns a worker pool and a dispatch loop. Every Spellchecker it
// creates owns one engine and one pool sequence: all calls on a spellchecker,
// synchronous or not, reach its engine one at a time and in call order, while
// different spellcheckers run in parallel.
//
// Asynchronous results are never delivered on a worker. They are queued on
// the Runtime's loop and run by whichever goroutine pumps it:
//
//	rt, err := spellcheck.NewRuntime(ctx)
//	if err != nil {
//	    return err
//	}
//	defer rt.Shutdown(5 * time.Second)
//
//	sc, err := rt.NewSpellchecker()
//	if err != nil {
//	    return err
//	}
//	if ok, _ := sc.SetDictionary("en_US"); !ok {
//	    return errors.New("no en_US dictionary")
//	}
//
//	sc.CheckSpellingAsync(ctx, "Helo wrld", func(ranges []spellcheck.Range, err error) {
//	    fmt.Println(ranges, err) // [{0 4} {5 9}] <nil>
//	})
//	rt.RunUntilIdle(ctx)
package spellcheck
