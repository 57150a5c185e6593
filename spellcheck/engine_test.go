package spellcheck

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/utkarsh5026/spellq/engine"
)

// mockEngine is a testify mock of engine.Engine.
type mockEngine struct {
	mock.Mock
}

var _ engine.Engine = (*mockEngine)(nil)

func (m *mockEngine) CheckSpelling(text []uint16) []engine.MisspelledRange {
	args := m.Called(text)
	r, _ := args.Get(0).([]engine.MisspelledRange)
	return r
}

func (m *mockEngine) IsMisspelled(word string) bool {
	return m.Called(word).Bool(0)
}

func (m *mockEngine) GetCorrectionsForMisspelling(word string) []string {
	args := m.Called(word)
	r, _ := args.Get(0).([]string)
	return r
}

func (m *mockEngine) SetDictionary(language string) bool {
	return m.Called(language).Bool(0)
}

func (m *mockEngine) SetDictionaryToContents(contents []byte) bool {
	return m.Called(contents).Bool(0)
}

func (m *mockEngine) Add(word string) {
	m.Called(word)
}

func (m *mockEngine) Remove(word string) {
	m.Called(word)
}

func (m *mockEngine) GetAvailableDictionaries(path string) []string {
	args := m.Called(path)
	r, _ := args.Get(0).([]string)
	return r
}

func (m *mockEngine) Close() error {
	return m.Called().Error(0)
}

// recordingEngine records how it is called. It reports every word as misspelled
// and is deliberately unsynchronized apart from its counters, so overlapping
// calls on one instance show up as inFlight > 1.
type recordingEngine struct {
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	panicOn  string

	// entered, when set, receives one value per CheckSpelling call before it
	// waits on release.
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	calls  []string
	closed atomic.Bool
}

var _ engine.Engine = (*recordingEngine)(nil)

func (p *recordingEngine) enter(call string) func() {
	n := p.inFlight.Add(1)
	for {
		cur := p.maxSeen.Load()
		if n <= cur || p.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}

	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return func() { p.inFlight.Add(-1) }
}

func (p *recordingEngine) CheckSpelling(text []uint16) []engine.MisspelledRange {
	defer p.enter("check:" + strconv.Itoa(len(text)))()

	if p.entered != nil {
		p.entered <- struct{}{}
		<-p.release
	}
	if p.panicOn == "check" {
		panic("engine exploded")
	}
	return []engine.MisspelledRange{{Start: 0, End: len(text)}}
}

func (p *recordingEngine) IsMisspelled(word string) bool {
	defer p.enter("is:" + word)()
	return true
}

func (p *recordingEngine) GetCorrectionsForMisspelling(word string) []string {
	defer p.enter("suggest:" + word)()
	if p.panicOn == "suggest" {
		panic("engine exploded")
	}
	return []string{word + "s"}
}

func (p *recordingEngine) SetDictionary(language string) bool {
	defer p.enter("dict:" + language)()
	return true
}

func (p *recordingEngine) SetDictionaryToContents(contents []byte) bool {
	defer p.enter("contents")()
	return true
}

func (p *recordingEngine) Add(word string) {
	defer p.enter("add:" + word)()
}

func (p *recordingEngine) Remove(word string) {
	defer p.enter("remove:" + word)()
}

func (p *recordingEngine) GetAvailableDictionaries(path string) []string {
	defer p.enter("dicts:" + path)()
	return nil
}

func (p *recordingEngine) Close() error {
	p.closed.Store(true)
	return nil
}

func (p *recordingEngine) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}
