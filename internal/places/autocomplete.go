package places

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/example/motogo/internal/clock"
	"github.com/example/motogo/internal/observability"
)

const (
	DefaultQuiet      = 300 * time.Millisecond
	DefaultMaxResults = 5
	minQueryLen       = 3
)

type Options struct {
	Quiet         time.Duration
	MaxResults    int
	Clock         clock.Clock
	Logger        *slog.Logger
	OnSuggestions func([]Prediction)
	OnSelect      func(Prediction)
}

// Autocompleter debounces text input in front of a Provider. Only the last
// input inside the quiet window queries; anything newer supersedes it.
type Autocompleter struct {
	ctx      context.Context
	provider Provider
	opts     Options

	mu          sync.Mutex
	gen         uint64
	timer       clock.Timer
	cancel      context.CancelFunc
	suggestions []Prediction
	closed      bool
}

func NewAutocompleter(ctx context.Context, p Provider, opts Options) *Autocompleter {
	if opts.Quiet <= 0 {
		opts.Quiet = DefaultQuiet
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Autocompleter{ctx: ctx, provider: p, opts: opts}
}

// Input records the latest text. Text of two characters or less, ignoring
// surrounding spaces, clears the suggestions right away and never reaches the provider.
func (a *Autocompleter) Input(text string) {
	text = strings.TrimSpace(text)
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.resetLocked()
	if utf8.RuneCountInString(text) < minQueryLen {
		cleared := a.suggestions != nil
		a.suggestions = nil
		a.mu.Unlock()
		if cleared {
			a.emit(nil)
		}
		return
	}
	gen := a.gen
	a.timer = a.opts.Clock.AfterFunc(a.opts.Quiet, func() { a.query(gen, text) })
	a.mu.Unlock()
}

// Select hands the chosen place to the caller and drops everything pending.
func (a *Autocompleter) Select(p Prediction) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.resetLocked()
	a.suggestions = nil
	a.mu.Unlock()
	if a.opts.OnSelect != nil {
		a.opts.OnSelect(p)
	}
}

// Lookup finds a current suggestion by place id.
func (a *Autocompleter) Lookup(placeID string) (Prediction, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.suggestions {
		if p.PlaceID == placeID {
			return p, true
		}
	}
	return Prediction{}, false
}

func (a *Autocompleter) Suggestions() []Prediction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Prediction(nil), a.suggestions...)
}

func (a *Autocompleter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.resetLocked()
}

func (a *Autocompleter) resetLocked() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Autocompleter) query(gen uint64, text string) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancel = cancel
	a.timer = nil
	a.mu.Unlock()

	preds, err := a.provider.Autocomplete(ctx, text)

	a.mu.Lock()
	cancel()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		observability.PlacesQueriesTotal.WithLabelValues("superseded").Inc()
		return
	}
	a.cancel = nil
	if err != nil {
		a.opts.Logger.Warn("place autocomplete failed", "error", err)
		observability.PlacesQueriesTotal.WithLabelValues("error").Inc()
		preds = nil
	} else {
		observability.PlacesQueriesTotal.WithLabelValues("ok").Inc()
	}
	if len(preds) > a.opts.MaxResults {
		preds = preds[:a.opts.MaxResults]
	}
	a.suggestions = preds
	out := append([]Prediction(nil), preds...)
	a.mu.Unlock()
	a.emit(out)
}

func (a *Autocompleter) emit(p []Prediction) {
	if a.opts.OnSuggestions != nil {
		a.opts.OnSuggestions(p)
	}
}
