package apicall

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/contactdesk/internal/logging"
)

// Token identifies one in-flight call. The zero Token is never issued.
type Token uint64

type inflight struct {
	label   string
	started time.Time
}

// Tracker records which calls are currently in flight.
// Loading reports true while at least one call has begun and not ended, so
// overlapping calls cannot clear each other's busy state.
//
// A Tracker is safe for concurrent use. The zero value is ready to use.
type Tracker struct {
	mu       sync.Mutex
	next     Token
	calls    map[Token]inflight
	observer func(loading bool)
}

// NewTracker creates a tracker. observer, if non-nil, is called whenever the
// tracker switches between idle and busy. It runs with the tracker unlocked.
func NewTracker(observer func(loading bool)) *Tracker {
	return &Tracker{observer: observer}
}

// Begin registers a new in-flight call and returns its token.
func (t *Tracker) Begin(label string) Token {
	t.mu.Lock()
	if t.calls == nil {
		t.calls = make(map[Token]inflight)
	}
	t.next++
	tok := t.next
	t.calls[tok] = inflight{label: label, started: time.Now()}
	becameBusy := len(t.calls) == 1
	observer := t.observer
	t.mu.Unlock()

	logging.Debug("Call started", zap.String("call", label), zap.Uint64("token", uint64(tok)))
	if becameBusy && observer != nil {
		observer(true)
	}
	return tok
}

// End marks the call as settled. Ending an unknown or already ended token is
// a no-op.
func (t *Tracker) End(tok Token) {
	t.settle(tok, nil)
}

func (t *Tracker) settle(tok Token, err error) {
	t.mu.Lock()
	call, ok := t.calls[tok]
	if !ok {
		t.mu.Unlock()
		return
	}
	delete(t.calls, tok)
	remaining := len(t.calls)
	observer := t.observer
	t.mu.Unlock()

	logging.LogCall(call.label, time.Since(call.started), remaining, err)
	if remaining == 0 && observer != nil {
		observer(false)
	}
}

// Loading reports whether any call is in flight.
func (t *Tracker) Loading() bool {
	return t.InFlight() > 0
}

// InFlight returns the number of calls that have begun and not ended.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// Labels returns the labels of the in-flight calls, oldest first.
func (t *Tracker) Labels() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	toks := make([]Token, 0, len(t.calls))
	for tok := range t.calls {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool { return toks[i] < toks[j] })

	labels := make([]string, len(toks))
	for i, tok := range toks {
		labels[i] = t.calls[tok].label
	}
	return labels
}

// Do runs fn as a tracked call. The call is ended when fn returns, whatever
// the outcome, and fn's result and error are returned unchanged.
func Do[T any](ctx context.Context, t *Tracker, label string, fn func(context.Context) (T, error)) (result T, err error) {
	tok := t.Begin(label)
	defer func() { t.settle(tok, err) }()
	return fn(ctx)
}

// Run is Do for operations that only return an error.
func Run(ctx context.Context, t *Tracker, label string, fn func(context.Context) error) error {
	_, err := Do(ctx, t, label, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Start begins a tracked call now and returns a function that performs fn and
// ends the call. Loading is true from the moment Start returns, before the
// returned function is scheduled. The returned function must be called once.
func Start[T any](ctx context.Context, t *Tracker, label string, fn func(context.Context) (T, error)) func() (T, error) {
	tok := t.Begin(label)
	return func() (result T, err error) {
		defer func() { t.settle(tok, err) }()
		return fn(ctx)
	}
}
