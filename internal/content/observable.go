package content

import (
	"reflect"
	"sync"
)

// Status is the state of a config load.
type Status string

const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// Ctx is the value held by an Observable. Config is set when Status is
// loaded and Err when Status is error.
type Ctx struct {
	Status Status
	Config *ContentConfig
	Err    error
}

// Loading returns a loading Ctx.
func Loading() Ctx {
	return Ctx{Status: StatusLoading}
}

// Loaded returns a loaded Ctx for cfg.
func Loaded(cfg *ContentConfig) Ctx {
	return Ctx{Status: StatusLoaded, Config: cfg}
}

// Failed returns an error Ctx for err.
func Failed(err error) Ctx {
	return Ctx{Status: StatusError, Err: err}
}

// CtxFromResult maps a LoadConfig result onto a Ctx.
func CtxFromResult(cfg *ContentConfig, err error) Ctx {
	if err != nil {
		return Failed(err)
	}
	return Loaded(cfg)
}

// Listener receives Ctx changes.
type Listener interface {
	Notify(c Ctx)
}

type funcListener struct {
	fn func(Ctx)
}

func (l *funcListener) Notify(c Ctx) { l.fn(c) }

// Listen wraps fn in a Listener. Each call returns a distinct handle;
// subscribing the same handle twice registers it once.
func Listen(fn func(Ctx)) Listener {
	return &funcListener{fn: fn}
}

type subscription struct {
	listener Listener
	active   bool
}

// Observable is a broadcast cell holding the current Ctx.
//
// Set notifies every subscribed listener synchronously, in registration
// order, exactly once per call. A Set made while listeners are being
// notified is queued and delivered after the current round finishes.
type Observable struct {
	mu        sync.Mutex
	current   Ctx
	subs      []*subscription
	pending   []Ctx
	notifying bool
}

// NewObservable returns an Observable holding initial.
func NewObservable(initial Ctx) *Observable {
	return &Observable{current: initial}
}

// Get returns the current value.
func (o *Observable) Get() Ctx {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Set replaces the value and notifies listeners.
func (o *Observable) Set(c Ctx) {
	o.mu.Lock()
	o.pending = append(o.pending, c)
	if o.notifying {
		o.mu.Unlock()
		return
	}
	o.notifying = true
	o.mu.Unlock()

	finished := false
	defer func() {
		if !finished {
			// A listener panicked; drop queued values so later Sets still deliver.
			o.mu.Lock()
			o.notifying = false
			o.pending = nil
			o.mu.Unlock()
		}
	}()

	for {
		o.mu.Lock()
		if len(o.pending) == 0 {
			o.notifying = false
			o.mu.Unlock()
			finished = true
			return
		}
		next := o.pending[0]
		o.pending = o.pending[1:]
		o.current = next
		round := append([]*subscription(nil), o.subs...)
		o.mu.Unlock()

		for _, s := range round {
			if o.isActive(s) {
				s.listener.Notify(next)
			}
		}
	}
}

func (o *Observable) isActive(s *subscription) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return s.active
}

// Subscribe registers l and returns a function that removes it. If l is
// already registered the existing registration is kept.
func (o *Observable) Subscribe(l Listener) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var sub *subscription
	if isComparable(l) {
		for _, s := range o.subs {
			if isComparable(s.listener) && s.listener == l {
				sub = s
				break
			}
		}
	}
	if sub == nil {
		sub = &subscription{listener: l, active: true}
		o.subs = append(o.subs, sub)
	}

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if !sub.active {
			return
		}
		sub.active = false
		for i, s := range o.subs {
			if s == sub {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				break
			}
		}
	}
}

func isComparable(l Listener) bool {
	return l != nil && reflect.TypeOf(l).Comparable()
}
