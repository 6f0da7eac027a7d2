// Package search turns keystrokes into place searches: input is debounced,
// short or repeated queries are skipped and a newer query cancels the
// search in flight.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/service"
	"go.uber.org/zap"
)

const (
	DefaultMinLength = 3
	DefaultDelay     = 300 * time.Millisecond
)

// Searcher resolves a query to places
type Searcher interface {
	SearchPlaces(ctx context.Context, query string) ([]model.Place, error)
}

type result struct {
	seq    uint64
	query  string
	places []model.Place
	err    error
}

// Debouncer runs at most one search at a time for the latest input
type Debouncer struct {
	searcher  Searcher
	minLength int
	delay     time.Duration
	logger    *zap.Logger

	submitMu sync.Mutex
	input    chan string
	retry    chan struct{}
	flush    chan chan struct{}
	states   chan State
}

// NewDebouncer creates a debouncer; non-positive settings use the defaults
func NewDebouncer(searcher Searcher, minLength int, delay time.Duration, logger *zap.Logger) *Debouncer {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{
		searcher:  searcher,
		minLength: minLength,
		delay:     delay,
		logger:    logger.With(zap.String("component", "search")),
		input:     make(chan string, 1),
		retry:     make(chan struct{}, 1),
		flush:     make(chan chan struct{}),
		states:    make(chan State, 1),
	}
}

// Submit replaces the pending query. It never blocks on the run loop.
func (d *Debouncer) Submit(query string) {
	d.submitMu.Lock()
	defer d.submitMu.Unlock()

	select {
	case <-d.input:
	default:
	}
	d.input <- query
}

// Retry searches the last accepted query again, e.g. after a Failure
func (d *Debouncer) Retry() {
	select {
	case d.retry <- struct{}{}:
	default:
	}
}

// Flush runs the pending query without waiting for the debounce delay and
// returns once no search is in flight. The final state is published before
// Flush returns.
func (d *Debouncer) Flush(ctx context.Context) error {
	settled := make(chan struct{})
	select {
	case d.flush <- settled:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// States delivers the latest state; older ones are dropped if unread
func (d *Debouncer) States() <-chan State {
	return d.states
}

// Run processes input until ctx is done
func (d *Debouncer) Run(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		timer    *time.Timer
		timerC   <-chan time.Time
		pending  string
		last     string
		seq      uint64
		inFlight bool
		waiters  []chan struct{}
		cancel   context.CancelFunc = func() {}
		results  = make(chan result)
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		cancel()
		wg.Wait()
	}()

	settle := func() {
		inFlight = false
		for _, w := range waiters {
			close(w)
		}
		waiters = nil
	}

	launch := func(query string) {
		cancel()
		seq++
		inFlight = true
		d.publish(Loading{Query: query})

		var searchCtx context.Context
		searchCtx, cancel = context.WithCancel(ctx)

		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			places, err := d.searcher.SearchPlaces(searchCtx, query)
			select {
			case results <- result{seq: seq, query: query, places: places, err: err}:
			case <-ctx.Done():
			}
		}(seq)
	}

	accept := func(q string) {
		pending = strings.TrimSpace(q)
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(d.delay)
		timerC = timer.C
	}

	fire := func() {
		timerC = nil
		if utf8.RuneCountInString(pending) < d.minLength {
			// Invalidate whatever is in flight
			cancel()
			seq++
			last = ""
			d.publish(Idle{})
			settle()
			return
		}
		if pending == last {
			return
		}
		last = pending
		launch(pending)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case q := <-d.input:
			accept(q)

		case <-timerC:
			fire()

		case settled := <-d.flush:
			// Input submitted before Flush may still be queued
			select {
			case q := <-d.input:
				accept(q)
			default:
			}
			if timerC != nil {
				timer.Stop()
				fire()
			}
			waiters = append(waiters, settled)
			if !inFlight {
				settle()
			}

		case <-d.retry:
			if last != "" {
				launch(last)
			}

		case r := <-results:
			if r.seq != seq {
				continue
			}
			if r.err != nil {
				d.logger.Debug("search failed", zap.String("query", r.query), zap.Error(r.err))
				d.publish(Failure{Query: r.query, Message: service.MessageOf(r.err)})
			} else {
				d.publish(Success{Query: r.query, Places: r.places})
			}
			settle()
		}
	}
}

func (d *Debouncer) publish(s State) {
	select {
	case <-d.states:
	default:
	}
	d.states <- s
}
