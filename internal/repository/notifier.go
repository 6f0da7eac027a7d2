package repository

import "sync"

// Table names a table whose writes are broadcast to subscribers
type Table string

const (
	TableFavorites    Table = "favorites"
	TableWeatherCache Table = "weather_cache"
)

// Notifier fans out table change signals. Signals coalesce: a subscriber
// that has not drained its channel sees one pending signal, not many.
type Notifier struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Subscription receives a signal after every write to one of its tables
type Subscription struct {
	n      *Notifier
	tables map[Table]bool
	ch     chan struct{}
	once   sync.Once
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers interest in the given tables
func (n *Notifier) Subscribe(tables ...Table) *Subscription {
	s := &Subscription{
		n:      n,
		tables: make(map[Table]bool, len(tables)),
		ch:     make(chan struct{}, 1),
	}
	for _, t := range tables {
		s.tables[t] = true
	}

	n.mu.Lock()
	n.subs[s] = struct{}{}
	n.mu.Unlock()
	return s
}

// Publish signals every subscriber of table without blocking
func (n *Notifier) Publish(table Table) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for s := range n.subs {
		if !s.tables[table] {
			continue
		}
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}

// C returns the signal channel
func (s *Subscription) C() <-chan struct{} {
	return s.ch
}

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.n.mu.Lock()
		delete(s.n.subs, s)
		s.n.mu.Unlock()
	})
}
