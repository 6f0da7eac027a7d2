// Package connectivity reports whether the weather backend is reachable.
package connectivity

import (
	"context"
	"net"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const resultKey = "online"

// Checker reports network availability
type Checker interface {
	Online(ctx context.Context) bool
}

// Static is a Checker with a fixed answer
type Static bool

// Online returns the fixed answer
func (s Static) Online(context.Context) bool {
	return bool(s)
}

// Probe dials a TCP address and remembers the outcome for a short TTL
type Probe struct {
	addr    string
	timeout time.Duration
	dial    func(ctx context.Context, network, address string) (net.Conn, error)
	results *cache.Cache
	logger  *zap.Logger
}

// NewProbe creates a probe for addr (host:port). The result of a dial is
// reused for ttl.
func NewProbe(addr string, ttl time.Duration, logger *zap.Logger) *Probe {
	d := &net.Dialer{}
	return &Probe{
		addr:    addr,
		timeout: 3 * time.Second,
		dial:    d.DialContext,
		results: cache.New(ttl, 0),
		logger:  logger.With(zap.String("component", "connectivity")),
	}
}

// Online reports whether addr accepted a connection recently
func (p *Probe) Online(ctx context.Context) bool {
	if v, ok := p.results.Get(resultKey); ok {
		return v.(bool)
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(dialCtx, "tcp", p.addr)
	if err != nil {
		// A caller giving up is not evidence of being offline.
		if ctx.Err() != nil {
			return false
		}
		p.logger.Debug("connectivity probe failed", zap.String("addr", p.addr), zap.Error(err))
		p.results.SetDefault(resultKey, false)
		return false
	}
	_ = conn.Close()

	p.results.SetDefault(resultKey, true)
	return true
}

// Reset forgets the remembered outcome
func (p *Probe) Reset() {
	p.results.Delete(resultKey)
}
