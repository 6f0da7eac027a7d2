package main

import (
	"context"
	"net"
	"net/http"
	"time"
)

// newServer builds the HTTP server. Request contexts derive from ctx, so
// cancelling it ends long-lived favorites streams before Shutdown waits on
// their connections.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No write timeout: the favorites stream stays open
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
}
