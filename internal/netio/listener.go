// Package netio implements the non-blocking TCP listener and per-entity
// client stream used by the connection handlers (spec §4.5, §5). Go's
// net.Conn/net.Listener have no O_NONBLOCK flag; a short SetDeadline per
// attempt, with a timeout treated as WouldBlock, is the idiomatic
// substitute (spec §6 "Listener").
package netio

import (
	"errors"
	"net"
	"time"
)

// pollDeadline is the short deadline applied to each non-blocking
// accept/read attempt.
const pollDeadline = time.Millisecond

// Listener wraps a TCP listener with non-blocking Accept semantics.
type Listener struct {
	ln *net.TCPListener
}

// Listen binds addr (host:port) for non-blocking accept polling.
func Listen(addr string) (*Listener, error) {
	a, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	ln, err := net.ListenTCP("tcp", a)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Accept attempts to accept one pending connection without blocking. A
// nil conn and nil error means no connection was pending.
func (l *Listener) Accept() (net.Conn, error) {
	if err := l.ln.SetDeadline(time.Now().Add(pollDeadline)); err != nil {
		return nil, err
	}
	conn, err := l.ln.Accept()
	if err != nil {
		if isTimeout(err) {
			return nil, nil
		}
		return nil, err
	}
	return conn, nil
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
