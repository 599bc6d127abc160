// Package netwrk carries the byte stream between the two peers. The
// authority listens and accepts exactly one participant; the participant
// dials the authority.
package netwrk

import (
	"context"
	"fmt"
	"log/slog"
	"net"
)

type Listener struct {
	ln   net.Listener
	opts Options
}

// Listen binds addr for the authority. Nothing is accepted until Accept.
func Listen(ctx context.Context, addr string, opts Options) (*Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	slog.Info("binding server", slog.String("addr", ln.Addr().String()))
	return &Listener{ln: ln, opts: opts}, nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Accept blocks until one peer connects, then closes the listening socket
// so that later connection attempts are refused.
func (l *Listener) Accept(ctx context.Context) (*Conn, error) {
	defer l.ln.Close()

	stop := context.AfterFunc(ctx, func() {
		l.ln.Close()
	})
	defer stop()

	slog.Info("waiting for connections...")
	conn, err := l.ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
	slog.Info("got connection", slog.Any("remote", conn.RemoteAddr()))
	return newConn(conn, l.opts), nil
}

func (l *Listener) Close() error {
	return l.ln.Close()
}

// ListenAndAccept binds addr and waits for the one participant.
func ListenAndAccept(ctx context.Context, addr string, opts Options) (*Conn, error) {
	l, err := Listen(ctx, addr, opts)
	if err != nil {
		return nil, err
	}
	return l.Accept(ctx)
}

// Dial connects the participant to the authority at addr.
func Dial(ctx context.Context, addr string, opts Options) (*Conn, error) {
	slog.Info("trying to connect", slog.String("addr", addr))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	slog.Info("connected!")
	return newConn(conn, opts), nil
}
