package netwrk

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"
)

// ErrConnectionLost is returned once the socket has failed. The session
// cannot continue after it.
var ErrConnectionLost = errors.New("connection lost")

const (
	DefaultMaxRead = 4096
	ingressDepth   = 64
)

type Options struct {
	// MaxRead caps the size of a single socket read.
	MaxRead int
}

func (o Options) maxRead() int {
	if o.MaxRead <= 0 {
		return DefaultMaxRead
	}
	return o.MaxRead
}

// Conn is the single peer connection. The socket is only touched by one
// reader and one writer goroutine so that TrySend and TryReceive never block
// the caller.
type Conn struct {
	ID uuid.UUID

	conn    net.Conn
	ingress chan []byte
	egress  chan []byte
	done    chan struct{}

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

func newConn(conn net.Conn, opts Options) *Conn {
	c := &Conn{
		ID:      uuid.New(),
		conn:    conn,
		ingress: make(chan []byte, ingressDepth),
		egress:  make(chan []byte, 1),
		done:    make(chan struct{}),
	}
	slog.Debug("peer connected", slog.String("session", c.ID.String()), slog.Any("remote", conn.RemoteAddr()))

	// Network reader
	go func() {
		buf := make([]byte, opts.maxRead())
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				b := make([]byte, n)
				copy(b, buf[:n])
				select {
				case c.ingress <- b:
				case <-c.done:
					return
				}
			}
			if err != nil {
				c.fail(err)
				return
			}
		}
	}()

	// Network writer
	go func() {
		for {
			select {
			case <-c.done:
				return
			case b := <-c.egress:
				if _, err := conn.Write(b); err != nil {
					c.fail(err)
					return
				}
			}
		}
	}()

	return c
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	slog.Debug("peer connection failed", slog.String("session", c.ID.String()), slog.Any("error", err))
	c.err = fmt.Errorf("%w: %v", ErrConnectionLost, err)
}

// Err returns the error that broke the connection, if any.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// TrySend queues b for the writer. It reports false without blocking when
// the previous record has not been written yet.
func (c *Conn) TrySend(b []byte) (bool, error) {
	if err := c.Err(); err != nil {
		return false, err
	}
	select {
	case c.egress <- b:
		return true, nil
	default:
		return false, nil
	}
}

// TryReceive returns everything read from the peer since the last call,
// or nil when nothing has arrived.
func (c *Conn) TryReceive() ([]byte, error) {
	var out []byte
	for {
		select {
		case b := <-c.ingress:
			out = append(out, b...)
			continue
		default:
		}
		break
	}
	if len(out) > 0 {
		return out, nil
	}
	return nil, c.Err()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Close shuts the socket down at once. Queued records are discarded and the
// peer is not notified.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}
