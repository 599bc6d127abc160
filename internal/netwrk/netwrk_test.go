package netwrk

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func connectPair(t *testing.T) (authority, participant *Conn) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l, err := Listen(ctx, "127.0.0.1:0", Options{})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := l.Accept(gctx)
		authority = c
		return err
	})
	g.Go(func() error {
		c, err := Dial(gctx, addr, Options{})
		participant = c
		return err
	})
	if err := g.Wait(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		authority.Close()
		participant.Close()
	})
	return authority, participant
}

// receive polls c until want bytes have arrived or the deadline passes.
func receive(t *testing.T, c *Conn, want int) []byte {
	t.Helper()
	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < want && time.Now().Before(deadline) {
		b, err := c.TryReceive()
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		got = append(got, b...)
		time.Sleep(time.Millisecond)
	}
	return got
}

func TestSendReceiveBothWays(t *testing.T) {
	a, p := connectPair(t)

	if ok, err := a.TrySend([]byte(`{"score":1}`)); err != nil || !ok {
		t.Fatalf("send from authority: ok=%v err=%v", ok, err)
	}
	if got := receive(t, p, 11); string(got) != `{"score":1}` {
		t.Fatalf("participant got %q", got)
	}

	if ok, err := p.TrySend([]byte(`{"paddle2_xy":[1,2]}`)); err != nil || !ok {
		t.Fatalf("send from participant: ok=%v err=%v", ok, err)
	}
	if got := receive(t, a, 20); string(got) != `{"paddle2_xy":[1,2]}` {
		t.Fatalf("authority got %q", got)
	}
}

func TestTryReceiveEmpty(t *testing.T) {
	a, _ := connectPair(t)
	b, err := a.TryReceive()
	if err != nil || b != nil {
		t.Fatalf("empty receive = %q, %v", b, err)
	}
}

func TestTryReceiveCoalescesReads(t *testing.T) {
	a, p := connectPair(t)
	for _, rec := range []string{`{"a":1}`, `{"a":2}`, `{"a":3}`} {
		for {
			ok, err := a.TrySend([]byte(rec))
			if err != nil {
				t.Fatalf("send: %v", err)
			}
			if ok {
				break
			}
			time.Sleep(time.Millisecond)
		}
	}
	if got := receive(t, p, 21); string(got) != `{"a":1}{"a":2}{"a":3}` {
		t.Fatalf("got %q", got)
	}
}

func TestPeerCloseIsConnectionLost(t *testing.T) {
	a, p := connectPair(t)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, err := a.TryReceive()
		if errors.Is(err, ErrConnectionLost) {
			if _, err := a.TrySend([]byte("{}")); !errors.Is(err, ErrConnectionLost) {
				t.Fatalf("send after loss: err = %v", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("connection loss was never reported")
}

func TestSecondPeerRefused(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	l, err := Listen(ctx, "127.0.0.1:0", Options{})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()

	g, gctx := errgroup.WithContext(ctx)
	var first *Conn
	g.Go(func() error {
		c, err := l.Accept(gctx)
		first = c
		return err
	})
	g.Go(func() error {
		c, err := Dial(gctx, addr, Options{})
		if err == nil {
			t.Cleanup(func() { c.Close() })
		}
		return err
	})
	if err := g.Wait(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer first.Close()

	if c, err := Dial(ctx, addr, Options{}); err == nil {
		c.Close()
		t.Fatalf("second peer was accepted")
	}
}

func TestAcceptCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l, err := Listen(ctx, "127.0.0.1:0", Options{})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	cancel()
	if _, err := l.Accept(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want %v", err, context.Canceled)
	}
}
