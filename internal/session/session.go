// Package session runs the per-tick synchronization loop shared by both
// peers: apply local input, take in the peer's snapshot, simulate when
// authoritative, publish the local snapshot and hand a frame to the
// presentation layer.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"netpong/internal/pong"
)

// ErrQuit is returned by Tick when the player asked to leave.
var ErrQuit = errors.New("quit")

type Event int

const (
	MoveUp Event = iota + 1
	MoveDown
	MoveStop
	Resume
	Quit
)

// Channel is the non-blocking peer connection.
type Channel interface {
	TrySend(b []byte) (bool, error)
	TryReceive() ([]byte, error)
	Close() error
}

// Presenter draws frames and collects player input. Poll must not block.
type Presenter interface {
	Poll() []Event
	Render(f Frame) error
}

// Pacer holds the loop to its tick rate.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Frame is what the presentation layer draws for one tick. It is a copy;
// changing it has no effect on the game.
type Frame struct {
	Paddle1 pong.Rect
	Paddle2 pong.Rect
	Ball    pong.Rect
	Status  pong.Status
	Text    string
}

type Options struct {
	// PaddleSpeed is the vertical speed of the local paddle while a move
	// key is held.
	PaddleSpeed int
	Logger      *slog.Logger
}

type Session struct {
	role     Role
	strategy strategy
	conn     Channel
	world    *pong.World
	stats    *pong.Stats
	speed    int
	velocity pong.Vector
	log      *slog.Logger
}

func New(role Role, conn Channel, opts Options) *Session {
	speed := opts.PaddleSpeed
	if speed <= 0 {
		speed = pong.PaddleSpeed
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		role:     role,
		strategy: strategyFor(role),
		conn:     conn,
		world:    pong.NewWorld(),
		stats:    pong.NewStats(),
		speed:    speed,
		log:      log.With(slog.String("role", role.String())),
	}
}

func (s *Session) Role() Role { return s.role }

// Stats returns a copy of the current score, lives and status.
func (s *Session) Stats() pong.Stats { return *s.stats }

// Tick runs one step of the loop. It returns ErrQuit when a Quit event was
// seen and a wrapped connection error when the peer is gone; either ends the
// session.
func (s *Session) Tick(events []Event) (Frame, error) {
	if err := s.handleInput(events); err != nil {
		return s.frame(), err
	}
	s.strategy.own(s.world).Vel = s.velocity

	b, err := s.conn.TryReceive()
	if err != nil {
		return s.frame(), fmt.Errorf("receive: %w", err)
	}
	if b != nil {
		if err := s.strategy.apply(b, s.world, s.stats); err != nil {
			s.log.Debug("failed to parse peer state", slog.Any("error", err), slog.String("data", string(b)))
		}
	}

	s.strategy.simulate(s.world, s.stats)

	switch s.stats.Status {
	case pong.Alive:
		s.strategy.advance(s.world, s.stats)
	case pong.Paused:
		s.world.Reset()
	case pong.Dead:
		return s.frame(), nil
	}

	out, err := s.strategy.encode(s.world, s.stats)
	if err != nil {
		return s.frame(), fmt.Errorf("encode: %w", err)
	}
	if _, err := s.conn.TrySend(out); err != nil {
		return s.frame(), fmt.Errorf("send: %w", err)
	}
	return s.frame(), nil
}

func (s *Session) handleInput(events []Event) error {
	for _, ev := range events {
		switch ev {
		case MoveUp:
			s.velocity = pong.Vector{Y: -s.speed}
		case MoveDown:
			s.velocity = pong.Vector{Y: s.speed}
		case MoveStop:
			s.velocity = pong.Vector{}
		case Resume:
			if !s.strategy.canResume() {
				s.log.Debug("resume ignored, only the server can resume")
				continue
			}
			if err := s.world.Resume(s.stats); err != nil {
				s.log.Debug("resume ignored", slog.Any("error", err))
			}
		case Quit:
			return ErrQuit
		}
	}
	return nil
}

func (s *Session) frame() Frame {
	return Frame{
		Paddle1: s.world.Paddle1.Rect,
		Paddle2: s.world.Paddle2.Rect,
		Ball:    s.world.Ball.Rect,
		Status:  s.stats.Status,
		Text:    s.stats.Text(),
	}
}

// Run ticks until the player quits, ctx is done or the connection fails.
// The connection is closed on return. Quitting returns nil.
func (s *Session) Run(ctx context.Context, p Presenter, pacer Pacer) error {
	defer s.conn.Close()

	for {
		f, err := s.Tick(p.Poll())
		if errors.Is(err, ErrQuit) {
			s.log.Info("quitting")
			return nil
		}
		if err != nil {
			return err
		}
		if err := p.Render(f); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := pacer.Wait(ctx); err != nil {
			return err
		}
	}
}
