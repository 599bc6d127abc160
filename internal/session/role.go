package session

import (
	"netpong/internal/pong"
	"netpong/internal/wire"
)

type Role int

const (
	Authority Role = iota + 1
	Participant
)

func (r Role) String() string {
	switch r {
	case Authority:
		return "authority"
	case Participant:
		return "participant"
	}
	return "unknown"
}

// strategy holds everything that differs between the two peers: which
// paddle is local, what gets published and what is taken from the wire.
type strategy interface {
	own(w *pong.World) *pong.Paddle
	encode(w *pong.World, stats *pong.Stats) ([]byte, error)
	apply(b []byte, w *pong.World, stats *pong.Stats) error
	simulate(w *pong.World, stats *pong.Stats)
	advance(w *pong.World, stats *pong.Stats)
	canResume() bool
}

func strategyFor(r Role) strategy {
	if r == Authority {
		return authority{}
	}
	return participant{}
}

type authority struct{}

func (authority) own(w *pong.World) *pong.Paddle { return w.Paddle1 }

func (authority) encode(w *pong.World, stats *pong.Stats) ([]byte, error) {
	return wire.EncodeAuthority(wire.AuthorityState{
		Paddle1: w.Paddle1.Pos(),
		Ball:    w.Ball.Pos(),
		Status:  stats.Status,
		Score:   stats.Score,
		Lives:   stats.Lives,
	})
}

func (authority) apply(b []byte, w *pong.World, _ *pong.Stats) error {
	s, err := wire.DecodeParticipant(b)
	if err != nil {
		return err
	}
	w.Paddle2.MoveTo(s.Paddle2)
	return nil
}

func (authority) simulate(w *pong.World, stats *pong.Stats) {
	w.Collide(stats)
}

func (authority) advance(w *pong.World, stats *pong.Stats) {
	w.Advance(stats)
}

func (authority) canResume() bool { return true }

type participant struct{}

func (participant) own(w *pong.World) *pong.Paddle { return w.Paddle2 }

func (participant) encode(w *pong.World, _ *pong.Stats) ([]byte, error) {
	return wire.EncodeParticipant(wire.ParticipantState{Paddle2: w.Paddle2.Pos()})
}

func (participant) apply(b []byte, w *pong.World, stats *pong.Stats) error {
	s, err := wire.DecodeAuthority(b)
	if err != nil {
		return err
	}
	w.Paddle1.MoveTo(s.Paddle1)
	w.Ball.X, w.Ball.Y = s.Ball.X, s.Ball.Y
	stats.Status = s.Status
	stats.Score = s.Score
	stats.Lives = s.Lives
	return nil
}

func (participant) simulate(*pong.World, *pong.Stats) {}

func (participant) advance(w *pong.World, _ *pong.Stats) {
	w.Paddle2.Move(w.Height)
}

func (participant) canResume() bool { return false }
