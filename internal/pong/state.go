package pong

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	FieldWidth  = 640
	FieldHeight = 480

	StartingLives = 3
	PaddleSpeed   = 5
)

var ErrNotPaused = errors.New("game is not paused")

type Status int

const (
	Alive Status = iota + 1
	Paused
	Dead
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case Alive:
		return "ALIVE"
	case Paused:
		return "PAUSE"
	case Dead:
		return "DEAD"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func ParseStatus(name string) (Status, error) {
	switch name {
	case "ALIVE":
		return Alive, nil
	case "PAUSE":
		return Paused, nil
	case "DEAD":
		return Dead, nil
	}
	return 0, fmt.Errorf("unknown game state %q", name)
}

type Vector struct {
	X int
	Y int
}

// Rect is an axis aligned box with its origin at the top left corner.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Pos() Vector { return Vector{X: r.X, Y: r.Y} }

// Overlaps reports whether the two boxes share any area. Touching edges do
// not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left() < o.Right() && r.Right() > o.Left() &&
		r.Top() < o.Bottom() && r.Bottom() > o.Top()
}

// Stats is the score, lives and lifecycle of a game. The authority mutates
// it; the participant only overwrites it from inbound snapshots.
type Stats struct {
	Score  int
	Lives  int
	Status Status
}

func NewStats() *Stats {
	return &Stats{
		Score:  0,
		Lives:  StartingLives,
		Status: Alive,
	}
}

func (s *Stats) LoseLife() {
	if s.Status == Dead {
		return
	}
	slog.Info("lost a life", slog.Int("from", s.Lives), slog.Int("to", s.Lives-1))
	s.Lives--
	if s.Lives > 0 {
		s.setStatus(Paused)
	} else {
		s.setStatus(Dead)
	}
}

func (s *Stats) ScorePoint() {
	s.Score++
}

func (s *Stats) setStatus(status Status) {
	slog.Info("new game state", slog.Any("state", status))
	s.Status = status
}

// Text is the status line shown to the player.
func (s *Stats) Text() string {
	if s.Status == Dead {
		return fmt.Sprintf("Game over! Final score: %d :D", s.Score)
	}
	return fmt.Sprintf("Score: %d ||| Lives: %d", s.Score, s.Lives)
}
