package pong

import "log/slog"

type Ball struct {
	Rect
	Vel Vector

	initPos Vector
	initVel Vector
}

func NewBall(x, y, size int, vel Vector) *Ball {
	return &Ball{
		Rect:    Rect{X: x, Y: y, W: size, H: size},
		Vel:     vel,
		initPos: Vector{X: x, Y: y},
		initVel: vel,
	}
}

// Move advances the ball one tick inside a field of the given size. Leaving
// through the left or right side costs a life; touching the top or bottom
// reflects the vertical velocity.
func (b *Ball) Move(stats *Stats, width, height int) {
	b.X += b.Vel.X
	b.Y += b.Vel.Y

	if b.Right() > width || b.Left() < 0 {
		slog.Debug("ball out", slog.Any("pos", b.Pos()))
		stats.LoseLife()
	} else if b.Bottom() > height || b.Top() < 0 {
		slog.Debug("ball bump", slog.Any("pos", b.Pos()))
		b.Vel.Y = -b.Vel.Y
	}
}

// Reset puts the ball back on its starting spot and stops it.
func (b *Ball) Reset() {
	b.X = b.initPos.X
	b.Y = b.initPos.Y
	b.Vel = Vector{}
}

// Restart serves the ball again with the velocity it was created with.
func (b *Ball) Restart() {
	b.Vel = b.initVel
}

func (b *Ball) InitialPos() Vector { return b.initPos }
func (b *Ball) InitialVel() Vector { return b.initVel }

type Paddle struct {
	Rect
	Vel Vector

	initPos Vector
}

func NewPaddle(x, y, width, height int) *Paddle {
	return &Paddle{
		Rect:    Rect{X: x, Y: y, W: width, H: height},
		initPos: Vector{X: x, Y: y},
	}
}

// Move advances the paddle and wraps it around the top and bottom of a
// field with the given height.
func (p *Paddle) Move(height int) {
	p.X += p.Vel.X
	p.Y += p.Vel.Y

	if p.Top() < 0 {
		slog.Debug("paddle wrap", slog.String("to", "bottom"))
		p.Y = height
	} else if p.Top() > height {
		slog.Debug("paddle wrap", slog.String("to", "top"))
		p.Y = 0
	}
}

func (p *Paddle) Reset() {
	p.X = p.initPos.X
	p.Y = p.initPos.Y
	p.Vel = Vector{}
}

// MoveTo overwrites the position with one reported by the peer.
func (p *Paddle) MoveTo(pos Vector) {
	p.X = pos.X
	p.Y = pos.Y
}

// World is the field with its three entities. Paddle1 belongs to the
// authority, Paddle2 to the participant.
type World struct {
	Width   int
	Height  int
	Ball    *Ball
	Paddle1 *Paddle
	Paddle2 *Paddle
}

func NewWorld() *World {
	return &World{
		Width:   FieldWidth,
		Height:  FieldHeight,
		Ball:    NewBall(FieldWidth/2, FieldHeight/2, 16, Vector{X: -5, Y: 0}),
		Paddle1: NewPaddle(15, FieldHeight/2, 20, 90),
		Paddle2: NewPaddle(FieldWidth-30, FieldHeight/2, 30, 90),
	}
}

// Collide bounces the ball off any paddle it overlaps and scores a point.
// Only the overlap is checked: a ball that stays inside a paddle for several
// ticks bounces and scores on each of them.
func (w *World) Collide(stats *Stats) bool {
	if !w.Ball.Overlaps(w.Paddle1.Rect) && !w.Ball.Overlaps(w.Paddle2.Rect) {
		return false
	}
	slog.Debug("ball hit", slog.Any("pos", w.Ball.Pos()))
	w.Ball.Vel.X = -w.Ball.Vel.X
	stats.ScorePoint()
	return true
}

// Advance moves the ball and the authority paddle one tick.
func (w *World) Advance(stats *Stats) {
	w.Ball.Move(stats, w.Width, w.Height)
	w.Paddle1.Move(w.Height)
}

func (w *World) Reset() {
	w.Ball.Reset()
	w.Paddle1.Reset()
	w.Paddle2.Reset()
}

// Resume leaves the paused state and serves the ball from its starting spot.
func (w *World) Resume(stats *Stats) error {
	if stats.Status != Paused {
		return ErrNotPaused
	}
	stats.setStatus(Alive)
	w.Ball.Reset()
	w.Ball.Restart()
	return nil
}
