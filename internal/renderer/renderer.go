package renderer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"netpong/internal/ansii"
	"netpong/internal/pong"
	"netpong/internal/session"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// Terminal draws frames with ANSI escapes and reads keys from stdin. It
// satisfies session.Presenter.
type Terminal struct {
	out   io.Writer
	input chan []byte
	size  func() (int, int, error)
	prev  *term.State
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		out:   out,
		input: make(chan []byte, 16),
		size:  ansii.GetTermSize,
	}

	// Input handler
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				b := make([]byte, n)
				copy(b, buf[:n])
				t.input <- b
			}
			if err != nil {
				slog.Debug("stopped reading input", slog.Any("error", err))
				return
			}
		}
	}()

	return t
}

// EnterRaw switches the controlling terminal to raw mode and hides the
// cursor. Close undoes it.
func (t *Terminal) EnterRaw() error {
	prev, err := ansii.MakeTermRaw()
	if err != nil {
		return fmt.Errorf("make terminal raw: %w", err)
	}
	t.prev = prev
	io.WriteString(t.out, string(ansii.Screen.HideCursor))
	return nil
}

func (t *Terminal) Close() error {
	io.WriteString(t.out, string(ansii.Styles.Reset)+string(ansii.Screen.ClearScreen)+string(ansii.Screen.ShowCursor))
	io.WriteString(t.out, string(ansii.Screen.PlaceCursor(ansii.Offset{X: 1, Y: 1})))
	if t.prev == nil {
		return nil
	}
	return ansii.RestoreTerm(t.prev)
}

// Poll returns the events typed since the previous call without blocking.
func (t *Terminal) Poll() []session.Event {
	var events []session.Event
	for {
		select {
		case b := <-t.input:
			events = append(events, ParseInput(b)...)
			continue
		default:
		}
		return events
	}
}

func (t *Terminal) Render(f session.Frame) error {
	cols, rows, err := t.size()
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = defaultCols, defaultRows
	}
	_, err = io.WriteString(t.out, Draw(f, cols, rows))
	return err
}

// Draw lays the frame out on a cols by rows terminal. The playing field is
// scaled to fill the whole grid.
func Draw(f session.Frame, cols, rows int) string {
	var builder strings.Builder
	clip := ansii.Clip{Width: cols, Height: rows}
	builder.WriteString(string(ansii.Screen.ClearScreen))

	if f.Status == pong.Dead {
		ansii.DrawText(&builder, clip, ansii.Offset{X: centered(f.Text, cols), Y: rows/2 + 1}, f.Text, ansii.Styles.Bold+ansii.Colors.White)
		return builder.String()
	}

	drawRect(&builder, clip, f.Paddle1, ansii.Colors.Blue)
	drawRect(&builder, clip, f.Paddle2, ansii.Colors.Green)
	drawRect(&builder, clip, f.Ball, ansii.Colors.White)
	ansii.DrawText(&builder, clip, ansii.Offset{X: centered(f.Text, cols), Y: 1}, f.Text, ansii.Colors.White)
	return builder.String()
}

func centered(text string, cols int) int {
	return max(1, (cols-len([]rune(text)))/2+1)
}

func drawRect(builder *strings.Builder, clip ansii.Clip, r pong.Rect, style ansii.ANSI) {
	x := r.X * clip.Width / pong.FieldWidth
	y := r.Y * clip.Height / pong.FieldHeight
	w := max(1, r.W*clip.Width/pong.FieldWidth)
	h := max(1, r.H*clip.Height/pong.FieldHeight)
	ansii.DrawBox(builder, clip, ansii.Offset{X: x + 1, Y: y + 1}, h, w, style)
}

// Ticker paces the loop at a fixed number of ticks per second. It
// satisfies session.Pacer.
type Ticker struct {
	t *time.Ticker
}

func NewTicker(rate int) *Ticker {
	if rate <= 0 {
		rate = 60
	}
	return &Ticker{t: time.NewTicker(time.Second / time.Duration(rate))}
}

func (p *Ticker) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.t.C:
		return nil
	}
}

func (p *Ticker) Stop() {
	p.t.Stop()
}

// Stdio is the terminal wired to the process's standard streams.
func Stdio() *Terminal {
	return NewTerminal(os.Stdin, os.Stdout)
}
