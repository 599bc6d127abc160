package ansii

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type ANSI string

const (
	reset       ANSI = "\033[0m"
	plain       ANSI = ""
	bold        ANSI = "\033[1m"
	underline   ANSI = "\033[4m"
	black       ANSI = "\033[30m"
	red         ANSI = "\033[31m"
	green       ANSI = "\033[32m"
	yellow      ANSI = "\033[33m"
	blue        ANSI = "\033[34m"
	purple      ANSI = "\033[35m"
	cyan        ANSI = "\033[36m"
	white       ANSI = "\033[37m"
	clearScreen ANSI = "\033[2J"
	hideCursor  ANSI = "\033[?25l"
	showCursor  ANSI = "\033[?25h"
)

// Offset is a terminal cell. The top left cell is (1, 1).
type Offset struct {
	X int
	Y int
}

type style struct {
	Reset     ANSI
	Plain     ANSI
	Bold      ANSI
	Underline ANSI
}

type color struct {
	Black  ANSI
	Red    ANSI
	Green  ANSI
	Yellow ANSI
	Blue   ANSI
	Purple ANSI
	Cyan   ANSI
	White  ANSI
}

type screen struct {
	ClearScreen ANSI
	HideCursor  ANSI
	ShowCursor  ANSI
}

type ascii struct {
	Block string
}

var (
	Styles = style{Bold: bold, Underline: underline, Reset: reset, Plain: plain}
	Colors = color{Black: black, Red: red, Green: green, Yellow: yellow, Blue: blue, Purple: purple, Cyan: cyan, White: white}
	Screen = screen{ClearScreen: clearScreen, HideCursor: hideCursor, ShowCursor: showCursor}
	Blocks = ascii{Block: "█"}
)

func GetTermSize() (width int, height int, err error) {
	fd := int(os.Stdout.Fd())
	width, height, err = term.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("get terminal size: %w", err)
	}
	return width, height, nil
}

func MakeTermRaw() (*term.State, error) {
	return term.MakeRaw(int(os.Stdin.Fd()))
}

func RestoreTerm(prev *term.State) error {
	return term.Restore(int(os.Stdin.Fd()), prev)
}

func (s screen) PlaceCursor(offset Offset) ANSI {
	return ANSI(fmt.Sprintf("\033[%d;%dH", offset.Y, offset.X))
}

// Clip bounds drawing to a width by height grid of cells.
type Clip struct {
	Width  int
	Height int
}

func (c Clip) contains(x, y int) bool {
	return x >= 1 && y >= 1 && x <= c.Width && y <= c.Height
}

// DrawBox fills a box of `height` by `width` cells whose top left cell is
// `offset`. Cells outside the clip are skipped.
func DrawBox(builder *strings.Builder, clip Clip, offset Offset, height int, width int, style ANSI) {
	builder.WriteString(string(style))
	for hIdx := range height {
		for wIdx := range width {
			x, y := offset.X+wIdx, offset.Y+hIdx
			if !clip.contains(x, y) {
				continue
			}
			builder.WriteString(string(Screen.PlaceCursor(Offset{X: x, Y: y})))
			builder.WriteString(Blocks.Block)
		}
	}
	builder.WriteString(string(Styles.Reset))
}

// DrawText writes text starting at offset. Text past the right edge is cut.
func DrawText(builder *strings.Builder, clip Clip, offset Offset, text string, style ANSI) {
	if offset.Y < 1 || offset.Y > clip.Height {
		return
	}
	runes := []rune(text)
	if offset.X < 1 {
		if 1-offset.X >= len(runes) {
			return
		}
		runes = runes[1-offset.X:]
		offset.X = 1
	}
	if room := clip.Width - offset.X + 1; room < len(runes) {
		if room <= 0 {
			return
		}
		runes = runes[:room]
	}
	builder.WriteString(string(style))
	builder.WriteString(string(Screen.PlaceCursor(offset)))
	builder.WriteString(string(runes))
	builder.WriteString(string(Styles.Reset))
}
