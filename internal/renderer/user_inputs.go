package renderer

import "netpong/internal/session"

type UiAction rune

const (
	Unknown UiAction = iota
	CtrlC   UiAction = 3
	Escape  UiAction = 27
	Space   UiAction = 32
	Quit    UiAction = 81 // 'Q'
	Up      UiAction = 87 // 'W'
	Down    UiAction = 83 // 'S'
	Stop    UiAction = 88 // 'X'
)

func ProcessInput(rawInput rune) (action UiAction) {
	inputVal := int(rawInput)
	// Convert to UpperCase
	if inputVal >= 97 && inputVal <= 122 {
		inputVal = inputVal - 32
	}
	return UiAction(inputVal)
}

// ParseInput turns raw terminal bytes into game events. Arrow keys arrive
// as ESC [ A..D; a lone ESC quits.
func ParseInput(b []byte) []session.Event {
	var events []session.Event
	for i := 0; i < len(b); i++ {
		if UiAction(b[i]) == Escape && i+2 < len(b) && b[i+1] == '[' {
			switch b[i+2] {
			case 'A':
				events = append(events, session.MoveUp)
			case 'B':
				events = append(events, session.MoveDown)
			case 'C', 'D':
				events = append(events, session.MoveStop)
			}
			i += 2
			continue
		}

		switch ProcessInput(rune(b[i])) {
		case Up:
			events = append(events, session.MoveUp)
		case Down:
			events = append(events, session.MoveDown)
		case Stop:
			events = append(events, session.MoveStop)
		case Space:
			events = append(events, session.Resume)
		case Quit, Escape, CtrlC:
			events = append(events, session.Quit)
		}
	}
	return events
}
