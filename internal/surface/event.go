package surface

import (
	"fmt"
	"strings"
)

// Tool selects what a pointer gesture does to the raster.
type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
	ToolFill
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	case ToolFill:
		return "fill"
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool maps a tool name back to its Tool.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brush", "b":
		return ToolBrush, nil
	case "eraser", "e":
		return ToolEraser, nil
	case "fill", "f", "bucket":
		return ToolFill, nil
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Mode is the interaction state of a Surface.
type Mode int

const (
	ModeIdle Mode = iota
	ModeStroking
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeStroking:
		return "stroking"
	case ModePanning:
		return "panning"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// EventKind is the phase of a pointer gesture.
type EventKind int

const (
	EventStart EventKind = iota
	EventMove
	EventEnd
	// EventCancel aborts a gesture, e.g. when the pointer leaves the window.
	EventCancel
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Button identifies the pointer button that started a gesture.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Event is a normalised pointer event in screen coordinates.
type Event struct {
	Kind      EventKind
	X, Y      float64
	Tool      Tool
	Modifiers Modifiers
	Button    Button
}

// Handle routes ev through the state machine. Middle-button and Alt drags
// pan; other gestures stroke or fill depending on ev.Tool.
func (s *Surface) Handle(ev Event) error {
	switch ev.Kind {
	case EventStart:
		if ev.Button == ButtonMiddle || ev.Modifiers&ModAlt != 0 {
			return s.StartPan(ev.X, ev.Y)
		}
		if ev.Tool == ToolFill {
			_, err := s.FillAt(ev.X, ev.Y)
			return err
		}
		return s.StartStroke(ev.X, ev.Y, ev.Tool)
	case EventMove:
		switch s.Mode() {
		case ModeStroking:
			return s.Draw(ev.X, ev.Y)
		case ModePanning:
			s.PanTo(ev.X, ev.Y)
		}
	case EventEnd:
		switch s.Mode() {
		case ModeStroking:
			s.EndStroke()
		case ModePanning:
			s.EndPan()
		}
	case EventCancel:
		switch s.Mode() {
		case ModeStroking:
			s.CancelStroke()
		case ModePanning:
			s.EndPan()
		}
	}
	return nil
}
