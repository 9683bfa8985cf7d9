package view

const (
	MinZoom       = 0.1
	wheelZoomStep = 1.1
	keyZoomStep   = 1.2
	panStep       = 50
)

// State is the mutable view state of one viewing session.
// Zoom, pan and fullscreen are independent; Quit is terminal.
type State struct {
	Zoom       float64
	PanX       int
	PanY       int
	Fullscreen bool
	Quit       bool
	Dirty      bool // a render is pending
}

// NewState returns the initial state with a render pending.
func NewState() State {
	return State{Zoom: 1, Dirty: true}
}

// EventKind identifies an input event.
type EventKind int

const (
	EventNone  EventKind = iota // poll timeout
	EventWheel                  // mouse wheel at X, Y
	EventKey                    // key press
	EventClose                  // window closed externally
)

// Key is a recognized key.
type Key int

const (
	KeyNone Key = iota
	KeyQuit
	KeyZoomIn
	KeyZoomOut
	KeyReset
	KeyFullscreen
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
)

// Event is a single input event delivered to Update.
type Event struct {
	Kind    EventKind
	Key     Key
	WheelUp bool // EventWheel: true zooms in
	X, Y    int  // EventWheel: cursor position in viewport coordinates
}

// KeyFromCode maps a raw key code to a Key. Both the common arrow codes
// (81-84) and the extended ones reported by some platforms are accepted.
func KeyFromCode(code int) Key {
	switch code {
	case 'q':
		return KeyQuit
	case '+', '=':
		return KeyZoomIn
	case '-':
		return KeyZoomOut
	case 'r':
		return KeyReset
	case 'f':
		return KeyFullscreen
	case 81, 2424832:
		return KeyLeft
	case 82, 2490368:
		return KeyUp
	case 83, 2555904:
		return KeyRight
	case 84, 2621440:
		return KeyDown
	}
	return KeyNone
}

// Update applies one event to s. vp is needed to anchor wheel zoom on the cursor.
func Update(s *State, ev Event, vp Viewport) {
	if s.Quit {
		return
	}

	switch ev.Kind {
	case EventWheel:
		old := s.Zoom
		if ev.WheelUp {
			s.Zoom *= wheelZoomStep
		} else {
			s.Zoom = max(MinZoom, s.Zoom/wheelZoomStep)
		}
		s.PanX = ZoomAboutCursor(ev.X-vp.Width/2, s.PanX, old, s.Zoom)
		s.PanY = ZoomAboutCursor(ev.Y-vp.Height/2, s.PanY, old, s.Zoom)
		s.Dirty = true
	case EventKey:
		updateKey(s, ev.Key)
	case EventClose:
		s.Quit = true
	}
}

func updateKey(s *State, key Key) {
	switch key {
	case KeyQuit:
		s.Quit = true
		return
	case KeyZoomIn:
		s.Zoom *= keyZoomStep
	case KeyZoomOut:
		s.Zoom = max(MinZoom, s.Zoom/keyZoomStep)
	case KeyReset:
		s.Zoom = 1
		s.PanX, s.PanY = 0, 0
	case KeyFullscreen:
		s.Fullscreen = !s.Fullscreen
	// Up moves the content down and Left moves it right.
	case KeyLeft:
		s.PanX += panStep
	case KeyRight:
		s.PanX -= panStep
	case KeyUp:
		s.PanY += panStep
	case KeyDown:
		s.PanY -= panStep
	default:
		return
	}
	s.Dirty = true
}
