// Package app runs a viewing session: it feeds input events into the view
// state and renders a new frame whenever the state asks for one.
package app

import (
	"log"
	"time"

	pmbimage "pmb-viewer/internal/image"
	"pmb-viewer/internal/pmb"
	"pmb-viewer/internal/view"
)

// DefaultPollInterval bounds how long one loop iteration waits for input.
const DefaultPollInterval = 50 * time.Millisecond

// EventSource delivers input events.
type EventSource interface {
	// Poll waits up to timeout and returns an EventNone event when nothing arrived.
	Poll(timeout time.Duration) view.Event
}

// Display shows rendered frames.
type Display interface {
	Present(canvas *pmbimage.Canvas)
	SetFullScreen(on bool)
	// Visible reports false once the window has been closed externally.
	Visible() bool
}

// Renderer turns render parameters into a canvas.
type Renderer interface {
	Render(p view.Params, vp view.Viewport) (*pmbimage.Canvas, error)
}

// Session is the single-threaded control loop of the viewer.
type Session struct {
	PollInterval time.Duration

	imgW, imgH int
	viewport   view.Viewport
	renderer   Renderer
	events     EventSource
	display    Display

	state      view.State
	fullscreen bool // fullscreen state last applied to the display
	frames     int
}

// NewSession creates a session for raster shown in a fixed viewport.
func NewSession(raster *pmb.Raster, vp view.Viewport, renderer Renderer, events EventSource, display Display) *Session {
	return &Session{
		PollInterval: DefaultPollInterval,
		imgW:         raster.Width,
		imgH:         raster.Height,
		viewport:     vp,
		renderer:     renderer,
		events:       events,
		display:      display,
		state:        view.NewState(),
	}
}

// State returns a copy of the current view state.
func (s *Session) State() view.State {
	return s.state
}

// Frames returns the number of frames presented so far.
func (s *Session) Frames() int {
	return s.frames
}

// Run loops until the user quits or the window goes away.
func (s *Session) Run() {
	for s.Step() {
	}
	log.Printf("Session ended after %d frames", s.frames)
}

// Step renders if needed, waits for one event and applies it.
// It returns false once the session is over.
func (s *Session) Step() bool {
	if s.state.Quit {
		return false
	}

	if s.state.Dirty {
		s.render()
		s.state.Dirty = false
	}

	ev := s.events.Poll(s.PollInterval)
	if !s.display.Visible() {
		s.state.Quit = true
		return false
	}

	view.Update(&s.state, ev, s.viewport)

	if s.state.Fullscreen != s.fullscreen {
		s.fullscreen = s.state.Fullscreen
		s.display.SetFullScreen(s.fullscreen)
	}
	return !s.state.Quit
}

// Params returns the render parameters for the current state.
func (s *Session) Params() view.Params {
	return view.Compute(s.imgW, s.imgH, s.viewport, s.state.Zoom, s.state.PanX, s.state.PanY)
}

func (s *Session) render() {
	canvas, err := s.renderer.Render(s.Params(), s.viewport)
	if err != nil {
		log.Printf("Render failed: %v", err)
		return
	}
	s.display.Present(canvas)
	s.frames++
}
