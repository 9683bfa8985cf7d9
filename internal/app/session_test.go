package app

import (
	"errors"
	"testing"
	"time"

	pmbimage "pmb-viewer/internal/image"
	"pmb-viewer/internal/pmb"
	"pmb-viewer/internal/view"

	"github.com/google/go-cmp/cmp"
)

var testViewport = view.Viewport{Width: 100, Height: 80}

type scriptedEvents struct {
	events []view.Event
	polls  int
}

func (s *scriptedEvents) Poll(time.Duration) view.Event {
	s.polls++
	if len(s.events) == 0 {
		return view.Event{}
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

type recordingDisplay struct {
	presented  int
	fullscreen []bool
	closed     bool
}

func (d *recordingDisplay) Present(*pmbimage.Canvas) { d.presented++ }
func (d *recordingDisplay) SetFullScreen(on bool)    { d.fullscreen = append(d.fullscreen, on) }
func (d *recordingDisplay) Visible() bool            { return !d.closed }

type recordingRenderer struct {
	params []view.Params
	err    error
}

func (r *recordingRenderer) Render(p view.Params, vp view.Viewport) (*pmbimage.Canvas, error) {
	r.params = append(r.params, p)
	if r.err != nil {
		return nil, r.err
	}
	return pmbimage.NewCanvas(vp.Width, vp.Height), nil
}

func keyEvent(k view.Key) view.Event {
	return view.Event{Kind: view.EventKey, Key: k}
}

func newTestSession(events ...view.Event) (*Session, *recordingRenderer, *recordingDisplay) {
	r := &recordingRenderer{}
	d := &recordingDisplay{}
	s := NewSession(pmb.NewRaster("t", 10, 8, 3), testViewport, r, &scriptedEvents{events: events}, d)
	return s, r, d
}

func TestSessionRendersOnlyWhenDirty(t *testing.T) {
	s, r, d := newTestSession(view.Event{}, view.Event{}, keyEvent(view.KeyZoomIn))

	for i := 0; i < 3; i++ {
		if !s.Step() {
			t.Fatalf("step %d ended the session", i)
		}
	}
	if d.presented != 1 {
		t.Fatalf("expected a single initial frame, got %d", d.presented)
	}

	s.Step()
	if d.presented != 2 || s.Frames() != 2 {
		t.Errorf("expected a second frame after zooming, got %d", d.presented)
	}
	if len(r.params) != 2 || r.params[1].Scale <= r.params[0].Scale {
		t.Errorf("expected a larger scale after zooming, got %+v", r.params)
	}
}

func TestSessionParamsFollowState(t *testing.T) {
	s, r, _ := newTestSession(keyEvent(view.KeyLeft), keyEvent(view.KeyReset))

	s.Step()
	s.Step()
	s.Step()

	want := []view.Params{
		view.Compute(10, 8, testViewport, 1, 0, 0),
		view.Compute(10, 8, testViewport, 1, 50, 0),
		view.Compute(10, 8, testViewport, 1, 0, 0),
	}
	if diff := cmp.Diff(want, r.params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionFullscreenSync(t *testing.T) {
	s, _, d := newTestSession(keyEvent(view.KeyFullscreen), view.Event{}, keyEvent(view.KeyFullscreen))

	for i := 0; i < 3; i++ {
		s.Step()
	}
	if diff := cmp.Diff([]bool{true, false}, d.fullscreen); diff != "" {
		t.Errorf("fullscreen calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionRunStopsOnQuit(t *testing.T) {
	s, _, d := newTestSession(keyEvent(view.KeyZoomIn), keyEvent(view.KeyQuit), keyEvent(view.KeyZoomIn))

	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	if !s.State().Quit {
		t.Error("expected quit state")
	}
	if d.presented != 2 {
		t.Errorf("expected 2 frames, got %d", d.presented)
	}
	if s.Step() {
		t.Error("Step after quit should report the session is over")
	}
}

func TestSessionStopsWhenWindowCloses(t *testing.T) {
	s, _, d := newTestSession()
	d.closed = true

	if s.Step() {
		t.Fatal("expected the session to end when the display is gone")
	}
	if !s.State().Quit {
		t.Error("expected quit state")
	}
}

func TestSessionRenderErrorDoesNotSpin(t *testing.T) {
	s, r, d := newTestSession()
	r.err = errors.New("out of memory")

	s.Step()
	s.Step()
	if len(r.params) != 1 {
		t.Errorf("expected one render attempt, got %d", len(r.params))
	}
	if d.presented != 0 {
		t.Errorf("expected nothing presented, got %d", d.presented)
	}
}
