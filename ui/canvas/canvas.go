// Package canvas provides the widget that displays rendered frames and turns
// mouse wheel input into viewer events.
package canvas

import (
	"image"
	"sync"
	"time"

	"pmb-viewer/internal/view"
	"pmb-viewer/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// eventBuffer is the number of input events held until the session polls.
const eventBuffer = 64

// ViewerCanvas shows the latest frame and queues input events.
type ViewerCanvas struct {
	widget.BaseWidget

	viewport view.Viewport
	raster   *fynecanvas.Raster

	mu    sync.Mutex
	frame image.Image

	events chan view.Event
}

// NewViewerCanvas creates a canvas sized for the given viewport.
func NewViewerCanvas(vp view.Viewport) *ViewerCanvas {
	vc := &ViewerCanvas{
		viewport: vp,
		events:   make(chan view.Event, eventBuffer),
	}

	vc.raster = fynecanvas.NewRaster(vc.draw)
	vc.raster.ScaleMode = fynecanvas.ImageScalePixels
	vc.raster.SetMinSize(fyne.NewSize(float32(vp.Width), float32(vp.Height)))

	vc.ExtendBaseWidget(vc)
	return vc
}

// SetFrame replaces the displayed frame.
func (vc *ViewerCanvas) SetFrame(img image.Image) {
	vc.mu.Lock()
	vc.frame = img
	vc.mu.Unlock()
	vc.raster.Refresh()
}

// Push queues an event for the session. Events are dropped when the queue is full.
func (vc *ViewerCanvas) Push(ev view.Event) {
	select {
	case vc.events <- ev:
	default:
	}
}

// Poll waits up to timeout for the next queued event.
func (vc *ViewerCanvas) Poll(timeout time.Duration) view.Event {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-vc.events:
		return ev
	case <-timer.C:
		return view.Event{Kind: view.EventNone}
	}
}

// Scrolled implements fyne.Scrollable; the wheel zooms about the cursor.
func (vc *ViewerCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	x, y := vc.toViewport(ev.Position)
	vc.Push(view.Event{Kind: view.EventWheel, WheelUp: ev.Scrolled.DY > 0, X: x, Y: y})
}

// toViewport maps a widget position to viewport pixels. The frame is
// stretched over the widget, which differs from the viewport in fullscreen.
func (vc *ViewerCanvas) toViewport(pos fyne.Position) (int, int) {
	size := vc.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return int(pos.X), int(pos.Y)
	}
	x := float64(pos.X) * float64(vc.viewport.Width) / float64(size.Width)
	y := float64(pos.Y) * float64(vc.viewport.Height) / float64(size.Height)
	return int(x), int(y)
}

// draw is the raster generator; it returns the last frame or black.
func (vc *ViewerCanvas) draw(w, h int) image.Image {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.frame == nil {
		return image.NewUniform(colorutil.Black)
	}
	return vc.frame
}

// CreateRenderer implements fyne.Widget.
func (vc *ViewerCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(vc.raster)
}
