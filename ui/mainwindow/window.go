// Package mainwindow provides the viewer window.
package mainwindow

import (
	"sync/atomic"
	"time"
	"unicode"

	pmbimage "pmb-viewer/internal/image"
	"pmb-viewer/internal/view"
	"pmb-viewer/ui/canvas"

	"fyne.io/fyne/v2"
)

// MainWindow is the viewer window. It acts as both the event source and the
// display of a viewing session.
type MainWindow struct {
	fyne.Window
	canvas *canvas.ViewerCanvas
	size   fyne.Size
	closed atomic.Bool
}

// New creates the window with a fixed initial size matching vp.
func New(fyneApp fyne.App, title string, vp view.Viewport) *MainWindow {
	win := fyneApp.NewWindow(title)

	mw := &MainWindow{
		Window: win,
		canvas: canvas.NewViewerCanvas(vp),
		size:   fyne.NewSize(float32(vp.Width), float32(vp.Height)),
	}

	mw.SetPadded(false)
	mw.SetContent(mw.canvas)
	mw.Resize(mw.size)
	mw.SetMaster()
	mw.setupEventHandlers()

	return mw
}

// setupEventHandlers forwards keys and the close button to the event queue.
func (mw *MainWindow) setupEventHandlers() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if k := keyFromName(ev.Name); k != view.KeyNone {
			mw.canvas.Push(view.Event{Kind: view.EventKey, Key: k})
		}
	})
	mw.Canvas().SetOnTypedRune(func(r rune) {
		if k := keyFromRune(r); k != view.KeyNone {
			mw.canvas.Push(view.Event{Kind: view.EventKey, Key: k})
		}
	})
	mw.SetCloseIntercept(func() {
		mw.closed.Store(true)
		mw.canvas.Push(view.Event{Kind: view.EventClose})
	})
}

// Present displays a rendered frame.
func (mw *MainWindow) Present(c *pmbimage.Canvas) {
	mw.canvas.SetFrame(c.RGBA())
}

// SetFullScreen switches fullscreen and restores the fixed size when leaving it.
func (mw *MainWindow) SetFullScreen(on bool) {
	mw.Window.SetFullScreen(on)
	if !on {
		mw.Resize(mw.size)
	}
}

// Visible reports whether the window is still open.
func (mw *MainWindow) Visible() bool {
	return !mw.closed.Load()
}

// Poll waits up to timeout for the next input event.
func (mw *MainWindow) Poll(timeout time.Duration) view.Event {
	return mw.canvas.Poll(timeout)
}

// keyFromName maps the non-printable keys; printable ones arrive as runes.
func keyFromName(name fyne.KeyName) view.Key {
	switch name {
	case fyne.KeyLeft:
		return view.KeyLeft
	case fyne.KeyUp:
		return view.KeyUp
	case fyne.KeyRight:
		return view.KeyRight
	case fyne.KeyDown:
		return view.KeyDown
	}
	return view.KeyNone
}

// keyFromRune maps typed characters. Upper case letters are ignored so that
// 'Q'..'T' are not mistaken for the raw arrow codes.
func keyFromRune(r rune) view.Key {
	if r > unicode.MaxASCII || unicode.IsUpper(r) {
		return view.KeyNone
	}
	return view.KeyFromCode(int(r))
}
