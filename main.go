// Package main provides the entry point for the PMB viewer.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"pmb-viewer/internal/app"
	pmbimage "pmb-viewer/internal/image"
	"pmb-viewer/internal/pmb"
	"pmb-viewer/internal/version"
	"pmb-viewer/internal/view"
	"pmb-viewer/ui/mainwindow"
	"pmb-viewer/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"golang.org/x/term"
)

const (
	appTitle = "PMB Viewer"
	appID    = "io.github.pmbviewer"

	defaultWindowWidth  = 1000
	defaultWindowHeight = 800

	namePrompt = "Enter the name of the image> "
)

const helpText = `Controls:
  mouse wheel   zoom in/out about the cursor
  + / =         zoom in
  -             zoom out
  arrow keys    pan
  r             reset zoom and pan
  f             toggle fullscreen
  q             quit`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.String())

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	path, err := resolvePath(os.Args[1:], os.Stdin, os.Stdout, interactive)
	if err != nil {
		fmt.Printf("Error loading file: %v\n", err)
		return
	}

	raster, err := pmb.DecodeFile(path)
	if err != nil {
		fmt.Printf("Error loading file: %v\n", err)
		return
	}
	log.Printf("Loaded %s: %q %dx%d, %d channels", path, raster.Name, raster.Width, raster.Height, raster.Channels)
	for _, s := range pmb.Stats(raster) {
		log.Printf("  %s: mean %.2f, stddev %.2f", s.Name, s.Mean, s.StdDev)
	}

	appPrefs := prefs.Load()
	log.Printf("Preferences: %s", appPrefs.Path())
	vp := view.Viewport{
		Width:  appPrefs.PositiveInt(prefs.KeyWindowWidth, defaultWindowWidth),
		Height: appPrefs.PositiveInt(prefs.KeyWindowHeight, defaultWindowHeight),
	}

	fmt.Println(helpText)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	win := mainwindow.New(fyneApp, windowTitle(raster), vp)

	compositor := pmbimage.NewCompositor(raster, pmbimage.CVResampler{},
		appPrefs.PositiveInt(prefs.KeyResampleCacheSize, pmbimage.DefaultCacheSize))
	session := app.NewSession(raster, vp, compositor, win, win)
	session.PollInterval = appPrefs.Duration(prefs.KeyPollIntervalMs, app.DefaultPollInterval)

	go func() {
		session.Run()
		win.Close()
	}()

	win.ShowAndRun()
}

// resolvePath returns the PMB file named on the command line, or asks for a
// base name on in and derives "<name>.pmb". The prompt is written to out only
// when interactive.
func resolvePath(args []string, in io.Reader, out io.Writer, interactive bool) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if interactive {
		fmt.Fprint(out, namePrompt)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read image name: %w", err)
	}
	name := strings.TrimSpace(line)
	if name == "" {
		return "", fmt.Errorf("no image name given")
	}
	return name + ".pmb", nil
}

func windowTitle(r *pmb.Raster) string {
	return fmt.Sprintf("%s (%dx%d)", r.Name, r.Width, r.Height)
}
