package pmb

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func decodeString(t *testing.T, src string) (*Raster, []*PixelError) {
	t.Helper()
	var warnings []*PixelError
	d := &Decoder{OnWarning: func(e *PixelError) { warnings = append(warnings, e) }}
	r, err := d.Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return r, warnings
}

func TestDecodeRowsAndSwap(t *testing.T) {
	r, warnings := decodeString(t, "name\n2,2\n(10,20,30)\n(40,50,60)N\n(70,80,90)\n(100,110,120)")

	if r.Name != "name" || r.Width != 2 || r.Height != 2 || r.Channels != 3 {
		t.Fatalf("unexpected header: %q %dx%d channels=%d", r.Name, r.Width, r.Height, r.Channels)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	want := map[[2]int][]uint8{
		{0, 0}: {30, 20, 10},
		{1, 0}: {60, 50, 40},
		{0, 1}: {90, 80, 70},
		{1, 1}: {120, 110, 100},
	}
	for pos, px := range want {
		if diff := cmp.Diff(px, r.At(pos[0], pos[1])); diff != "" {
			t.Errorf("pixel %v mismatch (-want +got):\n%s", pos, diff)
		}
	}
}

func TestDecodeOutOfBoundsColumn(t *testing.T) {
	r, warnings := decodeString(t, "img\n2,1\n(1,2,3)\n(4,5,6)\n(7,8,9)N\n")

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	w := warnings[0]
	if w.Kind != OutOfBounds || w.X != 2 || w.Y != 0 || w.Line != 5 {
		t.Errorf("unexpected warning: %+v", w)
	}
	if diff := cmp.Diff([]uint8{3, 2, 1, 6, 5, 4}, r.Pix); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMalformedKeepsSentinel(t *testing.T) {
	r, warnings := decodeString(t, "img\n3,1\n(1,2,3)\n(oops)\n(7,8,9)N")

	if len(warnings) != 1 || warnings[0].Kind != Malformed || warnings[0].Line != 4 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if diff := cmp.Diff([]uint8{3, 2, 1, 255, 255, 255, 9, 8, 7}, r.Pix); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMalformedLines(t *testing.T) {
	for _, line := range []string{"(1,2)", "(1,2,3,4,5)", "(1,2,256)", "(-1,2,3)", "1,2,3", "(a,b,c)", ""} {
		t.Run(line, func(t *testing.T) {
			r, warnings := decodeString(t, "img\n2,1\n(1,2,3)\n"+line+"\n")
			if len(warnings) != 1 || warnings[0].Kind != Malformed {
				t.Fatalf("expected one malformed warning, got %v", warnings)
			}
			if diff := cmp.Diff([]uint8{255, 255, 255}, r.At(1, 0)); diff != "" {
				t.Errorf("cell overwritten (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodePureRowTerminator(t *testing.T) {
	r, warnings := decodeString(t, "img\n2,2\n(1,2,3)\nN\n(4,5,6)N\n")

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	want := []uint8{
		3, 2, 1, 255, 255, 255,
		6, 5, 4, 255, 255, 255,
	}
	if diff := cmp.Diff(want, r.Pix); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeStopsAtHeight(t *testing.T) {
	r, warnings := decodeString(t, "img\n1,1\n(1,2,3)N\n(9,9,9)\n(garbage\n")

	if len(warnings) != 0 {
		t.Errorf("lines after the last row should be ignored, got %v", warnings)
	}
	if diff := cmp.Diff([]uint8{3, 2, 1}, r.Pix); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeChannelMismatch(t *testing.T) {
	t.Run("pad alpha", func(t *testing.T) {
		r, warnings := decodeString(t, "img\n2,1\n(1,2,3,4)\n(5,6,7)N")
		if r.Channels != 4 {
			t.Fatalf("expected 4 channels, got %d", r.Channels)
		}
		if len(warnings) != 1 || warnings[0].Kind != ChannelMismatch {
			t.Fatalf("unexpected warnings: %v", warnings)
		}
		if diff := cmp.Diff([]uint8{3, 2, 1, 4, 7, 6, 5, 255}, r.Pix); diff != "" {
			t.Errorf("pixels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("truncate alpha", func(t *testing.T) {
		r, warnings := decodeString(t, "img\n2,1\n(1,2,3)\n(5,6,7,8)N")
		if r.Channels != 3 {
			t.Fatalf("expected 3 channels, got %d", r.Channels)
		}
		if len(warnings) != 1 || warnings[0].Kind != ChannelMismatch {
			t.Fatalf("unexpected warnings: %v", warnings)
		}
		if diff := cmp.Diff([]uint8{3, 2, 1, 7, 6, 5}, r.Pix); diff != "" {
			t.Errorf("pixels mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDecodeWhitespaceAndCRLF(t *testing.T) {
	r, warnings := decodeString(t, "  photo  \r\n 2 , 1 \r\n( 1 , 2 , 3 )\r\n(4,5,6,)N\r\n")

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if r.Name != "photo" {
		t.Errorf("expected name %q, got %q", "photo", r.Name)
	}
	if diff := cmp.Diff([]uint8{3, 2, 1, 6, 5, 4}, r.Pix); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeDimensionsHonored(t *testing.T) {
	var b strings.Builder
	b.WriteString("big\n3,2\n")
	for i := 0; i < 20; i++ {
		b.WriteString("(0,0,0)\n")
		if i%4 == 3 {
			b.WriteString("N\n")
		}
	}

	r, warnings := decodeString(t, b.String())
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("expected 3x2, got %dx%d", r.Width, r.Height)
	}
	if len(r.Pix) != 3*2*3 {
		t.Errorf("expected %d bytes, got %d", 3*2*3, len(r.Pix))
	}
	for _, w := range warnings {
		if w.Kind != OutOfBounds {
			t.Errorf("unexpected warning: %v", w)
		}
	}
	// Every row gets 4 pixels for 3 columns.
	if len(warnings) != 2 {
		t.Errorf("expected 2 out-of-bounds warnings, got %d", len(warnings))
	}
}

func TestDecodeFatal(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", ErrTooShort},
		{"name only", "img\n", ErrTooShort},
		{"no pixels", "img\n2,2\n", ErrTooShort},
		{"bad width", "img\nx,2\n(1,2,3)\n", ErrDimensions},
		{"zero height", "img\n2,0\n(1,2,3)\n", ErrDimensions},
		{"single dimension", "img\n2\n(1,2,3)\n", ErrDimensions},
		{"three dimensions", "img\n2,2,2\n(1,2,3)\n", ErrDimensions},
		{"first pixel garbage", "img\n2,2\nhello\n", ErrFirstPixel},
		{"first pixel terminator", "img\n2,2\nN\n(1,2,3)\n", ErrFirstPixel},
		{"first pixel two components", "img\n2,2\n(1,2)\n", ErrFirstPixel},
		{"dimensions overflow", "img\n3037000500,3037000500\n(1,2,3)\n", ErrDimensions},
		{"dimensions over pixel cap", "img\n100000,100000\n(1,2,3)\n", ErrDimensions},
		{"name line too long", strings.Repeat("a", maxLineLength+1) + "\n1,1\n(1,2,3)\n", ErrUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := (&Decoder{}).Decode(strings.NewReader(tt.src))
			if r != nil {
				t.Errorf("expected no raster, got %dx%d", r.Width, r.Height)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("expected *FormatError, got %T", err)
			}
		})
	}
}

func TestDecodeUnreadable(t *testing.T) {
	_, err := (&Decoder{}).Decode(iotest.ErrReader(errors.New("disk on fire")))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}

	_, err = DecodeFile(t.TempDir() + "/missing.pmb")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable for missing file, got %v", err)
	}
}

func TestDecodeLargestAllowedDimensions(t *testing.T) {
	if _, _, err := parseDimensions(fmt.Sprintf("%d,1", MaxPixels)); err != nil {
		t.Errorf("expected %d x 1 to be accepted, got %v", MaxPixels, err)
	}
	if _, _, err := parseDimensions(fmt.Sprintf("%d,2", MaxPixels/2+1)); err == nil {
		t.Error("expected an error just above the pixel cap")
	}
}

func TestDecodeOverlongPixelLine(t *testing.T) {
	long := "(1,2,3" + strings.Repeat(" ", maxLineLength) + ")"
	src := "img\n3,2\n(10,20,30)\n" + long + "\n(40,50,60)N\n" + long + "N\n(70,80,90)\n"

	r, warnings := decodeString(t, src)

	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	for i, want := range []PixelError{{Line: 4, X: 1, Y: 0}, {Line: 6, X: 0, Y: 1}} {
		w := warnings[i]
		if w.Kind != Malformed || w.Line != want.Line || w.X != want.X || w.Y != want.Y {
			t.Errorf("warning %d: expected malformed at line %d (%d, %d), got %+v", i, want.Line, want.X, want.Y, w)
		}
		if !errors.Is(w, errTooLong) {
			t.Errorf("warning %d: expected errTooLong, got %v", i, w.Err)
		}
	}

	white := []uint8{255, 255, 255}
	want := map[[2]int][]uint8{
		{0, 0}: {30, 20, 10},
		{1, 0}: white,
		{2, 0}: {60, 50, 40},
		{0, 1}: white,
		{1, 1}: white,
	}
	for pos, px := range want {
		if diff := cmp.Diff(px, r.At(pos[0], pos[1])); diff != "" {
			t.Errorf("pixel %v mismatch (-want +got):\n%s", pos, diff)
		}
	}
}
