package pmb

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// rowMarker ends the current row when it appears anywhere on a pixel line.
const rowMarker = "N"

// maxLineLength bounds a single line. Longer pixel lines are skipped with a
// warning; a longer header line is fatal.
const maxLineLength = 1 << 20

// MaxPixels bounds width*height so a raster never exceeds 1 GiB at 4 channels.
const MaxPixels = 1 << 28

var (
	errNotTuple = errors.New("not a parenthesized tuple")
	errArity    = errors.New("tuple must have 3 or 4 components")
	errBlank    = errors.New("blank line")
	errTooLong  = fmt.Errorf("line longer than %d bytes", maxLineLength)
)

// Decoder decodes PMB streams.
type Decoder struct {
	// OnWarning receives every recoverable pixel problem. Nil discards them.
	OnWarning func(*PixelError)
}

// Decode reads a PMB stream, logging recoverable problems.
func Decode(r io.Reader) (*Raster, error) {
	d := &Decoder{OnWarning: logWarning}
	return d.Decode(r)
}

// DecodeFile opens and decodes the PMB file at path.
func DecodeFile(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	defer f.Close()
	return Decode(f)
}

func logWarning(e *PixelError) {
	log.Printf("pmb: %v", e)
}

// Decode reads a PMB stream from r.
func (d *Decoder) Decode(r io.Reader) (*Raster, error) {
	lr := newLineReader(r)

	next := func() (string, error) {
		line, ok := lr.Next()
		if !ok {
			if err := lr.Err(); err != nil {
				return "", &FormatError{Line: lr.lineNo + 1, Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
			}
			return "", &FormatError{Line: lr.lineNo + 1, Err: ErrTooShort}
		}
		if lr.TooLong() {
			return "", &FormatError{Line: lr.lineNo, Err: fmt.Errorf("%w: %v", ErrUnreadable, errTooLong)}
		}
		return line, nil
	}

	nameLine, err := next()
	if err != nil {
		return nil, err
	}
	dimLine, err := next()
	if err != nil {
		return nil, err
	}
	width, height, err := parseDimensions(dimLine)
	if err != nil {
		return nil, &FormatError{Line: lr.lineNo, Err: fmt.Errorf("%w: %v", ErrDimensions, err)}
	}
	first, err := next()
	if err != nil {
		return nil, err
	}
	firstPx, err := parseTuple(stripMarker(first))
	if err != nil {
		return nil, &FormatError{Line: lr.lineNo, Err: fmt.Errorf("%w: %v", ErrFirstPixel, err)}
	}

	raster := NewRaster(strings.TrimSpace(nameLine), width, height, len(firstPx))

	x, y := 0, 0
	line := first
	for y < height {
		if lr.TooLong() {
			d.warn(&PixelError{Line: lr.lineNo, X: x, Y: y, Kind: Malformed, Err: errTooLong})
			if lr.longEndsRow {
				x, y = 0, y+1
			} else {
				x++
			}
		} else {
			x, y = d.decodeLine(raster, line, lr.lineNo, x, y)
		}

		var ok bool
		if line, ok = lr.Next(); !ok {
			break
		}
	}
	if err := lr.Err(); err != nil {
		return nil, &FormatError{Line: lr.lineNo + 1, Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	return raster, nil
}

// decodeLine applies one pixel line at (x, y) and returns the next cursor.
func (d *Decoder) decodeLine(raster *Raster, line string, lineNo, x, y int) (int, int) {
	endsRow := strings.Contains(line, rowMarker)
	field := stripMarker(line)

	switch {
	case field == "" && endsRow:
		// pure row terminator
	case field == "":
		d.warn(&PixelError{Line: lineNo, X: x, Y: y, Kind: Malformed, Err: errBlank})
	default:
		px, err := parseTuple(field)
		if err != nil {
			d.warn(&PixelError{Line: lineNo, X: x, Y: y, Kind: Malformed, Err: err})
			break
		}
		if !raster.In(x, y) {
			d.warn(&PixelError{Line: lineNo, X: x, Y: y, Kind: OutOfBounds})
			break
		}
		if len(px) != raster.Channels {
			d.warn(&PixelError{Line: lineNo, X: x, Y: y, Kind: ChannelMismatch,
				Err: fmt.Errorf("got %d components, want %d", len(px), raster.Channels)})
			px = fitChannels(px, raster.Channels)
		}
		copy(raster.At(x, y), px)
	}

	return advance(line, x, y)
}

// advance moves the cursor past the pixel on line.
func advance(line string, x, y int) (int, int) {
	if strings.Contains(line, rowMarker) {
		return 0, y + 1
	}
	return x + 1, y
}

func (d *Decoder) warn(e *PixelError) {
	if d.OnWarning != nil {
		d.OnWarning(e)
	}
}

func stripMarker(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, rowMarker, ""))
}

func parseDimensions(line string) (int, int, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want \"width,height\", got %q", line)
	}
	var dims [2]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, err
		}
		if v <= 0 {
			return 0, 0, fmt.Errorf("dimension %d is not positive", v)
		}
		dims[i] = v
	}
	if dims[0] > MaxPixels/dims[1] {
		return 0, 0, fmt.Errorf("%dx%d exceeds %d pixels", dims[0], dims[1], MaxPixels)
	}
	return dims[0], dims[1], nil
}

// parseTuple parses "(c0, c1, c2[, c3])" and returns the components with
// c0 and c2 swapped.
func parseTuple(s string) ([]uint8, error) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("%w: %q", errNotTuple, s)
	}
	fields := strings.Split(s[1:len(s)-1], ",")
	if n := len(fields); n > 1 && strings.TrimSpace(fields[n-1]) == "" {
		fields = fields[:n-1]
	}
	if len(fields) != 3 && len(fields) != 4 {
		return nil, fmt.Errorf("%w: got %d", errArity, len(fields))
	}

	px := make([]uint8, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("component %d out of range", v)
		}
		px[i] = uint8(v)
	}
	px[0], px[2] = px[2], px[0]
	return px, nil
}

// fitChannels truncates extra components or pads a missing alpha with 255.
func fitChannels(px []uint8, channels int) []uint8 {
	if len(px) >= channels {
		return px[:channels]
	}
	out := make([]uint8, channels)
	copy(out, px)
	for i := len(px); i < channels; i++ {
		out[i] = 255
	}
	return out
}
