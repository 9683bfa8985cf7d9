package pmb

import (
	"bufio"
	"bytes"
	"io"
)

// lineReader yields lines without their terminators. Lines longer than
// maxLineLength are consumed whole but returned empty with TooLong set.
type lineReader struct {
	r      *bufio.Reader
	lineNo int
	err    error

	tooLong     bool
	longEndsRow bool // the over-long line carried the row marker
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next line. ok is false at end of input or on a read error.
func (lr *lineReader) Next() (line string, ok bool) {
	if lr.err != nil {
		return "", false
	}
	lr.tooLong, lr.longEndsRow = false, false

	var buf []byte
	read := false
	for {
		chunk, isPrefix, err := lr.r.ReadLine()
		if err != nil {
			if err != io.EOF {
				lr.err = err
			}
			if !read {
				return "", false
			}
			break
		}
		read = true

		switch {
		case lr.tooLong:
			lr.longEndsRow = lr.longEndsRow || bytes.Contains(chunk, []byte(rowMarker))
		case len(buf)+len(chunk) > maxLineLength:
			lr.tooLong = true
			lr.longEndsRow = bytes.Contains(buf, []byte(rowMarker)) || bytes.Contains(chunk, []byte(rowMarker))
			buf = nil
		default:
			buf = append(buf, chunk...)
		}
		if !isPrefix {
			break
		}
	}
	lr.lineNo++
	return string(buf), true
}

// TooLong reports whether the last line exceeded maxLineLength.
func (lr *lineReader) TooLong() bool {
	return lr.tooLong
}

// Err returns the first non-EOF read error.
func (lr *lineReader) Err() error {
	return lr.err
}
