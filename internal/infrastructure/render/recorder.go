// Package render provides the concrete page renderer used by the document
// compiler. The renderer records draw operations into a deterministic
// plain-text stream: identical documents always produce identical bytes,
// which keeps generated addendum files diffable and testable. The stream is
// a faithful description of an A4 page layout in millimeters and can be fed
// to any downstream PDF printer.
package render

import (
	"bytes"
	"fmt"

	"estate_addendum/internal/app/port"
)

// Recorder implements port.PageRenderer by appending one line per draw
// operation to an in-memory buffer. Not safe for concurrent use; the
// compiler drives a renderer from a single goroutine.
type Recorder struct {
	buf       bytes.Buffer
	pageCount int
}

// NewRecorder returns an empty recorder with no pages.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// AddPage starts a new page. Coordinates of subsequent operations are
// relative to the new page's top-left corner.
func (r *Recorder) AddPage() {
	r.pageCount++
	fmt.Fprintf(&r.buf, "PAGE %d\n", r.pageCount)
}

// DrawText places text at the given position in millimeters.
func (r *Recorder) DrawText(x, y float64, text string, style port.TextStyle) {
	weight := "normal"
	if style.Bold {
		weight = "bold"
	}
	fmt.Fprintf(&r.buf, "TEXT %.2f %.2f %.1f %s %q\n", x, y, style.Size, weight, text)
}

// DrawLine draws a straight line between two points in millimeters.
func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	fmt.Fprintf(&r.buf, "LINE %.2f %.2f %.2f %.2f\n", x1, y1, x2, y2)
}

// PageCount returns the number of pages started so far.
func (r *Recorder) PageCount() int {
	return r.pageCount
}

// Output returns the recorded stream. Calling Output before any page was
// added is an error: a document always has at least a title page.
func (r *Recorder) Output() ([]byte, error) {
	if r.pageCount == 0 {
		return nil, fmt.Errorf("no pages rendered")
	}
	return r.buf.Bytes(), nil
}
