package port

// TextStyle selects the font treatment of one drawn string.
type TextStyle struct {
	Size float64 // font size in points
	Bold bool
}

// PageRenderer is the rendering capability consumed by the document
// compiler: draw text or a line at a position on the current page, add a
// page, and emit the final byte stream. Coordinates are millimeters from
// the top-left page corner. The compiler owns sequencing; the renderer is
// expected to reproduce identical bytes for identical call sequences.
type PageRenderer interface {
	AddPage()
	DrawText(x, y float64, text string, style TextStyle)
	DrawLine(x1, y1, x2, y2 float64)
	PageCount() int
	Output() ([]byte, error)
}
