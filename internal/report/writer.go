package report

import "io"

// Writer formats rows into a reused buffer and writes them immediately.
//
// After the first write error every later call is a no-op; the error is
// available from Err.
type Writer struct {
	w   io.Writer
	buf []byte
	err error
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:   w,
		buf: make([]byte, 0, 128),
	}
}

// Header writes the title line.
func (p *Writer) Header() {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, Header)
}

// Line writes one row.
func (p *Writer) Line(l Line) {
	if p.err != nil {
		return
	}
	p.buf = AppendLine(p.buf[:0], l)
	_, p.err = p.w.Write(p.buf)
}

// Err returns the first write error.
func (p *Writer) Err() error {
	return p.err
}
