// Package termutil provides helper classes for printing values on terminals
// and in-memory buffers.
package termutil

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// Printer is the destination of rendered values and diagnostics.
type Printer interface {
	// Write writes the given text data to the output.
	Write(data []byte) (int, error)

	// WriteString is similar to Write(), but it takes a string.
	WriteString(data string)
	// WriteInt writes the value in decimal. It is equivalent to WriteString(fmt.Sprintf("%v", v))
	WriteInt(v int64)
	// WriteFloat writes the value in decimal. Integral values print without a
	// fraction part.
	WriteFloat(v float64)

	// Ok() becomes false once a Write fails. After that, Write and WriteString
	// become no-ops.
	Ok() bool

	// Close closes the printer and releases its resources.
	Close()
}

// batchPrinter is a non-interactive printer that prints to the given output.
type batchPrinter struct {
	out    io.Writer
	err    errors.Once
	fmtBuf [32]byte
}

// Write implements Printer.
func (p *batchPrinter) Write(data []byte) (int, error) {
	if !p.Ok() {
		return len(data), nil
	}
	n, err := p.out.Write(data)
	p.err.Set(err)
	return n, err
}

// WriteString implements Printer.
func (p *batchPrinter) WriteString(data string) {
	p.Write([]byte(data)) // nolint: errcheck
}

// WriteInt implements Printer.
func (p *batchPrinter) WriteInt(v int64) {
	p.Write(strconv.AppendInt(p.fmtBuf[:0], v, 10)) // nolint: errcheck
}

// WriteFloat implements Printer.
func (p *batchPrinter) WriteFloat(v float64) {
	if v == math.Trunc(v) && !math.IsInf(v, 0) && math.Abs(v) < 1e15 {
		p.Write(strconv.AppendFloat(p.fmtBuf[:0], v, 'f', 0, 64)) // nolint: errcheck
		return
	}
	p.Write(strconv.AppendFloat(p.fmtBuf[:0], v, 'g', -1, 64)) // nolint: errcheck
}

// Ok implements Printer.
func (p *batchPrinter) Ok() bool { return p.err.Err() == nil }

// BufferPrinter is a non-interactive printer that prints to an in-memory
// buffer. String() retrieves the buffer contents.
type BufferPrinter struct {
	batchPrinter
	buf strings.Builder
}

// NewBufferPrinter creates a new, empty BufferPrinter.
func NewBufferPrinter() *BufferPrinter {
	b := &BufferPrinter{}
	b.batchPrinter.out = &b.buf
	return b
}

// Reset clears the printer's buffer.
func (p *BufferPrinter) Reset() { p.buf.Reset() }

// Close implements Printer.
func (p *BufferPrinter) Close() { p.Reset() }

// String yields the data written via Write and WriteString. It is idempotent.
func (p *BufferPrinter) String() string { return p.buf.String() }

// writerPrinter is a non-interactive printer that prints to an io.Writer.
type writerPrinter struct {
	batchPrinter
}

// NewWriterPrinter creates a Printer that writes to the given writer. The
// writer is not closed by Close.
func NewWriterPrinter(out io.Writer) Printer {
	p := &writerPrinter{}
	p.batchPrinter.out = out
	return p
}

// Close implements Printer.
func (p *writerPrinter) Close() {}
