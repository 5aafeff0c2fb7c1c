package lumber

import (
	"bytes"
)

// Writer adapts a Logger into an io.Writer so that subprocess output can be
// streamed into the log. Input is split on newlines and each line becomes a
// debug entry. Writer must be closed when finished to flush buffered data.
type Writer struct {
	// Log specifies the logger to which the Writer will write messages.
	// The Writer will panic if Log is unspecified.
	Log  Logger
	buff bytes.Buffer
}

// NewWriter returns a new Writer that writes to the provided Logger.
func NewWriter(log Logger) *Writer {
	return &Writer{Log: log}
}

// Write buffers the provided bytes, emitting one log entry per complete line.
func (w *Writer) Write(bs []byte) (n int, err error) {
	n = len(bs)
	for len(bs) > 0 {
		idx := bytes.IndexByte(bs, '\n')
		if idx < 0 {
			// no newline yet, keep the partial line buffered
			w.buff.Write(bs)
			break
		}
		w.buff.Write(bs[:idx])
		// flush even when the line is empty so blank lines in the middle of
		// a stream are not silently dropped
		w.flush(true)
		bs = bs[idx+1:]
	}
	return n, nil
}

// Close closes the writer, flushing any buffered data in the process.
func (w *Writer) Close() error {
	return w.Sync()
}

// Sync flushes buffered data to the logger as a new log entry even if it
// doesn't contain a newline.
func (w *Writer) Sync() error {
	// Trailing newlines are common at the end of subprocess output, so an
	// empty buffer on Close does not produce an extra entry.
	w.flush(false)
	return nil
}

func (w *Writer) flush(allowEmpty bool) {
	if allowEmpty || w.buff.Len() > 0 {
		w.Log.Debugf("%s", w.buff.String())
	}
	w.buff.Reset()
}
