package ical

import (
	"bufio"
	"errors"
	"io"
)

// FoldReader turns a byte stream into logical content lines, joining
// continuation lines per RFC 5545 §3.1: any physical line whose first
// character is SPACE or HTAB continues the previous logical line, with that
// one leading whitespace character stripped. Bare CR, CRLF, and LF all
// terminate a physical line. Empty physical lines terminate the current
// logical line and are themselves discarded.
//
// FoldReader buffers at most one physical line ahead of the logical line it
// is assembling, per §5's "no internal buffering beyond one logical line."
type FoldReader struct {
	r *bufio.Reader

	hasPending bool   // a physical line has been read ahead into pending
	pending    []byte // the read-ahead physical line, minus its terminator
	pendingNo  int    // physical line number of pending

	lineNo     int // physical line number the last line returned by NextLine began on
	physicalNo int // physical lines consumed so far
}

// NewFoldReader wraps r. r is read through a bufio.Reader, which may consume
// bytes beyond the current physical line; callers should not read from it
// again once passed to NewFoldReader.
func NewFoldReader(r io.Reader) *FoldReader {
	return &FoldReader{r: bufio.NewReader(r)}
}

// CurrentLineNumber returns the physical line number the most recently
// returned logical line began on.
func (f *FoldReader) CurrentLineNumber() int {
	return f.lineNo
}

// NextLine returns the next logical line with its trailing line terminator
// removed, or io.EOF once the stream is exhausted. A logical line is never
// empty on return: an empty physical line always terminates and discards
// whatever logical line was being assembled, and a run of such discards is
// simply skipped over until real content or end of stream is found.
func (f *FoldReader) NextLine() (string, error) {
	base, startNo, err := f.readPhysical()
	for err == nil && len(base) == 0 {
		base, startNo, err = f.readPhysical()
	}
	if err != nil {
		return "", err
	}
	if base[0] == ' ' || base[0] == '\t' {
		// A line selected as a logical line's base (rather than consumed by
		// peekContinuation as a continuation of one) is, by construction,
		// not preceded by an open logical line for it to fold into.
		return "", &SyntaxError{LineNo: startNo, Reason: "fold continuation with no preceding logical line"}
	}

	buf := append([]byte(nil), base...)

	for {
		cont, ok, err := f.peekContinuation()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		buf = append(buf, cont...)
	}

	f.lineNo = startNo
	return string(buf), nil
}

// readPhysical consumes and returns the next physical line (minus its
// terminator), along with the physical line number it started on. A line
// stashed by peekContinuation's lookahead is drained first.
func (f *FoldReader) readPhysical() (line []byte, lineNo int, err error) {
	if f.hasPending {
		f.hasPending = false
		return f.pending, f.pendingNo, nil
	}
	line, err = f.readTerminatedLine()
	if err != nil {
		return nil, 0, err
	}
	f.physicalNo++
	return line, f.physicalNo, nil
}

// peekContinuation reads one more physical line and, if it begins with a
// fold-continuation whitespace character, strips that character and returns
// it as part of the current logical line. Otherwise the line is stashed for
// the following call to readPhysical.
func (f *FoldReader) peekContinuation() (cont []byte, ok bool, err error) {
	line, lineNo, err := f.readPhysical()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(line) == 0 || (line[0] != ' ' && line[0] != '\t') {
		f.hasPending = true
		f.pending = line
		f.pendingNo = lineNo
		return nil, false, nil
	}
	return line[1:], true, nil
}

// readTerminatedLine reads one physical line up to (and consuming) its
// terminator: CRLF, a bare CR, or a bare LF are all recognized (§4.1). The
// returned slice never includes the terminator. A final, unterminated line
// at end of stream is still returned once, paired with a nil error; the
// following call reports io.EOF.
func (f *FoldReader) readTerminatedLine() ([]byte, error) {
	var buf []byte
	any := false
	for {
		b, err := f.r.ReadByte()
		if err != nil {
			if !any {
				return nil, err
			}
			return buf, nil
		}
		any = true
		switch b {
		case '\n':
			return buf, nil
		case '\r':
			next, peekErr := f.r.Peek(1)
			if peekErr == nil && len(next) == 1 && next[0] == '\n' {
				f.r.Discard(1)
			}
			return buf, nil
		default:
			buf = append(buf, b)
		}
	}
}
