package ical

import (
	"errors"
	"io"
)

// Listener receives parse events from a RawReader, mirroring §4.2/§6's five
// listener operations. Each method returns stop=true to request early
// termination (§5's cooperative cancellation protocol): the reader ceases
// pulling from its FoldReader before the next physical line and returns
// cleanly, with no exception-based nonlocal exit (§9's "Stop-reading-via-
// exception" re-architecture note).
type Listener interface {
	BeginComponent(name string) (stop bool)
	EndComponent(name string) (stop bool)
	ReadProperty(name string, params *Parameters, value string) (stop bool)
	InvalidLine(raw string) (stop bool)
	ValuelessParameter(propertyName, paramName string) (stop bool)
}

// RawReaderOptions configures a RawReader's dialect.
type RawReaderOptions struct {
	// Circumflex enables RFC 6868 "^"-escape decoding of parameter values.
	// Defaults to enabled; set false to treat "^n" etc. as two literal
	// characters (§8 boundary case).
	Circumflex bool
}

// DefaultRawReaderOptions returns the RFC 5545-conformant default: RFC 6868
// circumflex decoding enabled.
func DefaultRawReaderOptions() RawReaderOptions {
	return RawReaderOptions{Circumflex: true}
}

// RawReader consumes logical lines from a FoldReader and, for each, invokes
// one of BeginComponent, EndComponent, ReadProperty or InvalidLine (§4.2).
// A property line with value-less parameters is first reported through one
// ValuelessParameter event per such parameter, then through ReadProperty.
type RawReader struct {
	fr       *FoldReader
	listener Listener
	opts     RawReaderOptions
}

// NewRawReader builds a RawReader over fr, reporting events to listener.
func NewRawReader(fr *FoldReader, listener Listener, opts RawReaderOptions) *RawReader {
	return &RawReader{fr: fr, listener: listener, opts: opts}
}

// Run drives the reader until the underlying stream is exhausted, the
// listener requests early termination, or an I/O fault occurs. A clean
// end-of-stream and a listener-requested stop both return nil; anything
// else (a tier-1 I/O fault per §7, or a *SyntaxError from the FoldReader) is
// returned as-is (io.EOF is never returned: it is Run's own
// normal-completion signal).
func (r *RawReader) Run() error {
	for {
		line, err := r.fr.NextLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		stop, err := r.dispatch(line)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// dispatch parses one logical line and invokes the matching Listener event.
func (r *RawReader) dispatch(line string) (stop bool, err error) {
	parsed, ok := parseContentLine(line, r.opts.Circumflex)
	if !ok {
		return r.listener.InvalidLine(line), nil
	}

	switch {
	case fold(parsed.name) == "begin":
		return r.listener.BeginComponent(parsed.value), nil
	case fold(parsed.name) == "end":
		return r.listener.EndComponent(parsed.value), nil
	}

	for _, vp := range parsed.valueless {
		if stop := r.listener.ValuelessParameter(parsed.name, vp); stop {
			return true, nil
		}
	}
	return r.listener.ReadProperty(parsed.name, parsed.params, parsed.value), nil
}

// parsedLine is the intermediate result of scanning one content line.
type parsedLine struct {
	name      string
	params    *Parameters
	value     string
	valueless []string // names of parameters with no "=" seen, in order
}

// parseContentLine implements the §4.2 state machine. ok is false for a
// line with no property name or no unquoted ":" separator (§4.2's
// "Invalid lines"); dispatch reports that via InvalidLine and the caller
// continues with the next logical line.
func parseContentLine(line string, circumflex bool) (parsedLine, bool) {
	s := scanner{s: line}

	name, ok := s.scanName()
	if !ok {
		return parsedLine{}, false
	}
	out := parsedLine{name: name, params: NewParameters()}

	for {
		c, ok := s.peek()
		if !ok {
			return parsedLine{}, false // ran out before ":"
		}
		if c == ':' {
			s.next()
			out.value = s.rest()
			return out, true
		}
		if c != ';' {
			return parsedLine{}, false
		}
		s.next() // consume ';'

		paramName, hasEquals, ok := s.scanParamName()
		if !ok {
			return parsedLine{}, false
		}
		if !hasEquals {
			out.valueless = append(out.valueless, paramName)
			out.params.Set(paramName) // zero variadic args yields the nil-values slice Get/the writer expect
			continue
		}

		var values []string
		for {
			v, ok := s.scanParamValue(circumflex)
			if !ok {
				return parsedLine{}, false
			}
			values = append(values, v)
			c, ok := s.peek()
			if !ok {
				return parsedLine{}, false
			}
			if c == ',' {
				s.next()
				continue
			}
			break
		}
		out.params.Set(paramName, values...)
	}
}

// scanner is a minimal cursor over a content line's bytes. Content lines
// are ASCII-superset UTF-8 and are processed byte-wise: none of the
// delimiters this layer cares about (";", ":", ",", "=", '"', "\\", "^")
// can appear as a continuation byte of a multi-byte UTF-8 sequence, so
// byte-wise scanning never splits a rune.
type scanner struct {
	s string
	i int
}

func (s *scanner) peek() (byte, bool) {
	if s.i >= len(s.s) {
		return 0, false
	}
	return s.s[s.i], true
}

func (s *scanner) next() {
	s.i++
}

func (s *scanner) rest() string {
	return s.s[s.i:]
}

// scanName reads the property (or BEGIN/END) name: everything up to the
// first ";" or ":". A name must be non-empty.
func (s *scanner) scanName() (string, bool) {
	start := s.i
	for s.i < len(s.s) {
		switch s.s[s.i] {
		case ';', ':':
			if s.i == start {
				return "", false
			}
			return s.s[start:s.i], true
		}
		s.i++
	}
	return "", false
}

// scanParamName reads a parameter name up to the first "=", ";", or ":".
// hasEquals is false when a ";" or ":" is hit first (§4.2's "Value-less
// parameters").
func (s *scanner) scanParamName() (name string, hasEquals bool, ok bool) {
	start := s.i
	for s.i < len(s.s) {
		switch s.s[s.i] {
		case '=':
			name = s.s[start:s.i]
			s.i++
			return name, true, name != ""
		case ';', ':':
			name = s.s[start:s.i]
			return name, false, name != ""
		}
		s.i++
	}
	return "", false, false
}

// scanParamValue reads one value of a (possibly multi-valued) parameter:
// either a quoted string or an unquoted run, stopping before the next
// unquoted ",", ";", or ":". The returned value has escape decoding applied
// per §4.2.
func (s *scanner) scanParamValue(circumflex bool) (string, bool) {
	if c, ok := s.peek(); ok && c == '"' {
		s.next()
		start := s.i
		for s.i < len(s.s) && s.s[s.i] != '"' {
			s.i++
		}
		if s.i >= len(s.s) {
			return "", false // unterminated quote
		}
		raw := s.s[start:s.i]
		s.next() // consume closing quote
		return decodeParamValue(raw, circumflex), true
	}

	start := s.i
	for s.i < len(s.s) {
		switch s.s[s.i] {
		case ',', ';', ':':
			return decodeParamValue(s.s[start:s.i], circumflex), true
		}
		s.i++
	}
	return "", false // ran off the end without a terminator
}

// decodeParamValue applies backslash and (if enabled) RFC 6868 circumflex
// escape decoding to a parameter value already extracted from its quotes
// (§4.2's "Escape handling"). Both schemes apply to parameter values only;
// the property value field (§4.2, last sentence) is never run through this.
func decodeParamValue(raw string, circumflex bool) string {
	var b []byte
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw):
			n := raw[i+1]
			switch n {
			case '\\':
				b = append(b, '\\')
				i++
			case 'n', 'N':
				b = append(b, '\n')
				i++
			case '"':
				b = append(b, '"')
				i++
			default:
				b = append(b, c)
			}
		case circumflex && c == '^' && i+1 < len(raw):
			n := raw[i+1]
			switch n {
			case '^':
				b = append(b, '^')
				i++
			case 'n':
				b = append(b, '\n')
				i++
			case '\'':
				b = append(b, '"')
				i++
			default:
				b = append(b, c)
			}
		default:
			b = append(b, c)
		}
	}
	return string(b)
}
