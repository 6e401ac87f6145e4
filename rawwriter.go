package ical

import (
	"io"
	"strings"
	"unicode/utf8"
)

const foldLimit = 75 // octets per physical line, per RFC 5545 §3.1

// RawWriterOptions configures a RawWriter's dialect, symmetric to
// RawReaderOptions.
type RawWriterOptions struct {
	// Circumflex selects RFC 6868 "^"-escape encoding for embedded quotes,
	// newlines, and "^" in parameter values. When false, the legacy
	// backslash scheme is used instead (§4.3, §6).
	Circumflex bool
}

// DefaultRawWriterOptions mirrors DefaultRawReaderOptions.
func DefaultRawWriterOptions() RawWriterOptions {
	return RawWriterOptions{Circumflex: true}
}

// RawWriter formats content-line events into folded wire text (§4.3),
// the write-side symmetric counterpart of RawReader.
type RawWriter struct {
	w    io.Writer
	opts RawWriterOptions
	err  error // sticky first write error
}

// NewRawWriter builds a RawWriter over w.
func NewRawWriter(w io.Writer, opts RawWriterOptions) *RawWriter {
	return &RawWriter{w: w, opts: opts}
}

// Err returns the first error encountered by any Write* call, or nil.
func (rw *RawWriter) Err() error {
	return rw.err
}

// WriteBeginComponent emits "BEGIN:NAME".
func (rw *RawWriter) WriteBeginComponent(name string) error {
	return rw.writeLine("BEGIN", nil, name)
}

// WriteEndComponent emits "END:NAME".
func (rw *RawWriter) WriteEndComponent(name string) error {
	return rw.writeLine("END", nil, name)
}

// WriteProperty emits one property content line, encoding and quoting
// parameters as needed and folding the result (§4.3).
func (rw *RawWriter) WriteProperty(name string, params *Parameters, value string) error {
	return rw.writeLine(name, params, value)
}

func (rw *RawWriter) writeLine(name string, params *Parameters, value string) error {
	if rw.err != nil {
		return rw.err
	}

	var b strings.Builder
	b.WriteString(name)
	if params != nil {
		for _, pname := range params.Names() {
			values, _ := params.Get(pname)
			b.WriteByte(';')
			b.WriteString(pname)
			if values == nil {
				continue // value-less parameter round-trips bare
			}
			b.WriteByte('=')
			for i, v := range values {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(encodeParamValue(v, rw.opts.Circumflex))
			}
		}
	}
	b.WriteByte(':')
	b.WriteString(value)

	_, err := rw.w.Write(fold75(b.String()))
	if err != nil {
		rw.err = err
	}
	return err
}

// needsQuoting reports whether a parameter value must be wrapped in double
// quotes: it contains ";", ":", ",", whitespace, or a literal double quote
// (§4.3) — unquoted paramtext excludes DQUOTE entirely, so any value
// carrying one must go through the quoted-string form.
func needsQuoting(v string) bool {
	return strings.ContainsAny(v, ";:,\" \t")
}

// encodeParamValue is the write-side inverse of decodeParamValue.
func encodeParamValue(v string, circumflex bool) string {
	var b strings.Builder
	quote := needsQuoting(v)
	if quote {
		b.WriteByte('"')
	}
	for _, r := range v {
		switch {
		case circumflex && r == '^':
			b.WriteString("^^")
		case circumflex && r == '\n':
			b.WriteString("^n")
		case circumflex && r == '"':
			b.WriteString("^'")
		case !circumflex && r == '\\':
			b.WriteString(`\\`)
		case !circumflex && r == '\n':
			b.WriteString(`\n`)
		case !circumflex && r == '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	if quote {
		b.WriteByte('"')
	}
	return b.String()
}

// fold75 splits s into a folded content line: the first physical line holds
// up to foldLimit octets, and every continuation line holds a single
// leading space plus up to foldLimit-1 further octets, never splitting a
// UTF-8 rune across physical lines (§4.3, §8). The result ends with CRLF
// and is ready to write verbatim.
func fold75(s string) []byte {
	var out []byte
	rest := s
	first := true
	for {
		limit := foldLimit
		if !first {
			limit = foldLimit - 1
		}
		if len(rest) <= limit {
			if !first {
				out = append(out, ' ')
			}
			out = append(out, rest...)
			out = append(out, '\r', '\n')
			return out
		}

		cut := limit
		for cut > 0 && !utf8.RuneStart(rest[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit // degenerate: force progress rather than loop forever
		}

		if !first {
			out = append(out, ' ')
		}
		out = append(out, rest[:cut]...)
		out = append(out, '\r', '\n')
		rest = rest[cut:]
		first = false
	}
}
