// Package config loads the optional ".icalintrc" properties file the
// command-line tools accept, following the ordered key=value configuration
// style Arduino's tooling uses for board and sketch properties.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	properties "github.com/arduino/go-properties-orderedmap"

	"github.com/icalkit/ical"
)

// Options is the subset of ical.RawReaderOptions/RawWriterOptions and
// registry dialect a properties file can control.
type Options struct {
	Circumflex bool
	Dialect    ical.Dialect
}

// Default mirrors the library defaults: RFC 6868 circumflex decoding on,
// RFC 5545 dialect.
func Default() Options {
	return Options{Circumflex: true, Dialect: ical.RFC5545}
}

// Load reads path as an ordered properties file (blank lines and "#"
// comments ignored) and overlays recognized keys onto the default options.
// A missing file is not an error: it simply yields Default().
//
// Recognized keys:
//
//	circumflex = true|false
//	dialect    = rfc5545|rfc2445
func Load(path string) (Options, error) {
	opts := Default()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, err
	}
	defer f.Close()

	props := properties.NewMap()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		props.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return opts, err
	}

	if props.ContainsKey("circumflex") {
		b, err := strconv.ParseBool(props.Get("circumflex"))
		if err == nil {
			opts.Circumflex = b
		}
	}
	if props.ContainsKey("dialect") {
		switch strings.ToLower(props.Get("dialect")) {
		case "rfc2445":
			opts.Dialect = ical.RFC2445
		case "rfc5545":
			opts.Dialect = ical.RFC5545
		}
	}
	return opts, nil
}

// ReaderOptions projects Options onto the raw reader's option struct.
func (o Options) ReaderOptions() ical.RawReaderOptions {
	return ical.RawReaderOptions{Circumflex: o.Circumflex}
}

// WriterOptions projects Options onto the raw writer's option struct.
func (o Options) WriterOptions() ical.RawWriterOptions {
	return ical.RawWriterOptions{Circumflex: o.Circumflex}
}
