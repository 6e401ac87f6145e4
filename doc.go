// Package ical reads, writes, and validates iCalendar data per RFC 5545,
// with legacy compatibility for RFC 2445 and RFC 6868 parameter encoding.
//
// The package is organized leaves-first, mirroring the wire format itself:
// a FoldReader turns a byte stream into logical content lines, a RawReader
// turns logical lines into (name, parameters, value) events, an ObjectReader
// assembles those events into a Component tree, and Validate walks that tree
// for cardinality and cross-property rule violations. The Raw/Object writers
// are the symmetric counterparts for serialization.
//
// Recurrence expansion, network transmission, rendering, and time zone
// database lookups are out of scope; DATE-TIME values are opaque instants
// with a has-time-of-day flag.
package ical
