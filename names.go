package ical

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fold normalizes a property, parameter, or component name for
// case-insensitive comparison and map keying. §9's open question resolves
// all name comparisons (BEGIN/END, property names, parameter names) to be
// ASCII-case-insensitive uniformly, rather than mixing equalsIgnoreCase in
// some paths and case-sensitive comparison in others.
var folder = cases.Fold()

func fold(name string) string {
	return folder.String(name)
}

// NormalizeLanguageTag canonicalizes the value of a LANGUAGE parameter
// (RFC 5545 §3.2.10, BCP 47) to its canonical form, e.g. "EN-US" -> "en-US".
// An unparsable tag is returned unchanged: the core never rejects input on
// a parameter it merely carries along (§6: property-value and parameter
// interpretation stays with the registered decoder, not the raw codec).
func NormalizeLanguageTag(s string) string {
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	return tag.String()
}
