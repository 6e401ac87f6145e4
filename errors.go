package ical

import "fmt"

// SyntaxError signals malformed content-line input at a known line number.
// It is the tier-2 ("parse fault") error of §7: callers that want recoverable
// behavior never see this type directly, since RawReader reports line-level
// faults to its Listener instead of returning them; SyntaxError is reserved
// for faults that cannot be recovered from within a single logical line,
// such as a fold continuation with no preceding base line.
type SyntaxError struct {
	LineNo int    // physical line number, one-based
	Reason string // English message
}

// Error implements the standard error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ical: syntax violation on line %d: %s", e.LineNo, e.Reason)
}

// Warning codes. WarnUnknownStatus through WarnCardinalityTooMany are
// produced by Validate, each identifying a specific rule from spec.md §4.5;
// WarnMismatchedEnd and WarnMalformedValue are produced while reading, by
// ObjectReader and the registry's codecs. Message arguments and component
// context travel alongside in the Warning value itself.
const (
	WarnUnknownStatus = iota + 1
	WarnDtstartAfterDue
	WarnDtstartDueTypeMismatch
	WarnDueDurationConflict
	WarnDurationWithoutDtstart
	WarnRecurrenceIdTypeMismatch
	WarnRruleTimeFieldsRequireDateTime
	WarnMultipleRrule
	WarnCardinalityMissing
	WarnCardinalityTooMany
	WarnMismatchedEnd
	WarnMalformedValue
)

// Warning is a structured, non-fatal finding produced by Validate, by
// ObjectReader, or by a PropertyCodec's Decode. Warnings never abort
// traversal and never mutate the component tree (§4.5, §8).
type Warning struct {
	Code          int
	MessageArgs   []string
	ComponentPath []string // component names from the validated root down
	PropertyName  string   // empty when the warning is component-scoped
}

// Error implements the standard error interface so a caller may treat a
// Warning as fatal by wrapping or returning it (§7 tier 3).
func (w Warning) Error() string {
	path := ""
	for i, c := range w.ComponentPath {
		if i > 0 {
			path += "/"
		}
		path += c
	}
	if w.PropertyName == "" {
		return fmt.Sprintf("ical: [%s] warning %d: %v", path, w.Code, w.MessageArgs)
	}
	return fmt.Sprintf("ical: [%s] %s: warning %d: %v", path, w.PropertyName, w.Code, w.MessageArgs)
}
