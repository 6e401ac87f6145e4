package ical

import (
	"strconv"
	"strings"
)

// Validate is a pure function over a Component subtree: it never mutates
// the tree and recursively validates every descendant, accumulating
// structured Warnings rather than aborting on the first violation (§4.5,
// §8's "after validate(C), C is unchanged" invariant).
func Validate(c *Component) []Warning {
	return validate(c, nil)
}

func validate(c *Component, ancestors []string) []Warning {
	path := append(append([]string(nil), ancestors...), c.Name)

	var warns []Warning
	switch fold(c.Name) {
	case fold("VTODO"):
		warns = append(warns, validateTodoLike(c, path)...)
	case fold("VEVENT"):
		warns = append(warns, validateTodoLike(c, path)...)
	case fold("VJOURNAL"):
		warns = append(warns, requiredExactlyOne(c, path, "UID")...)
		warns = append(warns, requiredExactlyOne(c, path, "DTSTAMP")...)
	case fold("VALARM"):
		warns = append(warns, requiredExactlyOne(c, path, "ACTION")...)
		warns = append(warns, atLeastOne(c, path, "TRIGGER")...)
		warns = append(warns, atMostOne(c, path, "TRIGGER")...)
	}

	for _, child := range c.Children {
		warns = append(warns, validate(child, path)...)
	}
	return warns
}

// validStatuses enumerates every STATUS vocabulary RFC 5545 defines, keyed
// by the component type it belongs to. Rule 1 (§4.5) warns when a STATUS
// value is recognized but belongs to a different component's vocabulary,
// which is a stronger signal of a mistake than an arbitrary unknown string.
var validStatuses = map[string][]string{
	fold("VTODO"):    {"NEEDS-ACTION", "COMPLETED", "IN-PROGRESS", "CANCELLED"},
	fold("VEVENT"):   {"TENTATIVE", "CONFIRMED", "CANCELLED"},
	fold("VJOURNAL"): {"DRAFT", "FINAL", "CANCELLED"},
}

// validateTodoLike implements the §4.5 cross-property rule set. The rule
// set is written against VTODO in spec.md, "representative of all
// component types" — icalkit applies the same eight rules to VEVENT too,
// since DTSTART/DUE/DURATION/RECURRENCE-ID/RRULE carry identical semantics
// there (VEVENT substitutes DTEND for DUE in real calendars, but the rules
// below only reference DUE/DURATION, which remain meaningful on a VEVENT
// that a producer populated non-conformantly).
func validateTodoLike(c *Component, path []string) []Warning {
	var warns []Warning

	// Baseline cardinality (§4.5's required_exactly_one/at_most_one family).
	warns = append(warns, requiredExactlyOne(c, path, "UID")...)
	warns = append(warns, requiredExactlyOne(c, path, "DTSTAMP")...)
	for _, name := range []string{"DTSTART", "DUE", "DURATION", "CLASS", "STATUS", "RECURRENCE-ID", "GEO", "PRIORITY"} {
		warns = append(warns, atMostOne(c, path, name)...)
	}

	// Rule 1: STATUS vocabulary.
	if status := c.PropertyNamed("STATUS"); status != nil {
		val := strings.ToUpper(status.Value.Text)
		own := validStatuses[fold(c.Name)]
		if !contains(own, val) {
			belongsElsewhere := false
			for comp, vocab := range validStatuses {
				if comp == fold(c.Name) {
					continue
				}
				if contains(vocab, val) {
					belongsElsewhere = true
					break
				}
			}
			if belongsElsewhere {
				warns = append(warns, Warning{
					Code:          WarnUnknownStatus,
					MessageArgs:   []string{val},
					ComponentPath: path,
					PropertyName:  "STATUS",
				})
			}
		}
	}

	dtstart := c.PropertyNamed("DTSTART")
	due := c.PropertyNamed("DUE")
	duration := c.PropertyNamed("DURATION")
	recurrenceID := c.PropertyNamed("RECURRENCE-ID")
	rrules := c.PropertiesNamed("RRULE")

	// Rules 2 & 3: DTSTART/DUE ordering and has-time agreement.
	if dtstart != nil && due != nil && dtstart.Value.Kind == KindDateTime && due.Value.Kind == KindDateTime {
		if dtstart.Value.DateTime.After(due.Value.DateTime) {
			warns = append(warns, Warning{
				Code:          WarnDtstartAfterDue,
				ComponentPath: path,
			})
		}
		if dtstart.Value.DateTime.HasTime != due.Value.DateTime.HasTime {
			warns = append(warns, Warning{
				Code:          WarnDtstartDueTypeMismatch,
				ComponentPath: path,
			})
		}
	}

	// Rule 4: DUE and DURATION are mutually exclusive.
	if due != nil && duration != nil {
		warns = append(warns, Warning{
			Code:          WarnDueDurationConflict,
			ComponentPath: path,
		})
	}

	// Rule 5: DURATION requires DTSTART.
	if duration != nil && dtstart == nil {
		warns = append(warns, Warning{
			Code:          WarnDurationWithoutDtstart,
			ComponentPath: path,
			PropertyName:  "DURATION",
		})
	}

	// Rule 6: RECURRENCE-ID and DTSTART has-time agreement.
	if recurrenceID != nil && dtstart != nil &&
		recurrenceID.Value.Kind == KindDateTime && dtstart.Value.Kind == KindDateTime &&
		recurrenceID.Value.DateTime.HasTime != dtstart.Value.DateTime.HasTime {
		warns = append(warns, Warning{
			Code:          WarnRecurrenceIdTypeMismatch,
			ComponentPath: path,
		})
	}

	// Rule 7: BYHOUR/BYMINUTE/BYSECOND in RRULE require a date-time DTSTART.
	for _, r := range rrules {
		if r.Value.Kind != KindRecur {
			continue
		}
		needsTime := false
		for _, part := range []string{"BYHOUR", "BYMINUTE", "BYSECOND"} {
			if _, ok := r.Value.Recur.Get(part); ok {
				needsTime = true
				break
			}
		}
		if needsTime && (dtstart == nil || dtstart.Value.Kind != KindDateTime || !dtstart.Value.DateTime.HasTime) {
			warns = append(warns, Warning{
				Code:          WarnRruleTimeFieldsRequireDateTime,
				ComponentPath: path,
				PropertyName:  "RRULE",
			})
		}
	}

	// Rule 8: at most one RRULE.
	if len(rrules) > 1 {
		warns = append(warns, Warning{
			Code:          WarnMultipleRrule,
			MessageArgs:   []string{strconv.Itoa(len(rrules))},
			ComponentPath: path,
			PropertyName:  "RRULE",
		})
	}

	return warns
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// requiredExactlyOne checks the exactly-one cardinality rule (§4.5) for
// property name on c.
func requiredExactlyOne(c *Component, path []string, name string) []Warning {
	n := c.CountNamed(name)
	switch {
	case n == 0:
		return []Warning{{
			Code:          WarnCardinalityMissing,
			MessageArgs:   []string{name},
			ComponentPath: path,
			PropertyName:  name,
		}}
	case n > 1:
		return []Warning{{
			Code:          WarnCardinalityTooMany,
			MessageArgs:   []string{name, strconv.Itoa(n)},
			ComponentPath: path,
			PropertyName:  name,
		}}
	}
	return nil
}

// atMostOne checks the at-most-one cardinality rule (§4.5).
func atMostOne(c *Component, path []string, name string) []Warning {
	if n := c.CountNamed(name); n > 1 {
		return []Warning{{
			Code:          WarnCardinalityTooMany,
			MessageArgs:   []string{name, strconv.Itoa(n)},
			ComponentPath: path,
			PropertyName:  name,
		}}
	}
	return nil
}

// atLeastOne checks the at-least-one cardinality rule (§4.5).
func atLeastOne(c *Component, path []string, name string) []Warning {
	if c.CountNamed(name) == 0 {
		return []Warning{{
			Code:          WarnCardinalityMissing,
			MessageArgs:   []string{name},
			ComponentPath: path,
			PropertyName:  name,
		}}
	}
	return nil
}
