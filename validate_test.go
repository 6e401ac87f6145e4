package ical

import "testing"

func todoWith(props ...*Property) *Component {
	c := NewComponent("VTODO")
	for _, p := range props {
		c.AddProperty(p)
	}
	return c
}

func dtProp(name, wire string) *Property {
	d, err := ParseDateTime(wire)
	if err != nil {
		panic(err)
	}
	return NewProperty(name, Value{Kind: KindDateTime, DateTime: d})
}

func durProp(name, wire string) *Property {
	d, err := ParseDuration(wire)
	if err != nil {
		panic(err)
	}
	return NewProperty(name, Value{Kind: KindDuration, Duration: d})
}

func recurProp(name, wire string) *Property {
	r, err := ParseRecur(wire)
	if err != nil {
		panic(err)
	}
	return NewProperty(name, Value{Kind: KindRecur, Recur: r})
}

func baseline() []*Property {
	return []*Property{
		NewProperty("UID", TextValue("abc")),
		dtProp("DTSTAMP", "20230101T000000Z"),
	}
}

func TestValidateMinimalTodoHasNoWarnings(t *testing.T) {
	c := todoWith(append(baseline(), NewProperty("SUMMARY", TextValue("write report")))...)
	if warns := Validate(c); len(warns) != 0 {
		t.Fatalf("expected no warnings, got %+v", warns)
	}
}

func TestValidateMissingUidAndDtstamp(t *testing.T) {
	c := NewComponent("VTODO")
	warns := Validate(c)
	if !hasCode(warns, WarnCardinalityMissing) {
		t.Fatalf("expected WarnCardinalityMissing, got %+v", warns)
	}
	count := 0
	for _, w := range warns {
		if w.Code == WarnCardinalityMissing {
			count++
		}
	}
	if count != 2 { // UID and DTSTAMP both missing
		t.Fatalf("expected 2 missing-cardinality warnings, got %d: %+v", count, warns)
	}
}

func TestValidateUnknownStatusCrossVocabulary(t *testing.T) {
	c := todoWith(append(baseline(), NewProperty("STATUS", TextValue("CONFIRMED")))...)
	warns := Validate(c)
	if !hasCode(warns, WarnUnknownStatus) {
		t.Fatalf("expected WarnUnknownStatus for a VEVENT-only status on a VTODO, got %+v", warns)
	}
}

func TestValidateOwnVocabularyStatusIsFine(t *testing.T) {
	c := todoWith(append(baseline(), NewProperty("STATUS", TextValue("NEEDS-ACTION")))...)
	if warns := Validate(c); hasCode(warns, WarnUnknownStatus) {
		t.Fatalf("STATUS within VTODO's own vocabulary should not warn, got %+v", warns)
	}
}

func TestValidateDtstartDueTypeMismatch(t *testing.T) {
	c := todoWith(append(baseline(),
		dtProp("DTSTART", "20230601"),
		dtProp("DUE", "20230610T120000Z"),
	)...)
	warns := Validate(c)
	if !hasCode(warns, WarnDtstartDueTypeMismatch) {
		t.Fatalf("expected WarnDtstartDueTypeMismatch, got %+v", warns)
	}
}

func TestValidateDurationWithoutDtstart(t *testing.T) {
	c := todoWith(append(baseline(), durProp("DURATION", "PT1H"))...)
	warns := Validate(c)
	if !hasCode(warns, WarnDurationWithoutDtstart) {
		t.Fatalf("expected WarnDurationWithoutDtstart, got %+v", warns)
	}
}

func TestValidateRecurrenceIdTypeMismatch(t *testing.T) {
	c := todoWith(append(baseline(),
		dtProp("DTSTART", "20230601T120000Z"),
		dtProp("RECURRENCE-ID", "20230601"),
	)...)
	warns := Validate(c)
	if !hasCode(warns, WarnRecurrenceIdTypeMismatch) {
		t.Fatalf("expected WarnRecurrenceIdTypeMismatch, got %+v", warns)
	}
}

func TestValidateRruleTimeFieldsRequireDateTime(t *testing.T) {
	c := todoWith(append(baseline(),
		dtProp("DTSTART", "20230601"),
		recurProp("RRULE", "FREQ=DAILY;BYHOUR=9"),
	)...)
	warns := Validate(c)
	if !hasCode(warns, WarnRruleTimeFieldsRequireDateTime) {
		t.Fatalf("expected WarnRruleTimeFieldsRequireDateTime, got %+v", warns)
	}
}

func TestValidateRruleTimeFieldsOkWithDateTimeDtstart(t *testing.T) {
	c := todoWith(append(baseline(),
		dtProp("DTSTART", "20230601T090000Z"),
		recurProp("RRULE", "FREQ=DAILY;BYHOUR=9"),
	)...)
	warns := Validate(c)
	if hasCode(warns, WarnRruleTimeFieldsRequireDateTime) {
		t.Fatalf("did not expect WarnRruleTimeFieldsRequireDateTime, got %+v", warns)
	}
}

func TestValidateMultipleRrule(t *testing.T) {
	c := todoWith(append(baseline(),
		dtProp("DTSTART", "20230601T090000Z"),
		recurProp("RRULE", "FREQ=DAILY"),
		recurProp("RRULE", "FREQ=WEEKLY"),
	)...)
	warns := Validate(c)
	if !hasCode(warns, WarnMultipleRrule) {
		t.Fatalf("expected WarnMultipleRrule, got %+v", warns)
	}
}

func TestValidateVJournalBaseline(t *testing.T) {
	c := NewComponent("VJOURNAL")
	warns := Validate(c)
	count := 0
	for _, w := range warns {
		if w.Code == WarnCardinalityMissing {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected UID and DTSTAMP both missing on an empty VJOURNAL, got %+v", warns)
	}
}

func TestValidateVAlarmRequiresActionAndTrigger(t *testing.T) {
	c := NewComponent("VALARM")
	warns := Validate(c)
	if !hasCode(warns, WarnCardinalityMissing) {
		t.Fatalf("expected missing ACTION/TRIGGER warnings, got %+v", warns)
	}
}

func TestValidateVAlarmTooManyTriggers(t *testing.T) {
	c := NewComponent("VALARM")
	c.AddProperty(NewProperty("ACTION", TextValue("DISPLAY")))
	c.AddProperty(durProp("TRIGGER", "PT15M")) // wire form is arbitrary here; cardinality is what's tested
	c.AddProperty(durProp("TRIGGER", "PT30M"))
	warns := Validate(c)
	if !hasCode(warns, WarnCardinalityTooMany) {
		t.Fatalf("expected WarnCardinalityTooMany for duplicate TRIGGER, got %+v", warns)
	}
}

func TestValidateNeverMutatesInput(t *testing.T) {
	c := todoWith(baseline()...)
	before := len(c.Properties)
	beforeChildren := len(c.Children)
	_ = Validate(c)
	if len(c.Properties) != before || len(c.Children) != beforeChildren {
		t.Fatalf("Validate mutated its input component")
	}
}

func TestValidateRecursesIntoChildren(t *testing.T) {
	cal := NewComponent("VCALENDAR")
	todo := NewComponent("VTODO") // missing UID/DTSTAMP
	cal.AddChild(todo)

	warns := Validate(cal)
	found := false
	for _, w := range warns {
		if len(w.ComponentPath) == 2 && w.ComponentPath[0] == "VCALENDAR" && w.ComponentPath[1] == "VTODO" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning attributed to VCALENDAR/VTODO, got %+v", warns)
	}
}
