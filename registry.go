package ical

import "strconv"

// Dialect selects which legacy behaviors a Registry honors. RFC 2445 is the
// predecessor of RFC 5545; the only behavioral difference icalkit tracks is
// whether the superseded EXRULE property is registered (§9's "per-dialect
// overrides" design note).
type Dialect int

const (
	RFC5545 Dialect = iota
	RFC2445
)

// DecodeContext carries the source position of a property being decoded, so
// a PropertyCodec's warnings can be attributed to a place in the tree (§6).
type DecodeContext struct {
	ComponentPath []string
	PropertyName  string
}

// PropertyCodec is the §6 "Property-type interface" an external property
// type satisfies: decode/encode, keyed by Name. There is no separate
// cardinality key: properties whose names fold equal share a slot, which is
// how Component.CountNamed counts them. Built-in codecs for the common RFC 5545
// properties are registered by NewDefaultRegistry; callers may register
// their own for X-properties or to override a built-in.
type PropertyCodec struct {
	Name string

	// Decode turns wire text into a typed Value. Decode never returns a
	// hard error: a value it cannot make sense of becomes a KindRaw Value
	// plus a descriptive Warning (§7 tier 3 — semantic faults are warnings,
	// never thrown).
	Decode func(value string, params *Parameters, ctx DecodeContext) (Value, []Warning)

	// Encode renders a Value back to wire text and any parameters the
	// value implies (e.g. VALUE=DATE for a date-only DateTimeValue).
	Encode func(v Value) (wireValue string, extraParams *Parameters)
}

// Registry is the explicit mapping from property name to PropertyCodec,
// passed to ObjectReader/ObjectWriter at construction (§9's "Global-static
// property key registry" re-architecture: dependency is explicit, not a
// package-level singleton). It is not immutable: Register adds or replaces
// codecs at any time, including after the Registry has been handed to a
// reader or writer.
type Registry struct {
	dialect Dialect
	codecs  map[string]PropertyCodec // fold(name) -> codec
}

// NewRegistry returns an empty registry for dialect.
func NewRegistry(dialect Dialect) *Registry {
	return &Registry{dialect: dialect, codecs: make(map[string]PropertyCodec)}
}

// Register adds or replaces the codec for codec.Name.
func (r *Registry) Register(codec PropertyCodec) {
	r.codecs[fold(codec.Name)] = codec
}

// Lookup returns the codec registered for name, if any.
func (r *Registry) Lookup(name string) (PropertyCodec, bool) {
	c, ok := r.codecs[fold(name)]
	return c, ok
}

// Dialect reports the registry's configured dialect.
func (r *Registry) Dialect() Dialect {
	return r.dialect
}

// NewDefaultRegistry returns a Registry with RFC 5545 property codecs
// registered (plus RFC 2445's EXRULE when dialect is RFC2445). This is the
// "thin contract" plumbing spec.md §1/§6 treats as external and out of
// scope for core design; it exists here only so the Validator's
// cross-property rules (§4.5) have typed DTSTART/DUE/DURATION/RRULE values
// to operate on end to end.
func NewDefaultRegistry(dialect Dialect) *Registry {
	r := NewRegistry(dialect)

	textProps := []string{
		"UID", "SUMMARY", "DESCRIPTION", "LOCATION", "COMMENT", "CLASS",
		"TRANSP", "URL", "STATUS", "RELATED-TO", "CONTACT", "TZID", "TZNAME",
		"ORGANIZER", "ATTENDEE", "PRODID", "VERSION", "CALSCALE", "METHOD",
	}
	for _, name := range textProps {
		r.Register(textCodec(name))
	}

	r.Register(multiTextCodec("CATEGORIES"))
	r.Register(multiTextCodec("RESOURCES"))

	for _, name := range []string{"PRIORITY", "SEQUENCE", "PERCENT-COMPLETE", "REPEAT"} {
		r.Register(integerCodec(name))
	}

	for _, name := range []string{
		"DTSTART", "DTEND", "DUE", "DTSTAMP", "CREATED", "LAST-MODIFIED",
		"COMPLETED", "RECURRENCE-ID", "EXDATE", "RDATE",
	} {
		r.Register(dateTimeCodec(name))
	}

	r.Register(durationCodec("DURATION"))
	r.Register(geoCodec("GEO"))
	r.Register(recurCodec("RRULE"))
	if dialect == RFC2445 {
		r.Register(recurCodec("EXRULE"))
	}

	return r
}

// textCodec builds a codec for a single-valued TEXT property. Backslash
// decoding of the TEXT value itself (distinct from parameter-value
// decoding, which RawReader already applied) is intentionally not
// performed here: §4.2's last sentence specifies the property value is
// passed through verbatim by the core codec, and TEXT escaping is a
// property-type concern per §6's "thin contract."
func textCodec(name string) PropertyCodec {
	return PropertyCodec{
		Name: name,
		Decode: func(value string, params *Parameters, ctx DecodeContext) (Value, []Warning) {
			// RFC 5545 §3.2.10: LANGUAGE is a BCP 47 tag; canonicalize it in
			// place so two differently-cased/ordered spellings of the same
			// tag compare equal downstream.
			if params != nil {
				if lang, ok := params.Get("LANGUAGE"); ok && len(lang) == 1 {
					params.Set("LANGUAGE", NormalizeLanguageTag(lang[0]))
				}
			}
			return TextValue(value), nil
		},
		Encode: func(v Value) (string, *Parameters) {
			return v.Text, nil
		},
	}
}

// multiTextCodec builds a codec for a comma-separated multi-value TEXT
// property such as CATEGORIES. Individual items are kept joined in Text
// (callers needing the list use strings.Split); the codec only exists to
// avoid silently downgrading the property to KindRaw.
func multiTextCodec(name string) PropertyCodec {
	return PropertyCodec{
		Name: name,
		Decode: func(value string, params *Parameters, ctx DecodeContext) (Value, []Warning) {
			return TextValue(value), nil
		},
		Encode: func(v Value) (string, *Parameters) {
			return v.Text, nil
		},
	}
}

func integerCodec(name string) PropertyCodec {
	return PropertyCodec{
		Name: name,
		Decode: func(value string, params *Parameters, ctx DecodeContext) (Value, []Warning) {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return RawValue(value), []Warning{{
					Code:         WarnMalformedValue,
					MessageArgs:  []string{ctx.PropertyName, value, err.Error()},
					PropertyName: ctx.PropertyName,
				}}
			}
			return Value{Kind: KindInteger, Integer: n}, nil
		},
		Encode: func(v Value) (string, *Parameters) {
			return strconv.FormatInt(v.Integer, 10), nil
		},
	}
}

func dateTimeCodec(name string) PropertyCodec {
	return PropertyCodec{
		Name: name,
		Decode: func(value string, params *Parameters, ctx DecodeContext) (Value, []Warning) {
			dt, err := ParseDateTime(value)
			if err != nil {
				return RawValue(value), []Warning{{
					Code:         WarnMalformedValue,
					MessageArgs:  []string{ctx.PropertyName, value, err.Error()},
					PropertyName: ctx.PropertyName,
				}}
			}
			return Value{Kind: KindDateTime, DateTime: dt}, nil
		},
		Encode: func(v Value) (string, *Parameters) {
			if !v.DateTime.HasTime {
				p := NewParameters()
				p.Set("VALUE", "DATE")
				return FormatDateTime(v.DateTime), p
			}
			return FormatDateTime(v.DateTime), nil
		},
	}
}

func durationCodec(name string) PropertyCodec {
	return PropertyCodec{
		Name: name,
		Decode: func(value string, params *Parameters, ctx DecodeContext) (Value, []Warning) {
			d, err := ParseDuration(value)
			if err != nil {
				return RawValue(value), []Warning{{
					Code:         WarnMalformedValue,
					MessageArgs:  []string{ctx.PropertyName, value, err.Error()},
					PropertyName: ctx.PropertyName,
				}}
			}
			return Value{Kind: KindDuration, Duration: d}, nil
		},
		Encode: func(v Value) (string, *Parameters) {
			return FormatDuration(v.Duration), nil
		},
	}
}

func geoCodec(name string) PropertyCodec {
	return PropertyCodec{
		Name: name,
		Decode: func(value string, params *Parameters, ctx DecodeContext) (Value, []Warning) {
			g, err := ParseGeo(value)
			if err != nil {
				return RawValue(value), []Warning{{
					Code:         WarnMalformedValue,
					MessageArgs:  []string{ctx.PropertyName, value, err.Error()},
					PropertyName: ctx.PropertyName,
				}}
			}
			return Value{Kind: KindGeo, Geo: g}, nil
		},
		Encode: func(v Value) (string, *Parameters) {
			return FormatGeo(v.Geo), nil
		},
	}
}

func recurCodec(name string) PropertyCodec {
	return PropertyCodec{
		Name: name,
		Decode: func(value string, params *Parameters, ctx DecodeContext) (Value, []Warning) {
			rv, err := ParseRecur(value)
			if err != nil {
				return RawValue(value), []Warning{{
					Code:         WarnMalformedValue,
					MessageArgs:  []string{ctx.PropertyName, value, err.Error()},
					PropertyName: ctx.PropertyName,
				}}
			}
			return Value{Kind: KindRecur, Recur: rv}, nil
		},
		Encode: func(v Value) (string, *Parameters) {
			return FormatRecur(v.Recur), nil
		},
	}
}
