package ical

import (
	"io"

	"github.com/pkg/errors"
)

// ObjectReader drives a RawReader with a Listener that assembles a
// Component tree (§4.4). It maintains a stack of in-progress components:
// BeginComponent pushes, EndComponent pops and attaches to the parent (or
// to the result list at depth zero), and ReadProperty decodes via the
// Registry and appends to the current component.
type ObjectReader struct {
	registry *Registry

	stack   []*Component
	results []*Component
	warns   []Warning
}

// NewObjectReader builds an ObjectReader using registry to decode property
// values. A nil registry falls back to NewDefaultRegistry(RFC5545).
func NewObjectReader(registry *Registry) *ObjectReader {
	if registry == nil {
		registry = NewDefaultRegistry(RFC5545)
	}
	return &ObjectReader{registry: registry}
}

// componentPath returns the current stack's component names, root first,
// for attributing a Warning's ComponentPath (§3).
func (o *ObjectReader) componentPath() []string {
	path := make([]string, len(o.stack))
	for i, c := range o.stack {
		path[i] = c.Name
	}
	return path
}

// BeginComponent implements Listener.
func (o *ObjectReader) BeginComponent(name string) bool {
	o.stack = append(o.stack, NewComponent(name))
	return false
}

// EndComponent implements Listener. A mismatched END (no matching BEGIN, or
// a name that does not match the innermost open component) produces a
// WarnMismatchedEnd warning and is otherwise ignored, leaving the open
// stack untouched beyond the stray marker (§8's "stack depth" invariant).
func (o *ObjectReader) EndComponent(name string) bool {
	if len(o.stack) == 0 {
		o.warns = append(o.warns, Warning{
			Code:        WarnMismatchedEnd,
			MessageArgs: []string{name},
		})
		return false
	}
	top := o.stack[len(o.stack)-1]
	if fold(top.Name) != fold(name) {
		o.warns = append(o.warns, Warning{
			Code:          WarnMismatchedEnd,
			MessageArgs:   []string{top.Name, name},
			ComponentPath: o.componentPath(),
		})
		return false
	}
	o.stack = o.stack[:len(o.stack)-1]
	if len(o.stack) == 0 {
		o.results = append(o.results, top)
	} else {
		parent := o.stack[len(o.stack)-1]
		parent.AddChild(top)
	}
	return false
}

// ReadProperty implements Listener. Unknown property names are preserved as
// raw properties with the original parameters and a KindRaw string value,
// round-tripping unchanged through ObjectWriter (§4.4's Extensibility
// clause).
func (o *ObjectReader) ReadProperty(name string, params *Parameters, value string) bool {
	if len(o.stack) == 0 {
		// A property outside any component has nowhere to attach; treat
		// it the same as a structurally invalid line.
		o.warns = append(o.warns, Warning{
			Code:        WarnMalformedValue,
			MessageArgs: []string{name},
		})
		return false
	}
	cur := o.stack[len(o.stack)-1]

	codec, ok := o.registry.Lookup(name)
	var v Value
	if ok {
		var warns []Warning
		v, warns = codec.Decode(value, params, DecodeContext{
			ComponentPath: o.componentPath(),
			PropertyName:  name,
		})
		for i := range warns {
			if warns[i].ComponentPath == nil {
				warns[i].ComponentPath = o.componentPath()
			}
		}
		o.warns = append(o.warns, warns...)
	} else {
		v = RawValue(value)
	}

	cur.AddProperty(&Property{Name: name, Parameters: params, Value: v})
	return false
}

// InvalidLine implements Listener: a structurally malformed content line is
// recorded as a warning and parsing continues (§7 tier 2).
func (o *ObjectReader) InvalidLine(raw string) bool {
	o.warns = append(o.warns, Warning{
		Code:          WarnMalformedValue,
		MessageArgs:   []string{raw},
		ComponentPath: o.componentPath(),
	})
	return false
}

// ValuelessParameter implements Listener: a non-conformant "NAME" parameter
// with no "=value" is recorded as a warning; the parameter itself is still
// stored with a nil value (§4.2).
func (o *ObjectReader) ValuelessParameter(propertyName, paramName string) bool {
	o.warns = append(o.warns, Warning{
		Code:          WarnMalformedValue,
		MessageArgs:   []string{propertyName, paramName},
		ComponentPath: o.componentPath(),
		PropertyName:  propertyName,
	})
	return false
}

// ReadObjects parses r as a stream of iCalendar content lines and returns
// every top-level component read (typically exactly one VCALENDAR),
// together with every warning accumulated along the way (parse-level per
// §7 tier 2, semantic per tier 3 from registered codecs). A tier-1 I/O
// fault, or a *SyntaxError from the FoldReader, aborts and is returned
// (wrapped) as the error.
func ReadObjects(r io.Reader, registry *Registry, opts RawReaderOptions) ([]*Component, []Warning, error) {
	fr := NewFoldReader(r)
	or := NewObjectReader(registry)
	rr := NewRawReader(fr, or, opts)
	if err := rr.Run(); err != nil {
		return nil, or.warns, errors.Wrap(err, "ical: read")
	}
	return or.results, or.warns, nil
}

// ObjectWriter serializes a Component tree back to wire text via a
// RawWriter (§4.4): a depth-first traversal emitting BEGIN, every property
// in insertion order, every child recursively, then END.
type ObjectWriter struct {
	rw       *RawWriter
	registry *Registry
}

// NewObjectWriter builds an ObjectWriter over rw. A nil registry falls back
// to NewDefaultRegistry(RFC5545); unregistered (and KindRaw) properties are
// written with their Value.Text verbatim.
func NewObjectWriter(rw *RawWriter, registry *Registry) *ObjectWriter {
	if registry == nil {
		registry = NewDefaultRegistry(RFC5545)
	}
	return &ObjectWriter{rw: rw, registry: registry}
}

// WriteComponent writes c and its subtree.
func (ow *ObjectWriter) WriteComponent(c *Component) error {
	if err := ow.rw.WriteBeginComponent(c.Name); err != nil {
		return errors.Wrapf(err, "ical: write BEGIN:%s", c.Name)
	}
	for _, p := range c.Properties {
		if err := ow.writeProperty(p); err != nil {
			return err
		}
	}
	for _, child := range c.Children {
		if err := ow.WriteComponent(child); err != nil {
			return err
		}
	}
	if err := ow.rw.WriteEndComponent(c.Name); err != nil {
		return errors.Wrapf(err, "ical: write END:%s", c.Name)
	}
	return nil
}

func (ow *ObjectWriter) writeProperty(p *Property) error {
	wireValue := p.Value.Text
	params := p.Parameters

	if codec, ok := ow.registry.Lookup(p.Name); ok && p.Value.Kind != KindRaw {
		var extra *Parameters
		wireValue, extra = codec.Encode(p.Value)
		if extra != nil && extra.Len() > 0 {
			merged := NewParameters()
			if params != nil {
				for _, name := range params.Names() {
					values, _ := params.Get(name)
					merged.Set(name, values...)
				}
			}
			for _, name := range extra.Names() {
				values, _ := extra.Get(name)
				merged.Set(name, values...)
			}
			params = merged
		}
	}

	if err := ow.rw.WriteProperty(p.Name, params, wireValue); err != nil {
		return errors.Wrapf(err, "ical: write property %s", p.Name)
	}
	return nil
}

// WriteObjects writes every component in comps to w, in order.
func WriteObjects(w io.Writer, comps []*Component, registry *Registry, opts RawWriterOptions) error {
	rw := NewRawWriter(w, opts)
	ow := NewObjectWriter(rw, registry)
	for _, c := range comps {
		if err := ow.WriteComponent(c); err != nil {
			return err
		}
	}
	return rw.Err()
}
