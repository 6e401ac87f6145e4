package ical

// Parameters is the ordered, case-insensitive-keyed multimap of a content
// line's parameter list (spec.md §3's "Content line" parameter mapping). A
// valueless parameter (§4.2) is stored with a nil values slice, which the
// writer round-trips back to the bare "NAME" form seen on input rather than
// inventing an empty "NAME=" pair.
type Parameters struct {
	names  []string            // insertion order, original case preserved
	byFold map[string][]string // fold(name) -> values, nil values means valueless
}

// NewParameters returns an empty Parameters ready for use.
func NewParameters() *Parameters {
	return &Parameters{byFold: make(map[string][]string)}
}

// Set assigns values to name, replacing any prior values and preserving
// name's first-seen insertion position if it was already present.
func (p *Parameters) Set(name string, values ...string) {
	key := fold(name)
	if _, ok := p.byFold[key]; !ok {
		p.names = append(p.names, name)
	}
	p.byFold[key] = values
}

// Get returns the values assigned to name (case-insensitively) and whether
// name is present at all. A present, valueless parameter returns (nil, true).
func (p *Parameters) Get(name string) ([]string, bool) {
	v, ok := p.byFold[fold(name)]
	return v, ok
}

// First returns the first value assigned to name, or "" if name is absent
// or valueless.
func (p *Parameters) First(name string) string {
	v, ok := p.Get(name)
	if !ok || len(v) == 0 {
		return ""
	}
	return v[0]
}

// Names returns parameter names in insertion order, using the case each was
// first set with.
func (p *Parameters) Names() []string {
	return append([]string(nil), p.names...)
}

// Len reports the number of distinct parameter names.
func (p *Parameters) Len() int {
	return len(p.names)
}

// Clone returns a deep copy, so mutating the result never affects p.
func (p *Parameters) Clone() *Parameters {
	c := NewParameters()
	for _, name := range p.names {
		values := p.byFold[fold(name)]
		c.names = append(c.names, name)
		if values == nil {
			c.byFold[fold(name)] = nil
			continue
		}
		c.byFold[fold(name)] = append([]string(nil), values...)
	}
	return c
}
