package roi

import "fmt"

// Enumeration is a bijective dictionary translating internal stored
// values to external standardized codes and back. Both directions are
// materialized at construction time so lookups never scan.
type Enumeration struct {
	internals []string // declaration order, used for error messages
	toExt     map[string]string
	toInt     map[string]string
}

// EnumPair is one internal/external code pair.
type EnumPair struct {
	Internal string
	External string
}

// NewEnumeration builds an enumeration from internal/external pairs.
// Panics if either side contains a duplicate: a non-bijective
// dictionary cannot round-trip and is a configuration error.
func NewEnumeration(pairs ...EnumPair) *Enumeration {
	e := &Enumeration{
		internals: make([]string, 0, len(pairs)),
		toExt:     make(map[string]string, len(pairs)),
		toInt:     make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		if _, dup := e.toExt[p.Internal]; dup {
			panic(fmt.Sprintf("enumeration: duplicate internal value %q", p.Internal))
		}
		if _, dup := e.toInt[p.External]; dup {
			panic(fmt.Sprintf("enumeration: duplicate external code %q", p.External))
		}
		e.toExt[p.Internal] = p.External
		e.toInt[p.External] = p.Internal
		e.internals = append(e.internals, p.Internal)
	}
	return e
}

// External translates an internal value to its external code.
func (e *Enumeration) External(internal string) (string, bool) {
	ext, ok := e.toExt[internal]
	return ext, ok
}

// Internal translates an external code to its internal value.
func (e *Enumeration) Internal(external string) (string, bool) {
	in, ok := e.toInt[external]
	return in, ok
}

// HasInternal reports whether v is a member of the internal value set.
func (e *Enumeration) HasInternal(v string) bool {
	_, ok := e.toExt[v]
	return ok
}

// Internals returns the internal values in declaration order.
func (e *Enumeration) Internals() []string {
	out := make([]string, len(e.internals))
	copy(out, e.internals)
	return out
}

// Len returns the number of pairs in the dictionary.
func (e *Enumeration) Len() int {
	return len(e.internals)
}
