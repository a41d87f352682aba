// Package enum maps native enumeration values to public ones and back.
//
// A Mapping is total: values it does not know degrade to a default instead of
// failing, so a native model that grows new constants never breaks a read.
package enum

// Pair associates one native value with one public value.
type Pair[N, P comparable] struct {
	Native N
	Public P
}

// Of is shorthand for building a Pair.
func Of[N, P comparable](n N, p P) Pair[N, P] {
	return Pair[N, P]{Native: n, Public: p}
}

// Mapping is an immutable bidirectional table between a native value space N
// and a public value space P. When several pairs share a key the first one
// wins in that direction.
type Mapping[N, P comparable] struct {
	toPublic      map[N]P
	toNative      map[P]N
	nativeDefault N
	publicDefault P
}

// New builds a mapping with the given defaults.
func New[N, P comparable](nativeDefault N, publicDefault P, pairs ...Pair[N, P]) *Mapping[N, P] {
	m := &Mapping[N, P]{
		toPublic:      make(map[N]P, len(pairs)),
		toNative:      make(map[P]N, len(pairs)),
		nativeDefault: nativeDefault,
		publicDefault: publicDefault,
	}
	for _, p := range pairs {
		if _, ok := m.toPublic[p.Native]; !ok {
			m.toPublic[p.Native] = p.Public
		}
		if _, ok := m.toNative[p.Public]; !ok {
			m.toNative[p.Public] = p.Native
		}
	}
	return m
}

// ToPublic returns the public value for n, or def when n is unmapped.
func (m *Mapping[N, P]) ToPublic(n N, def P) P {
	if m == nil {
		return def
	}
	if p, ok := m.toPublic[n]; ok {
		return p
	}
	return def
}

// ToNative returns the native value for p, or def when p is unmapped.
func (m *Mapping[N, P]) ToNative(p P, def N) N {
	if m == nil {
		return def
	}
	if n, ok := m.toNative[p]; ok {
		return n
	}
	return def
}

// Public is ToPublic with the mapping's own public default.
func (m *Mapping[N, P]) Public(n N) P {
	return m.ToPublic(n, m.PublicDefault())
}

// Native is ToNative with the mapping's own native default.
func (m *Mapping[N, P]) Native(p P) N {
	return m.ToNative(p, m.NativeDefault())
}

// PublicDefault returns the value reported for unmapped native input.
func (m *Mapping[N, P]) PublicDefault() P {
	if m == nil {
		var zero P
		return zero
	}
	return m.publicDefault
}

// NativeDefault returns the value sent for unmapped public input.
func (m *Mapping[N, P]) NativeDefault() N {
	if m == nil {
		var zero N
		return zero
	}
	return m.nativeDefault
}

// Len returns the number of distinct native values mapped.
func (m *Mapping[N, P]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.toPublic)
}
