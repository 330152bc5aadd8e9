package scpi

import "fmt"

// Option is implemented by every enumerated protocol option in this package.
type Option interface {
	fmt.Stringer
	// Token returns the exact protocol token, or "" for an invalid value.
	Token() string
	// Valid reports whether the value is a member of the enumeration.
	Valid() bool

	kind() string
}

// CheckOptions returns an *OptionError for the first invalid option.
func CheckOptions(opts ...Option) error {
	for _, opt := range opts {
		if !opt.Valid() {
			return &OptionError{Kind: opt.kind(), Value: opt.String()}
		}
	}

	return nil
}

type entry struct {
	name  string
	token string
}

// table maps a contiguous run of enum values, starting at first, to names and tokens.
type table[T ~uint8] struct {
	kind    string
	first   T
	entries []entry
}

func (t *table[T]) get(v T) (entry, bool) {
	if v < t.first || int(v-t.first) >= len(t.entries) {
		return entry{}, false
	}

	return t.entries[v-t.first], true
}

func (t *table[T]) token(v T) string {
	e, _ := t.get(v)
	return e.token
}

func (t *table[T]) name(v T) string {
	if e, ok := t.get(v); ok {
		return e.name
	}

	return fmt.Sprintf("%s(%d)", t.kind, uint8(v))
}

func (t *table[T]) valid(v T) bool {
	_, ok := t.get(v)
	return ok
}

func (t *table[T]) values() []T {
	out := make([]T, len(t.entries))
	for i := range t.entries {
		out[i] = t.first + T(i)
	}

	return out
}

// lookup resolves a value by its name or its token, case-sensitively.
func (t *table[T]) lookup(s string) (T, error) {
	for i, e := range t.entries {
		if e.name == s || e.token == s {
			return t.first + T(i), nil
		}
	}

	return 0, &OptionError{Kind: t.kind, Value: s}
}
