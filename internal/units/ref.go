package units

import "strconv"

// Ref is a unit as stored in the built tables: either a resolved code or
// the source text that could not be resolved. The zero value is an empty,
// unresolved unit.
type Ref struct {
	Code     int
	Text     string
	Resolved bool
}

// Code returns a resolved reference to code.
func Code(code int) Ref {
	return Ref{Code: code, Resolved: true}
}

// String renders the code, or the pass-through text when unresolved.
func (r Ref) String() string {
	if r.Resolved {
		return strconv.Itoa(r.Code)
	}
	return r.Text
}

// ParseRef is the inverse of String. Integers become resolved codes.
func ParseRef(s string) Ref {
	if code, err := strconv.Atoi(s); err == nil {
		return Code(code)
	}
	return Ref{Text: s}
}
