package models

// TermType discriminates the two operating-term variants.
type TermType string

const (
	TermIndefinite TermType = "INDEFINITE"
	TermYears      TermType = "YEARS"
)

// Bounds for a bounded operating term.
const (
	MinTermYears = 1
	MaxTermYears = 200
)

// IsValid reports whether the term type is a supported discriminator.
func (t TermType) IsValid() bool {
	return t == TermIndefinite || t == TermYears
}

// OperatingTerm is a tagged duration: either indefinite or a bounded year
// count.
//
// Invariant: Type == YEARS requires Years in [MinTermYears, MaxTermYears];
// Type == INDEFINITE ignores Years.
type OperatingTerm struct {
	Type  TermType `json:"type"`
	Years *int     `json:"years,omitempty"`
}

// Indefinite builds an unbounded operating term.
func Indefinite() OperatingTerm {
	return OperatingTerm{Type: TermIndefinite}
}

// ForYears builds a bounded operating term.
func ForYears(years int) OperatingTerm {
	return OperatingTerm{Type: TermYears, Years: &years}
}

// Equal reports structural equality; an INDEFINITE term ignores Years.
func (t OperatingTerm) Equal(other OperatingTerm) bool {
	if t.Type != other.Type {
		return false
	}
	if t.Type == TermIndefinite {
		return true
	}
	if t.Years == nil || other.Years == nil {
		return t.Years == other.Years
	}
	return *t.Years == *other.Years
}
