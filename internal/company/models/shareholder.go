package models

import (
	"github.com/shopspring/decimal"
)

// VotingRightsMode governs how effective voting percentages are derived
// from a shareholder set.
type VotingRightsMode string

const (
	// VotingByCapitalRatio derives each shareholder's voting ratio from its
	// capital ratio; any explicit voting ratio on the entry is ignored.
	VotingByCapitalRatio VotingRightsMode = "BY_CAPITAL_RATIO"
	// VotingCustom requires every shareholder to carry an explicit voting
	// ratio; the custom ratios must independently sum to 100.
	VotingCustom VotingRightsMode = "CUSTOM"
)

// IsValid reports whether the mode is a supported discriminator.
func (m VotingRightsMode) IsValid() bool {
	return m == VotingByCapitalRatio || m == VotingCustom
}

// Shareholder is one capital contribution within an application. The entry
// becomes durable company state only after the application is approved.
//
// CapitalRatio is a percentage in (0,100]. VotingRatio is only meaningful
// under VotingCustom and is nil when not supplied.
type Shareholder struct {
	Party        PartyReference   `json:"party"`
	CapitalRatio decimal.Decimal  `json:"capital_ratio"`
	VotingRatio  *decimal.Decimal `json:"voting_ratio,omitempty"`
}

// ShareholderSet is an ordered sequence of shareholders, unique by party
// identity. Invariant: capital ratios sum to exactly 100 within the
// tolerance defined by the validation package.
type ShareholderSet []Shareholder

// PartyKeys returns the composite party keys in set order.
func (s ShareholderSet) PartyKeys() []string {
	keys := make([]string, 0, len(s))
	for _, sh := range s {
		keys = append(keys, sh.Party.Key())
	}
	return keys
}

// Find returns the entry for the given party and whether it exists.
func (s ShareholderSet) Find(party PartyReference) (Shareholder, bool) {
	for _, sh := range s {
		if sh.Party.Equal(party) {
			return sh, true
		}
	}
	return Shareholder{}, false
}

// Equal reports structural equality: same order, same parties, same ratios.
// Voting ratios compare as equal when both are nil or both are set to the
// same value.
func (s ShareholderSet) Equal(other ShareholderSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		a, b := s[i], other[i]
		if !a.Party.Equal(b.Party) || !a.CapitalRatio.Equal(b.CapitalRatio) {
			return false
		}
		switch {
		case a.VotingRatio == nil && b.VotingRatio == nil:
		case a.VotingRatio != nil && b.VotingRatio != nil:
			if !a.VotingRatio.Equal(*b.VotingRatio) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
