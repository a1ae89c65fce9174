package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"registrar/internal/company/models"
)

// ValidateParty checks the tagged-union invariant of a party reference:
// the identifier matching Kind is present and the other is absent.
func ValidateParty(field string, p models.PartyReference) Violations {
	var v Violations
	if !p.Kind.IsValid() {
		v.add(field+".kind", CodeInvalidReferenceKind, "kind must be PERSON or ORGANIZATION")
		return v
	}
	if !p.WellFormed() {
		switch p.Kind {
		case models.PartyKindPerson:
			if p.PersonID == "" {
				v.add(field+".person_id", CodeInvalidReferenceKind, "person_id is required for kind PERSON")
			} else {
				v.add(field+".organization_id", CodeInvalidReferenceKind, "organization_id must be absent for kind PERSON")
			}
		case models.PartyKindOrganization:
			if p.OrganizationID == "" {
				v.add(field+".organization_id", CodeInvalidReferenceKind, "organization_id is required for kind ORGANIZATION")
			} else {
				v.add(field+".person_id", CodeInvalidReferenceKind, "person_id must be absent for kind ORGANIZATION")
			}
		}
	}
	return v
}

// ValidateTerm checks the tagged operating-term variant: YEARS requires a
// year count in [1,200], INDEFINITE ignores it.
func ValidateTerm(field string, t models.OperatingTerm) Violations {
	var v Violations
	switch t.Type {
	case models.TermIndefinite:
		// Years is ignored by documented tolerance, not an error.
	case models.TermYears:
		if t.Years == nil {
			v.add(field+".years", CodeMissingRequiredField, "years is required when type is YEARS")
		} else if *t.Years < models.MinTermYears || *t.Years > models.MaxTermYears {
			v.add(field+".years", CodeOutOfRange,
				"years must be between %d and %d", models.MinTermYears, models.MaxTermYears)
		}
	default:
		v.add(field+".type", CodeMissingRequiredField, "type must be INDEFINITE or YEARS")
	}
	return v
}

// ValidateShareholders checks a shareholder structure: every party
// reference well-formed, every capital ratio in (0,100], parties unique by
// resolved identity, and capital ratios summing to 100 within SumEpsilon.
//
// A single-shareholder set trivially satisfies the sum rule when its lone
// ratio is exactly 100.
func ValidateShareholders(field string, set models.ShareholderSet) Violations {
	var v Violations
	if len(set) == 0 {
		v.add(field, CodeMissingRequiredField, "at least one shareholder is required")
		return v
	}

	sum := decimal.Zero
	seen := make(map[string]int, len(set))
	for i, sh := range set {
		entry := fmt.Sprintf("%s[%d]", field, i)
		v = append(v, ValidateParty(entry+".party", sh.Party)...)

		if !ratioInRange(sh.CapitalRatio) {
			v.add(entry+".capital_ratio", CodeRatioOutOfRange,
				"capital ratio must be greater than 0 and at most 100, got %s", sh.CapitalRatio)
		}
		sum = sum.Add(sh.CapitalRatio)

		key := sh.Party.Key()
		if key == "" {
			continue // malformed reference already reported
		}
		if first, dup := seen[key]; dup {
			v.add(entry+".party", CodeDuplicateParty,
				"duplicate party, first seen at %s[%d]", field, first)
		} else {
			seen[key] = i
		}
	}

	if !sumsToHundred(sum) {
		v.add(field, CodeSumMismatch, "capital ratios must sum to 100, got %s", sum)
	}
	return v
}

// ResolveVotingRights decides, per shareholder, the effective voting
// percentage under the given mode.
//
// BY_CAPITAL_RATIO copies each capital ratio; explicit voting ratios on the
// entries are ignored (documented tolerance, not an error). CUSTOM requires
// every entry to supply a voting ratio and the supplied ratios to
// independently sum to 100 within SumEpsilon.
//
// The returned map is keyed by the composite party key (KIND:identity), so
// a person and an organization sharing a registry identifier keep separate
// entries. Callers pass sets that have already passed ValidateShareholders;
// malformed references yield no entry.
func ResolveVotingRights(set models.ShareholderSet, mode models.VotingRightsMode) (map[string]decimal.Decimal, Violations) {
	var v Violations
	if !mode.IsValid() {
		v.add("voting_mode", CodeMissingRequiredField, "voting mode must be BY_CAPITAL_RATIO or CUSTOM")
		return nil, v
	}

	rights := make(map[string]decimal.Decimal, len(set))
	switch mode {
	case models.VotingByCapitalRatio:
		for _, sh := range set {
			if key := sh.Party.Key(); key != "" {
				rights[key] = sh.CapitalRatio
			}
		}
	case models.VotingCustom:
		sum := decimal.Zero
		for i, sh := range set {
			if sh.VotingRatio == nil {
				v.add(fmt.Sprintf("shareholders[%d].voting_ratio", i), CodeMissingVotingRatio,
					"voting ratio is required under CUSTOM voting mode")
				continue
			}
			if !ratioInRange(*sh.VotingRatio) {
				v.add(fmt.Sprintf("shareholders[%d].voting_ratio", i), CodeRatioOutOfRange,
					"voting ratio must be greater than 0 and at most 100, got %s", sh.VotingRatio)
			}
			sum = sum.Add(*sh.VotingRatio)
			if key := sh.Party.Key(); key != "" {
				rights[key] = *sh.VotingRatio
			}
		}
		if !v.Has(CodeMissingVotingRatio) && !sumsToHundred(sum) {
			v.add("shareholders", CodeVotingSumMismatch, "voting ratios must sum to 100, got %s", sum)
		}
	}

	if len(v) > 0 {
		return nil, v
	}
	return rights, nil
}
