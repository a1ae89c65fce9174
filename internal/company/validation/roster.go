package validation

import (
	"sort"

	"registrar/internal/company/models"
)

// RosterPolicy holds the configurable governance rules that the governing
// statute leaves to the registrar.
type RosterPolicy struct {
	// RequireLegalRepFromManagement, when set, requires the legal
	// representative to hold a director seat or the manager role. The
	// governing rule treats this as a policy choice, so it is off by
	// default rather than silently tightened.
	RequireLegalRepFromManagement bool
}

// ValidateRoster checks a governance roster against its structural
// invariants:
//
//   - director seats non-empty
//   - chairperson / vice-chairperson, if set, hold director seats
//   - director and supervisor seats disjoint (segregation of duties)
//   - supervisor chairperson, if set, holds a supervisor seat
//   - legal representative present, plus the optional management-membership
//     policy
//
// Manager, deputy manager and financial officer are optional with no
// cross-set constraint.
func ValidateRoster(field string, r models.GovernanceRoster, policy RosterPolicy) Violations {
	var v Violations

	if len(r.DirectorIDs) == 0 {
		v.add(field+".director_ids", CodeMissingRequiredField, "at least one director is required")
	}

	directors := toSet(r.DirectorIDs)
	supervisors := toSet(r.SupervisorIDs)

	if r.ChairpersonID != "" {
		if _, ok := directors[r.ChairpersonID]; !ok {
			v.add(field+".chairperson_id", CodeRoleNotInSet, "chairperson %q is not a director", r.ChairpersonID)
		}
	}
	if r.ViceChairpersonID != "" {
		if _, ok := directors[r.ViceChairpersonID]; !ok {
			v.add(field+".vice_chairperson_id", CodeRoleNotInSet, "vice chairperson %q is not a director", r.ViceChairpersonID)
		}
	}

	for _, dup := range intersection(directors, supervisors) {
		v.add(field+".supervisor_ids", CodeConflictingRole,
			"%q holds both a director and a supervisor seat", dup)
	}

	if r.SupervisorChairpersonID != "" {
		if _, ok := supervisors[r.SupervisorChairpersonID]; !ok {
			v.add(field+".supervisor_chairperson_id", CodeRoleNotInSet,
				"supervisor chairperson %q is not a supervisor", r.SupervisorChairpersonID)
		}
	}

	if r.LegalRepresentativeID == "" {
		v.add(field+".legal_representative_id", CodeMissingRequiredField, "legal representative is required")
	} else if policy.RequireLegalRepFromManagement {
		_, isDirector := directors[r.LegalRepresentativeID]
		if !isDirector && r.LegalRepresentativeID != r.ManagerID {
			v.add(field+".legal_representative_id", CodeRoleNotInSet,
				"legal representative %q must be a director or the manager", r.LegalRepresentativeID)
		}
	}

	return v
}

// DiffOfficers computes the seat-level delta between two rosters, used by
// officer-change applications to decide required approvals and to reject
// no-op requests.
func DiffOfficers(old, new models.GovernanceRoster) models.OfficerDelta {
	return models.OfficerDelta{
		AddedDirectors:     missingFrom(new.DirectorIDs, old.DirectorIDs),
		RemovedDirectors:   missingFrom(old.DirectorIDs, new.DirectorIDs),
		AddedSupervisors:   missingFrom(new.SupervisorIDs, old.SupervisorIDs),
		RemovedSupervisors: missingFrom(old.SupervisorIDs, new.SupervisorIDs),
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func intersection(a, b map[string]struct{}) []string {
	var out []string
	for id := range a {
		if _, ok := b[id]; ok {
			out = append(out, id)
		}
	}
	sort.Strings(out) // deterministic violation order
	return out
}

// missingFrom returns the members of want absent from have, in want order.
func missingFrom(want, have []string) []string {
	haveSet := toSet(have)
	var out []string
	for _, id := range want {
		if _, ok := haveSet[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
