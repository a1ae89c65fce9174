package models

// GovernanceRoster names the officer roles holding authority over the
// company.
//
// Invariants (enforced by the validation package):
//   - DirectorIDs non-empty
//   - ChairpersonID / ViceChairpersonID, if set, are directors
//   - SupervisorChairpersonID, if set, is a supervisor
//   - DirectorIDs and SupervisorIDs are disjoint (segregation of duties)
//   - LegalRepresentativeID is required; whether it must be drawn from the
//     director/manager set is a configurable policy, off by default
type GovernanceRoster struct {
	DirectorIDs             []string `json:"director_ids"`
	ChairpersonID           string   `json:"chairperson_id,omitempty"`
	ViceChairpersonID       string   `json:"vice_chairperson_id,omitempty"`
	ManagerID               string   `json:"manager_id,omitempty"`
	DeputyManagerID         string   `json:"deputy_manager_id,omitempty"`
	SupervisorIDs           []string `json:"supervisor_ids,omitempty"`
	SupervisorChairpersonID string   `json:"supervisor_chairperson_id,omitempty"`
	LegalRepresentativeID   string   `json:"legal_representative_id"`
	FinancialOfficerID      string   `json:"financial_officer_id,omitempty"`
}

// OfficerDelta is the semantic difference between two rosters' director and
// supervisor seats, computed for officer-change applications.
type OfficerDelta struct {
	AddedDirectors     []string `json:"added_directors,omitempty"`
	RemovedDirectors   []string `json:"removed_directors,omitempty"`
	AddedSupervisors   []string `json:"added_supervisors,omitempty"`
	RemovedSupervisors []string `json:"removed_supervisors,omitempty"`
}

// Empty reports whether the delta contains no seat changes.
func (d OfficerDelta) Empty() bool {
	return len(d.AddedDirectors) == 0 && len(d.RemovedDirectors) == 0 &&
		len(d.AddedSupervisors) == 0 && len(d.RemovedSupervisors) == 0
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			return false
		}
	}
	return true
}

// Equal reports structural equality; director and supervisor seats compare
// as sets, scalar roles compare directly.
func (r GovernanceRoster) Equal(other GovernanceRoster) bool {
	return equalStringSets(r.DirectorIDs, other.DirectorIDs) &&
		equalStringSets(r.SupervisorIDs, other.SupervisorIDs) &&
		r.ChairpersonID == other.ChairpersonID &&
		r.ViceChairpersonID == other.ViceChairpersonID &&
		r.ManagerID == other.ManagerID &&
		r.DeputyManagerID == other.DeputyManagerID &&
		r.SupervisorChairpersonID == other.SupervisorChairpersonID &&
		r.LegalRepresentativeID == other.LegalRepresentativeID &&
		r.FinancialOfficerID == other.FinancialOfficerID
}
