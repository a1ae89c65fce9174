package validation

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"registrar/internal/company/models"
)

type RosterValidationSuite struct {
	suite.Suite
}

func TestRosterValidationSuite(t *testing.T) {
	suite.Run(t, new(RosterValidationSuite))
}

func validRoster() models.GovernanceRoster {
	return models.GovernanceRoster{
		DirectorIDs:             []string{"P-1", "P-2", "P-3"},
		ChairpersonID:           "P-1",
		ViceChairpersonID:       "P-2",
		ManagerID:               "P-9",
		SupervisorIDs:           []string{"P-4", "P-5"},
		SupervisorChairpersonID: "P-4",
		LegalRepresentativeID:   "P-1",
	}
}

func (s *RosterValidationSuite) TestValidRoster() {
	s.Empty(ValidateRoster("roster", validRoster(), RosterPolicy{}))
}

func (s *RosterValidationSuite) TestStructuralInvariants() {
	s.Run("no directors", func() {
		r := validRoster()
		r.DirectorIDs = nil
		r.ChairpersonID = ""
		r.ViceChairpersonID = ""
		v := ValidateRoster("roster", r, RosterPolicy{})
		s.True(v.HasField("roster.director_ids"))
	})

	s.Run("chairperson not a director", func() {
		r := validRoster()
		r.ChairpersonID = "P-8"
		v := ValidateRoster("roster", r, RosterPolicy{})
		s.True(v.Has(CodeRoleNotInSet))
		s.True(v.HasField("roster.chairperson_id"))
	})

	s.Run("vice chairperson not a director", func() {
		r := validRoster()
		r.ViceChairpersonID = "P-8"
		v := ValidateRoster("roster", r, RosterPolicy{})
		s.True(v.HasField("roster.vice_chairperson_id"))
	})

	s.Run("director doubling as supervisor", func() {
		r := validRoster()
		r.SupervisorIDs = []string{"P-2", "P-4"}
		v := ValidateRoster("roster", r, RosterPolicy{})
		s.True(v.Has(CodeConflictingRole))
	})

	s.Run("supervisor chairperson not a supervisor", func() {
		r := validRoster()
		r.SupervisorChairpersonID = "P-2"
		v := ValidateRoster("roster", r, RosterPolicy{})
		s.True(v.HasField("roster.supervisor_chairperson_id"))
	})

	s.Run("missing legal representative", func() {
		r := validRoster()
		r.LegalRepresentativeID = ""
		v := ValidateRoster("roster", r, RosterPolicy{})
		s.True(v.HasField("roster.legal_representative_id"))
	})

	s.Run("supervisors are optional", func() {
		r := validRoster()
		r.SupervisorIDs = nil
		r.SupervisorChairpersonID = ""
		s.Empty(ValidateRoster("roster", r, RosterPolicy{}))
	})
}

func (s *RosterValidationSuite) TestLegalRepPolicy() {
	strict := RosterPolicy{RequireLegalRepFromManagement: true}

	s.Run("legal rep is a director", func() {
		s.Empty(ValidateRoster("roster", validRoster(), strict))
	})

	s.Run("legal rep is the manager", func() {
		r := validRoster()
		r.LegalRepresentativeID = "P-9"
		s.Empty(ValidateRoster("roster", r, strict))
	})

	s.Run("legal rep outside management rejected under policy", func() {
		r := validRoster()
		r.LegalRepresentativeID = "P-99"
		v := ValidateRoster("roster", r, strict)
		s.True(v.HasField("roster.legal_representative_id"))
	})

	s.Run("same roster accepted without the policy", func() {
		r := validRoster()
		r.LegalRepresentativeID = "P-99"
		s.Empty(ValidateRoster("roster", r, RosterPolicy{}))
	})
}

func (s *RosterValidationSuite) TestDiffOfficers() {
	old := models.GovernanceRoster{
		DirectorIDs:   []string{"P-1", "P-2", "P-3"},
		SupervisorIDs: []string{"P-4"},
	}

	s.Run("seat replacement", func() {
		next := old
		next.DirectorIDs = []string{"P-1", "P-2", "P-7"}
		next.SupervisorIDs = []string{"P-4", "P-8"}
		delta := DiffOfficers(old, next)
		s.Equal([]string{"P-7"}, delta.AddedDirectors)
		s.Equal([]string{"P-3"}, delta.RemovedDirectors)
		s.Equal([]string{"P-8"}, delta.AddedSupervisors)
		s.Empty(delta.RemovedSupervisors)
	})

	s.Run("identical rosters yield an empty delta", func() {
		s.True(DiffOfficers(old, old).Empty())
	})

	s.Run("reordered seats are not a change", func() {
		next := old
		next.DirectorIDs = []string{"P-3", "P-1", "P-2"}
		s.True(DiffOfficers(old, next).Empty())
	})
}

func TestResolveExclusiveOr(t *testing.T) {
	t.Run("primary only", func(t *testing.T) {
		branch, fe := ResolveExclusiveOr("pair", "a", "")
		if fe != nil || branch != BranchPrimary {
			t.Fatalf("expected primary branch, got %v / %v", branch, fe)
		}
	})
	t.Run("secondary only", func(t *testing.T) {
		branch, fe := ResolveExclusiveOr("pair", "", "b")
		if fe != nil || branch != BranchSecondary {
			t.Fatalf("expected secondary branch, got %v / %v", branch, fe)
		}
	})
	t.Run("both set", func(t *testing.T) {
		_, fe := ResolveExclusiveOr("pair", "a", "b")
		if fe == nil || fe.Code != CodeMissingRequiredField {
			t.Fatalf("expected a violation, got %v", fe)
		}
	})
	t.Run("neither set", func(t *testing.T) {
		_, fe := ResolveExclusiveOr("pair", "", "")
		if fe == nil || fe.Field != "pair" {
			t.Fatalf("expected a violation on the pair field, got %v", fe)
		}
	})
}
