package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"registrar/internal/audit"
	"registrar/internal/company/diff"
	"registrar/internal/company/models"
	applicationstore "registrar/internal/company/store/application"
	companystore "registrar/internal/company/store/company"
	"registrar/internal/company/validation"
	"registrar/internal/division"
	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// recordingPublisher captures emitted audit events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *recordingPublisher) Emit(_ context.Context, event audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) actions() []audit.AuditEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]audit.AuditEvent, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

type ServiceSuite struct {
	suite.Suite
	ctx          context.Context
	svc          *Service
	companies    *companystore.InMemory
	applications *applicationstore.InMemory
	publisher    *recordingPublisher
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.companies = companystore.NewInMemory()
	s.applications = applicationstore.NewInMemory()
	s.publisher = &recordingPublisher{}

	resolver := division.NewStaticResolver(map[string]int{
		"110000": 1,
		"110105": 3,
		"440305": 3,
	})
	s.svc = New(validation.RosterPolicy{}, s.companies, s.applications,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.publisher),
		WithDivisionResolver(resolver),
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func registration() *models.CompanyApplication {
	return &models.CompanyApplication{
		Kind: models.KindRegistration,
		Registration: &models.RegistrationPayload{
			Name:              "Harbor Freight Co., Ltd.",
			BrandName:         "Harbor",
			IndustryFeature:   "Logistics",
			RegisteredCapital: dec("1000000"),
			Term:              models.ForYears(30),
			Shareholders: models.ShareholderSet{
				{Party: models.NewPersonReference("P-001"), CapitalRatio: dec("60")},
				{Party: models.NewOrganizationReference("ORG-001"), CapitalRatio: dec("40")},
			},
			VotingMode: models.VotingByCapitalRatio,
			Roster: models.GovernanceRoster{
				DirectorIDs:           []string{"P-001", "P-002", "P-003"},
				SupervisorIDs:         []string{"P-004"},
				LegalRepresentativeID: "P-001",
			},
			Domicile:      models.Domicile{DivisionID: "110105", DivisionLevel: 3, Address: "9 Dockside Way"},
			BusinessScope: "Freight forwarding",
			Authority:     models.RegistrationAuthority{Name: "Chaoyang Bureau"},
		},
	}
}

// register submits and approves a registration, returning the company id.
func (s *ServiceSuite) register() id.CompanyID {
	stored, _, err := s.svc.Submit(s.ctx, registration())
	s.Require().NoError(err)
	_, err = s.svc.Decide(s.ctx, stored.ID, true, "")
	s.Require().NoError(err)
	return stored.CompanyID
}

// ==================== Submit ====================

func (s *ServiceSuite) TestSubmitRegistration() {
	stored, changes, err := s.svc.Submit(s.ctx, registration())

	s.Require().NoError(err)
	s.False(stored.ID.IsNil())
	s.False(stored.CompanyID.IsNil())
	s.Equal(models.StatusSubmitted, stored.Status)
	s.NotEmpty(changes)
	s.Equal([]audit.AuditEvent{audit.EventApplicationSubmitted}, s.publisher.actions())
}

func (s *ServiceSuite) TestSubmitRejectsInvalidApplication() {
	app := registration()
	app.Registration.Shareholders[0].CapitalRatio = dec("70") // sum 110

	_, _, err := s.svc.Submit(s.ctx, app)

	var violations validation.Violations
	s.Require().ErrorAs(err, &violations)
	s.True(violations.Has(validation.CodeSumMismatch))
	s.Empty(s.publisher.actions())
}

func (s *ServiceSuite) TestSubmitChecksDivisionHierarchy() {
	s.Run("unknown division", func() {
		app := registration()
		app.Registration.Domicile.DivisionID = "999999"
		_, _, err := s.svc.Submit(s.ctx, app)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("declared level contradicts the hierarchy", func() {
		app := registration()
		app.Registration.Domicile.DivisionID = "110000" // province, not district
		_, _, err := s.svc.Submit(s.ctx, app)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestOnePendingApplicationPerCompany() {
	companyID := s.register()

	name := "Harbor Group Co., Ltd."
	rename := func() *models.CompanyApplication {
		return &models.CompanyApplication{
			Kind:          models.KindRename,
			CompanyID:     companyID,
			ProfileChange: &models.ProfileChangePayload{Name: &name},
		}
	}

	first, _, err := s.svc.Submit(s.ctx, rename())
	s.Require().NoError(err)

	_, _, err = s.svc.Submit(s.ctx, rename())
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	// Withdrawing the pending application frees the slot.
	_, err = s.svc.Withdraw(s.ctx, first.ID)
	s.Require().NoError(err)
	_, _, err = s.svc.Submit(s.ctx, rename())
	s.NoError(err)
}

func (s *ServiceSuite) TestSubmitEquityTransferAgainstLiveState() {
	companyID := s.register()

	_, _, err := s.svc.Submit(s.ctx, &models.CompanyApplication{
		Kind:      models.KindEquityTransfer,
		CompanyID: companyID,
		EquityTransfer: &models.EquityTransferPayload{
			Transferor:   models.NewPersonReference("P-001"),
			Transferee:   models.NewPersonReference("P-900"),
			CapitalRatio: dec("80"), // P-001 holds only 60
			VotingRatio:  dec("10"),
		},
	})

	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	var holding *diff.InsufficientHoldingError
	s.Require().ErrorAs(err, &holding)
	s.Equal(diff.HoldingCapital, holding.Kind)
}

func (s *ServiceSuite) TestSubmitChangeForUnknownCompany() {
	name := "Ghost Co., Ltd."
	_, _, err := s.svc.Submit(s.ctx, &models.CompanyApplication{
		Kind:          models.KindRename,
		CompanyID:     mustCompanyID("4fd2f55c-9e3a-49dc-a73e-0f7f3d2a9e01"),
		ProfileChange: &models.ProfileChangePayload{Name: &name},
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// ==================== Decide ====================

func (s *ServiceSuite) TestApproveRegistrationCreatesCompany() {
	stored, _, err := s.svc.Submit(s.ctx, registration())
	s.Require().NoError(err)

	decided, err := s.svc.Decide(s.ctx, stored.ID, true, "")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, decided.Status)

	state, err := s.svc.GetCompany(s.ctx, stored.CompanyID)
	s.Require().NoError(err)
	s.Equal("Harbor Freight Co., Ltd.", state.Name)
	s.Len(state.Shareholders, 2)
}

func (s *ServiceSuite) TestApproveChangeAppliesUnderLock() {
	companyID := s.register()

	name := "Harbor Group Co., Ltd."
	stored, _, err := s.svc.Submit(s.ctx, &models.CompanyApplication{
		Kind:          models.KindRename,
		CompanyID:     companyID,
		ProfileChange: &models.ProfileChangePayload{Name: &name},
	})
	s.Require().NoError(err)

	_, err = s.svc.Decide(s.ctx, stored.ID, true, "")
	s.Require().NoError(err)

	state, err := s.svc.GetCompany(s.ctx, companyID)
	s.Require().NoError(err)
	s.Equal(name, state.Name)
}

func (s *ServiceSuite) TestRejectLeavesStateUntouched() {
	companyID := s.register()

	name := "Harbor Group Co., Ltd."
	stored, _, err := s.svc.Submit(s.ctx, &models.CompanyApplication{
		Kind:          models.KindRename,
		CompanyID:     companyID,
		ProfileChange: &models.ProfileChangePayload{Name: &name},
	})
	s.Require().NoError(err)

	decided, err := s.svc.Decide(s.ctx, stored.ID, false, "name already taken")
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, decided.Status)

	state, err := s.svc.GetCompany(s.ctx, companyID)
	s.Require().NoError(err)
	s.Equal("Harbor Freight Co., Ltd.", state.Name)
	s.Contains(s.publisher.actions(), audit.EventApplicationDenied)
}

func (s *ServiceSuite) TestDecideRequiresPendingStatus() {
	companyID := s.register()

	name := "Harbor Group Co., Ltd."
	stored, _, err := s.svc.Submit(s.ctx, &models.CompanyApplication{
		Kind:          models.KindRename,
		CompanyID:     companyID,
		ProfileChange: &models.ProfileChangePayload{Name: &name},
	})
	s.Require().NoError(err)

	_, err = s.svc.Decide(s.ctx, stored.ID, true, "")
	s.Require().NoError(err)

	// Deciding twice fails; the application already left SUBMITTED.
	_, err = s.svc.Decide(s.ctx, stored.ID, true, "")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestApprovalReDiffsAgainstMovedState() {
	companyID := s.register()

	// Pending transfer moves 60 capital away from P-001.
	transfer, _, err := s.svc.Submit(s.ctx, &models.CompanyApplication{
		Kind:      models.KindEquityTransfer,
		CompanyID: companyID,
		EquityTransfer: &models.EquityTransferPayload{
			Transferor:   models.NewPersonReference("P-001"),
			Transferee:   models.NewOrganizationReference("ORG-001"),
			CapitalRatio: dec("60"),
			VotingRatio:  dec("60"),
		},
	})
	s.Require().NoError(err)

	// State moves underneath: P-001 already exited by a direct update.
	_, err = s.companies.Update(s.ctx, companyID, func(current *models.CompanyState) (*models.CompanyState, error) {
		current.Shareholders = models.ShareholderSet{
			{Party: models.NewOrganizationReference("ORG-001"), CapitalRatio: dec("100")},
		}
		return current, nil
	})
	s.Require().NoError(err)

	// Approval re-runs the diff under the lock and rejects the stale transfer.
	_, err = s.svc.Decide(s.ctx, transfer.ID, true, "")
	s.Error(err)
	var holding *diff.InsufficientHoldingError
	s.ErrorAs(err, &holding)
}

// ==================== Withdraw / queries ====================

func (s *ServiceSuite) TestWithdraw() {
	stored, _, err := s.svc.Submit(s.ctx, registration())
	s.Require().NoError(err)

	withdrawn, err := s.svc.Withdraw(s.ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusWithdrawn, withdrawn.Status)

	// A decided or withdrawn application cannot be withdrawn again.
	_, err = s.svc.Withdraw(s.ctx, stored.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestListApplications() {
	companyID := s.register()

	name := "Harbor Group Co., Ltd."
	_, _, err := s.svc.Submit(s.ctx, &models.CompanyApplication{
		Kind:          models.KindRename,
		CompanyID:     companyID,
		ProfileChange: &models.ProfileChangePayload{Name: &name},
	})
	s.Require().NoError(err)

	apps, err := s.svc.ListApplications(s.ctx, companyID)
	s.Require().NoError(err)
	s.Len(apps, 2) // the registration and the rename
}

func (s *ServiceSuite) TestVotingRights() {
	companyID := s.register()

	rights, err := s.svc.VotingRights(s.ctx, companyID)
	s.Require().NoError(err)
	s.True(rights["PERSON:P-001"].Equal(dec("60")))
	s.True(rights["ORGANIZATION:ORG-001"].Equal(dec("40")))
}

func (s *ServiceSuite) TestValidateDryRun() {
	app := registration()
	app.Registration.Roster.SupervisorIDs = []string{"P-002"} // also a director

	norm, violations := s.svc.Validate(app)
	s.Nil(norm)
	s.True(violations.Has(validation.CodeConflictingRole))
}

func mustCompanyID(s string) id.CompanyID {
	companyID, err := id.ParseCompanyID(s)
	if err != nil {
		panic(err)
	}
	return companyID
}
