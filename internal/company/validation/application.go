package validation

import (
	"github.com/shopspring/decimal"

	"registrar/internal/company/models"
	id "registrar/pkg/domain"
)

// Name length bounds. Company names follow the registry-wide 128 limit;
// brand name and industry feature follow the filing-form 1..40 rule.
const (
	maxCompanyNameLen = 128
	maxShortFieldLen  = 40
)

// NormalizedApplication is a fully-resolved application produced by
// ValidateApplication. It is a valid input to the differ without
// re-validation.
type NormalizedApplication struct {
	Kind      models.ApplicationKind
	CompanyID id.CompanyID

	Registration   *models.RegistrationPayload
	CapitalChange  *models.CapitalChangePayload
	OfficerChange  *models.OfficerChangePayload
	EquityTransfer *models.EquityTransferPayload
	ProfileChange  *models.ProfileChangePayload

	// VotingRights maps resolved party identity to effective voting
	// percentage. Nil for kinds that carry no shareholder structure, and
	// for capital changes that keep the company's current voting mode
	// (resolved by the differ against live state).
	VotingRights map[string]decimal.Decimal

	// AuthorityBranch records which side of the registration-authority
	// exclusive-or was used, so an external lookup can back-fill the other.
	AuthorityBranch ExclusiveBranch
}

// Validator runs the kind-specific rule sets. It is stateless; the policy
// knobs are fixed at construction.
type Validator struct {
	policy RosterPolicy
}

// NewValidator constructs a Validator with the given roster policy.
func NewValidator(policy RosterPolicy) *Validator {
	return &Validator{policy: policy}
}

// ValidateApplication dispatches to the rule set selected by the envelope
// kind and accumulates every violation found. On success it returns the
// normalized application; on failure the violations list is non-empty and
// the normalized result must be discarded.
func (val *Validator) ValidateApplication(app *models.CompanyApplication) (*NormalizedApplication, Violations) {
	var v Violations
	if app == nil {
		v.add("application", CodeMissingRequiredField, "application is required")
		return nil, v
	}
	if !app.Kind.IsValid() {
		v.add("kind", CodeMissingRequiredField, "unknown application kind %q", app.Kind)
		return nil, v
	}

	norm := &NormalizedApplication{Kind: app.Kind, CompanyID: app.CompanyID}

	switch app.Kind {
	case models.KindRegistration:
		v = val.validateRegistration(app.Registration, norm)
	case models.KindCapitalChange:
		v = val.validateCapitalChange(app.CapitalChange, norm)
	case models.KindOfficerChange:
		v = val.validateOfficerChange(app.OfficerChange, norm)
	case models.KindEquityTransfer:
		v = val.validateEquityTransfer(app.EquityTransfer, norm)
	case models.KindDomicileChange, models.KindRename, models.KindBusinessScopeChange:
		v = val.validateProfileChange(app.Kind, app.ProfileChange, norm)
	}

	if len(v) > 0 {
		return nil, v
	}
	return norm, nil
}

func (val *Validator) validateRegistration(p *models.RegistrationPayload, norm *NormalizedApplication) Violations {
	var v Violations
	if p == nil {
		v.add("registration", CodeMissingRequiredField, "registration payload is required")
		return v
	}

	requireLength(&v, "registration.name", p.Name, 1, maxCompanyNameLen)
	requireLength(&v, "registration.brand_name", p.BrandName, 1, maxShortFieldLen)
	requireLength(&v, "registration.industry_feature", p.IndustryFeature, 1, maxShortFieldLen)

	if p.RegisteredCapital.IsNegative() {
		v.add("registration.registered_capital", CodeOutOfRange, "registered capital must not be negative")
	}

	v = append(v, ValidateTerm("registration.term", p.Term)...)
	v = append(v, ValidateShareholders("registration.shareholders", p.Shareholders)...)

	rights, votingViolations := ResolveVotingRights(p.Shareholders, p.VotingMode)
	v = append(v, prefixFields(votingViolations, "registration.")...)
	norm.VotingRights = rights

	v = append(v, ValidateRoster("registration.roster", p.Roster, val.policy)...)
	v = append(v, validateDomicile("registration.domicile", p.Domicile)...)

	requireLength(&v, "registration.business_scope", p.BusinessScope, 1, 0)

	branch, fe := ResolveExclusiveOr("registration.registration_authority",
		p.Authority.CompanyID, p.Authority.Name)
	if fe != nil {
		v = append(v, *fe)
	}
	norm.AuthorityBranch = branch

	norm.Registration = p
	return v
}

func (val *Validator) validateCapitalChange(p *models.CapitalChangePayload, norm *NormalizedApplication) Violations {
	var v Violations
	if p == nil {
		v.add("capital_change", CodeMissingRequiredField, "capital change payload is required")
		return v
	}

	if p.NewRegisteredCapital.IsNegative() {
		v.add("capital_change.new_registered_capital", CodeOutOfRange, "registered capital must not be negative")
	}
	if p.ChangeType != nil && *p.ChangeType != models.CapitalIncrease && *p.ChangeType != models.CapitalDecrease {
		v.add("capital_change.change_type", CodeMissingRequiredField, "change type must be INCREASE or DECREASE")
	}

	v = append(v, ValidateShareholders("capital_change.shareholders", p.Shareholders)...)

	// With an explicit voting mode the rights are resolved now; without one
	// the company keeps its current mode and the differ resolves against
	// live state.
	if p.VotingMode != nil {
		rights, votingViolations := ResolveVotingRights(p.Shareholders, *p.VotingMode)
		v = append(v, prefixFields(votingViolations, "capital_change.")...)
		norm.VotingRights = rights
	}

	norm.CapitalChange = p
	return v
}

func (val *Validator) validateOfficerChange(p *models.OfficerChangePayload, norm *NormalizedApplication) Violations {
	var v Violations
	if p == nil {
		v.add("officer_change", CodeMissingRequiredField, "officer change payload is required")
		return v
	}

	// Nil means "unchanged"; an empty non-nil slice is an explicit
	// clear-all. A request touching neither list is a no-op.
	if p.DirectorIDs == nil && p.SupervisorIDs == nil {
		v.add("officer_change", CodeNoOpChange, "at least one of director_ids or supervisor_ids must be present")
		return v
	}

	if p.DirectorIDs != nil {
		requireNonEmptyIDs(&v, "officer_change.director_ids", *p.DirectorIDs)
	}
	if p.SupervisorIDs != nil {
		requireNonEmptyIDs(&v, "officer_change.supervisor_ids", *p.SupervisorIDs)
	}

	// Disjointness can only be fully checked against the resulting roster
	// (the differ's job when one list is omitted), but a conflict inside a
	// single request is always structural.
	if p.DirectorIDs != nil && p.SupervisorIDs != nil {
		for _, dup := range intersection(toSet(*p.DirectorIDs), toSet(*p.SupervisorIDs)) {
			v.add("officer_change.supervisor_ids", CodeConflictingRole,
				"%q holds both a director and a supervisor seat", dup)
		}
	}

	norm.OfficerChange = p
	return v
}

func (val *Validator) validateEquityTransfer(p *models.EquityTransferPayload, norm *NormalizedApplication) Violations {
	var v Violations
	if p == nil {
		v.add("equity_transfer", CodeMissingRequiredField, "equity transfer payload is required")
		return v
	}

	v = append(v, ValidateParty("equity_transfer.transferor", p.Transferor)...)
	v = append(v, ValidateParty("equity_transfer.transferee", p.Transferee)...)

	if p.Transferor.WellFormed() && p.Transferee.WellFormed() && p.Transferor.Equal(p.Transferee) {
		v.add("equity_transfer.transferee", CodeDuplicateParty, "transferor and transferee must differ")
	}

	if !ratioInRange(p.CapitalRatio) {
		v.add("equity_transfer.capital_ratio", CodeRatioOutOfRange,
			"capital ratio must be greater than 0 and at most 100, got %s", p.CapitalRatio)
	}
	if !ratioInRange(p.VotingRatio) {
		v.add("equity_transfer.voting_ratio", CodeRatioOutOfRange,
			"voting ratio must be greater than 0 and at most 100, got %s", p.VotingRatio)
	}

	norm.EquityTransfer = p
	return v
}

func (val *Validator) validateProfileChange(kind models.ApplicationKind, p *models.ProfileChangePayload, norm *NormalizedApplication) Violations {
	var v Violations
	if p == nil {
		v.add("profile_change", CodeMissingRequiredField, "profile change payload is required")
		return v
	}

	switch kind {
	case models.KindDomicileChange:
		if p.Domicile == nil {
			v.add("profile_change.domicile", CodeMissingRequiredField, "domicile is required")
		} else {
			v = append(v, validateDomicile("profile_change.domicile", *p.Domicile)...)
		}
	case models.KindRename:
		if p.Name == nil {
			v.add("profile_change.name", CodeMissingRequiredField, "name is required")
		} else {
			requireLength(&v, "profile_change.name", *p.Name, 1, maxCompanyNameLen)
		}
	case models.KindBusinessScopeChange:
		if p.BusinessScope == nil {
			v.add("profile_change.business_scope", CodeMissingRequiredField, "business scope is required")
		} else {
			requireLength(&v, "profile_change.business_scope", *p.BusinessScope, 1, 0)
		}
	}

	// Same exclusivity rule as registration when an authority is attached.
	if p.Authority != nil {
		branch, fe := ResolveExclusiveOr("profile_change.registration_authority",
			p.Authority.CompanyID, p.Authority.Name)
		if fe != nil {
			v = append(v, *fe)
		}
		norm.AuthorityBranch = branch
	}

	norm.ProfileChange = p
	return v
}

// validateDomicile checks presence and the declared division level. Whether
// the division id actually sits at the declared level is confirmed against
// the external hierarchy by the service, outside this pure engine.
func validateDomicile(field string, d models.Domicile) Violations {
	var v Violations
	if d.DivisionID == "" {
		v.add(field+".division_id", CodeMissingRequiredField, "division id is required")
	}
	if d.DivisionLevel < 1 || d.DivisionLevel > 3 {
		v.add(field+".division_level", CodeOutOfRange, "division level must be 1, 2 or 3")
	}
	if d.Address == "" {
		v.add(field+".address", CodeMissingRequiredField, "address is required")
	}
	return v
}

// requireLength enforces presence and an optional maximum rune count
// (max 0 means unbounded).
func requireLength(v *Violations, field, value string, min, max int) {
	n := len([]rune(value))
	if n < min {
		v.add(field, CodeMissingRequiredField, "field is required")
		return
	}
	if max > 0 && n > max {
		v.add(field, CodeOutOfRange, "must be at most %d characters", max)
	}
}

func requireNonEmptyIDs(v *Violations, field string, ids []string) {
	for i, s := range ids {
		if s == "" {
			v.add(field, CodeMissingRequiredField, "identifier at position %d is empty", i)
		}
	}
}

// prefixFields re-roots violation field paths produced by a nested helper.
func prefixFields(v Violations, prefix string) Violations {
	out := make(Violations, len(v))
	for i, fe := range v {
		fe.Field = prefix + fe.Field
		out[i] = fe
	}
	return out
}
