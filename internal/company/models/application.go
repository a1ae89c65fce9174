package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "registrar/pkg/domain"
)

// ApplicationKind tags the envelope with the rule set the payload is
// validated under.
type ApplicationKind string

const (
	KindRegistration        ApplicationKind = "REGISTRATION"
	KindCapitalChange       ApplicationKind = "CAPITAL_CHANGE"
	KindOfficerChange       ApplicationKind = "OFFICER_CHANGE"
	KindEquityTransfer      ApplicationKind = "EQUITY_TRANSFER"
	KindDomicileChange      ApplicationKind = "DOMICILE_CHANGE"
	KindRename              ApplicationKind = "RENAME"
	KindBusinessScopeChange ApplicationKind = "BUSINESS_SCOPE_CHANGE"
)

// IsValid reports whether the kind is one of the supported application kinds.
func (k ApplicationKind) IsValid() bool {
	switch k {
	case KindRegistration, KindCapitalChange, KindOfficerChange,
		KindEquityTransfer, KindDomicileChange, KindRename, KindBusinessScopeChange:
		return true
	}
	return false
}

// ApplicationStatus tracks the envelope lifecycle. The validation engine
// governs only the DRAFT → SUBMITTED transition; the decision endpoints
// drive the rest.
type ApplicationStatus string

const (
	StatusDraft     ApplicationStatus = "DRAFT"
	StatusSubmitted ApplicationStatus = "SUBMITTED"
	StatusApproved  ApplicationStatus = "APPROVED"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

// CapitalChangeType declares the direction of a capital change. When
// omitted the direction is inferred from the capital comparison.
type CapitalChangeType string

const (
	CapitalIncrease CapitalChangeType = "INCREASE"
	CapitalDecrease CapitalChangeType = "DECREASE"
)

// RegistrationAuthority names the authority accepting the filing, given
// either as a company reference or as a free-form name. Exactly one of the
// two must be present; the other may be back-filled by an external lookup
// after validation.
type RegistrationAuthority struct {
	CompanyID string `json:"company_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Domicile is the registered address. DivisionLevel declares how deep in
// the administrative hierarchy DivisionID sits (1, 2 or 3); the declared
// level is confirmed against the external division hierarchy by the
// service, not by the pure validator.
type Domicile struct {
	DivisionID    string `json:"division_id"`
	DivisionLevel int    `json:"division_level"`
	Address       string `json:"address"`
}

// Equal reports structural equality of domiciles.
func (d Domicile) Equal(other Domicile) bool {
	return d.DivisionID == other.DivisionID &&
		d.DivisionLevel == other.DivisionLevel &&
		d.Address == other.Address
}

// RegistrationPayload founds a new company.
type RegistrationPayload struct {
	Name              string                `json:"name"`
	BrandName         string                `json:"brand_name"`
	IndustryFeature   string                `json:"industry_feature"`
	RegisteredCapital decimal.Decimal       `json:"registered_capital"`
	Term              OperatingTerm         `json:"term"`
	Shareholders      ShareholderSet        `json:"shareholders"`
	VotingMode        VotingRightsMode      `json:"voting_mode"`
	Roster            GovernanceRoster      `json:"roster"`
	Domicile          Domicile              `json:"domicile"`
	BusinessScope     string                `json:"business_scope"`
	Authority         RegistrationAuthority `json:"registration_authority"`
}

// CapitalChangePayload replaces the shareholder structure and registered
// capital. ChangeType nil means "infer from the capital comparison".
// VotingMode nil keeps the company's current mode.
type CapitalChangePayload struct {
	NewRegisteredCapital decimal.Decimal    `json:"new_registered_capital"`
	ChangeType           *CapitalChangeType `json:"change_type,omitempty"`
	Shareholders         ShareholderSet     `json:"shareholders"`
	VotingMode           *VotingRightsMode  `json:"voting_mode,omitempty"`
}

// OfficerChangePayload replaces director and/or supervisor seats.
//
// Nil slice means "unchanged"; empty non-nil slice means "clear all seats".
// The distinction is carried through JSON by pointer-to-slice fields.
type OfficerChangePayload struct {
	DirectorIDs   *[]string `json:"director_ids,omitempty"`
	SupervisorIDs *[]string `json:"supervisor_ids,omitempty"`
}

// EquityTransferPayload moves part of a holding between two parties.
// Whether the transferor actually holds enough is checked by the differ
// against live state, not locally.
type EquityTransferPayload struct {
	Transferor   PartyReference  `json:"transferor"`
	Transferee   PartyReference  `json:"transferee"`
	CapitalRatio decimal.Decimal `json:"capital_ratio"`
	VotingRatio  decimal.Decimal `json:"voting_ratio"`
}

// ProfileChangePayload covers domicile, rename and business-scope changes.
// Only the field matching the envelope kind is consulted.
type ProfileChangePayload struct {
	Domicile      *Domicile              `json:"domicile,omitempty"`
	Name          *string                `json:"name,omitempty"`
	BusinessScope *string                `json:"business_scope,omitempty"`
	Reason        string                 `json:"reason,omitempty"`
	Authority     *RegistrationAuthority `json:"registration_authority,omitempty"`
}

// CompanyApplication is the submitted envelope: a kind tag plus the
// kind-specific payload. Exactly one payload pointer is non-nil, selected
// by Kind.
type CompanyApplication struct {
	ID        id.ApplicationID  `json:"id"`
	CompanyID id.CompanyID      `json:"company_id"`
	Kind      ApplicationKind   `json:"kind"`
	Status    ApplicationStatus `json:"status"`

	Registration   *RegistrationPayload   `json:"registration,omitempty"`
	CapitalChange  *CapitalChangePayload  `json:"capital_change,omitempty"`
	OfficerChange  *OfficerChangePayload  `json:"officer_change,omitempty"`
	EquityTransfer *EquityTransferPayload `json:"equity_transfer,omitempty"`
	ProfileChange  *ProfileChangePayload  `json:"profile_change,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
