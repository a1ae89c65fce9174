package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	"registrar/internal/company/models"
	dErrors "registrar/pkg/domain-errors"
	platformstrings "registrar/pkg/platform/strings"
)

// SubmitApplicationRequest is the submission body: an application kind plus
// the matching payload. CompanyID is required for every kind except
// registration, where the registry mints one on approval.
type SubmitApplicationRequest struct {
	Kind      string `json:"kind"`
	CompanyID string `json:"company_id,omitempty"`

	Registration   *models.RegistrationPayload   `json:"registration,omitempty"`
	CapitalChange  *models.CapitalChangePayload  `json:"capital_change,omitempty"`
	OfficerChange  *models.OfficerChangePayload  `json:"officer_change,omitempty"`
	EquityTransfer *models.EquityTransferPayload `json:"equity_transfer,omitempty"`
	ProfileChange  *models.ProfileChangePayload  `json:"profile_change,omitempty"`
}

func (r *SubmitApplicationRequest) Normalize() {
	if r == nil {
		return
	}
	r.Kind = strings.TrimSpace(strings.ToUpper(r.Kind))
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	if reg := r.Registration; reg != nil {
		reg.Name = strings.TrimSpace(reg.Name)
		reg.BrandName = strings.TrimSpace(reg.BrandName)
		reg.IndustryFeature = strings.TrimSpace(reg.IndustryFeature)
		reg.BusinessScope = strings.TrimSpace(reg.BusinessScope)
		reg.Domicile.Address = strings.TrimSpace(reg.Domicile.Address)
		reg.Roster.DirectorIDs = platformstrings.DedupeAndTrim(reg.Roster.DirectorIDs)
		reg.Roster.SupervisorIDs = platformstrings.DedupeAndTrim(reg.Roster.SupervisorIDs)
	}
	if oc := r.OfficerChange; oc != nil {
		// Nil pointer means "seats unchanged"; only a present list is cleaned.
		if oc.DirectorIDs != nil {
			*oc.DirectorIDs = platformstrings.DedupeAndTrim(*oc.DirectorIDs)
		}
		if oc.SupervisorIDs != nil {
			*oc.SupervisorIDs = platformstrings.DedupeAndTrim(*oc.SupervisorIDs)
		}
	}
}

// Follows validation order: Size -> Required -> Syntax -> Semantic. The
// deep cross-field rules belong to the validation engine; this layer only
// rejects bodies too malformed to dispatch.
func (r *SubmitApplicationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if r.Kind == "" {
		return dErrors.New(dErrors.CodeValidation, "kind is required")
	}
	kind := models.ApplicationKind(r.Kind)
	if !kind.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown application kind")
	}

	if kind == models.KindRegistration {
		if r.CompanyID != "" {
			return dErrors.New(dErrors.CodeValidation, "company_id must be empty for registrations")
		}
	} else {
		if !govalidator.IsUUID(r.CompanyID) {
			return dErrors.New(dErrors.CodeValidation, "company_id must be a valid UUID")
		}
	}

	return nil
}

// ToApplication converts the request into the domain envelope. Call
// Validate first.
func (r *SubmitApplicationRequest) ToApplication() (*models.CompanyApplication, error) {
	app := &models.CompanyApplication{
		Kind:           models.ApplicationKind(r.Kind),
		Registration:   r.Registration,
		CapitalChange:  r.CapitalChange,
		OfficerChange:  r.OfficerChange,
		EquityTransfer: r.EquityTransfer,
		ProfileChange:  r.ProfileChange,
	}
	if r.CompanyID != "" {
		companyID, err := parseCompanyID(r.CompanyID)
		if err != nil {
			return nil, err
		}
		app.CompanyID = companyID
	}
	return app, nil
}

// DecisionRequest approves or rejects a pending application.
type DecisionRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

const (
	decisionApprove = "approve"
	decisionReject  = "reject"
)

func (r *DecisionRequest) Normalize() {
	if r == nil {
		return
	}
	r.Decision = strings.TrimSpace(strings.ToLower(r.Decision))
	r.Reason = strings.TrimSpace(r.Reason)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *DecisionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if !govalidator.StringLength(r.Reason, "0", "500") {
		return dErrors.New(dErrors.CodeValidation, "reason must be 500 characters or less")
	}
	if r.Decision == "" {
		return dErrors.New(dErrors.CodeValidation, "decision is required")
	}
	if r.Decision != decisionApprove && r.Decision != decisionReject {
		return dErrors.New(dErrors.CodeValidation, "decision must be 'approve' or 'reject'")
	}
	if r.Decision == decisionReject && r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required when rejecting")
	}
	return nil
}
