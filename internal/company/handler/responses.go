package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"registrar/internal/company/diff"
	"registrar/internal/company/models"
	"registrar/internal/company/validation"
	"registrar/pkg/platform/httputil"
)

// ApplicationResponse is the envelope returned for submitted and fetched
// applications. The payload pointers mirror the submission body.
type ApplicationResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Registration   *models.RegistrationPayload   `json:"registration,omitempty"`
	CapitalChange  *models.CapitalChangePayload  `json:"capital_change,omitempty"`
	OfficerChange  *models.OfficerChangePayload  `json:"officer_change,omitempty"`
	EquityTransfer *models.EquityTransferPayload `json:"equity_transfer,omitempty"`
	ProfileChange  *models.ProfileChangePayload  `json:"profile_change,omitempty"`
}

// SubmitResponse pairs the stored application with the change set an
// approval would apply, so filers can review the effect up front.
type SubmitResponse struct {
	Application *ApplicationResponse `json:"application"`
	Changes     []ChangeResponse     `json:"changes"`
}

// ChangeResponse is one entry of a computed change set.
type ChangeResponse struct {
	Op      string `json:"op"`
	Subject string `json:"subject"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}

// ValidateResponse is the dry-run result: either valid, or the complete
// accumulated violation list.
type ValidateResponse struct {
	Valid      bool                    `json:"valid"`
	Violations []validation.FieldError `json:"violations,omitempty"`
}

// CompanyResponse is the durable company snapshot in its HTTP shape.
type CompanyResponse struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	BrandName         string                  `json:"brand_name,omitempty"`
	RegisteredCapital decimal.Decimal         `json:"registered_capital"`
	Term              models.OperatingTerm    `json:"term"`
	Shareholders      models.ShareholderSet   `json:"shareholders"`
	VotingMode        string                  `json:"voting_mode"`
	Roster            models.GovernanceRoster `json:"roster"`
	Domicile          models.Domicile         `json:"domicile"`
	BusinessScope     string                  `json:"business_scope"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// FromCompany converts a durable company snapshot to its HTTP shape.
func FromCompany(state *models.CompanyState) *CompanyResponse {
	return &CompanyResponse{
		ID:                state.CompanyID.String(),
		Name:              state.Name,
		BrandName:         state.BrandName,
		RegisteredCapital: state.RegisteredCapital,
		Term:              state.Term,
		Shareholders:      state.Shareholders,
		VotingMode:        string(state.VotingMode),
		Roster:            state.Roster,
		Domicile:          state.Domicile,
		BusinessScope:     state.BusinessScope,
		CreatedAt:         state.CreatedAt,
		UpdatedAt:         state.UpdatedAt,
	}
}

// VotingRightsResponse maps composite party keys to effective voting
// percentages.
type VotingRightsResponse struct {
	CompanyID string                     `json:"company_id"`
	Rights    map[string]decimal.Decimal `json:"rights"`
}

// FromApplication converts a domain application to its HTTP shape.
func FromApplication(app *models.CompanyApplication) *ApplicationResponse {
	return &ApplicationResponse{
		ID:             app.ID.String(),
		CompanyID:      app.CompanyID.String(),
		Kind:           string(app.Kind),
		Status:         string(app.Status),
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
		Registration:   app.Registration,
		CapitalChange:  app.CapitalChange,
		OfficerChange:  app.OfficerChange,
		EquityTransfer: app.EquityTransfer,
		ProfileChange:  app.ProfileChange,
	}
}

// FromChangeSet converts a computed change set to its HTTP shape.
func FromChangeSet(changes diff.ChangeSet) []ChangeResponse {
	out := make([]ChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, ChangeResponse{
			Op:      string(c.Op),
			Subject: c.Subject,
			From:    c.From,
			To:      c.To,
		})
	}
	return out
}

// violationsBody is the wire shape when validation fails.
type violationsBody struct {
	Error      string                  `json:"error"`
	Violations []validation.FieldError `json:"violations"`
}

// writeError renders accumulated violations as a 422 with the full field
// list; everything else defers to the shared coded-error mapping.
func writeError(w http.ResponseWriter, err error) {
	var violations validation.Violations
	if errors.As(err, &violations) {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, violationsBody{
			Error:      "validation_failed",
			Violations: violations,
		})
		return
	}
	httputil.WriteError(w, err)
}
