package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"registrar/internal/company/diff"
	"registrar/internal/company/models"
	"registrar/internal/company/validation"
	"registrar/internal/platform/middleware"
	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/httputil"
	"registrar/pkg/requestcontext"
)

// Service defines the application-lifecycle operations the handler exposes.
type Service interface {
	Validate(app *models.CompanyApplication) (*validation.NormalizedApplication, validation.Violations)
	Submit(ctx context.Context, app *models.CompanyApplication) (*models.CompanyApplication, diff.ChangeSet, error)
	Decide(ctx context.Context, appID id.ApplicationID, approve bool, reason string) (*models.CompanyApplication, error)
	Withdraw(ctx context.Context, appID id.ApplicationID) (*models.CompanyApplication, error)
	GetApplication(ctx context.Context, appID id.ApplicationID) (*models.CompanyApplication, error)
	ListApplications(ctx context.Context, companyID id.CompanyID) ([]*models.CompanyApplication, error)
	GetCompany(ctx context.Context, companyID id.CompanyID) (*models.CompanyState, error)
	VotingRights(ctx context.Context, companyID id.CompanyID) (map[string]decimal.Decimal, error)
}

// Handler wires company registration endpoints to the application service.
type Handler struct {
	service  Service
	logger   *slog.Logger
	verifier *middleware.TokenVerifier
}

// New constructs a company handler with its dependencies.
func New(service Service, logger *slog.Logger, verifier *middleware.TokenVerifier) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		verifier: verifier,
	}
}

// Register mounts the endpoints on the router. Decision endpoints sit
// behind reviewer authentication; submission and reads do not.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.HandleSubmit)
	r.Post("/applications/validate", h.HandleValidate)
	r.Get("/applications/{applicationID}", h.HandleGetApplication)
	r.Post("/applications/{applicationID}/withdraw", h.HandleWithdraw)

	r.Get("/companies/{companyID}", h.HandleGetCompany)
	r.Get("/companies/{companyID}/applications", h.HandleListApplications)
	r.Get("/companies/{companyID}/voting-rights", h.HandleVotingRights)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireReviewer(h.verifier, h.logger))
		r.Post("/applications/{applicationID}/decision", h.HandleDecide)
	})
}

// HandleSubmit handles POST /applications.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitApplicationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := req.ToApplication()
	if err != nil {
		writeError(w, err)
		return
	}

	stored, changes, err := h.service.Submit(ctx, app)
	if err != nil {
		h.logger.InfoContext(ctx, "application rejected at submission",
			"request_id", requestID,
			"kind", req.Kind,
			"error", err,
		)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application submitted",
		"request_id", requestID,
		"application_id", stored.ID,
		"company_id", stored.CompanyID,
		"kind", string(stored.Kind),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, SubmitResponse{
		Application: FromApplication(stored),
		Changes:     FromChangeSet(changes),
	})
}

// HandleValidate handles POST /applications/validate, the dry run. The
// engine's pure checks run; live-state checks (holdings, pending conflicts,
// division levels) do not, so a clean dry run can still fail at submission.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitApplicationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := req.ToApplication()
	if err != nil {
		writeError(w, err)
		return
	}

	_, violations := h.service.Validate(app)
	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{
		Valid:      len(violations) == 0,
		Violations: violations,
	})
}

// HandleGetApplication handles GET /applications/{applicationID}.
func (h *Handler) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	app, err := h.service.GetApplication(ctx, appID)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleWithdraw handles POST /applications/{applicationID}/withdraw.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	app, err := h.service.Withdraw(ctx, appID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "application withdrawn",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
	)
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleDecide handles POST /applications/{applicationID}/decision. Requires
// reviewer authentication; the actor is recorded on the audit trail.
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if requestcontext.ActorID(ctx) == "" {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		writeError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[DecisionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decided, err := h.service.Decide(ctx, appID, req.Decision == decisionApprove, req.Reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "decision failed",
			"request_id", requestID,
			"application_id", appID,
			"decision", req.Decision,
			"error", err,
		)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application decided",
		"request_id", requestID,
		"application_id", decided.ID,
		"decision", req.Decision,
		"actor_id", requestcontext.ActorID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromApplication(decided))
}

// HandleGetCompany handles GET /companies/{companyID}.
func (h *Handler) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := parseCompanyID(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := h.service.GetCompany(ctx, companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCompany(state))
}

// HandleListApplications handles GET /companies/{companyID}/applications.
func (h *Handler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := parseCompanyID(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	apps, err := h.service.ListApplications(ctx, companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]*ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, FromApplication(app))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleVotingRights handles GET /companies/{companyID}/voting-rights.
func (h *Handler) HandleVotingRights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := parseCompanyID(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	rights, err := h.service.VotingRights(ctx, companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VotingRightsResponse{
		CompanyID: companyID.String(),
		Rights:    rights,
	})
}

func parseCompanyID(raw string) (id.CompanyID, error) {
	companyID, err := id.ParseCompanyID(raw)
	if err != nil {
		return id.CompanyID{}, dErrors.New(dErrors.CodeInvalidInput, "company_id must be a valid UUID")
	}
	return companyID, nil
}
