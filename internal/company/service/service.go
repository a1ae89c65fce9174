package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"registrar/internal/audit"
	"registrar/internal/company/diff"
	"registrar/internal/company/metrics"
	"registrar/internal/company/models"
	"registrar/internal/company/store"
	"registrar/internal/company/validation"
	"registrar/internal/division"
	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/requestcontext"
)

// Service orchestrates the application lifecycle: validation, diffing
// against live state, persistence of pending applications, and decisions.
type Service struct {
	validator    *validation.Validator
	differ       *diff.Differ
	companies    store.CompanyStore
	applications store.ApplicationStore
	divisions    division.Resolver
	logger       *slog.Logger
	publisher    audit.Publisher
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

// Option configures a Service.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithDivisionResolver(r division.Resolver) Option {
	return func(s *Service) { s.divisions = r }
}

// New constructs a Service. The roster policy is shared between the
// validator and the differ so officer changes are judged by the same rules
// as registrations.
func New(policy validation.RosterPolicy, companies store.CompanyStore, applications store.ApplicationStore, opts ...Option) *Service {
	s := &Service{
		validator:    validation.NewValidator(policy),
		differ:       diff.New(policy),
		companies:    companies,
		applications: applications,
		logger:       slog.Default(),
		tracer:       otel.Tracer("registrar/company"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate runs the pure validation engine without touching any store.
// Used by the dry-run endpoint so filers can fix a complete correction
// list before submitting.
func (s *Service) Validate(app *models.CompanyApplication) (*validation.NormalizedApplication, validation.Violations) {
	norm, violations := s.validator.ValidateApplication(app)
	s.countViolations(violations)
	return norm, violations
}

// Submit validates the application, confirms external facts (division
// level, live holdings), computes the change set and persists the envelope
// as SUBMITTED. Returns the stored application and the change set an
// approval would apply.
func (s *Service) Submit(ctx context.Context, app *models.CompanyApplication) (*models.CompanyApplication, diff.ChangeSet, error) {
	ctx, span := s.tracer.Start(ctx, "company.Submit")
	defer span.End()
	start := time.Now()

	kind := string(app.Kind)
	norm, violations := s.validator.ValidateApplication(app)
	if len(violations) > 0 {
		s.countViolations(violations)
		s.incrementRejected(kind)
		return nil, nil, violations
	}
	span.SetAttributes(attribute.String("application.kind", kind))

	if err := s.checkDivision(ctx, norm); err != nil {
		s.incrementRejected(kind)
		return nil, nil, err
	}

	current, err := s.currentState(ctx, norm)
	if err != nil {
		return nil, nil, err
	}

	changes, err := s.differ.Diff(current, norm)
	if err != nil {
		s.incrementRejected(kind)
		return nil, nil, wrapDiffErr(err)
	}

	now := requestcontext.Now(ctx)
	app.ID = id.ApplicationID(uuid.New())
	if app.Kind == models.KindRegistration && app.CompanyID.IsNil() {
		app.CompanyID = id.CompanyID(uuid.New())
	}
	app.Status = models.StatusSubmitted
	app.CreatedAt = now
	app.UpdatedAt = now

	if err := s.applications.CreateIfNonePending(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, nil, dErrors.New(dErrors.CodeConflict, "company already has a pending application")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store application")
	}

	s.emitAudit(ctx, audit.EventApplicationSubmitted, app, "")
	s.incrementSubmitted(kind)
	if s.metrics != nil {
		s.metrics.SubmitDuration.Observe(time.Since(start).Seconds())
	}
	return app, changes, nil
}

// Decide approves or rejects a SUBMITTED application. Approval re-runs the
// deterministic validate-and-diff against the state held under the store's
// lock, then applies the result; the live state may have moved since
// submission, and the lock is where the final consistency check belongs.
func (s *Service) Decide(ctx context.Context, appID id.ApplicationID, approve bool, reason string) (*models.CompanyApplication, error) {
	ctx, span := s.tracer.Start(ctx, "company.Decide")
	defer span.End()

	app, err := s.applications.FindByID(ctx, appID)
	if err != nil {
		return nil, wrapStoreErr(err, "application")
	}
	if app.Status != models.StatusSubmitted {
		return nil, dErrors.New(dErrors.CodeConflict, "application is not pending")
	}

	if !approve {
		decided, err := s.applications.Transition(ctx, appID, models.StatusSubmitted, models.StatusRejected)
		if err != nil {
			return nil, wrapStoreErr(err, "application")
		}
		s.emitAudit(ctx, audit.EventApplicationDenied, decided, reason)
		return decided, nil
	}

	norm, violations := s.validator.ValidateApplication(app)
	if len(violations) > 0 {
		// A stored application no longer passing validation means the
		// engine's rules changed underneath it; surface, don't apply.
		return nil, dErrors.Wrap(violations, dErrors.CodeInvariantViolation, "stored application failed re-validation")
	}

	if app.Kind == models.KindRegistration {
		if err := s.approveRegistration(ctx, norm); err != nil {
			return nil, err
		}
	} else {
		_, err := s.companies.Update(ctx, app.CompanyID, func(current *models.CompanyState) (*models.CompanyState, error) {
			if _, diffErr := s.differ.Diff(current, norm); diffErr != nil {
				return nil, wrapDiffErr(diffErr)
			}
			next, applyErr := diff.Apply(current, norm)
			if applyErr != nil {
				return nil, dErrors.Wrap(applyErr, dErrors.CodeInternal, "failed to apply change set")
			}
			next.UpdatedAt = requestcontext.Now(ctx)
			return next, nil
		})
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
			}
			return nil, err
		}
	}

	decided, err := s.applications.Transition(ctx, appID, models.StatusSubmitted, models.StatusApproved)
	if err != nil {
		return nil, wrapStoreErr(err, "application")
	}
	s.emitAudit(ctx, audit.EventApplicationApproved, decided, reason)
	s.incrementApproved(string(decided.Kind))
	return decided, nil
}

// Withdraw lets the filer pull a SUBMITTED application back.
func (s *Service) Withdraw(ctx context.Context, appID id.ApplicationID) (*models.CompanyApplication, error) {
	app, err := s.applications.Transition(ctx, appID, models.StatusSubmitted, models.StatusWithdrawn)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.New(dErrors.CodeConflict, "application is not pending")
		}
		return nil, wrapStoreErr(err, "application")
	}
	s.emitAudit(ctx, audit.EventApplicationWithdrawn, app, "")
	return app, nil
}

// GetApplication fetches one application envelope.
func (s *Service) GetApplication(ctx context.Context, appID id.ApplicationID) (*models.CompanyApplication, error) {
	app, err := s.applications.FindByID(ctx, appID)
	if err != nil {
		return nil, wrapStoreErr(err, "application")
	}
	return app, nil
}

// ListApplications fetches a company's application trail, oldest first.
func (s *Service) ListApplications(ctx context.Context, companyID id.CompanyID) ([]*models.CompanyApplication, error) {
	apps, err := s.applications.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// GetCompany fetches the durable company snapshot.
func (s *Service) GetCompany(ctx context.Context, companyID id.CompanyID) (*models.CompanyState, error) {
	state, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, wrapStoreErr(err, "company")
	}
	return state, nil
}

// VotingRights resolves the effective voting distribution from durable
// state under the company's recorded mode.
func (s *Service) VotingRights(ctx context.Context, companyID id.CompanyID) (map[string]decimal.Decimal, error) {
	state, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, wrapStoreErr(err, "company")
	}
	rights, violations := validation.ResolveVotingRights(state.Shareholders, state.VotingMode)
	if violations != nil {
		return nil, dErrors.Wrap(violations, dErrors.CodeInvariantViolation, "stored shareholder set failed voting resolution")
	}
	return rights, nil
}

func (s *Service) approveRegistration(ctx context.Context, norm *validation.NormalizedApplication) error {
	state, err := diff.Apply(nil, norm)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build company state")
	}
	now := requestcontext.Now(ctx)
	state.CreatedAt = now
	state.UpdatedAt = now
	if err := s.companies.Create(ctx, state); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "company already registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company")
	}
	return nil
}

// currentState loads the snapshot a change application diffs against.
// Registrations diff against the empty state.
func (s *Service) currentState(ctx context.Context, norm *validation.NormalizedApplication) (*models.CompanyState, error) {
	if norm.Kind == models.KindRegistration {
		return nil, nil
	}
	state, err := s.companies.FindByID(ctx, norm.CompanyID)
	if err != nil {
		return nil, wrapStoreErr(err, "company")
	}
	return state, nil
}

// checkDivision confirms the declared administrative-division level against
// the external hierarchy. Only kinds carrying a domicile are affected.
func (s *Service) checkDivision(ctx context.Context, norm *validation.NormalizedApplication) error {
	var dom *models.Domicile
	switch norm.Kind {
	case models.KindRegistration:
		dom = &norm.Registration.Domicile
	case models.KindDomicileChange:
		dom = norm.ProfileChange.Domicile
	default:
		return nil
	}
	if s.divisions == nil {
		return nil // hierarchy not wired; declared level stands
	}
	level, err := s.divisions.Level(ctx, dom.DivisionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeValidation, "unknown administrative division "+dom.DivisionID)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "division lookup failed")
	}
	if level != dom.DivisionLevel {
		return dErrors.New(dErrors.CodeValidation, "administrative division level does not match the declared level")
	}
	return nil
}

func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, app *models.CompanyApplication, reason string) {
	if s.publisher == nil {
		return
	}
	event := audit.Event{
		Action:        action,
		Timestamp:     requestcontext.Now(ctx),
		CompanyID:     app.CompanyID,
		ApplicationID: app.ID,
		Kind:          string(app.Kind),
		ActorID:       requestcontext.ActorID(ctx),
		RequestID:     requestcontext.RequestID(ctx),
		Reason:        reason,
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(action), "error", err)
	}
}

func (s *Service) countViolations(violations validation.Violations) {
	if s.metrics == nil {
		return
	}
	for _, fe := range violations {
		s.metrics.IncrementValidationFailure(string(fe.Code))
	}
}

func (s *Service) incrementSubmitted(kind string) {
	if s.metrics != nil {
		s.metrics.IncrementSubmitted(kind)
	}
}

func (s *Service) incrementRejected(kind string) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(kind)
	}
}

func (s *Service) incrementApproved(kind string) {
	if s.metrics != nil {
		s.metrics.IncrementApproved(kind)
	}
}

// wrapDiffErr maps the differ's terminal failures onto coded domain errors
// while preserving the typed cause for errors.Is / errors.As callers.
func wrapDiffErr(err error) error {
	switch {
	case errors.Is(err, diff.ErrNoOpChange):
		return dErrors.Wrap(err, dErrors.CodeValidation, "proposed change is a no-op")
	case errors.Is(err, diff.ErrAmbiguousChangeType):
		return dErrors.Wrap(err, dErrors.CodeValidation, "capital change direction is ambiguous")
	}
	var holding *diff.InsufficientHoldingError
	if errors.As(err, &holding) {
		return dErrors.Wrap(err, dErrors.CodeValidation, "transfer exceeds the transferor's holding")
	}
	var violations validation.Violations
	if errors.As(err, &violations) {
		return violations
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
}

func wrapStoreErr(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+entity)
}
