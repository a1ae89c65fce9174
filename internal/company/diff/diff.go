// Package diff computes the semantic delta between a company's current
// governance state and a validated application.
//
// Unlike the validation package, failures here depend on external state
// (the live company snapshot) and therefore surface as a single terminal
// error rather than an accumulated violation list.
package diff

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"registrar/internal/company/models"
	"registrar/internal/company/validation"
)

// ErrNoOpChange is returned when a proposed change is structurally
// identical to the current state. Explicit change requests must change
// something.
var ErrNoOpChange = errors.New("proposed change is identical to current state")

// ErrAmbiguousChangeType is returned when a capital change omits its
// direction and the proposed capital equals the current capital, so no
// direction can be inferred.
var ErrAmbiguousChangeType = errors.New("capital change direction cannot be inferred")

// HoldingKind names which holding dimension fell short in an
// InsufficientHoldingError.
type HoldingKind string

const (
	HoldingCapital HoldingKind = "capital"
	HoldingVoting  HoldingKind = "voting"
)

// InsufficientHoldingError reports an equity transfer exceeding the
// transferor's live holding. PartyID is the composite party key.
type InsufficientHoldingError struct {
	PartyID   string
	Kind      HoldingKind
	Requested decimal.Decimal
	Held      decimal.Decimal
}

func (e *InsufficientHoldingError) Error() string {
	return fmt.Sprintf("transferor %s holds %s%% %s, transfer of %s%% requested",
		e.PartyID, e.Held, e.Kind, e.Requested)
}

// ChangeOp names one atomic change within a ChangeSet.
type ChangeOp string

const (
	OpAddShareholder    ChangeOp = "add_shareholder"
	OpRemoveShareholder ChangeOp = "remove_shareholder"
	OpUpdateShareholder ChangeOp = "update_shareholder"
	OpAddDirector       ChangeOp = "add_director"
	OpRemoveDirector    ChangeOp = "remove_director"
	OpAddSupervisor     ChangeOp = "add_supervisor"
	OpRemoveSupervisor  ChangeOp = "remove_supervisor"
	OpUpdateField       ChangeOp = "update_field"
)

// Change is one atomic, ordered step. Subject is a composite party key
// (KIND:identity) for shareholder ops, an officer id for seat ops, and a
// field name for scalar updates. From/To are display-normalized values ("" when not applicable).
type Change struct {
	Op      ChangeOp `json:"op"`
	Subject string   `json:"subject"`
	From    string   `json:"from,omitempty"`
	To      string   `json:"to,omitempty"`
}

// ChangeSet is the ordered list of atomic changes an approval must apply to
// durable state. Applying it is the persistence collaborator's concern.
type ChangeSet []Change

// Differ compares validated applications against live state. The roster
// policy is needed when an officer change produces a whole new roster that
// must still satisfy the structural invariants.
type Differ struct {
	policy validation.RosterPolicy
}

// New constructs a Differ.
func New(policy validation.RosterPolicy) *Differ {
	return &Differ{policy: policy}
}

// Diff computes the change set for a normalized application against the
// company's current state. current is nil only for registrations, which
// diff against the empty state into an all-adds change set.
func (d *Differ) Diff(current *models.CompanyState, app *validation.NormalizedApplication) (ChangeSet, error) {
	if app == nil {
		return nil, fmt.Errorf("normalized application is required")
	}

	switch app.Kind {
	case models.KindRegistration:
		return d.diffRegistration(app.Registration), nil
	case models.KindCapitalChange:
		return d.diffCapitalChange(current, app)
	case models.KindOfficerChange:
		return d.diffOfficerChange(current, app.OfficerChange)
	case models.KindEquityTransfer:
		return d.diffEquityTransfer(current, app.EquityTransfer)
	case models.KindDomicileChange, models.KindRename, models.KindBusinessScopeChange:
		return d.diffProfileChange(current, app.Kind, app.ProfileChange)
	}
	return nil, fmt.Errorf("unsupported application kind %q", app.Kind)
}

func (d *Differ) diffRegistration(p *models.RegistrationPayload) ChangeSet {
	var cs ChangeSet
	cs = append(cs,
		Change{Op: OpUpdateField, Subject: "name", To: p.Name},
		Change{Op: OpUpdateField, Subject: "registered_capital", To: p.RegisteredCapital.String()},
		Change{Op: OpUpdateField, Subject: "domicile", To: p.Domicile.DivisionID},
		Change{Op: OpUpdateField, Subject: "business_scope", To: p.BusinessScope},
	)
	for _, sh := range p.Shareholders {
		cs = append(cs, Change{Op: OpAddShareholder, Subject: sh.Party.Key(), To: sh.CapitalRatio.String()})
	}
	for _, id := range p.Roster.DirectorIDs {
		cs = append(cs, Change{Op: OpAddDirector, Subject: id})
	}
	for _, id := range p.Roster.SupervisorIDs {
		cs = append(cs, Change{Op: OpAddSupervisor, Subject: id})
	}
	return cs
}

func (d *Differ) diffCapitalChange(current *models.CompanyState, app *validation.NormalizedApplication) (ChangeSet, error) {
	if current == nil {
		return nil, fmt.Errorf("current state is required for capital changes")
	}
	p := app.CapitalChange

	// Direction consistency: an explicit type must match the comparison, an
	// omitted type is inferred from it, and equality with no explicit type
	// cannot be resolved.
	cmp := p.NewRegisteredCapital.Cmp(current.RegisteredCapital)
	if p.ChangeType == nil {
		if cmp == 0 {
			return nil, ErrAmbiguousChangeType
		}
	} else {
		switch *p.ChangeType {
		case models.CapitalIncrease:
			if cmp <= 0 {
				return nil, fmt.Errorf("change type INCREASE but proposed capital %s is not above current %s",
					p.NewRegisteredCapital, current.RegisteredCapital)
			}
		case models.CapitalDecrease:
			if cmp >= 0 {
				return nil, fmt.Errorf("change type DECREASE but proposed capital %s is not below current %s",
					p.NewRegisteredCapital, current.RegisteredCapital)
			}
		}
	}

	// A capital change that keeps its voting mode implicit resolves voting
	// rights here, against the company's recorded mode.
	if app.VotingRights == nil {
		rights, violations := validation.ResolveVotingRights(p.Shareholders, current.VotingMode)
		if violations != nil {
			return nil, violations
		}
		app.VotingRights = rights
	}

	if cmp == 0 && p.Shareholders.Equal(current.Shareholders) {
		return nil, ErrNoOpChange
	}

	var cs ChangeSet
	if cmp != 0 {
		cs = append(cs, Change{
			Op: OpUpdateField, Subject: "registered_capital",
			From: current.RegisteredCapital.String(), To: p.NewRegisteredCapital.String(),
		})
	}
	cs = append(cs, diffShareholders(current.Shareholders, p.Shareholders)...)
	if len(cs) == 0 {
		return nil, ErrNoOpChange
	}
	return cs, nil
}

func (d *Differ) diffOfficerChange(current *models.CompanyState, p *models.OfficerChangePayload) (ChangeSet, error) {
	if current == nil {
		return nil, fmt.Errorf("current state is required for officer changes")
	}

	next := current.Roster
	if p.DirectorIDs != nil {
		next.DirectorIDs = *p.DirectorIDs
	}
	if p.SupervisorIDs != nil {
		next.SupervisorIDs = *p.SupervisorIDs
	}

	// The resulting roster must still stand on its own; clearing every
	// director seat is not a lawful company.
	if violations := validation.ValidateRoster("roster", next, d.policy); len(violations) > 0 {
		return nil, violations
	}

	delta := validation.DiffOfficers(current.Roster, next)
	if delta.Empty() {
		return nil, ErrNoOpChange
	}

	var cs ChangeSet
	for _, id := range delta.RemovedDirectors {
		cs = append(cs, Change{Op: OpRemoveDirector, Subject: id})
	}
	for _, id := range delta.AddedDirectors {
		cs = append(cs, Change{Op: OpAddDirector, Subject: id})
	}
	for _, id := range delta.RemovedSupervisors {
		cs = append(cs, Change{Op: OpRemoveSupervisor, Subject: id})
	}
	for _, id := range delta.AddedSupervisors {
		cs = append(cs, Change{Op: OpAddSupervisor, Subject: id})
	}
	return cs, nil
}

func (d *Differ) diffEquityTransfer(current *models.CompanyState, p *models.EquityTransferPayload) (ChangeSet, error) {
	if current == nil {
		return nil, fmt.Errorf("current state is required for equity transfers")
	}

	holder, ok := current.Shareholders.Find(p.Transferor)
	if !ok {
		return nil, &InsufficientHoldingError{
			PartyID: p.Transferor.Key(), Kind: HoldingCapital,
			Requested: p.CapitalRatio, Held: decimal.Zero,
		}
	}
	if holder.CapitalRatio.LessThan(p.CapitalRatio) {
		return nil, &InsufficientHoldingError{
			PartyID: p.Transferor.Key(), Kind: HoldingCapital,
			Requested: p.CapitalRatio, Held: holder.CapitalRatio,
		}
	}
	heldVoting := holder.CapitalRatio
	if holder.VotingRatio != nil {
		heldVoting = *holder.VotingRatio
	}
	if heldVoting.LessThan(p.VotingRatio) {
		return nil, &InsufficientHoldingError{
			PartyID: p.Transferor.Key(), Kind: HoldingVoting,
			Requested: p.VotingRatio, Held: heldVoting,
		}
	}

	var cs ChangeSet
	remaining := holder.CapitalRatio.Sub(p.CapitalRatio)
	if remaining.IsZero() {
		cs = append(cs, Change{
			Op: OpRemoveShareholder, Subject: p.Transferor.Key(),
			From: holder.CapitalRatio.String(),
		})
	} else {
		cs = append(cs, Change{
			Op: OpUpdateShareholder, Subject: p.Transferor.Key(),
			From: holder.CapitalRatio.String(), To: remaining.String(),
		})
	}

	if existing, ok := current.Shareholders.Find(p.Transferee); ok {
		cs = append(cs, Change{
			Op: OpUpdateShareholder, Subject: p.Transferee.Key(),
			From: existing.CapitalRatio.String(), To: existing.CapitalRatio.Add(p.CapitalRatio).String(),
		})
	} else {
		cs = append(cs, Change{
			Op: OpAddShareholder, Subject: p.Transferee.Key(),
			To: p.CapitalRatio.String(),
		})
	}
	return cs, nil
}

func (d *Differ) diffProfileChange(current *models.CompanyState, kind models.ApplicationKind, p *models.ProfileChangePayload) (ChangeSet, error) {
	if current == nil {
		return nil, fmt.Errorf("current state is required for profile changes")
	}

	var cs ChangeSet
	switch kind {
	case models.KindDomicileChange:
		if p.Domicile.Equal(current.Domicile) {
			return nil, ErrNoOpChange
		}
		cs = append(cs, Change{
			Op: OpUpdateField, Subject: "domicile",
			From: current.Domicile.DivisionID, To: p.Domicile.DivisionID,
		})
	case models.KindRename:
		if *p.Name == current.Name {
			return nil, ErrNoOpChange
		}
		cs = append(cs, Change{Op: OpUpdateField, Subject: "name", From: current.Name, To: *p.Name})
	case models.KindBusinessScopeChange:
		if *p.BusinessScope == current.BusinessScope {
			return nil, ErrNoOpChange
		}
		cs = append(cs, Change{
			Op: OpUpdateField, Subject: "business_scope",
			From: current.BusinessScope, To: *p.BusinessScope,
		})
	}
	return cs, nil
}

// diffShareholders lists removals of parties absent from the proposed set,
// then updates for changed ratios, then additions, preserving proposed-set
// order within each group.
func diffShareholders(current, proposed models.ShareholderSet) ChangeSet {
	var cs ChangeSet
	for _, sh := range current {
		if _, ok := proposed.Find(sh.Party); !ok {
			cs = append(cs, Change{
				Op: OpRemoveShareholder, Subject: sh.Party.Key(),
				From: sh.CapitalRatio.String(),
			})
		}
	}
	for _, sh := range proposed {
		old, ok := current.Find(sh.Party)
		switch {
		case !ok:
			cs = append(cs, Change{
				Op: OpAddShareholder, Subject: sh.Party.Key(),
				To: sh.CapitalRatio.String(),
			})
		case !old.CapitalRatio.Equal(sh.CapitalRatio):
			cs = append(cs, Change{
				Op: OpUpdateShareholder, Subject: sh.Party.Key(),
				From: old.CapitalRatio.String(), To: sh.CapitalRatio.String(),
			})
		}
	}
	return cs
}
