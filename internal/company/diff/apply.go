package diff

import (
	"fmt"

	"registrar/internal/company/models"
	"registrar/internal/company/validation"
)

// Apply materializes an approved application into the next company state.
// current is nil for registrations. The returned state is a fresh value;
// the input is never mutated.
//
// Apply assumes Diff has already accepted the same (current, app) pair; it
// does not re-run consistency checks.
func Apply(current *models.CompanyState, app *validation.NormalizedApplication) (*models.CompanyState, error) {
	if app == nil {
		return nil, fmt.Errorf("normalized application is required")
	}

	switch app.Kind {
	case models.KindRegistration:
		p := app.Registration
		return &models.CompanyState{
			CompanyID:         app.CompanyID,
			Name:              p.Name,
			BrandName:         p.BrandName,
			RegisteredCapital: p.RegisteredCapital,
			Term:              p.Term,
			Shareholders:      p.Shareholders,
			VotingMode:        p.VotingMode,
			Roster:            p.Roster,
			Domicile:          p.Domicile,
			BusinessScope:     p.BusinessScope,
		}, nil

	case models.KindCapitalChange:
		next := current.Clone()
		p := app.CapitalChange
		next.RegisteredCapital = p.NewRegisteredCapital
		next.Shareholders = p.Shareholders
		if p.VotingMode != nil {
			next.VotingMode = *p.VotingMode
		}
		return next, nil

	case models.KindOfficerChange:
		next := current.Clone()
		p := app.OfficerChange
		if p.DirectorIDs != nil {
			next.Roster.DirectorIDs = append([]string(nil), *p.DirectorIDs...)
		}
		if p.SupervisorIDs != nil {
			next.Roster.SupervisorIDs = append([]string(nil), *p.SupervisorIDs...)
		}
		return next, nil

	case models.KindEquityTransfer:
		return applyEquityTransfer(current, app.EquityTransfer)

	case models.KindDomicileChange:
		next := current.Clone()
		next.Domicile = *app.ProfileChange.Domicile
		return next, nil

	case models.KindRename:
		next := current.Clone()
		next.Name = *app.ProfileChange.Name
		return next, nil

	case models.KindBusinessScopeChange:
		next := current.Clone()
		next.BusinessScope = *app.ProfileChange.BusinessScope
		return next, nil
	}
	return nil, fmt.Errorf("unsupported application kind %q", app.Kind)
}

func applyEquityTransfer(current *models.CompanyState, p *models.EquityTransferPayload) (*models.CompanyState, error) {
	next := current.Clone()

	out := next.Shareholders[:0]
	transferred := false
	for _, sh := range next.Shareholders {
		switch {
		case sh.Party.Equal(p.Transferor):
			remaining := sh.CapitalRatio.Sub(p.CapitalRatio)
			if sh.VotingRatio != nil {
				v := sh.VotingRatio.Sub(p.VotingRatio)
				sh.VotingRatio = &v
			}
			if remaining.IsZero() {
				continue // fully exited
			}
			sh.CapitalRatio = remaining
			out = append(out, sh)
		case sh.Party.Equal(p.Transferee):
			sh.CapitalRatio = sh.CapitalRatio.Add(p.CapitalRatio)
			if sh.VotingRatio != nil {
				v := sh.VotingRatio.Add(p.VotingRatio)
				sh.VotingRatio = &v
			}
			transferred = true
			out = append(out, sh)
		default:
			out = append(out, sh)
		}
	}
	if !transferred {
		vr := p.VotingRatio
		entry := models.Shareholder{Party: p.Transferee, CapitalRatio: p.CapitalRatio}
		if next.VotingMode == models.VotingCustom {
			entry.VotingRatio = &vr
		}
		out = append(out, entry)
	}
	next.Shareholders = out
	return next, nil
}
