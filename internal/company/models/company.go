package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "registrar/pkg/domain"
)

// CompanyState is the durable governance snapshot of a registered company.
// Applications are validated against it and, on approval, their change sets
// are applied to produce the next snapshot.
type CompanyState struct {
	CompanyID         id.CompanyID     `json:"company_id"`
	Name              string           `json:"name"`
	BrandName         string           `json:"brand_name,omitempty"`
	RegisteredCapital decimal.Decimal  `json:"registered_capital"`
	Term              OperatingTerm    `json:"term"`
	Shareholders      ShareholderSet   `json:"shareholders"`
	VotingMode        VotingRightsMode `json:"voting_mode"`
	Roster            GovernanceRoster `json:"roster"`
	Domicile          Domicile         `json:"domicile"`
	BusinessScope     string           `json:"business_scope"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Clone returns a deep copy so store callers can mutate the result without
// aliasing the stored snapshot.
func (c *CompanyState) Clone() *CompanyState {
	if c == nil {
		return nil
	}
	out := *c
	out.Shareholders = make(ShareholderSet, len(c.Shareholders))
	for i, sh := range c.Shareholders {
		cp := sh
		if sh.VotingRatio != nil {
			v := *sh.VotingRatio
			cp.VotingRatio = &v
		}
		out.Shareholders[i] = cp
	}
	out.Roster.DirectorIDs = append([]string(nil), c.Roster.DirectorIDs...)
	out.Roster.SupervisorIDs = append([]string(nil), c.Roster.SupervisorIDs...)
	if c.Term.Years != nil {
		y := *c.Term.Years
		out.Term.Years = &y
	}
	return &out
}
