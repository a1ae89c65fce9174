package models

import (
	id "registrar/pkg/domain"
)

// PartyKind discriminates the two legal identities a party reference can
// point at.
type PartyKind string

const (
	PartyKindPerson       PartyKind = "PERSON"
	PartyKindOrganization PartyKind = "ORGANIZATION"
)

// IsValid reports whether the kind is one of the supported discriminators.
func (k PartyKind) IsValid() bool {
	return k == PartyKindPerson || k == PartyKindOrganization
}

// PartyReference is a tagged identity referring to either a natural person
// or another company.
//
// Invariant: exactly one of PersonID / OrganizationID is set, selected by
// Kind. Immutable once embedded in a submitted application.
type PartyReference struct {
	Kind           PartyKind         `json:"kind"`
	PersonID       id.PersonID       `json:"person_id,omitempty"`
	OrganizationID id.OrganizationID `json:"organization_id,omitempty"`
}

// NewPersonReference builds a reference to a natural person.
func NewPersonReference(personID id.PersonID) PartyReference {
	return PartyReference{Kind: PartyKindPerson, PersonID: personID}
}

// NewOrganizationReference builds a reference to a corporate party.
func NewOrganizationReference(orgID id.OrganizationID) PartyReference {
	return PartyReference{Kind: PartyKindOrganization, OrganizationID: orgID}
}

// Identity returns the resolved identifier selected by Kind. Empty when
// the reference is malformed. The bare identifier is not unique across
// kinds; maps keyed by party must use Key.
func (p PartyReference) Identity() string {
	switch p.Kind {
	case PartyKindPerson:
		return string(p.PersonID)
	case PartyKindOrganization:
		return string(p.OrganizationID)
	}
	return ""
}

// Key returns the composite uniqueness key "KIND:identity". A person and
// an organization may share a registry identifier while being distinct
// legal identities, so kind is part of the key. Empty when the reference
// is malformed.
func (p PartyReference) Key() string {
	identity := p.Identity()
	if identity == "" {
		return ""
	}
	return string(p.Kind) + ":" + identity
}

// Equal reports structural equality by kind and resolved identity.
func (p PartyReference) Equal(other PartyReference) bool {
	return p.Kind == other.Kind && p.Identity() == other.Identity()
}

// WellFormed reports whether the identifier matching Kind is present and the
// other is absent. The full field-tagged failure is produced by the
// validation package; this is the raw structural check.
func (p PartyReference) WellFormed() bool {
	switch p.Kind {
	case PartyKindPerson:
		return p.PersonID != "" && p.OrganizationID == ""
	case PartyKindOrganization:
		return p.OrganizationID != "" && p.PersonID == ""
	}
	return false
}
