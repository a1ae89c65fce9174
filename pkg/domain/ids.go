// Package domain provides typed identifiers used across the registrar.
//
// IDs are distinct named types so the compiler rejects cross-assignment
// (a PersonID cannot be passed where a CompanyID is expected). Company and
// application IDs are UUIDs minted by this system; person and organization
// IDs are opaque strings issued by the external identity registry and are
// only checked for presence here (existence is an upstream concern).
package domain

import (
	"github.com/google/uuid"

	dErrors "registrar/pkg/domain-errors"
)

// CompanyID identifies a registered company.
type CompanyID uuid.UUID

// ApplicationID identifies a submitted governance-change application.
type ApplicationID uuid.UUID

// PersonID identifies a natural person in the external identity registry.
type PersonID string

// OrganizationID identifies a corporate shareholder in the external registry.
type OrganizationID string

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

// ParseCompanyID validates and converts an external string into a CompanyID.
func ParseCompanyID(s string) (CompanyID, error) {
	u, err := parseUUID(s)
	return CompanyID(u), err
}

// ParseApplicationID validates and converts an external string into an ApplicationID.
func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s)
	return ApplicationID(u), err
}

func (id CompanyID) String() string     { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }

func (id CompanyID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps the UUID-backed types rendering as canonical UUID
// strings in JSON rather than as byte arrays.

func (id CompanyID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

func (id *CompanyID) UnmarshalText(data []byte) error {
	u, err := uuid.Parse(string(data))
	if err != nil {
		return err
	}
	*id = CompanyID(u)
	return nil
}

func (id ApplicationID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

func (id *ApplicationID) UnmarshalText(data []byte) error {
	u, err := uuid.Parse(string(data))
	if err != nil {
		return err
	}
	*id = ApplicationID(u)
	return nil
}

func (id PersonID) String() string       { return string(id) }
func (id OrganizationID) String() string { return string(id) }
