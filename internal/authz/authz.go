// Package authz centralizes the service's authorization policy as a single
// pure decision function. Handlers never compare roles or owner IDs
// themselves; they build a Principal and a Resource and ask Decide.
package authz

import (
	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Deny rejects the requested action. It is the zero value, so an
	// unmatched case can never fall through to an Allow.
	Deny Decision = iota
	// Allow permits the requested action.
	Allow
)

// String implements fmt.Stringer for log output.
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Action is the operation a principal is attempting.
type Action int

const (
	ActionCreate Action = iota
	ActionRead
	ActionUpdate
	ActionDelete
	ActionSearch
)

// String implements fmt.Stringer for log output.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionSearch:
		return "search"
	default:
		return "unknown"
	}
}

// ResourceKind identifies the type of object being acted on.
type ResourceKind int

const (
	KindUser ResourceKind = iota
	KindAdvertisement
)

// String implements fmt.Stringer for log output.
func (k ResourceKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAdvertisement:
		return "advertisement"
	default:
		return "unknown"
	}
}

// Principal is the identity context of a caller, derived from an optional
// bearer token. The zero value is anonymous.
type Principal struct {
	UserID        uuid.UUID
	Role          domain.Role
	Authenticated bool
}

// Anonymous is the principal for requests without credentials.
var Anonymous = Principal{}

// NewPrincipal builds an authenticated principal.
func NewPrincipal(userID uuid.UUID, role domain.Role) Principal {
	return Principal{UserID: userID, Role: role, Authenticated: true}
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Authenticated && p.Role == domain.RoleAdmin
}

// Resource describes the target of an action. OwnerID is the user who
// created the record; for a UserRecord the owner is the user itself. For
// create actions there is no existing owner and OwnerID is uuid.Nil.
type Resource struct {
	Kind    ResourceKind
	OwnerID uuid.UUID
}

// UserRecord describes an existing user record owned by id.
func UserRecord(id uuid.UUID) Resource {
	return Resource{Kind: KindUser, OwnerID: id}
}

// AdvertisementRecord describes an existing advertisement owned by ownerID.
func AdvertisementRecord(ownerID uuid.UUID) Resource {
	return Resource{Kind: KindAdvertisement, OwnerID: ownerID}
}

// NewUserRecord describes a user record about to be created.
func NewUserRecord() Resource {
	return Resource{Kind: KindUser}
}

// NewAdvertisementRecord describes an advertisement about to be created.
func NewAdvertisementRecord() Resource {
	return Resource{Kind: KindAdvertisement}
}

// Decide evaluates the policy for the given principal, action and resource.
// Rules are evaluated in order and the first match wins:
//
//  1. Read on any resource, and Search on advertisements, are public.
//  2. Create on a user record is public (registration).
//  3. Create on an advertisement requires any authenticated principal.
//  4. Update and Delete require the admin role or ownership of the
//     resource.
//  5. Everything else is denied.
//
// Decide is a pure function: it has no side effects, never fails, and is
// safe for concurrent use.
func Decide(p Principal, action Action, resource Resource) Decision {
	switch action {
	case ActionRead:
		return Allow
	case ActionSearch:
		if resource.Kind == KindAdvertisement {
			return Allow
		}
	case ActionCreate:
		if resource.Kind == KindUser {
			return Allow
		}
		if resource.Kind == KindAdvertisement && p.Authenticated {
			return Allow
		}
	case ActionUpdate, ActionDelete:
		if p.IsAdmin() {
			return Allow
		}
		if p.Authenticated && p.UserID == resource.OwnerID {
			return Allow
		}
	}
	return Deny
}
