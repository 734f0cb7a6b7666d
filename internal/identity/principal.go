package identity

import (
	"context"
	"strconv"
)

type Role string

const (
	RoleAccountant Role = "accountant"
	RoleClient     Role = "client"
)

func (r Role) Valid() bool {
	return r == RoleAccountant || r == RoleClient
}

// Principal is the authenticated actor of a request. Build it with
// NewAccountant or NewClient; the zero value has no role and is denied
// everywhere.
type Principal struct {
	userID  int64
	role    Role
	scopeID int64 // accountant id for accountants, company id for clients
}

func NewAccountant(userID, accountantID int64) Principal {
	return Principal{userID: userID, role: RoleAccountant, scopeID: accountantID}
}

func NewClient(userID, companyID int64) Principal {
	return Principal{userID: userID, role: RoleClient, scopeID: companyID}
}

func (p Principal) UserID() int64 { return p.userID }

func (p Principal) Role() Role { return p.role }

// Valid reports whether p came from one of the constructors with a usable id.
func (p Principal) Valid() bool {
	return p.role.Valid() && p.scopeID > 0
}

func (p Principal) AccountantID() (int64, bool) {
	if p.role != RoleAccountant || p.scopeID <= 0 {
		return 0, false
	}
	return p.scopeID, true
}

func (p Principal) CompanyID() (int64, bool) {
	if p.role != RoleClient || p.scopeID <= 0 {
		return 0, false
	}
	return p.scopeID, true
}

func (p Principal) IsAccountant() bool { return p.role == RoleAccountant }

func (p Principal) IsClient() bool { return p.role == RoleClient }

func (p Principal) String() string {
	return string(p.role) + ":" + strconv.FormatInt(p.userID, 10)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
