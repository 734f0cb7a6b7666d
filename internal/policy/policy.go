package policy

import (
	"errors"
	"net/http"
	"time"

	"go-payroll/internal/identity"
	"go-payroll/internal/shared/apperror"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (o Operation) Mutating() bool {
	return o == OpCreate || o == OpUpdate || o == OpDelete
}

type ResourceKind string

const (
	KindCompany  ResourceKind = "company"
	KindEmployee ResourceKind = "employee"
	KindPayroll  ResourceKind = "payroll_entry"
)

type Resource struct {
	Kind ResourceKind
	ID   int64
}

func CompanyResource(id int64) Resource  { return Resource{Kind: KindCompany, ID: id} }
func EmployeeResource(id int64) Resource { return Resource{Kind: KindEmployee, ID: id} }
func PayrollResource(id int64) Resource  { return Resource{Kind: KindPayroll, ID: id} }

type Outcome int

const (
	Allow Outcome = iota + 1
	Deny
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type Reason string

const (
	ReasonOwner        Reason = "owner"
	ReasonNotOwner     Reason = "not_owner"
	ReasonUnassociated Reason = "company_unassociated"
	ReasonInvalidRole  Reason = "invalid_role"
	ReasonStaleEntry   Reason = "payroll_entry_stale"
	ReasonMissing      Reason = "resource_not_found"
)

// Decision is the result of an authorization check. CompanyID is the owning
// company the resource resolved to, set whenever the resource exists.
type Decision struct {
	Outcome   Outcome
	Reason    Reason
	CompanyID int64
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Err converts a non-allow decision into the error the HTTP layer renders.
func (d Decision) Err() error {
	switch d.Outcome {
	case Allow:
		return nil
	case NotFound:
		return ErrResourceNotFound
	}

	switch d.Reason {
	case ReasonInvalidRole:
		return identity.ErrInvalidRole
	case ReasonStaleEntry:
		return ErrStaleEntry
	default:
		return ErrAccessDenied
	}
}

// StaleAfter is how long a payroll entry stays editable by clients.
const StaleAfter = 30 * 24 * time.Hour

var (
	ErrAccessDenied     = apperror.New(apperror.CodeForbidden, "You do not have access to this resource", http.StatusForbidden)
	ErrResourceNotFound = apperror.New(apperror.CodeNotFound, "Resource not found", http.StatusNotFound)
	ErrStaleEntry       = apperror.New(apperror.CodeForbidden, "Payroll entries older than 30 days can only be changed by an accountant", http.StatusForbidden)
)

// ErrNoRows is returned by a Store when the resource does not resolve.
var ErrNoRows = errors.New("policy: resource does not exist")

// Ownership is the resolved owning company of a resource.
type Ownership struct {
	CompanyID    int64
	AccountantID *int64
	CreatedAt    time.Time
}
