package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/identity"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=policy_engine.go -destination=mock/policy_engine_mock.go -package=mock
type Store interface {
	CompanyOwnership(ctx context.Context, companyID int64) (Ownership, error)
	EmployeeOwnership(ctx context.Context, employeeID int64) (Ownership, error)
	PayrollOwnership(ctx context.Context, payrollID int64) (Ownership, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, p identity.Principal, op Operation, res Resource) (Decision, error)
	AuthorizeEmployeeCreate(ctx context.Context, p identity.Principal, companyID *int64) (Decision, error)
}

type Engine struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

func NewEngine(store Store, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("policy.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy.engine")
	}
	return &Engine{store: store, now: time.Now, logger: l}
}

func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	return &cp
}

func (e *Engine) Authorize(ctx context.Context, p identity.Principal, op Operation, res Resource) (Decision, error) {
	if !p.Valid() {
		return e.decide(ctx, p, op, res, Decision{Outcome: Deny, Reason: ReasonInvalidRole}), nil
	}

	own, err := e.resolve(ctx, res)
	if errors.Is(err, ErrNoRows) {
		return e.decide(ctx, p, op, res, Decision{Outcome: NotFound, Reason: ReasonMissing}), nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("resolve %s %d: %w", res.Kind, res.ID, err)
	}

	d := ownershipDecision(p, own)
	if d.Allowed() && res.Kind == KindPayroll && p.IsClient() &&
		(op == OpUpdate || op == OpDelete) && e.now().Sub(own.CreatedAt) > StaleAfter {
		d = Decision{Outcome: Deny, Reason: ReasonStaleEntry, CompanyID: own.CompanyID}
	}

	return e.decide(ctx, p, op, res, d), nil
}

// AuthorizeEmployeeCreate picks the target company (the client's own company,
// or the company_id an accountant supplied) and checks ownership of it.
func (e *Engine) AuthorizeEmployeeCreate(ctx context.Context, p identity.Principal, companyID *int64) (Decision, error) {
	if !p.Valid() {
		return e.decide(ctx, p, OpCreate, Resource{Kind: KindEmployee}, Decision{Outcome: Deny, Reason: ReasonInvalidRole}), nil
	}

	var target int64
	if id, ok := p.CompanyID(); ok {
		target = id
	} else {
		if companyID == nil || *companyID <= 0 {
			return Decision{}, apperror.NewValidationError([]apperror.FieldError{apperror.RequiredField("company_id")})
		}
		target = *companyID
	}

	return e.Authorize(ctx, p, OpCreate, CompanyResource(target))
}

func (e *Engine) resolve(ctx context.Context, res Resource) (Ownership, error) {
	if res.ID <= 0 {
		return Ownership{}, ErrNoRows
	}
	switch res.Kind {
	case KindCompany:
		return e.store.CompanyOwnership(ctx, res.ID)
	case KindEmployee:
		return e.store.EmployeeOwnership(ctx, res.ID)
	case KindPayroll:
		return e.store.PayrollOwnership(ctx, res.ID)
	default:
		return Ownership{}, fmt.Errorf("unknown resource kind %q", res.Kind)
	}
}

func ownershipDecision(p identity.Principal, own Ownership) Decision {
	if accountantID, ok := p.AccountantID(); ok {
		if own.AccountantID == nil {
			return Decision{Outcome: Deny, Reason: ReasonUnassociated, CompanyID: own.CompanyID}
		}
		if *own.AccountantID != accountantID {
			return Decision{Outcome: Deny, Reason: ReasonNotOwner, CompanyID: own.CompanyID}
		}
		return Decision{Outcome: Allow, Reason: ReasonOwner, CompanyID: own.CompanyID}
	}

	if companyID, ok := p.CompanyID(); ok && companyID == own.CompanyID {
		return Decision{Outcome: Allow, Reason: ReasonOwner, CompanyID: own.CompanyID}
	}
	return Decision{Outcome: Deny, Reason: ReasonNotOwner, CompanyID: own.CompanyID}
}

func (e *Engine) decide(ctx context.Context, p identity.Principal, op Operation, res Resource, d Decision) Decision {
	log := contextutil.GetLogger(ctx, e.logger)
	fields := []zap.Field{
		zap.String("principal", p.String()),
		zap.String("operation", string(op)),
		zap.String("resource", string(res.Kind)),
		zap.Int64("resource_id", res.ID),
		zap.Stringer("outcome", d.Outcome),
		zap.String("reason", string(d.Reason)),
	}
	if d.Allowed() {
		log.Debug("policy decision", fields...)
	} else {
		log.Info("policy decision", fields...)
	}
	return d
}

// Check authorizes and converts a non-allow decision into its error. It
// returns the owning company id on success.
func Check(ctx context.Context, a Authorizer, p identity.Principal, op Operation, res Resource) (int64, error) {
	d, err := a.Authorize(ctx, p, op, res)
	if err != nil {
		return 0, err
	}
	if err := d.Err(); err != nil {
		return 0, err
	}
	return d.CompanyID, nil
}
