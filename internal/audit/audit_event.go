package audit

import (
	"context"
	"time"

	"go-payroll/internal/identity"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
)

const (
	ActionCompanyCreate    = "company.create"
	ActionCompanyUpdate    = "company.update"
	ActionCompanyDelete    = "company.delete"
	ActionCompanyAssociate = "company.associate"

	ActionEmployeeCreate   = "employee.create"
	ActionEmployeeUpdate   = "employee.update"
	ActionEmployeeDelete   = "employee.delete"
	ActionEmployeeOffboard = "employee.offboard"

	ActionPayrollCreate = "payroll.create"
	ActionPayrollUpdate = "payroll.update"
	ActionPayrollDelete = "payroll.delete"
	ActionPayrollExport = "payroll.export"

	ActionUserRegister      = "user.register"
	ActionUserVerifyEmail   = "user.verify_email"
	ActionUserResetPassword = "user.reset_password"

	ActionServerShutdown = "server.shutdown"
)

const RoleSystem = "system"

type Event struct {
	ID         string         `json:"id"`
	ActorID    int64          `json:"actor_id"`
	ActorRole  string         `json:"actor_role"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   int64          `json:"target_id"`
	RequestID  string         `json:"request_id,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewEvent stamps an event with the actor and the request id found in ctx.
func NewEvent(ctx context.Context, p identity.Principal, action, targetType string, targetID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		ActorID:    p.UserID(),
		ActorRole:  string(p.Role()),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		RequestID:  contextutil.GetRequestID(ctx),
		OccurredAt: time.Now().UTC(),
	}
}

func SystemEvent(action string, meta map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		ActorRole:  RoleSystem,
		Action:     action,
		TargetType: "server",
		Meta:       meta,
		OccurredAt: time.Now().UTC(),
	}
}
