package events

import "time"

const (
	EmployeeLifecycleTopic = "payroll.employee.lifecycle.v1"
	AuditTopic             = "payroll.audit.v1"
)

const (
	EventEmployeeCreated    = "employee.created"
	EventEmployeeOffboarded = "employee.offboarded"
)

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID int64     `json:"employee_id"`
	CompanyID  int64     `json:"company_id"`
	CreatedBy  int64     `json:"created_by"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EmployeeOffboardedEvent struct {
	EventType     string    `json:"event_type"`
	EmployeeID    int64     `json:"employee_id"`
	CompanyID     int64     `json:"company_id"`
	OffboardingID int64     `json:"offboarding_id"`
	Reason        string    `json:"reason"`
	LastDay       string    `json:"last_day"`
	OccurredAt    time.Time `json:"occurred_at"`
}
