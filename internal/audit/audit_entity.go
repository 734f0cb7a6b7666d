package audit

import "time"

type AuditLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	EventID    string    `gorm:"type:uuid;uniqueIndex;not null"`
	ActorID    int64     `gorm:"not null;index"`
	ActorRole  string    `gorm:"type:varchar(20);not null"`
	Action     string    `gorm:"type:varchar(64);not null"`
	TargetType string    `gorm:"type:varchar(32);not null"`
	TargetID   int64     `gorm:"not null"`
	RequestID  string    `gorm:"type:varchar(64)"`
	OccurredAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func FromEvent(e Event) AuditLog {
	return AuditLog{
		EventID:    e.ID,
		ActorID:    e.ActorID,
		ActorRole:  e.ActorRole,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		RequestID:  e.RequestID,
		OccurredAt: e.OccurredAt,
	}
}
