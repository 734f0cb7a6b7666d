package audit_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/audit"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_SaveIgnoresDuplicates(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO "audit_logs" .* ON CONFLICT \("event_id"\) DO NOTHING RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	log := audit.FromEvent(audit.Event{
		ID: "7b6f1d8e-0000-4000-8000-000000000001", ActorID: 3, ActorRole: "client",
		Action: audit.ActionEmployeeCreate, TargetType: "employee", TargetID: 9, OccurredAt: time.Now(),
	})
	require.NoError(t, audit.NewRepository(db).Save(context.Background(), &log))
	assert.Equal(t, int64(1), log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
