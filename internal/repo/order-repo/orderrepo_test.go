package orderrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/pg"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB
}

func TestRepository_Save(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        INSERT INTO orders (user_id, service_id, cost, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `)

	t.Run("Saves order and backfills id and timestamps", func(t *testing.T) {
		now := time.Now()
		rows := pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, now, now)
		mock.ExpectQuery(query).WithArgs(1, 3, int64(40), "pending").WillReturnRows(rows)

		order := &domain.Order{UserID: 1, ServiceID: 3, Cost: 40, Status: "pending"}
		err := repo.Save(context.Background(), order)
		assert.NoError(t, err)
		assert.Equal(t, 42, order.ID)
		assert.Equal(t, now, order.CreatedAt)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(1, 3, int64(40), "pending").
			WillReturnError(errors.New("database error"))

		order := &domain.Order{UserID: 1, ServiceID: 3, Cost: 40, Status: "pending"}
		err := repo.Save(context.Background(), order)
		assert.Error(t, err)
	})
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        SELECT id, user_id, service_id, cost, status, fail_reason, external_job_ref, created_at, updated_at
        FROM orders
        WHERE id = $1
    `)

	tests := []struct {
		name      string
		orderID   int
		mockSetup func()
		expectErr bool
		result    *domain.Order
	}{
		{
			name:    "Existing order",
			orderID: 42,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "service_id", "cost", "status",
					"fail_reason", "external_job_ref", "created_at", "updated_at"}).
					AddRow(42, 1, 3, int64(40), "processing", (*string)(nil), (*string)(nil), time.Time{}, time.Time{})
				mock.ExpectQuery(query).WithArgs(42).WillReturnRows(rows)
			},
			result: &domain.Order{ID: 42, UserID: 1, ServiceID: 3, Cost: 40, Status: "processing"},
		},
		{
			name:    "Missing order returns nil",
			orderID: 99,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(99).WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
		{
			name:    "Database error",
			orderID: 42,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(42).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), tt.orderID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindOrdersByUserID(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        SELECT id, user_id, service_id, cost, status, fail_reason, external_job_ref, created_at, updated_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
    `)

	t.Run("Returns user's orders", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "service_id", "cost", "status",
			"fail_reason", "external_job_ref", "created_at", "updated_at"}).
			AddRow(2, 1, 3, int64(40), "completed", (*string)(nil), (*string)(nil), time.Time{}, time.Time{}).
			AddRow(1, 1, 2, int64(25), "failed", (*string)(nil), (*string)(nil), time.Time{}, time.Time{})
		mock.ExpectQuery(query).WithArgs(1).WillReturnRows(rows)

		orders, err := repo.FindOrdersByUserID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Len(t, orders, 2)
		assert.Equal(t, 2, orders[0].ID)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))

		_, err := repo.FindOrdersByUserID(context.Background(), 1)
		assert.Error(t, err)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)
	reason := "nsfw content rejected"

	query := regexp.QuoteMeta(`
        UPDATE orders
        SET status = $1, fail_reason = COALESCE($2, fail_reason), updated_at = now()
        WHERE id = $3 AND status = $4
    `)

	tests := []struct {
		name      string
		reason    *string
		mockSetup func()
		expectErr bool
		applied   bool
	}{
		{
			name: "Transition applied",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("failed", (*string)(nil), 42, "processing").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			applied: true,
		},
		{
			name:   "Transition with fail reason",
			reason: &reason,
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("failed", &reason, 42, "processing").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			applied: true,
		},
		{
			name: "Lost race leaves the row untouched",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("failed", (*string)(nil), 42, "processing").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			applied: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("failed", (*string)(nil), 42, "processing").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			applied, err := repo.UpdateStatus(context.Background(), 42, "processing", "failed", tt.reason)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.applied, applied)
			}
		})
	}
}

func TestRepository_SetJobRef(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        UPDATE orders
        SET status = $1, external_job_ref = $2, updated_at = now()
        WHERE id = $3 AND status = $4
    `)

	t.Run("Records job ref on the pending order", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs("processing", "job-abc", 42, "pending").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		applied, err := repo.SetJobRef(context.Background(), 42, "pending", "processing", "job-abc")
		assert.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("Guard status no longer matches", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs("processing", "job-abc", 42, "pending").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		applied, err := repo.SetJobRef(context.Background(), 42, "pending", "processing", "job-abc")
		assert.NoError(t, err)
		assert.False(t, applied)
	})
}

func TestRepository_FindForRecovery(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        SELECT id, user_id, service_id, cost, status, fail_reason, external_job_ref, created_at, updated_at
        FROM orders
        WHERE status = 'processing' AND external_job_ref IS NOT NULL
        ORDER BY updated_at ASC
        LIMIT $1
    `)

	t.Run("Returns stuck processing orders", func(t *testing.T) {
		jobRef := "job-abc"
		rows := pgxmock.NewRows([]string{"id", "user_id", "service_id", "cost", "status",
			"fail_reason", "external_job_ref", "created_at", "updated_at"}).
			AddRow(42, 1, 3, int64(40), "processing", (*string)(nil), &jobRef, time.Time{}, time.Time{})
		mock.ExpectQuery(query).WithArgs(10).WillReturnRows(rows)

		orders, err := repo.FindForRecovery(context.Background(), 10)
		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.Equal(t, "job-abc", *orders[0].ExternalJobRef)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(10).WillReturnError(errors.New("database error"))

		_, err := repo.FindForRecovery(context.Background(), 10)
		assert.Error(t, err)
	})
}
