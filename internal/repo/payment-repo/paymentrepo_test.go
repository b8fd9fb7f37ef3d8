package paymentrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quangtd/vidxu/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Save(t *testing.T) {
	repo, mock := NewMock(t)
	fiat := decimal.NewFromInt(12500)

	query := regexp.QuoteMeta(`
        INSERT INTO payment_requests (user_id, xu_amount, fiat_amount, gateway_order_code, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `)

	t.Run("Saves request and backfills id and timestamps", func(t *testing.T) {
		now := time.Now()
		rows := pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now)
		mock.ExpectQuery(query).WithArgs(1, int64(50), fiat, "1021", "pending").WillReturnRows(rows)

		request := &domain.PaymentRequest{UserID: 1, XuAmount: 50, FiatAmount: fiat,
			GatewayOrderCode: "1021", Status: "pending"}
		err := repo.Save(context.Background(), request)
		assert.NoError(t, err)
		assert.Equal(t, 7, request.ID)
	})

	t.Run("Duplicate order code maps to ErrCodeExists", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(1, int64(50), fiat, "1021", "pending").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		request := &domain.PaymentRequest{UserID: 1, XuAmount: 50, FiatAmount: fiat,
			GatewayOrderCode: "1021", Status: "pending"}
		err := repo.Save(context.Background(), request)
		assert.ErrorIs(t, err, ErrCodeExists)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(1, int64(50), fiat, "1021", "pending").
			WillReturnError(errors.New("database error"))

		request := &domain.PaymentRequest{UserID: 1, XuAmount: 50, FiatAmount: fiat,
			GatewayOrderCode: "1021", Status: "pending"}
		err := repo.Save(context.Background(), request)
		assert.Error(t, err)
	})
}

func TestRepository_FindByOrderCode(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        SELECT id, user_id, xu_amount, fiat_amount, gateway_order_code, status, created_at, updated_at
        FROM payment_requests
        WHERE gateway_order_code = $1
    `)

	t.Run("Existing request", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "xu_amount", "fiat_amount",
			"gateway_order_code", "status", "created_at", "updated_at"}).
			AddRow(7, 1, int64(50), decimal.NewFromInt(12500), "1021", "pending", time.Time{}, time.Time{})
		mock.ExpectQuery(query).WithArgs("1021").WillReturnRows(rows)

		request, err := repo.FindByOrderCode(context.Background(), "1021")
		assert.NoError(t, err)
		assert.Equal(t, "1021", request.GatewayOrderCode)
		assert.Equal(t, int64(50), request.XuAmount)
	})

	t.Run("Unknown code returns nil", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("9999").WillReturnError(pgx.ErrNoRows)

		request, err := repo.FindByOrderCode(context.Background(), "9999")
		assert.NoError(t, err)
		assert.Nil(t, request)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("1021").WillReturnError(errors.New("database error"))

		_, err := repo.FindByOrderCode(context.Background(), "1021")
		assert.Error(t, err)
	})
}

func TestRepository_FindByUserID(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        SELECT id, user_id, xu_amount, fiat_amount, gateway_order_code, status, created_at, updated_at
        FROM payment_requests
        WHERE user_id = $1
        ORDER BY created_at DESC
    `)

	t.Run("Returns user's requests", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "xu_amount", "fiat_amount",
			"gateway_order_code", "status", "created_at", "updated_at"}).
			AddRow(8, 1, int64(100), decimal.NewFromInt(25000), "1039", "paid", time.Time{}, time.Time{}).
			AddRow(7, 1, int64(50), decimal.NewFromInt(12500), "1021", "cancelled", time.Time{}, time.Time{})
		mock.ExpectQuery(query).WithArgs(1).WillReturnRows(rows)

		requests, err := repo.FindByUserID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Len(t, requests, 2)
		assert.Equal(t, "paid", requests[0].Status)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))

		_, err := repo.FindByUserID(context.Background(), 1)
		assert.Error(t, err)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        UPDATE payment_requests
        SET status = $1, updated_at = now()
        WHERE id = $2 AND status = $3
    `)

	t.Run("Transition applied", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs("paid", 7, "pending").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		applied, err := repo.UpdateStatus(context.Background(), 7, "pending", "paid")
		assert.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("Request already left the expected status", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs("paid", 7, "pending").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		applied, err := repo.UpdateStatus(context.Background(), 7, "pending", "paid")
		assert.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs("paid", 7, "pending").
			WillReturnError(errors.New("database error"))

		_, err := repo.UpdateStatus(context.Background(), 7, "pending", "paid")
		assert.Error(t, err)
	})
}
