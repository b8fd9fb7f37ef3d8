package paymentrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/pg"
)

// ErrCodeExists signals that the generated gateway order code collided
// with an existing request. The caller regenerates and retries.
var ErrCodeExists = errors.New("gateway order code already exists")

const uniqueViolationCode = "23505"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Save(ctx context.Context, request *domain.PaymentRequest) error {
	query := `
        INSERT INTO payment_requests (user_id, xu_amount, fiat_amount, gateway_order_code, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query, request.UserID, request.XuAmount, request.FiatAmount,
		request.GatewayOrderCode, request.Status).
		Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrCodeExists
		}
		zap.L().Error("can't save payment request", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByOrderCode(ctx context.Context, orderCode string) (*domain.PaymentRequest, error) {
	query := `
        SELECT id, user_id, xu_amount, fiat_amount, gateway_order_code, status, created_at, updated_at
        FROM payment_requests
        WHERE gateway_order_code = $1
    `
	row := r.db.QueryRow(ctx, query, orderCode)

	var request domain.PaymentRequest
	err := row.Scan(&request.ID, &request.UserID, &request.XuAmount, &request.FiatAmount,
		&request.GatewayOrderCode, &request.Status, &request.CreatedAt, &request.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payment request", zap.Error(err))
		return nil, err
	}
	return &request, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.PaymentRequest, error) {
	query := `
        SELECT id, user_id, xu_amount, fiat_amount, gateway_order_code, status, created_at, updated_at
        FROM payment_requests
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get payment requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var requests []domain.PaymentRequest
	for rows.Next() {
		var request domain.PaymentRequest
		err := rows.Scan(&request.ID, &request.UserID, &request.XuAmount, &request.FiatAmount,
			&request.GatewayOrderCode, &request.Status, &request.CreatedAt, &request.UpdatedAt)
		if err != nil {
			zap.L().Error("can't scan payment request row", zap.Error(err))
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// UpdateStatus applies a conditional status transition, reporting whether
// any row changed. A false result means the request already left the
// expected status.
func (r *Repository) UpdateStatus(ctx context.Context, id int, from, to string) (bool, error) {
	query := `
        UPDATE payment_requests
        SET status = $1, updated_at = now()
        WHERE id = $2 AND status = $3
    `
	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		zap.L().Error("can't update payment request status", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
