package orderrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	query := `
        INSERT INTO orders (user_id, service_id, cost, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query, order.UserID, order.ServiceID, order.Cost, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	query := `
        SELECT id, user_id, service_id, cost, status, fail_reason, external_job_ref, created_at, updated_at
        FROM orders
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)

	var order domain.Order
	err := row.Scan(&order.ID, &order.UserID, &order.ServiceID, &order.Cost, &order.Status,
		&order.FailReason, &order.ExternalJobRef, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	return &order, nil
}

func (r *Repository) FindOrdersByUserID(ctx context.Context, userID int) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, service_id, cost, status, fail_reason, external_job_ref, created_at, updated_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// UpdateStatus moves the order from one status to another only when the
// current status still matches. The boolean result reports whether the
// transition was applied; false means another transition won the race.
func (r *Repository) UpdateStatus(ctx context.Context, orderID int, from, to string, reason *string) (bool, error) {
	query := `
        UPDATE orders
        SET status = $1, fail_reason = COALESCE($2, fail_reason), updated_at = now()
        WHERE id = $3 AND status = $4
    `
	tag, err := r.db.Exec(ctx, query, to, reason, orderID, from)
	if err != nil {
		zap.L().Error("can't update order status", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetJobRef records the provider's job reference while moving the order to
// the new status, with the same conditional guard as UpdateStatus.
func (r *Repository) SetJobRef(ctx context.Context, orderID int, from, to, jobRef string) (bool, error) {
	query := `
        UPDATE orders
        SET status = $1, external_job_ref = $2, updated_at = now()
        WHERE id = $3 AND status = $4
    `
	tag, err := r.db.Exec(ctx, query, to, jobRef, orderID, from)
	if err != nil {
		zap.L().Error("can't set order job ref", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// FindForRecovery returns processing orders that already hold a provider
// job reference, oldest first, for the recovery sweep to re-query.
func (r *Repository) FindForRecovery(ctx context.Context, limit uint32) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, service_id, cost, status, fail_reason, external_job_ref, created_at, updated_at
        FROM orders
        WHERE status = 'processing' AND external_job_ref IS NOT NULL
        ORDER BY updated_at ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, int(limit))
	if err != nil {
		zap.L().Error("can't get orders for recovery", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.ServiceID, &order.Cost, &order.Status,
			&order.FailReason, &order.ExternalJobRef, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
