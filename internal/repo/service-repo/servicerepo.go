package servicerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	query := `
        SELECT id, slug, name, cost, is_active
        FROM services
        WHERE slug = $1
    `
	return r.scanService(r.db.QueryRow(ctx, query, slug))
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Service, error) {
	query := `
        SELECT id, slug, name, cost, is_active
        FROM services
        WHERE id = $1
    `
	return r.scanService(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) scanService(row pgx.Row) (*domain.Service, error) {
	var service domain.Service
	err := row.Scan(&service.ID, &service.Slug, &service.Name, &service.Cost, &service.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get service", zap.Error(err))
		return nil, err
	}
	return &service, nil
}
