package submit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/service/orderservice"
)

var inFlightOrders sync.Map

// OrderResolver is the slice of the order state machine the sweep needs:
// the processing backlog and the idempotent settlement entry point.
type OrderResolver interface {
	FindForRecovery(ctx context.Context, limit uint32) ([]domain.Order, error)
	OnProviderResult(ctx context.Context, orderID int, success bool, reason string) error
}

type JobQuerier interface {
	QueryJob(ctx context.Context, jobRef string) (*JobStatus, error)
}

// Sweep periodically re-queries the provider for every processing order
// with a stored job reference. Because OnProviderResult is idempotent, the
// sweep is safe to run alongside provider callbacks and across restarts:
// an order left processing by a crash is resolved on the next tick, never
// left permanently frozen.
type Sweep struct {
	orders   OrderResolver
	provider JobQuerier
	limit    uint32
	pool     WorkerPoolI
	interval time.Duration
}

func NewSweep(orders OrderResolver, provider JobQuerier) *Sweep {
	return &Sweep{
		orders:   orders,
		provider: provider,
		limit:    1000,
		pool:     NewWorkerPool(10),
		interval: time.Second * 5,
	}
}

func (s *Sweep) Start(ctx context.Context) {
	zap.L().Info("Recovery sweep started")
	go s.run(ctx)
}

func (s *Sweep) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping recovery sweep")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweep) sweep(ctx context.Context) {
	orders, err := s.orders.FindForRecovery(ctx, atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch orders for recovery", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, order := range orders {
		order := order

		if _, loaded := inFlightOrders.LoadOrStore(order.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.pool.AddTask(ctx, func() error {
				defer inFlightOrders.Delete(order.ID)
				return s.handleOrder(ctx, order)
			})
			if err != nil {
				inFlightOrders.Delete(order.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error recovering orders", zap.Error(err))
	}
}

func (s *Sweep) handleOrder(ctx context.Context, order domain.Order) error {
	if order.ExternalJobRef == nil {
		return nil
	}

	status, err := s.provider.QueryJob(ctx, *order.ExternalJobRef)
	if err != nil {
		return fmt.Errorf("failed to query job for order %d: %w", order.ID, err)
	}

	switch {
	case status.Succeeded():
		err = s.orders.OnProviderResult(ctx, order.ID, true, "")
	case status.Failed():
		err = s.orders.OnProviderResult(ctx, order.ID, false, status.Error)
	default:
		// Still queued or running, check again next tick.
		return nil
	}

	if errors.Is(err, orderservice.ErrInvalidTransition) {
		// A callback settled the order first.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to settle order %d: %w", order.ID, err)
	}
	return nil
}
