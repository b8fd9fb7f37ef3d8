package orderservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/events"
	"github.com/quangtd/vidxu/internal/service/walletservice"
	"github.com/quangtd/vidxu/pkg/metrics"
)

// Order lifecycle. An order is pending until its reservation is held and
// the job is accepted by the provider, processing while the provider works,
// then terminal.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrServiceUnavailable = errors.New("service is not available")
	ErrUnsupportedService = errors.New("service is not supported by the provider")
	// ErrInvalidTransition: the order already left the expected status.
	// Callers treat it as already-handled, not as something to retry.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type Repo interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	FindOrdersByUserID(ctx context.Context, userID int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, from, to string, reason *string) (bool, error)
	SetJobRef(ctx context.Context, orderID int, from, to, jobRef string) (bool, error)
	FindForRecovery(ctx context.Context, limit uint32) ([]domain.Order, error)
}

type CatalogRepo interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Service, error)
	FindByID(ctx context.Context, id int) (*domain.Service, error)
}

type Wallet interface {
	Reserve(ctx context.Context, userID int, amount int64, orderID int) (*domain.LedgerEntry, error)
	Commit(ctx context.Context, orderID int) error
	Release(ctx context.Context, orderID int) error
}

type Submitter interface {
	Supports(slug string) bool
	Submit(ctx context.Context, order *domain.Order, slug string, inputs map[string]string) (string, error)
}

// Service owns order records and their legal transitions. Status changes go
// through conditional updates keyed by the expected current status, so a
// race between a provider callback and a user cancel resolves to exactly
// one winner.
type Service struct {
	repo      Repo
	catalog   CatalogRepo
	wallet    Wallet
	submitter Submitter
	publisher events.Publisher
}

func New(repo Repo, catalog CatalogRepo, wallet Wallet, submitter Submitter, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		wallet:    wallet,
		submitter: submitter,
		publisher: publisher,
	}
}

// Create validates the service and opens a pending order at the service's
// current price. No funds move yet.
func (s *Service) Create(ctx context.Context, userID int, slug string) (*domain.Order, error) {
	service, err := s.catalog.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if service == nil || !service.IsActive {
		return nil, ErrServiceUnavailable
	}
	if !s.submitter.Supports(slug) {
		return nil, ErrUnsupportedService
	}

	order := &domain.Order{
		UserID:    userID,
		ServiceID: service.ID,
		Cost:      service.Cost,
		Status:    StatusPending,
	}
	if err := s.repo.Save(ctx, order); err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

// Accept reserves the order's cost and submits the job. The reservation is
// recorded before the provider call starts, and no lock is held while the
// call is in flight. A submission failure releases the reservation.
func (s *Service) Accept(ctx context.Context, orderID int, inputs map[string]string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	service, err := s.catalog.FindByID(ctx, order.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil || !s.submitter.Supports(service.Slug) {
		return nil, ErrUnsupportedService
	}

	if _, err := s.wallet.Reserve(ctx, order.UserID, order.Cost, order.ID); err != nil {
		if errors.Is(err, walletservice.ErrInsufficientFunds) {
			s.markFailed(ctx, order, StatusPending, "insufficient funds")
		}
		return nil, err
	}

	jobRef, err := s.submitter.Submit(ctx, order, service.Slug, inputs)
	if err != nil {
		zap.L().Warn("job submission failed", zap.Int("orderID", order.ID), zap.Error(err))
		if ferr := s.OnSubmitFailure(ctx, order.ID, err.Error()); ferr != nil {
			zap.L().Error("can't resolve failed submission", zap.Int("orderID", order.ID), zap.Error(ferr))
		}
		return nil, err
	}

	return s.OnSubmitSuccess(ctx, order.ID, jobRef)
}

// OnSubmitSuccess records the provider job reference and moves the order to
// processing. If the order already left pending (a cancel won the race),
// the reservation is released so funds are never stranded.
func (s *Service) OnSubmitSuccess(ctx context.Context, orderID int, jobRef string) (*domain.Order, error) {
	ok, err := s.repo.SetJobRef(ctx, orderID, StatusPending, StatusProcessing, jobRef)
	if err != nil {
		return nil, err
	}
	if !ok {
		if rerr := s.releaseQuiet(ctx, orderID); rerr != nil {
			return nil, rerr
		}
		return nil, ErrInvalidTransition
	}
	return s.repo.FindByID(ctx, orderID)
}

// OnSubmitFailure releases the reservation and marks the order failed.
func (s *Service) OnSubmitFailure(ctx context.Context, orderID int, reason string) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.releaseQuiet(ctx, orderID); err != nil {
		return err
	}
	if !s.markFailed(ctx, order, StatusPending, reason) {
		return ErrInvalidTransition
	}
	return nil
}

// OnProviderResult settles a processing order from the provider's terminal
// outcome. Both the wallet settlement and the status change are idempotent,
// so at-least-once delivery and the recovery sweep can both call it safely.
func (s *Service) OnProviderResult(ctx context.Context, orderID int, success bool, reason string) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	if success {
		if err := s.wallet.Commit(ctx, orderID); err != nil &&
			!errors.Is(err, walletservice.ErrAlreadySettled) {
			return err
		}
		ok, err := s.repo.UpdateStatus(ctx, orderID, StatusProcessing, StatusCompleted, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		metrics.OrdersSettled.WithLabelValues(StatusCompleted).Inc()
		s.publisher.Publish(ctx, events.Event{
			UserID:  order.UserID,
			Kind:    events.KindOrderCompleted,
			Payload: map[string]any{"order_id": order.ID, "cost": order.Cost},
		})
		zap.L().Info("order completed", zap.Int("orderID", orderID))
		return nil
	}

	if err := s.releaseQuiet(ctx, orderID); err != nil {
		return err
	}
	if reason == "" {
		reason = "provider reported failure"
	}
	if !s.markFailed(ctx, order, StatusProcessing, reason) {
		return ErrInvalidTransition
	}
	return nil
}

// Cancel is only legal while the order is still pending.
func (s *Service) Cancel(ctx context.Context, userID, orderID int) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil || order.UserID != userID {
		return ErrOrderNotFound
	}

	ok, err := s.repo.UpdateStatus(ctx, orderID, StatusPending, StatusCancelled, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	metrics.OrdersSettled.WithLabelValues(StatusCancelled).Inc()
	s.publisher.Publish(ctx, events.Event{
		UserID:  order.UserID,
		Kind:    events.KindOrderCancelled,
		Payload: map[string]any{"order_id": order.ID},
	})
	return nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID int) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) GetOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	orders, err := s.repo.FindOrdersByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// FindForRecovery feeds the recovery sweep with processing orders whose
// provider outcome is still unknown.
func (s *Service) FindForRecovery(ctx context.Context, limit uint32) ([]domain.Order, error) {
	return s.repo.FindForRecovery(ctx, limit)
}

// releaseQuiet releases the order's reservation, treating idempotency
// signals and a missing reservation as success.
func (s *Service) releaseQuiet(ctx context.Context, orderID int) error {
	err := s.wallet.Release(ctx, orderID)
	if err != nil &&
		!errors.Is(err, walletservice.ErrAlreadySettled) &&
		!errors.Is(err, walletservice.ErrNoReservation) {
		return err
	}
	return nil
}

func (s *Service) markFailed(ctx context.Context, order *domain.Order, from, reason string) bool {
	ok, err := s.repo.UpdateStatus(ctx, order.ID, from, StatusFailed, &reason)
	if err != nil || !ok {
		if err != nil {
			zap.L().Error("can't mark order failed", zap.Int("orderID", order.ID), zap.Error(err))
		}
		return false
	}
	metrics.OrdersSettled.WithLabelValues(StatusFailed).Inc()
	s.publisher.Publish(ctx, events.Event{
		UserID:  order.UserID,
		Kind:    events.KindOrderFailed,
		Payload: map[string]any{"order_id": order.ID, "reason": reason},
	})
	zap.L().Info("order failed", zap.Int("orderID", order.ID), zap.String("reason", reason))
	return true
}
