package paymentservice

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quangtd/vidxu/internal/config"
	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/events"
	paymentrepo "github.com/quangtd/vidxu/internal/repo/payment-repo"
	"github.com/quangtd/vidxu/internal/service/walletservice"
	"github.com/quangtd/vidxu/pkg/metrics"
	"github.com/quangtd/vidxu/pkg/validate"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

const (
	orderCodeLength = 12
	maxCodeRetries  = 2
)

var (
	ErrBelowMinimum = errors.New("amount is below the minimum top-up")
	// ErrUnknownRequest: the gateway reported a code we never issued.
	ErrUnknownRequest = errors.New("unknown payment request")
	// ErrAmountMismatch: the paid amount differs from the requested one.
	// The request stays pending for manual review; funds are never
	// silently dropped.
	ErrAmountMismatch = errors.New("paid amount does not match requested amount")
)

type Repo interface {
	Save(ctx context.Context, request *domain.PaymentRequest) error
	FindByOrderCode(ctx context.Context, orderCode string) (*domain.PaymentRequest, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.PaymentRequest, error)
	UpdateStatus(ctx context.Context, id int, from, to string) (bool, error)
}

type Wallet interface {
	Credit(ctx context.Context, userID int, amount int64, paymentID string) error
}

type Gateway interface {
	CreateCheckout(ctx context.Context, orderCode string, amount decimal.Decimal, description string) (string, error)
}

// Service reconciles prepaid top-ups with the payment gateway. Confirmation
// is idempotent per gateway order code: however many times the gateway
// retries its webhook, the wallet is credited exactly once.
type Service struct {
	repo      Repo
	wallet    Wallet
	gateway   Gateway
	publisher events.Publisher
	rate      decimal.Decimal
	minTopUp  int64
}

func New(cfg *config.Config, repo Repo, wallet Wallet, gateway Gateway, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		wallet:    wallet,
		gateway:   gateway,
		publisher: publisher,
		rate:      decimal.NewFromInt(cfg.XuRate),
		minTopUp:  cfg.MinTopUpXu,
	}
}

// CreateRequest opens a top-up: it persists a pending request under a fresh
// gateway order code, then opens the checkout session. If the gateway call
// fails the request is cancelled in the same operation, so no tracking
// record survives without a session and no session without a record.
func (s *Service) CreateRequest(ctx context.Context, userID int, xuAmount int64) (*domain.PaymentRequest, string, error) {
	if xuAmount < s.minTopUp {
		return nil, "", ErrBelowMinimum
	}

	request := &domain.PaymentRequest{
		UserID:     userID,
		XuAmount:   xuAmount,
		FiatAmount: decimal.NewFromInt(xuAmount).Mul(s.rate),
		Status:     StatusPending,
	}
	// The order code is random, so a collision regenerates it instead of
	// surfacing the unique violation.
	for attempt := 0; ; attempt++ {
		request.GatewayOrderCode = validate.GenerateCode(orderCodeLength)
		err := s.repo.Save(ctx, request)
		if err == nil {
			break
		}
		if errors.Is(err, paymentrepo.ErrCodeExists) && attempt < maxCodeRetries {
			zap.L().Warn("order code collision, regenerating", zap.String("orderCode", request.GatewayOrderCode))
			continue
		}
		zap.L().Error("can't save payment request", zap.Error(err))
		return nil, "", err
	}

	description := strconv.FormatInt(xuAmount, 10) + " Xu top-up"
	checkoutURL, err := s.gateway.CreateCheckout(ctx, request.GatewayOrderCode, request.FiatAmount, description)
	if err != nil {
		if _, cerr := s.repo.UpdateStatus(ctx, request.ID, StatusPending, StatusCancelled); cerr != nil {
			zap.L().Error("can't cancel payment request after checkout failure",
				zap.String("orderCode", request.GatewayOrderCode), zap.Error(cerr))
		}
		return nil, "", err
	}

	zap.L().Info("payment request created",
		zap.Int("userID", userID),
		zap.Int64("xuAmount", xuAmount),
		zap.String("orderCode", request.GatewayOrderCode),
	)
	return request, checkoutURL, nil
}

// Confirm settles a gateway confirmation. Duplicate deliveries return
// success without side effects; an amount mismatch leaves the request
// pending for manual review. A late confirmation for a cancelled or
// expired request still settles: the money arrived, so the credit applies
// and the record follows it to paid.
func (s *Service) Confirm(ctx context.Context, orderCode string, paidFiat decimal.Decimal) error {
	request, err := s.repo.FindByOrderCode(ctx, orderCode)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrUnknownRequest
	}
	if request.Status == StatusPaid {
		return nil
	}

	if !paidFiat.Equal(request.FiatAmount) {
		zap.L().Warn("payment amount mismatch, left pending for manual review",
			zap.String("orderCode", orderCode),
			zap.String("expected", request.FiatAmount.String()),
			zap.String("paid", paidFiat.String()),
		)
		return ErrAmountMismatch
	}

	paymentID := strconv.Itoa(request.ID)
	err = s.wallet.Credit(ctx, request.UserID, request.XuAmount, paymentID)
	if err != nil && !errors.Is(err, walletservice.ErrDuplicateCredit) {
		return err
	}

	ok, err := s.repo.UpdateStatus(ctx, request.ID, request.Status, StatusPaid)
	if err != nil {
		return err
	}
	if !ok {
		current, err := s.repo.FindByOrderCode(ctx, orderCode)
		if err != nil {
			return err
		}
		if current != nil && current.Status == StatusPaid {
			// A concurrent confirmation won; the credit above was
			// deduplicated by the ledger, so this delivery is already
			// handled.
			return nil
		}
		// The status moved under us (e.g. an expiry raced the webhook).
		// The credit is recorded either way, so refuse the ack and let
		// the gateway redeliver against the fresh status.
		return errors.New("payment request status changed during confirmation")
	}

	metrics.PaymentsConfirmed.Inc()
	metrics.XuCredited.Add(float64(request.XuAmount))
	s.publisher.Publish(ctx, events.Event{
		UserID:  request.UserID,
		Kind:    events.KindPaymentPaid,
		Payload: map[string]any{"payment_id": request.ID, "xu_amount": request.XuAmount},
	})
	zap.L().Info("payment confirmed", zap.String("orderCode", orderCode), zap.Int64("xuAmount", request.XuAmount))
	return nil
}

// Expire marks a stale pending request expired, for the gateway's cancel
// notification. Already-settled requests are left untouched.
func (s *Service) Expire(ctx context.Context, orderCode string) error {
	request, err := s.repo.FindByOrderCode(ctx, orderCode)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrUnknownRequest
	}
	if _, err := s.repo.UpdateStatus(ctx, request.ID, StatusPending, StatusExpired); err != nil {
		return err
	}
	return nil
}

func (s *Service) GetRequests(ctx context.Context, userID int) ([]domain.PaymentRequest, error) {
	requests, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("can't fetch payment requests", zap.Error(err))
		return nil, err
	}
	return requests, nil
}
