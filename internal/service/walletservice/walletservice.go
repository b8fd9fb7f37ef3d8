package walletservice

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	accountrepo "github.com/quangtd/vidxu/internal/repo/account-repo"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/pg"
)

// Ledger entry kinds.
const (
	KindReserve = "reserve"
	KindRelease = "release"
	KindCommit  = "commit"
	KindCredit  = "credit"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	// ErrNoReservation: settle was asked for an order that never reserved.
	ErrNoReservation = errors.New("no reservation for order")
	// ErrAlreadySettled and ErrDuplicateCredit are idempotency signals, not
	// failures: the requested effect is already in the ledger.
	ErrAlreadySettled  = errors.New("reservation already settled")
	ErrDuplicateCredit = errors.New("payment already credited")
	// ErrLedgerMismatch: the materialized pair diverged from the entry log.
	ErrLedgerMismatch = errors.New("account state does not match ledger replay")
)

type LedgerRepo interface {
	GetAccountByUserID(ctx context.Context, userID int) (*domain.Account, error)
	GetAccountForUpdate(ctx context.Context, userID int) (*domain.Account, error)
	LockAccountByID(ctx context.Context, accountID int) (*domain.Account, error)
	CreateAccount(ctx context.Context, userID int) (*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	AppendEntry(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error)
	FindReserveByOrderID(ctx context.Context, orderID int) (*domain.LedgerEntry, error)
	FindSettlementByOrderID(ctx context.Context, orderID int) (*domain.LedgerEntry, error)
	FindCreditByPaymentID(ctx context.Context, paymentID string) (*domain.LedgerEntry, error)
	ListEntriesByAccountID(ctx context.Context, accountID int) ([]domain.LedgerEntry, error)
	ReplayAccount(ctx context.Context, accountID int) (balance int64, frozen int64, err error)
}

// Service implements two-phase Xu settlement: Reserve holds funds the moment
// an order is accepted, Commit turns the hold into a permanent debit once
// the job is confirmed, Release reverses the hold. Every operation is a
// single transaction holding the account row lock.
type Service struct {
	ledgerRepo LedgerRepo
	txManager  pg.TXManager
}

func New(ledgerRepo LedgerRepo, txManager pg.TXManager) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
	}
}

func (s *Service) CreateAccount(ctx context.Context, userID int) (*domain.Account, error) {
	account, err := s.ledgerRepo.CreateAccount(ctx, userID)
	if err != nil {
		zap.L().Error("can't create account", zap.Error(err))
		return nil, err
	}
	return account, nil
}

func (s *Service) GetBalance(ctx context.Context, userID int) (*domain.Account, error) {
	account, err := s.ledgerRepo.GetAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *Service) GetLedger(ctx context.Context, userID int) ([]domain.LedgerEntry, error) {
	account, err := s.ledgerRepo.GetAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return s.ledgerRepo.ListEntriesByAccountID(ctx, account.ID)
}

// Reserve freezes amount against orderID. Idempotent per order: a repeated
// call finds the unresolved reserve entry and returns it unchanged.
func (s *Service) Reserve(ctx context.Context, userID int, amount int64, orderID int) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var reserved *domain.LedgerEntry
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.ledgerRepo.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		existing, err := s.ledgerRepo.FindReserveByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			reserved = existing
			return nil
		}

		if account.Available() < amount {
			return ErrInsufficientFunds
		}

		entry := &domain.LedgerEntry{
			AccountID: account.ID,
			Kind:      KindReserve,
			Amount:    amount,
			OrderID:   &orderID,
		}
		if _, err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
			return err
		}

		account.Frozen += amount
		if err := s.ledgerRepo.UpdateAccount(ctx, account); err != nil {
			return err
		}
		reserved = entry
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) {
			zap.L().Error("can't reserve funds", zap.Int("orderID", orderID), zap.Error(err))
		}
		return nil, err
	}
	return reserved, nil
}

// Commit resolves the order's reservation into a permanent debit.
func (s *Service) Commit(ctx context.Context, orderID int) error {
	return s.settle(ctx, orderID, KindCommit)
}

// Release reverses the order's reservation without touching the balance.
func (s *Service) Release(ctx context.Context, orderID int) error {
	return s.settle(ctx, orderID, KindRelease)
}

func (s *Service) settle(ctx context.Context, orderID int, kind string) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		reserve, err := s.ledgerRepo.FindReserveByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if reserve == nil {
			return ErrNoReservation
		}

		account, err := s.ledgerRepo.LockAccountByID(ctx, reserve.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		// Re-check under the lock: a concurrent settle may have won.
		settled, err := s.ledgerRepo.FindSettlementByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if settled != nil {
			return ErrAlreadySettled
		}

		entry := &domain.LedgerEntry{
			AccountID: account.ID,
			Kind:      kind,
			Amount:    reserve.Amount,
			OrderID:   &orderID,
		}
		if _, err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
			if errors.Is(err, accountrepo.ErrEntryExists) {
				return ErrAlreadySettled
			}
			return err
		}

		account.Frozen -= reserve.Amount
		if kind == KindCommit {
			account.Balance -= reserve.Amount
		}
		return s.ledgerRepo.UpdateAccount(ctx, account)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadySettled) || errors.Is(err, ErrNoReservation) {
			return err
		}
		zap.L().Error("can't settle reservation", zap.Int("orderID", orderID), zap.String("kind", kind), zap.Error(err))
		return fmt.Errorf("settle order %d: %w", orderID, err)
	}
	return nil
}

// Credit adds purchased Xu to the balance. Idempotent per paymentID, backed
// by the unique credit index.
func (s *Service) Credit(ctx context.Context, userID int, amount int64, paymentID string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.ledgerRepo.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		entry := &domain.LedgerEntry{
			AccountID: account.ID,
			Kind:      KindCredit,
			Amount:    amount,
			PaymentID: &paymentID,
		}
		if _, err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
			if errors.Is(err, accountrepo.ErrEntryExists) {
				return ErrDuplicateCredit
			}
			return err
		}

		account.Balance += amount
		return s.ledgerRepo.UpdateAccount(ctx, account)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateCredit) {
			return err
		}
		zap.L().Error("can't credit account", zap.String("paymentID", paymentID), zap.Error(err))
		return err
	}
	zap.L().Info("account credited", zap.Int("userID", userID), zap.Int64("amount", amount), zap.String("paymentID", paymentID))
	return nil
}

// VerifyAccount replays the ledger and compares it against the materialized
// pair, for reconciliation tooling and tests.
func (s *Service) VerifyAccount(ctx context.Context, userID int) error {
	account, err := s.ledgerRepo.GetAccountByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	balance, frozen, err := s.ledgerRepo.ReplayAccount(ctx, account.ID)
	if err != nil {
		return err
	}
	if balance != account.Balance || frozen != account.Frozen {
		zap.L().Error("ledger replay mismatch",
			zap.Int("userID", userID),
			zap.Int64("balance", account.Balance), zap.Int64("replayedBalance", balance),
			zap.Int64("frozen", account.Frozen), zap.Int64("replayedFrozen", frozen),
		)
		return ErrLedgerMismatch
	}
	return nil
}
