package walletservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/pg"
	accountrepo "github.com/quangtd/vidxu/internal/repo/account-repo"
)

func NewMock(t *testing.T) (*Service, *MockLedgerRepo) {
	ctrl := gomock.NewController(t)
	ledgerRepo := NewMockLedgerRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
	service := New(ledgerRepo, txManager)
	defer ctrl.Finish()
	return service, ledgerRepo
}

func TestReserve(t *testing.T) {
	service, ledgerRepo := NewMock(t)
	orderID := 42

	tests := []struct {
		name          string
		amount        int64
		prepareMock   func()
		expectedEntry *domain.LedgerEntry
		expectedError error
	}{
		{
			name:   "Successful reservation freezes funds",
			amount: 40,
			prepareMock: func() {
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), 1).
					Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 0}, nil)
				ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).Return(nil, nil)
				ledgerRepo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
						assert.Equal(t, KindReserve, entry.Kind)
						assert.Equal(t, int64(40), entry.Amount)
						return entry, nil
					})
				ledgerRepo.EXPECT().UpdateAccount(gomock.Any(),
					&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 40}).Return(nil)
			},
			expectedEntry: &domain.LedgerEntry{AccountID: 1, Kind: KindReserve, Amount: 40, OrderID: &orderID},
			expectedError: nil,
		},
		{
			name:   "Repeated reservation returns the existing entry",
			amount: 40,
			prepareMock: func() {
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), 1).
					Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 40}, nil)
				ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).
					Return(&domain.LedgerEntry{ID: 7, AccountID: 1, Kind: KindReserve, Amount: 40, OrderID: &orderID}, nil)
			},
			expectedEntry: &domain.LedgerEntry{ID: 7, AccountID: 1, Kind: KindReserve, Amount: 40, OrderID: &orderID},
			expectedError: nil,
		},
		{
			name:   "Reservation beyond available funds is rejected",
			amount: 70,
			prepareMock: func() {
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), 1).
					Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 40}, nil)
				ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).Return(nil, nil)
			},
			expectedEntry: nil,
			expectedError: ErrInsufficientFunds,
		},
		{
			name:          "Non-positive amount is rejected",
			amount:        0,
			prepareMock:   nil,
			expectedEntry: nil,
			expectedError: ErrInvalidAmount,
		},
		{
			name:   "Missing account",
			amount: 40,
			prepareMock: func() {
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), 1).Return(nil, nil)
			},
			expectedEntry: nil,
			expectedError: ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			entry, err := service.Reserve(context.Background(), 1, tt.amount, orderID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, entry)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedEntry, entry)
			}
		})
	}
}

func TestCommit(t *testing.T) {
	service, ledgerRepo := NewMock(t)
	orderID := 42
	reserve := &domain.LedgerEntry{ID: 7, AccountID: 1, Kind: KindReserve, Amount: 40, OrderID: &orderID}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Commit debits balance and thaws frozen funds",
			prepareMock: func() {
				ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).Return(reserve, nil)
				ledgerRepo.EXPECT().LockAccountByID(gomock.Any(), 1).
					Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 40}, nil)
				ledgerRepo.EXPECT().FindSettlementByOrderID(gomock.Any(), orderID).Return(nil, nil)
				ledgerRepo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
						assert.Equal(t, KindCommit, entry.Kind)
						return entry, nil
					})
				ledgerRepo.EXPECT().UpdateAccount(gomock.Any(),
					&domain.Account{ID: 1, UserID: 1, Balance: 60, Frozen: 0}).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "Second commit is a no-op",
			prepareMock: func() {
				ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).Return(reserve, nil)
				ledgerRepo.EXPECT().LockAccountByID(gomock.Any(), 1).
					Return(&domain.Account{ID: 1, UserID: 1, Balance: 60, Frozen: 0}, nil)
				ledgerRepo.EXPECT().FindSettlementByOrderID(gomock.Any(), orderID).
					Return(&domain.LedgerEntry{ID: 8, AccountID: 1, Kind: KindCommit, Amount: 40, OrderID: &orderID}, nil)
			},
			expectedError: ErrAlreadySettled,
		},
		{
			name: "Commit without a reservation",
			prepareMock: func() {
				ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).Return(nil, nil)
			},
			expectedError: ErrNoReservation,
		},
		{
			name: "Concurrent settle loses on the unique index",
			prepareMock: func() {
				ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).Return(reserve, nil)
				ledgerRepo.EXPECT().LockAccountByID(gomock.Any(), 1).
					Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 40}, nil)
				ledgerRepo.EXPECT().FindSettlementByOrderID(gomock.Any(), orderID).Return(nil, nil)
				ledgerRepo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).Return(nil, accountrepo.ErrEntryExists)
			},
			expectedError: ErrAlreadySettled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			err := service.Commit(context.Background(), orderID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRelease(t *testing.T) {
	service, ledgerRepo := NewMock(t)
	orderID := 42
	reserve := &domain.LedgerEntry{ID: 7, AccountID: 1, Kind: KindReserve, Amount: 30, OrderID: &orderID}

	t.Run("Release thaws funds without touching balance", func(t *testing.T) {
		ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).Return(reserve, nil)
		ledgerRepo.EXPECT().LockAccountByID(gomock.Any(), 1).
			Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 30}, nil)
		ledgerRepo.EXPECT().FindSettlementByOrderID(gomock.Any(), orderID).Return(nil, nil)
		ledgerRepo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
				assert.Equal(t, KindRelease, entry.Kind)
				return entry, nil
			})
		ledgerRepo.EXPECT().UpdateAccount(gomock.Any(),
			&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 0}).Return(nil)

		err := service.Release(context.Background(), orderID)
		assert.NoError(t, err)
	})

	t.Run("Release after commit is a no-op", func(t *testing.T) {
		ledgerRepo.EXPECT().FindReserveByOrderID(gomock.Any(), orderID).Return(reserve, nil)
		ledgerRepo.EXPECT().LockAccountByID(gomock.Any(), 1).
			Return(&domain.Account{ID: 1, UserID: 1, Balance: 70, Frozen: 0}, nil)
		ledgerRepo.EXPECT().FindSettlementByOrderID(gomock.Any(), orderID).
			Return(&domain.LedgerEntry{ID: 8, AccountID: 1, Kind: KindCommit, Amount: 30, OrderID: &orderID}, nil)

		err := service.Release(context.Background(), orderID)
		assert.ErrorIs(t, err, ErrAlreadySettled)
	})
}

func TestCredit(t *testing.T) {
	service, ledgerRepo := NewMock(t)
	paymentID := "1021"

	tests := []struct {
		name          string
		amount        int64
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Credit raises the balance",
			amount: 50,
			prepareMock: func() {
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), 1).
					Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 40}, nil)
				ledgerRepo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
						assert.Equal(t, KindCredit, entry.Kind)
						assert.Equal(t, &paymentID, entry.PaymentID)
						return entry, nil
					})
				ledgerRepo.EXPECT().UpdateAccount(gomock.Any(),
					&domain.Account{ID: 1, UserID: 1, Balance: 150, Frozen: 40}).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:   "Replayed payment id credits nothing",
			amount: 50,
			prepareMock: func() {
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), 1).
					Return(&domain.Account{ID: 1, UserID: 1, Balance: 150, Frozen: 40}, nil)
				ledgerRepo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).Return(nil, accountrepo.ErrEntryExists)
			},
			expectedError: ErrDuplicateCredit,
		},
		{
			name:          "Non-positive amount is rejected",
			amount:        -5,
			prepareMock:   nil,
			expectedError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			err := service.Credit(context.Background(), 1, tt.amount, paymentID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyAccount(t *testing.T) {
	service, ledgerRepo := NewMock(t)

	t.Run("Materialized pair matches the replay", func(t *testing.T) {
		ledgerRepo.EXPECT().GetAccountByUserID(gomock.Any(), 1).
			Return(&domain.Account{ID: 1, UserID: 1, Balance: 60, Frozen: 0}, nil)
		ledgerRepo.EXPECT().ReplayAccount(gomock.Any(), 1).Return(int64(60), int64(0), nil)

		assert.NoError(t, service.VerifyAccount(context.Background(), 1))
	})

	t.Run("Divergence is reported", func(t *testing.T) {
		ledgerRepo.EXPECT().GetAccountByUserID(gomock.Any(), 1).
			Return(&domain.Account{ID: 1, UserID: 1, Balance: 60, Frozen: 0}, nil)
		ledgerRepo.EXPECT().ReplayAccount(gomock.Any(), 1).Return(int64(100), int64(40), nil)

		assert.ErrorIs(t, service.VerifyAccount(context.Background(), 1), ErrLedgerMismatch)
	})
}

func TestGetBalance(t *testing.T) {
	service, ledgerRepo := NewMock(t)

	t.Run("Retrieve account successfully", func(t *testing.T) {
		ledgerRepo.EXPECT().GetAccountByUserID(gomock.Any(), 1).
			Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 40}, nil)

		account, err := service.GetBalance(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(60), account.Available())
	})

	t.Run("Missing account", func(t *testing.T) {
		ledgerRepo.EXPECT().GetAccountByUserID(gomock.Any(), 1).Return(nil, nil)

		_, err := service.GetBalance(context.Background(), 1)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("Repo error", func(t *testing.T) {
		ledgerRepo.EXPECT().GetAccountByUserID(gomock.Any(), 1).Return(nil, errors.New("db error"))

		_, err := service.GetBalance(context.Background(), 1)
		assert.Error(t, err)
	})
}

func TestGetLedger(t *testing.T) {
	service, ledgerRepo := NewMock(t)

	t.Run("Entries are returned newest first", func(t *testing.T) {
		ledgerRepo.EXPECT().GetAccountByUserID(gomock.Any(), 1).
			Return(&domain.Account{ID: 1, UserID: 1, Balance: 100, Frozen: 0}, nil)
		ledgerRepo.EXPECT().ListEntriesByAccountID(gomock.Any(), 1).
			Return([]domain.LedgerEntry{{ID: 1, Kind: KindCredit, Amount: 100}}, nil)

		entries, err := service.GetLedger(context.Background(), 1)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
