package orderservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/events"
	"github.com/quangtd/vidxu/internal/service/walletservice"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockCatalogRepo, *MockWallet, *MockSubmitter) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	catalog := NewMockCatalogRepo(ctrl)
	wallet := NewMockWallet(ctrl)
	submitter := NewMockSubmitter(ctrl)
	service := New(repo, catalog, wallet, submitter, events.NopPublisher{})
	defer ctrl.Finish()
	return service, repo, catalog, wallet, submitter
}

func TestCreate(t *testing.T) {
	service, repo, catalog, _, submitter := NewMock(t)

	tests := []struct {
		name          string
		slug          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Create opens a pending order at the catalog price",
			slug: "text-to-video",
			prepareMock: func() {
				catalog.EXPECT().FindBySlug(gomock.Any(), "text-to-video").
					Return(&domain.Service{ID: 1, Slug: "text-to-video", Cost: 40, IsActive: true}, nil)
				submitter.EXPECT().Supports("text-to-video").Return(true)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order *domain.Order) error {
						assert.Equal(t, StatusPending, order.Status)
						assert.Equal(t, int64(40), order.Cost)
						order.ID = 42
						return nil
					})
			},
			expectedError: nil,
		},
		{
			name: "Inactive service is rejected",
			slug: "text-to-video",
			prepareMock: func() {
				catalog.EXPECT().FindBySlug(gomock.Any(), "text-to-video").
					Return(&domain.Service{ID: 1, Slug: "text-to-video", Cost: 40, IsActive: false}, nil)
			},
			expectedError: ErrServiceUnavailable,
		},
		{
			name: "Unknown slug is rejected",
			slug: "hologram",
			prepareMock: func() {
				catalog.EXPECT().FindBySlug(gomock.Any(), "hologram").Return(nil, nil)
			},
			expectedError: ErrServiceUnavailable,
		},
		{
			name: "Service the provider cannot run is rejected",
			slug: "text-to-video",
			prepareMock: func() {
				catalog.EXPECT().FindBySlug(gomock.Any(), "text-to-video").
					Return(&domain.Service{ID: 1, Slug: "text-to-video", Cost: 40, IsActive: true}, nil)
				submitter.EXPECT().Supports("text-to-video").Return(false)
			},
			expectedError: ErrUnsupportedService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			order, err := service.Create(context.Background(), 1, tt.slug)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 42, order.ID)
			}
		})
	}
}

func TestAccept(t *testing.T) {
	inputs := map[string]string{"prompt": "a cat surfing"}
	pending := func() *domain.Order {
		return &domain.Order{ID: 42, UserID: 1, ServiceID: 1, Cost: 40, Status: StatusPending}
	}
	catalogItem := &domain.Service{ID: 1, Slug: "text-to-video", Cost: 40, IsActive: true}

	t.Run("Reservation then submission moves the order to processing", func(t *testing.T) {
		service, repo, catalog, wallet, submitter := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).Return(pending(), nil)
		catalog.EXPECT().FindByID(gomock.Any(), 1).Return(catalogItem, nil)
		submitter.EXPECT().Supports("text-to-video").Return(true)
		wallet.EXPECT().Reserve(gomock.Any(), 1, int64(40), 42).
			Return(&domain.LedgerEntry{ID: 7, Kind: "reserve", Amount: 40}, nil)
		submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), "text-to-video", inputs).Return("job-8f4c", nil)
		repo.EXPECT().SetJobRef(gomock.Any(), 42, StatusPending, StatusProcessing, "job-8f4c").Return(true, nil)
		jobRef := "job-8f4c"
		repo.EXPECT().FindByID(gomock.Any(), 42).
			Return(&domain.Order{ID: 42, UserID: 1, ServiceID: 1, Cost: 40, Status: StatusProcessing, ExternalJobRef: &jobRef}, nil)

		order, err := service.Accept(context.Background(), 42, inputs)
		assert.NoError(t, err)
		assert.Equal(t, StatusProcessing, order.Status)
		assert.Equal(t, "job-8f4c", *order.ExternalJobRef)
	})

	t.Run("Insufficient funds fails the order without a submission", func(t *testing.T) {
		service, repo, catalog, wallet, submitter := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).Return(pending(), nil)
		catalog.EXPECT().FindByID(gomock.Any(), 1).Return(catalogItem, nil)
		submitter.EXPECT().Supports("text-to-video").Return(true)
		wallet.EXPECT().Reserve(gomock.Any(), 1, int64(40), 42).
			Return(nil, walletservice.ErrInsufficientFunds)
		repo.EXPECT().UpdateStatus(gomock.Any(), 42, StatusPending, StatusFailed, gomock.Any()).Return(true, nil)

		_, err := service.Accept(context.Background(), 42, inputs)
		assert.ErrorIs(t, err, walletservice.ErrInsufficientFunds)
	})

	t.Run("Rejected submission releases the reservation and fails the order", func(t *testing.T) {
		service, repo, catalog, wallet, submitter := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).Return(pending(), nil).Times(2)
		catalog.EXPECT().FindByID(gomock.Any(), 1).Return(catalogItem, nil)
		submitter.EXPECT().Supports("text-to-video").Return(true)
		wallet.EXPECT().Reserve(gomock.Any(), 1, int64(40), 42).
			Return(&domain.LedgerEntry{ID: 7, Kind: "reserve", Amount: 40}, nil)
		submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), "text-to-video", inputs).
			Return("", errors.New("provider rejected the job: status 400"))
		wallet.EXPECT().Release(gomock.Any(), 42).Return(nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), 42, StatusPending, StatusFailed, gomock.Any()).Return(true, nil)

		_, err := service.Accept(context.Background(), 42, inputs)
		assert.Error(t, err)
	})

	t.Run("Order already past pending is not accepted twice", func(t *testing.T) {
		service, repo, _, _, _ := NewMock(t)

		order := pending()
		order.Status = StatusProcessing
		repo.EXPECT().FindByID(gomock.Any(), 42).Return(order, nil)

		_, err := service.Accept(context.Background(), 42, inputs)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestOnSubmitSuccess(t *testing.T) {
	t.Run("Lost race against a cancel releases the reservation", func(t *testing.T) {
		service, repo, _, wallet, _ := NewMock(t)

		repo.EXPECT().SetJobRef(gomock.Any(), 42, StatusPending, StatusProcessing, "job-8f4c").Return(false, nil)
		wallet.EXPECT().Release(gomock.Any(), 42).Return(nil)

		_, err := service.OnSubmitSuccess(context.Background(), 42, "job-8f4c")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestOnProviderResult(t *testing.T) {
	processing := func() *domain.Order {
		return &domain.Order{ID: 42, UserID: 1, ServiceID: 1, Cost: 40, Status: StatusProcessing}
	}

	t.Run("Success commits the reservation and completes the order", func(t *testing.T) {
		service, repo, _, wallet, _ := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).Return(processing(), nil)
		wallet.EXPECT().Commit(gomock.Any(), 42).Return(nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), 42, StatusProcessing, StatusCompleted, nil).Return(true, nil)

		err := service.OnProviderResult(context.Background(), 42, true, "")
		assert.NoError(t, err)
	})

	t.Run("Replayed success after a settled commit still completes", func(t *testing.T) {
		service, repo, _, wallet, _ := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).Return(processing(), nil)
		wallet.EXPECT().Commit(gomock.Any(), 42).Return(walletservice.ErrAlreadySettled)
		repo.EXPECT().UpdateStatus(gomock.Any(), 42, StatusProcessing, StatusCompleted, nil).Return(true, nil)

		err := service.OnProviderResult(context.Background(), 42, true, "")
		assert.NoError(t, err)
	})

	t.Run("Duplicate delivery after completion is flagged as handled", func(t *testing.T) {
		service, repo, _, wallet, _ := NewMock(t)

		order := processing()
		order.Status = StatusCompleted
		repo.EXPECT().FindByID(gomock.Any(), 42).Return(order, nil)
		wallet.EXPECT().Commit(gomock.Any(), 42).Return(walletservice.ErrAlreadySettled)
		repo.EXPECT().UpdateStatus(gomock.Any(), 42, StatusProcessing, StatusCompleted, nil).Return(false, nil)

		err := service.OnProviderResult(context.Background(), 42, true, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Failure releases the reservation and records the reason", func(t *testing.T) {
		service, repo, _, wallet, _ := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).Return(processing(), nil)
		wallet.EXPECT().Release(gomock.Any(), 42).Return(nil)
		reason := "nsfw content rejected"
		repo.EXPECT().UpdateStatus(gomock.Any(), 42, StatusProcessing, StatusFailed, &reason).Return(true, nil)

		err := service.OnProviderResult(context.Background(), 42, false, "nsfw content rejected")
		assert.NoError(t, err)
	})

	t.Run("Unknown order", func(t *testing.T) {
		service, repo, _, _, _ := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).Return(nil, nil)

		err := service.OnProviderResult(context.Background(), 42, true, "")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestCancel(t *testing.T) {
	t.Run("Pending order is cancelled", func(t *testing.T) {
		service, repo, _, _, _ := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).
			Return(&domain.Order{ID: 42, UserID: 1, Status: StatusPending}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), 42, StatusPending, StatusCancelled, nil).Return(true, nil)

		assert.NoError(t, service.Cancel(context.Background(), 1, 42))
	})

	t.Run("Processing order cannot be cancelled", func(t *testing.T) {
		service, repo, _, _, _ := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).
			Return(&domain.Order{ID: 42, UserID: 1, Status: StatusProcessing}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), 42, StatusPending, StatusCancelled, nil).Return(false, nil)

		assert.ErrorIs(t, service.Cancel(context.Background(), 1, 42), ErrInvalidTransition)
	})

	t.Run("Another user's order is invisible", func(t *testing.T) {
		service, repo, _, _, _ := NewMock(t)

		repo.EXPECT().FindByID(gomock.Any(), 42).
			Return(&domain.Order{ID: 42, UserID: 2, Status: StatusPending}, nil)

		assert.ErrorIs(t, service.Cancel(context.Background(), 1, 42), ErrOrderNotFound)
	})
}

func TestGetOrder(t *testing.T) {
	service, repo, _, _, _ := NewMock(t)

	t.Run("Owner reads the order", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), 42).
			Return(&domain.Order{ID: 42, UserID: 1, Status: StatusCompleted}, nil)

		order, err := service.GetOrder(context.Background(), 1, 42)
		assert.NoError(t, err)
		assert.Equal(t, 42, order.ID)
	})

	t.Run("Foreign order is not found", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), 42).
			Return(&domain.Order{ID: 42, UserID: 2, Status: StatusCompleted}, nil)

		_, err := service.GetOrder(context.Background(), 1, 42)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
