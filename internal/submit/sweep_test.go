package submit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/service/orderservice"
)

func newSweep(t *testing.T) (*Sweep, *MockOrderResolver, *MockJobQuerier) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := NewMockOrderResolver(ctrl)
	provider := NewMockJobQuerier(ctrl)
	sweep := NewSweep(orders, provider)
	return sweep, orders, provider
}

func TestSweep_Start(t *testing.T) {
	sweep, _, _ := newSweep(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweep.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestSweep_sweep(t *testing.T) {
	jobRef := "job-8f4c"
	processing := func(id int) domain.Order {
		return domain.Order{ID: id, UserID: 1, Status: "processing", ExternalJobRef: &jobRef}
	}

	tests := []struct {
		name        string
		prepareMock func(orders *MockOrderResolver, pool *MockWorkerPoolI)
	}{
		{
			name: "Backlog orders are dispatched to the pool",
			prepareMock: func(orders *MockOrderResolver, pool *MockWorkerPoolI) {
				orders.EXPECT().FindForRecovery(gomock.Any(), uint32(2)).
					Return([]domain.Order{processing(1), processing(2)}, nil)
				pool.EXPECT().AddTask(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
		},
		{
			name: "Fetch failure skips the tick",
			prepareMock: func(orders *MockOrderResolver, pool *MockWorkerPoolI) {
				orders.EXPECT().FindForRecovery(gomock.Any(), uint32(2)).
					Return(nil, errors.New("db error"))
			},
		},
		{
			name: "Full pool releases the in-flight marker",
			prepareMock: func(orders *MockOrderResolver, pool *MockWorkerPoolI) {
				orders.EXPECT().FindForRecovery(gomock.Any(), uint32(2)).
					Return([]domain.Order{processing(3)}, nil)
				pool.EXPECT().AddTask(gomock.Any(), gomock.Any()).
					Return(errors.New("failed to add task to worker pool"))
				// The next tick must be able to pick the order up again.
				orders.EXPECT().FindForRecovery(gomock.Any(), uint32(2)).
					Return([]domain.Order{processing(3)}, nil)
				pool.EXPECT().AddTask(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			orders := NewMockOrderResolver(ctrl)
			provider := NewMockJobQuerier(ctrl)
			pool := NewMockWorkerPoolI(ctrl)
			tt.prepareMock(orders, pool)

			sweep := &Sweep{
				orders:   orders,
				provider: provider,
				limit:    2,
				pool:     pool,
				interval: time.Second,
			}

			sweep.sweep(context.Background())
			if tt.name == "Full pool releases the in-flight marker" {
				sweep.sweep(context.Background())
			}
		})
	}
}

func TestSweep_handleOrder(t *testing.T) {
	jobRef := "job-8f4c"
	order := domain.Order{ID: 42, UserID: 1, Status: "processing", ExternalJobRef: &jobRef}

	tests := []struct {
		name        string
		prepareMock func(orders *MockOrderResolver, provider *MockJobQuerier)
		expectError bool
	}{
		{
			name: "Succeeded job settles the order",
			prepareMock: func(orders *MockOrderResolver, provider *MockJobQuerier) {
				provider.EXPECT().QueryJob(gomock.Any(), jobRef).
					Return(&JobStatus{Ref: jobRef, Status: "succeeded"}, nil)
				orders.EXPECT().OnProviderResult(gomock.Any(), 42, true, "").Return(nil)
			},
		},
		{
			name: "Failed job settles the order with the reason",
			prepareMock: func(orders *MockOrderResolver, provider *MockJobQuerier) {
				provider.EXPECT().QueryJob(gomock.Any(), jobRef).
					Return(&JobStatus{Ref: jobRef, Status: "failed", Error: "nsfw content rejected"}, nil)
				orders.EXPECT().OnProviderResult(gomock.Any(), 42, false, "nsfw content rejected").Return(nil)
			},
		},
		{
			name: "Running job waits for the next tick",
			prepareMock: func(orders *MockOrderResolver, provider *MockJobQuerier) {
				provider.EXPECT().QueryJob(gomock.Any(), jobRef).
					Return(&JobStatus{Ref: jobRef, Status: "running"}, nil)
			},
		},
		{
			name: "Order settled by a callback in the meantime",
			prepareMock: func(orders *MockOrderResolver, provider *MockJobQuerier) {
				provider.EXPECT().QueryJob(gomock.Any(), jobRef).
					Return(&JobStatus{Ref: jobRef, Status: "succeeded"}, nil)
				orders.EXPECT().OnProviderResult(gomock.Any(), 42, true, "").
					Return(orderservice.ErrInvalidTransition)
			},
		},
		{
			name: "Query failure is retried next tick",
			prepareMock: func(orders *MockOrderResolver, provider *MockJobQuerier) {
				provider.EXPECT().QueryJob(gomock.Any(), jobRef).
					Return(nil, errors.New("connection refused"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweep, orders, provider := newSweep(t)
			tt.prepareMock(orders, provider)

			err := sweep.handleOrder(context.Background(), order)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSweep_handleOrderWithoutJobRef(t *testing.T) {
	sweep, _, _ := newSweep(t)

	err := sweep.handleOrder(context.Background(), domain.Order{ID: 42, Status: "processing"})
	assert.NoError(t, err)
}
