package callbacks

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	orderservice "github.com/quangtd/vidxu/internal/service/orderservice"
	paymentservice "github.com/quangtd/vidxu/internal/service/paymentservice"
	"github.com/quangtd/vidxu/pkg/utils"
)

func NewMock(t *testing.T) (*CallbackHandler, *MockOrders, *MockPayments) {
	ctrl := gomock.NewController(t)
	orders := NewMockOrders(ctrl)
	payments := NewMockPayments(ctrl)
	handler := New(orders, payments)
	defer ctrl.Finish()
	return handler, orders, payments
}

func TestProviderResultHandler(t *testing.T) {
	handler, orders, _ := NewMock(t)

	tests := []struct {
		name            string
		body            string
		prepareMock     func()
		expectedCode    int
		expectedMessage string
	}{
		{
			name: "Succeeded job settles the order",
			body: `{"job_id":"job-abc","order_id":42,"status":"succeeded"}`,
			prepareMock: func() {
				orders.EXPECT().
					OnProviderResult(gomock.Any(), 42, true, "").
					Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Result accepted",
		},
		{
			name: "Failed job carries the reason",
			body: `{"job_id":"job-abc","order_id":42,"status":"failed","error":"nsfw content rejected"}`,
			prepareMock: func() {
				orders.EXPECT().
					OnProviderResult(gomock.Any(), 42, false, "nsfw content rejected").
					Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Result accepted",
		},
		{
			name: "Duplicate delivery is acknowledged",
			body: `{"job_id":"job-abc","order_id":42,"status":"succeeded"}`,
			prepareMock: func() {
				orders.EXPECT().
					OnProviderResult(gomock.Any(), 42, true, "").
					Return(orderservice.ErrInvalidTransition)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Already settled",
		},
		{
			name: "Order not found",
			body: `{"job_id":"job-abc","order_id":99,"status":"succeeded"}`,
			prepareMock: func() {
				orders.EXPECT().
					OnProviderResult(gomock.Any(), 99, true, "").
					Return(orderservice.ErrOrderNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Settlement failure",
			body: `{"job_id":"job-abc","order_id":42,"status":"succeeded"}`,
			prepareMock: func() {
				orders.EXPECT().
					OnProviderResult(gomock.Any(), 42, true, "").
					Return(errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:            "Unknown job status",
			body:            `{"job_id":"job-abc","order_id":42,"status":"paused"}`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Unknown job status",
		},
		{
			name:            "Missing order id",
			body:            `{"job_id":"job-abc","status":"succeeded"}`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Order id is required",
		},
		{
			name:            "Invalid request body",
			body:            `{invalid json`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/callbacks/provider", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()

			handler.ProviderResult(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedMessage != "" {
				var resp utils.Response
				_ = json.NewDecoder(w.Body).Decode(&resp)
				assert.Equal(t, tt.expectedMessage, resp.Message)
			}
		})
	}
}

func TestGatewayWebhookHandler(t *testing.T) {
	handler, _, payments := NewMock(t)
	paid := decimal.RequireFromString("12500.00")

	tests := []struct {
		name            string
		body            string
		prepareMock     func()
		expectedCode    int
		expectedMessage string
	}{
		{
			name: "Paid notification credits the wallet",
			body: `{"order_code":"79927398713","amount":"12500.00","status":"paid"}`,
			prepareMock: func() {
				payments.EXPECT().
					Confirm(gomock.Any(), "79927398713", paid).
					Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Notification accepted",
		},
		{
			name: "Expired notification releases the request",
			body: `{"order_code":"79927398713","status":"expired"}`,
			prepareMock: func() {
				payments.EXPECT().
					Expire(gomock.Any(), "79927398713").
					Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Notification accepted",
		},
		{
			name: "Cancelled notification releases the request",
			body: `{"order_code":"79927398713","status":"cancelled"}`,
			prepareMock: func() {
				payments.EXPECT().
					Expire(gomock.Any(), "79927398713").
					Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Notification accepted",
		},
		{
			name: "Unknown order code",
			body: `{"order_code":"79927398713","amount":"12500.00","status":"paid"}`,
			prepareMock: func() {
				payments.EXPECT().
					Confirm(gomock.Any(), "79927398713", paid).
					Return(paymentservice.ErrUnknownRequest)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Paid amount mismatch",
			body: `{"order_code":"79927398713","amount":"12500.00","status":"paid"}`,
			prepareMock: func() {
				payments.EXPECT().
					Confirm(gomock.Any(), "79927398713", paid).
					Return(paymentservice.ErrAmountMismatch)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:            "Order code fails the check digit",
			body:            `{"order_code":"79927398710","status":"paid"}`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Invalid order code",
		},
		{
			name:            "Unparseable amount",
			body:            `{"order_code":"79927398713","amount":"a lot","status":"paid"}`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Invalid amount",
		},
		{
			name:            "Unknown payment status",
			body:            `{"order_code":"79927398713","status":"refunded"}`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Unknown payment status",
		},
		{
			name:            "Invalid request body",
			body:            `{invalid json`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/callbacks/gateway", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()

			handler.GatewayWebhook(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedMessage != "" {
				var resp utils.Response
				_ = json.NewDecoder(w.Body).Decode(&resp)
				assert.Equal(t, tt.expectedMessage, resp.Message)
			}
		})
	}
}
