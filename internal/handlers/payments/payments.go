package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/dto"
	"github.com/quangtd/vidxu/internal/gateway"
	paymentservice "github.com/quangtd/vidxu/internal/service/paymentservice"
	"github.com/quangtd/vidxu/pkg/auth"
	"github.com/quangtd/vidxu/pkg/utils"
)

type Service interface {
	CreateRequest(ctx context.Context, userID int, xuAmount int64) (*domain.PaymentRequest, string, error)
	GetRequests(ctx context.Context, userID int) ([]domain.PaymentRequest, error)
}

type PaymentHandler struct {
	paymentService Service
}

func New(paymentService Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePayment godoc
//
//	@Summary		Request a Xu top-up
//	@Description	Create a payment request for the given Xu amount and get a gateway checkout URL for the fiat equivalent.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreatePaymentRequestDTO		true	"Top-up request payload"
//	@Success		201		{object}	dto.CreatePaymentResponseDTO	"Checkout created"
//	@Failure		400		{object}	utils.Response					"Invalid request body"
//	@Failure		401		{object}	utils.Response					"User not authorized"
//	@Failure		422		{object}	utils.Response					"Amount below the minimum top-up"
//	@Failure		502		{object}	utils.Response					"Gateway checkout failed"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/user/payments [post]
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreatePaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	request, checkoutURL, err := h.paymentService.CreateRequest(r.Context(), userID, req.XuAmount)
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrBelowMinimum):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, gateway.ErrCheckout):
			utils.RespondWithError(w, http.StatusBadGateway, "Gateway checkout failed")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.CreatePaymentResponseDTO{
		OrderCode:   request.GatewayOrderCode,
		XuAmount:    request.XuAmount,
		FiatAmount:  request.FiatAmount.StringFixed(2),
		CheckoutURL: checkoutURL,
	})
}

// GetPayments godoc
//
//	@Summary		Get top-up history
//	@Description	Get payment requests of the authenticated user, newest first.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.PaymentResponseDTO	"Payment requests"
//	@Success		204	{object}	utils.Response			"No payment requests yet"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/payments [get]
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	requests, err := h.paymentService.GetRequests(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}
	if len(requests) == 0 {
		utils.RespondWithJSON(w, http.StatusNoContent, nil)
		return
	}

	resp := make([]dto.PaymentResponseDTO, 0, len(requests))
	for _, request := range requests {
		resp = append(resp, dto.PaymentResponseDTO{
			OrderCode:  request.GatewayOrderCode,
			XuAmount:   request.XuAmount,
			FiatAmount: request.FiatAmount.StringFixed(2),
			Status:     request.Status,
			CreatedAt:  request.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
