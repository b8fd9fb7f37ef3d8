package callbacks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quangtd/vidxu/internal/dto"
	orderservice "github.com/quangtd/vidxu/internal/service/orderservice"
	paymentservice "github.com/quangtd/vidxu/internal/service/paymentservice"
	"github.com/quangtd/vidxu/pkg/utils"
	"github.com/quangtd/vidxu/pkg/validate"
)

type Orders interface {
	OnProviderResult(ctx context.Context, orderID int, success bool, reason string) error
}

type Payments interface {
	Confirm(ctx context.Context, orderCode string, paidFiat decimal.Decimal) error
	Expire(ctx context.Context, orderCode string) error
}

// CallbackHandler receives asynchronous results from the video provider and
// the payment gateway. Both peers deliver at least once, so every branch
// here must tolerate replays.
type CallbackHandler struct {
	orderService   Orders
	paymentService Payments
}

func New(orderService Orders, paymentService Payments) *CallbackHandler {
	return &CallbackHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// ProviderResult godoc
//
//	@Summary		Provider job result callback
//	@Description	Settle an order from the provider's terminal job outcome. Duplicate deliveries are acknowledged without side effects.
//	@Tags			Callbacks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ProviderCallbackDTO	true	"Job result payload"
//	@Success		200		{object}	utils.Response			"Result accepted"
//	@Failure		400		{object}	utils.Response			"Invalid request body"
//	@Failure		404		{object}	utils.Response			"Order not found"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/callbacks/provider [post]
func (h *CallbackHandler) ProviderResult(w http.ResponseWriter, r *http.Request) {
	var req dto.ProviderCallbackDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrderID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order id is required")
		return
	}

	var success bool
	switch req.Status {
	case "succeeded":
		success = true
	case "failed":
		success = false
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown job status")
		return
	}

	err := h.orderService.OnProviderResult(r.Context(), req.OrderID, success, req.Error)
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrOrderNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orderservice.ErrInvalidTransition):
			// The order is already settled, ack so the provider stops retrying.
			utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Already settled"})
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Result accepted"})
}

// GatewayWebhook godoc
//
//	@Summary		Payment gateway webhook
//	@Description	Confirm or expire a payment request from a gateway status notification. Confirmations credit the wallet exactly once.
//	@Tags			Callbacks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.GatewayWebhookDTO	true	"Gateway notification payload"
//	@Success		200		{object}	utils.Response			"Notification accepted"
//	@Failure		400		{object}	utils.Response			"Invalid request body"
//	@Failure		404		{object}	utils.Response			"Unknown order code"
//	@Failure		409		{object}	utils.Response			"Paid amount mismatch"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/callbacks/gateway [post]
func (h *CallbackHandler) GatewayWebhook(w http.ResponseWriter, r *http.Request) {
	var req dto.GatewayWebhookDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validate.IsLuhn(req.OrderCode) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order code")
		return
	}

	var err error
	switch req.Status {
	case "paid":
		var amount decimal.Decimal
		amount, err = decimal.NewFromString(req.Amount)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
		err = h.paymentService.Confirm(r.Context(), req.OrderCode, amount)
	case "cancelled", "expired":
		err = h.paymentService.Expire(r.Context(), req.OrderCode)
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown payment status")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrUnknownRequest):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, paymentservice.ErrAmountMismatch):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Notification accepted"})
}
