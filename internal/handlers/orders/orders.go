package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/dto"
	orderservice "github.com/quangtd/vidxu/internal/service/orderservice"
	"github.com/quangtd/vidxu/internal/service/walletservice"
	"github.com/quangtd/vidxu/pkg/auth"
	"github.com/quangtd/vidxu/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, userID int, slug string) (*domain.Order, error)
	Accept(ctx context.Context, orderID int, inputs map[string]string) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int) (*domain.Order, error)
	GetOrders(ctx context.Context, userID int) ([]domain.Order, error)
	Cancel(ctx context.Context, userID, orderID int) error
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder godoc
//
//	@Summary		Create a video generation order
//	@Description	Open an order for a catalog service, reserve its cost and submit the job to the provider.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateOrderRequestDTO	true	"Order request payload"
//	@Success		202		{object}	dto.OrderResponseDTO		"Order accepted for processing"
//	@Failure		400		{object}	utils.Response				"Invalid request body"
//	@Failure		401		{object}	utils.Response				"User not authorized"
//	@Failure		402		{object}	utils.Response				"Insufficient funds"
//	@Failure		422		{object}	utils.Response				"Service unavailable or unsupported"
//	@Failure		502		{object}	utils.Response				"Provider rejected the job"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/user/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Service == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Service is required")
		return
	}

	order, err := h.orderService.Create(r.Context(), userID, req.Service)
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrServiceUnavailable),
			errors.Is(err, orderservice.ErrUnsupportedService):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	accepted, err := h.orderService.Accept(r.Context(), order.ID, req.Inputs)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, walletservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, toOrderDTO(accepted))
}

// GetOrders godoc
//
//	@Summary		Get user orders
//	@Description	Get the authenticated user's orders, newest first.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.OrderResponseDTO	"User orders"
//	@Success		204	{object}	utils.Response			"No orders yet"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	orders, err := h.orderService.GetOrders(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	if len(orders) == 0 {
		utils.RespondWithJSON(w, http.StatusNoContent, nil)
		return
	}

	resp := make([]dto.OrderResponseDTO, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderDTO(&orders[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetOrder godoc
//
//	@Summary		Get one order
//	@Description	Get a single order owned by the authenticated user.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int						true	"Order ID"
//	@Success		200	{object}	dto.OrderResponseDTO	"Order"
//	@Failure		400	{object}	utils.Response			"Invalid order id"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		404	{object}	utils.Response			"Order not found"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	orderID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, orderservice.ErrOrderNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toOrderDTO(order))
}

// CancelOrder godoc
//
//	@Summary		Cancel a pending order
//	@Description	Cancel an order that has not been submitted to the provider yet.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int				true	"Order ID"
//	@Success		200	{object}	utils.Response	"Order cancelled"
//	@Failure		400	{object}	utils.Response	"Invalid order id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Order already left pending"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	orderID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	err = h.orderService.Cancel(r.Context(), userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrOrderNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orderservice.ErrInvalidTransition):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Order cancelled"})
}

func toOrderDTO(order *domain.Order) dto.OrderResponseDTO {
	return dto.OrderResponseDTO{
		ID:         order.ID,
		ServiceID:  order.ServiceID,
		Cost:       order.Cost,
		Status:     order.Status,
		FailReason: order.FailReason,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}
