package admin

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/quangtd/vidxu/internal/dto"
	"github.com/quangtd/vidxu/internal/service/walletservice"
	"github.com/quangtd/vidxu/pkg/utils"
)

type Wallet interface {
	Credit(ctx context.Context, userID int, amount int64, paymentID string) error
}

// AdminHandler is the operator surface. It is guarded by a static service
// token, not by user JWTs.
type AdminHandler struct {
	wallet Wallet
	token  string
}

func New(wallet Wallet, token string) *AdminHandler {
	return &AdminHandler{
		wallet: wallet,
		token:  token,
	}
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	header := r.Header.Get("Authorization")
	got := strings.TrimPrefix(header, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

// Credit godoc
//
//	@Summary		Manual wallet credit
//	@Description	Credit a user's wallet outside the gateway flow, keyed by an operator-supplied payment id. Replaying the same payment id is a no-op.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.AdminCreditRequestDTO	true	"Credit payload"
//	@Success		200		{object}	utils.Response				"Credit applied"
//	@Failure		400		{object}	utils.Response				"Invalid request body"
//	@Failure		401		{object}	utils.Response				"Missing or wrong service token"
//	@Failure		404		{object}	utils.Response				"Account not found"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/admin/credit [post]
func (h *AdminHandler) Credit(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.AdminCreditRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID <= 0 || req.PaymentID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "User id and payment id are required")
		return
	}

	err := h.wallet.Credit(r.Context(), req.UserID, req.Amount, req.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrDuplicateCredit):
			utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Credit already applied"})
		case errors.Is(err, walletservice.ErrAccountNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, walletservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Credit applied"})
}
