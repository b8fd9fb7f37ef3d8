package wallet

import (
	"context"
	"net/http"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/dto"
	"github.com/quangtd/vidxu/pkg/auth"
	"github.com/quangtd/vidxu/pkg/utils"
)

type Service interface {
	GetBalance(ctx context.Context, userID int) (*domain.Account, error)
	GetLedger(ctx context.Context, userID int) ([]domain.LedgerEntry, error)
}

type WalletHandler struct {
	walletService Service
}

func New(walletService Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetWallet godoc
//
//	@Summary		Get current wallet state
//	@Description	Retrieve the Xu balance, the amount frozen against open orders and the spendable remainder.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.WalletResponseDTO	"Current wallet state"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/wallet [get]
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	account, err := h.walletService.GetBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WalletResponseDTO{
		Balance:   account.Balance,
		Frozen:    account.Frozen,
		Available: account.Available(),
	})
}

// GetLedger godoc
//
//	@Summary		Get wallet ledger
//	@Description	Get the append-only list of wallet movements for the authenticated user, newest first.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.LedgerEntryResponseDTO	"Ledger entries"
//	@Success		204	{object}	utils.Response				"No entries yet"
//	@Failure		401	{object}	utils.Response				"User not authorized"
//	@Failure		500	{object}	utils.Response				"Internal server error"
//	@Router			/api/user/wallet/ledger [get]
func (h *WalletHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	entries, err := h.walletService.GetLedger(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch ledger")
		return
	}
	if len(entries) == 0 {
		utils.RespondWithJSON(w, http.StatusNoContent, nil)
		return
	}

	resp := make([]dto.LedgerEntryResponseDTO, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.LedgerEntryResponseDTO{
			ID:        entry.ID,
			Kind:      entry.Kind,
			Amount:    entry.Amount,
			OrderID:   entry.OrderID,
			PaymentID: entry.PaymentID,
			CreatedAt: entry.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
