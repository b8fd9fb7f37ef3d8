package dto

import "time"

type WalletResponseDTO struct {
	Balance   int64 `json:"balance" example:"100"`
	Frozen    int64 `json:"frozen" example:"40"`
	Available int64 `json:"available" example:"60"`
}

type LedgerEntryResponseDTO struct {
	ID        int       `json:"id" example:"17"`
	Kind      string    `json:"kind" example:"reserve"`
	Amount    int64     `json:"amount" example:"40"`
	OrderID   *int      `json:"order_id,omitempty" example:"42"`
	PaymentID *string   `json:"payment_id,omitempty" example:"1021"`
	CreatedAt time.Time `json:"created_at" example:"2024-12-09T16:09:57+03:00"`
}

type AdminCreditRequestDTO struct {
	UserID    int    `json:"user_id" example:"7"`
	Amount    int64  `json:"amount" example:"100"`
	PaymentID string `json:"payment_id" example:"manual-2024-12-09-7"`
}
