package dto

import "time"

type CreatePaymentRequestDTO struct {
	XuAmount int64 `json:"xu_amount" example:"50"`
}

type CreatePaymentResponseDTO struct {
	OrderCode   string `json:"order_code" example:"237722562489"`
	XuAmount    int64  `json:"xu_amount" example:"50"`
	FiatAmount  string `json:"fiat_amount" example:"12500.00"`
	CheckoutURL string `json:"checkout_url" example:"https://pay.example.com/c/237722562489"`
}

type PaymentResponseDTO struct {
	OrderCode  string    `json:"order_code" example:"237722562489"`
	XuAmount   int64     `json:"xu_amount" example:"50"`
	FiatAmount string    `json:"fiat_amount" example:"12500.00"`
	Status     string    `json:"status" example:"paid"`
	CreatedAt  time.Time `json:"created_at" example:"2024-12-09T16:09:57+03:00"`
}

type GatewayWebhookDTO struct {
	OrderCode string `json:"order_code" example:"237722562489"`
	Amount    string `json:"amount" example:"12500.00"`
	Status    string `json:"status" example:"paid"`
}
