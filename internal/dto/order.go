package dto

import "time"

type CreateOrderRequestDTO struct {
	Service string            `json:"service" example:"text-to-video"`
	Inputs  map[string]string `json:"inputs"`
}

type OrderResponseDTO struct {
	ID         int       `json:"id" example:"42"`
	ServiceID  int       `json:"service_id" example:"1"`
	Cost       int64     `json:"cost" example:"40"`
	Status     string    `json:"status" example:"processing"`
	FailReason *string   `json:"fail_reason,omitempty" example:"insufficient funds"`
	CreatedAt  time.Time `json:"created_at" example:"2024-12-09T16:09:57+03:00"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-12-09T16:10:57+03:00"`
}

type ProviderCallbackDTO struct {
	JobID   string `json:"job_id" example:"job-8f4c"`
	OrderID int    `json:"order_id" example:"42"`
	Status  string `json:"status" example:"succeeded"`
	Error   string `json:"error,omitempty" example:"nsfw content rejected"`
}
