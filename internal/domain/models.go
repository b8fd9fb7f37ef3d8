package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Account holds the materialized wallet state for one user. Balance is the
// total Xu owned, Frozen is the part held against open orders. The pair must
// stay replayable from the account's ledger entries.
type Account struct {
	ID      int   `db:"id"`
	UserID  int   `db:"user_id"`
	Balance int64 `db:"balance"`
	Frozen  int64 `db:"frozen"`
}

// Available is the amount the user can still spend or reserve.
func (a *Account) Available() int64 {
	return a.Balance - a.Frozen
}

// LedgerEntry is one immutable row of the wallet audit trail. Entries are
// append-only; the live balance pair is derived from them, never the other
// way around.
type LedgerEntry struct {
	ID        int       `db:"id"`
	AccountID int       `db:"account_id"`
	Kind      string    `db:"kind"`
	Amount    int64     `db:"amount"`
	OrderID   *int      `db:"order_id"`
	PaymentID *string   `db:"payment_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Order struct {
	ID             int       `db:"id"`
	UserID         int       `db:"user_id"`
	ServiceID      int       `db:"service_id"`
	Cost           int64     `db:"cost"`
	Status         string    `db:"status"`
	FailReason     *string   `db:"fail_reason"`
	ExternalJobRef *string   `db:"external_job_ref"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type PaymentRequest struct {
	ID               int             `db:"id"`
	UserID           int             `db:"user_id"`
	XuAmount         int64           `db:"xu_amount"`
	FiatAmount       decimal.Decimal `db:"fiat_amount"`
	GatewayOrderCode string          `db:"gateway_order_code"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// Service is a catalog item users can order a video job for. Owned by admin
// tooling; the core only reads it.
type Service struct {
	ID       int    `db:"id"`
	Slug     string `db:"slug"`
	Name     string `db:"name"`
	Cost     int64  `db:"cost"`
	IsActive bool   `db:"is_active"`
}
