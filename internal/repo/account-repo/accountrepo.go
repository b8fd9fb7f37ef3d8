package accountrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/internal/pg"
)

// ErrEntryExists signals that an entry with the same idempotency key
// (reserve per order, settlement per order, credit per payment) is already
// in the ledger.
var ErrEntryExists = errors.New("ledger entry already exists")

const uniqueViolationCode = "23505"

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) GetAccountByUserID(ctx context.Context, userID int) (*domain.Account, error) {
	query := `
        SELECT id, user_id, balance, frozen
        FROM accounts
        WHERE user_id = $1
    `
	return r.scanAccount(r.db.QueryRow(ctx, query, userID))
}

// GetAccountForUpdate locks the account row for the rest of the enclosing
// transaction, linearizing concurrent wallet operations on one account.
func (r *Repository) GetAccountForUpdate(ctx context.Context, userID int) (*domain.Account, error) {
	query := `
        SELECT id, user_id, balance, frozen
        FROM accounts
        WHERE user_id = $1
        FOR UPDATE
    `
	return r.scanAccount(r.db.QueryRow(ctx, query, userID))
}

func (r *Repository) LockAccountByID(ctx context.Context, accountID int) (*domain.Account, error) {
	query := `
        SELECT id, user_id, balance, frozen
        FROM accounts
        WHERE id = $1
        FOR UPDATE
    `
	return r.scanAccount(r.db.QueryRow(ctx, query, accountID))
}

func (r *Repository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.UserID, &account.Balance, &account.Frozen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) CreateAccount(ctx context.Context, userID int) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (user_id, balance, frozen)
        VALUES ($1, 0, 0)
        RETURNING id, user_id, balance, frozen
    `
	row := r.db.QueryRow(ctx, query, userID)
	var account domain.Account
	err := row.Scan(&account.ID, &account.UserID, &account.Balance, &account.Frozen)
	if err != nil {
		zap.L().Error("can't create account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	query := `
        UPDATE accounts
        SET balance = $1, frozen = $2
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, account.Balance, account.Frozen, account.ID)
	if err != nil {
		zap.L().Error("can't update account", zap.Error(err))
		return err
	}
	return nil
}

// AppendEntry writes an immutable row to the ledger. A uniqueness conflict
// on the entry's idempotency key comes back as ErrEntryExists.
func (r *Repository) AppendEntry(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	query := `
        INSERT INTO ledger_entries (account_id, kind, amount, order_id, payment_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query, entry.AccountID, entry.Kind, entry.Amount, entry.OrderID, entry.PaymentID)
	err := row.Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrEntryExists
		}
		zap.L().Error("can't append ledger entry", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func (r *Repository) FindReserveByOrderID(ctx context.Context, orderID int) (*domain.LedgerEntry, error) {
	query := `
        SELECT id, account_id, kind, amount, order_id, payment_id, created_at
        FROM ledger_entries
        WHERE order_id = $1 AND kind = 'reserve'
    `
	return r.scanEntry(r.db.QueryRow(ctx, query, orderID))
}

// FindSettlementByOrderID returns the commit or release entry that resolved
// the order's reservation, or nil while the reservation is unresolved.
func (r *Repository) FindSettlementByOrderID(ctx context.Context, orderID int) (*domain.LedgerEntry, error) {
	query := `
        SELECT id, account_id, kind, amount, order_id, payment_id, created_at
        FROM ledger_entries
        WHERE order_id = $1 AND kind IN ('commit', 'release')
    `
	return r.scanEntry(r.db.QueryRow(ctx, query, orderID))
}

func (r *Repository) FindCreditByPaymentID(ctx context.Context, paymentID string) (*domain.LedgerEntry, error) {
	query := `
        SELECT id, account_id, kind, amount, order_id, payment_id, created_at
        FROM ledger_entries
        WHERE payment_id = $1 AND kind = 'credit'
    `
	return r.scanEntry(r.db.QueryRow(ctx, query, paymentID))
}

func (r *Repository) scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	err := row.Scan(&entry.ID, &entry.AccountID, &entry.Kind, &entry.Amount, &entry.OrderID, &entry.PaymentID, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get ledger entry", zap.Error(err))
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) ListEntriesByAccountID(ctx context.Context, accountID int) ([]domain.LedgerEntry, error) {
	query := `
        SELECT id, account_id, kind, amount, order_id, payment_id, created_at
        FROM ledger_entries
        WHERE account_id = $1
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		zap.L().Error("can't list ledger entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Kind, &entry.Amount, &entry.OrderID, &entry.PaymentID, &entry.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan ledger entry row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReplayAccount recomputes the balance pair from the ledger alone. Reserve
// freezes, release unfreezes, commit spends frozen funds, credit adds to
// the balance. Used to verify the materialized pair.
func (r *Repository) ReplayAccount(ctx context.Context, accountID int) (balance int64, frozen int64, err error) {
	query := `
        SELECT kind, amount
        FROM ledger_entries
        WHERE account_id = $1
        ORDER BY created_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		zap.L().Error("can't replay ledger entries", zap.Error(err))
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var amount int64
		if err := rows.Scan(&kind, &amount); err != nil {
			zap.L().Error("can't scan ledger entry row", zap.Error(err))
			return 0, 0, err
		}
		switch kind {
		case "reserve":
			frozen += amount
		case "release":
			frozen -= amount
		case "commit":
			frozen -= amount
			balance -= amount
		case "credit":
			balance += amount
		}
	}
	// A truncated replay would fake a mismatch (or hide one), so iteration
	// errors are fatal here.
	if err := rows.Err(); err != nil {
		zap.L().Error("can't replay ledger entries", zap.Error(err))
		return 0, 0, err
	}
	return balance, frozen, nil
}
