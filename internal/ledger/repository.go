package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"fitstudio/internal/db"
)

var ErrBalanceNotFound = errors.New("balance not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const balanceColumns = `id, user_id, wallet_credits, private_tokens, public_tokens,
	semi_private_tokens, workout_day_tokens, is_free, created_at, updated_at`

func (r *repository) CreateBalance(ctx context.Context, userID int) (*Balance, error) {
	bal := &Balance{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO balances (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = balances.updated_at
		 RETURNING `+balanceColumns,
		userID,
	).StructScan(bal)
	if err != nil {
		return nil, err
	}
	return bal, nil
}

func (r *repository) GetBalance(ctx context.Context, userID int) (*Balance, error) {
	bal := &Balance{}
	err := r.db.GetContext(ctx, bal,
		`SELECT `+balanceColumns+` FROM balances WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBalanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return bal, nil
}

// GetBalanceForUpdate locks the member's balance row for the duration of the
// surrounding transaction, serializing concurrent charges by the same user.
func (r *repository) GetBalanceForUpdate(ctx context.Context, tx *sqlx.Tx, userID int) (*Balance, error) {
	bal := &Balance{}
	err := tx.QueryRowxContext(ctx,
		`SELECT `+balanceColumns+`
		 FROM balances
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(bal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBalanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return bal, nil
}

func (r *repository) SaveBalance(ctx context.Context, tx *sqlx.Tx, bal *Balance) error {
	if bal.WalletCredits < 0 || bal.PrivateTokens < 0 || bal.PublicTokens < 0 ||
		bal.SemiPrivateTokens < 0 || bal.WorkoutDayTokens < 0 {
		return ErrInsufficientFunds
	}

	_, err := tx.ExecContext(ctx,
		`UPDATE balances
		 SET wallet_credits = $1,
		     private_tokens = $2,
		     public_tokens = $3,
		     semi_private_tokens = $4,
		     workout_day_tokens = $5,
		     is_free = $6,
		     updated_at = NOW()
		 WHERE user_id = $7`,
		bal.WalletCredits, bal.PrivateTokens, bal.PublicTokens,
		bal.SemiPrivateTokens, bal.WorkoutDayTokens, bal.IsFree, bal.UserID,
	)
	return err
}

func (r *repository) InsertEntry(ctx context.Context, tx *sqlx.Tx, e Entry) (*Entry, error) {
	entry := &Entry{}
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO ledger_entries (user_id, label, entry_type, instrument, amount, balance_after)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, label, entry_type, instrument, amount, balance_after, created_at`,
		e.UserID, e.Label, e.EntryType, e.Instrument, e.Amount, e.BalanceAfter,
	).StructScan(entry)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// TopUp credits the wallet inside its own transaction and records the entry.
func (r *repository) TopUp(ctx context.Context, userID int, credits int64) error {
	if credits <= 0 {
		return errors.New("top up amount must be positive")
	}
	return r.adjust(ctx, userID, InstrumentCredits, credits, "wallet top-up", EntryTopUp)
}

// Grant adjusts one instrument by a signed amount (admin credit/token
// administration). A grant that would push the counter below zero fails
// with ErrInsufficientFunds and commits nothing.
func (r *repository) Grant(ctx context.Context, userID int, instrument Instrument, amount int64, label string) error {
	return r.adjust(ctx, userID, instrument, amount, label, EntryAdminGrant)
}

func (r *repository) adjust(ctx context.Context, userID int, instrument Instrument, amount int64, label, entryType string) error {
	return db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		bal, err := r.GetBalanceForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		var after int64
		if instrument.IsToken() {
			bal.addTokens(instrument, int(amount))
			after = int64(bal.TokenCount(instrument))
		} else {
			bal.WalletCredits += amount
			after = bal.WalletCredits
		}

		if err := r.SaveBalance(ctx, tx, bal); err != nil {
			return err
		}

		_, err = r.InsertEntry(ctx, tx, Entry{
			UserID:       userID,
			Label:        label,
			EntryType:    entryType,
			Instrument:   instrument,
			Amount:       amount,
			BalanceAfter: after,
		})
		return err
	})
}

func (r *repository) SetFree(ctx context.Context, userID int, isFree bool) (*Balance, error) {
	bal := &Balance{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE balances
		 SET is_free = $1, updated_at = NOW()
		 WHERE user_id = $2
		 RETURNING `+balanceColumns,
		isFree, userID,
	).StructScan(bal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBalanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return bal, nil
}

func (r *repository) ListEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []Entry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, label, entry_type, instrument, amount, balance_after, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *repository) GetRevenueStatsByDay(ctx context.Context, from, to time.Time) ([]RevenueStatsByDay, error) {
	query := `
SELECT
  TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS bucket,
  COALESCE(SUM(-amount) FILTER (WHERE instrument = 'credits' AND amount < 0), 0) AS credits_charged,
  COALESCE(SUM(amount)  FILTER (WHERE instrument = 'credits' AND amount > 0 AND entry_type IN ('booking_refund', 'market_refund')), 0) AS credits_refunded,
  COALESCE(SUM(-amount) FILTER (WHERE instrument <> 'credits' AND amount < 0), 0) AS tokens_spent
FROM ledger_entries
WHERE created_at BETWEEN $1 AND $2
GROUP BY DATE(created_at)
ORDER BY bucket;
`
	var stats []RevenueStatsByDay
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}
