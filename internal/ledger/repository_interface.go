package ledger

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateBalance(ctx context.Context, userID int) (*Balance, error)
	GetBalance(ctx context.Context, userID int) (*Balance, error)
	GetBalanceForUpdate(ctx context.Context, tx *sqlx.Tx, userID int) (*Balance, error)
	SaveBalance(ctx context.Context, tx *sqlx.Tx, bal *Balance) error
	InsertEntry(ctx context.Context, tx *sqlx.Tx, e Entry) (*Entry, error)
	TopUp(ctx context.Context, userID int, credits int64) error
	Grant(ctx context.Context, userID int, instrument Instrument, amount int64, label string) error
	SetFree(ctx context.Context, userID int, isFree bool) (*Balance, error)
	ListEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error)
	GetRevenueStatsByDay(ctx context.Context, from, to time.Time) ([]RevenueStatsByDay, error)
}
