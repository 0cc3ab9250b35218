package market

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateItem(ctx context.Context, name string, priceCredits int64, quantity int) (*Item, error)
	GetItemByID(ctx context.Context, id int) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id int) error

	GetItemForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*Item, error)
	AdjustStock(ctx context.Context, tx *sqlx.Tx, id, delta int) error
}
