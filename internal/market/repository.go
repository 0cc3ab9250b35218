package market

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrItemNotFound = errors.New("market item not found")
	ErrOutOfStock   = errors.New("market item out of stock")
)

const itemColumns = `id, name, price_credits, quantity, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateItem(ctx context.Context, name string, priceCredits int64, quantity int) (*Item, error) {
	query := `
		INSERT INTO market_items (name, price_credits, quantity)
		VALUES ($1, $2, $3)
		RETURNING ` + itemColumns

	var item Item
	err := r.db.GetContext(ctx, &item, query, name, priceCredits, quantity)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) GetItemByID(ctx context.Context, id int) (*Item, error) {
	var item Item
	err := r.db.GetContext(ctx, &item,
		`SELECT `+itemColumns+` FROM market_items WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+itemColumns+` FROM market_items ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) UpdateItem(ctx context.Context, item *Item) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE market_items
		SET name = $1, price_credits = $2, quantity = $3
		WHERE id = $4
	`, item.Name, item.PriceCredits, item.Quantity, item.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) DeleteItem(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM market_items WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) GetItemForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*Item, error) {
	var item Item
	err := tx.QueryRowxContext(ctx,
		`SELECT `+itemColumns+` FROM market_items WHERE id = $1 FOR UPDATE`, id).StructScan(&item)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// AdjustStock moves the quantity by delta (negative for a sale, positive
// for a restock or refund). The CHECK constraint on quantity turns an
// oversell into ErrOutOfStock instead of a negative counter.
func (r *repository) AdjustStock(ctx context.Context, tx *sqlx.Tx, id, delta int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE market_items SET quantity = quantity + $1 WHERE id = $2`, delta, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "check_violation" {
			return ErrOutOfStock
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}
