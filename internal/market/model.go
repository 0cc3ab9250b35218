package market

import "time"

// Item is a shop product (gloves, towels, drinks) sold for wallet credits,
// either standalone or attached to a booking as an add-on.
type Item struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	PriceCredits int64     `db:"price_credits" json:"price_credits"`
	Quantity     int       `db:"quantity" json:"quantity"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CreateItemRequest struct {
	Name         string `json:"name" binding:"required"`
	PriceCredits int64  `json:"price_credits" binding:"min=0"`
	Quantity     int    `json:"quantity" binding:"min=0"`
}

type PurchaseRequest struct {
	ItemID int `json:"item_id" binding:"required"`
}

type PurchaseResponse struct {
	Item           Item  `json:"item"`
	AmountCharged  int64 `json:"amount_charged"`
	WalletCredits  int64 `json:"wallet_credits"`
	RemainingStock int   `json:"remaining_stock"`
}
