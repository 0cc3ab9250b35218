package market

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fitstudio/internal/db"
	"fitstudio/internal/ledger"
	"fitstudio/internal/metrics"
)

type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	UpdateItem(ctx context.Context, id int, req CreateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, id int) error
	Purchase(ctx context.Context, userID, itemID int) (*PurchaseResponse, error)
}

type service struct {
	db     *sqlx.DB
	repo   Repository
	ledger ledger.Repository
}

func NewService(database *sqlx.DB, repo Repository, ledgerRepo ledger.Repository) Service {
	return &service{db: database, repo: repo, ledger: ledgerRepo}
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	return s.repo.CreateItem(ctx, req.Name, req.PriceCredits, req.Quantity)
}

func (s *service) ListItems(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *service) UpdateItem(ctx context.Context, id int, req CreateItemRequest) (*Item, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.PriceCredits = req.PriceCredits
	item.Quantity = req.Quantity

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id int) error {
	return s.repo.DeleteItem(ctx, id)
}

// Purchase sells one unit of an item for wallet credits. Balance and item
// rows are locked in that order and the stock decrement, wallet debit and
// ledger entry commit together or not at all.
func (s *service) Purchase(ctx context.Context, userID, itemID int) (*PurchaseResponse, error) {
	var resp *PurchaseResponse

	err := db.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		bal, err := s.ledger.GetBalanceForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		item, err := s.repo.GetItemForUpdate(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item.Quantity < 1 {
			return ErrOutOfStock
		}

		if bal.WalletCredits < item.PriceCredits {
			return ledger.ErrInsufficientFunds
		}

		if err := s.repo.AdjustStock(ctx, tx, item.ID, -1); err != nil {
			return err
		}

		bal.WalletCredits -= item.PriceCredits
		if err := s.ledger.SaveBalance(ctx, tx, bal); err != nil {
			return err
		}

		if _, err := s.ledger.InsertEntry(ctx, tx, ledger.Entry{
			UserID:       userID,
			Label:        fmt.Sprintf("market purchase: %s", item.Name),
			EntryType:    ledger.EntryMarketPayment,
			Instrument:   ledger.InstrumentCredits,
			Amount:       -item.PriceCredits,
			BalanceAfter: bal.WalletCredits,
		}); err != nil {
			return err
		}

		item.Quantity--
		resp = &PurchaseResponse{
			Item:           *item,
			AmountCharged:  item.PriceCredits,
			WalletCredits:  bal.WalletCredits,
			RemainingStock: item.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMarketPurchase()
	return resp, nil
}
