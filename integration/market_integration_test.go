package booking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fitstudio/internal/ledger"
	"fitstudio/internal/market"
)

func TestMarketPurchase_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	ctx := context.Background()
	ledgerRepo := ledger.NewRepository(db)
	marketRepo := market.NewRepository(db)
	svc := market.NewService(db, marketRepo, ledgerRepo)

	userID := createTestUser(t, db, "shopper@test.com", "Shopper")
	_, err := ledgerRepo.CreateBalance(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, ledgerRepo.TopUp(ctx, userID, 40))

	item, err := marketRepo.CreateItem(ctx, "Protein Shake", 15, 2)
	require.NoError(t, err)

	resp, err := svc.Purchase(ctx, userID, item.ID)
	require.NoError(t, err)
	require.Equal(t, int64(15), resp.AmountCharged)
	require.Equal(t, int64(25), resp.WalletCredits)
	require.Equal(t, 1, resp.RemainingStock)

	// Second purchase drains the stock.
	_, err = svc.Purchase(ctx, userID, item.ID)
	require.NoError(t, err)

	_, err = svc.Purchase(ctx, userID, item.ID)
	require.ErrorIs(t, err, market.ErrOutOfStock)
}

func TestMarketPurchaseInsufficientCredits_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	ctx := context.Background()
	ledgerRepo := ledger.NewRepository(db)
	marketRepo := market.NewRepository(db)
	svc := market.NewService(db, marketRepo, ledgerRepo)

	userID := createTestUser(t, db, "broke@test.com", "No Credits")
	_, err := ledgerRepo.CreateBalance(ctx, userID)
	require.NoError(t, err)

	item, err := marketRepo.CreateItem(ctx, "Towel", 10, 5)
	require.NoError(t, err)

	_, err = svc.Purchase(ctx, userID, item.ID)
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	// Stock is untouched after the failed purchase.
	fresh, err := marketRepo.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 5, fresh.Quantity)
}
