package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrecedence(t *testing.T) {
	individual := Pricing{Credits: 30, Group: false}
	group := Pricing{Credits: 20, Group: true}
	semiPrivate := Pricing{Credits: 25, Group: true, SemiPrivate: true}
	workoutDay := Pricing{Credits: 15, Group: true, WorkoutDay: true}

	tests := []struct {
		name           string
		balance        Balance
		pricing        Pricing
		wantInstrument Instrument
		wantCharged    int64
	}{
		{
			name:           "individual with private token",
			balance:        Balance{WalletCredits: 100, PrivateTokens: 2},
			pricing:        individual,
			wantInstrument: InstrumentPrivateToken,
			wantCharged:    0,
		},
		{
			name:           "individual token beats free status",
			balance:        Balance{WalletCredits: 0, PrivateTokens: 1, IsFree: true},
			pricing:        individual,
			wantInstrument: InstrumentPrivateToken,
			wantCharged:    0,
		},
		{
			name:           "individual token beats wallet",
			balance:        Balance{WalletCredits: 1000, PrivateTokens: 1},
			pricing:        individual,
			wantInstrument: InstrumentPrivateToken,
			wantCharged:    0,
		},
		{
			name:           "individual without token falls to wallet",
			balance:        Balance{WalletCredits: 100, PublicTokens: 5},
			pricing:        individual,
			wantInstrument: InstrumentCredits,
			wantCharged:    30,
		},
		{
			name:           "group with public token",
			balance:        Balance{WalletCredits: 100, PublicTokens: 1},
			pricing:        group,
			wantInstrument: InstrumentPublicToken,
			wantCharged:    0,
		},
		{
			name:           "group ignores private tokens",
			balance:        Balance{WalletCredits: 100, PrivateTokens: 3},
			pricing:        group,
			wantInstrument: InstrumentCredits,
			wantCharged:    20,
		},
		{
			name:           "semi-private group uses semi-private token",
			balance:        Balance{WalletCredits: 100, PublicTokens: 2, SemiPrivateTokens: 1},
			pricing:        semiPrivate,
			wantInstrument: InstrumentSemiPrivateToken,
			wantCharged:    0,
		},
		{
			name:           "semi-private group does not consume public token",
			balance:        Balance{WalletCredits: 100, PublicTokens: 2},
			pricing:        semiPrivate,
			wantInstrument: InstrumentCredits,
			wantCharged:    25,
		},
		{
			name:           "workout-of-day group uses workout-day token",
			balance:        Balance{WalletCredits: 100, WorkoutDayTokens: 1, PublicTokens: 1},
			pricing:        workoutDay,
			wantInstrument: InstrumentWorkoutDayToken,
			wantCharged:    0,
		},
		{
			name:           "free user without token books at zero cost",
			balance:        Balance{WalletCredits: 0, IsFree: true},
			pricing:        individual,
			wantInstrument: InstrumentCredits,
			wantCharged:    0,
		},
		{
			name:           "free status beats wallet",
			balance:        Balance{WalletCredits: 1000, IsFree: true},
			pricing:        group,
			wantInstrument: InstrumentCredits,
			wantCharged:    0,
		},
		{
			name:           "wallet exactly at price",
			balance:        Balance{WalletCredits: 30},
			pricing:        individual,
			wantInstrument: InstrumentCredits,
			wantCharged:    30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.balance, tt.pricing)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInstrument, res.Instrument)
			assert.Equal(t, tt.wantCharged, res.AmountCharged)
		})
	}
}

func TestResolveInsufficientFunds(t *testing.T) {
	tests := []struct {
		name    string
		balance Balance
		pricing Pricing
	}{
		{"empty balance, individual", Balance{}, Pricing{Credits: 30}},
		{"wallet below price", Balance{WalletCredits: 29}, Pricing{Credits: 30}},
		{"wrong token type only", Balance{PrivateTokens: 3}, Pricing{Credits: 20, Group: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.balance, tt.pricing)
			assert.ErrorIs(t, err, ErrInsufficientFunds)
		})
	}
}

func TestResolveNeverMutatesInput(t *testing.T) {
	bal := Balance{WalletCredits: 100, PrivateTokens: 1}
	res, err := Resolve(bal, Pricing{Credits: 30})
	require.NoError(t, err)

	assert.Equal(t, 1, bal.PrivateTokens)
	assert.Equal(t, 0, res.NewBalance.PrivateTokens)
	assert.Equal(t, int64(100), res.NewBalance.WalletCredits)
}

func TestResolveComputesNewBalance(t *testing.T) {
	t.Run("credit charge debits wallet", func(t *testing.T) {
		res, err := Resolve(Balance{WalletCredits: 50}, Pricing{Credits: 30})
		require.NoError(t, err)
		assert.Equal(t, int64(20), res.NewBalance.WalletCredits)
	})

	t.Run("free user wallet untouched", func(t *testing.T) {
		res, err := Resolve(Balance{WalletCredits: 50, IsFree: true}, Pricing{Credits: 30})
		require.NoError(t, err)
		assert.Equal(t, int64(50), res.NewBalance.WalletCredits)
	})
}

func TestRefundRoundTrip(t *testing.T) {
	pricings := []Pricing{
		{Credits: 30},
		{Credits: 20, Group: true},
		{Credits: 25, Group: true, SemiPrivate: true},
		{Credits: 15, Group: true, WorkoutDay: true},
	}
	balances := []Balance{
		{WalletCredits: 100},
		{WalletCredits: 100, PrivateTokens: 1},
		{WalletCredits: 100, PublicTokens: 2},
		{WalletCredits: 100, SemiPrivateTokens: 1, WorkoutDayTokens: 1},
		{WalletCredits: 0, IsFree: true},
	}

	// cancel(book(s)) == identity on balances, for every instrument
	for _, p := range pricings {
		for _, bal := range balances {
			res, err := Resolve(bal, p)
			if err != nil {
				continue
			}
			restored := Refund(res.NewBalance, res.Instrument, res.AmountCharged)
			assert.Equal(t, bal, restored, "pricing %+v balance %+v", p, bal)
		}
	}
}

func TestRefundUsesStoredInstrument(t *testing.T) {
	// The activity price may have changed since booking; the refund must
	// credit back the recorded amount, not the current price.
	bal := Balance{WalletCredits: 10}
	restored := Refund(bal, InstrumentCredits, 30)
	assert.Equal(t, int64(40), restored.WalletCredits)

	restored = Refund(bal, InstrumentSemiPrivateToken, 0)
	assert.Equal(t, 1, restored.SemiPrivateTokens)
	assert.Equal(t, int64(10), restored.WalletCredits)
}
