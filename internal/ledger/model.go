package ledger

import "time"

// Instrument is the payment method a booking or purchase settles with:
// wallet credits or one of the pre-purchased token types.
type Instrument string

const (
	InstrumentCredits          Instrument = "credits"
	InstrumentPrivateToken     Instrument = "private_token"
	InstrumentPublicToken      Instrument = "public_token"
	InstrumentSemiPrivateToken Instrument = "semi_private_token"
	InstrumentWorkoutDayToken  Instrument = "workout_day_token"
)

func (i Instrument) IsToken() bool {
	return i != InstrumentCredits
}

// Balance holds a member's funding instruments. Counters never go below
// zero; an operation that would do so fails validation instead.
type Balance struct {
	ID                int       `db:"id" json:"id"`
	UserID            int       `db:"user_id" json:"user_id"`
	WalletCredits     int64     `db:"wallet_credits" json:"wallet_credits"`
	PrivateTokens     int       `db:"private_tokens" json:"private_tokens"`
	PublicTokens      int       `db:"public_tokens" json:"public_tokens"`
	SemiPrivateTokens int       `db:"semi_private_tokens" json:"semi_private_tokens"`
	WorkoutDayTokens  int       `db:"workout_day_tokens" json:"workout_day_tokens"`
	IsFree            bool      `db:"is_free" json:"is_free"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// TokenCount returns the counter for a token instrument, 0 for credits.
func (b Balance) TokenCount(i Instrument) int {
	switch i {
	case InstrumentPrivateToken:
		return b.PrivateTokens
	case InstrumentPublicToken:
		return b.PublicTokens
	case InstrumentSemiPrivateToken:
		return b.SemiPrivateTokens
	case InstrumentWorkoutDayToken:
		return b.WorkoutDayTokens
	default:
		return 0
	}
}

func (b *Balance) addTokens(i Instrument, delta int) {
	switch i {
	case InstrumentPrivateToken:
		b.PrivateTokens += delta
	case InstrumentPublicToken:
		b.PublicTokens += delta
	case InstrumentSemiPrivateToken:
		b.SemiPrivateTokens += delta
	case InstrumentWorkoutDayToken:
		b.WorkoutDayTokens += delta
	}
}

const (
	EntryBookingPayment = "booking_payment"
	EntryBookingRefund  = "booking_refund"
	EntryMarketPayment  = "market_payment"
	EntryMarketRefund   = "market_refund"
	EntryTopUp          = "topup"
	EntryAdminGrant     = "admin_grant"
)

// Entry is an immutable audit-log record of a balance-affecting event.
// Amount is signed: negative for charges, positive for refunds and grants.
// For credit entries it is a credit amount and BalanceAfter is the wallet;
// for token entries it is a token count and BalanceAfter is the counter of
// that token type.
type Entry struct {
	ID           int        `db:"id" json:"id"`
	UserID       int        `db:"user_id" json:"user_id"`
	Label        string     `db:"label" json:"label"`
	EntryType    string     `db:"entry_type" json:"entry_type"`
	Instrument   Instrument `db:"instrument" json:"instrument"`
	Amount       int64      `db:"amount" json:"amount"`
	BalanceAfter int64      `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type RevenueStatsByDay struct {
	Bucket          string `db:"bucket" json:"bucket"`
	CreditsCharged  int64  `db:"credits_charged" json:"credits_charged"`
	CreditsRefunded int64  `db:"credits_refunded" json:"credits_refunded"`
	TokensSpent     int64  `db:"tokens_spent" json:"tokens_spent"`
}
